package a2a

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Task struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId,omitempty"`
	Status    TaskStatus     `json:"status"`
	History   []Message      `json:"history,omitempty"`
	Artifacts []Artifact     `json:"artifacts,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

/*
NewTaskFromParams builds the initial record for a task that the store has not
seen yet. The submitted message becomes the first history entry.
*/
func NewTaskFromParams(params TaskSendParams) *Task {
	return &Task{
		ID:        params.ID,
		SessionID: params.SessionID,
		Status:    NewTaskStatus(TaskStateSubmitted, nil),
		History:   []Message{*params.Message.Copy()},
		Metadata:  copyMap(params.Metadata),
	}
}

func (task *Task) ToStatus(state TaskState, message *Message) {
	task.Status = NewTaskStatus(state, message.Copy())

	if message != nil {
		task.History = append(task.History, *message.Copy())
	}
}

func (task *Task) LastMessage() *Message {
	if len(task.History) == 0 {
		return nil
	}

	return &task.History[len(task.History)-1]
}

func (task *Task) AddArtifact(artifacts ...Artifact) {
	for _, artifact := range artifacts {
		task.Artifacts = append(task.Artifacts, artifact.Copy())
	}
}

/*
Copy returns a deep copy of the task, so that a caller holding the result
cannot reach back into whatever storage the original lives in.
*/
func (task *Task) Copy() *Task {
	if task == nil {
		return nil
	}

	out := *task
	out.Status.Message = task.Status.Message.Copy()
	out.Metadata = copyMap(task.Metadata)
	out.History = nil
	out.Artifacts = nil

	for _, msg := range task.History {
		out.History = append(out.History, *msg.Copy())
	}

	for _, artifact := range task.Artifacts {
		out.Artifacts = append(out.Artifacts, artifact.Copy())
	}

	return &out
}

/*
WithHistory returns a copy of the task holding only the last length history
entries. A nil length keeps the full history, zero drops it.
*/
func (task *Task) WithHistory(length *int) *Task {
	out := task.Copy()

	if length == nil || out == nil {
		return out
	}

	switch {
	case *length <= 0:
		out.History = nil
	case *length < len(out.History):
		out.History = out.History[len(out.History)-*length:]
	}

	return out
}

// TaskSendParams represents the parameters for sending a task message
type TaskSendParams struct {
	// ID is the unique identifier for the task being initiated or continued
	ID string `json:"id"`
	// SessionID is an optional identifier for the session this task belongs to
	SessionID string `json:"sessionId,omitempty"`
	// Message is the message content to send to the agent for processing
	Message Message `json:"message"`
	// AcceptedOutputModes lists the output modes the client can handle
	AcceptedOutputModes []string `json:"acceptedOutputModes,omitempty"`
	// PushNotification is optional push notification information for receiving notifications
	PushNotification *PushNotificationConfig `json:"pushNotification,omitempty"`
	// HistoryLength is an optional parameter to specify how much message history to include
	HistoryLength *int `json:"historyLength,omitempty"`
	// Metadata is optional metadata associated with sending this message
	Metadata map[string]any `json:"metadata,omitempty"`
}

// TaskIDParams represents the base parameters for task ID-based operations
type TaskIDParams struct {
	// ID is the unique identifier of the task
	ID string `json:"id"`
	// Metadata is optional metadata to include with the operation
	Metadata map[string]any `json:"metadata,omitempty"`
}

// TaskQueryParams represents the parameters for querying task information
type TaskQueryParams struct {
	// ID is the unique identifier of the task
	ID string `json:"id"`
	// Metadata is optional metadata to include with the operation
	Metadata map[string]any `json:"metadata,omitempty"`
	// HistoryLength is an optional parameter to specify how much history to retrieve
	HistoryLength *int `json:"historyLength,omitempty"`
}

func (task *Task) String() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		Bold(true)

	indent := "   "
	bullet := "│ "

	sb.WriteString(headerStyle.Render("Task") + "\n")
	sb.WriteString(bullet + labelStyle.Render("ID: ") + valueStyle.Render(task.ID) + "\n")

	if task.SessionID != "" {
		sb.WriteString(bullet + labelStyle.Render("Session: ") + valueStyle.Render(task.SessionID) + "\n")
	}

	sb.WriteString("\n" + sectionStyle.Render("Status") + "\n")
	sb.WriteString(bullet + labelStyle.Render("State: ") + valueStyle.Render(string(task.Status.State)) + "\n")

	if task.Status.Message != nil {
		sb.WriteString(bullet + labelStyle.Render("Message: ") + valueStyle.Render(task.Status.Message.String()) + "\n")
	}

	if !task.Status.Timestamp.IsZero() {
		sb.WriteString(bullet + labelStyle.Render("Updated: ") + valueStyle.Render(task.Status.Timestamp.Format(time.RFC3339)) + "\n")
	}

	if len(task.History) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("History") + "\n")

		for i, message := range task.History {
			sb.WriteString(bullet + labelStyle.Render(fmt.Sprintf("%d %s: ", i+1, message.Role)) + valueStyle.Render(message.String()) + "\n")
		}
	}

	if len(task.Artifacts) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Artifacts") + "\n")

		for i, artifact := range task.Artifacts {
			sb.WriteString(bullet + labelStyle.Render(fmt.Sprintf("Artifact %d", i+1)) + "\n")

			if artifact.Name != nil {
				sb.WriteString(bullet + indent + labelStyle.Render("Name: ") + valueStyle.Render(*artifact.Name) + "\n")
			}

			for j, part := range artifact.Parts {
				sb.WriteString(bullet + indent + labelStyle.Render(fmt.Sprintf("Part %d: ", j+1)) + valueStyle.Render(part.Text) + "\n")
			}
		}
	}

	if len(task.Metadata) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Metadata") + "\n")

		keys := make([]string, 0, len(task.Metadata))

		for k := range task.Metadata {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			sb.WriteString(bullet + labelStyle.Render(k+": ") + valueStyle.Render(fmt.Sprintf("%v", task.Metadata[k])) + "\n")
		}
	}

	return sb.String()
}
