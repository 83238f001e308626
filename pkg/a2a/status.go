package a2a

import "time"

/*
TaskState enumerates the mutually‑exclusive states a task may be in. The
zero value is treated as "unknown".
*/
type TaskState string

const (
	TaskStateSubmitted TaskState = "submitted"
	TaskStateWorking   TaskState = "working"
	TaskStateInputReq  TaskState = "input-required"
	TaskStateCompleted TaskState = "completed"
	TaskStateCanceled  TaskState = "canceled"
	TaskStateFailed    TaskState = "failed"
	TaskStateUnknown   TaskState = "unknown"
)

/*
Final reports whether the lifecycle runner is done with a task in this state.
Input-required counts as final for a single turn: the runner stops and waits
for the client to send the next message.
*/
func (state TaskState) Final() bool {
	switch state {
	case TaskStateCompleted, TaskStateInputReq, TaskStateCanceled, TaskStateFailed:
		return true
	default:
		return false
	}
}

type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

/*
NewTaskStatus stamps a status with the current time.
*/
func NewTaskStatus(state TaskState, message *Message) TaskStatus {
	return TaskStatus{
		State:     state,
		Message:   message,
		Timestamp: time.Now(),
	}
}
