package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/agent"
	"github.com/theapemachine/a2a-subscribe/pkg/provider"
)

var riddleTriggers = []string{"riddle", "puzzle"}

/*
IsRiddleRequest reports whether the message asks for a riddle.
*/
func IsRiddleRequest(message string) bool {
	lower := strings.ToLower(message)

	for _, trigger := range riddleTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}

	return false
}

/*
RiddleServer is the part of the A2A client the chat needs.
*/
type RiddleServer interface {
	SendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error)
	WaitForTask(ctx context.Context, id string, interval time.Duration) (*a2a.Task, error)
}

/*
Chat decides where a message goes. Riddle requests are reduced to a topic
and sent to the riddle server; everything else is answered by the LLM.
*/
type Chat struct {
	llm       provider.Interface
	riddles   RiddleServer
	sessionID string
	interval  time.Duration
}

type ChatOption func(*Chat)

func NewChat(llm provider.Interface, riddles RiddleServer, options ...ChatOption) *Chat {
	chat := &Chat{
		llm:       llm,
		riddles:   riddles,
		sessionID: uuid.NewString(),
		interval:  500 * time.Millisecond,
	}

	for _, option := range options {
		option(chat)
	}

	return chat
}

func WithPollInterval(interval time.Duration) ChatOption {
	return func(chat *Chat) {
		if interval > 0 {
			chat.interval = interval
		}
	}
}

func WithSessionID(sessionID string) ChatOption {
	return func(chat *Chat) {
		if sessionID != "" {
			chat.sessionID = sessionID
		}
	}
}

/*
Reply answers one user message. A failure comes back as an error whose text
is fit to show in the conversation.
*/
func (chat *Chat) Reply(ctx context.Context, message string) (string, error) {
	if IsRiddleRequest(message) {
		topic, err := chat.extractTopic(ctx, message)

		if err != nil {
			return "", fmt.Errorf("OpenAI API error: %w", err)
		}

		log.Info("riddle request", "topic", topic)

		return chat.askRiddleServer(ctx, topic)
	}

	answer, err := chat.llm.Complete(ctx, []provider.Message{provider.User(message)}, nil)

	if err != nil {
		log.Error("llm reply failed", "error", err)
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	return strings.TrimSpace(answer), nil
}

func (chat *Chat) extractTopic(ctx context.Context, message string) (string, error) {
	topic, err := chat.llm.Complete(ctx, []provider.Message{
		provider.User(fmt.Sprintf(
			"Extract the topic from the message. %s and do nothing else. "+
				"Do not include any additional words beyond the topic.",
			message,
		)),
	}, nil)

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(topic), nil
}

func (chat *Chat) askRiddleServer(ctx context.Context, topic string) (string, error) {
	sent, err := chat.riddles.SendTask(ctx, a2a.TaskSendParams{
		ID:                  uuid.NewString(),
		SessionID:           chat.sessionID,
		Message:             *a2a.NewTextMessage("user", topic),
		AcceptedOutputModes: []string{"text"},
	})

	if err != nil {
		return "", fmt.Errorf("Could not reach riddle server: %w", err)
	}

	task, err := chat.riddles.WaitForTask(ctx, sent.ID, chat.interval)

	if err != nil {
		return "", fmt.Errorf("Could not reach riddle server: %w", err)
	}

	header := fmt.Sprintf("Task ID: %s, Session ID: %s\n", task.ID, task.SessionID)

	switch {
	case len(task.Artifacts) > 0:
		return header + agent.FormatRiddles(strings.TrimSpace(task.Artifacts[len(task.Artifacts)-1].Text())), nil
	case task.Status.Message != nil:
		return header + task.Status.Message.String(), nil
	default:
		return "", fmt.Errorf("%sRiddle server error: No artifacts", header)
	}
}
