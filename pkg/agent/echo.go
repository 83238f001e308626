package agent

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
)

/*
Echo repeats the user's message back, optionally after a delay that stands
in for real work.
*/
type Echo struct {
	delay time.Duration
}

type EchoOption func(*Echo)

func NewEcho(options ...EchoOption) *Echo {
	echo := &Echo{}

	for _, option := range options {
		option(echo)
	}

	return echo
}

func WithDelay(delay time.Duration) EchoOption {
	return func(echo *Echo) {
		echo.delay = delay
	}
}

func (echo *Echo) Name() string {
	return "echo"
}

func (echo *Echo) Card(url string) a2a.AgentCard {
	return newCard(
		echo.Name(),
		"A simple echo agent that repeats the user's message",
		url,
		[]string{"echo"},
		[]string{"Hello, Echo Agent!"},
	)
}

func (echo *Echo) Invoke(ctx context.Context, query string, sessionID string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return InputRequired("What would you like me to echo?"), nil
	}

	if echo.delay > 0 {
		log.Debug("echo agent working", "session", sessionID, "delay", echo.delay)

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(echo.delay):
		}
	}

	return AgentMessage("Echo: " + query), nil
}
