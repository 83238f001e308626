package push

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3/client"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
)

/*
Notifier delivers artifacts to callback URLs. Delivery is at most once:
there is no retry queue, a failed POST is reported to the caller and that is
the end of it.
*/
type Notifier struct {
	conn    *client.Client
	timeout time.Duration
}

type NotifierOption func(*Notifier)

func NewNotifier(options ...NotifierOption) *Notifier {
	notifier := &Notifier{
		timeout: 10 * time.Second,
	}

	for _, option := range options {
		option(notifier)
	}

	notifier.conn = client.New().SetTimeout(notifier.timeout)

	return notifier
}

func WithTimeout(timeout time.Duration) NotifierOption {
	return func(notifier *Notifier) {
		if timeout > 0 {
			notifier.timeout = timeout
		}
	}
}

/*
Send POSTs the artifact as JSON to url without any authentication headers.
Transport errors and non-2xx answers are both failures.
*/
func (notifier *Notifier) Send(ctx context.Context, url string, artifact a2a.Artifact) error {
	resp, err := notifier.conn.Post(url, client.Config{
		Ctx: ctx,
		Header: map[string]string{
			"Content-Type": "application/json",
		},
		Body:    artifact,
		Timeout: notifier.timeout,
	})

	if err != nil {
		return fmt.Errorf("failed to send push notification to %s: %w", url, err)
	}

	defer resp.Close()

	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return fmt.Errorf("push notification to %s answered with status %d", url, status)
	}

	log.Info("push notification sent", "url", url)

	return nil
}
