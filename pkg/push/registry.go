package push

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/errors"
	"github.com/theapemachine/a2a-subscribe/pkg/stores"
)

/*
Registry attaches callback configs to tasks. A client may register a
callback before the task it refers to has landed in the store, so lookups
and writes poll for the task for a bounded window before giving up.
*/
type Registry struct {
	store    stores.TaskStore
	attempts int
	interval time.Duration
}

type RegistryOption func(*Registry)

func NewRegistry(store stores.TaskStore, options ...RegistryOption) *Registry {
	registry := &Registry{
		store:    store,
		attempts: 3,
		interval: time.Second,
	}

	for _, option := range options {
		option(registry)
	}

	return registry
}

func WithAttempts(attempts int) RegistryOption {
	return func(registry *Registry) {
		if attempts > 0 {
			registry.attempts = attempts
		}
	}
}

func WithInterval(interval time.Duration) RegistryOption {
	return func(registry *Registry) {
		if interval >= 0 {
			registry.interval = interval
		}
	}
}

/*
Set stores cfg for the task. The existence check and the write happen under
the store lock in one step; the waits between attempts happen outside it.
*/
func (registry *Registry) Set(ctx context.Context, id string, cfg *a2a.PushNotificationConfig) error {
	err := registry.poll(ctx, id, func() error {
		return registry.store.SetPushConfig(ctx, id, cfg)
	})

	if err != nil {
		return err
	}

	log.Info("push notification registered", "id", id, "url", cfg.URL)

	return nil
}

/*
Get returns the callback for the task, or nil when the task exists but has
no callback.
*/
func (registry *Registry) Get(ctx context.Context, id string) (*a2a.PushNotificationConfig, error) {
	var cfg *a2a.PushNotificationConfig

	err := registry.poll(ctx, id, func() (err error) {
		cfg, err = registry.store.GetPushConfig(ctx, id)
		return err
	})

	return cfg, err
}

/*
poll runs fn until it stops reporting a missing task. Every miss is followed
by one interval of sleep; once all attempts are spent, fn gets a last try
whose result is final. Success and any other error return right away.
*/
func (registry *Registry) poll(ctx context.Context, id string, fn func() error) error {
	for attempt := 1; attempt <= registry.attempts; attempt++ {
		err := fn()

		if !stderrors.Is(err, errors.ErrTaskNotFound) {
			return err
		}

		log.Debug("task not in store yet", "id", id, "attempt", attempt, "of", registry.attempts)

		if err = sleep(ctx, registry.interval); err != nil {
			return err
		}
	}

	err := fn()

	if stderrors.Is(err, errors.ErrTaskNotFound) {
		log.Warn("task never appeared", "id", id, "attempts", registry.attempts)
	}

	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
