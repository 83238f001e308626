package stores

import (
	"context"

	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
)

/*
TaskStore owns task records and the push notification configs attached to
them. Implementations serialize every operation, so a config can never be
written for a task that is not (yet) in the store.
*/
type TaskStore interface {
	Get(ctx context.Context, id string) (*a2a.Task, error)
	Exists(ctx context.Context, id string) bool
	Upsert(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error)
	UpdateStatus(ctx context.Context, id string, status a2a.TaskStatus, artifacts []a2a.Artifact) (*a2a.Task, error)
	SetPushConfig(ctx context.Context, id string, cfg *a2a.PushNotificationConfig) error
	GetPushConfig(ctx context.Context, id string) (*a2a.PushNotificationConfig, error)
}
