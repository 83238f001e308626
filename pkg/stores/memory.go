package stores

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/errors"
)

/*
MemoryStore keeps tasks for the lifetime of the process. Tasks and push
configs share one mutex. Everything handed out is a deep copy, so callers
never touch stored state outside the lock.
*/
type MemoryStore struct {
	mu          sync.Mutex
	tasks       map[string]*a2a.Task
	pushConfigs map[string]*a2a.PushNotificationConfig
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:       make(map[string]*a2a.Task),
		pushConfigs: make(map[string]*a2a.PushNotificationConfig),
	}
}

func (store *MemoryStore) Get(ctx context.Context, id string) (*a2a.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	task, ok := store.tasks[id]

	if !ok {
		return nil, errors.ErrTaskNotFound.WithMessagef("Task: %s not found.", id)
	}

	return task.Copy(), nil
}

func (store *MemoryStore) Exists(ctx context.Context, id string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	_, ok := store.tasks[id]
	return ok
}

/*
Upsert creates the task on first sight. A task that already exists gets the
message appended to its history, which is how a client answers an
input-required turn.
*/
func (store *MemoryStore) Upsert(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	task, ok := store.tasks[params.ID]

	if !ok {
		task = a2a.NewTaskFromParams(params)
		store.tasks[params.ID] = task
		log.Debug("task created", "id", task.ID, "session", task.SessionID)
		return task.Copy(), nil
	}

	task.History = append(task.History, *params.Message.Copy())

	return task.Copy(), nil
}

func (store *MemoryStore) UpdateStatus(
	ctx context.Context, id string, status a2a.TaskStatus, artifacts []a2a.Artifact,
) (*a2a.Task, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	task, ok := store.tasks[id]

	if !ok {
		return nil, errors.ErrTaskNotFound.WithMessagef("Task: %s not found.", id)
	}

	task.ToStatus(status.State, status.Message)

	if !status.Timestamp.IsZero() {
		task.Status.Timestamp = status.Timestamp
	}

	if artifacts != nil {
		task.AddArtifact(artifacts...)
	}

	log.Debug("task status update", "id", id, "state", task.Status.State, "artifacts", len(task.Artifacts))

	return task.Copy(), nil
}

func (store *MemoryStore) SetPushConfig(ctx context.Context, id string, cfg *a2a.PushNotificationConfig) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.tasks[id]; !ok {
		return errors.ErrTaskNotFound.WithMessagef("Task: %s not found.", id)
	}

	store.pushConfigs[id] = cfg.Copy()

	return nil
}

/*
GetPushConfig returns nil without an error when the task exists but nobody
registered a callback for it.
*/
func (store *MemoryStore) GetPushConfig(ctx context.Context, id string) (*a2a.PushNotificationConfig, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.tasks[id]; !ok {
		return nil, errors.ErrTaskNotFound.WithMessagef("Task: %s not found.", id)
	}

	return store.pushConfigs[id].Copy(), nil
}
