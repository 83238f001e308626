package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/agent"
	"github.com/theapemachine/a2a-subscribe/pkg/errors"
	"github.com/theapemachine/a2a-subscribe/pkg/metrics"
	"github.com/theapemachine/a2a-subscribe/pkg/push"
	"github.com/theapemachine/a2a-subscribe/pkg/stores"
	"golang.org/x/sync/errgroup"
)

/*
Deliverer posts an artifact to a callback URL.
*/
type Deliverer interface {
	Send(ctx context.Context, url string, artifact a2a.Artifact) error
}

/*
Archiver keeps a copy of tasks that reached a final state.
*/
type Archiver interface {
	Save(ctx context.Context, task *a2a.Task) error
}

/*
TaskManager answers task submissions right away and drives each task to a
final state in the background. Runners are never canceled and have no
concurrency limit; Wait drains them.
*/
type TaskManager struct {
	agent     agent.Agent
	store     stores.TaskStore
	registry  *push.Registry
	deliverer Deliverer
	archive   Archiver
	metrics   *metrics.Lifecycle
	pushOpts  []push.RegistryOption
	runners   errgroup.Group
}

type TaskManagerOption func(*TaskManager)

func NewTaskManager(options ...TaskManagerOption) (*TaskManager, error) {
	manager := &TaskManager{
		metrics: metrics.NewLifecycle(),
	}

	for _, option := range options {
		option(manager)
	}

	if manager.agent == nil {
		log.Error("missing agent")
		return nil, errors.NewError(errors.ErrMissingAgent{})
	}

	if manager.store == nil {
		log.Error("missing task store")
		return nil, errors.NewError(errors.ErrMissingTaskStore{})
	}

	if manager.deliverer == nil {
		manager.deliverer = push.NewNotifier()
	}

	manager.registry = push.NewRegistry(manager.store, manager.pushOpts...)

	return manager, nil
}

func WithAgent(agent agent.Agent) TaskManagerOption {
	return func(manager *TaskManager) {
		manager.agent = agent
	}
}

func WithTaskStore(store stores.TaskStore) TaskManagerOption {
	return func(manager *TaskManager) {
		manager.store = store
	}
}

func WithDeliverer(deliverer Deliverer) TaskManagerOption {
	return func(manager *TaskManager) {
		manager.deliverer = deliverer
	}
}

func WithArchive(archive Archiver) TaskManagerOption {
	return func(manager *TaskManager) {
		manager.archive = archive
	}
}

func WithRegistryOptions(options ...push.RegistryOption) TaskManagerOption {
	return func(manager *TaskManager) {
		manager.pushOpts = append(manager.pushOpts, options...)
	}
}

func (manager *TaskManager) Metrics() *metrics.Lifecycle {
	return manager.metrics
}

func (manager *TaskManager) Card(url string) a2a.AgentCard {
	return manager.agent.Card(url)
}

/*
SendTask records the task as submitted, starts the runner and returns
without waiting for it. The returned copy is taken before the runner starts,
so it always shows the submitted state.
*/
func (manager *TaskManager) SendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.ErrInvalidParams.WithMessagef("%v", err)
	}

	if manager.store.Exists(ctx, params.ID) {
		log.Info("continuing task", "id", params.ID)
	}

	if _, err := manager.store.Upsert(ctx, params); err != nil {
		return nil, err
	}

	task, err := manager.store.UpdateStatus(
		ctx, params.ID, a2a.NewTaskStatus(a2a.TaskStateSubmitted, nil), nil,
	)

	if err != nil {
		return nil, err
	}

	if params.PushNotification != nil {
		if err = manager.registry.Set(ctx, params.ID, params.PushNotification); err != nil {
			return nil, err
		}
	}

	log.Info("task submitted", "id", params.ID, "session", params.SessionID)
	manager.metrics.RecordSubmitted()

	// Runners outlive the request, and the server recycles request contexts
	// once the handler returns.
	manager.runners.Go(func() error {
		_, err := manager.run(context.Background(), params)
		return err
	})

	return task.WithHistory(params.HistoryLength), nil
}

func (manager *TaskManager) GetTask(ctx context.Context, params a2a.TaskQueryParams) (*a2a.Task, error) {
	task, err := manager.store.Get(ctx, params.ID)

	if err != nil {
		return nil, err
	}

	return task.WithHistory(params.HistoryLength), nil
}

func (manager *TaskManager) SetPushNotification(
	ctx context.Context, cfg a2a.TaskPushNotificationConfig,
) (*a2a.TaskPushNotificationConfig, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.ErrInvalidParams.WithMessagef("%v", err)
	}

	if err := manager.registry.Set(ctx, cfg.ID, &cfg.PushNotificationConfig); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (manager *TaskManager) GetPushNotification(
	ctx context.Context, params a2a.TaskIDParams,
) (*a2a.TaskPushNotificationConfig, error) {
	cfg, err := manager.registry.Get(ctx, params.ID)

	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return nil, errors.ErrPushNotificationConfigNotFound
	}

	return &a2a.TaskPushNotificationConfig{
		ID:                     params.ID,
		PushNotificationConfig: *cfg,
	}, nil
}

/*
Wait blocks until every runner started so far has finished and returns the
first runner failure, if any.
*/
func (manager *TaskManager) Wait() error {
	return manager.runners.Wait()
}

/*
run moves the task to working, invokes the agent and stores the outcome.
An agent failure marks the task failed and comes back as ErrTaskFailed. A
failed push notification is only logged.
*/
func (manager *TaskManager) run(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	log.Info("starting task", "id", params.ID)
	start := time.Now()

	if _, err := manager.store.UpdateStatus(
		ctx, params.ID, a2a.NewTaskStatus(a2a.TaskStateWorking, nil), nil,
	); err != nil {
		log.Error("failed to mark task working", "id", params.ID, "error", err)
		return nil, err
	}

	result, err := manager.agent.Invoke(ctx, params.Message.Query(), params.SessionID)

	if err != nil {
		log.Error("error invoking agent", "id", params.ID, "agent", manager.agent.Name(), "error", err)

		failure := errors.ErrTaskFailed.WithMessagef("Error invoking agent: %v", err)
		task, storeErr := manager.store.UpdateStatus(
			ctx,
			params.ID,
			a2a.NewTaskStatus(a2a.TaskStateFailed, a2a.NewTextMessage("agent", failure.Message)),
			nil,
		)

		if storeErr != nil {
			log.Error("failed to mark task failed", "id", params.ID, "error", storeErr)
		}

		manager.metrics.RecordFinished(a2a.TaskStateFailed, time.Since(start))
		manager.archiveTask(ctx, task)

		return task, failure
	}

	var (
		status   a2a.TaskStatus
		artifact *a2a.Artifact
	)

	if result.RequiresInput {
		status = a2a.NewTaskStatus(a2a.TaskStateInputReq, &result.Message)
	} else {
		status = a2a.NewTaskStatus(a2a.TaskStateCompleted, nil)
		out := a2a.NewArtifact(result.Message.Parts...)
		artifact = &out
	}

	var artifacts []a2a.Artifact

	if artifact != nil {
		artifacts = []a2a.Artifact{*artifact}
	}

	task, err := manager.store.UpdateStatus(ctx, params.ID, status, artifacts)

	if err != nil {
		log.Error("failed to store task result", "id", params.ID, "error", err)
		return nil, err
	}

	log.Info("task finished", "id", params.ID, "state", task.Status.State)
	manager.metrics.RecordFinished(task.Status.State, time.Since(start))

	manager.archiveTask(ctx, task)
	manager.notify(ctx, params.ID, artifact)

	return task.WithHistory(params.HistoryLength), nil
}

func (manager *TaskManager) notify(ctx context.Context, id string, artifact *a2a.Artifact) {
	cfg, err := manager.registry.Get(ctx, id)

	if err != nil {
		log.Warn("failed to look up push notification", "id", id, "error", err)
		return
	}

	if cfg == nil {
		return
	}

	if artifact == nil {
		log.Debug("no artifact to push", "id", id, "url", cfg.URL)
		return
	}

	start := time.Now()
	err = manager.deliverer.Send(ctx, cfg.URL, *artifact)
	manager.metrics.RecordDelivery(err == nil, time.Since(start))

	if err != nil {
		log.Warn("error during sending push-notification", "id", id, "url", cfg.URL, "error", err)
	}
}

func (manager *TaskManager) archiveTask(ctx context.Context, task *a2a.Task) {
	if manager.archive == nil || task == nil {
		return
	}

	if err := manager.archive.Save(ctx, task); err != nil {
		log.Warn("failed to archive task", "id", task.ID, "error", err)
	}
}
