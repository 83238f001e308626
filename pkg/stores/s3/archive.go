package s3

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"path"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/errors"
)

var ErrNoSuchKey = stderrors.New("no such key")

/*
ObjectStore is the subset of Conn the archive needs.
*/
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

/*
Archive writes tasks that reached a final state to object storage, keyed by
session and task id.
*/
type Archive struct {
	objects ObjectStore
}

func NewArchive(objects ObjectStore) *Archive {
	return &Archive{objects: objects}
}

func Key(sessionID string, taskID string) string {
	if sessionID == "" {
		sessionID = "_"
	}

	return path.Join("tasks", sessionID, taskID+".json")
}

func (archive *Archive) Save(ctx context.Context, task *a2a.Task) error {
	data, err := json.Marshal(task)

	if err != nil {
		return errors.ErrInternal.WithMessagef("failed to marshal task: %v", err)
	}

	key := Key(task.SessionID, task.ID)

	if err = archive.objects.Put(ctx, key, data); err != nil {
		log.Error("failed to archive task", "id", task.ID, "key", key, "error", err)
		return errors.ErrInternal.WithMessagef("failed to archive task: %v", err)
	}

	log.Debug("task archived", "id", task.ID, "key", key)

	return nil
}

func (archive *Archive) Load(ctx context.Context, sessionID string, taskID string) (*a2a.Task, error) {
	data, err := archive.objects.Get(ctx, Key(sessionID, taskID))

	if stderrors.Is(err, ErrNoSuchKey) {
		return nil, errors.ErrTaskNotFound.WithMessagef("Task: %s not found.", taskID)
	}

	if err != nil {
		return nil, errors.ErrInternal.WithMessagef("failed to load task: %v", err)
	}

	var task a2a.Task

	if err = json.Unmarshal(data, &task); err != nil {
		return nil, errors.ErrInternal.WithMessagef("failed to unmarshal task: %v", err)
	}

	return &task, nil
}
