package s3

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/errors"
)

type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: make(map[string][]byte)}
}

func (m *memoryObjects) Put(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.putErr != nil {
		return m.putErr
	}

	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memoryObjects) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[key]

	if !ok {
		return nil, ErrNoSuchKey
	}

	return data, nil
}

func completedTask() *a2a.Task {
	task := a2a.NewTaskFromParams(a2a.TaskSendParams{
		ID:        "t1",
		SessionID: "s1",
		Message:   *a2a.NewTextMessage("user", "Hello"),
	})
	task.ToStatus(a2a.TaskStateCompleted, nil)
	task.AddArtifact(a2a.NewArtifact(a2a.NewTextPart("Echo: Hello")))

	return task
}

func TestKey(t *testing.T) {
	assert.Equal(t, "tasks/s1/t1.json", Key("s1", "t1"))
	assert.Equal(t, "tasks/_/t1.json", Key("", "t1"))
}

func TestArchive_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	objects := newMemoryObjects()
	archive := NewArchive(objects)

	require.NoError(t, archive.Save(ctx, completedTask()))
	assert.Contains(t, objects.objects, "tasks/s1/t1.json")

	task, err := archive.Load(ctx, "s1", "t1")
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateCompleted, task.Status.State)
	require.Len(t, task.Artifacts, 1)
	assert.Equal(t, "Echo: Hello", task.Artifacts[0].Text())
}

func TestArchive_LoadMissing(t *testing.T) {
	_, err := NewArchive(newMemoryObjects()).Load(context.Background(), "s1", "nope")
	assert.True(t, stderrors.Is(err, errors.ErrTaskNotFound))
}

func TestArchive_SaveFailure(t *testing.T) {
	objects := newMemoryObjects()
	objects.putErr = stderrors.New("connection refused")

	err := NewArchive(objects).Save(context.Background(), completedTask())
	assert.True(t, stderrors.Is(err, errors.ErrInternal))
}
