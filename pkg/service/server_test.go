package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/agent"
	"github.com/theapemachine/a2a-subscribe/pkg/errors"
	"github.com/theapemachine/a2a-subscribe/pkg/jsonrpc"
	"github.com/theapemachine/a2a-subscribe/pkg/push"
	"github.com/theapemachine/a2a-subscribe/pkg/stores"
	"github.com/tj/assert"
)

func newTestServer(t *testing.T) (*Server, *TaskManager) {
	manager, err := NewTaskManager(
		WithAgent(agent.NewEcho()),
		WithTaskStore(stores.NewMemoryStore()),
		WithRegistryOptions(push.WithInterval(testInterval)),
	)
	assert.NoError(t, err)

	return NewServer(manager, WithURL("http://agent.test/")), manager
}

func rpcCall(t *testing.T, srv *Server, path string, body string) (int, jsonrpc.Response) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App().Test(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	var out jsonrpc.Response
	assert.NoError(t, json.Unmarshal(raw, &out))

	return resp.StatusCode, out
}

func TestServerRoot(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestServerAgentCard(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil))
	assert.NoError(t, err)
	defer resp.Body.Close()

	var card a2a.AgentCard
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
	assert.Equal(t, "echo", card.Name)
	assert.Equal(t, "http://agent.test/", card.URL)
	assert.True(t, card.Capabilities.PushNotifications)
}

func TestServerSendAndGet(t *testing.T) {
	srv, manager := newTestServer(t)

	status, resp := rpcCall(t, srv, "/rpc", `{
		"jsonrpc": "2.0",
		"id": 1,
		"method": "tasks/send",
		"params": {
			"id": "t1",
			"sessionId": "s1",
			"message": {"role": "user", "parts": [{"type": "text", "text": "Hello"}]}
		}
	}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "1", string(resp.ID))

	var submitted a2a.Task
	assert.NoError(t, resp.DecodeResult(&submitted))
	assert.Equal(t, a2a.TaskStateSubmitted, submitted.Status.State)

	assert.NoError(t, manager.Wait())

	_, resp = rpcCall(t, srv, "/", `{"jsonrpc":"2.0","id":"2","method":"tasks/get","params":{"id":"t1"}}`)

	var done a2a.Task
	assert.NoError(t, resp.DecodeResult(&done))
	assert.Equal(t, a2a.TaskStateCompleted, done.Status.State)
	assert.Len(t, done.Artifacts, 1)
	assert.Equal(t, "Echo: Hello", done.Artifacts[0].Text())
}

func TestServerUnknownTask(t *testing.T) {
	srv, _ := newTestServer(t)

	status, resp := rpcCall(t, srv, "/rpc", `{"jsonrpc":"2.0","id":3,"method":"tasks/get","params":{"id":"nope"}}`)

	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, errors.ErrTaskNotFound.Code, resp.Error.Code)
}

func TestServerUnknownMethod(t *testing.T) {
	srv, _ := newTestServer(t)

	_, resp := rpcCall(t, srv, "/rpc", `{"jsonrpc":"2.0","id":4,"method":"tasks/cancel","params":{"id":"t1"}}`)

	assert.NotNil(t, resp.Error)
	assert.Equal(t, errors.ErrMethodNotFound.Code, resp.Error.Code)
}

func TestServerMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	_, resp := rpcCall(t, srv, "/rpc", `{"jsonrpc":`)

	assert.NotNil(t, resp.Error)
	assert.Equal(t, errors.ErrParseError.Code, resp.Error.Code)
}

func TestServerPushNotificationRoundTrip(t *testing.T) {
	srv, manager := newTestServer(t)

	rpcCall(t, srv, "/rpc", `{"jsonrpc":"2.0","id":1,"method":"tasks/send","params":{"id":"t1","message":{"role":"user","parts":[{"type":"text","text":"Hi"}]}}}`)

	_, resp := rpcCall(t, srv, "/rpc", `{
		"jsonrpc": "2.0",
		"id": 2,
		"method": "tasks/pushNotification/set",
		"params": {"id": "t1", "pushNotificationConfig": {"url": "http://localhost:9000/notify"}}
	}`)
	assert.Nil(t, resp.Error)

	_, resp = rpcCall(t, srv, "/rpc", `{"jsonrpc":"2.0","id":3,"method":"tasks/pushNotification/get","params":{"id":"t1"}}`)

	var cfg a2a.TaskPushNotificationConfig
	assert.NoError(t, resp.DecodeResult(&cfg))
	assert.Equal(t, "http://localhost:9000/notify", cfg.PushNotificationConfig.URL)

	_ = manager.Wait()
}

func TestServerMetrics(t *testing.T) {
	srv, manager := newTestServer(t)

	rpcCall(t, srv, "/rpc", `{"jsonrpc":"2.0","id":1,"method":"tasks/send","params":{"id":"t1","message":{"role":"user","parts":[{"type":"text","text":"Hi"}]}}}`)
	assert.NoError(t, manager.Wait())

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.NoError(t, err)
	defer resp.Body.Close()

	var snapshot map[string]any
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&snapshot))
	assert.Equal(t, float64(1), snapshot["submitted"])
	assert.Equal(t, map[string]any{"completed": float64(1)}, snapshot["finished"])
}

func TestServerNotification(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(
		http.MethodPost, "/rpc",
		strings.NewReader(`{"jsonrpc":"2.0","method":"tasks/get","params":{"id":"t1"}}`),
	)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App().Test(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestServerInvalidRequestWithoutID(t *testing.T) {
	srv, _ := newTestServer(t)

	status, resp := rpcCall(t, srv, "/rpc", `{"method":"tasks/get","params":{"id":"t1"}}`)

	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, errors.ErrInvalidRequest.Code, resp.Error.Code)
	assert.Equal(t, "null", string(resp.ID))
}
