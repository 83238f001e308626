package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3/client"
	"github.com/google/uuid"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/jsonrpc"
	"golang.org/x/sync/errgroup"
)

/*
AgentClient talks JSON-RPC to a remote A2A agent. Besides the plain task
calls it offers SendMessage, which submits a task in the background and
hands back its id straight away, so the caller can register a callback for
it.
*/
type AgentClient struct {
	conn    *client.Client
	url     string
	timeout time.Duration
	ids     atomic.Int64
	pending errgroup.Group
}

type AgentClientOption func(*AgentClient)

func NewAgentClient(url string, options ...AgentClientOption) *AgentClient {
	agentClient := &AgentClient{
		url:     url,
		timeout: 120 * time.Second,
	}

	for _, option := range options {
		option(agentClient)
	}

	agentClient.conn = client.New().SetTimeout(agentClient.timeout)

	return agentClient
}

func WithTimeout(timeout time.Duration) AgentClientOption {
	return func(agentClient *AgentClient) {
		if timeout > 0 {
			agentClient.timeout = timeout
		}
	}
}

func (agentClient *AgentClient) URL() string {
	return agentClient.url
}

/*
Card fetches the agent card from the well-known path next to the RPC
endpoint.
*/
func (agentClient *AgentClient) Card(ctx context.Context) (*a2a.AgentCard, error) {
	resp, err := agentClient.conn.Get(
		strings.TrimSuffix(agentClient.url, "/")+"/.well-known/agent.json",
		client.Config{Ctx: ctx},
	)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch agent card: %w", err)
	}

	defer resp.Close()

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("agent card answered with status %d", resp.StatusCode())
	}

	var card a2a.AgentCard

	if err = json.Unmarshal(resp.Body(), &card); err != nil {
		return nil, err
	}

	return &card, nil
}

func (agentClient *AgentClient) SendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	var task a2a.Task

	if err := agentClient.call(ctx, "tasks/send", params, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (agentClient *AgentClient) GetTask(ctx context.Context, params a2a.TaskQueryParams) (*a2a.Task, error) {
	var task a2a.Task

	if err := agentClient.call(ctx, "tasks/get", params, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (agentClient *AgentClient) SetTaskCallback(
	ctx context.Context, cfg a2a.TaskPushNotificationConfig,
) (*a2a.TaskPushNotificationConfig, error) {
	var out a2a.TaskPushNotificationConfig

	if err := agentClient.call(ctx, "tasks/pushNotification/set", cfg, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (agentClient *AgentClient) GetTaskCallback(
	ctx context.Context, params a2a.TaskIDParams,
) (*a2a.TaskPushNotificationConfig, error) {
	var out a2a.TaskPushNotificationConfig

	if err := agentClient.call(ctx, "tasks/pushNotification/get", params, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

type MessageOption func(*a2a.TaskSendParams)

func WithSessionID(sessionID string) MessageOption {
	return func(params *a2a.TaskSendParams) {
		params.SessionID = sessionID
	}
}

func WithTaskID(id string) MessageOption {
	return func(params *a2a.TaskSendParams) {
		params.ID = id
	}
}

func WithOutputModes(modes ...string) MessageOption {
	return func(params *a2a.TaskSendParams) {
		params.AcceptedOutputModes = modes
	}
}

func WithCallback(url string) MessageOption {
	return func(params *a2a.TaskSendParams) {
		params.PushNotification = &a2a.PushNotificationConfig{URL: url}
	}
}

/*
SendMessage submits text as a new task without waiting for the answer and
returns the task id. Task and session ids are generated unless given. The
outcome of the submission is only logged; Wait collects it.
*/
func (agentClient *AgentClient) SendMessage(ctx context.Context, text string, options ...MessageOption) string {
	params := a2a.TaskSendParams{
		ID:                  uuid.NewString(),
		SessionID:           uuid.NewString(),
		Message:             *a2a.NewTextMessage("user", text),
		AcceptedOutputModes: []string{"text"},
	}

	for _, option := range options {
		option(&params)
	}

	agentClient.pending.Go(func() error {
		task, err := agentClient.SendTask(ctx, params)

		if err != nil {
			log.Error("failed to send message", "id", params.ID, "error", err)
			return err
		}

		log.Debug("message accepted", "id", task.ID, "state", task.Status.State)

		return nil
	})

	return params.ID
}

/*
Wait blocks until every SendMessage submission has been answered.
*/
func (agentClient *AgentClient) Wait() error {
	return agentClient.pending.Wait()
}

/*
WaitForTask polls tasks/get until the task reaches a final state or ctx is
done. A task that is not known yet is polled again, since a SendMessage
submission may still be in flight.
*/
func (agentClient *AgentClient) WaitForTask(ctx context.Context, id string, interval time.Duration) (*a2a.Task, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		task, err := agentClient.GetTask(ctx, a2a.TaskQueryParams{ID: id})

		if err == nil && task.Status.State.Final() {
			return task, nil
		}

		if err != nil {
			log.Debug("task not ready", "id", id, "error", err)
		}

		select {
		case <-ctx.Done():
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ctx.Err(), err)
			}

			return task, ctx.Err()
		case <-ticker.C:
		}
	}
}

/*
call posts one request and decodes the result into out. A JSON-RPC error in
the response comes back as *errors.RpcError, so callers can match it against
the sentinels.
*/
func (agentClient *AgentClient) call(ctx context.Context, method string, params any, out any) error {
	req, err := jsonrpc.NewRequest(agentClient.ids.Add(1), method, params)

	if err != nil {
		return err
	}

	resp, err := agentClient.conn.Post(agentClient.url, client.Config{
		Ctx: ctx,
		Header: map[string]string{
			"Content-Type": "application/json",
		},
		Body: req,
	})

	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}

	defer resp.Close()

	var rpcResp jsonrpc.Response

	if err = json.Unmarshal(resp.Body(), &rpcResp); err != nil {
		return fmt.Errorf("%s answered with status %d and an unreadable body: %w", method, resp.StatusCode(), err)
	}

	return rpcResp.DecodeResult(out)
}
