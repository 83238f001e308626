package service

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/jsonrpc"
)

/*
Server exposes a TaskManager over JSON-RPC. It is safe for concurrent use
because the TaskManager and RPCServer are.
*/
type Server struct {
	app     *fiber.App
	manager *TaskManager
	rpc     *jsonrpc.RPCServer
	addr    string
	url     string
}

type ServerOption func(*Server)

func NewServer(manager *TaskManager, options ...ServerOption) *Server {
	srv := &Server{
		manager: manager,
		rpc:     jsonrpc.NewRPCServer(),
		addr:    ":8000",
		url:     "http://localhost:8000/",
	}

	for _, option := range options {
		option(srv)
	}

	srv.app = fiber.New(fiber.Config{
		AppName:      manager.agent.Name(),
		ServerHeader: "A2A-Agent-Server",
	})

	srv.app.Use(recover.New(), logger.New())
	srv.app.Get("/", srv.handleRoot)
	srv.app.Get("/.well-known/agent.json", srv.handleAgentCard)
	srv.app.Get("/metrics", srv.handleMetrics)
	srv.app.Post("/", srv.handleRPC)
	srv.app.Post("/rpc", srv.handleRPC)

	srv.registerMethods()

	return srv
}

func WithAddr(addr string) ServerOption {
	return func(srv *Server) {
		if addr != "" {
			srv.addr = addr
		}
	}
}

/*
WithURL sets the public URL advertised on the agent card.
*/
func WithURL(url string) ServerOption {
	return func(srv *Server) {
		if url != "" {
			srv.url = url
		}
	}
}

func (srv *Server) App() *fiber.App {
	return srv.app
}

func (srv *Server) Start() error {
	log.Info("agent server listening", "agent", srv.manager.agent.Name(), "addr", srv.addr, "url", srv.url)
	return srv.app.Listen(srv.addr, fiber.ListenConfig{DisableStartupMessage: true})
}

/*
Shutdown stops accepting requests, then waits for the runners that are still
in flight.
*/
func (srv *Server) Shutdown(ctx context.Context) error {
	if err := srv.app.ShutdownWithContext(ctx); err != nil {
		return err
	}

	if err := srv.manager.Wait(); err != nil {
		log.Warn("a task failed before shutdown", "error", err)
	}

	return nil
}

func (srv *Server) registerMethods() {
	srv.rpc.Register("tasks/send", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var params a2a.TaskSendParams

		if err := jsonrpc.DecodeParams(raw, &params); err != nil {
			return nil, err
		}

		return srv.manager.SendTask(ctx, params)
	})

	srv.rpc.Register("tasks/get", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var params a2a.TaskQueryParams

		if err := jsonrpc.DecodeParams(raw, &params); err != nil {
			return nil, err
		}

		return srv.manager.GetTask(ctx, params)
	})

	srv.rpc.Register("tasks/pushNotification/set", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var params a2a.TaskPushNotificationConfig

		if err := jsonrpc.DecodeParams(raw, &params); err != nil {
			return nil, err
		}

		return srv.manager.SetPushNotification(ctx, params)
	})

	srv.rpc.Register("tasks/pushNotification/get", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var params a2a.TaskIDParams

		if err := jsonrpc.DecodeParams(raw, &params); err != nil {
			return nil, err
		}

		return srv.manager.GetPushNotification(ctx, params)
	})
}

func (srv *Server) handleRoot(ctx fiber.Ctx) error {
	return ctx.SendString("OK")
}

func (srv *Server) handleAgentCard(ctx fiber.Ctx) error {
	return ctx.JSON(srv.manager.Card(srv.url))
}

func (srv *Server) handleMetrics(ctx fiber.Ctx) error {
	return ctx.JSON(srv.manager.Metrics().GetMetrics())
}

/*
handleRPC always answers 200: JSON-RPC failures travel in the error member
of the body, not in the HTTP status.
*/
func (srv *Server) handleRPC(ctx fiber.Ctx) error {
	payload, ok := srv.rpc.Handle(ctx.RequestCtx(), ctx.Body())

	if !ok {
		return ctx.SendStatus(fiber.StatusNoContent)
	}

	return ctx.JSON(payload)
}
