package service

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
)

/*
NotifyServer receives push notifications on POST /notify. Every artifact
that arrives is logged and handed to the configured handler.
*/
type NotifyServer struct {
	app     *fiber.App
	addr    string
	handler func(a2a.Artifact)
}

type NotifyServerOption func(*NotifyServer)

func NewNotifyServer(options ...NotifyServerOption) *NotifyServer {
	srv := &NotifyServer{
		addr: ":9000",
	}

	for _, option := range options {
		option(srv)
	}

	srv.app = fiber.New(fiber.Config{
		AppName:      "A2A-Notify-Server",
		ServerHeader: "A2A-Notify-Server",
	})

	srv.app.Use(recover.New(), logger.New())
	srv.app.Get("/", func(ctx fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	srv.app.Post("/notify", srv.handleNotify)

	return srv
}

func WithNotifyAddr(addr string) NotifyServerOption {
	return func(srv *NotifyServer) {
		if addr != "" {
			srv.addr = addr
		}
	}
}

func WithNotifyHandler(handler func(a2a.Artifact)) NotifyServerOption {
	return func(srv *NotifyServer) {
		srv.handler = handler
	}
}

func (srv *NotifyServer) App() *fiber.App {
	return srv.app
}

func (srv *NotifyServer) Start() error {
	log.Info("notification server listening", "addr", srv.addr)
	return srv.app.Listen(srv.addr, fiber.ListenConfig{DisableStartupMessage: true})
}

func (srv *NotifyServer) Shutdown(ctx context.Context) error {
	return srv.app.ShutdownWithContext(ctx)
}

func (srv *NotifyServer) handleNotify(ctx fiber.Ctx) error {
	var artifact a2a.Artifact

	if err := json.Unmarshal(ctx.Body(), &artifact); err != nil {
		log.Warn("malformed notification", "error", err)
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pretty, _ := json.MarshalIndent(artifact, "", "    ")
	log.Info("received notification", "artifact", string(pretty))

	if srv.handler != nil {
		srv.handler(artifact)
	}

	return ctx.JSON(fiber.Map{"status": "received"})
}
