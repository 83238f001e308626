package client

import (
	"context"
	stderrors "errors"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/smarty/assertions/should"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/agent"
	"github.com/theapemachine/a2a-subscribe/pkg/errors"
	"github.com/theapemachine/a2a-subscribe/pkg/push"
	"github.com/theapemachine/a2a-subscribe/pkg/service"
	"github.com/theapemachine/a2a-subscribe/pkg/stores"
)

func listen(t *testing.T, app *fiber.App) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")

	if err != nil {
		t.Fatal(err)
	}

	go func() {
		_ = app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	return "http://" + ln.Addr().String() + "/"
}

func startAgent(t *testing.T, delay time.Duration) string {
	manager, err := service.NewTaskManager(
		service.WithAgent(agent.NewEcho(agent.WithDelay(delay))),
		service.WithTaskStore(stores.NewMemoryStore()),
		service.WithRegistryOptions(push.WithInterval(40*time.Millisecond)),
	)

	if err != nil {
		t.Fatal(err)
	}

	srv := service.NewServer(manager)
	url := listen(t, srv.App())

	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})

	return url
}

func startNotify(t *testing.T) (string, <-chan a2a.Artifact) {
	received := make(chan a2a.Artifact, 4)

	srv := service.NewNotifyServer(service.WithNotifyHandler(func(artifact a2a.Artifact) {
		received <- artifact
	}))

	url := listen(t, srv.App())

	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})

	return url + "notify", received
}

func TestAgentClientTasks(t *testing.T) {
	url := startAgent(t, 0)

	Convey("Given a client for a running echo agent", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		agentClient := NewAgentClient(url, WithTimeout(2*time.Second))

		Convey("It reads the agent card", func() {
			card, err := agentClient.Card(ctx)

			So(err, ShouldBeNil)
			So(card.Name, should.Equal, "echo")
			So(card.Capabilities.PushNotifications, should.BeTrue)
		})

		Convey("A sent task is submitted and later completed", func() {
			task, err := agentClient.SendTask(ctx, a2a.TaskSendParams{
				ID:        "t1",
				SessionID: "s1",
				Message:   *a2a.NewTextMessage("user", "Hello"),
			})

			So(err, ShouldBeNil)
			So(task.Status.State, should.Equal, a2a.TaskStateSubmitted)

			done, err := agentClient.WaitForTask(ctx, "t1", 20*time.Millisecond)

			So(err, ShouldBeNil)
			So(done.Status.State, should.Equal, a2a.TaskStateCompleted)
			So(done.Artifacts, should.HaveLength, 1)
			So(done.Artifacts[0].Text(), should.Equal, "Echo: Hello")
		})

		Convey("An unknown task comes back as a typed error", func() {
			_, err := agentClient.GetTask(ctx, a2a.TaskQueryParams{ID: "missing"})

			So(stderrors.Is(err, errors.ErrTaskNotFound), should.BeTrue)
		})

		Convey("Waiting on a task that never appears stops with the context", func() {
			short, stop := context.WithTimeout(ctx, 100*time.Millisecond)
			defer stop()

			_, err := agentClient.WaitForTask(short, "never", 20*time.Millisecond)

			So(stderrors.Is(err, context.DeadlineExceeded), should.BeTrue)
		})
	})
}

func TestAgentClientSubscribe(t *testing.T) {
	url := startAgent(t, 200*time.Millisecond)
	notifyURL, received := startNotify(t)

	Convey("Given a client and a notification receiver", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		agentClient := NewAgentClient(url, WithTimeout(2*time.Second))

		Convey("A callback registered right after SendMessage receives the artifact", func() {
			id := agentClient.SendMessage(ctx, "Hello, Echo Agent!")
			So(id, should.NotBeBlank)

			cfg, err := agentClient.SetTaskCallback(ctx, a2a.TaskPushNotificationConfig{
				ID:                     id,
				PushNotificationConfig: a2a.PushNotificationConfig{URL: notifyURL},
			})

			So(err, ShouldBeNil)
			So(cfg.ID, should.Equal, id)

			got, err := agentClient.GetTaskCallback(ctx, a2a.TaskIDParams{ID: id})
			So(err, ShouldBeNil)
			So(got.PushNotificationConfig.URL, should.Equal, notifyURL)

			select {
			case artifact := <-received:
				So(artifact.Text(), should.Equal, "Echo: Hello, Echo Agent!")
			case <-ctx.Done():
				So(ctx.Err(), ShouldBeNil)
			}

			So(agentClient.Wait(), ShouldBeNil)
		})

		Convey("A callback for a task that never exists is rejected", func() {
			_, err := agentClient.SetTaskCallback(ctx, a2a.TaskPushNotificationConfig{
				ID:                     "ghost",
				PushNotificationConfig: a2a.PushNotificationConfig{URL: notifyURL},
			})

			So(stderrors.Is(err, errors.ErrTaskNotFound), should.BeTrue)
		})
	})
}
