package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/a2a-subscribe/pkg/agent"
	"github.com/theapemachine/a2a-subscribe/pkg/provider"
	"github.com/theapemachine/a2a-subscribe/pkg/push"
	"github.com/theapemachine/a2a-subscribe/pkg/service"
	"github.com/theapemachine/a2a-subscribe/pkg/stores"
	"github.com/theapemachine/a2a-subscribe/pkg/stores/s3"
)

var (
	agentKindFlag string
	addrFlag      string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve an A2A agent with push notification support",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			if agentKindFlag != "" {
				v.Set("agent.kind", agentKindFlag)
			}

			if addrFlag != "" {
				v.Set("server.addr", addrFlag)
			}

			capability, err := buildAgent(v)

			if err != nil {
				return err
			}

			options := []service.TaskManagerOption{
				service.WithAgent(capability),
				service.WithTaskStore(stores.NewMemoryStore()),
				service.WithDeliverer(push.NewNotifier(push.WithTimeout(v.GetDuration("push.timeout")))),
				service.WithRegistryOptions(
					push.WithAttempts(v.GetInt("push.attempts")),
					push.WithInterval(v.GetDuration("push.interval")),
				),
			}

			if v.GetBool("archive.enabled") {
				archive, err := buildArchive(cmd.Context(), v)

				if err != nil {
					return err
				}

				options = append(options, service.WithArchive(archive))
			}

			manager, err := service.NewTaskManager(options...)

			if err != nil {
				return err
			}

			srv := service.NewServer(
				manager,
				service.WithAddr(v.GetString("server.addr")),
				service.WithURL(v.GetString("server.url")),
			)

			return runUntilSignal(srv.Start, srv.Shutdown)
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&agentKindFlag, "agent", "a", "", "Agent to serve (echo or riddler)")
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "Address to listen on")
}

func buildAgent(v *viper.Viper) (agent.Agent, error) {
	switch kind := v.GetString("agent.kind"); kind {
	case "", "echo":
		return agent.NewEcho(agent.WithDelay(v.GetDuration("agent.echo.delay"))), nil
	case "riddler":
		return agent.NewRiddler(
			provider.NewOpenAIProvider(provider.WithModel(v.GetString("agent.riddler.model"))),
			agent.WithSearcher(provider.NewSerperSearch()),
		), nil
	default:
		return nil, fmt.Errorf("unknown agent %q, expected echo or riddler", kind)
	}
}

func buildArchive(ctx context.Context, v *viper.Viper) (*s3.Archive, error) {
	conn, err := s3.NewConn(s3.Config{
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.accessKey"),
		SecretKey: v.GetString("archive.secretKey"),
		Bucket:    v.GetString("archive.bucket"),
		Secure:    v.GetBool("archive.secure"),
	})

	if err != nil {
		return nil, err
	}

	if err = conn.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("archiving finished tasks", "endpoint", v.GetString("archive.endpoint"), "bucket", v.GetString("archive.bucket"))

	return s3.NewArchive(conn), nil
}

/*
runUntilSignal starts a server and shuts it down on SIGINT or SIGTERM. A
server that fails to start ends the command with that error. A nil start
only waits for the signal.
*/
func runUntilSignal(start func() error, shutdown func(context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)

	if start != nil {
		go func() {
			errs <- start()
		}()
	}

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return shutdown(shutdownCtx)
}

var longServe = `
Serve an A2A agent. Every task is answered with "submitted" right away and
finished in the background; registered callbacks receive the artifact.

Examples:
  # Serve the echo agent on the configured address
  a2a-subscribe serve

  # Serve the news riddle agent on port 8080
  a2a-subscribe serve --agent riddler --addr :8080
`
