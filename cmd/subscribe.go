package cmd

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/client"
	"github.com/theapemachine/a2a-subscribe/pkg/service"
)

var (
	subscribeMessageFlag string
	subscribeDelayFlag   time.Duration

	subscribeCmd = &cobra.Command{
		Use:   "subscribe",
		Short: "Send a message and receive the result as a push notification",
		Long:  longSubscribe,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			receiver := service.NewNotifyServer(
				service.WithNotifyAddr(v.GetString("notify.addr")),
				service.WithNotifyHandler(func(artifact a2a.Artifact) {
					log.Info("result", "text", artifact.Text())
				}),
			)

			go func() {
				if err := receiver.Start(); err != nil {
					log.Error("notification server stopped", "error", err)
				}
			}()

			ctx := cmd.Context()
			agentClient := client.NewAgentClient(v.GetString("server.url"))

			id := agentClient.SendMessage(ctx, subscribeMessageFlag)
			log.Info("task sent", "id", id)

			// The server may not have stored the task yet; its registry polls
			// for it, this pause only keeps the logs in order.
			time.Sleep(subscribeDelayFlag)

			notifyURL := v.GetString("notify.url")

			if _, err := agentClient.SetTaskCallback(ctx, a2a.TaskPushNotificationConfig{
				ID:                     id,
				PushNotificationConfig: a2a.PushNotificationConfig{URL: notifyURL},
			}); err != nil {
				return err
			}

			log.Info("client registered with notification callback", "url", notifyURL)
			log.Info("waiting for notifications, press ctrl+c to stop")

			return runUntilSignal(nil, receiver.Shutdown)
		},
	}
)

func init() {
	rootCmd.AddCommand(subscribeCmd)

	subscribeCmd.Flags().StringVarP(&subscribeMessageFlag, "message", "m", "Hello, Echo Agent!", "Message to send")
	subscribeCmd.Flags().DurationVar(&subscribeDelayFlag, "delay", 2*time.Second, "Pause between sending and registering the callback")
}

var longSubscribe = `
Start a notification receiver, send a message without waiting for the
answer, then register the receiver as the task's callback. The artifact is
logged when the server pushes it.

Examples:
  a2a-subscribe subscribe --message "Hello, Echo Agent!"
`
