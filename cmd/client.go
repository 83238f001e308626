package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/agent"
	"github.com/theapemachine/a2a-subscribe/pkg/client"
)

var (
	clientMessageFlag string
	clientSessionFlag string
	clientTimeoutFlag time.Duration

	clientCmd = &cobra.Command{
		Use:   "client",
		Short: "Send one message to an A2A agent and wait for the result",
		Long:  longClient,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeoutFlag)
			defer cancel()

			agentClient := client.NewAgentClient(viper.GetString("server.url"))

			card, err := agentClient.Card(ctx)

			if err != nil {
				return err
			}

			fmt.Printf("Connected to %s (%s)\n", card.Name, card.URL)

			params := a2a.TaskSendParams{
				ID:                  uuidOr(""),
				SessionID:           uuidOr(clientSessionFlag),
				Message:             *a2a.NewTextMessage("user", clientMessageFlag),
				AcceptedOutputModes: []string{"text"},
			}

			if _, err = agentClient.SendTask(ctx, params); err != nil {
				return err
			}

			task, err := agentClient.WaitForTask(ctx, params.ID, 500*time.Millisecond)

			if err != nil {
				return err
			}

			fmt.Println(task.String())

			for _, artifact := range task.Artifacts {
				fmt.Println(agent.FormatRiddles(artifact.Text()))
			}

			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(clientCmd)

	clientCmd.Flags().StringVarP(&clientMessageFlag, "message", "m", "Hello, Echo Agent!", "Message to send")
	clientCmd.Flags().StringVarP(&clientSessionFlag, "session", "s", "", "Session to continue")
	clientCmd.Flags().DurationVar(&clientTimeoutFlag, "timeout", 2*time.Minute, "How long to wait for the result")
}

func uuidOr(id string) string {
	if id != "" {
		return id
	}

	return uuid.NewString()
}

var longClient = `
Send a message to the agent at server.url, poll until the task is done and
print it. Riddles are printed as plain text.

Examples:
  a2a-subscribe client --message "Hello"
  a2a-subscribe client --message "space exploration"
`
