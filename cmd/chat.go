package cmd

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/a2a-subscribe/pkg/client"
	"github.com/theapemachine/a2a-subscribe/pkg/logging"
	"github.com/theapemachine/a2a-subscribe/pkg/provider"
	"github.com/theapemachine/a2a-subscribe/pkg/ui"
)

var (
	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Chat with the LLM and ask the riddle server for riddles",
		Long:  longChat,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			closeLog, err := logging.Init(expandHome(v.GetString("log.file")))

			if err != nil {
				return err
			}

			defer closeLog()

			chat := ui.NewChat(
				provider.NewOpenAIProvider(provider.WithModel(v.GetString("agent.riddler.model"))),
				client.NewAgentClient(v.GetString("server.url")),
			)

			_, err = tea.NewProgram(ui.New(chat, 3*time.Minute), tea.WithAltScreen()).Run()

			return err
		},
	}
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

var longChat = `
Open a terminal chat. Messages asking for a riddle or a puzzle are turned
into a topic and sent to the riddle server at server.url; everything else is
answered by the LLM. Logs go to log.file while the chat is open.

Examples:
  a2a-subscribe serve --agent riddler &
  a2a-subscribe chat
`
