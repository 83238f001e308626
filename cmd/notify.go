package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/a2a-subscribe/pkg/service"
)

var (
	notifyCmd = &cobra.Command{
		Use:   "notify",
		Short: "Run a receiver for push notifications",
		Long:  longNotify,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := service.NewNotifyServer(
				service.WithNotifyAddr(viper.GetString("notify.addr")),
			)

			return runUntilSignal(srv.Start, srv.Shutdown)
		},
	}
)

func init() {
	rootCmd.AddCommand(notifyCmd)
}

var longNotify = `
Listen for push notifications on POST /notify and log every artifact that
arrives.

Examples:
  a2a-subscribe notify
`
