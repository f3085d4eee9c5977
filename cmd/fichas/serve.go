package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the admin socket when configured) until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			if listen != "" {
				c.Listen = listen
			}
			c.PrepareThrottleBucketStore()
			c.PrepareWebService()
			c.PrepareUDSService()
			if err = c.StartServices(); err != nil {
				c.StopServices()
				return err
			}
			c.Logger.Info("serving", zap.String("listen", c.WebService.Addr().String()))
			err = c.WaitServicesDone()
			c.StopServices()
			return err
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address, overrides the config")
	return cmd
}
