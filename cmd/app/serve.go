package main

import (
	"github.com/spf13/cobra"

	"github.com/ds124wfegd/tennis-courts/config"
	"github.com/ds124wfegd/tennis-courts/internal/appServer"
)

type configLoader func() (*config.Config, error)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the no-show worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return appServer.NewServer(cfg)
		},
	}
}
