package main

import (
	"github.com/spf13/cobra"

	"github.com/ds124wfegd/tennis-courts/internal/appServer"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return appServer.Migrate(cmd.Context(), cfg)
		},
	}
}
