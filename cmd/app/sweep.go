package main

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ds124wfegd/tennis-courts/internal/appServer"
	"github.com/ds124wfegd/tennis-courts/internal/worker"
)

func newSweepCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark finished, unplayed reservations as no-shows once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			updated, err := appServer.RunSweep(cmd.Context(), cfg)
			if errors.Is(err, worker.ErrSweepLocked) {
				logrus.Info("No-show sweep is running on another replica, nothing to do")
				return nil
			}
			if err != nil {
				return fmt.Errorf("no-show sweep failed after %d updates: %w", updated, err)
			}

			logrus.WithField("updated", updated).Info("No-show sweep completed")
			fmt.Fprintf(cmd.OutOrStdout(), "%d reservations marked as no-show\n", updated)
			return nil
		},
	}
}
