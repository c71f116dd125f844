package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ds124wfegd/tennis-courts/config"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tennis-courts",
		Short:         "Tennis court reservations: booking, cancellation, rescheduling and no-show sweeps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "./config", "directory containing config.yaml")

	load := func() (*config.Config, error) {
		return loadConfig(configPath)
	}

	serve := newServeCmd(load)
	root.RunE = serve.RunE

	root.AddCommand(serve)
	root.AddCommand(newSweepCmd(load))
	root.AddCommand(newMigrateCmd(load))

	return root
}

func loadConfig(path string) (*config.Config, error) {
	viperInstance, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		return nil, fmt.Errorf("cannot parse config: %w", err)
	}

	setupLogging(cfg.Logging)
	return cfg, nil
}

func setupLogging(cfg config.LoggingConfig) {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
