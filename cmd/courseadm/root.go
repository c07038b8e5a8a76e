package main

import (
	"fmt"

	"github.com/spf13/cobra"

	configs "coursework_service/config"
	"coursework_service/internal/app"
	"coursework_service/internal/service"
	"coursework_service/pkg/logger"
)

// cli carries the wired application between cobra hooks and commands.
type cli struct {
	configPath string
	app        *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "courseadm",
		Short:         "Collect, grade and return course submissions",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.teardown()
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to config file (defaults to CONFIG_PATH or config/config.yaml)")

	root.AddCommand(
		c.collectCmd(),
		c.gradesCmd(),
		c.gradebookCmd(),
		c.returnCmd(),
		c.returnAllCmd(),
		c.ungradedCmd(),
		c.overviewCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	var (
		cfg *configs.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = configs.LoadFrom(c.configPath)
	} else {
		cfg, err = configs.Load()
	}
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	c.app, err = app.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	return nil
}

func (c *cli) teardown() error {
	if c.app == nil {
		return nil
	}
	_ = c.app.Log.Sync()
	err := c.app.Close()
	c.app = nil
	return err
}

func (c *cli) course(cmd *cobra.Command) (service.Course, error) {
	return c.app.Course(cmd.Context())
}
