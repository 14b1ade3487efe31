package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/leaddesk/internal/app"
	"github.com/aryan0dhankhar/leaddesk/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/leaddesk/internal/observability/tracing"
	"github.com/aryan0dhankhar/leaddesk/pkg/config"
)

// cli carries global flags and the context built for one invocation
type cli struct {
	tenant   string
	logLevel string
	logOut   io.Writer // nil means stderr
	stdin    *bufio.Reader

	app      *app.Context
	shutdown func(context.Context) error
}

func newRootCmdWith(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "leaddesk",
		Short:         "Multi-tenant lead management from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&c.tenant, "tenant", "", "Tenant key, used like ?tenant= when nothing is selected yet")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")

	cmd.AddCommand(newAuthCmd(c))
	cmd.AddCommand(newTenantCmd(c))
	cmd.AddCommand(newLeadsCmd(c))
	cmd.AddCommand(newDashboardCmd(c))
	return cmd
}

// execute runs cmd and tears down whatever setup built, also when the command failed
func (c *cli) execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if c.app != nil && c.app.Navigator.Redirects() > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Session expired, please log in again")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if terr := c.teardown(ctx); terr != nil && err == nil {
		err = terr
	}
	return err
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	var log *slog.Logger
	if c.logOut != nil {
		log = logger.NewLoggerTo(c.logOut, level)
	} else {
		log = logger.NewLogger(level)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
		cmd.SetContext(ctx)
	}
	shutdown, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "leaddesk", cfg.Environment)
	if err != nil {
		log.Warn("tracing setup failed", slog.String("error", err.Error()))
		shutdown = func(context.Context) error { return nil }
	}
	c.shutdown = shutdown

	c.app, err = app.New(ctx, cfg, log, app.Options{TenantOverride: c.tenant})
	return err
}

func (c *cli) teardown(ctx context.Context) error {
	var err error
	if c.app != nil {
		err = c.app.Close()
	}
	if c.shutdown != nil {
		if serr := c.shutdown(ctx); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}
