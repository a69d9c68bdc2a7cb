// Command kkbctl runs administrative operations against the backend database
// and task queue.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/app"
	"github.com/kkambbaki/backend/internal/infrastructure/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "kkbctl",
		Short: "깜빡이 backend administration",
		Long: `kkbctl runs the operator tasks of the 깜빡이 backend.

Configuration is read the same way as the server: config.toml plus
KKB_* environment variables.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall timeout of the command")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	cmd.AddCommand(
		newSendReportEmailCmd(opts),
		newCreateDummyReportCmd(opts),
		newSendDemoEmailCmd(opts),
		newSeedGamesCmd(opts),
		newRankingCmd(opts),
		newBotTokenCmd(opts),
	)
	return cmd
}

// withApp builds the application, runs fn and releases everything afterwards
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app.Application) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	cfg.Log.Format = "console"
	cfg.Log.Output = "stderr"

	log, err := app.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			a.Logger.Warn("Error releasing resources", zap.Error(err))
		}
	}()
	return fn(ctx, a)
}
