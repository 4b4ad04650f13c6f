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

	"ironhold/internal/billing"
	"ironhold/internal/config"
	"ironhold/internal/logger"
	"ironhold/internal/server"
	"ironhold/internal/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ironhold",
		Short:        "Iron Hold Wrestling subscription video API",
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the background sweeper",
		RunE:  runServe,
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables or indexes for the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx := cmd.Context()
			st, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.close()

			if err := st.db.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("migration complete", zap.String("backend", cfg.StoreBackend))
			return nil
		},
	}
}

func reconcileCmd() *cobra.Command {
	var lookback time.Duration

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check every pending payment with the provider once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx := cmd.Context()
			st, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.close()

			provider := billing.NewStripe(cfg.StripeAPIKey, cfg.StripeWebhookSecret, cfg.ProviderTimeout)
			n, err := billing.NewReconciler(provider, st.db, log).Sweep(ctx, time.Now().Add(-lookback))
			if err != nil {
				return err
			}
			fmt.Printf("activated %d subscription(s)\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&lookback, "since", worker.DefaultLookback, "only check transactions created within this window")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	if err := st.db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	srv := server.New(cfg, log, st.db, st.state)
	return srv.Run(ctx)
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Development, logger.LogLevel(cfg.LogLevel))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}

func closeTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
