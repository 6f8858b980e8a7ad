package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sups/practice-server/internal/infrastructure/config"
	"github.com/sups/practice-server/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions override the environment configuration.
type ServeOptions struct {
	Port         string
	RulesFile    string
	SeedDir      string
	JSONStoreDir string
}

// NewServeCommand creates the serve command.
func NewServeCommand(_ *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

Configuration comes from the environment (PORT, JWT_SECRET, RULES_FILE,
SEED_DIR, JSONSTORE_DIR, MONGO_URI, REDIS_ADDR, ...); flags take precedence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			opts.apply(cfg)
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&opts.RulesFile, "rules", "", "YAML or JSON rules file (overrides RULES_FILE)")
	cmd.Flags().StringVar(&opts.SeedDir, "seed-dir", "", "directory of <collection>.json seed files (overrides SEED_DIR)")
	cmd.Flags().StringVar(&opts.JSONStoreDir, "jsonstore-dir", "", "directory of <name>.json files for /jsonstore (overrides JSONSTORE_DIR)")

	return cmd
}

func (o *ServeOptions) apply(cfg *config.Config) {
	if o.Port != "" {
		cfg.Port = o.Port
	}
	if o.RulesFile != "" {
		cfg.Data.RulesFile = o.RulesFile
	}
	if o.SeedDir != "" {
		cfg.Data.SeedDir = o.SeedDir
	}
	if o.JSONStoreDir != "" {
		cfg.Data.JSONStoreDir = o.JSONStoreDir
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "practice-server",
	})

	srv, err := NewServer(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to start")
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := srv.Echo.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			_ = srv.Close(context.Background())
			return err
		}
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(srv.Echo.Shutdown(shutdownCtx), srv.Close(shutdownCtx))
}
