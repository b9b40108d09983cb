package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/superbullet/superbullet/internal/config"
	"github.com/superbullet/superbullet/internal/initialization"
	"github.com/superbullet/superbullet/internal/store/postgres"
	"github.com/superbullet/superbullet/internal/version"
)

func NewServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the database schema before serving")

	return cmd
}

func runServe(migrate bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log.Info().Str("version", version.Get().String()).Msg("Starting SuperBullet")

	container, err := initialization.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close(context.Background())

	if migrate {
		if err := postgres.Migrate(ctx, container.Pool()); err != nil {
			return err
		}
	}

	server, err := container.BuildHTTPServer(ctx)
	if err != nil {
		return err
	}

	return server.Run(ctx)
}
