package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/superbullet/superbullet/internal/config"
	"github.com/superbullet/superbullet/internal/store/postgres"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			return postgres.Migrate(ctx, pool)
		},
	}
}
