package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/superbullet/superbullet/internal/config"
	"github.com/superbullet/superbullet/internal/initialization"
	"github.com/superbullet/superbullet/internal/version"
)

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check configuration and connectivity",
		Long:  `Load the configuration, connect to every configured store and list the code generation providers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context())
		},
	}
}

func runStatus(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	info := version.Get()
	fmt.Printf("SuperBullet %s (%s, %s)\n", info, info.GoVersion, info.Platform)

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("❌ Configuration is incomplete")
		return err
	}

	container, err := initialization.NewContainer(ctx, cfg)
	if err != nil {
		fmt.Println("❌ PostgreSQL is unreachable")
		return err
	}
	defer container.Close(ctx)

	status := container.Status()
	for _, store := range []string{"postgres", "redis", "mongodb"} {
		mark := "❌"
		if status[store] {
			mark = "✅"
		}
		fmt.Printf("   %s %s\n", mark, store)
	}

	models := initialization.BuildModels(ctx, cfg)
	ids := make([]string, len(models))
	for i, model := range models {
		ids[i] = model.ID()
	}

	if len(ids) == 0 {
		fmt.Println("   Code generation: templates only")
	} else {
		fmt.Printf("   Code generation: %s\n", strings.Join(ids, " > "))
	}

	if config.IsSet(cfg.GitHubToken) {
		fmt.Println("   Gist export: enabled")
	} else {
		fmt.Println("   Gist export: disabled (GITHUB_TOKEN not set)")
	}

	return nil
}
