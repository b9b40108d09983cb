package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/superbullet/superbullet/internal/config"
	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/internal/initialization"
	"github.com/superbullet/superbullet/internal/managers"
	"github.com/superbullet/superbullet/pkg/codegen"
	"github.com/superbullet/superbullet/pkg/knit"
	"github.com/superbullet/superbullet/pkg/structure"
)

type scaffoldOptions struct {
	service     string
	get         []string
	set         []string
	others      []string
	useAI       bool
	showContent bool
}

func NewScaffoldCommand() *cobra.Command {
	opts := scaffoldOptions{}

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Preview a Knit service scaffold without a database",
		Long: `Render the files of a Knit service and show where they land in the default project tree.

Components are given as Name or Name:description, for example:
  superbullet scaffold --service Inventory --get GetItems:"Returns the player's items" --set AddItem`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.service, "service", "", "Service name (required)")
	cmd.Flags().StringArrayVar(&opts.get, "get", nil, "Get component, repeatable")
	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "Set component, repeatable")
	cmd.Flags().StringArrayVar(&opts.others, "other", nil, "Other component, repeatable")
	cmd.Flags().BoolVar(&opts.useAI, "ai", false, "Generate component bodies with the configured providers")
	cmd.Flags().BoolVar(&opts.showContent, "content", false, "Print the content of every generated file")
	cmd.MarkFlagRequired("service")

	return cmd
}

type scaffoldSummary struct {
	Service  string                        `yaml:"service"`
	Files    []scaffoldSummaryFile         `yaml:"files"`
	Created  []string                      `yaml:"created,omitempty"`
	Existing []string                      `yaml:"existing,omitempty"`
	Skipped  []structure.SkippedDescriptor `yaml:"skipped,omitempty"`
}

type scaffoldSummaryFile struct {
	Path     string `yaml:"path"`
	FileType string `yaml:"fileType"`
	Lines    int    `yaml:"lines"`
}

func runScaffold(ctx context.Context, opts scaffoldOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	generator := codegen.GeneratorDependencies{}

	if opts.useAI {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		generator.Models = initialization.BuildModels(ctx, cfg)
	}

	scaffolds := managers.NewScaffoldManager(managers.ScaffoldManagerDependencies{
		CodegenManager: managers.NewCodegenManager(managers.CodegenManagerDependencies{
			Generator: codegen.NewGenerator(generator),
		}),
	})

	preview, err := scaffolds.Preview(ctx, "", domain.ScaffoldParams{
		ServiceName: opts.service,
		Components: knit.Components{
			Get:    parseComponents(opts.get),
			Set:    parseComponents(opts.set),
			Others: parseComponents(opts.others),
		},
		UseAI: opts.useAI,
	}, structure.Default())
	if err != nil {
		return err
	}

	summary := scaffoldSummary{
		Service:  opts.service,
		Created:  preview.Report.Created,
		Existing: preview.Report.Existing,
		Skipped:  preview.Report.Skipped,
	}

	for _, file := range preview.Files {
		summary.Files = append(summary.Files, scaffoldSummaryFile{
			Path:     file.Path,
			FileType: file.FileType,
			Lines:    strings.Count(file.Content, "\n"),
		})
	}

	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	encoder.Close()

	fmt.Println()
	if err := printTree(preview.Structure); err != nil {
		return err
	}

	if opts.showContent {
		for _, file := range preview.Files {
			fmt.Printf("\n--- %s\n%s", file.Path, file.Content)
		}
	}

	return nil
}

// parseComponents splits Name:description flag values
func parseComponents(values []string) []knit.Component {
	components := make([]knit.Component, 0, len(values))

	for _, value := range values {
		name, description, _ := strings.Cut(value, ":")
		components = append(components, knit.Component{
			Name:        strings.TrimSpace(name),
			Description: strings.TrimSpace(description),
		})
	}

	return components
}

func printTree(s structure.Structure) error {
	return s.Walk(func(node structure.Node, depth int) error {
		suffix := ""
		if node.Type() == structure.NodeTypeFolder {
			suffix = "/"
		}

		fmt.Printf("%s%s%s\n", strings.Repeat("  ", depth), node.NodeName(), suffix)

		return nil
	})
}
