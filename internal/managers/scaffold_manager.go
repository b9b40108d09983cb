package managers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/pkg/codegen"
	"github.com/superbullet/superbullet/pkg/knit"
	"github.com/superbullet/superbullet/pkg/structure"
)

type scaffoldManager struct {
	projects domain.ProjectRepository
	codegen  domain.CodegenManager
}

type ScaffoldManagerDependencies struct {
	// ProjectRepository may be nil when only previews are rendered
	ProjectRepository domain.ProjectRepository
	CodegenManager    domain.CodegenManager
}

func NewScaffoldManager(deps ScaffoldManagerDependencies) domain.ScaffoldManager {
	return &scaffoldManager{
		projects: deps.ProjectRepository,
		codegen:  deps.CodegenManager,
	}
}

// Scaffold generates the service files, merges their paths into the project
// structure and stores the files the structure accepted, all under the project lock.
func (m *scaffoldManager) Scaffold(ctx context.Context, userID string, p domain.ScaffoldParams) (domain.ScaffoldResult, error) {
	if strings.TrimSpace(p.ProjectID) == "" || strings.TrimSpace(p.ServiceName) == "" {
		return domain.ScaffoldResult{}, domain.BadRequest("Project ID and service name are required")
	}

	if _, err := m.projects.GetProject(ctx, userID, p.ProjectID); err != nil {
		return domain.ScaffoldResult{}, err
	}

	generated, err := m.render(ctx, userID, p)
	if err != nil {
		return domain.ScaffoldResult{}, err
	}

	result := domain.ScaffoldResult{Success: true}

	err = m.projects.WithLockedProject(ctx, userID, p.ProjectID, func(ctx context.Context, tx domain.ProjectTx) error {
		merged, report := structure.Merge(tx.Project().Structure, knit.Descriptors(generated))

		rows := storableFiles(generated, report.Skipped)

		inserted := []domain.File{}
		if len(rows) > 0 {
			var err error

			inserted, err = tx.InsertFiles(ctx, rows)
			if err != nil {
				return err
			}
		}

		if err := tx.SaveStructure(ctx, merged); err != nil {
			return err
		}

		result.Files = inserted
		result.Existing = existingPaths(rows, inserted)
		result.Skipped = report.Skipped

		return nil
	})
	if err != nil {
		return domain.ScaffoldResult{}, err
	}

	if result.Skipped == nil {
		result.Skipped = []structure.SkippedDescriptor{}
	}

	result.Message = fmt.Sprintf("Generated %s service with %d files", strings.TrimSpace(p.ServiceName), len(generated))

	log.Info().
		Str("project_id", p.ProjectID).
		Str("service", p.ServiceName).
		Int("created", len(result.Files)).
		Int("existing", len(result.Existing)).
		Int("skipped", len(result.Skipped)).
		Msg("Service scaffolded")

	return result, nil
}

func (m *scaffoldManager) Preview(ctx context.Context, userID string, p domain.ScaffoldParams, base structure.Structure) (domain.ScaffoldPreview, error) {
	if strings.TrimSpace(p.ServiceName) == "" {
		return domain.ScaffoldPreview{}, domain.BadRequest("Service name is required")
	}

	generated, err := m.render(ctx, userID, p)
	if err != nil {
		return domain.ScaffoldPreview{}, err
	}

	merged, report := structure.Merge(base, knit.Descriptors(generated))

	return domain.ScaffoldPreview{
		Files:     generated,
		Structure: merged,
		Report:    report,
	}, nil
}

func (m *scaffoldManager) render(ctx context.Context, userID string, p domain.ScaffoldParams) ([]knit.GeneratedFile, error) {
	config, err := knit.ServiceConfig{ServiceName: p.ServiceName, Components: p.Components}.Normalize()
	if err != nil {
		return nil, domain.BadRequest(err.Error())
	}

	if p.UseAI && m.codegen != nil {
		config.Generated = m.generateBodies(ctx, userID, config)
	}

	files, err := knit.GenerateService(config)
	if err != nil {
		if errors.Is(err, knit.ErrInvalidServiceName) || errors.Is(err, knit.ErrInvalidComponentName) || errors.Is(err, knit.ErrDuplicateComponent) {
			return nil, domain.BadRequest(err.Error())
		}
		return nil, fmt.Errorf("failed to generate service: %w", err)
	}

	return files, nil
}

// generateBodies asks the code generator for every component. Template
// fallbacks are dropped so the scaffold keeps its own stubs.
func (m *scaffoldManager) generateBodies(ctx context.Context, userID string, config knit.ServiceConfig) map[string]string {
	generated := map[string]string{}

	kinds := []struct {
		kind       knit.ComponentKind
		components []knit.Component
	}{
		{knit.ComponentKindGet, config.Components.Get},
		{knit.ComponentKindSet, config.Components.Set},
		{knit.ComponentKindOther, config.Components.Others},
	}

	var names []string
	for _, k := range kinds {
		for _, c := range k.components {
			names = append(names, c.Name)
		}
	}

	for _, k := range kinds {
		for _, component := range k.components {
			description := component.Description
			if description == "" {
				description = component.Name
			}

			response, err := m.codegen.GenerateCode(ctx, userID, codegen.Request{
				ComponentName: component.Name,
				ComponentType: k.kind,
				Description:   description,
				Context: &codegen.RequestContext{
					ServiceName:       config.ServiceName,
					RelatedComponents: related(names, component.Name),
				},
			})
			if err != nil {
				log.Warn().Err(err).Str("component", component.Name).Msg("Skipping code generation for component")
				continue
			}

			if response.FromFallback {
				continue
			}

			generated[component.Name] = response.Code
		}
	}

	return generated
}

func related(names []string, self string) []string {
	out := make([]string, 0, len(names))

	for _, name := range names {
		if name != self {
			out = append(out, name)
		}
	}

	return out
}

// storableFiles drops the files whose path the structure rejected, so every
// stored row has a file node
func storableFiles(generated []knit.GeneratedFile, skipped []structure.SkippedDescriptor) []domain.File {
	rejected := make(map[string]struct{}, len(skipped))
	for _, s := range skipped {
		rejected[s.Path] = struct{}{}
	}

	rows := make([]domain.File, 0, len(generated))
	for _, file := range generated {
		if _, ok := rejected[file.Path]; ok {
			continue
		}
		rows = append(rows, domain.File{Path: file.Path, Content: file.Content, FileType: file.FileType})
	}

	return rows
}

func existingPaths(attempted []domain.File, inserted []domain.File) []string {
	created := make(map[string]struct{}, len(inserted))
	for _, file := range inserted {
		created[file.Path] = struct{}{}
	}

	existing := []string{}
	for _, file := range attempted {
		if _, ok := created[file.Path]; !ok {
			existing = append(existing, file.Path)
		}
	}

	return existing
}
