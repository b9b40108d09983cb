package managers

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/pkg/structure"
	"github.com/superbullet/superbullet/pkg/utils/pagination"
)

type projectManager struct {
	projects domain.ProjectRepository
	files    domain.FileRepository
}

type ProjectManagerDependencies struct {
	ProjectRepository domain.ProjectRepository
	FileRepository    domain.FileRepository
}

func NewProjectManager(deps ProjectManagerDependencies) domain.ProjectManager {
	return &projectManager{
		projects: deps.ProjectRepository,
		files:    deps.FileRepository,
	}
}

func (m *projectManager) ListProjects(ctx context.Context, userID string, page pagination.Params) ([]domain.Project, error) {
	return m.projects.ListProjects(ctx, userID, page)
}

func (m *projectManager) CreateProject(ctx context.Context, userID string, p domain.CreateProjectParams) (domain.Project, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return domain.Project{}, domain.BadRequest("Project name is required")
	}

	projectSlug := slug.Make(name)
	if projectSlug == "" {
		projectSlug = "project"
	}

	return m.projects.CreateProject(ctx, domain.Project{
		UserID:      userID,
		Name:        name,
		Slug:        projectSlug,
		Description: strings.TrimSpace(p.Description),
		Structure:   structure.Default(),
	})
}

func (m *projectManager) GetProject(ctx context.Context, userID, projectID string) (domain.Project, error) {
	project, err := m.projects.GetProject(ctx, userID, projectID)
	if err != nil {
		return domain.Project{}, err
	}

	files, err := m.files.ListFiles(ctx, project.ID)
	if err != nil {
		return domain.Project{}, err
	}
	project.Files = files

	return project, nil
}

// UpdateProject applies the provided fields. A blank name is ignored.
func (m *projectManager) UpdateProject(ctx context.Context, userID, projectID string, p domain.UpdateProjectParams) (domain.Project, error) {
	var update domain.ProjectUpdate

	if p.Name != nil {
		if name := strings.TrimSpace(*p.Name); name != "" {
			update.Name = &name
		}
	}

	update.Description = p.Description

	if len(p.Structure) > 0 && string(p.Structure) != "null" {
		s, err := structure.Validate(p.Structure)
		if err != nil {
			return domain.Project{}, domain.BadRequest(fmt.Sprintf("Invalid structure: %v", err))
		}
		update.Structure = s
	}

	return m.projects.UpdateProject(ctx, userID, projectID, update)
}

func (m *projectManager) DeleteProject(ctx context.Context, userID, projectID string) error {
	return m.projects.DeleteProject(ctx, userID, projectID)
}
