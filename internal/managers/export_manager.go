package managers

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/internal/domain"
)

const emptyGistFile = "-- empty file\n"

type exportManager struct {
	projects  domain.ProjectRepository
	files     domain.FileRepository
	publisher domain.GistPublisher
}

type ExportManagerDependencies struct {
	ProjectRepository domain.ProjectRepository
	FileRepository    domain.FileRepository
	// GistPublisher is nil when no GitHub token is configured
	GistPublisher domain.GistPublisher
}

func NewExportManager(deps ExportManagerDependencies) domain.ExportManager {
	return &exportManager{
		projects:  deps.ProjectRepository,
		files:     deps.FileRepository,
		publisher: deps.GistPublisher,
	}
}

// GistFileName flattens a project path into a gist file name
func GistFileName(path string) string {
	return strings.ReplaceAll(path, "/", "__")
}

func (m *exportManager) ExportGist(ctx context.Context, userID, projectID string) (domain.Gist, error) {
	if m.publisher == nil {
		return domain.Gist{}, domain.ErrExportUnavailable
	}

	project, err := m.projects.GetProject(ctx, userID, projectID)
	if err != nil {
		return domain.Gist{}, err
	}

	files, err := m.files.ListFiles(ctx, project.ID)
	if err != nil {
		return domain.Gist{}, err
	}

	if len(files) == 0 {
		return domain.Gist{}, domain.BadRequest("Project has no files to export")
	}

	contents := make(map[string]string, len(files))
	for _, file := range files {
		content := file.Content
		if strings.TrimSpace(content) == "" {
			content = emptyGistFile
		}
		contents[GistFileName(file.Path)] = content
	}

	gist, err := m.publisher.CreateGist(ctx, fmt.Sprintf("%s (SuperBullet export)", project.Name), contents)
	if err != nil {
		return domain.Gist{}, err
	}

	log.Info().Str("project_id", project.ID).Str("gist_id", gist.ID).Int("files", len(files)).Msg("Project exported to gist")

	return gist, nil
}
