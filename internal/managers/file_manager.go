package managers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/pkg/knit"
	"github.com/superbullet/superbullet/pkg/structure"
)

type fileManager struct {
	projects domain.ProjectRepository
	files    domain.FileRepository
}

type FileManagerDependencies struct {
	ProjectRepository domain.ProjectRepository
	FileRepository    domain.FileRepository
}

func NewFileManager(deps FileManagerDependencies) domain.FileManager {
	return &fileManager{
		projects: deps.ProjectRepository,
		files:    deps.FileRepository,
	}
}

func (m *fileManager) ListFiles(ctx context.Context, userID, projectID string) ([]domain.File, error) {
	project, err := m.projects.GetProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	return m.files.ListFiles(ctx, project.ID)
}

// CreateFile stores a new file and adds its path to the project structure in one transaction
func (m *fileManager) CreateFile(ctx context.Context, userID, projectID string, p domain.CreateFileParams) (domain.File, error) {
	if p.Path == "" || p.Content == nil {
		return domain.File{}, domain.BadRequest("Path and content are required")
	}

	segments, err := structure.SplitPath(p.Path)
	if err != nil {
		return domain.File{}, domain.BadRequest(fmt.Sprintf("Invalid file path: %v", err))
	}

	// a single segment is a root container, never a file
	if len(segments) < 2 {
		return domain.File{}, domain.BadRequest("Invalid file path: files must live inside a root folder")
	}

	fileType := strings.TrimSpace(p.FileType)
	if fileType == "" {
		fileType = knit.FileTypeLua
	}

	var created domain.File

	err = m.projects.WithLockedProject(ctx, userID, projectID, func(ctx context.Context, tx domain.ProjectTx) error {
		inserted, err := tx.InsertFiles(ctx, []domain.File{{Path: p.Path, Content: *p.Content, FileType: fileType}})
		if err != nil {
			return err
		}

		if len(inserted) == 0 {
			return domain.ErrFileExists
		}
		created = inserted[0]

		merged, report := structure.Merge(tx.Project().Structure, []structure.FileDescriptor{{Path: p.Path, FileType: fileType}})
		for _, skipped := range report.Skipped {
			if skipped.IsSkipReason(structure.ErrTypeConflict) {
				return domain.BadRequest(fmt.Sprintf("Path conflicts with the project structure: %s", skipped.Path))
			}
		}

		return tx.SaveStructure(ctx, merged)
	})
	if err != nil {
		return domain.File{}, err
	}

	log.Debug().Str("project_id", projectID).Str("path", created.Path).Msg("File created")

	return created, nil
}

func (m *fileManager) GetFile(ctx context.Context, userID, projectID, fileID string) (domain.File, error) {
	file, err := m.files.GetFile(ctx, userID, fileID)
	if err != nil {
		return domain.File{}, err
	}

	if file.ProjectID != projectID {
		return domain.File{}, domain.ErrFileNotFound
	}

	return file, nil
}

func (m *fileManager) UpdateFile(ctx context.Context, userID, projectID, fileID string, content *string) (domain.File, error) {
	if content == nil {
		return domain.File{}, domain.BadRequest("Content is required")
	}

	if _, err := m.GetFile(ctx, userID, projectID, fileID); err != nil {
		return domain.File{}, err
	}

	return m.files.UpdateFileContent(ctx, userID, fileID, *content)
}

// DeleteFile removes the file and its node from the project structure
func (m *fileManager) DeleteFile(ctx context.Context, userID, projectID, fileID string) error {
	file, err := m.GetFile(ctx, userID, projectID, fileID)
	if err != nil {
		return err
	}

	err = m.projects.WithLockedProject(ctx, userID, projectID, func(ctx context.Context, tx domain.ProjectTx) error {
		if err := tx.DeleteFile(ctx, file.ID); err != nil {
			return err
		}

		current := tx.Project().Structure

		node, ok := current.Find(file.Path)
		if !ok || node.Type() != structure.NodeTypeFile {
			return nil
		}

		pruned, _ := structure.Remove(current, file.Path)

		return tx.SaveStructure(ctx, pruned)
	})
	if errors.Is(err, domain.ErrProjectNotFound) {
		return domain.ErrFileNotFound
	}

	return err
}
