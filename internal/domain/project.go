package domain

import (
	"context"
	"time"

	"github.com/superbullet/superbullet/pkg/structure"
	"github.com/superbullet/superbullet/pkg/utils/pagination"
)

type Project struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Structure   structure.Structure `json:"structure"`
	Files       []File              `json:"files,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ProjectUpdate holds the fields of a partial update. Nil means unchanged.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Structure   structure.Structure
}

type File struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Path      string    `json:"path"`
	Content   string    `json:"content"`
	FileType  string    `json:"fileType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectTx is a project row locked for the duration of a transaction
type ProjectTx interface {
	Project() Project
	// InsertFiles inserts files whose path is not taken yet and returns the inserted rows
	InsertFiles(ctx context.Context, files []File) ([]File, error)
	DeleteFile(ctx context.Context, fileID string) error
	SaveStructure(ctx context.Context, s structure.Structure) error
}

type ProjectRepository interface {
	ListProjects(ctx context.Context, userID string, page pagination.Params) ([]Project, error)
	CreateProject(ctx context.Context, project Project) (Project, error)
	// GetProject returns ErrProjectNotFound for missing and foreign projects
	GetProject(ctx context.Context, userID, projectID string) (Project, error)
	UpdateProject(ctx context.Context, userID, projectID string, update ProjectUpdate) (Project, error)
	DeleteProject(ctx context.Context, userID, projectID string) error
	// WithLockedProject runs fn inside a transaction holding the project row lock.
	// The transaction commits when fn returns nil.
	WithLockedProject(ctx context.Context, userID, projectID string, fn func(ctx context.Context, tx ProjectTx) error) error
}

type FileRepository interface {
	ListFiles(ctx context.Context, projectID string) ([]File, error)
	// GetFile returns ErrFileNotFound unless the file belongs to one of userID's projects
	GetFile(ctx context.Context, userID, fileID string) (File, error)
	UpdateFileContent(ctx context.Context, userID, fileID, content string) (File, error)
}
