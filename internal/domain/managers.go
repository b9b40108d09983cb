package domain

import (
	"context"
	"encoding/json"

	"github.com/superbullet/superbullet/pkg/codegen"
	"github.com/superbullet/superbullet/pkg/knit"
	"github.com/superbullet/superbullet/pkg/structure"
	"github.com/superbullet/superbullet/pkg/utils/pagination"
)

// Session is the verified payload of a bearer token
type Session struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

type SessionVerifier interface {
	// VerifySession returns ErrInvalidToken for any unusable token
	VerifySession(token string) (Session, error)
}

type RegisterParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type UserManager interface {
	SessionVerifier
	Register(ctx context.Context, p RegisterParams) (AuthResult, error)
	Login(ctx context.Context, p LoginParams) (AuthResult, error)
}

type CreateProjectParams struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateProjectParams struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Structure   json.RawMessage `json:"structure"`
}

type ProjectManager interface {
	ListProjects(ctx context.Context, userID string, page pagination.Params) ([]Project, error)
	CreateProject(ctx context.Context, userID string, p CreateProjectParams) (Project, error)
	// GetProject includes the project's files
	GetProject(ctx context.Context, userID, projectID string) (Project, error)
	UpdateProject(ctx context.Context, userID, projectID string, p UpdateProjectParams) (Project, error)
	DeleteProject(ctx context.Context, userID, projectID string) error
}

type CreateFileParams struct {
	Path     string  `json:"path"`
	Content  *string `json:"content"`
	FileType string  `json:"fileType"`
}

type FileManager interface {
	ListFiles(ctx context.Context, userID, projectID string) ([]File, error)
	CreateFile(ctx context.Context, userID, projectID string, p CreateFileParams) (File, error)
	GetFile(ctx context.Context, userID, projectID, fileID string) (File, error)
	UpdateFile(ctx context.Context, userID, projectID, fileID string, content *string) (File, error)
	DeleteFile(ctx context.Context, userID, projectID, fileID string) error
}

type ScaffoldParams struct {
	ProjectID   string          `json:"projectId"`
	ServiceName string          `json:"serviceName"`
	Components  knit.Components `json:"components"`
	UseAI       bool            `json:"useAI"`
}

type ScaffoldResult struct {
	Success bool   `json:"success"`
	Files   []File `json:"files"`
	// Existing lists generated paths that were already stored and left untouched
	Existing []string                      `json:"existing"`
	Skipped  []structure.SkippedDescriptor `json:"skipped"`
	Message  string                        `json:"message"`
}

type ScaffoldPreview struct {
	Files     []knit.GeneratedFile  `json:"files"`
	Structure structure.Structure   `json:"structure"`
	Report    structure.MergeReport `json:"report"`
}

type ScaffoldManager interface {
	Scaffold(ctx context.Context, userID string, p ScaffoldParams) (ScaffoldResult, error)
	// Preview renders the scaffold on top of base without touching storage
	Preview(ctx context.Context, userID string, p ScaffoldParams, base structure.Structure) (ScaffoldPreview, error)
}

type CodegenManager interface {
	GenerateCode(ctx context.Context, userID string, req codegen.Request) (codegen.Response, error)
	ListGenerations(ctx context.Context, userID string, page pagination.Params) ([]GenerationRecord, error)
}

type ExportManager interface {
	ExportGist(ctx context.Context, userID, projectID string) (Gist, error)
}
