package domain

import (
	"context"
	"time"

	"github.com/superbullet/superbullet/pkg/codegen"
	"github.com/superbullet/superbullet/pkg/utils/pagination"
)

// GenerationRecord is one entry of a user's code generation history
type GenerationRecord struct {
	ID           string          `json:"id" bson:"id"`
	UserID       string          `json:"userId" bson:"user_id"`
	Request      codegen.Request `json:"request" bson:"request"`
	Provider     string          `json:"provider" bson:"provider"`
	Model        string          `json:"model,omitempty" bson:"model,omitempty"`
	FromFallback bool            `json:"fromFallback" bson:"from_fallback"`
	Cached       bool            `json:"cached" bson:"cached"`
	CreatedAt    time.Time       `json:"createdAt" bson:"created_at"`
}

type GenerationHistory interface {
	Record(ctx context.Context, record GenerationRecord) error
	List(ctx context.Context, userID string, page pagination.Params) ([]GenerationRecord, error)
}

// Gist is a published export
type Gist struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Files   int    `json:"files"`
	Private bool   `json:"private"`
}

type GistPublisher interface {
	CreateGist(ctx context.Context, description string, files map[string]string) (Gist, error)
}
