package managers

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/internal/domain"
	"github.com/superbullet/superbullet/pkg/codegen"
	"github.com/superbullet/superbullet/pkg/utils/pagination"
)

type codegenManager struct {
	generator *codegen.Generator
	history   domain.GenerationHistory
}

type CodegenManagerDependencies struct {
	Generator *codegen.Generator
	// History is optional
	History domain.GenerationHistory
}

func NewCodegenManager(deps CodegenManagerDependencies) domain.CodegenManager {
	return &codegenManager{
		generator: deps.Generator,
		history:   deps.History,
	}
}

func (m *codegenManager) GenerateCode(ctx context.Context, userID string, req codegen.Request) (codegen.Response, error) {
	response, err := m.generator.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, codegen.ErrMissingFields) {
			return codegen.Response{}, domain.BadRequest("Missing required fields: componentName, componentType, description")
		}
		return codegen.Response{}, domain.BadRequest(err.Error())
	}

	if m.history != nil {
		record := domain.GenerationRecord{
			UserID:       userID,
			Request:      req,
			Provider:     response.Provider,
			Model:        response.Model,
			FromFallback: response.FromFallback,
			Cached:       response.Cached,
			CreatedAt:    time.Now().UTC(),
		}

		if err := m.history.Record(ctx, record); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Failed to record code generation")
		}
	}

	return response, nil
}

func (m *codegenManager) ListGenerations(ctx context.Context, userID string, page pagination.Params) ([]domain.GenerationRecord, error) {
	if m.history == nil {
		return []domain.GenerationRecord{}, nil
	}

	return m.history.List(ctx, userID, page)
}
