package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/pkg/ai-sdk/provider"
	"github.com/superbullet/superbullet/pkg/ai-sdk/types"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
)

// Cache stores provider responses. Implementations must treat a miss as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*Response, bool, error)
	Set(ctx context.Context, key string, response Response) error
}

// Generator produces component code through the configured providers in
// precedence order and falls back to templates when none succeeds.
type Generator struct {
	models []provider.LanguageModel
	cache  Cache
}

type GeneratorDependencies struct {
	// Models in precedence order. Empty means template generation only.
	Models []provider.LanguageModel
	Cache  Cache
}

func NewGenerator(deps GeneratorDependencies) *Generator {
	return &Generator{
		models: deps.Models,
		cache:  deps.Cache,
	}
}

// HasProviders reports whether any chat-completion provider is configured
func (g *Generator) HasProviders() bool {
	return len(g.models) > 0
}

// Generate returns code for the requested component. Provider failures are
// logged and never surface to the caller; only invalid requests return an error.
func (g *Generator) Generate(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}

	for _, model := range g.models {
		response, err := g.generateWith(ctx, model, req)
		if err != nil {
			log.Warn().Err(err).Str("provider", model.ID()).Str("component", req.ComponentName).Msg("Code generation failed, trying next option")
			continue
		}

		return response, nil
	}

	if len(g.models) == 0 {
		log.Debug().Str("component", req.ComponentName).Msg("No AI provider configured, using template fallback")
	}

	return Fallback(req), nil
}

func (g *Generator) generateWith(ctx context.Context, model provider.LanguageModel, req Request) (Response, error) {
	key := CacheKey(req, model.ID())

	if g.cache != nil {
		cached, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read code generation cache")
		} else if ok && cached != nil {
			cached.Cached = true
			return *cached, nil
		}
	}

	result, err := model.Generate(ctx, provider.GenerateRequest{
		System:      SystemPrompt,
		Messages:    []types.Message{types.UserMessage(BuildPrompt(req))},
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		return Response{}, err
	}

	code := stripCodeFence(result.Content)
	if code == "" {
		return Response{}, fmt.Errorf("%s: %w", model.ID(), types.ErrEmptyResponse)
	}

	response := Response{
		Code:         code,
		Explanation:  fmt.Sprintf("AI-generated %s component using %s", strings.ToUpper(string(req.ComponentType)), model.ID()),
		Dependencies: []string{},
		Warnings:     []string{"Review the generated code before using in production"},
		Provider:     model.ID(),
		Model:        result.Model,
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, response); err != nil {
			log.Warn().Err(err).Msg("Failed to write code generation cache")
		}
	}

	return response, nil
}
