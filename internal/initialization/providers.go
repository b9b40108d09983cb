package initialization

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/superbullet/superbullet/internal/config"
	"github.com/superbullet/superbullet/pkg/ai-sdk/provider"
	"github.com/superbullet/superbullet/pkg/ai-sdk/provider/anthropic"
	"github.com/superbullet/superbullet/pkg/ai-sdk/provider/gemini"
	"github.com/superbullet/superbullet/pkg/ai-sdk/provider/openai"
)

// BuildModels returns the configured providers in precedence order:
// GitHub Copilot, OpenAI, Anthropic, Gemini.
func BuildModels(ctx context.Context, cfg *config.Config) []provider.LanguageModel {
	var models []provider.LanguageModel

	if config.IsSet(cfg.GitHubToken) {
		models = append(models, openai.NewCopilot(cfg.GitHubToken, cfg.CopilotModel))
	}

	if config.IsSet(cfg.OpenAIAPIKey) {
		models = append(models, openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel))
	}

	if config.IsSet(cfg.AnthropicAPIKey) {
		models = append(models, anthropic.New(cfg.AnthropicAPIKey, cfg.AnthropicModel))
	}

	if config.IsSet(cfg.GeminiAPIKey) {
		model, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to create Gemini provider")
		} else {
			models = append(models, model)
		}
	}

	ids := make([]string, len(models))
	for i, model := range models {
		ids[i] = model.ID()
	}

	if len(ids) == 0 {
		log.Info().Msg("No AI provider configured, code generation uses templates")
	} else {
		log.Info().Strs("providers", ids).Msg("Code generation providers configured")
	}

	return models
}
