package initialization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/superbullet/superbullet/internal/config"
)

func TestBuildModels_PrecedenceAndPlaceholders(t *testing.T) {
	cfg := &config.Config{
		GitHubToken:     "ghp_real",
		CopilotModel:    "gpt-4",
		OpenAIAPIKey:    "sk-...",
		OpenAIModel:     "gpt-4",
		AnthropicAPIKey: "sk-ant-real",
		AnthropicModel:  "claude-3-5-sonnet-20241022",
	}

	models := BuildModels(context.Background(), cfg)

	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID()
	}

	assert.Equal(t, []string{"copilot:gpt-4", "anthropic:claude-3-5-sonnet-20241022"}, ids)
}

func TestBuildModels_NoneConfigured(t *testing.T) {
	assert.Empty(t, BuildModels(context.Background(), &config.Config{GitHubToken: "ghp_..."}))
}
