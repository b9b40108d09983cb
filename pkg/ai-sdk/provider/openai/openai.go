package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/superbullet/superbullet/pkg/ai-sdk/provider"
	"github.com/superbullet/superbullet/pkg/ai-sdk/types"
)

const CopilotBaseURL = "https://api.githubcopilot.com"

// Provider implements the LanguageModel interface for OpenAI-compatible chat completion APIs
type Provider struct {
	client *openai.Client
	config Config
}

// Config holds the connection settings. BaseURL and Headers let the same
// client talk to OpenAI-compatible endpoints such as GitHub Copilot.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Headers map[string]string
	Name    string
}

// New creates a new OpenAI provider
func New(apiKey, model string) *Provider {
	return NewWithConfig(Config{
		APIKey: apiKey,
		Model:  model,
	})
}

// NewCopilot creates a provider for the GitHub Copilot chat completions endpoint
func NewCopilot(token, model string) *Provider {
	return NewWithConfig(Config{
		APIKey:  token,
		Model:   model,
		BaseURL: CopilotBaseURL,
		Name:    "copilot",
		Headers: map[string]string{
			"Editor-Version":        "vscode/1.85.0",
			"Editor-Plugin-Version": "copilot-chat/0.11.1",
			"User-Agent":            "GitHubCopilotChat/0.11.1",
		},
	})
}

// NewWithConfig creates a new provider with custom configuration
func NewWithConfig(config Config) *Provider {
	clientConfig := openai.DefaultConfig(config.APIKey)

	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	}

	if len(config.Headers) > 0 {
		clientConfig.HTTPClient = &http.Client{
			Transport: &headerTransport{headers: config.Headers, next: http.DefaultTransport},
		}
	}

	if config.Name == "" {
		config.Name = "openai"
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Generate implements the Generate method of the LanguageModel interface
func (p *Provider) Generate(ctx context.Context, req provider.GenerateRequest) (*types.GenerateResponse, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Messages:    p.convertMessages(req.Messages, req.System),
		Temperature: req.Temperature,
	}

	if req.MaxTokens > 0 {
		if isMaxCompletionTokensModel(p.config.Model) {
			chatReq.MaxCompletionTokens = req.MaxTokens
		} else {
			chatReq.MaxTokens = req.MaxTokens
		}
	}

	log.Debug().Str("provider", p.ID()).Int("messages", len(chatReq.Messages)).Msg("Sending chat completion request")

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s api error: %w", p.config.Name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, types.ErrEmptyResponse
	}

	choice := resp.Choices[0]

	return &types.GenerateResponse{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Model:        resp.Model,
		Usage: types.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// ID returns the model identifier
func (p *Provider) ID() string {
	return fmt.Sprintf("%s:%s", p.config.Name, p.config.Model)
}

func (p *Provider) convertMessages(messages []types.Message, system string) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages)+1)

	if system != "" {
		result = append(result, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}

	for _, msg := range messages {
		result = append(result, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return result
}

// o-series and gpt-5 models reject max_tokens
func isMaxCompletionTokensModel(model string) bool {
	return strings.HasPrefix(model, "o") || strings.HasPrefix(model, "gpt-5")
}

type headerTransport struct {
	headers map[string]string
	next    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	return t.next.RoundTrip(req)
}
