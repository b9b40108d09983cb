package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/superbullet/superbullet/pkg/ai-sdk/provider"
	"github.com/superbullet/superbullet/pkg/ai-sdk/types"
)

// Provider implements the LanguageModel interface for Google Gemini
type Provider struct {
	client *genai.Client
	model  string
}

// New creates a new Gemini provider
func New(ctx context.Context, apiKey, model string) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Provider{
		client: client,
		model:  model,
	}, nil
}

// ID returns the model identifier
func (p *Provider) ID() string {
	return fmt.Sprintf("gemini:%s", p.model)
}

// Generate implements the Generate method of the LanguageModel interface
func (p *Provider) Generate(ctx context.Context, req provider.GenerateRequest) (*types.GenerateResponse, error) {
	config := &genai.GenerateContentConfig{}

	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(req.Temperature)
	}

	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, convertMessages(req.Messages), config)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, types.ErrEmptyResponse
	}

	candidate := resp.Candidates[0]

	response := &types.GenerateResponse{
		FinishReason: mapFinishReason(candidate.FinishReason),
		Model:        p.model,
	}

	if resp.UsageMetadata != nil {
		response.Usage = types.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			response.Content += part.Text
		}
	}

	return response, nil
}

// Gemini uses "user" and "model" roles; system turns go to SystemInstruction
func convertMessages(messages []types.Message) []*genai.Content {
	var result []*genai.Content

	for _, msg := range messages {
		if msg.Role == types.RoleSystem || msg.Content == "" {
			continue
		}

		role := "user"
		if msg.Role == types.RoleAssistant {
			role = "model"
		}

		result = append(result, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	return result
}

func mapFinishReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonStop:
		return types.FinishReasonStop
	case genai.FinishReasonMaxTokens:
		return types.FinishReasonLength
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return types.FinishReasonContentFilter
	default:
		return string(reason)
	}
}
