package companion

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/cuentaescolar133-star/Cat.planner/internal/state"
)

// DefaultModel is the generation model Michi thinks with.
const DefaultModel = "gemini-3-pro-preview"

// DefaultThinkingBudget is the reasoning-token hint sent with every request.
const DefaultThinkingBudget int32 = 32768

// GeminiGenerator calls the Gemini API via google.golang.org/genai.
type GeminiGenerator struct {
	client         *genai.Client
	model          string
	thinkingBudget int32
}

// NewGeminiGenerator creates a Gemini-backed generator. An empty API key is
// an error; callers should substitute Unavailable so chat degrades to the
// fallback instead of crashing.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, thinkingBudget int32) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if thinkingBudget <= 0 {
		thinkingBudget = DefaultThinkingBudget
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiGenerator{
		client:         client,
		model:          model,
		thinkingBudget: thinkingBudget,
	}, nil
}

// Generate sends the role-tagged contents with the persona as system
// instruction and returns the reply text. A single attempt, no retry.
func (g *GeminiGenerator) Generate(ctx context.Context, system string, msgs []Message) (string, error) {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		var role genai.Role = genai.RoleUser
		if m.Role == state.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(g.thinkingBudget),
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	return result.Text(), nil
}
