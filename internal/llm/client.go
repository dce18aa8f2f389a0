package llm

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"
)

// Fixed sampling parameters for every completion call.
const (
	samplingTemperature = 0.7
	maxOutputTokens     = 4096
)

// Completer generates text for a single prompt. The resilient caller and
// the pipeline depend on this interface so tests can substitute a fake.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GoogleAIClient adapts the langchaingo Gemini model to the Completer
// interface.
type GoogleAIClient struct {
	model llms.Model
}

// NewGoogleAIClient builds a Gemini-backed completion client. A missing
// API key is reported here as a configuration error, before any network
// call is attempted.
func NewGoogleAIClient(ctx context.Context, cfg config.GeminiConfig) (*GoogleAIClient, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewConfigurationError(
			"GEMINI_API_KEY is not set. Add it to config.yaml or the environment. " +
				"Get a free key at https://aistudio.google.com/apikey")
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(modelName),
	)
	if err != nil {
		return nil, domain.NewModelCallError("Failed to create Gemini client", err)
	}
	return &GoogleAIClient{model: model}, nil
}

// Complete implements Completer.
func (c *GoogleAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithTemperature(samplingTemperature),
		llms.WithMaxTokens(maxOutputTokens),
	)
}

var _ Completer = (*GoogleAIClient)(nil)
