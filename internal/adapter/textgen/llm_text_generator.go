package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"quizcraft/internal/config"
	"quizcraft/internal/domain"
	"quizcraft/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LLMTextGenerator implements domain.TextGenerator on top of a LangchainGo
// model. The model client is created once at startup and is safe for
// concurrent use.
type LLMTextGenerator struct {
	llm         llms.Model
	temperature float64
	timeout     time.Duration
}

// NewFromConfig builds the configured provider's model client and wraps it.
func NewFromConfig(cfg config.LLMConfig) (*LLMTextGenerator, error) {
	var model llms.Model
	var err error

	switch cfg.Provider {
	case "ollama":
		httpClient := &http.Client{Timeout: cfg.Timeout}
		model, err = ollama.New(
			ollama.WithServerURL(cfg.Ollama.ServerURL),
			ollama.WithModel(cfg.Ollama.Model),
			ollama.WithHTTPClient(httpClient),
		)
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAI.APIKey),
			openai.WithModel(cfg.OpenAI.Model),
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client for provider %s: %w", cfg.Provider, err)
	}

	return New(model, cfg.Temperature, cfg.Timeout), nil
}

// New wraps an already constructed model, mainly for tests.
func New(model llms.Model, temperature float64, timeout time.Duration) *LLMTextGenerator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LLMTextGenerator{
		llm:         model,
		temperature: temperature,
		timeout:     timeout,
	}
}

// GenerateText sends a single prompt and returns the raw response text.
// The generator's timeout applies on top of any caller deadline.
func (g *LLMTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Error(err))
			return "", domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}

	return response, nil
}

// Ensure LLMTextGenerator implements TextGenerator
var _ domain.TextGenerator = (*LLMTextGenerator)(nil)
