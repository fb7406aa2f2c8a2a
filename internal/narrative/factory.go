package narrative

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration, wrapped with retry and,
// when a request log is given, request-event logging.
func NewProvider(ctx context.Context, cfg Config, log RequestLog) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown narrative provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Caller → retry → logging → base.
	if log != nil {
		base = WithLogging(base, log)
	}
	return WithRetry(base, cfg.Retry), nil
}
