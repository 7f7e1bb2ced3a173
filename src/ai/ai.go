// Package ai provides a provider-agnostic text generation client used to
// vary the agent's reply phrasing. The honeypot works fully without it.
package ai

import "context"

// Client answers a single prompt with a short completion.
type Client interface {
	Respond(ctx context.Context, prompt string) (string, error)
}

// FactoryConfig holds provider selection and defaults without leaking
// provider details to callers.
type FactoryConfig struct {
	Provider     string // "claude" or "openai"
	ClaudeKey    string
	OpenAIKey    string
	Model        string
	Temperature  float64
	SystemPrompt string
}

// NewClient returns a client for the configured provider, or nil when no
// API key is configured so callers can treat the feature as absent.
func NewClient(cfg FactoryConfig) Client {
	switch cfg.Provider {
	case "claude":
		if cfg.ClaudeKey == "" {
			return nil
		}
		return newClaudeClient(cfg)
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil
		}
		return newOpenAIClient(cfg)
	default:
		return nil
	}
}

func valueOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
