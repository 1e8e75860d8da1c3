package factory

import (
	"github.com/rs/zerolog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/config"
	"github.com/HamidMoopen/memo-ai-sub000/internal/narrator"
	"github.com/HamidMoopen/memo-ai-sub000/internal/voice"
)

// NewNarrator builds the language model client. A missing API key is an error.
func NewNarrator(cfg *config.Config, log zerolog.Logger) (*narrator.Client, error) {
	return narrator.New(narrator.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	}, log.With().Str("component", "narrator").Logger())
}

// NewVoiceClient builds the voice platform client behind a circuit breaker.
func NewVoiceClient(cfg *config.Config, log zerolog.Logger) *voice.BreakerClient {
	c := voice.NewClient(cfg.VapiBaseURL, cfg.VapiAPIKey)
	return voice.NewBreakerClient(c, voice.BreakerSettings{}, log.With().Str("component", "voice").Logger())
}
