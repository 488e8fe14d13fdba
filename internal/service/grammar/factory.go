package grammar

import (
	"context"
	"fmt"
	"net/http"

	"namestat/internal/config"
	"namestat/internal/model/naming"
)

// NewTagger builds the tagger selected by the configuration
func NewTagger(ctx context.Context, cfg *config.Config) (Tagger, error) {
	switch cfg.Tagger.Provider {
	case "", config.ProviderLexicon:
		return NewLexiconTagger(cfg.Tagger.LexiconPath)
	case config.ProviderRemote:
		return NewRemoteTagger(cfg.Tagger.URL, &http.Client{Timeout: cfg.Tagger.Timeout() * 2})
	case config.ProviderGemini:
		return NewGeminiTagger(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	default:
		return nil, fmt.Errorf("%w: unknown tagger provider %q", naming.ErrConfiguration, cfg.Tagger.Provider)
	}
}
