package search

import (
	"fmt"

	"neochat/internal/config"
	"neochat/pkg/logger"
)

// NewFromConfig selects a search provider: SerpAPI first, Google Custom
// Search as the fallback. Both being unconfigured is not fatal for the
// application, so callers may treat ErrNoProvider as "feature disabled".
func NewFromConfig(cfg *config.AppConfig, log *logger.Logger) (Provider, error) {
	if provider, err := NewSerpAPI(cfg.Credentials.SerpAPIKey); err == nil {
		log.Info("search provider selected: serpapi")
		return provider, nil
	} else {
		log.Warn(fmt.Sprintf("search provider serpapi unavailable: %v", err))
	}

	if provider, err := NewGoogleCSE(cfg.Credentials.GoogleCSEKey, cfg.Credentials.GoogleCX); err == nil {
		log.Info("search provider selected: google cse")
		return provider, nil
	} else {
		log.Warn(fmt.Sprintf("search provider google cse unavailable: %v", err))
	}

	return nil, ErrNoProvider
}
