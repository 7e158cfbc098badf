package ai

import (
	"fmt"
	"time"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // currently only "solar"

	SolarAPIKey  string
	SolarBaseURL string // e.g., "https://api.upstage.ai/v1/solar"
	SolarModel   string // e.g., "solar-1-mini-chat"

	Timeout             time.Duration
	TimezoneOffsetHours int
}

// NewEventParser creates an EventParser based on the config.
// This is the factory function - switch AI provider by changing config.Provider.
func NewEventParser(cfg Config) (EventParser, error) {
	switch cfg.Provider {
	case ProviderSolar, "":
		if cfg.SolarAPIKey == "" {
			return nil, fmt.Errorf("SOLAR_API_KEY is required for Solar provider")
		}
		return NewSolarService(cfg.SolarAPIKey, cfg.SolarBaseURL, cfg.SolarModel, cfg.Timeout, cfg.TimezoneOffsetHours), nil

	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.Provider)
	}
}
