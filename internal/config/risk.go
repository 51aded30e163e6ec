package config

import (
	"fmt"

	"github.com/JaimeStill/lawfinder/pkg/settings"
)

const (
	EnvRiskStrategy = "LAWFINDER_RISK_STRATEGY"
	EnvRiskRegion   = "LAWFINDER_RISK_REGION"
)

// Risk strategies.
const (
	StrategyHeuristic = "heuristic"
	StrategyExternal  = "external"
)

// RiskConfig selects the default alignment strategy and scoring region.
type RiskConfig struct {
	Strategy string `toml:"strategy"`
	Region   string `toml:"region"`
}

// External reports whether the external classifier is the default strategy.
func (c *RiskConfig) External() bool {
	return c.Strategy == StrategyExternal
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RiskConfig) Finalize() error {
	settings.Default(&c.Strategy, StrategyHeuristic)
	settings.Default(&c.Region, "Utah")
	settings.String(EnvRiskStrategy, &c.Strategy)
	settings.String(EnvRiskRegion, &c.Region)

	switch c.Strategy {
	case StrategyHeuristic, StrategyExternal:
		return nil
	default:
		return fmt.Errorf("unknown strategy: %q", c.Strategy)
	}
}

// Merge overwrites non-zero fields from overlay.
func (c *RiskConfig) Merge(overlay *RiskConfig) {
	settings.Overlay(&c.Strategy, overlay.Strategy)
	settings.Overlay(&c.Region, overlay.Region)
}
