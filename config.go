package jobtext

import "time"

// Config holds every tunable of the extraction pipeline.
type Config struct {
	Readiness      ReadinessConfig
	Coordinator    CoordinatorConfig
	EmbeddedPolicy EmbeddedPolicy
	Thresholds     Thresholds
	Selectors      Selectors
	Rules          Rules
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Readiness: ReadinessConfig{
			PollInterval:          500 * time.Millisecond,
			RequiredStableSamples: 3,
			MinimumLength:         500,
			MaxWait:               8 * time.Second,
		},
		Coordinator: CoordinatorConfig{
			EarlyTriggerLength: 1500,
			EarlyTriggerDelay:  time.Second,
			HardDeadline:       12 * time.Second,
		},
		EmbeddedPolicy: EmbeddedFail,
		Thresholds: Thresholds{
			MinDescriptionLength: 200,
			MinMarkerLength:      200,
			MinRegionLength:      300,
		},
		Selectors: DefaultSelectors(),
		Rules:     DefaultRules(),
	}
}

// Validate returns an error if the configuration cannot drive extraction.
func (c Config) Validate() error {
	switch {
	case c.Readiness.PollInterval <= 0:
		return Errorf(EINVALID, "readiness poll interval must be positive")
	case c.Readiness.MaxWait <= 0:
		return Errorf(EINVALID, "readiness max wait must be positive")
	case c.Readiness.RequiredStableSamples < 1:
		return Errorf(EINVALID, "readiness requires at least one stable sample")
	case c.Coordinator.HardDeadline <= 0:
		return Errorf(EINVALID, "coordinator hard deadline must be positive")
	case c.Coordinator.EarlyTriggerDelay < 0:
		return Errorf(EINVALID, "coordinator early trigger delay must not be negative")
	}
	switch c.EmbeddedPolicy {
	case EmbeddedFail, EmbeddedFallback:
	default:
		return Errorf(EINVALID, "unknown embedded policy %q", c.EmbeddedPolicy)
	}
	return nil
}
