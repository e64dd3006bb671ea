// Package config loads runtime knobs for a demo binary — redundancy,
// restart backoff, and log level — layering environment variables over
// defaults via koanf providers. The children-group packages themselves take
// all configuration as constructor arguments and do not import this
// package; no demo binary is part of this module.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the worked example's runtime knobs.
type Config struct {
	// Redundancy is R, the target pool size for the demo group.
	Redundancy int
	// RestartBackoff is how long the demo supervisor waits before calling
	// Reset after a Faulted escalation.
	RestartBackoff time.Duration
	// LogLevel is one of "debug", "info", "error".
	LogLevel string
}

const envPrefix = "CHILDGROUP_"

// Load reads CHILDGROUP_* environment variables over the package defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmapDefaults(), nil); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", transformEnv), nil); err != nil {
		return nil, err
	}

	return &Config{
		Redundancy:     k.Int("redundancy"),
		RestartBackoff: k.Duration("restart_backoff"),
		LogLevel:       k.String("log_level"),
	}, nil
}

// transformEnv maps CHILDGROUP_REDUNDANCY to the "redundancy" key the
// defaults are loaded under, so the env provider actually overrides them
// instead of landing under an unmatched, differently-cased key.
func transformEnv(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}
