package config

import (
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

func confmapDefaults() koanf.Provider {
	return confmap.Provider(map[string]any{
		"redundancy":      3,
		"restart_backoff": 250 * time.Millisecond,
		"log_level":       "info",
	}, ".")
}
