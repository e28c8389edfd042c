package config

import (
	_ "embed"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Title:    "Catgirl Engine",
		TickRate: 60,
		Seed:     0,
		Server: ServerConfig{
			Listen:      ":23234",
			HostKeyPath: "",
			DBPath:      "~/.catgirl-engine/sessions.db",
			IdleTimeout: 30,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultEngineYAML
}
