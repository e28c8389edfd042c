package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configDirOverride lets tests point the user config directory elsewhere.
var configDirOverride string

// SetConfigDirOverride replaces ~/.catgirl-engine as the user config directory.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}

// Load loads the engine configuration.
// Search order: customPath -> ~/.catgirl-engine/config.{yaml,toml} -> ./configs/engine.yaml -> embedded default
//
// Fields missing from a file keep their default values.
func Load(customPath string) (EngineConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return EngineConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := decode(customPath, data)
		if err != nil {
			return EngineConfig{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	for _, name := range []string{"config.yaml", "config.toml"} {
		userCfgPath := userConfigPath(name)
		if userCfgPath == "" {
			break
		}
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decode(userCfgPath, data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "engine.yaml")); err == nil {
		if cfg, err := decode("engine.yaml", data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := decode("engine.yaml", defaultEngineYAML)
	if err != nil {
		return DefaultEngineConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decode parses data on top of the defaults, picking the format from the
// file extension.
func decode(path string, data []byte) (EngineConfig, error) {
	cfg := DefaultEngineConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return EngineConfig{}, err
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return EngineConfig{}, err
		}
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	if configDirOverride != "" {
		return filepath.Join(configDirOverride, filename)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".catgirl-engine", filename)
}
