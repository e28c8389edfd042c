// Package config provides YAML and TOML engine configuration loading.
package config

// EngineConfig contains the file-level engine settings.
// Command line flags override these when set.
type EngineConfig struct {
	Title    string       `yaml:"title" toml:"title"`
	TickRate int          `yaml:"tick_rate" toml:"tick_rate"`
	Seed     int64        `yaml:"seed" toml:"seed"` // 0 = random based on time
	Server   ServerConfig `yaml:"server" toml:"server"`
	Log      LogConfig    `yaml:"log" toml:"log"`
}

// ServerConfig defines dedicated server parameters.
type ServerConfig struct {
	Listen      string `yaml:"listen" toml:"listen"`
	HostKeyPath string `yaml:"host_key" toml:"host_key"` // Empty = ~/.catgirl-engine/host_key
	DBPath      string `yaml:"db" toml:"db"`
	IdleTimeout int    `yaml:"idle_timeout" toml:"idle_timeout"` // Minutes
}

// LogConfig defines logging parameters.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"` // Empty = keep the logger's level
}
