// Package config provides unified configuration for the poolchat gateway.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (POOLCHAT_ prefix, plus the legacy
//     AZURE_OPENAI_ENDPOINT / POOL_MANAGEMENT_ENDPOINT names)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the poolchat gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Chat          ChatConfig          `yaml:"chat"`
	Pool          PoolConfig          `yaml:"pool"`
	Credential    CredentialConfig    `yaml:"credential"`
	Sessions      SessionsConfig      `yaml:"sessions"`
	Log           LogConfig           `yaml:"log"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings. APIKeys, when non-empty,
// restricts the chat endpoint to callers presenting one of the keys;
// health, UI, and metrics endpoints stay open.
type ServerConfig struct {
	Port            int           `yaml:"port" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	MaxBodySize     int64         `yaml:"max_body_size"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	APIKeys         []string      `yaml:"api_keys"`
}

// ChatConfig holds chat-completions collaborator settings. The endpoint is
// the Azure OpenAI resource base URL; deployment selects the model.
type ChatConfig struct {
	Endpoint    string        `yaml:"endpoint" validate:"required,url"`
	Deployment  string        `yaml:"deployment" validate:"required"`
	APIVersion  string        `yaml:"api_version" validate:"required"`
	Scope       string        `yaml:"scope" validate:"required"`
	MaxTokens   int           `yaml:"max_tokens" validate:"gt=0"`
	Temperature float64       `yaml:"temperature" validate:"gte=0,lte=2"`
	Timeout     time.Duration `yaml:"timeout"`
}

// PoolConfig holds session-pool collaborator settings. The endpoint is the
// pool management URL of the remote code execution service.
type PoolConfig struct {
	Endpoint   string        `yaml:"endpoint" validate:"required,url"`
	APIVersion string        `yaml:"api_version" validate:"required"`
	Scope      string        `yaml:"scope" validate:"required"`
	Timeout    time.Duration `yaml:"timeout"`
}

// CredentialConfig selects how bearer tokens for outbound calls are
// obtained. Mode "azure" uses the ambient Azure credential chain, "static"
// uses a fixed token (development and tests), "none" sends no token (mock
// collaborators).
type CredentialConfig struct {
	Mode            string `yaml:"mode" validate:"oneof=azure static none"`
	StaticToken     string `yaml:"static_token"`
	StaticTokenFile string `yaml:"static_token_file"` // _file variant for static_token
}

// SessionsConfig holds settings for the conversation→session-id store.
type SessionsConfig struct {
	MaxEntries int `yaml:"max_entries" validate:"gte=0"` // 0 = unlimited
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=TRACE DEBUG INFO WARN ERROR"`
	Format string `yaml:"format" validate:"oneof=console text"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Defaults returns a Config with all default values filled in. Collaborator
// endpoints have no default; they must come from the config file or the
// environment.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			MaxBodySize:     1 << 20, // 1 MB
			ShutdownTimeout: 30 * time.Second,
		},
		Chat: ChatConfig{
			Deployment:  "gpt-35-turbo",
			APIVersion:  "2024-02-01",
			Scope:       "https://cognitiveservices.azure.com/.default",
			MaxTokens:   500,
			Temperature: 0.7,
			Timeout:     60 * time.Second,
		},
		Pool: PoolConfig{
			APIVersion: "2024-02-02-preview",
			Scope:      "https://dynamicsessions.io/.default",
			Timeout:    60 * time.Second,
		},
		Credential: CredentialConfig{
			Mode: "azure",
		},
		Sessions: SessionsConfig{
			MaxEntries: 10000,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "text",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
