package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, POOLCHAT_CONFIG env, ./config.yaml,
//     /etc/poolchat/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. POOLCHAT_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/poolchat/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("POOLCHAT_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/poolchat/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields. The legacy
// AZURE_OPENAI_ENDPOINT and POOL_MANAGEMENT_ENDPOINT names are honored for
// compatibility with existing deployment manifests; the POOLCHAT_* names
// take precedence when both are set.
func applyEnvOverrides(cfg *Config) {
	// Legacy env var mappings.
	if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
		cfg.Chat.Endpoint = v
	}
	if v := os.Getenv("POOL_MANAGEMENT_ENDPOINT"); v != "" {
		cfg.Pool.Endpoint = v
	}

	if v := os.Getenv("POOLCHAT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("POOLCHAT_API_KEYS"); v != "" {
		cfg.Server.APIKeys = splitNonEmpty(v)
	}
	if v := os.Getenv("POOLCHAT_CHAT_ENDPOINT"); v != "" {
		cfg.Chat.Endpoint = v
	}
	if v := os.Getenv("POOLCHAT_CHAT_DEPLOYMENT"); v != "" {
		cfg.Chat.Deployment = v
	}
	if v := os.Getenv("POOLCHAT_CHAT_API_VERSION"); v != "" {
		cfg.Chat.APIVersion = v
	}
	if v := os.Getenv("POOLCHAT_POOL_ENDPOINT"); v != "" {
		cfg.Pool.Endpoint = v
	}
	if v := os.Getenv("POOLCHAT_POOL_API_VERSION"); v != "" {
		cfg.Pool.APIVersion = v
	}
	if v := os.Getenv("POOLCHAT_CREDENTIAL_MODE"); v != "" {
		cfg.Credential.Mode = v
	}
	if v := os.Getenv("POOLCHAT_STATIC_TOKEN"); v != "" {
		cfg.Credential.StaticToken = v
	}
	if v := os.Getenv("POOLCHAT_SESSIONS_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sessions.MaxEntries = n
		}
	}
	if v := os.Getenv("POOLCHAT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToUpper(v)
	}
	if v := os.Getenv("POOLCHAT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("POOLCHAT_CHAT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Chat.Timeout = d
		}
	}
	if v := os.Getenv("POOLCHAT_POOL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Pool.Timeout = d
		}
	}
}

// resolveFileReferences reads _file fields and populates the corresponding
// value fields. For each field ending in _file, if the value field is empty
// and the file field is set, the file is read, whitespace is trimmed, and
// the value field is populated.
func resolveFileReferences(cfg *Config) error {
	if cfg.Credential.StaticTokenFile != "" && cfg.Credential.StaticToken == "" {
		val, err := readSecretFile(cfg.Credential.StaticTokenFile)
		if err != nil {
			return fmt.Errorf("credential.static_token_file: %w", err)
		}
		cfg.Credential.StaticToken = val
	}
	return nil
}

// splitNonEmpty splits a comma-separated list, trimming whitespace and
// dropping empty segments.
func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
