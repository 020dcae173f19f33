// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration structure, loaded from YAML.
type Config struct {
	LogLevel  string          `yaml:"log_level"` // Logging level ("debug", "info", "warn", "error").
	Analysis  Analysis        `yaml:"analysis"`  // Analysis pipeline settings.
	Transport TransportConfig `yaml:"transport"` // Result/progress transport settings.
}

// TransportConfig holds settings for publishing analysis output over
// the network.
type TransportConfig struct {
	UDPEnabled       bool   `yaml:"udp_enabled"`        // Enable streaming the pulse timeline over UDP.
	UDPTargetAddress string `yaml:"udp_target_address"` // Target address and port for UDP packets (e.g., "127.0.0.1:9090").
	WSEnabled        bool   `yaml:"ws_enabled"`         // Enable the WebSocket progress/result broadcaster.
	WSPort           int    `yaml:"ws_port"`            // Listen port for the WebSocket endpoint.
}

// LoadConfig loads configuration from a YAML file specified by path. If path is
// empty, it searches default locations ("config.yaml"). If no file is found, it
// uses built-in defaults. After loading defaults or from file, it applies
// environment variable overrides and validates the final configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := Config{
		LogLevel: "info",
		Analysis: NewAnalysis(),
		Transport: TransportConfig{
			UDPEnabled:       false,
			UDPTargetAddress: DefaultTransportUDPAddr,
			WSEnabled:        false,
			WSPort:           DefaultTransportWSPort,
		},
	}

	if path == "" {
		// TODO: Add platform-specific candidate paths ($XDG_CONFIG_HOME).
		candidates := []string{"config.yaml"}
		found := false
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				found = true
				break
			}
		}
		if !found {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return &cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides AFTER loading from file.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the full application configuration, including the
// embedded analysis settings.
func (c *Config) Validate() error {
	if err := c.Analysis.Validate(); err != nil {
		return err
	}
	if c.Transport.UDPEnabled && c.Transport.UDPTargetAddress == "" {
		return fmt.Errorf("transport.udp_target_address must be set when UDP is enabled")
	}
	if c.Transport.WSEnabled && (c.Transport.WSPort < 1 || c.Transport.WSPort > 65535) {
		return fmt.Errorf("transport.ws_port %d is out of range", c.Transport.WSPort)
	}
	return nil
}

// applyEnvOverrides layers HAPTIC_* environment variables over the
// loaded values. Unparseable values are ignored rather than fatal.
func (cfg *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("HAPTIC_LOG_LEVEL"); ok {
		cfg.LogLevel = val
	}
	if val, ok := os.LookupEnv("HAPTIC_UDP_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Transport.UDPEnabled = bVal
		}
	}
	if val, ok := os.LookupEnv("HAPTIC_UDP_TARGET_ADDRESS"); ok {
		cfg.Transport.UDPTargetAddress = val
	}
	if val, ok := os.LookupEnv("HAPTIC_WS_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Transport.WSEnabled = bVal
		}
	}
	if val, ok := os.LookupEnv("HAPTIC_WS_PORT"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			cfg.Transport.WSPort = iVal
		}
	}
}
