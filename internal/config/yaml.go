// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from the YAML file at path. An empty
// path searches the default location ("scope.yaml"); when no file is
// found the built-in defaults are used. Environment overrides are
// applied after the file and the final configuration is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat("scope.yaml"); err == nil {
			path = "scope.yaml"
		} else {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field consistency of the configuration.
func (c *Config) Validate() error {
	if c.Capture.BlockSize <= 0 || c.Capture.BlockSize > MaxBlockSize {
		return fmt.Errorf("capture.block_size must be in 1..%d, got %d", MaxBlockSize, c.Capture.BlockSize)
	}
	if c.Capture.FrameInterval <= 0 {
		return fmt.Errorf("capture.frame_interval must be positive, got %s", c.Capture.FrameInterval)
	}
	if c.Capture.Mode != "wave" && c.Capture.Mode != "spectrum" {
		return fmt.Errorf("capture.mode must be wave or spectrum, got %q", c.Capture.Mode)
	}
	if c.Trigger.Level < 0 || c.Trigger.Level > 255 {
		return fmt.Errorf("trigger.level must be in 0..255, got %d", c.Trigger.Level)
	}
	if c.Display.AmplitudeScale <= 0 {
		return fmt.Errorf("display.amplitude_scale must be positive, got %g", c.Display.AmplitudeScale)
	}
	if c.Display.SamplesPerPixel < 1 {
		return fmt.Errorf("display.samples_per_pixel must be at least 1, got %d", c.Display.SamplesPerPixel)
	}
	if c.Transport.UDPEnabled && c.Transport.UDPInterval <= 0 {
		return fmt.Errorf("transport.udp_interval must be positive when UDP is enabled")
	}
	return nil
}

// applyEnvOverrides layers SCOPE_* environment variables over the
// current values. Only transport and debug settings are overridable;
// everything else belongs to flags or the file.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("SCOPE_DEBUG"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
		}
	}
	if val, ok := os.LookupEnv("SCOPE_WS_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Transport.WSEnabled = b
		}
	}
	if val, ok := os.LookupEnv("SCOPE_WS_PORT"); ok {
		c.Transport.WSPort = val
	}
	if val, ok := os.LookupEnv("SCOPE_UDP_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Transport.UDPEnabled = b
		}
	}
	if val, ok := os.LookupEnv("SCOPE_UDP_TARGET"); ok {
		c.Transport.UDPTarget = val
	}
	if val, ok := os.LookupEnv("SCOPE_UDP_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Transport.UDPInterval = d
		}
	}
}
