// Package config loads relay configuration from a TOML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds everything relay needs to reach its collaborators.
//
// AccessToken never comes from the file: tokens are short-lived secrets and
// belong in the environment or the interactive login flow.
type Config struct {
	Region              string `toml:"region"`
	AgentARN            string `toml:"agent_arn"`
	GatewayURL          string `toml:"gateway_url"`
	MemoryID            string `toml:"memory_id"`
	CognitoClientID     string `toml:"cognito_client_id"`
	CognitoClientSecret string `toml:"cognito_client_secret"`
	Username            string `toml:"username"`
	AccessToken         string `toml:"-"`
}

// envOverrides maps environment variables to config fields.
var envOverrides = []struct {
	name  string
	field func(*Config) *string
}{
	{"RELAY_REGION", func(c *Config) *string { return &c.Region }},
	{"RELAY_AGENT_ARN", func(c *Config) *string { return &c.AgentARN }},
	{"RELAY_GATEWAY_URL", func(c *Config) *string { return &c.GatewayURL }},
	{"RELAY_MEMORY_ID", func(c *Config) *string { return &c.MemoryID }},
	{"RELAY_COGNITO_CLIENT_ID", func(c *Config) *string { return &c.CognitoClientID }},
	{"RELAY_COGNITO_CLIENT_SECRET", func(c *Config) *string { return &c.CognitoClientSecret }},
	{"RELAY_USERNAME", func(c *Config) *string { return &c.Username }},
	{"RELAY_ACCESS_TOKEN", func(c *Config) *string { return &c.AccessToken }},
}

// Load reads the TOML file at path and applies environment overrides on
// top. An empty path skips the file and loads from the environment alone.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}
	for _, o := range envOverrides {
		if v := os.Getenv(o.name); v != "" {
			*o.field(&cfg) = v
		}
	}
	return cfg, nil
}

// Validate reports missing required fields. Security-relevant settings are
// never defaulted; a missing region or client ID is an error, not a guess.
func (c Config) Validate() error {
	var missing []string
	if c.Region == "" {
		missing = append(missing, "region")
	}
	if c.AgentARN == "" {
		missing = append(missing, "agent_arn")
	}
	if c.CognitoClientID == "" && c.AccessToken == "" {
		missing = append(missing, "cognito_client_id (or RELAY_ACCESS_TOKEN)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
