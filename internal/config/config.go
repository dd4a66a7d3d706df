// Package config loads tposlink settings from the environment.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/tillhub/tpos"
)

const logPrefix = "config:Load"

// Prefix of every variable, e.g. TPOS_TARGET.
const Prefix = "TPOS"

// Config holds tposlink configuration.
type Config struct {
	// Env selects the logger flavour: "prod" or anything else for development.
	Env      string `envconfig:"ENV" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// SDKVersion overrides tpos.Version, e.g. to talk to an older receiver.
	SDKVersion     string `envconfig:"SDK_VERSION"`
	AppDisplayName string `envconfig:"APP_DISPLAY_NAME" default:"tposlink"`
	ClientID       string `envconfig:"CLIENT_ID"`

	// Schemes the CLI may open; requests to other targets fail with
	// SchemeNotDeclared.
	DeclaredSchemes []string `envconfig:"DECLARED_SCHEMES" default:"tillhub"`
	Target          string   `envconfig:"TARGET" default:"tillhub"`
	CallbackScheme  string   `envconfig:"CALLBACK_SCHEME" default:"tposlink"`

	// OpenCommand launches URLs; empty selects the platform default.
	OpenCommand string `envconfig:"OPEN_COMMAND"`
	SelfCheck   bool   `envconfig:"SELF_CHECK" default:"false"`
}

// Load reads the given .env files, or ./.env when it exists, and then the
// TPOS_* environment variables. Variables already set in the environment win
// over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("%s - read env files: %w", logPrefix, err)
	}
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("%s - %w", logPrefix, err)
	}
	return &c, nil
}

// Validate checks values that cannot be expressed as envconfig defaults.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s - TPOS_LOG_LEVEL: %w", logPrefix, err)
	}
	if c.SDKVersion != "" {
		if _, err := tpos.ProtocolToken(c.SDKVersion); err != nil {
			return fmt.Errorf("%s - TPOS_SDK_VERSION: %w", logPrefix, err)
		}
	}
	if c.CallbackScheme == "" {
		return fmt.Errorf("%s - TPOS_CALLBACK_SCHEME is required", logPrefix)
	}
	if c.Target == "" {
		return fmt.Errorf("%s - TPOS_TARGET is required", logPrefix)
	}
	return nil
}

// Metadata exposes the configured version and display name to the SDK.
func (c *Config) Metadata() tpos.StaticMetadata {
	return tpos.StaticMetadata{Version: c.SDKVersion, DisplayName: c.AppDisplayName}
}
