// Package config resolves runtime settings from the process environment,
// optionally seeded from a dotenv file.
package config

import (
	"os"

	"github.com/techadvisor/techadvisor/pkg/core"
)

const (
	// EnvAPIKey names the Gemini API key variable.
	EnvAPIKey = "GEMINI_API_KEY"

	// EnvModel overrides the chat completion model.
	EnvModel = "TECHADVISOR_MODEL"

	// EnvLiveModel overrides the realtime audio model.
	EnvLiveModel = "TECHADVISOR_LIVE_MODEL"

	// EnvVoice overrides the synthesized reply voice.
	EnvVoice = "TECHADVISOR_VOICE"
)

// Config is the resolved runtime configuration. Empty fields mean the
// package defaults apply.
type Config struct {
	APIKey    string
	Model     string
	LiveModel string
	Voice     string
}

// Load seeds the environment from envFile (".env" when empty; a missing
// file is not an error) and reads the configuration. Variables already
// set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}
	if err := applyEnvFile(envFile); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, err
		}
	}

	return &Config{
		APIKey:    os.Getenv(EnvAPIKey),
		Model:     os.Getenv(EnvModel),
		LiveModel: os.Getenv(EnvLiveModel),
		Voice:     os.Getenv(EnvVoice),
	}, nil
}

// Validate checks that the configuration can reach the API.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return core.NewConfigurationError(EnvAPIKey + " is not set")
	}
	return nil
}
