package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the layered.yml project configuration
type Config struct {
	ProjectName string         `mapstructure:"project_name"`
	Document    string         `mapstructure:"document"`
	Server      ServerConfig   `mapstructure:"server"`
	Validate    ValidateConfig `mapstructure:"validate"`
}

// ServerConfig configures the validation HTTP server
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ValidateConfig configures validation behavior
type ValidateConfig struct {
	// Strict treats warnings as errors for exit-code purposes
	Strict bool `mapstructure:"strict"`
	// MaxWarnings fails validation when exceeded; negative means no
	// limit
	MaxWarnings int `mapstructure:"max_warnings"`
}

// Load loads the configuration from layered.yml or layered.yaml. A
// missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("document", "app.layered.yml")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8420)
	v.SetDefault("validate.strict", false)
	v.SetDefault("validate.max_warnings", -1)

	v.SetConfigName("layered")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LAYERED")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// InProject checks if the current directory is a layered project
func InProject() bool {
	if _, err := os.Stat("layered.yml"); err == nil {
		return true
	}
	if _, err := os.Stat("layered.yaml"); err == nil {
		return true
	}
	return false
}

// GetProjectRoot walks up from the working directory looking for
// layered.yml
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "layered.yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "layered.yaml")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a layered project (no layered.yml found)")
		}
		dir = parent
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 0-65535, got: %d", cfg.Server.Port)
	}
	if cfg.Document == "" {
		return fmt.Errorf("document must not be empty")
	}
	return nil
}
