package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

// Environment variables that override settings.yaml
const (
	EnvServer   = "DASHVIEWS_SERVER"
	EnvUser     = "DASHVIEWS_USER"
	EnvTimeout  = "DASHVIEWS_TIMEOUT"
	EnvLogLevel = "DASHVIEWS_LOG_LEVEL"
	EnvLogFile  = "DASHVIEWS_LOG_FILE"
)

// SettingsPath returns the settings file location
func SettingsPath() string {
	return filepath.Join(DashviewsDir, SettingsFile)
}

// ReadSettings loads settings.yaml on top of the defaults. A missing file is
// not an error.
func ReadSettings() (*models.Settings, error) {
	settings := models.DefaultSettings()

	content, err := os.ReadFile(SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(content, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	return settings, nil
}

// WriteSettings saves settings.yaml; nil writes the defaults
func WriteSettings(settings *models.Settings) error {
	if settings == nil {
		settings = models.DefaultSettings()
	}

	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}

	return WriteFile(SettingsPath(), content)
}

// ApplyEnv overrides settings from DASHVIEWS_* environment variables
func ApplyEnv(settings *models.Settings) {
	if v := os.Getenv(EnvServer); v != "" {
		settings.Server.URL = v
	}
	if v := os.Getenv(EnvUser); v != "" {
		settings.Server.User = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			settings.Server.TimeoutSeconds = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		settings.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		settings.Log.File = v
	}
}
