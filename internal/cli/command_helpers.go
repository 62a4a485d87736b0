package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dashviews/dashviews-cli/pkg/files"
	"github.com/dashviews/dashviews-cli/pkg/models"
	"github.com/dashviews/dashviews-cli/pkg/remote"
)

// Connection flags (will be set from cmd package)
var (
	serverURL string
	userName  string
	logLevel  string
	logFile   string
)

// SetConnectionFlags sets the flag values that override settings.yaml
func SetConnectionFlags(server, user, level, file string) {
	serverURL = server
	userName = user
	logLevel = level
	logFile = file
}

// CommandContext carries the resolved settings and shared clients of a command
type CommandContext struct {
	Settings *models.Settings
	Logger   *logrus.Logger

	logCloser io.Closer
	client    *remote.Client
}

// NewCommandContext resolves settings from settings.yaml, the environment and
// flags, in that order, and sets up logging
func NewCommandContext() (*CommandContext, error) {
	settings, err := files.ReadSettings()
	if err != nil {
		return nil, err
	}
	files.ApplyEnv(settings)

	if serverURL != "" {
		settings.Server.URL = serverURL
	}
	if userName != "" {
		settings.Server.User = userName
	}
	if logLevel != "" {
		settings.Log.Level = logLevel
	}
	if logFile != "" {
		settings.Log.File = logFile
	}

	logger, closer, err := NewLogger(settings.Log, stderr)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Settings:  settings,
		Logger:    logger,
		logCloser: closer,
	}, nil
}

// Client returns the filter store client for the configured server and user
func (c *CommandContext) Client() *remote.Client {
	if c.client == nil {
		c.client = remote.New(c.Settings.Server.URL, c.Settings.Server.User,
			remote.WithTimeout(c.Timeout()),
			remote.WithLogger(c.Logger),
		)
	}
	return c.client
}

// Timeout is the per-request timeout
func (c *CommandContext) Timeout() time.Duration {
	if c.Settings.Server.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Settings.Server.TimeoutSeconds) * time.Second
}

// Location describes who talks to which server, for headers and messages
func (c *CommandContext) Location() string {
	return fmt.Sprintf("%s@%s", c.Settings.Server.User, c.Settings.Server.URL)
}

// Close flushes the log file if one was opened
func (c *CommandContext) Close() error {
	if c.logCloser != nil {
		return c.logCloser.Close()
	}
	return nil
}

// ValidateProject ensures the project is initialized
func (c *CommandContext) ValidateProject() error {
	if _, err := os.Stat(files.DashviewsDir); os.IsNotExist(err) {
		return fmt.Errorf("no %s directory found. Run 'dashviews init' first", files.DashviewsDir)
	}
	return nil
}

// NewLogger builds a logrus logger from log settings. With a file configured
// the log goes there; otherwise to fallback. The closer is nil when no file
// was opened.
func NewLogger(s models.LogSettings, fallback io.Writer) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level := strings.TrimSpace(s.Level)
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", s.Level, err)
	}
	logger.SetLevel(lvl)

	if s.File == "" {
		logger.SetOutput(fallback)
		return logger, nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(s.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(s.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, f, nil
}
