package files

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DashviewsDir     = ".dashviews"
	SettingsFile     = "settings.yaml"
	GroupsFileName   = "groups.yaml"
	DatabaseFileName = "dashviews.sqlite"
	ExportsDir       = "exports"
)

// InitProjectStructure creates the .dashviews folder with default settings
// and an example pipeline groups file. Existing files are left alone.
func InitProjectStructure() error {
	dirs := []string{
		DashviewsDir,
		filepath.Join(DashviewsDir, ExportsDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(SettingsPath()); os.IsNotExist(err) {
		if err := WriteSettings(nil); err != nil {
			return err
		}
	}

	groupsPath := filepath.Join(DashviewsDir, GroupsFileName)
	if _, err := os.Stat(groupsPath); os.IsNotExist(err) {
		if err := WriteGroups(groupsPath, exampleGroups); err != nil {
			return err
		}
	}

	return nil
}

// WriteFile writes content to a file, creating parent directories
func WriteFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
