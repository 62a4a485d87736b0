package files

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

// ViewsDocument is the export format of a user's views
type ViewsDocument struct {
	User  string        `yaml:"user,omitempty" json:"user,omitempty"`
	Views []models.View `yaml:"views" json:"views"`
}

// MarshalViews renders views as YAML
func MarshalViews(doc ViewsDocument) ([]byte, error) {
	content, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal views to YAML: %w", err)
	}
	return content, nil
}

// ReadViews loads an exported views document
func ReadViews(path string) (*ViewsDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read views %s: %w", path, err)
	}

	var doc ViewsDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse views YAML %s: %w", path, err)
	}

	if err := models.ValidateViews(doc.Views); err != nil {
		return nil, fmt.Errorf("invalid views in %s: %w", path, err)
	}

	return &doc, nil
}
