package files

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

type groupsDocument struct {
	Groups []models.PipelineGroup `yaml:"groups"`
}

var exampleGroups = []models.PipelineGroup{
	{Name: "build", Pipelines: []string{"compile", "unit-tests"}},
	{Name: "deploy", Pipelines: []string{"staging", "production"}},
}

// ReadGroups loads pipeline groups from a YAML file of the form
//
//	groups:
//	  - name: build
//	    pipelines: [compile, unit-tests]
func ReadGroups(path string) ([]models.PipelineGroup, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline groups %s: %w", path, err)
	}

	var doc groupsDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline groups YAML %s: %w", path, err)
	}

	seen := make(map[string]bool, len(doc.Groups))
	groups := make([]models.PipelineGroup, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		if g.Name == "" {
			return nil, fmt.Errorf("pipeline group without a name in %s", path)
		}
		if seen[g.Name] {
			return nil, fmt.Errorf("duplicate pipeline group %q in %s", g.Name, path)
		}
		seen[g.Name] = true
		if g.Pipelines == nil {
			g.Pipelines = []string{}
		}
		groups = append(groups, g)
	}

	return groups, nil
}

// WriteGroups saves pipeline groups in the format ReadGroups expects
func WriteGroups(path string, groups []models.PipelineGroup) error {
	content, err := yaml.Marshal(groupsDocument{Groups: groups})
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline groups to YAML: %w", err)
	}
	return WriteFile(path, content)
}

// GroupsFile serves pipeline groups from a YAML file, re-reading it on every
// call so edits show up without a restart
type GroupsFile struct {
	Path string
}

// PipelineGroups implements the server's and the editor's group source
func (f GroupsFile) PipelineGroups(ctx context.Context) ([]models.PipelineGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadGroups(f.Path)
}
