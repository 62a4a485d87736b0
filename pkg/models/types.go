package models

import "slices"

// DefaultViewName is the view every personalization starts with and the view
// the dashboard falls back to after the active view is deleted.
const DefaultViewName = "Default"

// ViewType selects how a view's pipeline groups are interpreted.
type ViewType string

const (
	ViewTypeExclude ViewType = "blacklist" // show everything except the listed groups
	ViewTypeInclude ViewType = "whitelist" // show only the listed groups
)

// Pipeline states a view can additionally filter on
const (
	StateBuilding = "building"
	StateFailing  = "failing"
)

// KnownStates lists the state filters in display order
var KnownStates = []string{StateBuilding, StateFailing}

// View is a named personalization filter over pipeline groups
type View struct {
	Name           string   `json:"name" yaml:"name"`
	Type           ViewType `json:"type" yaml:"type"`
	PipelineGroups []string `json:"pipeline_groups" yaml:"pipeline_groups"`
	States         []string `json:"state,omitempty" yaml:"state,omitempty"`
}

// Clone returns a deep copy so drafts never share slices with committed views
func (v View) Clone() View {
	c := v
	c.PipelineGroups = slices.Clone(v.PipelineGroups)
	c.States = slices.Clone(v.States)
	if c.PipelineGroups == nil {
		c.PipelineGroups = []string{}
	}
	return c
}

// Includes reports whether the view lists the given pipeline group
func (v View) Includes(group string) bool {
	return slices.Contains(v.PipelineGroups, group)
}

// HasState reports whether the view filters on the given pipeline state
func (v View) HasState(state string) bool {
	return slices.Contains(v.States, state)
}

// DefaultView returns the view a fresh personalization contains
func DefaultView() View {
	return View{
		Name:           DefaultViewName,
		Type:           ViewTypeExclude,
		PipelineGroups: []string{},
	}
}

// Personalization is the stored set of views for one user together with the
// content hash guarding concurrent modification
type Personalization struct {
	Filters     []View `json:"filters" yaml:"filters"`
	ContentHash string `json:"contentHash" yaml:"content_hash"`
}

// Names returns the view names in display order
func (p Personalization) Names() []string {
	return ViewNames(p.Filters)
}

// ViewNames returns the names of the given views in order
func ViewNames(views []View) []string {
	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.Name)
	}
	return names
}

// PipelineGroup is a group a view can be assigned
type PipelineGroup struct {
	Name      string   `json:"name" yaml:"name"`
	Pipelines []string `json:"pipelines" yaml:"pipelines"`
}

// ChangeEvent is published whenever a user's personalization is replaced
type ChangeEvent struct {
	Type        string `json:"type"`
	User        string `json:"user"`
	ContentHash string `json:"contentHash"`
}

// ChangeEventType is the type of every ChangeEvent published by the server
const ChangeEventType = "pipeline_selection_changed"
