package personalize

import (
	"errors"
	"slices"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

// Mode tells whether an editor session creates a view or edits one
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Validation messages shown next to the Save action
const (
	MsgNameRequired  = "View name is required"
	MsgNameTooLong   = "View name is too long (max 64 characters)"
	MsgNameInvalid   = "View name contains invalid characters"
	MsgNameDuplicate = "Another view with this name already exists"
	MsgNoGroups      = "Select at least one pipeline group to include"
)

// EditorState holds one editor session's working copy and status
type EditorState struct {
	Mode            Mode                   // Create or Edit
	Original        string                 // Name of the view being edited, empty in Create mode
	Draft           models.View            // Working copy, never aliased with a committed view
	Groups          []models.PipelineGroup // Assignable pipeline groups
	ValidationError string                 // Set by Validate, cleared by any edit
	RemoteError     string                 // Set after a failed remote call, cleared when a new one starts
	Busy            bool                   // A remote call is outstanding
}

// NewCreateState starts a session for a new view
func NewCreateState(groups []models.PipelineGroup) *EditorState {
	return &EditorState{
		Mode: ModeCreate,
		Draft: models.View{
			Type:           models.ViewTypeExclude,
			PipelineGroups: []string{},
		},
		Groups: slices.Clone(groups),
	}
}

// NewEditState starts a session seeded from a committed view
func NewEditState(v models.View, groups []models.PipelineGroup) *EditorState {
	draft := v.Clone()
	if draft.Type == "" {
		draft.Type = models.ViewTypeExclude
	}
	return &EditorState{
		Mode:     ModeEdit,
		Original: v.Name,
		Draft:    draft,
		Groups:   slices.Clone(groups),
	}
}

// Title is the editor dialog title
func (s *EditorState) Title() string {
	if s.Mode == ModeEdit {
		return "Edit " + s.Original
	}
	return "Create new view"
}

// SetName sets the draft name
func (s *EditorState) SetName(name string) {
	s.Draft.Name = name
	s.ValidationError = ""
}

// SetType sets whether the draft's groups are excluded or included
func (s *EditorState) SetType(t models.ViewType) {
	s.Draft.Type = t
	s.ValidationError = ""
}

// ToggleGroup adds or removes a pipeline group from the draft
func (s *EditorState) ToggleGroup(group string) {
	if i := slices.Index(s.Draft.PipelineGroups, group); i >= 0 {
		s.Draft.PipelineGroups = slices.Delete(s.Draft.PipelineGroups, i, i+1)
	} else {
		s.Draft.PipelineGroups = append(s.Draft.PipelineGroups, group)
	}
	s.ValidationError = ""
}

// SetGroups replaces the draft's pipeline groups, dropping duplicates
func (s *EditorState) SetGroups(groups []string) {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if g != "" && !slices.Contains(out, g) {
			out = append(out, g)
		}
	}
	s.Draft.PipelineGroups = out
	s.ValidationError = ""
}

// ToggleState adds or removes a pipeline state filter from the draft
func (s *EditorState) ToggleState(state string) {
	if i := slices.Index(s.Draft.States, state); i >= 0 {
		s.Draft.States = slices.Delete(s.Draft.States, i, i+1)
	} else {
		s.Draft.States = append(s.Draft.States, state)
	}
	s.ValidationError = ""
}

// SetAvailableGroups replaces the assignable groups once they are reloaded.
// The draft keeps groups that disappeared so saving never drops them silently.
func (s *EditorState) SetAvailableGroups(groups []models.PipelineGroup) {
	s.Groups = slices.Clone(groups)
}

// Validate recomputes ValidationError against the committed view names.
// In Edit mode the view's own prior name is not a duplicate.
func (s *EditorState) Validate(names []string) {
	s.ValidationError = ""

	name := models.NormalizeViewName(s.Draft.Name)
	if err := models.ValidateViewName(name); err != nil {
		switch {
		case errors.Is(err, models.ErrViewNameTooLong):
			s.ValidationError = MsgNameTooLong
		case errors.Is(err, models.ErrInvalidViewCharacter):
			s.ValidationError = MsgNameInvalid
		default:
			s.ValidationError = MsgNameRequired
		}
		return
	}

	for _, existing := range names {
		if s.Mode == ModeEdit && models.SameViewName(existing, s.Original) {
			continue
		}
		if models.SameViewName(existing, name) {
			s.ValidationError = MsgNameDuplicate
			return
		}
	}

	if s.Draft.Type == models.ViewTypeInclude && len(s.Draft.PipelineGroups) == 0 {
		s.ValidationError = MsgNoGroups
	}
}

// Invalid reports whether the last validation failed
func (s *EditorState) Invalid() bool {
	return s.ValidationError != ""
}

// FirstError returns the message shown as the Save action's tooltip
func (s *EditorState) FirstError() string {
	return s.ValidationError
}

// View returns the draft as it will be saved
func (s *EditorState) View() models.View {
	v := s.Draft.Clone()
	v.Name = models.NormalizeViewName(v.Name)
	return v
}
