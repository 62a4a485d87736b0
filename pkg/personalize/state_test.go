package personalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

func TestEditorState_Validate(t *testing.T) {
	names := []string{"Default", "Sprint", "Ops"}

	tests := []struct {
		name  string
		state func() *EditorState
		want  string
	}{
		{
			name: "empty name",
			state: func() *EditorState {
				return NewCreateState(nil)
			},
			want: MsgNameRequired,
		},
		{
			name: "whitespace only name",
			state: func() *EditorState {
				s := NewCreateState(nil)
				s.SetName("   ")
				return s
			},
			want: MsgNameRequired,
		},
		{
			name: "duplicate of another view",
			state: func() *EditorState {
				s := NewCreateState(nil)
				s.SetName("sprint")
				return s
			},
			want: MsgNameDuplicate,
		},
		{
			name: "unique new name",
			state: func() *EditorState {
				s := NewCreateState(nil)
				s.SetName("Release")
				return s
			},
			want: "",
		},
		{
			name: "edit keeps its own name",
			state: func() *EditorState {
				return NewEditState(models.View{Name: "Sprint"}, nil)
			},
			want: "",
		},
		{
			name: "edit changes only the case of its own name",
			state: func() *EditorState {
				s := NewEditState(models.View{Name: "Sprint"}, nil)
				s.SetName("SPRINT")
				return s
			},
			want: "",
		},
		{
			name: "edit renames onto another view",
			state: func() *EditorState {
				s := NewEditState(models.View{Name: "Sprint"}, nil)
				s.SetName("Default")
				return s
			},
			want: MsgNameDuplicate,
		},
		{
			name: "name too long",
			state: func() *EditorState {
				s := NewCreateState(nil)
				s.SetName(strings.Repeat("x", models.MaxViewNameLength+1))
				return s
			},
			want: MsgNameTooLong,
		},
		{
			name: "include with no groups",
			state: func() *EditorState {
				s := NewCreateState(nil)
				s.SetName("Mine")
				s.SetType(models.ViewTypeInclude)
				return s
			},
			want: MsgNoGroups,
		},
		{
			name: "include with a group",
			state: func() *EditorState {
				s := NewCreateState(nil)
				s.SetName("Mine")
				s.SetType(models.ViewTypeInclude)
				s.ToggleGroup("payments")
				return s
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.state()
			s.Validate(names)
			assert.Equal(t, tt.want, s.ValidationError)
			assert.Equal(t, tt.want != "", s.Invalid())
			assert.Equal(t, tt.want, s.FirstError())
		})
	}
}

func TestEditorState_EditsClearValidation(t *testing.T) {
	edits := map[string]func(s *EditorState){
		"SetName":     func(s *EditorState) { s.SetName("x") },
		"SetType":     func(s *EditorState) { s.SetType(models.ViewTypeInclude) },
		"ToggleGroup": func(s *EditorState) { s.ToggleGroup("g") },
		"SetGroups":   func(s *EditorState) { s.SetGroups([]string{"g"}) },
		"ToggleState": func(s *EditorState) { s.ToggleState(models.StateFailing) },
	}

	for name, edit := range edits {
		t.Run(name, func(t *testing.T) {
			s := NewCreateState(nil)
			s.Validate(nil)
			assert.True(t, s.Invalid())

			edit(s)
			assert.False(t, s.Invalid())
		})
	}
}

func TestEditorState_DraftIsNotAliased(t *testing.T) {
	committed := models.View{Name: "Sprint", PipelineGroups: []string{"a"}}
	s := NewEditState(committed, nil)

	s.ToggleGroup("b")
	s.Draft.PipelineGroups[0] = "changed"

	assert.Equal(t, []string{"a"}, committed.PipelineGroups)
}

func TestEditorState_Toggles(t *testing.T) {
	s := NewCreateState(nil)

	s.ToggleGroup("a")
	s.ToggleGroup("b")
	s.ToggleGroup("a")
	assert.Equal(t, []string{"b"}, s.Draft.PipelineGroups)

	s.SetGroups([]string{"x", "", "x", "y"})
	assert.Equal(t, []string{"x", "y"}, s.Draft.PipelineGroups)

	s.ToggleState(models.StateBuilding)
	assert.True(t, s.Draft.HasState(models.StateBuilding))
	s.ToggleState(models.StateBuilding)
	assert.False(t, s.Draft.HasState(models.StateBuilding))
}

func TestEditorState_Title(t *testing.T) {
	assert.Equal(t, "Create new view", NewCreateState(nil).Title())
	assert.Equal(t, "Edit Sprint", NewEditState(models.View{Name: "Sprint"}, nil).Title())
}
