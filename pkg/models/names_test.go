package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeViewName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Sprint", "Sprint"},
		{"  Sprint  ", "Sprint"},
		{"My   Team\tView", "My Team View"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeViewName(tt.input))
		})
	}
}

func TestSameViewName(t *testing.T) {
	assert.True(t, SameViewName("default", "Default"))
	assert.True(t, SameViewName(" my  view", "MY VIEW"))
	assert.False(t, SameViewName("Sprint", "Sprint 2"))
}

func TestValidateViewName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid", "Sprint", nil},
		{"unicode", "Équipe", nil},
		{"empty", "", ErrEmptyViewName},
		{"whitespace only", "  \t ", ErrEmptyViewName},
		{"max length", strings.Repeat("a", MaxViewNameLength), nil},
		{"too long", strings.Repeat("a", MaxViewNameLength+1), ErrViewNameTooLong},
		{"control character", "bad\x00name", ErrInvalidViewCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateViewName(tt.input)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateViews(t *testing.T) {
	tests := []struct {
		name    string
		views   []View
		wantErr bool
	}{
		{"default only", []View{DefaultView()}, false},
		{"empty", nil, true},
		{"duplicate ignoring case", []View{DefaultView(), {Name: "default", Type: ViewTypeExclude}}, true},
		{"bad type", []View{{Name: "x", Type: "sometimes"}}, true},
		{"bad state", []View{{Name: "x", Type: ViewTypeInclude, States: []string{"paused"}}}, true},
		{"states", []View{{Name: "x", Type: ViewTypeInclude, States: []string{StateBuilding, StateFailing}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateViews(tt.views)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestViewClone(t *testing.T) {
	v := View{Name: "a", Type: ViewTypeInclude, PipelineGroups: []string{"x"}, States: []string{StateFailing}}
	c := v.Clone()
	c.PipelineGroups[0] = "y"
	c.States[0] = StateBuilding

	assert.Equal(t, "x", v.PipelineGroups[0])
	assert.Equal(t, StateFailing, v.States[0])
	assert.Equal(t, []string{}, View{}.Clone().PipelineGroups)
}
