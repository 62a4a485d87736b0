package models

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxViewNameLength is the longest view name the server accepts
const MaxViewNameLength = 64

// View name errors
var (
	ErrEmptyViewName        = errors.New("view name cannot be empty")
	ErrViewNameTooLong      = errors.New("view name cannot exceed 64 characters")
	ErrInvalidViewCharacter = errors.New("view name contains invalid characters")
	ErrDuplicateViewName    = errors.New("another view with this name already exists")
	ErrInvalidViewType      = errors.New("view type must be blacklist or whitelist")
	ErrInvalidViewState     = errors.New("view state must be building or failing")
)

// NormalizeViewName trims surrounding whitespace and collapses inner runs of
// whitespace to a single space
func NormalizeViewName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// SameViewName compares view names the way the server does: case-insensitive
// after normalization
func SameViewName(a, b string) bool {
	return strings.EqualFold(NormalizeViewName(a), NormalizeViewName(b))
}

// ValidateViewName checks a single name without regard to other views
func ValidateViewName(name string) error {
	name = NormalizeViewName(name)
	if name == "" {
		return ErrEmptyViewName
	}

	if utf8.RuneCountInString(name) > MaxViewNameLength {
		return ErrViewNameTooLong
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return ErrInvalidViewCharacter
		}
	}

	return nil
}

// ValidateView checks the name, type and states of a view
func ValidateView(v View) error {
	if err := ValidateViewName(v.Name); err != nil {
		return err
	}

	switch v.Type {
	case ViewTypeExclude, ViewTypeInclude:
	default:
		return ErrInvalidViewType
	}

	for _, s := range v.States {
		if s != StateBuilding && s != StateFailing {
			return ErrInvalidViewState
		}
	}

	return nil
}

// ValidateViews checks every view and that names are unique
func ValidateViews(views []View) error {
	if len(views) == 0 {
		return errors.New("at least one view is required")
	}

	seen := make(map[string]bool, len(views))
	for _, v := range views {
		if err := ValidateView(v); err != nil {
			return err
		}
		key := strings.ToLower(NormalizeViewName(v.Name))
		if seen[key] {
			return ErrDuplicateViewName
		}
		seen[key] = true
	}

	return nil
}
