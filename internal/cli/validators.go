package cli

import (
	"fmt"
	"strings"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	validFormats := []string{"text", "json", "yaml"}
	for _, valid := range validFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// ParseViewType accepts the stored names and their friendlier aliases
func ParseViewType(t string) (models.ViewType, error) {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "blacklist", "exclude", "except":
		return models.ViewTypeExclude, nil
	case "whitelist", "include", "only":
		return models.ViewTypeInclude, nil
	}
	return "", fmt.Errorf("invalid view type: %s (must be: exclude or include)", t)
}

// ParseStates validates pipeline state filters
func ParseStates(states []string) ([]string, error) {
	out := make([]string, 0, len(states))
	for _, s := range SplitList(states) {
		s = strings.ToLower(s)
		if !Contains(models.KnownStates, s) {
			return nil, fmt.Errorf("invalid state: %s (must be: %s)", s, strings.Join(models.KnownStates, " or "))
		}
		if !Contains(out, s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// SplitList flattens repeated and comma-separated flag values
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Contains checks if a string is in a slice
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
