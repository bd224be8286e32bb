// Package validate checks tool inputs before they reach the GitLab API,
// so callers get a clear message instead of an upstream 400.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrValidation wraps every failure from this package.
var ErrValidation = errors.New("validation failed")

var colorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Color validates a hex color like "#FF0000" or "ff0000" and returns it
// normalized: no "#" prefix, uppercase.
func Color(color string) (string, error) {
	if color == "" {
		return "", fmt.Errorf("%w: color cannot be empty", ErrValidation)
	}

	normalized := strings.TrimPrefix(color, "#")
	if !colorPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: invalid color %q, must be 6 hex digits (e.g. FF0000 or #FF0000)", ErrValidation, color)
	}

	return strings.ToUpper(normalized), nil
}

// Date validates a YYYY-MM-DD date string and returns it unchanged.
func Date(date string) (string, error) {
	if date == "" {
		return "", fmt.Errorf("%w: date cannot be empty", ErrValidation)
	}

	parsed, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q, must be YYYY-MM-DD (e.g. 2024-01-15)", ErrValidation, date)
	}

	return parsed.Format(time.DateOnly), nil
}

// Format checks that value is one of the allowed options, ignoring case,
// and returns the lowercase form. name appears in the error message.
func Format(value string, allowed []string, name string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrValidation, name)
	}

	normalized := strings.ToLower(value)
	for _, a := range allowed {
		if normalized == strings.ToLower(a) {
			return normalized, nil
		}
	}

	return "", fmt.Errorf("%w: invalid %s %q, must be one of: %s", ErrValidation, name, value, strings.Join(allowed, ", "))
}

// State validates an issue/MR state filter.
func State(state string) (string, error) {
	return Format(state, []string{"opened", "closed", "merged", "all"}, "state")
}

// Scope validates a discussion note scope.
func Scope(scope string) (string, error) {
	return Format(scope, []string{"note", "diff_note", "outdated_diff_note"}, "scope")
}

// PositiveInt checks value > 0.
func PositiveInt(value int, name string) (int, error) {
	if value <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %d", ErrValidation, name, value)
	}

	return value, nil
}

// NonNegativeInt checks value >= 0.
func NonNegativeInt(value int, name string) (int, error) {
	if value < 0 {
		return 0, fmt.Errorf("%w: %s must be non-negative, got %d", ErrValidation, name, value)
	}

	return value, nil
}

// StringLength checks len(value) against [min, max]. A max of 0 means no
// upper bound.
func StringLength(value string, min, max int, name string) (string, error) {
	if len(value) < min {
		return "", fmt.Errorf("%w: %s must be at least %d characters, got %d", ErrValidation, name, min, len(value))
	}

	if max > 0 && len(value) > max {
		return "", fmt.Errorf("%w: %s must be at most %d characters, got %d", ErrValidation, name, max, len(value))
	}

	return value, nil
}
