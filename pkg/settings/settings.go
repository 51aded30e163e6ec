// Package settings layers the three sources every configuration section
// reads: built-in defaults, TOML overlays and environment variables.
//
// Environment readers take the variable name and a destination. An empty
// name, an unset variable or an unparsable value leaves the destination
// unchanged, so sections can share one env table across deployments that
// only set some of the variables.
package settings

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default sets *dst to value when *dst is the zero value.
func Default[T comparable](dst *T, value T) {
	var zero T
	if *dst == zero {
		*dst = value
	}
}

// Overlay sets *dst to value when value is not the zero value.
func Overlay[T comparable](dst *T, value T) {
	var zero T
	if value != zero {
		*dst = value
	}
}

// OverlaySlice replaces *dst when the overlay set the slice at all.
// An explicit empty list in an overlay clears the base value.
func OverlaySlice[T any](dst *[]T, value []T) {
	if value != nil {
		*dst = value
	}
}

func lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	v := os.Getenv(name)
	return v, v != ""
}

// String reads name into dst.
func String(name string, dst *string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

// Int reads name into dst.
func Int(name string, dst *int) {
	if v, ok := lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Float reads name into dst.
func Float(name string, dst *float64) {
	if v, ok := lookup(name); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// Bool reads name into dst using strconv.ParseBool spellings.
func Bool(name string, dst *bool) {
	if v, ok := lookup(name); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// List reads a comma separated name into dst, dropping blank entries.
func List(name string, dst *[]string) {
	v, ok := lookup(name)
	if !ok {
		return
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

// Duration parses value, returning 0 for anything unparsable. Sections
// validate with CheckDuration during Finalize, so callers of the typed
// accessors can rely on a parsed value.
func Duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}

// CheckDuration reports an invalid duration under the field's TOML key.
func CheckDuration(field, value string) error {
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	return nil
}
