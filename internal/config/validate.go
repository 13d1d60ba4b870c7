package config

import (
	"errors"
	"slices"
	"strings"
)

var (
	validProfiles = []string{"", "auto", "mouse", "touch"}
	validLevels   = []string{"", "debug", "info", "warn", "warning", "error"}
	validFormats  = []string{"", "text", "console", "json"}
)

// maxDoubleClickMS bounds the multi-click window.
const maxDoubleClickMS = 5000

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, value any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
		}
	}

	check(slices.Contains(validProfiles, strings.ToLower(c.Pointer.Profile)),
		"pointer.profile", "must be auto, mouse or touch", c.Pointer.Profile)
	check(c.Pointer.DoubleClickMS >= 0 && c.Pointer.DoubleClickMS <= maxDoubleClickMS,
		"pointer.double_click_ms", "must be between 0 and 5000", c.Pointer.DoubleClickMS)
	check(c.Pointer.DoubleClickDistance >= 0,
		"pointer.double_click_distance", "must not be negative", c.Pointer.DoubleClickDistance)
	check(slices.Contains(validLevels, strings.ToLower(c.Log.Level)),
		"log.level", "must be debug, info, warn or error", c.Log.Level)
	check(slices.Contains(validFormats, strings.ToLower(c.Log.Format)),
		"log.format", "must be text or json", c.Log.Format)

	return errors.Join(errs...)
}
