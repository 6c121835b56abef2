// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLicense is returned when a course license value is not recognized.
	ErrInvalidLicense = errors.New("invalid license")
	// ErrInvalidDefaultView is returned when a course default view is not recognized.
	ErrInvalidDefaultView = errors.New("invalid default view")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not
	// recognized. It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// CourseDefaults seeds new course templates created by the init command.
	CourseDefaults struct {
		// License applied to scaffolded courses.
		License string `json:"license" mapstructure:"license" toml:"license"`
		// DefaultView applied to scaffolded courses.
		DefaultView string `json:"default_view" mapstructure:"default_view" toml:"default_view"`
		// IsPublic marks scaffolded courses publicly visible.
		IsPublic bool `json:"is_public" mapstructure:"is_public" toml:"is_public"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// ColorScheme selects "auto", "dark" or "light" styling.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
		// Verbose enables per-file progress output.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		// OutputDir is where built packages land when --output is not given.
		OutputDir string `json:"output_dir" mapstructure:"output_dir" toml:"output_dir"`
		// Course seeds new templates.
		Course CourseDefaults `json:"course" mapstructure:"course" toml:"course"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}
)

var validLicenses = map[string]bool{
	"private":       true,
	"public_domain": true,
	"cc_by":         true,
	"cc_by_sa":      true,
	"cc_by_nc":      true,
	"cc_by_nc_sa":   true,
	"cc_by_nd":      true,
	"cc_by_nc_nd":   true,
}

var validViews = map[string]bool{
	"modules":     true,
	"wiki":        true,
	"assignments": true,
	"syllabus":    true,
	"feed":        true,
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("%v: %q (must be %q, %q or %q)",
		ErrInvalidColorScheme, e.Value, ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight)
}

// Unwrap returns the sentinel for errors.Is().
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidConfig, errors.Join(e.FieldErrors...))
}

// Unwrap returns the sentinel for errors.Is().
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks the scheme against the known values.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Validate checks the defaults against the values Canvas accepts.
func (d CourseDefaults) Validate() error {
	var errs []error
	if !validLicenses[d.License] {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLicense, d.License))
	}
	if !validViews[d.DefaultView] {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidDefaultView, d.DefaultView))
	}
	return errors.Join(errs...)
}

// Validate checks all fields, collecting every violation.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Course.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: ".",
		Course: CourseDefaults{
			License:     "private",
			DefaultView: "modules",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}
