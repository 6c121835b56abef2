// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestConfigDirOverride(t *testing.T) {
	t.Cleanup(Reset)
	dir := t.TempDir()
	SetConfigDirOverride(dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want override %q", got, dir)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(Reset)
	SetConfigDirOverride(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	if cfg.OutputDir != want.OutputDir || cfg.Course != want.Course || cfg.UI != want.UI {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFromOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `output_dir = "dist"

[course]
license = "cc_by"

[ui]
verbose = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != "dist" {
		t.Errorf("output_dir = %q, want %q", cfg.OutputDir, "dist")
	}
	if cfg.Course.License != "cc_by" {
		t.Errorf("license = %q, want %q", cfg.Course.License, "cc_by")
	}
	// Unset fields keep their defaults.
	if cfg.Course.DefaultView != "modules" {
		t.Errorf("default_view = %q, want default kept", cfg.Course.DefaultView)
	}
	if !cfg.UI.Verbose {
		t.Error("verbose flag lost")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("color_scheme = %q, want default kept", cfg.UI.ColorScheme)
	}
}

func TestLoadFromRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		sentinel error
	}{
		{
			name:     "bad license",
			content:  "[course]\nlicense = \"all_rights_reserved\"\n",
			sentinel: ErrInvalidLicense,
		},
		{
			name:     "bad default view",
			content:  "[course]\ndefault_view = \"dashboard\"\n",
			sentinel: ErrInvalidDefaultView,
		},
		{
			name:     "bad color scheme",
			content:  "[ui]\ncolor_scheme = \"solarized\"\n",
			sentinel: ErrInvalidColorScheme,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			var cerr *InvalidConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected InvalidConfigError, got %v", err)
			}
			if !errors.Is(errors.Join(cerr.FieldErrors...), tt.sentinel) {
				t.Errorf("field errors missing %v: %v", tt.sentinel, cerr.FieldErrors)
			}
		})
	}
}

func TestLoadFromRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("output_dir = [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("malformed TOML should fail to load")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Cleanup(Reset)
	SetConfigDirOverride(t.TempDir())

	cfg := DefaultConfig()
	cfg.OutputDir = "out"
	cfg.Course.License = "cc_by_sa"
	cfg.UI.ColorScheme = ColorSchemeDark

	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.OutputDir != "out" || loaded.Course.License != "cc_by_sa" || loaded.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	t.Cleanup(Reset)
	SetConfigDirOverride(t.TempDir())

	cfg := DefaultConfig()
	cfg.UI.ColorScheme = "neon"
	if err := Save(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected InvalidConfigError, got %v", err)
	}
}
