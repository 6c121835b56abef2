// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for coursecart.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"coursecart/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfg is the loaded configuration, available to all commands.
	cfg = config.DefaultConfig()

	// logger carries non-fatal diagnostics (unresolved links, opaque
	// pass-throughs) to stderr without interrupting command output.
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "coursecart",
	})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "coursecart",
		Short: "Build and unpack Canvas course packages from plain files",
		Long: TitleStyle.Render("coursecart") + SubtitleStyle.Render(" - Build and unpack Canvas course packages from plain files") + `

coursecart turns a directory of editable files (HTML pages, JSON quiz
and assignment records, static resources) into an importable Common
Cartridge package, and turns existing packages back into that editable
form.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'coursecart init my-course' to scaffold a template
  2. Edit the pages, quizzes and assignments
  3. Run 'coursecart build my-course' to produce the .imscc package

` + SubtitleStyle.Render("Examples:") + `
  coursecart build my-course          Package a template directory
  coursecart check my-course          Validate without writing anything
  coursecart extract course.imscc     Unpack a package for editing`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/coursecart/config.toml)")

	// Add subcommands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(initCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in the config file if one exists.
func initRootConfig() {
	var (
		loaded *config.Config
		err    error
	)
	if cfgFile != "" {
		loaded, err = config.LoadFrom(cfgFile)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		logger.Warn("configuration not loaded, using defaults", "error", err)
		return
	}
	cfg = loaded
	if cfg.UI.Verbose {
		verbose = true
	}
}
