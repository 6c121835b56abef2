// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"coursecart/internal/archive"
	"coursecart/internal/slug"
	"coursecart/internal/template"
	"coursecart/pkg/cartridge"
)

var (
	buildOutput string

	// buildCmd packages a template directory into an importable cartridge.
	buildCmd = &cobra.Command{
		Use:   "build [dir]",
		Short: "Package a template directory into a .imscc cartridge",
		Long: `Package a template directory into an importable Common Cartridge.

The directory is validated first; any broken reference, malformed record
or invalid question aborts the build with the full list of problems, and
no partial archive is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}
)

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output path for the package (default <course-slug>.imscc)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	course, err := template.Load(dir)
	if err != nil {
		return reportCourseError(err)
	}
	pkg, err := course.Build()
	if err != nil {
		return reportCourseError(err)
	}

	out := buildOutput
	if out == "" {
		out = filepath.Join(cfg.OutputDir, slug.Make(course.Title)+".imscc")
	}
	if err := archive.Write(out, pkg.Files()); err != nil {
		return err
	}

	if verbose {
		for _, f := range pkg.Files() {
			fmt.Printf("  %s\n", PathStyle.Render(f.Path))
		}
	}
	fmt.Printf("%s Packaged %d files into %s\n",
		SuccessStyle.Render("✓"), len(pkg.Files()), PathStyle.Render(out))
	return nil
}

// reportCourseError prints validation issues one per line and converts the
// failure into a quiet non-zero exit; other errors pass through.
func reportCourseError(err error) error {
	var verr *cartridge.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	fmt.Println(ErrorStyle.Render("Validation failed:"))
	for _, issue := range verr.Issues {
		fmt.Printf("  %s\n", issue.Error())
	}
	return &ExitError{Code: 1, Err: err}
}
