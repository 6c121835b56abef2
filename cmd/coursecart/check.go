// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursecart/internal/template"
)

// checkCmd validates a template directory without producing a package.
var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Validate a template directory without building it",
	Long: `Validate a template directory and report every problem found.

All checks run even after the first failure, so one pass surfaces the
complete list of malformed records, broken references and invalid
questions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	course, err := template.Load(dir)
	if err != nil {
		return reportCourseError(err)
	}
	if err := course.Validate(); err != nil {
		return reportCourseError(err)
	}

	fmt.Printf("%s %s is valid (%d pages, %d quizzes, %d assignments, %d modules)\n",
		SuccessStyle.Render("✓"), PathStyle.Render(dir),
		len(course.Pages()), len(course.Quizzes()), len(course.Assignments()), len(course.Modules()))
	return nil
}
