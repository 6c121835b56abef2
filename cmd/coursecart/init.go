// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	initForce bool

	// initCmd scaffolds a starter template directory.
	initCmd = &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a starter course template directory",
		Long: `Create a starter course template with an example page, quiz,
assignment and rubric, wired together through one module.

The generated tree builds as-is, so 'coursecart build' on it produces a
small importable package to start from.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInitTemplate,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing files")
}

func runInitTemplate(cmd *cobra.Command, args []string) error {
	dir := "my-course"
	if len(args) > 0 {
		dir = args[0]
	}

	for _, f := range starterFiles(filepath.Base(dir)) {
		dest := filepath.Join(dir, filepath.FromSlash(f.path))
		if _, err := os.Stat(dest); err == nil && !initForce {
			return fmt.Errorf("file '%s' already exists. Use --force to overwrite", dest)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(dest, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
	}

	absPath, _ := filepath.Abs(dir)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), PathStyle.Render(absPath))
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Edit the pages, quizzes and assignments")
	fmt.Printf("  2. Run 'coursecart check %s' to validate\n", dir)
	fmt.Printf("  3. Run 'coursecart build %s' to produce the package\n", dir)
	return nil
}

type starterFile struct {
	path    string
	content string
}

func starterFiles(name string) []starterFile {
	courseJSON := fmt.Sprintf(`{
  "title": %q,
  "course_code": %q,
  "license": %q,
  "default_view": %q,
  "assignment_groups": [
    {
      "title": "Assignments",
      "weight": 100,
      "assignments": ["first-essay"]
    }
  ]
}
`, name, name, cfg.Course.License, cfg.Course.DefaultView)

	return []starterFile{
		{"course.json", courseJSON},
		{"modules.json", `{
  "modules": [
    {
      "title": "Week 1",
      "items": [
        {"type": "page", "ref": "welcome"},
        {"type": "page", "ref": "syllabus", "indent": 1},
        {"type": "quiz", "ref": "sample-quiz", "indent": 1},
        {"type": "assignment", "ref": "first-essay", "indent": 1}
      ]
    }
  ]
}
`},
		{"wiki_content/welcome.html", `<!-- CANVAS_META
title: Welcome
home: true
-->
<h1>Welcome</h1>
<p>Start here. Read the <a href="syllabus.html">syllabus</a> first,
then take the quiz. <img src="../web_resources/logo.svg" alt="logo"></p>
`},
		{"wiki_content/syllabus.html", `<!-- CANVAS_META
title: Syllabus
-->
<h1>Syllabus</h1>
<p>Week 1 covers the basics. Grading is points-based; see the
<a href="welcome.html">welcome page</a> for how to get started.</p>
`},
		{"quizzes/sample-quiz.json", `{
  "title": "Sample Quiz",
  "description": "<p>A short check of the basics.</p>",
  "questions": [
    {
      "type": "multiple_choice",
      "text": "<p>Which view shows the module list?</p>",
      "points_possible": 1,
      "answers": [
        {"text": "Modules", "correct": true},
        {"text": "Syllabus"},
        {"text": "Feed"}
      ]
    },
    {
      "type": "true_false",
      "text": "<p>Pages are written in HTML.</p>",
      "points_possible": 1,
      "answers": [
        {"text": "True", "correct": true},
        {"text": "False"}
      ]
    }
  ]
}
`},
		{"assignments/first-essay.json", `{
  "title": "First Essay",
  "description": "<p>Write 500 words about your goals for this course.</p>",
  "points_possible": 20,
  "submission_types": ["online_text_entry", "online_upload"],
  "allowed_extensions": ["pdf", "docx"],
  "grading_type": "points",
  "rubric": "essay-rubric"
}
`},
		{"rubrics/essay-rubric.json", `{
  "title": "Essay Rubric",
  "criteria": [
    {
      "description": "Clarity",
      "points": 10,
      "ratings": [
        {"description": "Clear throughout", "points": 10},
        {"description": "Mostly clear", "points": 6},
        {"description": "Hard to follow", "points": 2}
      ]
    },
    {
      "description": "Depth",
      "points": 10,
      "ratings": [
        {"description": "Thoughtful and specific", "points": 10},
        {"description": "General but relevant", "points": 6},
        {"description": "Superficial", "points": 2}
      ]
    }
  ]
}
`},
		{"web_resources/logo.svg", `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64">
  <circle cx="32" cy="32" r="28" fill="#7C3AED"/>
</svg>
`},
	}
}
