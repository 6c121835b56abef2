// SPDX-License-Identifier: MPL-2.0

package template

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursecart/pkg/cartridge"
)

// writeTree materializes a template tree under a fresh temp directory.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		dest := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// fixtureTree is a small but complete template exercising every record kind.
func fixtureTree(t *testing.T) string {
	t.Helper()
	return writeTree(t, map[string]string{
		"course.json": `{
  "title": "Intro to Go",
  "course_code": "GO-101",
  "license": "private",
  "default_view": "modules",
  "assignment_groups": [
    {"title": "Homework", "weight": 40, "assignments": ["week-01-homework"]}
  ]
}
`,
		"modules.json": `{
  "modules": [
    {
      "title": "Week 1",
      "items": [
        {"type": "page", "ref": "welcome"},
        {"type": "page", "ref": "week-2-notes", "indent": 1},
        {"type": "quiz", "ref": "basics-quiz"},
        {"type": "assignment", "ref": "week-01-homework"}
      ]
    }
  ]
}
`,
		"wiki_content/welcome.html": "<!-- CANVAS_META\n" +
			"title: Welcome\n" +
			"home: true\n" +
			"-->\n" +
			`<p>See <a href="week-2-notes.html">notes</a> and <img src="../web_resources/logo.png">.</p>` + "\n",
		"wiki_content/week-2-notes.html": "<!-- CANVAS_META\n" +
			"title: Week 2 Notes\n" +
			"-->\n" +
			"<p>Pointers.</p>\n",
		"quizzes/basics-quiz.json": `{
  "title": "Basics Quiz",
  "description": "<p>Warm up.</p>",
  "settings": {"allowed_attempts": 2},
  "questions": [
    {
      "type": "multiple_choice",
      "text": "<p>Pick one.</p>",
      "points_possible": 1,
      "answers": [
        {"text": "Right", "correct": true},
        {"text": "Wrong"}
      ]
    }
  ]
}
`,
		"assignments/week-01-homework.json": `{
  "title": "Week 1 Homework",
  "description": "<p>Do the exercises.</p>",
  "points_possible": 20,
  "rubric": "essay-rubric"
}
`,
		"rubrics/essay-rubric.json": `{
  "title": "Essay Rubric",
  "criteria": [
    {"description": "Clarity", "points": 10}
  ]
}
`,
		"web_resources/logo.png": "\x89PNG",
	})
}

func TestLoadFixtureTree(t *testing.T) {
	course, err := Load(fixtureTree(t))
	if err != nil {
		t.Fatal(err)
	}

	if course.Title != "Intro to Go" || course.CourseCode != "GO-101" {
		t.Errorf("course = %q / %q", course.Title, course.CourseCode)
	}
	if len(course.Pages()) != 2 {
		t.Fatalf("loaded %d pages, want 2", len(course.Pages()))
	}
	if len(course.Quizzes()) != 1 || len(course.Assignments()) != 1 {
		t.Fatalf("quizzes/assignments = %d/%d", len(course.Quizzes()), len(course.Assignments()))
	}
	if len(course.Rubrics()) != 1 || len(course.AssignmentGroups()) != 1 {
		t.Fatalf("rubrics/groups = %d/%d", len(course.Rubrics()), len(course.AssignmentGroups()))
	}
	if len(course.Resources()) != 1 {
		t.Fatalf("loaded %d resources, want 1", len(course.Resources()))
	}

	quiz := course.Quizzes()[0]
	if quiz.Settings.AllowedAttempts != 2 {
		t.Errorf("allowed attempts = %d, want 2 (record overlay)", quiz.Settings.AllowedAttempts)
	}
	if quiz.Settings.ScoringPolicy != "keep_highest" {
		t.Errorf("scoring policy = %q, want default kept", quiz.Settings.ScoringPolicy)
	}

	assignment := course.Assignments()[0]
	if assignment.Identifier != "week-01-homework" {
		t.Errorf("assignment identifier = %q, want derived slug", assignment.Identifier)
	}
	if assignment.RubricRef != course.Rubrics()[0].Identifier {
		t.Errorf("rubric ref = %q", assignment.RubricRef)
	}
	if assignment.GroupRef != course.AssignmentGroups()[0].Identifier {
		t.Errorf("group ref = %q", assignment.GroupRef)
	}

	// The whole tree must also assemble.
	if _, err := course.Build(); err != nil {
		t.Fatalf("build after load: %v", err)
	}
}

func TestLoadBareTreeOfPages(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"wiki_content/lesson-1.html": "<p>x</p>\n",
	})
	course, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if course.Title != filepath.Base(dir) {
		t.Errorf("title = %q, want directory name", course.Title)
	}
	if len(course.Pages()) != 1 {
		t.Fatalf("loaded %d pages", len(course.Pages()))
	}
	if got := course.Pages()[0].Title; got != "Lesson 1" {
		t.Errorf("humanized title = %q, want %q", got, "Lesson 1")
	}
}

func TestLoadBatchesSchemaViolations(t *testing.T) {
	dir := writeTree(t, map[string]string{
		// Unknown key.
		"course.json": `{"title": "X", "colour": "red"}`,
		// Missing required title and bogus question type.
		"quizzes/bad.json": `{
  "questions": [{"type": "mind_reading", "text": "?", "points_possible": 1}]
}`,
		// Valid record referencing a missing rubric.
		"assignments/essay.json": `{"title": "Essay", "rubric": "ghost"}`,
	})

	_, err := Load(dir)
	var verr *cartridge.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) < 3 {
		t.Fatalf("got %d issues, want at least 3: %v", len(verr.Issues), verr)
	}

	msg := verr.Error()
	for _, fragment := range []string{"course.json", "quizzes/bad.json", "assignments/essay.json"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("error does not mention %s: %s", fragment, msg)
		}
	}
}

func TestLoadReportsUnresolvedModuleRefsAtBuild(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"modules.json": `{
  "modules": [
    {"title": "W1", "items": [
      {"type": "page", "ref": "ghost-page"},
      {"type": "quiz", "ref": "ghost-quiz"}
    ]}
  ]
}
`,
	})

	// Loading succeeds; the dangling refs surface together at build time.
	course, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	_, err = course.Build()
	var verr *cartridge.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Fatalf("got %d issues, want 2: %v", len(verr.Issues), verr)
	}
	for _, ref := range []string{"ghost-page", "ghost-quiz"} {
		if !strings.Contains(verr.Error(), ref) {
			t.Errorf("error does not mention %q", ref)
		}
	}
}

func TestLoadDuplicateAssignmentStems(t *testing.T) {
	dir := writeTree(t, map[string]string{
		// Both stems normalize to the same derived identifier once loaded
		// against a page with the same slug.
		"assignments/essay-1.json": `{"title": "Essay"}`,
		"wiki_content/essay-1.html": "<!-- CANVAS_META\ntitle: Essay 1\n-->\n" +
			"<p>page body</p>\n",
	})

	// A page and an assignment may share a stem: pages mint identifiers,
	// assignments derive them, and the derived slug is still free.
	course, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(course.Assignments()) != 1 {
		t.Fatalf("loaded %d assignments", len(course.Assignments()))
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	course, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if len(course.Pages()) != 0 {
		t.Error("expected an empty course for a missing directory")
	}
}
