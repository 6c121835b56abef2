// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursecart/internal/template"
)

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origDate
	})

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("dev version string = %q", got)
	}

	Version, Commit, BuildDate = "1.2.0", "abc1234", "2026-08-30"
	got := getVersionString()
	for _, want := range []string{"1.2.0", "abc1234", "2026-08-30"} {
		if !strings.Contains(got, want) {
			t.Errorf("version string %q missing %q", got, want)
		}
	}
}

func TestExitError(t *testing.T) {
	inner := errors.New("boom")
	err := &ExitError{Code: 3, Err: inner}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
	if !errors.Is(err, inner) {
		t.Error("ExitError should unwrap to the inner error")
	}

	var exitErr *ExitError
	if !errors.As(error(err), &exitErr) || exitErr.Code != 3 {
		t.Errorf("errors.As round trip failed: %v", exitErr)
	}
}

// TestStarterTemplateBuilds writes the scaffold to disk and runs it through
// the same load and build path the build command uses. The scaffold must
// produce a working package without edits.
func TestStarterTemplateBuilds(t *testing.T) {
	dir := t.TempDir()
	for _, f := range starterFiles("demo-course") {
		dest := filepath.Join(dir, filepath.FromSlash(f.path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(dest, []byte(f.content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	course, err := template.Load(dir)
	if err != nil {
		t.Fatalf("starter template failed to load: %v", err)
	}
	if course.Title != "demo-course" {
		t.Errorf("course title = %q, want %q", course.Title, "demo-course")
	}
	if len(course.Pages()) != 2 || len(course.Quizzes()) != 1 || len(course.Assignments()) != 1 {
		t.Errorf("unexpected content counts: %d pages, %d quizzes, %d assignments",
			len(course.Pages()), len(course.Quizzes()), len(course.Assignments()))
	}

	pkg, err := course.Build()
	if err != nil {
		t.Fatalf("starter template failed to build: %v", err)
	}
	var sawQuiz bool
	for _, f := range pkg.Files() {
		if strings.HasSuffix(f.Path, "/assessment_qti.xml") {
			sawQuiz = true
		}
	}
	if !sawQuiz {
		t.Error("built package missing the sample quiz")
	}
}

func TestRunInitRefusesToClobber(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "course")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "course.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	initForce = false
	t.Cleanup(func() { initForce = false })
	if err := runInitTemplate(initCmd, []string{dir}); err == nil {
		t.Error("expected an error for an existing course.json without --force")
	}
}
