// SPDX-License-Identifier: MPL-2.0

package template

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"coursecart/pkg/cartridge"
)

// packageFiles builds the fixture tree into an in-memory package file map.
func packageFiles(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	course, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	pkg, err := course.Build()
	if err != nil {
		t.Fatal(err)
	}
	files := make(map[string][]byte)
	for _, f := range pkg.Files() {
		files[f.Path] = f.Data
	}
	return files
}

func TestExtractReconstructsTree(t *testing.T) {
	files := packageFiles(t, fixtureTree(t))

	tree, warnings, err := Extract(files)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	expected := []string{
		"course.json",
		"modules.json",
		"rubrics/essay-rubric.json",
		"wiki_content/welcome.html",
		"wiki_content/week-2-notes.html",
		"quizzes/basics-quiz.json",
		"assignments/week-01-homework.json",
		"web_resources/logo.png",
	}
	for _, path := range expected {
		if _, ok := tree.File(path); !ok {
			t.Errorf("tree is missing %s", path)
		}
	}
	if len(tree.Files()) != len(expected) {
		t.Errorf("tree has %d files, want %d", len(tree.Files()), len(expected))
	}
}

func TestExtractRestoresPageLinksAndMeta(t *testing.T) {
	files := packageFiles(t, fixtureTree(t))
	tree, _, err := Extract(files)
	if err != nil {
		t.Fatal(err)
	}

	data, ok := tree.File("wiki_content/welcome.html")
	if !ok {
		t.Fatal("welcome page missing")
	}
	content := string(data)
	if !strings.HasPrefix(content, "<!-- CANVAS_META\ntitle: Welcome\nhome: true\n-->\n") {
		t.Errorf("meta header not restored:\n%s", content)
	}
	if !strings.Contains(content, `href="week-2-notes.html"`) {
		t.Errorf("page link not restored:\n%s", content)
	}
	if !strings.Contains(content, `src="../web_resources/logo.png"`) {
		t.Errorf("resource link not restored:\n%s", content)
	}
	if strings.Contains(content, "$CANVAS_OBJECT_REFERENCE$") || strings.Contains(content, "$IMS-CC-FILEBASE$") {
		t.Errorf("tokens leaked into extracted page:\n%s", content)
	}
}

func TestExtractRecordContents(t *testing.T) {
	files := packageFiles(t, fixtureTree(t))
	tree, _, err := Extract(files)
	if err != nil {
		t.Fatal(err)
	}

	var course courseRecord
	data, _ := tree.File("course.json")
	if err := json.Unmarshal(data, &course); err != nil {
		t.Fatal(err)
	}
	if course.Title != "Intro to Go" || course.CourseCode != "GO-101" {
		t.Errorf("course record = %+v", course)
	}
	if len(course.AssignmentGroups) != 1 || course.AssignmentGroups[0].Assignments[0] != "week-01-homework" {
		t.Errorf("assignment groups = %+v", course.AssignmentGroups)
	}

	var modules modulesRecord
	data, _ = tree.File("modules.json")
	if err := json.Unmarshal(data, &modules); err != nil {
		t.Fatal(err)
	}
	if len(modules.Modules) != 1 {
		t.Fatalf("modules = %+v", modules)
	}
	items := modules.Modules[0].Items
	if len(items) != 4 {
		t.Fatalf("module items = %+v", items)
	}
	wantRefs := []struct{ itemType, ref string }{
		{"page", "welcome"},
		{"page", "week-2-notes"},
		{"quiz", "basics-quiz"},
		{"assignment", "week-01-homework"},
	}
	for i, want := range wantRefs {
		if items[i].Type != want.itemType || items[i].Ref != want.ref {
			t.Errorf("item %d = %+v, want %+v", i, items[i], want)
		}
	}
	if items[1].Indent != 1 {
		t.Errorf("item 2 indent = %d, want 1", items[1].Indent)
	}

	var quiz quizRecord
	data, _ = tree.File("quizzes/basics-quiz.json")
	if err := json.Unmarshal(data, &quiz); err != nil {
		t.Fatal(err)
	}
	if quiz.Title != "Basics Quiz" || len(quiz.Questions) != 1 {
		t.Errorf("quiz record = %+v", quiz)
	}
	if quiz.Settings == nil || quiz.Settings.AllowedAttempts == nil || *quiz.Settings.AllowedAttempts != 2 {
		t.Errorf("quiz settings = %+v", quiz.Settings)
	}

	var assignment assignmentRecord
	data, _ = tree.File("assignments/week-01-homework.json")
	if err := json.Unmarshal(data, &assignment); err != nil {
		t.Fatal(err)
	}
	if assignment.Title != "Week 1 Homework" || assignment.PointsPossible != 20 {
		t.Errorf("assignment record = %+v", assignment)
	}
	if assignment.Rubric != "essay-rubric" {
		t.Errorf("assignment rubric = %q, want stem reference", assignment.Rubric)
	}
}

// Extraction output must be a fixed point: extracting, rebuilding, and
// extracting again yields the identical tree.
func TestExtractFixedPoint(t *testing.T) {
	tree1, _, err := Extract(packageFiles(t, fixtureTree(t)))
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := tree1.WriteTo(dir); err != nil {
		t.Fatal(err)
	}
	tree2, warnings, err := Extract(packageFiles(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	if len(tree1.Files()) != len(tree2.Files()) {
		t.Fatalf("trees have %d and %d files", len(tree1.Files()), len(tree2.Files()))
	}
	for _, f := range tree1.Files() {
		other, ok := tree2.File(f.Path)
		if !ok {
			t.Errorf("second tree is missing %s", f.Path)
			continue
		}
		if string(other) != string(f.Data) {
			t.Errorf("%s differs between extractions:\n first %q\nsecond %q", f.Path, f.Data, other)
		}
	}
}

func TestExtractMissingManifest(t *testing.T) {
	_, _, err := Extract(map[string][]byte{"stray.txt": []byte("x")})
	var ferr *cartridge.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if ferr.Path != cartridge.ManifestPath {
		t.Errorf("error path = %q, want %q", ferr.Path, cartridge.ManifestPath)
	}
}

func TestExtractOpaquePassThrough(t *testing.T) {
	manifest := `<?xml version="1.0" encoding="UTF-8"?>
<manifest identifier="im1" xmlns="http://www.imsglobal.org/xsd/imsccv1p1/imscp_v1p1">
  <metadata><schema>IMS Common Cartridge</schema><schemaversion>1.1.0</schemaversion></metadata>
  <organizations></organizations>
  <resources>
    <resource identifier="idisc1" type="imsdt_xmlv1p1" href="idisc1/topic.xml">
      <file href="idisc1/topic.xml"></file>
    </resource>
  </resources>
</manifest>
`
	files := map[string][]byte{
		"imsmanifest.xml":  []byte(manifest),
		"idisc1/topic.xml": []byte("<topic/>"),
		"unlisted.dat":     []byte("stray bytes"),
	}

	tree, warnings, err := Extract(files)
	if err != nil {
		t.Fatal(err)
	}

	// Both the unsupported resource and the unlisted file survive verbatim.
	for path, want := range map[string]string{
		"idisc1/topic.xml": "<topic/>",
		"unlisted.dat":     "stray bytes",
	} {
		data, ok := tree.File(path)
		if !ok {
			t.Errorf("tree is missing %s", path)
			continue
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", path, data, want)
		}
	}

	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	var sawUnsupported, sawUnlisted bool
	for _, w := range warnings {
		if strings.Contains(w.Message, "unsupported resource type") {
			sawUnsupported = true
		}
		if strings.Contains(w.Message, "not listed in the manifest") {
			sawUnlisted = true
		}
	}
	if !sawUnsupported || !sawUnlisted {
		t.Errorf("warnings missing expected categories: %v", warnings)
	}
}

// A question type outside the supported set must not abort the whole
// extraction; the quiz is carried through verbatim with a warning.
func TestExtractUnsupportedQuestionTypeCopiedThrough(t *testing.T) {
	files := packageFiles(t, fixtureTree(t))

	var qtiPath string
	for path := range files {
		if strings.HasSuffix(path, "/assessment_qti.xml") {
			qtiPath = path
		}
	}
	if qtiPath == "" {
		t.Fatal("package has no QTI file")
	}
	mutated := strings.ReplaceAll(string(files[qtiPath]), "multiple_choice_question", "hot_spot_question")
	files[qtiPath] = []byte(mutated)

	tree, warnings, err := Extract(files)
	if err != nil {
		t.Fatalf("unsupported question type should not fail extraction: %v", err)
	}

	for _, f := range tree.Files() {
		if strings.HasPrefix(f.Path, "quizzes/") {
			t.Errorf("unparsable quiz still produced a record: %s", f.Path)
		}
	}
	data, ok := tree.File(qtiPath)
	if !ok {
		t.Fatal("QTI file not carried through")
	}
	if string(data) != mutated {
		t.Error("QTI file not carried through verbatim")
	}
	metaPath := strings.TrimSuffix(qtiPath, "assessment_qti.xml") + "assessment_meta.xml"
	if _, ok := tree.File(metaPath); !ok {
		t.Error("quiz settings file not carried through")
	}

	var sawCopied bool
	for _, w := range warnings {
		if strings.Contains(w.Message, "copied through unparsed") {
			sawCopied = true
		}
	}
	if !sawCopied {
		t.Errorf("expected a copied-through warning: %v", warnings)
	}
}

func TestExtractUnresolvedLinkWarning(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"wiki_content/orphan.html": "<!-- CANVAS_META\ntitle: Orphan\n-->\n" +
			`<p><a href="missing-page.html">gone</a></p>` + "\n",
	})
	files := packageFiles(t, dir)

	tree, warnings, err := Extract(files)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if warnings[0].Path != "wiki_content/orphan.html" {
		t.Errorf("warning path = %q", warnings[0].Path)
	}

	// The token is preserved so nothing is silently dropped.
	data, _ := tree.File("wiki_content/orphan.html")
	if !strings.Contains(string(data), "$CANVAS_OBJECT_REFERENCE$/pages/missing-page") {
		t.Errorf("unresolved token not preserved:\n%s", data)
	}
}
