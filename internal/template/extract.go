// SPDX-License-Identifier: MPL-2.0

package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"coursecart/internal/links"
	"coursecart/internal/slug"
	"coursecart/pkg/cartridge"
)

// Tree is the staged editable file tree produced by Extract. Like the build
// side, nothing touches disk until the caller commits the whole tree.
type Tree struct {
	files []cartridge.File
	index map[string]int
}

func newTree() *Tree {
	return &Tree{index: make(map[string]int)}
}

// Add stages content at a tree-relative path, replacing any previous entry.
func (t *Tree) Add(path string, data []byte) {
	if i, exists := t.index[path]; exists {
		t.files[i].Data = data
		return
	}
	t.index[path] = len(t.files)
	t.files = append(t.files, cartridge.File{Path: path, Data: data})
}

// Files returns the staged files in emission order.
func (t *Tree) Files() []cartridge.File {
	return t.files
}

// File returns the staged content at path.
func (t *Tree) File(path string) ([]byte, bool) {
	i, ok := t.index[path]
	if !ok {
		return nil, false
	}
	return t.files[i].Data, true
}

// WriteTo commits the staged tree under dir, creating directories as needed.
func (t *Tree) WriteTo(dir string) error {
	for _, f := range t.files {
		dest := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(dest, f.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
	}
	return nil
}

// Warning flags a non-fatal extraction problem: an unsupported resource
// copied through opaquely, or a link token that could not be resolved.
type Warning struct {
	Path    string
	Message string
}

// String renders the warning for display.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

// extractor carries the per-invocation state of one Extract call.
type extractor struct {
	files    map[string][]byte
	tree     *Tree
	warnings []Warning
	claimed  map[string]bool

	linkCtx links.ImportContext
	// refStems maps registry identifiers to template record stems for
	// module reconstruction.
	refStems map[string]string
	// refTypes maps registry identifiers to module item type strings.
	refTypes map[string]string
	// rubricStems maps rubric identifiers to their record stems.
	rubricStems map[string]string
	usedStems   map[string]bool
}

// Extract parses a package's files back into an editable template tree.
// The manifest must parse (FormatError otherwise); everything past that is
// tolerant: unsupported resources and unresolvable references are carried
// through with warnings rather than failing the extraction.
func Extract(files map[string][]byte) (*Tree, []Warning, error) {
	manifestData, ok := files[cartridge.ManifestPath]
	if !ok {
		return nil, nil, &cartridge.FormatError{
			Path: cartridge.ManifestPath,
			Err:  fmt.Errorf("file missing from package"),
		}
	}
	manifest, err := cartridge.ParseManifest(manifestData)
	if err != nil {
		return nil, nil, err
	}

	ex := &extractor{
		files:   files,
		tree:    newTree(),
		claimed: map[string]bool{cartridge.ManifestPath: true},
		linkCtx: links.ImportContext{
			PageStems: make(map[string]string),
			PageIDs:   make(map[string]string),
		},
		refStems:    make(map[string]string),
		refTypes:    make(map[string]string),
		rubricStems: make(map[string]string),
		usedStems:   make(map[string]bool),
	}

	pages := ex.collectPages(manifest)
	ex.emitCourseRecords(manifest)
	ex.emitPages(pages)
	ex.emitQuizzes(manifest)
	ex.emitAssignments(manifest)
	ex.emitResources(manifest)
	ex.emitModules()
	ex.emitOpaque()

	return ex.tree, ex.warnings, nil
}

func (ex *extractor) warn(path, format string, args ...any) {
	ex.warnings = append(ex.warnings, Warning{Path: path, Message: fmt.Sprintf(format, args...)})
}

// uniqueStem reserves a record stem, suffixing with the identifier when two
// entities share a slugified title.
func (ex *extractor) uniqueStem(base, identifier string) string {
	if base == "" {
		base = identifier
	}
	if !ex.usedStems[base] {
		ex.usedStems[base] = true
		return base
	}
	stem := base + "-" + identifier
	ex.usedStems[stem] = true
	return stem
}

type extractedPage struct {
	stem   string
	record *cartridge.PageRecord
}

// collectPages parses every page resource first so the link rewriter's
// resolution tables cover all pages before any body is rewritten.
func (ex *extractor) collectPages(manifest *cartridge.Manifest) []extractedPage {
	var pages []extractedPage
	for _, res := range manifest.Resources {
		if res.Type != cartridge.TypeWebContent || !strings.HasPrefix(res.Href, "wiki_content/") {
			continue
		}
		ex.claim(res)
		data, ok := ex.files[res.Href]
		if !ok {
			ex.warn(res.Href, "page listed in manifest but missing from package")
			continue
		}
		record, err := cartridge.ParsePageHTML(res.Href, data)
		if err != nil {
			ex.warn(res.Href, "page could not be parsed: %v", err)
			ex.tree.Add(res.Href, data)
			continue
		}
		stem := slug.Stem(strings.TrimPrefix(res.Href, "wiki_content/"))
		pages = append(pages, extractedPage{stem: stem, record: record})
		ex.linkCtx.PageStems[slug.Make(stem)] = stem
		ex.linkCtx.PageIDs[res.Identifier] = stem
		ex.refStems[res.Identifier] = stem
		ex.refTypes[res.Identifier] = "page"
		ex.usedStems[stem] = true
	}
	return pages
}

func (ex *extractor) emitPages(pages []extractedPage) {
	for _, p := range pages {
		body, linkWarnings := links.Import(p.record.Body, ex.linkCtx)
		for _, w := range linkWarnings {
			ex.warn("wiki_content/"+p.stem+".html", "unresolved link %s", w.String())
		}
		meta := pageMeta{
			Title:         p.record.Title,
			FrontPage:     p.record.FrontPage,
			WorkflowState: p.record.WorkflowState,
			EditingRoles:  p.record.EditingRoles,
		}
		content := renderMeta(meta, body+"\n")
		ex.tree.Add("wiki_content/"+p.stem+".html", []byte(content))
	}
}

// emitCourseRecords recovers course.json and the rubric records from the
// course_settings fragments. A fragment that fails to parse is carried
// through verbatim with a warning and its record fields stay at defaults.
func (ex *extractor) emitCourseRecords(manifest *cartridge.Manifest) {
	for _, res := range manifest.Resources {
		if res.Href == "course_settings/canvas_export.txt" {
			ex.claim(res)
		}
	}
	for path := range ex.files {
		if strings.HasPrefix(path, "course_settings/") {
			ex.claimed[path] = true
		}
	}

	record := courseRecord{}
	if data, ok := ex.files["course_settings/course_settings.xml"]; ok {
		settings, err := cartridge.ParseCourseSettings(data)
		if err != nil {
			ex.warn("course_settings/course_settings.xml", "could not be parsed: %v; copied through unparsed", err)
			ex.tree.Add("course_settings/course_settings.xml", data)
		} else {
			record.Title = settings.Title
			record.CourseCode = settings.CourseCode
			record.License = settings.License
			record.DefaultView = settings.DefaultView
			record.IsPublic = settings.IsPublic
		}
	}

	if data, ok := ex.files["course_settings/rubrics.xml"]; ok {
		rubrics, err := cartridge.ParseRubrics(data)
		if err != nil {
			ex.warn("course_settings/rubrics.xml", "could not be parsed: %v; copied through unparsed", err)
			ex.tree.Add("course_settings/rubrics.xml", data)
		}
		for _, r := range rubrics {
			stem := ex.uniqueStem(slug.Make(r.Title), r.Identifier)
			ex.rubricStems[r.Identifier] = stem
			ex.addJSON("rubrics/"+stem+".json", rubricRecord{Title: r.Title, Criteria: r.Criteria})
		}
	}

	if data, ok := ex.files["course_settings/assignment_groups.xml"]; ok {
		groups, err := cartridge.ParseAssignmentGroups(data)
		if err != nil {
			ex.warn("course_settings/assignment_groups.xml", "could not be parsed: %v; copied through unparsed", err)
			ex.tree.Add("course_settings/assignment_groups.xml", data)
		}
		for _, g := range groups {
			// Assignment identifiers are derived slugs, so they double as
			// record stems without translation.
			record.AssignmentGroups = append(record.AssignmentGroups, groupRecord{
				Title:       g.Title,
				Weight:      g.Weight,
				Assignments: g.Assignments,
			})
		}
	}

	if record.Title == "" {
		record.Title = "Extracted Course"
	}
	ex.addJSON("course.json", record)
}

func (ex *extractor) emitQuizzes(manifest *cartridge.Manifest) {
	metaResources := make(map[string]cartridge.ManifestResource)
	for _, res := range manifest.Resources {
		if res.Type == cartridge.TypeAppResource {
			metaResources[res.Identifier] = res
		}
	}

	for _, res := range manifest.Resources {
		if res.Type != cartridge.TypeAssessment {
			continue
		}
		ex.claim(res)

		var metaRes cartridge.ManifestResource
		metaPath := res.Identifier + "/assessment_meta.xml"
		for _, dep := range res.Dependencies {
			if mr, ok := metaResources[dep]; ok && mr.Href != "" {
				metaRes = mr
				metaPath = mr.Href
				ex.claim(mr)
			}
		}
		qtiPath := res.Identifier + "/assessment_qti.xml"
		if len(res.Files) > 0 {
			qtiPath = res.Files[0]
		}

		metaData, haveMeta := ex.files[metaPath]
		qtiData, haveQTI := ex.files[qtiPath]
		if !haveMeta || !haveQTI {
			ex.warn(res.Identifier, "quiz is missing %s or %s; copied through unparsed", metaPath, qtiPath)
			ex.copyResourceFiles(res)
			ex.copyResourceFiles(metaRes)
			continue
		}

		record, err := cartridge.ParseAssessmentMeta(metaPath, metaData)
		if err != nil {
			ex.warn(res.Identifier, "quiz settings could not be parsed: %v; copied through unparsed", err)
			ex.copyResourceFiles(res)
			ex.copyResourceFiles(metaRes)
			continue
		}
		questions, err := cartridge.ParseQTI(qtiPath, qtiData)
		if err != nil {
			ex.warn(res.Identifier, "quiz questions could not be parsed: %v; copied through unparsed", err)
			ex.copyResourceFiles(res)
			ex.copyResourceFiles(metaRes)
			continue
		}

		stem := ex.uniqueStem(slug.Make(record.Title), res.Identifier)
		ex.refStems[res.Identifier] = stem
		ex.refTypes[res.Identifier] = "quiz"
		ex.addJSON("quizzes/"+stem+".json", quizRecord{
			Title:       record.Title,
			Description: record.Description,
			Settings:    settingsRecordFrom(record.Settings),
			Questions:   questions,
		})
	}
}

func (ex *extractor) emitAssignments(manifest *cartridge.Manifest) {
	for _, res := range manifest.Resources {
		if res.Type != cartridge.TypeAppResource || !strings.HasSuffix(res.Href, "/assignment.html") {
			continue
		}
		ex.claim(res)

		settingsPath := strings.TrimSuffix(res.Href, "assignment.html") + "assignment_settings.xml"
		settingsData, haveSettings := ex.files[settingsPath]
		htmlData, haveHTML := ex.files[res.Href]
		if !haveSettings || !haveHTML {
			ex.warn(res.Identifier, "assignment is missing its settings or description; copied through unparsed")
			ex.copyResourceFiles(res)
			continue
		}

		record, err := cartridge.ParseAssignmentSettings(settingsPath, settingsData)
		if err != nil {
			ex.warn(res.Identifier, "assignment settings could not be parsed: %v; copied through unparsed", err)
			ex.copyResourceFiles(res)
			continue
		}
		page, err := cartridge.ParsePageHTML(res.Href, htmlData)
		if err != nil {
			ex.warn(res.Identifier, "assignment description could not be parsed: %v; copied through unparsed", err)
			ex.copyResourceFiles(res)
			continue
		}
		description, linkWarnings := links.Import(page.Body, ex.linkCtx)
		for _, w := range linkWarnings {
			ex.warn(res.Href, "unresolved link %s", w.String())
		}

		out := assignmentRecord{
			Title:             record.Title,
			Description:       description,
			PointsPossible:    record.PointsPossible,
			SubmissionTypes:   record.SubmissionTypes,
			AllowedExtensions: record.AllowedExtensions,
			GradingType:       record.GradingType,
		}
		if record.RubricRef != "" {
			stem, ok := ex.rubricStems[record.RubricRef]
			if !ok {
				ex.warn(res.Identifier, "assignment references unknown rubric %q", record.RubricRef)
			} else {
				out.Rubric = stem
			}
		}

		stem := record.Identifier
		if stem == "" {
			stem = res.Identifier
		}
		ex.refStems[res.Identifier] = stem
		ex.refTypes[res.Identifier] = "assignment"
		ex.usedStems[stem] = true
		ex.addJSON("assignments/"+stem+".json", out)
	}
}

func (ex *extractor) emitResources(manifest *cartridge.Manifest) {
	for _, res := range manifest.Resources {
		switch {
		case res.Type == cartridge.TypeWebContent && strings.HasPrefix(res.Href, "web_resources/"):
			ex.claim(res)
			ex.copyResourceFiles(res)
		case res.Type == cartridge.TypeWebContent && strings.HasPrefix(res.Href, "wiki_content/"),
			res.Type == cartridge.TypeAssessment:
			// Handled by the dedicated passes above.
		case res.Type == cartridge.TypeAppResource:
			// Settings bundles, quiz companions and assignments were
			// claimed by their passes; anything else passes through.
			if !ex.claimed[res.Href] {
				ex.claim(res)
				ex.copyResourceFiles(res)
				ex.warn(res.Identifier, "unsupported resource type %q copied through without reconstruction", res.Type)
			}
		default:
			// Outside the supported subset: opaque pass-through, never a
			// failure.
			ex.claim(res)
			ex.copyResourceFiles(res)
			ex.warn(res.Identifier, "unsupported resource type %q copied through without reconstruction", res.Type)
		}
	}
}

func (ex *extractor) emitModules() {
	data, ok := ex.files["course_settings/module_meta.xml"]
	if !ok {
		return
	}
	modules, err := cartridge.ParseModuleMeta(data)
	if err != nil {
		ex.warn("course_settings/module_meta.xml", "module organization could not be parsed: %v", err)
		return
	}

	record := modulesRecord{}
	for _, m := range modules {
		out := moduleRecord{Title: m.Title}
		for _, item := range m.Items {
			ref, ok := ex.refStems[item.IdentifierRef]
			itemType := ex.refTypes[item.IdentifierRef]
			if !ok {
				ref = item.IdentifierRef
				itemType = itemTypeFromContentType(item.ContentType)
				ex.warn("modules.json", "module %q item %q references %q which was not extracted", m.Title, item.Title, item.IdentifierRef)
			}
			out.Items = append(out.Items, moduleItemRecord{
				Type:   itemType,
				Ref:    ref,
				Title:  item.Title,
				Indent: item.Indent,
			})
		}
		record.Modules = append(record.Modules, out)
	}
	ex.addJSON("modules.json", record)
}

// emitOpaque copies through files the manifest never claimed so no bytes are
// silently dropped.
func (ex *extractor) emitOpaque() {
	paths := maps.Keys(ex.files)
	slices.Sort(paths)
	for _, path := range paths {
		if ex.claimed[path] {
			continue
		}
		ex.tree.Add(path, ex.files[path])
		ex.warn(path, "file is not listed in the manifest; copied through as-is")
	}
}

func (ex *extractor) claim(res cartridge.ManifestResource) {
	if res.Href != "" {
		ex.claimed[res.Href] = true
	}
	for _, f := range res.Files {
		ex.claimed[f] = true
	}
}

func (ex *extractor) copyResourceFiles(res cartridge.ManifestResource) {
	seen := make(map[string]bool)
	for _, path := range append([]string{res.Href}, res.Files...) {
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		if data, ok := ex.files[path]; ok {
			ex.tree.Add(path, data)
		}
	}
}

func (ex *extractor) addJSON(path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// All record types marshal cleanly; reaching this is a programming
		// error in the record definitions.
		panic(fmt.Sprintf("marshal %s: %v", path, err))
	}
	ex.tree.Add(path, append(data, '\n'))
}

func itemTypeFromContentType(contentType string) string {
	switch contentType {
	case cartridge.ContentQuiz:
		return "quiz"
	case cartridge.ContentAssignment:
		return "assignment"
	default:
		return "page"
	}
}
