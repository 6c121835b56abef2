// SPDX-License-Identifier: MPL-2.0

package cartridge

import (
	"fmt"

	"coursecart/internal/links"
)

// File is one staged output file with its package-relative path.
type File struct {
	Path string
	Data []byte
}

// Package is the staged file set produced by Build. Nothing is written to
// disk here; the caller commits the whole set atomically through an archive
// writer.
type Package struct {
	files []File
	index map[string]int
}

func newPackage() *Package {
	return &Package{index: make(map[string]int)}
}

func (p *Package) add(path string, data []byte) {
	if i, exists := p.index[path]; exists {
		p.files[i].Data = data
		return
	}
	p.index[path] = len(p.files)
	p.files = append(p.files, File{Path: path, Data: data})
}

// Files returns the staged files in emission order.
func (p *Package) Files() []File {
	return p.files
}

// File returns the staged content at path.
func (p *Package) File(path string) ([]byte, bool) {
	i, ok := p.index[path]
	if !ok {
		return nil, false
	}
	return p.files[i].Data, true
}

// Build walks the entity graph into a staged package. Pass one validates
// every cross-reference and question payload, collecting all issues; any
// issue fails the build with ValidationError and nothing is emitted. Pass
// two renders the manifest, settings fragments, pages (through the
// export-direction link rewriter), quizzes, assignments, and raw resources,
// all in entity insertion order.
func (c *Course) Build() (*Package, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	pkg := newPackage()

	manifest, err := c.buildManifest()
	if err != nil {
		return nil, err
	}
	pkg.add(ManifestPath, manifest)

	settings, err := c.buildCourseSettings()
	if err != nil {
		return nil, err
	}
	pkg.add("course_settings/course_settings.xml", settings)

	contextDoc, err := buildContext()
	if err != nil {
		return nil, err
	}
	pkg.add("course_settings/context.xml", contextDoc)
	pkg.add("course_settings/canvas_export.txt", []byte("course export package\n"))

	if len(c.Modules()) > 0 {
		meta, err := c.buildModuleMeta()
		if err != nil {
			return nil, err
		}
		pkg.add("course_settings/module_meta.xml", meta)
	}
	if len(c.AssignmentGroups()) > 0 {
		groups, err := c.buildAssignmentGroups()
		if err != nil {
			return nil, err
		}
		pkg.add("course_settings/assignment_groups.xml", groups)
	}
	if len(c.Rubrics()) > 0 {
		rubrics, err := c.buildRubrics()
		if err != nil {
			return nil, err
		}
		pkg.add("course_settings/rubrics.xml", rubrics)
	}

	for _, p := range c.Pages() {
		body := links.Export(p.Body)
		pkg.add("wiki_content/"+p.Filename+".html", buildPageHTML(p, body))
	}

	for _, q := range c.Quizzes() {
		meta, err := buildAssessmentMeta(q)
		if err != nil {
			return nil, err
		}
		qti, err := buildQTI(q)
		if err != nil {
			return nil, err
		}
		pkg.add(q.Identifier+"/assessment_meta.xml", meta)
		pkg.add(q.Identifier+"/assessment_qti.xml", qti)
		pkg.add("non_cc_assessments/"+q.Identifier+".xml.qti", qti)
	}

	for _, a := range c.Assignments() {
		settings, err := buildAssignmentSettings(a)
		if err != nil {
			return nil, err
		}
		pkg.add(a.Identifier+"/assignment.html", buildAssignmentHTML(a))
		pkg.add(a.Identifier+"/assignment_settings.xml", settings)
	}

	for _, res := range c.Resources() {
		pkg.add("web_resources/"+res.Path, res.Data)
	}

	return pkg, nil
}

// Validate runs the batch validation pass alone: every module item
// reference, every assignment's rubric and group reference, and every
// question payload is checked, and all problems are reported together.
func (c *Course) Validate() error {
	verr := &ValidationError{}

	// Page filenames default to slugified titles, so distinct titles can
	// still collide on one staged path.
	pageFilenames := make(map[string]string)
	for _, p := range c.Pages() {
		if prev, dup := pageFilenames[p.Filename]; dup {
			verr.Add("page", fmt.Sprintf("page %q", p.Title),
				fmt.Sprintf("filename %q collides with page %q", p.Filename, prev))
			continue
		}
		pageFilenames[p.Filename] = p.Title
	}

	for _, m := range c.Modules() {
		for i, item := range m.Items() {
			if !c.registry.Has(item.IdentifierRef) {
				verr.Add("reference",
					fmt.Sprintf("module %q item %d", m.Title, i+1),
					fmt.Sprintf("identifierref %q does not resolve", item.IdentifierRef))
			}
		}
	}

	for _, a := range c.Assignments() {
		if a.RubricRef != "" && !c.registry.Has(a.RubricRef) {
			verr.Add("reference", fmt.Sprintf("assignment %q", a.Identifier),
				fmt.Sprintf("rubric reference %q does not resolve", a.RubricRef))
		}
		if a.GroupRef != "" && !c.registry.Has(a.GroupRef) {
			verr.Add("reference", fmt.Sprintf("assignment %q", a.Identifier),
				fmt.Sprintf("assignment group reference %q does not resolve", a.GroupRef))
		}
	}

	for _, q := range c.Quizzes() {
		for i, question := range q.Questions() {
			path := fmt.Sprintf("quiz %q question %d", q.Title, i+1)
			for _, msg := range validateQuestion(question) {
				verr.Add("question", path, msg)
			}
		}
	}

	if verr.HasIssues() {
		return verr
	}
	return nil
}

// validateQuestion checks the structural shape of one question's payload
// against its variant tag. The switch is exhaustive over the closed set.
func validateQuestion(q Question) []string {
	var msgs []string
	switch q.Type {
	case MultipleChoiceQuestion:
		if len(q.Answers) < 2 {
			msgs = append(msgs, "needs at least two answers")
		}
		if countCorrect(q.Answers) != 1 {
			msgs = append(msgs, "needs exactly one correct answer")
		}
	case TrueFalseQuestion:
		if len(q.Answers) != 2 {
			msgs = append(msgs, "needs exactly two answers")
		}
		if countCorrect(q.Answers) != 1 {
			msgs = append(msgs, "needs exactly one correct answer")
		}
	case FillInBlankQuestion:
		if len(q.Accepted) == 0 {
			msgs = append(msgs, "needs at least one accepted answer")
		}
	case FillInMultipleBlanksQuestion:
		if len(q.Blanks) == 0 {
			msgs = append(msgs, "needs at least one blank")
		}
		for _, blank := range q.Blanks {
			if blank.Name == "" {
				msgs = append(msgs, "blank is missing a name")
			}
			if len(blank.Accepted) == 0 {
				msgs = append(msgs, fmt.Sprintf("blank %q needs at least one accepted answer", blank.Name))
			}
		}
	case MultipleAnswersQuestion:
		if len(q.Answers) < 2 {
			msgs = append(msgs, "needs at least two answers")
		}
		if countCorrect(q.Answers) == 0 {
			msgs = append(msgs, "needs at least one correct answer")
		}
	case MultipleDropdownsQuestion:
		if len(q.Dropdowns) == 0 {
			msgs = append(msgs, "needs at least one dropdown")
		}
		for _, dd := range q.Dropdowns {
			if dd.Variable == "" {
				msgs = append(msgs, "dropdown is missing a variable name")
			}
			if countCorrect(dd.Choices) != 1 {
				msgs = append(msgs, fmt.Sprintf("dropdown %q needs exactly one correct choice", dd.Variable))
			}
		}
	case MatchingQuestion:
		if len(q.Matches) == 0 {
			msgs = append(msgs, "needs at least one match pair")
		}
		for i, pair := range q.Matches {
			if pair.Prompt == "" || pair.Match == "" {
				msgs = append(msgs, fmt.Sprintf("match pair %d is incomplete", i+1))
			}
		}
	case NumericalQuestion:
		switch {
		case q.Numerical == nil:
			msgs = append(msgs, "needs a numerical answer spec")
		case q.Numerical.Exact == nil && (q.Numerical.Min == nil || q.Numerical.Max == nil):
			msgs = append(msgs, "needs either an exact value or a min/max range")
		}
	case FormulaQuestion:
		switch {
		case q.Formula == nil:
			msgs = append(msgs, "needs a formula spec")
		case q.Formula.Expression == "":
			msgs = append(msgs, "formula expression is empty")
		default:
			for _, v := range q.Formula.Variables {
				if v.Min > v.Max {
					msgs = append(msgs, fmt.Sprintf("variable %q has min greater than max", v.Name))
				}
			}
		}
	case EssayQuestion, FileUploadQuestion, TextOnlyQuestion:
		// No payload to check.
	default:
		msgs = append(msgs, fmt.Sprintf("unrecognized question type %q", q.Type))
	}
	return msgs
}

func countCorrect(answers []Answer) int {
	n := 0
	for _, a := range answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// buildAssignmentHTML renders the assignment description page.
func buildAssignmentHTML(a *Assignment) []byte {
	body := links.Export(a.Description)
	page := &WikiPage{
		Identifier:    a.Identifier,
		Title:         a.Title,
		EditingRoles:  "teachers",
		WorkflowState: "active",
	}
	return buildPageHTML(page, body)
}
