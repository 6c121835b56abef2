// SPDX-License-Identifier: MPL-2.0

package cartridge

import (
	"path"
	"strings"
)

// Course is the root aggregate. It owns every entity in ordered collections
// plus one identifier registry; all cross-references between entities are
// identifier lookups resolved through the registry, never ownership edges.
// A Course is mutated only through its add-operations and must not be shared
// across concurrent builds.
type Course struct {
	Identifier string
	Title      string
	CourseCode string
	// License is a Canvas license tag, e.g. "private" or "cc_by".
	License string
	// DefaultView is "modules", "wiki", "assignments", or "syllabus".
	DefaultView string
	IsPublic    bool

	registry    *Registry
	pages       []*WikiPage
	modules     []*Module
	quizzes     []*Quiz
	assignments []*Assignment
	groups      []*AssignmentGroup
	rubrics     []*Rubric
	resources   []*Resource
}

// CourseOptions configures New. Zero-value fields receive defaults.
type CourseOptions struct {
	Title      string
	CourseCode string
	// License defaults to "private".
	License string
	// DefaultView defaults to "modules".
	DefaultView string
	IsPublic    bool
	// Seed, when non-empty, makes generated identifiers reproducible across
	// builds. Callers wanting stable fixtures typically seed with the course
	// code.
	Seed string
}

// New constructs an empty course with its own registry.
func New(opts CourseOptions) *Course {
	var reg *Registry
	if opts.Seed != "" {
		reg = NewSeededRegistry(opts.Seed)
	} else {
		reg = NewRegistry()
	}

	license := opts.License
	if license == "" {
		license = "private"
	}
	view := opts.DefaultView
	if view == "" {
		view = "modules"
	}

	c := &Course{
		Identifier:  reg.Mint(KindCourse),
		Title:       opts.Title,
		CourseCode:  opts.CourseCode,
		License:     license,
		DefaultView: view,
		IsPublic:    opts.IsPublic,
		registry:    reg,
	}
	return c
}

// Registry returns the course's identifier registry.
func (c *Course) Registry() *Registry {
	return c.registry
}

// AddPage creates a page with a minted identifier and appends it.
func (c *Course) AddPage(opts PageOptions) *WikiPage {
	state := opts.WorkflowState
	if state == "" {
		state = "active"
	}
	roles := opts.EditingRoles
	if roles == "" {
		roles = "teachers"
	}
	filename := opts.Filename
	if filename == "" {
		filename = Slugify(opts.Title)
	}

	p := &WikiPage{
		Identifier:    c.registry.Mint(KindPage),
		Title:         opts.Title,
		Body:          opts.Body,
		WorkflowState: state,
		EditingRoles:  roles,
		FrontPage:     opts.FrontPage,
		Filename:      filename,
	}
	// Mint guarantees uniqueness, so registration cannot collide.
	_ = c.registry.Register(p.Identifier, KindPage, p)
	c.pages = append(c.pages, p)
	return p
}

// NewModule creates an empty module with a minted identifier and appends it.
func (c *Course) NewModule(title string) *Module {
	m := &Module{
		Identifier: c.registry.Mint(KindModule),
		Title:      title,
		registry:   c.registry,
	}
	_ = c.registry.Register(m.Identifier, KindModule, m)
	c.modules = append(c.modules, m)
	return m
}

// AddQuiz creates a quiz with a minted identifier and appends it.
func (c *Course) AddQuiz(opts QuizOptions) *Quiz {
	settings := DefaultQuizSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
	}
	q := &Quiz{
		Identifier:  c.registry.Mint(KindQuiz),
		Title:       opts.Title,
		Description: opts.Description,
		Settings:    settings,
	}
	_ = c.registry.Register(q.Identifier, KindQuiz, q)
	c.quizzes = append(c.quizzes, q)
	return q
}

// AddAssignment creates an assignment whose identifier is derived from
// sourceName (a filename or filename stem). Two distinct source names that
// normalize to the same slug fail with DuplicateIdentifierError.
func (c *Course) AddAssignment(sourceName string, opts AssignmentOptions) (*Assignment, error) {
	id, err := c.registry.Derive(KindAssignment, sourceName)
	if err != nil {
		return nil, err
	}

	types := opts.SubmissionTypes
	if len(types) == 0 {
		types = []string{"online_text_entry"}
	}
	grading := opts.GradingType
	if grading == "" {
		grading = "points"
	}

	a := &Assignment{
		Identifier:        id,
		Title:             opts.Title,
		Description:       opts.Description,
		PointsPossible:    opts.PointsPossible,
		SubmissionTypes:   types,
		AllowedExtensions: opts.AllowedExtensions,
		GradingType:       grading,
	}
	if opts.Rubric != nil {
		a.RubricRef = opts.Rubric.Identifier
	}
	if err := c.registry.Register(id, KindAssignment, a); err != nil {
		return nil, err
	}
	if opts.Group != nil {
		opts.Group.Add(a)
	}
	c.assignments = append(c.assignments, a)
	return a, nil
}

// AddAssignmentGroup creates an assignment group with a minted identifier.
// Weights across groups are not validated to sum to any total.
func (c *Course) AddAssignmentGroup(title string, weight float64) *AssignmentGroup {
	g := &AssignmentGroup{
		Identifier: c.registry.Mint(KindAssignmentGroup),
		Title:      title,
		Weight:     weight,
	}
	_ = c.registry.Register(g.Identifier, KindAssignmentGroup, g)
	c.groups = append(c.groups, g)
	return g
}

// AddRubric creates a rubric with a minted identifier and appends it.
func (c *Course) AddRubric(title string, criteria []Criterion) *Rubric {
	r := &Rubric{
		Identifier: c.registry.Mint(KindRubric),
		Title:      title,
		Criteria:   criteria,
	}
	_ = c.registry.Register(r.Identifier, KindRubric, r)
	c.rubrics = append(c.rubrics, r)
	return r
}

// AddResource stores raw file bytes at destPath under the package resource
// area. destPath is normalized to forward slashes relative to web_resources/.
func (c *Course) AddResource(destPath string, data []byte) *Resource {
	clean := path.Clean(strings.ReplaceAll(destPath, "\\", "/"))
	clean = strings.TrimPrefix(clean, "web_resources/")
	res := &Resource{
		Identifier: c.registry.Mint(KindResource),
		Path:       clean,
		Data:       data,
	}
	_ = c.registry.Register(res.Identifier, KindResource, res)
	c.resources = append(c.resources, res)
	return res
}

// Pages returns the course pages in insertion order.
func (c *Course) Pages() []*WikiPage { return c.pages }

// Modules returns the course modules in insertion order.
func (c *Course) Modules() []*Module { return c.modules }

// Quizzes returns the course quizzes in insertion order.
func (c *Course) Quizzes() []*Quiz { return c.quizzes }

// Assignments returns the course assignments in insertion order.
func (c *Course) Assignments() []*Assignment { return c.assignments }

// AssignmentGroups returns the course assignment groups in insertion order.
func (c *Course) AssignmentGroups() []*AssignmentGroup { return c.groups }

// Rubrics returns the course rubrics in insertion order.
func (c *Course) Rubrics() []*Rubric { return c.rubrics }

// Resources returns the course file resources in insertion order.
func (c *Course) Resources() []*Resource { return c.resources }
