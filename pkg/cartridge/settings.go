// SPDX-License-Identifier: MPL-2.0

package cartridge

import (
	"encoding/xml"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// canvasXmlns is the schema namespace carried by settings fragments.
const canvasXmlns = "http://canvas.instructure.com/xsd/cccv1p0"

type courseSettingsXML struct {
	XMLName     xml.Name `xml:"course"`
	Identifier  string   `xml:"identifier,attr"`
	Xmlns       string   `xml:"xmlns,attr"`
	Title       string   `xml:"title"`
	CourseCode  string   `xml:"course_code"`
	License     string   `xml:"license"`
	DefaultView string   `xml:"default_view"`
	IsPublic    bool     `xml:"is_public"`
}

type moduleMetaXML struct {
	XMLName xml.Name    `xml:"modules"`
	Xmlns   string      `xml:"xmlns,attr"`
	Modules []moduleXML `xml:"module"`
}

type moduleXML struct {
	Identifier string          `xml:"identifier,attr"`
	Title      string          `xml:"title"`
	Position   int             `xml:"position"`
	Items      []moduleItemXML `xml:"items>item"`
}

type moduleItemXML struct {
	Identifier    string `xml:"identifier,attr"`
	ContentType   string `xml:"content_type"`
	IdentifierRef string `xml:"identifierref"`
	Title         string `xml:"title"`
	Position      int    `xml:"position"`
	Indent        int    `xml:"indent"`
}

type assignmentGroupsXML struct {
	XMLName xml.Name             `xml:"assignmentGroups"`
	Xmlns   string               `xml:"xmlns,attr"`
	Groups  []assignmentGroupXML `xml:"assignmentGroup"`
}

type assignmentGroupXML struct {
	Identifier  string   `xml:"identifier,attr"`
	Title       string   `xml:"title"`
	Position    int      `xml:"position"`
	GroupWeight float64  `xml:"group_weight"`
	Assignments []string `xml:"assignments>assignment"`
}

type rubricsXML struct {
	XMLName xml.Name    `xml:"rubrics"`
	Xmlns   string      `xml:"xmlns,attr"`
	Rubrics []rubricXML `xml:"rubric"`
}

type rubricXML struct {
	Identifier     string         `xml:"identifier,attr"`
	Title          string         `xml:"title"`
	PointsPossible float64        `xml:"points_possible"`
	Criteria       []criterionXML `xml:"criteria>criterion"`
}

type criterionXML struct {
	Description string      `xml:"description"`
	Points      float64     `xml:"points"`
	Ratings     []ratingXML `xml:"ratings>rating"`
}

type ratingXML struct {
	Description     string  `xml:"description"`
	Points          float64 `xml:"points"`
	LongDescription string  `xml:"long_description,omitempty"`
}

type assignmentSettingsXML struct {
	XMLName           xml.Name `xml:"assignment"`
	Identifier        string   `xml:"identifier,attr"`
	Xmlns             string   `xml:"xmlns,attr"`
	Title             string   `xml:"title"`
	PointsPossible    float64  `xml:"points_possible"`
	GradingType       string   `xml:"grading_type"`
	SubmissionTypes   string   `xml:"submission_types"`
	AllowedExtensions string   `xml:"allowed_extensions,omitempty"`
	RubricRef         string   `xml:"rubric_identifierref,omitempty"`
	GroupRef          string   `xml:"assignment_group_identifierref,omitempty"`
}

type contextXML struct {
	XMLName     xml.Name `xml:"course_export_context"`
	Xmlns       string   `xml:"xmlns,attr"`
	ContextType string   `xml:"context_type"`
}

func (c *Course) buildCourseSettings() ([]byte, error) {
	return marshalXML(courseSettingsXML{
		Identifier:  c.Identifier,
		Xmlns:       canvasXmlns,
		Title:       c.Title,
		CourseCode:  c.CourseCode,
		License:     c.License,
		DefaultView: c.DefaultView,
		IsPublic:    c.IsPublic,
	})
}

func (c *Course) buildModuleMeta() ([]byte, error) {
	doc := moduleMetaXML{Xmlns: canvasXmlns}
	for i, m := range c.Modules() {
		mod := moduleXML{Identifier: m.Identifier, Title: m.Title, Position: i + 1}
		for j, item := range m.Items() {
			mod.Items = append(mod.Items, moduleItemXML{
				Identifier:    item.Identifier,
				ContentType:   item.ContentType,
				IdentifierRef: item.IdentifierRef,
				Title:         item.Title,
				Position:      j + 1,
				Indent:        item.Indent,
			})
		}
		doc.Modules = append(doc.Modules, mod)
	}
	return marshalXML(doc)
}

func (c *Course) buildAssignmentGroups() ([]byte, error) {
	doc := assignmentGroupsXML{Xmlns: canvasXmlns}
	for i, g := range c.AssignmentGroups() {
		doc.Groups = append(doc.Groups, assignmentGroupXML{
			Identifier:  g.Identifier,
			Title:       g.Title,
			Position:    i + 1,
			GroupWeight: g.Weight,
			Assignments: g.AssignmentRefs(),
		})
	}
	return marshalXML(doc)
}

func (c *Course) buildRubrics() ([]byte, error) {
	doc := rubricsXML{Xmlns: canvasXmlns}
	for _, r := range c.Rubrics() {
		rx := rubricXML{
			Identifier:     r.Identifier,
			Title:          r.Title,
			PointsPossible: r.PointsPossible(),
		}
		for _, crit := range r.Criteria {
			cx := criterionXML{Description: crit.Description, Points: crit.Points}
			for _, rating := range crit.Ratings {
				cx.Ratings = append(cx.Ratings, ratingXML{
					Description:     rating.Description,
					Points:          rating.Points,
					LongDescription: rating.LongDescription,
				})
			}
			rx.Criteria = append(rx.Criteria, cx)
		}
		doc.Rubrics = append(doc.Rubrics, rx)
	}
	return marshalXML(doc)
}

func buildAssignmentSettings(a *Assignment) ([]byte, error) {
	return marshalXML(assignmentSettingsXML{
		Identifier:        a.Identifier,
		Xmlns:             canvasXmlns,
		Title:             a.Title,
		PointsPossible:    a.PointsPossible,
		GradingType:       a.GradingType,
		SubmissionTypes:   strings.Join(a.SubmissionTypes, ","),
		AllowedExtensions: strings.Join(a.AllowedExtensions, ","),
		RubricRef:         a.RubricRef,
		GroupRef:          a.GroupRef,
	})
}

func buildContext() ([]byte, error) {
	return marshalXML(contextXML{Xmlns: canvasXmlns, ContextType: "Course"})
}

// CourseSettings is the parsed view of course_settings.xml.
type CourseSettings struct {
	Identifier  string
	Title       string
	CourseCode  string
	License     string
	DefaultView string
	IsPublic    bool
}

// ParseCourseSettings decodes course_settings/course_settings.xml.
func ParseCourseSettings(data []byte) (*CourseSettings, error) {
	var doc courseSettingsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: "course_settings/course_settings.xml", Err: err}
	}
	return &CourseSettings{
		Identifier:  doc.Identifier,
		Title:       doc.Title,
		CourseCode:  doc.CourseCode,
		License:     doc.License,
		DefaultView: doc.DefaultView,
		IsPublic:    doc.IsPublic,
	}, nil
}

// ModuleItemRecord is one parsed module item.
type ModuleItemRecord struct {
	Identifier    string
	ContentType   string
	IdentifierRef string
	Title         string
	Indent        int
}

// ModuleRecord is one parsed module with its items in position order.
type ModuleRecord struct {
	Identifier string
	Title      string
	Items      []ModuleItemRecord
}

// ParseModuleMeta decodes course_settings/module_meta.xml.
func ParseModuleMeta(data []byte) ([]ModuleRecord, error) {
	var doc moduleMetaXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: "course_settings/module_meta.xml", Err: err}
	}
	records := make([]ModuleRecord, 0, len(doc.Modules))
	for _, m := range doc.Modules {
		rec := ModuleRecord{Identifier: m.Identifier, Title: m.Title}
		for _, item := range m.Items {
			rec.Items = append(rec.Items, ModuleItemRecord{
				Identifier:    item.Identifier,
				ContentType:   item.ContentType,
				IdentifierRef: item.IdentifierRef,
				Title:         item.Title,
				Indent:        item.Indent,
			})
		}
		records = append(records, rec)
	}
	return records, nil
}

// AssignmentGroupRecord is one parsed assignment group.
type AssignmentGroupRecord struct {
	Identifier  string
	Title       string
	Weight      float64
	Assignments []string
}

// ParseAssignmentGroups decodes course_settings/assignment_groups.xml.
func ParseAssignmentGroups(data []byte) ([]AssignmentGroupRecord, error) {
	var doc assignmentGroupsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: "course_settings/assignment_groups.xml", Err: err}
	}
	records := make([]AssignmentGroupRecord, 0, len(doc.Groups))
	for _, g := range doc.Groups {
		records = append(records, AssignmentGroupRecord{
			Identifier:  g.Identifier,
			Title:       g.Title,
			Weight:      g.GroupWeight,
			Assignments: g.Assignments,
		})
	}
	return records, nil
}

// RubricRecord is one parsed rubric.
type RubricRecord struct {
	Identifier string
	Title      string
	Criteria   []Criterion
}

// ParseRubrics decodes course_settings/rubrics.xml.
func ParseRubrics(data []byte) ([]RubricRecord, error) {
	var doc rubricsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: "course_settings/rubrics.xml", Err: err}
	}
	records := make([]RubricRecord, 0, len(doc.Rubrics))
	for _, r := range doc.Rubrics {
		rec := RubricRecord{Identifier: r.Identifier, Title: r.Title}
		for _, cx := range r.Criteria {
			crit := Criterion{Description: cx.Description, Points: cx.Points}
			for _, rx := range cx.Ratings {
				crit.Ratings = append(crit.Ratings, Rating{
					Description:     rx.Description,
					Points:          rx.Points,
					LongDescription: rx.LongDescription,
				})
			}
			rec.Criteria = append(rec.Criteria, crit)
		}
		records = append(records, rec)
	}
	return records, nil
}

// AssignmentRecord is one parsed assignment settings fragment plus its
// description HTML.
type AssignmentRecord struct {
	Identifier        string
	Title             string
	Description       string
	PointsPossible    float64
	GradingType       string
	SubmissionTypes   []string
	AllowedExtensions []string
	RubricRef         string
	GroupRef          string
}

// ParseAssignmentSettings decodes one <id>/assignment_settings.xml.
func ParseAssignmentSettings(path string, data []byte) (*AssignmentRecord, error) {
	var doc assignmentSettingsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	rec := &AssignmentRecord{
		Identifier:     doc.Identifier,
		Title:          doc.Title,
		PointsPossible: doc.PointsPossible,
		GradingType:    doc.GradingType,
		RubricRef:      doc.RubricRef,
		GroupRef:       doc.GroupRef,
	}
	if doc.SubmissionTypes != "" {
		rec.SubmissionTypes = strings.Split(doc.SubmissionTypes, ",")
	}
	if doc.AllowedExtensions != "" {
		rec.AllowedExtensions = strings.Split(doc.AllowedExtensions, ",")
	}
	return rec, nil
}

// buildPageHTML renders a page into the package wiki_content wrapper. The
// body has already been through the export-direction link rewriter.
func buildPageHTML(p *WikiPage, body string) []byte {
	var sb strings.Builder
	sb.WriteString("<html>\n<head>\n")
	sb.WriteString(`<meta http-equiv="Content-Type" content="text/html; charset=UTF-8">` + "\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(p.Title))
	fmt.Fprintf(&sb, "<meta name=\"identifier\" content=%q>\n", p.Identifier)
	fmt.Fprintf(&sb, "<meta name=\"editing_roles\" content=%q>\n", p.EditingRoles)
	fmt.Fprintf(&sb, "<meta name=\"workflow_state\" content=%q>\n", p.WorkflowState)
	if p.FrontPage {
		sb.WriteString("<meta name=\"front_page\" content=\"true\">\n")
	}
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(body)
	sb.WriteString("\n</body>\n</html>\n")
	return []byte(sb.String())
}

// PageRecord is the parsed view of a wiki_content HTML file.
type PageRecord struct {
	Identifier    string
	Title         string
	Body          string
	WorkflowState string
	EditingRoles  string
	FrontPage     bool
}

var (
	pageTitleRegex = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
	pageMetaRegex  = regexp.MustCompile(`<meta name="([^"]+)" content="([^"]*)"\s*/?>`)
	pageBodyRegex  = regexp.MustCompile(`(?s)<body>\n?(.*?)\n?</body>`)
)

// ParsePageHTML recovers a page from its package wrapper. Pages written by
// other exporters may omit the meta tags; missing fields fall back to
// defaults so extraction stays lossy-but-tolerant.
func ParsePageHTML(path string, data []byte) (*PageRecord, error) {
	text := string(data)
	rec := &PageRecord{
		WorkflowState: "active",
		EditingRoles:  "teachers",
	}
	if m := pageTitleRegex.FindStringSubmatch(text); m != nil {
		rec.Title = html.UnescapeString(strings.TrimSpace(m[1]))
	}
	for _, m := range pageMetaRegex.FindAllStringSubmatch(text, -1) {
		switch m[1] {
		case "identifier":
			rec.Identifier = m[2]
		case "editing_roles":
			rec.EditingRoles = m[2]
		case "workflow_state":
			rec.WorkflowState = m[2]
		case "front_page":
			rec.FrontPage = m[2] == "true"
		}
	}
	if m := pageBodyRegex.FindStringSubmatch(text); m != nil {
		rec.Body = m[1]
	} else {
		// No recognizable wrapper: treat the whole document as the body.
		rec.Body = text
	}
	if rec.Title == "" {
		return nil, &FormatError{Path: path, Err: fmt.Errorf("page has no title")}
	}
	return rec, nil
}
