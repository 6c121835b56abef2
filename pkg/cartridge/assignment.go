// SPDX-License-Identifier: MPL-2.0

package cartridge

// Assignment is a gradeable task. Its identifier is derived from the
// caller-supplied source filename, which makes assignment links
// pre-authorable: the slug in an object-reference token is exactly the
// normalized filename stem.
type Assignment struct {
	Identifier  string
	Title       string
	Description string
	// PointsPossible is the maximum score.
	PointsPossible float64
	// SubmissionTypes lists accepted submission channels
	// (e.g., "online_text_entry", "online_upload").
	SubmissionTypes []string
	// AllowedExtensions restricts uploaded file extensions; empty means any.
	AllowedExtensions []string
	// GradingType is "points", "percent", "letter_grade", or "pass_fail".
	GradingType string
	// RubricRef weakly references a rubric by identifier; empty means none.
	RubricRef string
	// GroupRef weakly references an assignment group by identifier.
	GroupRef string
}

// AssignmentOptions configures AddAssignment. Zero-value fields receive
// defaults.
type AssignmentOptions struct {
	Title          string
	Description    string
	PointsPossible float64
	// SubmissionTypes defaults to ["online_text_entry"].
	SubmissionTypes   []string
	AllowedExtensions []string
	// GradingType defaults to "points".
	GradingType string
	// Rubric optionally attaches a rubric by reference.
	Rubric *Rubric
	// Group optionally places the assignment in a group by reference.
	Group *AssignmentGroup
}

// AssignmentGroup weights a set of assignments. Weights across groups are
// accepted as given: the author is responsible for making them sum to 100.
type AssignmentGroup struct {
	Identifier string
	Title      string
	// Weight is the group's percentage of the final grade.
	Weight float64

	assignmentRefs []string
}

// AssignmentRefs returns the identifiers of the group's assignments in
// insertion order.
func (g *AssignmentGroup) AssignmentRefs() []string {
	return g.assignmentRefs
}

// Add places an assignment in the group, recording the membership on both
// sides by identifier.
func (g *AssignmentGroup) Add(a *Assignment) {
	g.assignmentRefs = append(g.assignmentRefs, a.Identifier)
	a.GroupRef = g.Identifier
}
