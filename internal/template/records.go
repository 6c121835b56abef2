// SPDX-License-Identifier: MPL-2.0

package template

import (
	"coursecart/pkg/cartridge"
)

// JSON record shapes of the editable template tree. The same shapes are
// produced by the extractor and consumed by the loader, so a freshly
// extracted tree always loads back cleanly.

type courseRecord struct {
	Title            string        `json:"title"`
	CourseCode       string        `json:"course_code,omitempty"`
	License          string        `json:"license,omitempty"`
	DefaultView      string        `json:"default_view,omitempty"`
	IsPublic         bool          `json:"is_public,omitempty"`
	AssignmentGroups []groupRecord `json:"assignment_groups,omitempty"`
}

type groupRecord struct {
	Title       string   `json:"title"`
	Weight      float64  `json:"weight,omitempty"`
	Assignments []string `json:"assignments,omitempty"`
}

type modulesRecord struct {
	Modules []moduleRecord `json:"modules"`
}

type moduleRecord struct {
	Title string             `json:"title"`
	Items []moduleItemRecord `json:"items,omitempty"`
}

type moduleItemRecord struct {
	Type   string `json:"type"`
	Ref    string `json:"ref"`
	Title  string `json:"title,omitempty"`
	Indent int    `json:"indent,omitempty"`
}

type quizRecord struct {
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Settings    *quizSettingsRecord  `json:"settings,omitempty"`
	Questions   []cartridge.Question `json:"questions,omitempty"`
}

// quizSettingsRecord uses pointers so a record that sets only some options
// keeps the defaults for the rest.
type quizSettingsRecord struct {
	QuizType        *string `json:"quiz_type,omitempty"`
	AllowedAttempts *int    `json:"allowed_attempts,omitempty"`
	TimeLimit       *int    `json:"time_limit,omitempty"`
	ShuffleAnswers  *bool   `json:"shuffle_answers,omitempty"`
	ScoringPolicy   *string `json:"scoring_policy,omitempty"`
}

// apply overlays the record's set fields on top of defaults.
func (r *quizSettingsRecord) apply(s *cartridge.QuizSettings) {
	if r == nil {
		return
	}
	if r.QuizType != nil {
		s.QuizType = *r.QuizType
	}
	if r.AllowedAttempts != nil {
		s.AllowedAttempts = *r.AllowedAttempts
	}
	if r.TimeLimit != nil {
		s.TimeLimit = *r.TimeLimit
	}
	if r.ShuffleAnswers != nil {
		s.ShuffleAnswers = *r.ShuffleAnswers
	}
	if r.ScoringPolicy != nil {
		s.ScoringPolicy = *r.ScoringPolicy
	}
}

// settingsRecordFrom converts full settings back into record form for
// extraction output.
func settingsRecordFrom(s cartridge.QuizSettings) *quizSettingsRecord {
	return &quizSettingsRecord{
		QuizType:        &s.QuizType,
		AllowedAttempts: &s.AllowedAttempts,
		TimeLimit:       &s.TimeLimit,
		ShuffleAnswers:  &s.ShuffleAnswers,
		ScoringPolicy:   &s.ScoringPolicy,
	}
}

type assignmentRecord struct {
	Title             string   `json:"title"`
	Description       string   `json:"description,omitempty"`
	PointsPossible    float64  `json:"points_possible,omitempty"`
	SubmissionTypes   []string `json:"submission_types,omitempty"`
	AllowedExtensions []string `json:"allowed_extensions,omitempty"`
	GradingType       string   `json:"grading_type,omitempty"`
	// Rubric names a rubric record by filename stem.
	Rubric string `json:"rubric,omitempty"`
}

type rubricRecord struct {
	Title    string                `json:"title"`
	Criteria []cartridge.Criterion `json:"criteria"`
}
