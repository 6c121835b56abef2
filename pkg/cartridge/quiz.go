// SPDX-License-Identifier: MPL-2.0

package cartridge

// QuestionType tags one of the twelve supported question variants. The set
// is closed: the assembler dispatches on the tag through an exhaustive
// switch, so an unrecognized tag is a validation error, never a silent skip.
type QuestionType string

// The twelve supported question variants.
const (
	MultipleChoiceQuestion       QuestionType = "multiple_choice"
	TrueFalseQuestion            QuestionType = "true_false"
	FillInBlankQuestion          QuestionType = "fill_in_blank"
	FillInMultipleBlanksQuestion QuestionType = "fill_in_multiple_blanks"
	MultipleAnswersQuestion      QuestionType = "multiple_answers"
	MultipleDropdownsQuestion    QuestionType = "multiple_dropdowns"
	MatchingQuestion             QuestionType = "matching"
	NumericalQuestion            QuestionType = "numerical_answer"
	FormulaQuestion              QuestionType = "formula_question"
	EssayQuestion                QuestionType = "essay_question"
	FileUploadQuestion           QuestionType = "file_upload_question"
	TextOnlyQuestion             QuestionType = "text_only_question"
)

// Answer is one choice in a choice-based question.
type Answer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct,omitempty"`
}

// Blank is one named blank with its accepted values.
type Blank struct {
	Name     string   `json:"name"`
	Accepted []string `json:"accepted"`
}

// Dropdown is one inline dropdown variable with its choices.
type Dropdown struct {
	Variable string   `json:"variable"`
	Choices  []Answer `json:"choices"`
}

// MatchPair is one prompt with its correct match.
type MatchPair struct {
	Prompt string `json:"prompt"`
	Match  string `json:"match"`
}

// NumericalSpec describes the accepted numeric answer: either an exact value
// with an optional margin, or an inclusive min/max range.
type NumericalSpec struct {
	Exact  *float64 `json:"exact,omitempty"`
	Margin float64  `json:"margin,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// FormulaVariable declares one variable's numeric range for a formula
// question.
type FormulaVariable struct {
	Name  string  `json:"name"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Scale int     `json:"scale,omitempty"`
}

// FormulaSpec describes a calculated question: the formula expression, each
// variable's declared range, and the answer tolerance.
type FormulaSpec struct {
	Expression string            `json:"expression"`
	Variables  []FormulaVariable `json:"variables,omitempty"`
	Tolerance  float64           `json:"tolerance,omitempty"`
}

// Question is the closed tagged-variant type shared by all twelve kinds.
// Only the payload fields matching Type are consulted; payload shape is
// validated, batched, at build time rather than at construction.
type Question struct {
	Type           QuestionType `json:"type"`
	Text           string       `json:"text"`
	PointsPossible float64      `json:"points_possible"`

	// Answers serves multiple_choice, true_false, and multiple_answers.
	Answers []Answer `json:"answers,omitempty"`
	// Accepted serves fill_in_blank.
	Accepted []string `json:"accepted,omitempty"`
	// Blanks serves fill_in_multiple_blanks.
	Blanks []Blank `json:"blanks,omitempty"`
	// Dropdowns serves multiple_dropdowns.
	Dropdowns []Dropdown `json:"dropdowns,omitempty"`
	// Matches and Distractors serve matching.
	Matches     []MatchPair `json:"matches,omitempty"`
	Distractors []string    `json:"distractors,omitempty"`
	// Numerical serves numerical_answer.
	Numerical *NumericalSpec `json:"numerical,omitempty"`
	// Formula serves formula_question.
	Formula *FormulaSpec `json:"formula,omitempty"`
}

// QuizSettings enumerates every recognized quiz option with its default.
// Unrecognized keys in template records are rejected by schema validation
// before a settings value is ever constructed.
type QuizSettings struct {
	// QuizType is "assignment", "practice_quiz", "graded_survey", or "survey".
	QuizType string `json:"quiz_type"`
	// AllowedAttempts of -1 means unlimited.
	AllowedAttempts int `json:"allowed_attempts"`
	// TimeLimit is in minutes; 0 means no limit.
	TimeLimit int `json:"time_limit,omitempty"`
	// ShuffleAnswers randomizes answer order per attempt.
	ShuffleAnswers bool `json:"shuffle_answers,omitempty"`
	// ScoringPolicy is "keep_highest" or "keep_latest".
	ScoringPolicy string `json:"scoring_policy"`
}

// DefaultQuizSettings returns the settings applied when a template record
// omits them.
func DefaultQuizSettings() QuizSettings {
	return QuizSettings{
		QuizType:        "assignment",
		AllowedAttempts: 1,
		ScoringPolicy:   "keep_highest",
	}
}

// Quiz is an ordered sequence of questions with quiz-level settings.
type Quiz struct {
	Identifier  string
	Title       string
	Description string
	Settings    QuizSettings

	questions []Question
}

// QuizOptions configures AddQuiz.
type QuizOptions struct {
	Title       string
	Description string
	// Settings defaults to DefaultQuizSettings when zero.
	Settings *QuizSettings
}

// AddQuestion appends a question, preserving insertion order.
func (q *Quiz) AddQuestion(question Question) {
	q.questions = append(q.questions, question)
}

// Questions returns the quiz's questions in insertion order.
func (q *Quiz) Questions() []Question {
	return q.questions
}

// PointsPossible sums the points across all questions.
func (q *Quiz) PointsPossible() float64 {
	var total float64
	for _, question := range q.questions {
		total += question.PointsPossible
	}
	return total
}
