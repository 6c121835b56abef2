// SPDX-License-Identifier: MPL-2.0

package cartridge

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// ccQuestionNames maps each variant tag to its interchange profile name.
var ccQuestionNames = map[QuestionType]string{
	MultipleChoiceQuestion:       "multiple_choice_question",
	TrueFalseQuestion:            "true_false_question",
	FillInBlankQuestion:          "short_answer_question",
	FillInMultipleBlanksQuestion: "fill_in_multiple_blanks_question",
	MultipleAnswersQuestion:      "multiple_answers_question",
	MultipleDropdownsQuestion:    "multiple_dropdowns_question",
	MatchingQuestion:             "matching_question",
	NumericalQuestion:            "numerical_question",
	FormulaQuestion:              "calculated_question",
	EssayQuestion:                "essay_question",
	FileUploadQuestion:           "file_upload_question",
	TextOnlyQuestion:             "text_only_question",
}

var ccQuestionTypes = func() map[string]QuestionType {
	m := make(map[string]QuestionType, len(ccQuestionNames))
	for t, name := range ccQuestionNames {
		m[name] = t
	}
	return m
}()

// CCQuestionType returns the interchange profile name for a variant tag.
func CCQuestionType(t QuestionType) (string, bool) {
	name, ok := ccQuestionNames[t]
	return name, ok
}

// QuestionTypeFromCC maps an interchange profile name back to a variant tag.
func QuestionTypeFromCC(name string) (QuestionType, bool) {
	t, ok := ccQuestionTypes[name]
	return t, ok
}

type qtiInterop struct {
	XMLName    xml.Name      `xml:"questestinterop"`
	Assessment qtiAssessment `xml:"assessment"`
}

type qtiAssessment struct {
	Ident    string      `xml:"ident,attr"`
	Title    string      `xml:"title,attr"`
	Metadata qtiMetadata `xml:"qtimetadata"`
	Section  qtiSection  `xml:"section"`
}

type qtiMetadata struct {
	Fields []qtiField `xml:"qtimetadatafield"`
}

type qtiField struct {
	Label string `xml:"fieldlabel"`
	Entry string `xml:"fieldentry"`
}

type qtiSection struct {
	Ident string    `xml:"ident,attr"`
	Items []qtiItem `xml:"item"`
}

type qtiItem struct {
	Ident        string            `xml:"ident,attr"`
	Title        string            `xml:"title,attr"`
	Metadata     qtiItemMetadata   `xml:"itemmetadata"`
	Presentation qtiPresentation   `xml:"presentation"`
	Processing   *qtiResprocessing `xml:"resprocessing"`
}

type qtiItemMetadata struct {
	Meta qtiMetadata `xml:"qtimetadata"`
}

type qtiPresentation struct {
	Material qtiMaterial      `xml:"material"`
	Lids     []qtiResponseLid `xml:"response_lid"`
	Strs     []qtiResponseStr `xml:"response_str"`
}

type qtiMaterial struct {
	Mattext qtiMattext `xml:"mattext"`
}

type qtiMattext struct {
	TextType string `xml:"texttype,attr,omitempty"`
	Text     string `xml:",chardata"`
}

type qtiResponseLid struct {
	Ident        string          `xml:"ident,attr"`
	RCardinality string          `xml:"rcardinality,attr,omitempty"`
	Material     *qtiMaterial    `xml:"material"`
	RenderChoice qtiRenderChoice `xml:"render_choice"`
}

type qtiRenderChoice struct {
	Labels []qtiResponseLabel `xml:"response_label"`
}

type qtiResponseLabel struct {
	Ident    string      `xml:"ident,attr"`
	Material qtiMaterial `xml:"material"`
}

type qtiResponseStr struct {
	Ident     string       `xml:"ident,attr"`
	RenderFib qtiRenderFib `xml:"render_fib"`
}

type qtiRenderFib struct {
	Fibtype string `xml:"fibtype,attr,omitempty"`
	Rows    int    `xml:"rows,attr,omitempty"`
	Columns int    `xml:"columns,attr,omitempty"`
}

type qtiResprocessing struct {
	Outcomes   qtiOutcomes        `xml:"outcomes"`
	Conditions []qtiRespcondition `xml:"respcondition"`
}

type qtiOutcomes struct {
	Decvar qtiDecvar `xml:"decvar"`
}

type qtiDecvar struct {
	Maxvalue string `xml:"maxvalue,attr"`
	Minvalue string `xml:"minvalue,attr"`
	Varname  string `xml:"varname,attr"`
	Vartype  string `xml:"vartype,attr"`
}

type qtiRespcondition struct {
	Continue string          `xml:"continue,attr,omitempty"`
	Cond     qtiConditionvar `xml:"conditionvar"`
	Setvars  []qtiSetvar     `xml:"setvar"`
}

type qtiConditionvar struct {
	Varequals []qtiVar  `xml:"varequal"`
	And       *qtiAnd   `xml:"and"`
	Other     *struct{} `xml:"other"`
}

type qtiAnd struct {
	Varequals []qtiVar `xml:"varequal"`
	Vargte    *qtiVar  `xml:"vargte"`
	Varlte    *qtiVar  `xml:"varlte"`
}

type qtiVar struct {
	Respident string `xml:"respident,attr"`
	Value     string `xml:",chardata"`
}

type qtiSetvar struct {
	Action  string `xml:"action,attr"`
	Varname string `xml:"varname,attr"`
	Value   string `xml:",chardata"`
}

func formatPoints(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func newResprocessing() *qtiResprocessing {
	return &qtiResprocessing{
		Outcomes: qtiOutcomes{
			Decvar: qtiDecvar{Maxvalue: "100", Minvalue: "0", Varname: "SCORE", Vartype: "Decimal"},
		},
	}
}

func setScore(action, value string) []qtiSetvar {
	return []qtiSetvar{{Action: action, Varname: "SCORE", Value: value}}
}

// buildQTI renders the whole quiz into a questestinterop document. Item
// identifiers and answer identifiers are position-based, so equal input
// always serializes identically.
func buildQTI(q *Quiz) ([]byte, error) {
	doc := qtiInterop{
		Assessment: qtiAssessment{
			Ident: q.Identifier,
			Title: q.Title,
			Metadata: qtiMetadata{Fields: []qtiField{
				{Label: "cc_maxattempts", Entry: strconv.Itoa(q.Settings.AllowedAttempts)},
			}},
			Section: qtiSection{Ident: "root_section"},
		},
	}
	for i, question := range q.Questions() {
		item, err := buildQTIItem(fmt.Sprintf("%s_q%d", q.Identifier, i+1), i+1, question)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		doc.Assessment.Section.Items = append(doc.Assessment.Section.Items, item)
	}
	return marshalXML(doc)
}

// buildQTIItem dispatches on the variant tag. The switch is exhaustive over
// the closed set: a thirteenth kind fails compilation of its caller's
// validation first, and this default is the last line of defense.
func buildQTIItem(ident string, position int, q Question) (qtiItem, error) {
	ccName, ok := ccQuestionNames[q.Type]
	if !ok {
		return qtiItem{}, fmt.Errorf("unrecognized question type %q", q.Type)
	}

	item := qtiItem{
		Ident: ident,
		Title: fmt.Sprintf("Question %d", position),
		Metadata: qtiItemMetadata{Meta: qtiMetadata{Fields: []qtiField{
			{Label: "question_type", Entry: ccName},
			{Label: "points_possible", Entry: formatPoints(q.PointsPossible)},
		}}},
		Presentation: qtiPresentation{
			Material: qtiMaterial{Mattext: qtiMattext{TextType: "text/html", Text: q.Text}},
		},
	}

	switch q.Type {
	case MultipleChoiceQuestion, TrueFalseQuestion:
		item.Presentation.Lids = []qtiResponseLid{choiceLid("response1", "Single", q.Answers)}
		proc := newResprocessing()
		for i, a := range q.Answers {
			if a.Correct {
				proc.Conditions = append(proc.Conditions, qtiRespcondition{
					Continue: "No",
					Cond:     qtiConditionvar{Varequals: []qtiVar{{Respident: "response1", Value: strconv.Itoa(i)}}},
					Setvars:  setScore("Set", "100"),
				})
			}
		}
		item.Processing = proc

	case MultipleAnswersQuestion:
		item.Presentation.Lids = []qtiResponseLid{choiceLid("response1", "Multiple", q.Answers)}
		and := &qtiAnd{}
		for i, a := range q.Answers {
			if a.Correct {
				and.Varequals = append(and.Varequals, qtiVar{Respident: "response1", Value: strconv.Itoa(i)})
			}
		}
		proc := newResprocessing()
		proc.Conditions = []qtiRespcondition{{
			Continue: "No",
			Cond:     qtiConditionvar{And: and},
			Setvars:  setScore("Set", "100"),
		}}
		item.Processing = proc

	case FillInBlankQuestion:
		item.Presentation.Strs = []qtiResponseStr{{Ident: "response1", RenderFib: qtiRenderFib{}}}
		proc := newResprocessing()
		for _, accepted := range q.Accepted {
			proc.Conditions = append(proc.Conditions, qtiRespcondition{
				Continue: "No",
				Cond:     qtiConditionvar{Varequals: []qtiVar{{Respident: "response1", Value: accepted}}},
				Setvars:  setScore("Set", "100"),
			})
		}
		item.Processing = proc

	case FillInMultipleBlanksQuestion:
		proc := newResprocessing()
		share := strconv.Itoa(100 / len(q.Blanks))
		for _, blank := range q.Blanks {
			respident := "response_" + blank.Name
			lid := qtiResponseLid{Ident: respident, RCardinality: "Single"}
			cond := qtiConditionvar{}
			for i, accepted := range blank.Accepted {
				lid.RenderChoice.Labels = append(lid.RenderChoice.Labels, qtiResponseLabel{
					Ident:    strconv.Itoa(i),
					Material: qtiMaterial{Mattext: qtiMattext{Text: accepted}},
				})
				cond.Varequals = append(cond.Varequals, qtiVar{Respident: respident, Value: strconv.Itoa(i)})
			}
			item.Presentation.Lids = append(item.Presentation.Lids, lid)
			proc.Conditions = append(proc.Conditions, qtiRespcondition{
				Continue: "Yes",
				Cond:     cond,
				Setvars:  setScore("Add", share),
			})
		}
		item.Processing = proc

	case MultipleDropdownsQuestion:
		proc := newResprocessing()
		share := strconv.Itoa(100 / len(q.Dropdowns))
		for _, dd := range q.Dropdowns {
			respident := "response_" + dd.Variable
			lid := qtiResponseLid{Ident: respident, RCardinality: "Single"}
			correct := -1
			for i, choice := range dd.Choices {
				lid.RenderChoice.Labels = append(lid.RenderChoice.Labels, qtiResponseLabel{
					Ident:    strconv.Itoa(i),
					Material: qtiMaterial{Mattext: qtiMattext{Text: choice.Text}},
				})
				if choice.Correct {
					correct = i
				}
			}
			item.Presentation.Lids = append(item.Presentation.Lids, lid)
			proc.Conditions = append(proc.Conditions, qtiRespcondition{
				Continue: "Yes",
				Cond:     qtiConditionvar{Varequals: []qtiVar{{Respident: respident, Value: strconv.Itoa(correct)}}},
				Setvars:  setScore("Add", share),
			})
		}
		item.Processing = proc

	case MatchingQuestion:
		// One shared answer pool per pair: every correct match plus every
		// distractor, in declared order.
		pool := make([]string, 0, len(q.Matches)+len(q.Distractors))
		for _, pair := range q.Matches {
			pool = append(pool, pair.Match)
		}
		pool = append(pool, q.Distractors...)

		proc := newResprocessing()
		share := strconv.Itoa(100 / len(q.Matches))
		for i, pair := range q.Matches {
			respident := fmt.Sprintf("response_%d", i+1)
			lid := qtiResponseLid{
				Ident:        respident,
				RCardinality: "Single",
				Material:     &qtiMaterial{Mattext: qtiMattext{Text: pair.Prompt}},
			}
			for j, answer := range pool {
				lid.RenderChoice.Labels = append(lid.RenderChoice.Labels, qtiResponseLabel{
					Ident:    fmt.Sprintf("answer_%d", j),
					Material: qtiMaterial{Mattext: qtiMattext{Text: answer}},
				})
			}
			item.Presentation.Lids = append(item.Presentation.Lids, lid)
			proc.Conditions = append(proc.Conditions, qtiRespcondition{
				Continue: "Yes",
				Cond:     qtiConditionvar{Varequals: []qtiVar{{Respident: respident, Value: fmt.Sprintf("answer_%d", i)}}},
				Setvars:  setScore("Add", share),
			})
		}
		item.Processing = proc

	case NumericalQuestion:
		item.Presentation.Strs = []qtiResponseStr{{Ident: "response1", RenderFib: qtiRenderFib{Fibtype: "Decimal"}}}
		proc := newResprocessing()
		spec := q.Numerical
		switch {
		case spec.Exact != nil && spec.Margin == 0:
			proc.Conditions = []qtiRespcondition{{
				Continue: "No",
				Cond:     qtiConditionvar{Varequals: []qtiVar{{Respident: "response1", Value: formatPoints(*spec.Exact)}}},
				Setvars:  setScore("Set", "100"),
			}}
		default:
			lo, hi := numericalBounds(spec)
			proc.Conditions = []qtiRespcondition{{
				Continue: "No",
				Cond: qtiConditionvar{And: &qtiAnd{
					Vargte: &qtiVar{Respident: "response1", Value: formatPoints(lo)},
					Varlte: &qtiVar{Respident: "response1", Value: formatPoints(hi)},
				}},
				Setvars: setScore("Set", "100"),
			}}
		}
		item.Processing = proc

	case FormulaQuestion:
		spec := q.Formula
		fields := &item.Metadata.Meta.Fields
		*fields = append(*fields,
			qtiField{Label: "formula", Entry: spec.Expression},
			qtiField{Label: "formula_tolerance", Entry: formatPoints(spec.Tolerance)},
		)
		for _, v := range spec.Variables {
			*fields = append(*fields, qtiField{
				Label: "formula_variable",
				Entry: fmt.Sprintf("%s %s %s %d", v.Name, formatPoints(v.Min), formatPoints(v.Max), v.Scale),
			})
		}
		item.Presentation.Strs = []qtiResponseStr{{Ident: "response1", RenderFib: qtiRenderFib{Fibtype: "Decimal"}}}
		proc := newResprocessing()
		proc.Conditions = []qtiRespcondition{{
			Continue: "No",
			Cond:     qtiConditionvar{Other: &struct{}{}},
			Setvars:  setScore("Set", "100"),
		}}
		item.Processing = proc

	case EssayQuestion:
		item.Presentation.Strs = []qtiResponseStr{{Ident: "response1", RenderFib: qtiRenderFib{Rows: 10, Columns: 80}}}
		proc := newResprocessing()
		proc.Conditions = []qtiRespcondition{{
			Continue: "No",
			Cond:     qtiConditionvar{Other: &struct{}{}},
		}}
		item.Processing = proc

	case FileUploadQuestion, TextOnlyQuestion:
		// Presentation material only; grading is manual or absent.

	default:
		return qtiItem{}, fmt.Errorf("unrecognized question type %q", q.Type)
	}

	return item, nil
}

func choiceLid(ident, cardinality string, answers []Answer) qtiResponseLid {
	lid := qtiResponseLid{Ident: ident, RCardinality: cardinality}
	for i, a := range answers {
		lid.RenderChoice.Labels = append(lid.RenderChoice.Labels, qtiResponseLabel{
			Ident:    strconv.Itoa(i),
			Material: qtiMaterial{Mattext: qtiMattext{Text: a.Text}},
		})
	}
	return lid
}

func numericalBounds(spec *NumericalSpec) (float64, float64) {
	if spec.Exact != nil {
		return *spec.Exact - spec.Margin, *spec.Exact + spec.Margin
	}
	return *spec.Min, *spec.Max
}

type assessmentMetaXML struct {
	XMLName         xml.Name `xml:"quiz"`
	Identifier      string   `xml:"identifier,attr"`
	Xmlns           string   `xml:"xmlns,attr"`
	Title           string   `xml:"title"`
	Description     string   `xml:"description"`
	QuizType        string   `xml:"quiz_type"`
	PointsPossible  float64  `xml:"points_possible"`
	AllowedAttempts int      `xml:"allowed_attempts"`
	TimeLimit       int      `xml:"time_limit,omitempty"`
	ShuffleAnswers  bool     `xml:"shuffle_answers"`
	ScoringPolicy   string   `xml:"scoring_policy"`
}

func buildAssessmentMeta(q *Quiz) ([]byte, error) {
	return marshalXML(assessmentMetaXML{
		Identifier:      q.Identifier,
		Xmlns:           canvasXmlns,
		Title:           q.Title,
		Description:     q.Description,
		QuizType:        q.Settings.QuizType,
		PointsPossible:  q.PointsPossible(),
		AllowedAttempts: q.Settings.AllowedAttempts,
		TimeLimit:       q.Settings.TimeLimit,
		ShuffleAnswers:  q.Settings.ShuffleAnswers,
		ScoringPolicy:   q.Settings.ScoringPolicy,
	})
}

// QuizRecord is the parsed view of one packaged quiz.
type QuizRecord struct {
	Identifier  string
	Title       string
	Description string
	Settings    QuizSettings
	Questions   []Question
}

// ParseAssessmentMeta decodes <id>/assessment_meta.xml. Questions are filled
// in separately by ParseQTI.
func ParseAssessmentMeta(path string, data []byte) (*QuizRecord, error) {
	var doc assessmentMetaXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	settings := DefaultQuizSettings()
	if doc.QuizType != "" {
		settings.QuizType = doc.QuizType
	}
	if doc.AllowedAttempts != 0 {
		settings.AllowedAttempts = doc.AllowedAttempts
	}
	if doc.ScoringPolicy != "" {
		settings.ScoringPolicy = doc.ScoringPolicy
	}
	settings.TimeLimit = doc.TimeLimit
	settings.ShuffleAnswers = doc.ShuffleAnswers
	return &QuizRecord{
		Identifier:  doc.Identifier,
		Title:       doc.Title,
		Description: doc.Description,
		Settings:    settings,
	}, nil
}

// ParseQTI reconstructs the question sequence from a questestinterop
// document, inverting buildQTI for every supported variant.
func ParseQTI(path string, data []byte) ([]Question, error) {
	var doc qtiInterop
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	questions := make([]Question, 0, len(doc.Assessment.Section.Items))
	for i, item := range doc.Assessment.Section.Items {
		q, err := parseQTIItem(item)
		if err != nil {
			return nil, &FormatError{Path: path, Err: fmt.Errorf("item %d: %w", i+1, err)}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func metaEntry(meta qtiMetadata, label string) (string, bool) {
	for _, f := range meta.Fields {
		if f.Label == label {
			return f.Entry, true
		}
	}
	return "", false
}

func parseQTIItem(item qtiItem) (Question, error) {
	ccName, ok := metaEntry(item.Metadata.Meta, "question_type")
	if !ok {
		return Question{}, fmt.Errorf("missing question_type metadata")
	}
	qtype, ok := QuestionTypeFromCC(ccName)
	if !ok {
		return Question{}, fmt.Errorf("unsupported question type %q", ccName)
	}

	q := Question{
		Type: qtype,
		Text: item.Presentation.Material.Mattext.Text,
	}
	if entry, ok := metaEntry(item.Metadata.Meta, "points_possible"); ok {
		points, err := strconv.ParseFloat(entry, 64)
		if err != nil {
			return Question{}, fmt.Errorf("bad points_possible %q", entry)
		}
		q.PointsPossible = points
	}

	switch qtype {
	case MultipleChoiceQuestion, TrueFalseQuestion:
		q.Answers = parseChoiceAnswers(item, singleCorrectIdents(item))

	case MultipleAnswersQuestion:
		correct := make(map[string]bool)
		if item.Processing != nil {
			for _, cond := range item.Processing.Conditions {
				if cond.Cond.And == nil {
					continue
				}
				for _, v := range cond.Cond.And.Varequals {
					correct[v.Value] = true
				}
			}
		}
		q.Answers = parseChoiceAnswers(item, correct)

	case FillInBlankQuestion:
		if item.Processing != nil {
			for _, cond := range item.Processing.Conditions {
				for _, v := range cond.Cond.Varequals {
					q.Accepted = append(q.Accepted, v.Value)
				}
			}
		}

	case FillInMultipleBlanksQuestion:
		for _, lid := range item.Presentation.Lids {
			blank := Blank{Name: strings.TrimPrefix(lid.Ident, "response_")}
			for _, label := range lid.RenderChoice.Labels {
				blank.Accepted = append(blank.Accepted, label.Material.Mattext.Text)
			}
			q.Blanks = append(q.Blanks, blank)
		}

	case MultipleDropdownsQuestion:
		correctByResp := correctIdentsByRespident(item)
		for _, lid := range item.Presentation.Lids {
			dd := Dropdown{Variable: strings.TrimPrefix(lid.Ident, "response_")}
			for i, label := range lid.RenderChoice.Labels {
				dd.Choices = append(dd.Choices, Answer{
					Text:    label.Material.Mattext.Text,
					Correct: correctByResp[lid.Ident] == strconv.Itoa(i),
				})
			}
			q.Dropdowns = append(q.Dropdowns, dd)
		}

	case MatchingQuestion:
		q.Matches, q.Distractors = parseMatching(item)

	case NumericalQuestion:
		spec := &NumericalSpec{}
		if item.Processing != nil && len(item.Processing.Conditions) > 0 {
			cond := item.Processing.Conditions[0].Cond
			switch {
			case len(cond.Varequals) > 0:
				exact, err := strconv.ParseFloat(cond.Varequals[0].Value, 64)
				if err != nil {
					return Question{}, fmt.Errorf("bad numerical answer %q", cond.Varequals[0].Value)
				}
				spec.Exact = &exact
			case cond.And != nil && cond.And.Vargte != nil && cond.And.Varlte != nil:
				lo, err1 := strconv.ParseFloat(cond.And.Vargte.Value, 64)
				hi, err2 := strconv.ParseFloat(cond.And.Varlte.Value, 64)
				if err1 != nil || err2 != nil {
					return Question{}, fmt.Errorf("bad numerical range")
				}
				spec.Min, spec.Max = &lo, &hi
			}
		}
		q.Numerical = spec

	case FormulaQuestion:
		spec := &FormulaSpec{}
		spec.Expression, _ = metaEntry(item.Metadata.Meta, "formula")
		if entry, ok := metaEntry(item.Metadata.Meta, "formula_tolerance"); ok {
			tolerance, err := strconv.ParseFloat(entry, 64)
			if err != nil {
				return Question{}, fmt.Errorf("bad formula tolerance %q", entry)
			}
			spec.Tolerance = tolerance
		}
		for _, f := range item.Metadata.Meta.Fields {
			if f.Label != "formula_variable" {
				continue
			}
			parts := strings.Fields(f.Entry)
			if len(parts) != 4 {
				return Question{}, fmt.Errorf("bad formula variable %q", f.Entry)
			}
			vmin, err1 := strconv.ParseFloat(parts[1], 64)
			vmax, err2 := strconv.ParseFloat(parts[2], 64)
			scale, err3 := strconv.Atoi(parts[3])
			if err1 != nil || err2 != nil || err3 != nil {
				return Question{}, fmt.Errorf("bad formula variable %q", f.Entry)
			}
			spec.Variables = append(spec.Variables, FormulaVariable{
				Name: parts[0], Min: vmin, Max: vmax, Scale: scale,
			})
		}
		q.Formula = spec

	case EssayQuestion, FileUploadQuestion, TextOnlyQuestion:
		// No payload beyond the shared fields.
	}

	return q, nil
}

// singleCorrectIdents collects answer idents marked correct via one varequal
// per respcondition.
func singleCorrectIdents(item qtiItem) map[string]bool {
	correct := make(map[string]bool)
	if item.Processing == nil {
		return correct
	}
	for _, cond := range item.Processing.Conditions {
		for _, v := range cond.Cond.Varequals {
			correct[v.Value] = true
		}
	}
	return correct
}

// correctIdentsByRespident maps each response ident to its correct answer
// ident for per-response conditions (dropdowns, matching).
func correctIdentsByRespident(item qtiItem) map[string]string {
	correct := make(map[string]string)
	if item.Processing == nil {
		return correct
	}
	for _, cond := range item.Processing.Conditions {
		for _, v := range cond.Cond.Varequals {
			correct[v.Respident] = v.Value
		}
	}
	return correct
}

func parseChoiceAnswers(item qtiItem, correct map[string]bool) []Answer {
	if len(item.Presentation.Lids) == 0 {
		return nil
	}
	var answers []Answer
	for _, label := range item.Presentation.Lids[0].RenderChoice.Labels {
		answers = append(answers, Answer{
			Text:    label.Material.Mattext.Text,
			Correct: correct[label.Ident],
		})
	}
	return answers
}

func parseMatching(item qtiItem) ([]MatchPair, []string) {
	correctByResp := correctIdentsByRespident(item)

	var pairs []MatchPair
	usedAnswers := make(map[string]bool)
	var pool []qtiResponseLabel
	for i, lid := range item.Presentation.Lids {
		if i == 0 {
			pool = lid.RenderChoice.Labels
		}
		prompt := ""
		if lid.Material != nil {
			prompt = lid.Material.Mattext.Text
		}
		match := ""
		if ident, ok := correctByResp[lid.Ident]; ok {
			for _, label := range lid.RenderChoice.Labels {
				if label.Ident == ident {
					match = label.Material.Mattext.Text
					usedAnswers[ident] = true
					break
				}
			}
		}
		pairs = append(pairs, MatchPair{Prompt: prompt, Match: match})
	}

	var distractors []string
	for _, label := range pool {
		if !usedAnswers[label.Ident] {
			distractors = append(distractors, label.Material.Mattext.Text)
		}
	}
	return pairs, distractors
}
