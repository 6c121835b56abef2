// SPDX-License-Identifier: MPL-2.0

// Package template converts between the local editable template tree and the
// in-memory course graph: Load builds a course from a tree, Extract rebuilds
// a tree from a package's staged files.
package template

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"coursecart/internal/slug"
	"coursecart/pkg/cartridge"
)

// Load reads a template tree into a course graph. Record schema violations
// and duplicate derived identifiers are batched into one ValidationError;
// unresolved module references are deliberately left in place so the build
// pass reports them together with everything else.
func Load(dir string) (*cartridge.Course, error) {
	verr := &cartridge.ValidationError{}

	course, record, err := loadCourseRecord(dir, verr)
	if err != nil {
		return nil, err
	}

	pages := loadPages(dir, course, verr)
	rubrics := loadRubrics(dir, course, verr)
	assignments := loadAssignments(dir, course, rubrics, verr)
	loadGroups(course, record, assignments, verr)
	quizzes := loadQuizzes(dir, course, verr)
	if err := loadResources(dir, course); err != nil {
		return nil, err
	}
	loadModules(dir, course, pages, quizzes, assignments, verr)

	if verr.HasIssues() {
		return nil, verr
	}
	return course, nil
}

func loadCourseRecord(dir string, verr *cartridge.ValidationError) (*cartridge.Course, courseRecord, error) {
	record := courseRecord{Title: filepath.Base(dir)}

	data, err := os.ReadFile(filepath.Join(dir, "course.json"))
	switch {
	case err == nil:
		if validateRecord(verr, courseSchema, "course.json", data) {
			if err := json.Unmarshal(data, &record); err != nil {
				verr.Add("record", "course.json", err.Error())
			}
		}
	case os.IsNotExist(err):
		// A bare tree of pages is a valid course; defaults apply.
	default:
		return nil, courseRecord{}, fmt.Errorf("failed to read course.json: %w", err)
	}

	seed := record.CourseCode
	if seed == "" {
		seed = record.Title
	}
	course := cartridge.New(cartridge.CourseOptions{
		Title:       record.Title,
		CourseCode:  record.CourseCode,
		License:     record.License,
		DefaultView: record.DefaultView,
		IsPublic:    record.IsPublic,
		Seed:        seed,
	})
	return course, record, nil
}

func loadPages(dir string, course *cartridge.Course, verr *cartridge.ValidationError) map[string]*cartridge.WikiPage {
	pages := make(map[string]*cartridge.WikiPage)
	entries, err := os.ReadDir(filepath.Join(dir, "wiki_content"))
	if err != nil {
		return pages
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, "wiki_content", entry.Name()))
		if err != nil {
			verr.Add("record", "wiki_content/"+entry.Name(), err.Error())
			continue
		}
		stem := slug.Stem(entry.Name())
		meta, body := splitMeta(string(data))
		title := meta.Title
		if title == "" {
			title = humanize(stem)
		}
		page := course.AddPage(cartridge.PageOptions{
			Title:         title,
			Body:          strings.TrimRight(body, "\n"),
			Filename:      stem,
			WorkflowState: meta.WorkflowState,
			EditingRoles:  meta.EditingRoles,
			FrontPage:     meta.FrontPage,
		})
		pages[stem] = page
	}
	return pages
}

func loadRubrics(dir string, course *cartridge.Course, verr *cartridge.ValidationError) map[string]*cartridge.Rubric {
	rubrics := make(map[string]*cartridge.Rubric)
	forEachRecord(dir, "rubrics", verr, func(stem string, data []byte) {
		if !validateRecord(verr, rubricSchema, "rubrics/"+stem+".json", data) {
			return
		}
		var record rubricRecord
		if err := json.Unmarshal(data, &record); err != nil {
			verr.Add("record", "rubrics/"+stem+".json", err.Error())
			return
		}
		rubrics[stem] = course.AddRubric(record.Title, record.Criteria)
	})
	return rubrics
}

func loadAssignments(dir string, course *cartridge.Course, rubrics map[string]*cartridge.Rubric, verr *cartridge.ValidationError) map[string]*cartridge.Assignment {
	assignments := make(map[string]*cartridge.Assignment)
	forEachRecord(dir, "assignments", verr, func(stem string, data []byte) {
		path := "assignments/" + stem + ".json"
		if !validateRecord(verr, assignmentSchema, path, data) {
			return
		}
		var record assignmentRecord
		if err := json.Unmarshal(data, &record); err != nil {
			verr.Add("record", path, err.Error())
			return
		}
		opts := cartridge.AssignmentOptions{
			Title:             record.Title,
			Description:       record.Description,
			PointsPossible:    record.PointsPossible,
			SubmissionTypes:   record.SubmissionTypes,
			AllowedExtensions: record.AllowedExtensions,
			GradingType:       record.GradingType,
		}
		if record.Rubric != "" {
			rubric, ok := rubrics[record.Rubric]
			if !ok {
				verr.Add("reference", path, fmt.Sprintf("rubric %q not found", record.Rubric))
				return
			}
			opts.Rubric = rubric
		}
		a, err := course.AddAssignment(stem+".json", opts)
		if err != nil {
			verr.Add("identifier", path, err.Error())
			return
		}
		assignments[stem] = a
	})
	return assignments
}

func loadGroups(course *cartridge.Course, record courseRecord, assignments map[string]*cartridge.Assignment, verr *cartridge.ValidationError) {
	for _, g := range record.AssignmentGroups {
		group := course.AddAssignmentGroup(g.Title, g.Weight)
		for _, stem := range g.Assignments {
			a, ok := assignments[stem]
			if !ok {
				verr.Add("reference", "course.json",
					fmt.Sprintf("assignment group %q references unknown assignment %q", g.Title, stem))
				continue
			}
			group.Add(a)
		}
	}
}

func loadQuizzes(dir string, course *cartridge.Course, verr *cartridge.ValidationError) map[string]*cartridge.Quiz {
	quizzes := make(map[string]*cartridge.Quiz)
	forEachRecord(dir, "quizzes", verr, func(stem string, data []byte) {
		path := "quizzes/" + stem + ".json"
		if !validateRecord(verr, quizSchema, path, data) {
			return
		}
		var record quizRecord
		if err := json.Unmarshal(data, &record); err != nil {
			verr.Add("record", path, err.Error())
			return
		}
		settings := cartridge.DefaultQuizSettings()
		record.Settings.apply(&settings)
		quiz := course.AddQuiz(cartridge.QuizOptions{
			Title:       record.Title,
			Description: record.Description,
			Settings:    &settings,
		})
		for _, question := range record.Questions {
			quiz.AddQuestion(question)
		}
		quizzes[stem] = quiz
	})
	return quizzes
}

func loadResources(dir string, course *cartridge.Course) error {
	root := filepath.Join(dir, "web_resources")
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read resource %s: %w", rel, err)
		}
		course.AddResource(filepath.ToSlash(rel), data)
		return nil
	})
}

func loadModules(dir string, course *cartridge.Course, pages map[string]*cartridge.WikiPage, quizzes map[string]*cartridge.Quiz, assignments map[string]*cartridge.Assignment, verr *cartridge.ValidationError) {
	data, err := os.ReadFile(filepath.Join(dir, "modules.json"))
	if err != nil {
		return
	}
	if !validateRecord(verr, modulesSchema, "modules.json", data) {
		return
	}
	var record modulesRecord
	if err := json.Unmarshal(data, &record); err != nil {
		verr.Add("record", "modules.json", err.Error())
		return
	}

	for _, m := range record.Modules {
		module := course.NewModule(m.Title)
		for _, item := range m.Items {
			switch item.Type {
			case "page":
				if page, ok := pages[item.Ref]; ok {
					module.AddRef(cartridge.ContentWikiPage, page.Identifier, itemTitle(item, page.Title), item.Indent)
					continue
				}
				// Unresolvable refs are kept so the build pass can report
				// them all together.
				module.AddRef(cartridge.ContentWikiPage, item.Ref, itemTitle(item, item.Ref), item.Indent)
			case "quiz":
				if quiz, ok := quizzes[item.Ref]; ok {
					module.AddRef(cartridge.ContentQuiz, quiz.Identifier, itemTitle(item, quiz.Title), item.Indent)
					continue
				}
				module.AddRef(cartridge.ContentQuiz, item.Ref, itemTitle(item, item.Ref), item.Indent)
			case "assignment":
				if a, ok := assignments[item.Ref]; ok {
					module.AddRef(cartridge.ContentAssignment, a.Identifier, itemTitle(item, a.Title), item.Indent)
					continue
				}
				module.AddRef(cartridge.ContentAssignment, item.Ref, itemTitle(item, item.Ref), item.Indent)
			}
		}
	}
}

func itemTitle(item moduleItemRecord, fallback string) string {
	if item.Title != "" {
		return item.Title
	}
	return fallback
}

// forEachRecord invokes fn for every .json file in dir/sub, in lexical
// order. A missing directory is not an error.
func forEachRecord(dir, sub string, verr *cartridge.ValidationError, fn func(stem string, data []byte)) {
	entries, err := os.ReadDir(filepath.Join(dir, sub))
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, sub, entry.Name()))
		if err != nil {
			verr.Add("record", sub+"/"+entry.Name(), err.Error())
			continue
		}
		fn(slug.Stem(entry.Name()), data)
	}
}

// humanize turns a filename stem into a display title, e.g.
// "lesson-1" -> "Lesson 1".
func humanize(stem string) string {
	words := strings.Split(stem, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
