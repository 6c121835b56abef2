// SPDX-License-Identifier: MPL-2.0

package cartridge

import (
	"fmt"
	"strings"
)

// DuplicateIdentifierError reports a derived identifier that collides with
// one already registered. Derivation never overwrites silently.
type DuplicateIdentifierError struct {
	// ID is the slug that collided.
	ID string
	// Kind is the entity kind whose derivation failed.
	Kind Kind
}

// Error implements the error interface.
func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate identifier %q for %s: already registered", e.ID, e.Kind)
}

// UnresolvedReferenceError reports a registry lookup miss.
type UnresolvedReferenceError struct {
	// Ref is the identifier that failed to resolve.
	Ref string
}

// Error implements the error interface.
func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %q", e.Ref)
}

// Issue represents a single validation problem found while checking a course
// graph or a template record.
type Issue struct {
	// Type categorizes the issue (e.g., "reference", "question", "record").
	Type string
	// Path locates the issue (module title, quiz/question position, file path).
	Path string
	// Message describes the specific problem.
	Message string
}

// Error implements the error interface for Issue.
func (i Issue) Error() string {
	if i.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", i.Type, i.Path, i.Message)
	}
	return fmt.Sprintf("[%s] %s", i.Type, i.Message)
}

// ValidationError carries every validation issue found in one pass. Checks
// are batched: the caller sees the complete list, not just the first hit.
type ValidationError struct {
	Issues []Issue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Error())
	}
	return fmt.Sprintf("validation failed with %d issue(s): %s", len(e.Issues), strings.Join(msgs, "; "))
}

// Add appends an issue to the batch.
func (e *ValidationError) Add(issueType, path, message string) {
	e.Issues = append(e.Issues, Issue{Type: issueType, Path: path, Message: message})
}

// HasIssues reports whether any issue was collected.
func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// FormatError reports an input package whose manifest or entity payload does
// not match the supported schema subset. Individual unsupported resources are
// not format errors; only unparsable structure is.
type FormatError struct {
	// Path is the package-relative path of the offending document.
	Path string
	// Err is the underlying parse failure.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported package format in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error {
	return e.Err
}
