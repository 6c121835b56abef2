// SPDX-License-Identifier: MPL-2.0

// Package links implements the bidirectional hyperlink transform between
// locally-previewable relative links and package-internal reference tokens.
// Both directions are pure functions over an HTML fragment; neither parses
// the document beyond href/src attribute values.
package links

import (
	"fmt"
	"regexp"
	"strings"

	"coursecart/internal/slug"
)

// Reference tokens recognized in page content.
const (
	FileBaseToken  = "$IMS-CC-FILEBASE$"
	ObjectRefToken = "$CANVAS_OBJECT_REFERENCE$"
	WikiRefToken   = "$WIKI_REFERENCE$"
)

// attrRegex captures href and src attribute values. Rewriting works on the
// value alone, so surrounding markup passes through untouched.
var attrRegex = regexp.MustCompile(`(href|src)="([^"]*)"`)

// Warning flags a token that could not be resolved during import. The
// content is preserved as-is; warnings are never fatal.
type Warning struct {
	// Ref is the unresolved token value.
	Ref string
	// Message describes why resolution failed.
	Message string
}

// String renders the warning for display.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Ref, w.Message)
}

// Export rewrites an HTML fragment from template-relative links to package
// reference tokens. Rules in priority order: recognized tokens pass through
// unchanged (the rewrite is idempotent), relative paths into the resource
// area become file-base tokens, sibling .html references become pages
// object-reference tokens, and everything else is left alone.
func Export(html string) string {
	return attrRegex.ReplaceAllStringFunc(html, func(attr string) string {
		m := attrRegex.FindStringSubmatch(attr)
		return m[1] + `="` + exportValue(m[2]) + `"`
	})
}

func exportValue(v string) string {
	// Already a token: never double-rewrite.
	if strings.HasPrefix(v, "$") {
		return v
	}
	// Relative path into the resource area, segments preserved verbatim.
	if rest, ok := strings.CutPrefix(v, "../web_resources/"); ok {
		return FileBaseToken + "/web_resources/" + rest
	}
	if rest, ok := strings.CutPrefix(v, "web_resources/"); ok {
		return FileBaseToken + "/web_resources/" + rest
	}
	// Absolute URLs, mailto:, anchors, and rooted paths stay authored.
	if strings.Contains(v, "://") || strings.Contains(v, ":") ||
		strings.HasPrefix(v, "#") || strings.HasPrefix(v, "/") {
		return v
	}
	// Sibling page reference: same-folder .html file.
	if strings.HasSuffix(v, ".html") && !strings.Contains(v, "/") {
		return ObjectRefToken + "/pages/" + slug.Make(slug.Stem(v))
	}
	return v
}

// ImportContext carries the manifest-derived resolution tables built by the
// template extractor.
type ImportContext struct {
	// PageStems maps a page slug to its template filename stem. The two are
	// usually identical; the table exists so only known pages resolve.
	PageStems map[string]string
	// PageIDs maps a page's registry identifier to its filename stem, used
	// for wiki-reference tokens that address pages by identifier.
	PageIDs map[string]string
}

// Import rewrites an HTML fragment from package reference tokens back to
// template-relative links. A token with no entry in the context tables is
// preserved as-is and reported as a non-fatal warning.
func Import(html string, ctx ImportContext) (string, []Warning) {
	var warnings []Warning
	out := attrRegex.ReplaceAllStringFunc(html, func(attr string) string {
		m := attrRegex.FindStringSubmatch(attr)
		v, w := importValue(m[2], ctx)
		if w != nil {
			warnings = append(warnings, *w)
		}
		return m[1] + `="` + v + `"`
	})
	return out, warnings
}

func importValue(v string, ctx ImportContext) (string, *Warning) {
	if rest, ok := strings.CutPrefix(v, FileBaseToken+"/"); ok {
		// Foreign packages write token paths relative to the resource root,
		// without the web_resources/ segment the local layout needs.
		if !strings.HasPrefix(rest, "web_resources/") {
			rest = "web_resources/" + rest
		}
		return "../" + rest, nil
	}
	if rest, ok := strings.CutPrefix(v, ObjectRefToken+"/pages/"); ok {
		if stem, known := ctx.PageStems[rest]; known {
			return stem + ".html", nil
		}
		return v, &Warning{Ref: v, Message: "no page with this slug in the package"}
	}
	if rest, ok := strings.CutPrefix(v, WikiRefToken+"/pages/"); ok {
		if stem, known := ctx.PageIDs[rest]; known {
			return stem + ".html", nil
		}
		return v, &Warning{Ref: v, Message: "no page with this identifier in the package"}
	}
	// Object references to other content kinds (assignments, quizzes) are
	// author-owned and survive the round trip untouched.
	return v, nil
}
