// SPDX-License-Identifier: MPL-2.0

package template

import (
	"regexp"
	"strings"
)

// metaOpen and metaClose delimit the non-rendered metadata header a template
// page may embed at the top of its HTML file. The header is consumed by the
// loader and emitted by the extractor; it is never part of the page body.
const (
	metaOpen  = "<!-- CANVAS_META"
	metaClose = "-->"
)

var metaBlockRegex = regexp.MustCompile(`(?s)^\s*<!-- CANVAS_META\n(.*?)-->\n?`)

// pageMeta is the parsed metadata header of one template page.
type pageMeta struct {
	Title         string
	FrontPage     bool
	WorkflowState string
	EditingRoles  string
}

// splitMeta separates a template page into its metadata header and body.
// A page without a header yields a zero pageMeta and the unchanged content.
func splitMeta(content string) (pageMeta, string) {
	var meta pageMeta
	m := metaBlockRegex.FindStringSubmatch(content)
	if m == nil {
		return meta, content
	}
	for _, line := range strings.Split(m[1], "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "title":
			meta.Title = value
		case "home":
			meta.FrontPage = value == "true"
		case "workflow_state":
			meta.WorkflowState = value
		case "editing_roles":
			meta.EditingRoles = value
		}
	}
	return meta, content[len(m[0]):]
}

// renderMeta prepends a metadata header to a page body. Only non-default
// fields are written so hand-authored templates stay minimal.
func renderMeta(meta pageMeta, body string) string {
	var sb strings.Builder
	sb.WriteString(metaOpen + "\n")
	sb.WriteString("title: " + meta.Title + "\n")
	if meta.FrontPage {
		sb.WriteString("home: true\n")
	}
	if meta.WorkflowState != "" && meta.WorkflowState != "active" {
		sb.WriteString("workflow_state: " + meta.WorkflowState + "\n")
	}
	if meta.EditingRoles != "" && meta.EditingRoles != "teachers" {
		sb.WriteString("editing_roles: " + meta.EditingRoles + "\n")
	}
	sb.WriteString(metaClose + "\n")
	sb.WriteString(body)
	return sb.String()
}
