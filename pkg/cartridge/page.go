// SPDX-License-Identifier: MPL-2.0

package cartridge

// WikiPage is a single HTML content page. The body is stored as authored;
// hyperlink rewriting into package-reference tokens happens at build time.
type WikiPage struct {
	// Identifier is registry-minted at creation.
	Identifier string
	// Title is the human-readable page title.
	Title string
	// Body is the HTML fragment between the page wrapper tags.
	Body string
	// WorkflowState is "active" or "unpublished".
	WorkflowState string
	// EditingRoles restricts who may edit the page on the platform.
	EditingRoles string
	// FrontPage marks the course home page.
	FrontPage bool
	// Filename is the template filename stem the page was authored under;
	// it doubles as the page slug in object-reference tokens.
	Filename string
}

// PageOptions configures AddPage. Zero-value fields receive defaults.
type PageOptions struct {
	Title string
	Body  string
	// Filename is the template filename stem. Defaults to the slugified title.
	Filename string
	// WorkflowState defaults to "active".
	WorkflowState string
	// EditingRoles defaults to "teachers".
	EditingRoles string
	FrontPage    bool
}

// Slug returns the page's object-reference slug.
func (p *WikiPage) Slug() string {
	if p.Filename != "" {
		return Slugify(p.Filename)
	}
	return Slugify(p.Title)
}
