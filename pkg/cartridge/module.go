// SPDX-License-Identifier: MPL-2.0

package cartridge

// Content-type tags carried by module items, matching the platform's
// polymorphic content_tag types.
const (
	ContentWikiPage   = "WikiPage"
	ContentQuiz       = "Quizzes::Quiz"
	ContentAssignment = "Assignment"
)

// ModuleItem is an ordered, indentable pointer from a module to a content
// entity. The reference is weak: IdentifierRef is looked up against the
// course registry at assembly time, never an ownership edge.
type ModuleItem struct {
	// Identifier is the item's own registry-minted identifier.
	Identifier string
	// ContentType tags the referenced entity (ContentWikiPage, ...).
	ContentType string
	// IdentifierRef names the referenced entity in the registry.
	IdentifierRef string
	// Title is the display title shown in the module listing.
	Title string
	// Indent is the nesting level within the module listing.
	Indent int
}

// Module holds an ordered sequence of items. Insertion order is significant
// and preserved through assembly.
type Module struct {
	Identifier string
	Title      string

	items    []ModuleItem
	registry *Registry
}

// Items returns the module's items in insertion order.
func (m *Module) Items() []ModuleItem {
	return m.items
}

// AddRef appends an item pointing at identifierRef with the given content
// type. The reference is not checked here; unresolved references surface,
// batched, when the course is built.
func (m *Module) AddRef(contentType, identifierRef, title string, indent int) *ModuleItem {
	item := ModuleItem{
		Identifier:    m.registry.Mint(KindModuleItem),
		ContentType:   contentType,
		IdentifierRef: identifierRef,
		Title:         title,
		Indent:        indent,
	}
	m.items = append(m.items, item)
	return &m.items[len(m.items)-1]
}

// AddPage appends an item for a page at indent 0.
func (m *Module) AddPage(p *WikiPage) *ModuleItem {
	return m.AddRef(ContentWikiPage, p.Identifier, p.Title, 0)
}

// AddQuiz appends an item for a quiz at indent 0.
func (m *Module) AddQuiz(q *Quiz) *ModuleItem {
	return m.AddRef(ContentQuiz, q.Identifier, q.Title, 0)
}

// AddAssignment appends an item for an assignment at indent 0.
func (m *Module) AddAssignment(a *Assignment) *ModuleItem {
	return m.AddRef(ContentAssignment, a.Identifier, a.Title, 0)
}
