// SPDX-License-Identifier: MPL-2.0

package cartridge

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"coursecart/internal/slug"
)

// Kind identifies what sort of entity an identifier belongs to.
type Kind string

// Entity kinds registered in a course registry.
const (
	KindPage            Kind = "page"
	KindModule          Kind = "module"
	KindModuleItem      Kind = "module_item"
	KindQuiz            Kind = "quiz"
	KindAssignment      Kind = "assignment"
	KindAssignmentGroup Kind = "assignment_group"
	KindRubric          Kind = "rubric"
	KindResource        Kind = "resource"
	KindCourse          Kind = "course"
)

// Entry is a registered identifier together with the entity it names.
type Entry struct {
	ID     string
	Kind   Kind
	Entity any
}

// Registry assigns and resolves entity identifiers for one Course instance.
// It is owned by exactly one Course; there is no process-wide registry, so
// independent courses can be built and tested in isolation.
type Registry struct {
	salt    []byte
	seq     uint64
	entries map[string]Entry
}

// NewRegistry returns a registry whose minted identifiers are salted with
// random bytes. Repeated builds from equivalent input produce different
// generated identifiers; use NewSeededRegistry for reproducible output.
func NewRegistry() *Registry {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		// crypto/rand failure means the platform RNG is broken
		panic(fmt.Sprintf("registry salt: %v", err))
	}
	return &Registry{salt: salt, entries: make(map[string]Entry)}
}

// NewSeededRegistry returns a registry whose minted identifiers are a pure
// function of seed and mint order, making repeated builds byte-reproducible.
func NewSeededRegistry(seed string) *Registry {
	return &Registry{salt: []byte(seed), entries: make(map[string]Entry)}
}

// Mint generates a fresh identifier for kind. Uniqueness within the registry
// holds by construction: each call hashes a monotonically increasing sequence
// number together with the registry salt.
func (r *Registry) Mint(kind Kind) string {
	r.seq++
	h := sha1.New()
	h.Write(r.salt)
	fmt.Fprintf(h, "|%s|%d", kind, r.seq)
	sum := h.Sum(nil)
	return "i" + hex.EncodeToString(sum[:16])
}

// Derive normalizes sourceName (a filename or filename stem) into a slug
// identifier. Derivation is deterministic: equal normalized stems always
// yield the identical identifier. A slug that collides with any registered
// identifier fails with DuplicateIdentifierError; there is no silent
// overwrite.
func (r *Registry) Derive(kind Kind, sourceName string) (string, error) {
	id := slug.Make(slug.Stem(sourceName))
	if id == "" {
		return "", fmt.Errorf("cannot derive identifier from %q: normalizes to empty slug", sourceName)
	}
	if _, exists := r.entries[id]; exists {
		return "", &DuplicateIdentifierError{ID: id, Kind: kind}
	}
	return id, nil
}

// Register records an identifier with its entity. Registering an identifier
// twice fails with DuplicateIdentifierError.
func (r *Registry) Register(id string, kind Kind, entity any) error {
	if _, exists := r.entries[id]; exists {
		return &DuplicateIdentifierError{ID: id, Kind: kind}
	}
	r.entries[id] = Entry{ID: id, Kind: kind, Entity: entity}
	return nil
}

// Resolve looks up a registered identifier, failing with
// UnresolvedReferenceError when it is absent.
func (r *Registry) Resolve(ref string) (Entry, error) {
	entry, ok := r.entries[ref]
	if !ok {
		return Entry{}, &UnresolvedReferenceError{Ref: ref}
	}
	return entry, nil
}

// Has reports whether ref resolves without returning the entry.
func (r *Registry) Has(ref string) bool {
	_, ok := r.entries[ref]
	return ok
}

// Len returns the number of registered identifiers.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Slugify exposes the shared normalization rule: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, trimmed.
func Slugify(name string) string {
	return slug.Make(name)
}
