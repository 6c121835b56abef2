// SPDX-License-Identifier: MPL-2.0

package cartridge

// Resource is an opaque file carried through the package byte-for-byte.
type Resource struct {
	// Identifier is registry-minted at creation.
	Identifier string
	// Path is the package-relative destination under web_resources/,
	// always forward-slash separated.
	Path string
	// Data is the raw file content.
	Data []byte
}
