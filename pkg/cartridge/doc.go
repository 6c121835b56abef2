// SPDX-License-Identifier: MPL-2.0

// Package cartridge implements the core course-packaging engine: an
// identifier registry scoped to a single course, the in-memory entity model
// (pages, modules, quizzes with twelve question variants, assignments,
// assignment groups, rubrics, file resources), and the manifest assembler
// that walks the entity graph into an IMS Common Cartridge file set.
//
// A Course and its registry are single-writer: callers needing parallel
// builds must construct independent Course instances. Build stages every
// output file in memory; nothing touches disk until the caller hands the
// staged package to an archive writer.
package cartridge
