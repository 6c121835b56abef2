// SPDX-License-Identifier: MPL-2.0

package template

import (
	"embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"coursecart/pkg/cartridge"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// loadSchema compiles one embedded schema. Failure means the binary itself
// is broken, so it panics at package init rather than returning an error.
func loadSchema(name string) *gojsonschema.Schema {
	data, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("embedded schema %s: %v", name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("embedded schema %s: %v", name, err))
	}
	return schema
}

var (
	courseSchema     = loadSchema("course.schema.json")
	modulesSchema    = loadSchema("modules.schema.json")
	quizSchema       = loadSchema("quiz.schema.json")
	assignmentSchema = loadSchema("assignment.schema.json")
	rubricSchema     = loadSchema("rubric.schema.json")
)

// validateRecord checks one JSON document against its schema, appending one
// issue per violation. Unknown keys are violations: every record schema sets
// additionalProperties to false.
func validateRecord(verr *cartridge.ValidationError, schema *gojsonschema.Schema, path string, data []byte) bool {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		verr.Add("record", path, fmt.Sprintf("not valid JSON: %v", err))
		return false
	}
	if result.Valid() {
		return true
	}
	for _, desc := range result.Errors() {
		verr.Add("record", path, desc.String())
	}
	return false
}
