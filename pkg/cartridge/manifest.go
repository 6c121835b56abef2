// SPDX-License-Identifier: MPL-2.0

package cartridge

import (
	"encoding/xml"
	"fmt"
)

// ManifestPath is the fixed root path of the package manifest.
const ManifestPath = "imsmanifest.xml"

// Manifest resource type tags for the supported subset.
const (
	TypeWebContent  = "webcontent"
	TypeAssessment  = "imsqti_xmlv1p2/imscc_xmlv1p1/assessment"
	TypeAppResource = "associatedcontent/imscc_xmlv1p1/learning-application-resource"
)

type manifestXML struct {
	XMLName       xml.Name         `xml:"manifest"`
	Identifier    string           `xml:"identifier,attr"`
	Xmlns         string           `xml:"xmlns,attr"`
	Metadata      manifestMetadata `xml:"metadata"`
	Organizations manifestOrgs     `xml:"organizations"`
	Resources     manifestRes      `xml:"resources"`
}

type manifestMetadata struct {
	Schema        string `xml:"schema"`
	SchemaVersion string `xml:"schemaversion"`
}

type manifestOrgs struct {
	Organization manifestOrg `xml:"organization"`
}

type manifestOrg struct {
	Identifier string    `xml:"identifier,attr"`
	Structure  string    `xml:"structure,attr"`
	Items      []orgItem `xml:"item"`
}

type orgItem struct {
	Identifier    string    `xml:"identifier,attr"`
	IdentifierRef string    `xml:"identifierref,attr,omitempty"`
	Title         string    `xml:"title,omitempty"`
	Items         []orgItem `xml:"item"`
}

type manifestRes struct {
	Resources []resourceXML `xml:"resource"`
}

type resourceXML struct {
	Identifier   string          `xml:"identifier,attr"`
	Type         string          `xml:"type,attr"`
	Href         string          `xml:"href,attr,omitempty"`
	Files        []fileXML       `xml:"file"`
	Dependencies []dependencyXML `xml:"dependency"`
}

type fileXML struct {
	Href string `xml:"href,attr"`
}

type dependencyXML struct {
	IdentifierRef string `xml:"identifierref,attr"`
}

// buildManifest emits imsmanifest.xml for the whole course graph. Resource
// and organization ordering mirrors entity insertion order exactly.
func (c *Course) buildManifest() ([]byte, error) {
	root := orgItem{Identifier: "LearningModules"}
	for _, m := range c.Modules() {
		moduleNode := orgItem{Identifier: m.Identifier, Title: m.Title}
		for _, item := range m.Items() {
			moduleNode.Items = append(moduleNode.Items, orgItem{
				Identifier:    item.Identifier,
				IdentifierRef: item.IdentifierRef,
				Title:         item.Title,
			})
		}
		root.Items = append(root.Items, moduleNode)
	}

	doc := manifestXML{
		Identifier: c.Identifier + "_manifest",
		Xmlns:      "http://www.imsglobal.org/xsd/imsccv1p1/imscp_v1p1",
		Metadata: manifestMetadata{
			Schema:        "IMS Common Cartridge",
			SchemaVersion: "1.1.0",
		},
		Organizations: manifestOrgs{
			Organization: manifestOrg{
				Identifier: "org_1",
				Structure:  "rooted-hierarchy",
				Items:      []orgItem{root},
			},
		},
	}

	settingsRes := resourceXML{
		Identifier: c.Identifier + "_settings",
		Type:       TypeAppResource,
		Href:       "course_settings/canvas_export.txt",
		Files: []fileXML{
			{Href: "course_settings/course_settings.xml"},
			{Href: "course_settings/context.xml"},
			{Href: "course_settings/canvas_export.txt"},
		},
	}
	if len(c.Modules()) > 0 {
		settingsRes.Files = append(settingsRes.Files, fileXML{Href: "course_settings/module_meta.xml"})
	}
	if len(c.AssignmentGroups()) > 0 {
		settingsRes.Files = append(settingsRes.Files, fileXML{Href: "course_settings/assignment_groups.xml"})
	}
	if len(c.Rubrics()) > 0 {
		settingsRes.Files = append(settingsRes.Files, fileXML{Href: "course_settings/rubrics.xml"})
	}
	doc.Resources.Resources = append(doc.Resources.Resources, settingsRes)

	for _, p := range c.Pages() {
		href := "wiki_content/" + p.Filename + ".html"
		doc.Resources.Resources = append(doc.Resources.Resources, resourceXML{
			Identifier: p.Identifier,
			Type:       TypeWebContent,
			Href:       href,
			Files:      []fileXML{{Href: href}},
		})
	}

	for _, q := range c.Quizzes() {
		metaID := q.Identifier + "_meta"
		doc.Resources.Resources = append(doc.Resources.Resources,
			resourceXML{
				Identifier:   q.Identifier,
				Type:         TypeAssessment,
				Files:        []fileXML{{Href: q.Identifier + "/assessment_qti.xml"}},
				Dependencies: []dependencyXML{{IdentifierRef: metaID}},
			},
			resourceXML{
				Identifier: metaID,
				Type:       TypeAppResource,
				Href:       q.Identifier + "/assessment_meta.xml",
				Files: []fileXML{
					{Href: q.Identifier + "/assessment_meta.xml"},
					{Href: "non_cc_assessments/" + q.Identifier + ".xml.qti"},
				},
			},
		)
	}

	for _, a := range c.Assignments() {
		doc.Resources.Resources = append(doc.Resources.Resources, resourceXML{
			Identifier: a.Identifier,
			Type:       TypeAppResource,
			Href:       a.Identifier + "/assignment.html",
			Files: []fileXML{
				{Href: a.Identifier + "/assignment.html"},
				{Href: a.Identifier + "/assignment_settings.xml"},
			},
		})
	}

	for _, res := range c.Resources() {
		href := "web_resources/" + res.Path
		doc.Resources.Resources = append(doc.Resources.Resources, resourceXML{
			Identifier: res.Identifier,
			Type:       TypeWebContent,
			Href:       href,
			Files:      []fileXML{{Href: href}},
		})
	}

	return marshalXML(doc)
}

// ManifestResource is one parsed resource entry.
type ManifestResource struct {
	Identifier string
	Type       string
	Href       string
	Files      []string
	// Dependencies lists identifierrefs of companion resources.
	Dependencies []string
}

// Manifest is the parsed view of imsmanifest.xml consumed by the template
// extractor.
type Manifest struct {
	Identifier string
	Resources  []ManifestResource
}

// ParseManifest decodes imsmanifest.xml. A manifest that cannot be decoded
// at all is a FormatError; unsupported resource types inside a well-formed
// manifest are the extractor's concern, not this function's.
func ParseManifest(data []byte) (*Manifest, error) {
	var doc manifestXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: ManifestPath, Err: err}
	}
	m := &Manifest{Identifier: doc.Identifier}
	for _, r := range doc.Resources.Resources {
		res := ManifestResource{
			Identifier: r.Identifier,
			Type:       r.Type,
			Href:       r.Href,
		}
		for _, f := range r.Files {
			res.Files = append(res.Files, f.Href)
		}
		for _, d := range r.Dependencies {
			res.Dependencies = append(res.Dependencies, d.IdentifierRef)
		}
		m.Resources = append(m.Resources, res)
	}
	return m, nil
}

// marshalXML renders a document with the standard XML header and two-space
// indentation.
func marshalXML(doc any) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
