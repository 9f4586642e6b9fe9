// Package constants holds shared OOXML namespace URIs and arena-sizing
// defaults used across internal/element and the root docreveal package,
// so the same literal string isn't typed out at every dispatch-table
// registration site.
package constants

// OOXML namespaces this pipeline dispatches or probes against. Only the
// ones an XML reader actually needs are kept here — the teacher's
// equivalent table (mmonterroca-docxgo/pkg/constants/constants.go) also
// carries content-type and relationship-type strings for package
// *writing*, which this read-only pipeline has no use for.
const (
	NamespaceWordprocessingMain = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceDrawingMain        = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NamespaceRelationships      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// DefaultElementCapacity preallocates element.Registry's arena slice to
// cut down on append-triggered reallocations for typical small-to-medium
// documents, mirroring the teacher's per-kind DefaultParagraphCapacity /
// DefaultTableCapacity style of allocation hint (collapsed to one figure
// here since the arena holds every element kind in one flat slice rather
// than the teacher's separate per-kind slices).
const DefaultElementCapacity = 64
