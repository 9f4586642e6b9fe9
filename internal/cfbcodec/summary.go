package cfbcodec

import (
	"bytes"

	"github.com/richardlehane/msoleps"
)

// SummaryProperties is the subset of the \005SummaryInformation /
// \005DocumentSummaryInformation OLE property sets that FileMeta surfaces
// for legacy .doc/.ppt/.xls documents.
type SummaryProperties struct {
	Title    string
	Author   string
	Subject  string
	Comments string
}

// ReadSummary decodes the \005SummaryInformation stream, if present, using
// msoleps (already a retrieval-pack dependency via word-extractor). A
// missing or malformed stream is not an error — legacy files routinely omit
// it — it simply yields a zero SummaryProperties.
func (r *Reader) ReadSummary() SummaryProperties {
	data, ok := r.Stream("\x05SummaryInformation")
	if !ok {
		return SummaryProperties{}
	}

	doc, err := msoleps.New(bytes.NewReader(data))
	if err != nil {
		return SummaryProperties{}
	}

	var out SummaryProperties
	for _, prop := range doc.Property {
		if prop == nil {
			continue
		}
		switch prop.Name {
		case "Title":
			out.Title = prop.String()
		case "Author":
			out.Author = prop.String()
		case "Subject":
			out.Subject = prop.String()
		case "Comments":
			out.Comments = prop.String()
		}
	}
	return out
}
