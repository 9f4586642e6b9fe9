// Package xmldom builds an in-memory XML element/attribute/text tree and
// offers namespace-aware selection over it. It generalizes the teacher's
// reader.Element tree (internal/reader/element.go in the ancestor docxgo
// tree) from a single known DOCX schema to the open set of ODF/OOXML
// namespaces this pipeline must parse, and additionally preserves
// whitespace-only text nodes, which text-content extraction requires.
package xmldom

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/docreveal/core/pkg/errors"
)

// Node is one element, attribute-bearing, of the parsed tree. As in the
// ancestor reader.Element, Text is a single accumulated string: every run
// of character data directly inside the element, whitespace-only runs
// included, is appended to it in order. Where each run sat relative to the
// child elements is not recorded.
type Node struct {
	Name     xml.Name
	Attr     []xml.Attr
	Text     string
	Parent   *Node
	Children []*Node
}

// Attribute returns an attribute's value by local name, ignoring namespace,
// mirroring the permissive attribute lookups document styling code performs
// (ODF/OOXML attributes are conventionally namespace-prefixed but callers
// usually key off the local name alone).
func (n *Node) Attribute(local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttributeNS returns an attribute's value matched on both namespace and
// local name.
func (n *Node) AttributeNS(space, local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// ChildrenNS returns the immediate child elements whose namespace and local
// name match, in document order.
func (n *Node) ChildrenNS(space, local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name.Space == space && c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildNS returns the first matching child, if any.
func (n *Node) FirstChildNS(space, local string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name.Space == space && c.Name.Local == local {
			return c, true
		}
	}
	return nil, false
}

// Descendants performs a depth-first walk of every element matching
// (space, local), the XPath-like "//space:local" selection the style and
// element parsers both need (e.g. every style:style under office:styles,
// regardless of intervening wrapper elements).
func (n *Node) Descendants(space, local string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if c.Name.Space == space && c.Name.Local == local {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// TextContent concatenates this element's own text plus every descendant's
// text, in document order — the flattened text extraction used for cell
// and paragraph content.
func (n *Node) TextContent() string {
	var b strings.Builder
	var walk func(*Node)
	walk = func(cur *Node) {
		b.WriteString(cur.Text)
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

const opParse = "xmldom.Parse"

// Parse decodes data into a Node tree rooted at the document element.
// Encoding is auto-detected up front from the XML prolog / BOM via
// golang.org/x/net/html/charset; any further <?xml encoding="..."?>
// label the stdlib decoder encounters mid-stream is transcoded via
// golang.org/x/text/encoding/htmlindex, so callers never see non-UTF-8
// CharData either way.
func Parse(data []byte) (*Node, error) {
	utf8Reader, err := charset.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnknownCharset, opParse)
	}

	dec := xml.NewDecoder(utf8Reader)
	dec.CharsetReader = textEncodingReader

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, errors.KindNoXmlFile, opParse)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return parseElement(dec, start, nil)
		}
	}
}

// textEncodingReader looks up a declared charset label (e.g. "windows-1252",
// "iso-8859-1") via golang.org/x/text/encoding/htmlindex and wraps input in
// a decoding transform.Reader, the encoding/xml.Decoder.CharsetReader
// contract for any label beyond plain UTF-8.
func textEncodingReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

func parseElement(dec *xml.Decoder, start xml.StartElement, parent *Node) (*Node, error) {
	const op = "xmldom.parseElement"
	node := &Node{
		Name:   start.Name,
		Attr:   append([]xml.Attr(nil), start.Attr...),
		Parent: parent,
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, errors.KindNoXmlFile, op)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t, node)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local && t.Name.Space == start.Name.Space {
				return node, nil
			}
		case xml.CharData:
			// Whitespace-only runs are preserved: ODF/OOXML rely on
			// xml:space="preserve" semantics for tabs and soft line
			// breaks represented as literal text runs.
			node.Text += string(t)
		}
	}
}
