package docmodel

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownType is returned when importing a shape with an unknown type tag.
var ErrUnknownType = errors.New("unknown node type")

// shapeVersion is the version stamped on every exported shape.
const shapeVersion = 1

// Type tags outside the node kinds.
const (
	rootTag       = "root"
	listOrdered   = "number"
	listUnordered = "bullet"
)

// Serialized is the JSON export shape of a node: attributes only, no behavior.
type Serialized struct {
	Type     string       `json:"type"`
	Version  int          `json:"version"`
	Children []Serialized `json:"children,omitempty"`

	Text   string `json:"text,omitempty"`
	Format Format `json:"format,omitempty"`

	Level    int    `json:"level,omitempty"`
	ListType string `json:"listType,omitempty"`
	Start    int    `json:"start,omitempty"`
	Language string `json:"language,omitempty"`
	Href     string `json:"href,omitempty"`

	Src     string `json:"src,omitempty"`
	AltText string `json:"altText,omitempty"`
	Width   *int   `json:"width,omitempty"`
	Height  *int   `json:"height,omitempty"`
}

// SerializedDocument is the export shape of a whole document.
type SerializedDocument struct {
	Root Serialized `json:"root"`
}

// Export builds the export shape of a node and its subtree.
func Export(n *Node) Serialized {
	out := Serialized{Type: n.Kind.String(), Version: shapeVersion}

	switch n.Kind {
	case KindHeading:
		out.Level = n.Level
	case KindList:
		out.ListType = listUnordered
		if n.Ordered {
			out.ListType = listOrdered
			out.Start = n.Start
		}
	case KindCode:
		out.Language = n.Language
		out.Text = n.Text
	case KindText:
		out.Text = n.Text
		out.Format = n.Format
	case KindLink:
		out.Href = n.Href
	case KindImage:
		// Natural size exports as 0.
		width, height := int(SizeOf(int(n.Width))), int(SizeOf(int(n.Height)))
		out.Src = n.source
		out.AltText = n.AltText
		out.Width = &width
		out.Height = &height
	case KindParagraph, KindListItem, KindQuote:
	}

	for _, child := range n.children {
		out.Children = append(out.Children, Export(child))
	}
	return out
}

// Import reconstructs a node from its export shape.
func Import(s Serialized) (*Node, error) {
	kind, ok := ParseKind(s.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, s.Type)
	}

	var node *Node
	switch kind {
	case KindParagraph:
		node = NewParagraph()
	case KindHeading:
		node = NewHeading(s.Level)
	case KindList:
		node = NewList(s.ListType == listOrdered, s.Start)
	case KindListItem:
		node = NewListItem()
	case KindQuote:
		node = NewQuote()
	case KindCode:
		node = NewCode(s.Language, s.Text)
	case KindText:
		node = NewText(s.Text, s.Format)
	case KindLink:
		node = NewLink(s.Href)
	case KindImage:
		node = NewImage(ImageOptions{
			Source:  s.Src,
			AltText: s.AltText,
			Width:   SizeOf(derefInt(s.Width)),
			Height:  SizeOf(derefInt(s.Height)),
		})
	}

	for _, child := range s.Children {
		imported, err := Import(child)
		if err != nil {
			return nil, err
		}
		if err := node.AppendChild(imported); err != nil {
			return nil, fmt.Errorf("import %s: %w", s.Type, err)
		}
	}
	return node, nil
}

// ExportDocument builds the export shape of a document.
func ExportDocument(d *Document) SerializedDocument {
	root := Serialized{Type: rootTag, Version: shapeVersion}
	for _, block := range d.blocks {
		root.Children = append(root.Children, Export(block))
	}
	return SerializedDocument{Root: root}
}

// ImportDocument reconstructs a document from its export shape.
func ImportDocument(s SerializedDocument) (*Document, error) {
	if s.Root.Type != "" && s.Root.Type != rootTag {
		return nil, fmt.Errorf("%w: root is %q", ErrUnknownType, s.Root.Type)
	}
	doc := &Document{}
	for _, child := range s.Root.Children {
		block, err := Import(child)
		if err != nil {
			return nil, err
		}
		if err := doc.Append(block); err != nil {
			return nil, fmt.Errorf("import root: %w", err)
		}
	}
	return doc, nil
}

// MarshalJSON encodes the document's export shape.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(ExportDocument(d))
}

// UnmarshalJSON replaces the document with the decoded export shape.
func (d *Document) UnmarshalJSON(data []byte) error {
	var shape SerializedDocument
	if err := json.Unmarshal(data, &shape); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	imported, err := ImportDocument(shape)
	if err != nil {
		return err
	}
	d.Clear()
	for _, block := range imported.Blocks() {
		if err := d.Append(block); err != nil {
			return err
		}
	}
	return nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
