package docmodel

import (
	"reflect"
	"strings"
)

// Equal reports whether two documents are structurally equivalent: same node
// types, order and attributes once both are normalized. Keys are ignored.
func Equal(a, b *Document) bool {
	return reflect.DeepEqual(
		NormalizeShape(ExportDocument(a).Root),
		NormalizeShape(ExportDocument(b).Root),
	)
}

// NormalizeShape returns a canonical copy of an export shape:
// empty text runs are dropped, adjacent runs with the same format are merged,
// paragraphs left without children are dropped, and line breaks in heading
// text become spaces.
func NormalizeShape(s Serialized) Serialized {
	if s.Type == KindHeading.String() {
		s = foldLines(s)
	}
	out := s
	out.Children = nil

	for _, child := range s.Children {
		child = NormalizeShape(child)

		switch {
		case child.Type == KindText.String() && child.Text == "":
			continue
		case child.Type == KindParagraph.String() && len(child.Children) == 0:
			continue
		}

		if n := len(out.Children); n > 0 {
			prev := &out.Children[n-1]
			if prev.Type == KindText.String() && child.Type == KindText.String() && prev.Format == child.Format {
				prev.Text += child.Text
				continue
			}
		}
		out.Children = append(out.Children, child)
	}

	return out
}

// Normalize rewrites the document in place the way NormalizeShape rewrites an
// export shape. Surviving nodes keep their keys.
func Normalize(doc *Document) {
	for _, block := range doc.Blocks() {
		if block.Kind == KindHeading {
			_ = Walk(block, func(n *Node) error {
				if n.Kind == KindText && strings.Contains(n.Text, "\n") {
					n.SetText(strings.ReplaceAll(n.Text, "\n", " "))
				}
				return nil
			})
		}
		normalizeNode(block)
		if block.Kind == KindParagraph && block.ChildCount() == 0 {
			_ = doc.Remove(block)
		}
	}
}

func normalizeNode(n *Node) {
	var prev *Node
	for _, child := range n.Children() {
		normalizeNode(child)

		if child.Kind == KindText && child.Text == "" {
			_ = n.RemoveChild(child)
			continue
		}
		if prev != nil && prev.Kind == KindText && child.Kind == KindText && prev.Format == child.Format {
			prev.Text += child.Text
			_ = n.RemoveChild(child)
			continue
		}
		prev = child
	}
}

// foldLines replaces line breaks in every text run below s with spaces.
func foldLines(s Serialized) Serialized {
	if s.Type == KindText.String() {
		s.Text = strings.ReplaceAll(s.Text, "\n", " ")
		return s
	}
	if len(s.Children) == 0 {
		return s
	}
	children := make([]Serialized, len(s.Children))
	for i, child := range s.Children {
		children[i] = foldLines(child)
	}
	s.Children = children
	return s
}
