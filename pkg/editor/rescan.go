package editor

import (
	"fmt"
	"strings"

	"github.com/yaklabco/mdinbox/pkg/docmodel"
)

// rescan parses the markdown typed into run and replaces the run with the
// resulting nodes when anything other than plain text came out. Image
// literals only become images in root paragraphs; the paragraph is then
// split around them.
func (e *Editor) rescan(target, run *docmodel.Node) error {
	allowBlocks := target.Kind == docmodel.KindParagraph && target.Parent() == nil
	nodes := e.parser.ParseInline(run.Text, allowBlocks)
	if !hasMarkup(nodes) {
		return nil
	}

	idx := target.IndexOf(run)
	tail := target.Children()[idx+1:]
	if err := target.RemoveChild(run); err != nil {
		return fmt.Errorf("replace run: %w", err)
	}
	for _, node := range tail {
		node.Detach()
	}

	current := target
	insertAt := e.doc.IndexOf(target) + 1
	var pending []*docmodel.Node

	flush := func() error {
		for _, node := range pending {
			if err := current.AppendChild(node); err != nil {
				return fmt.Errorf("append %s: %w", node.Kind, err)
			}
		}
		pending = nil
		return nil
	}

	for _, node := range nodes {
		if !node.Kind.IsBlock() {
			pending = append(pending, node)
			continue
		}

		if err := flush(); err != nil {
			return err
		}
		trimTrailing(current)
		if err := e.doc.Insert(insertAt, node); err != nil {
			return fmt.Errorf("insert %s: %w", node.Kind, err)
		}
		insertAt++

		current = docmodel.NewParagraph()
		if err := e.doc.Insert(insertAt, current); err != nil {
			return fmt.Errorf("insert paragraph: %w", err)
		}
		insertAt++
	}

	pending = append(pending, tail...)
	if err := flush(); err != nil {
		return err
	}
	if current != target {
		trimLeading(current)
	}

	e.dropEmpty(target)
	return nil
}

// dropEmpty removes target when a split left it without content and
// another block follows.
func (e *Editor) dropEmpty(target *docmodel.Node) {
	if target.Parent() != nil || target.TextContent() != "" {
		return
	}
	if idx := e.doc.IndexOf(target); idx >= 0 && idx < e.doc.Len()-1 {
		_ = e.doc.Remove(target)
	}
}

func hasMarkup(nodes []*docmodel.Node) bool {
	for _, node := range nodes {
		if node.Kind != docmodel.KindText || node.Format != docmodel.FormatNone {
			return true
		}
	}
	return false
}

func trimTrailing(para *docmodel.Node) {
	last := para.LastChild()
	if last == nil || last.Kind != docmodel.KindText || last.Format.Has(docmodel.FormatCode) {
		return
	}
	last.SetText(strings.TrimRight(last.Text, " \t"))
	if last.Text == "" {
		_ = para.RemoveChild(last)
	}
}

func trimLeading(para *docmodel.Node) {
	if para.ChildCount() == 0 {
		return
	}
	first := para.Child(0)
	if first.Kind != docmodel.KindText || first.Format.Has(docmodel.FormatCode) {
		return
	}
	first.SetText(strings.TrimLeft(first.Text, " \t"))
	if first.Text == "" {
		_ = para.RemoveChild(first)
	}
}
