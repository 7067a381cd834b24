package editor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yaklabco/mdinbox/pkg/docmodel"
	"github.com/yaklabco/mdinbox/pkg/langdetect"
)

// ErrUnsupportedMedia is returned when pasted data is not an image.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// pastedAltPrefix starts the alt text of pasted images.
const pastedAltPrefix = "Pasted image "

// Type feeds text into the document at the caret as if typed. A newline
// starts a new paragraph. Typing a trigger character or the last character
// of a format marker re-scans the current run, so completed links, images
// and format spans turn into nodes.
func (e *Editor) Type(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return ErrReadOnly
	}
	if text == "" {
		return nil
	}

	for _, r := range text {
		if r == '\n' {
			if err := e.doc.Append(docmodel.NewParagraph()); err != nil {
				return fmt.Errorf("start paragraph: %w", err)
			}
			continue
		}

		target, err := e.caret()
		if err != nil {
			return err
		}
		// Leading blanks of a paragraph do not survive markdown.
		if (r == ' ' || r == '\t') && target.Kind == docmodel.KindParagraph && target.ChildCount() == 0 {
			continue
		}
		run := appendText(target, string(r), e.literal)
		if e.triggers[r] || e.closers[r] {
			if err := e.rescan(target, run); err != nil {
				return err
			}
		}
	}
	e.revision++
	return nil
}

// InsertLiteral inserts text at the caret as a plain text run of its own.
// The text is not scanned for markup, then or when typing continues.
func (e *Editor) InsertLiteral(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return ErrReadOnly
	}
	if text == "" {
		return nil
	}

	target, err := e.caret()
	if err != nil {
		return err
	}
	run := docmodel.NewText(text, docmodel.FormatNone)
	if err := target.AppendChild(run); err != nil {
		return fmt.Errorf("insert literal: %w", err)
	}
	e.literal = run
	e.revision++
	return nil
}

// PasteImage inserts pasted image data as an image node whose source is a
// data URI. The alt text records when it was pasted.
func (e *Editor) PasteImage(data []byte, mimeType string, now time.Time) (*docmodel.Node, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMedia, mimeType)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", ErrUnsupportedMedia)
	}

	img := docmodel.NewImage(docmodel.ImageOptions{
		Source:  DataURI(mimeType, data),
		AltText: PastedAltText(now),
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return nil, ErrReadOnly
	}
	if err := e.appendBlock(img); err != nil {
		return nil, err
	}
	e.revision++
	return img, nil
}

// InsertCodeBlock appends a code block. The language is detected from the
// file name, when given, and the body.
func (e *Editor) InsertCodeBlock(code, filename string) (*docmodel.Node, error) {
	block := docmodel.NewCode(langdetect.DetectFile(filename, code), strings.TrimSuffix(code, "\n"))

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return nil, ErrReadOnly
	}
	if err := e.appendBlock(block); err != nil {
		return nil, err
	}
	e.revision++
	return block, nil
}

// DataURI encodes data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// PastedAltText builds the alt text of an image pasted at now: the UTC
// ISO-8601 timestamp with ':' and '.' replaced by '-'.
func PastedAltText(now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return pastedAltPrefix + stamp
}

// caret returns the node receiving typed text: the last text-bearing block,
// descending into the last item of a trailing list. A new paragraph is
// appended when the document ends with a code block or an image.
func (e *Editor) caret() (*docmodel.Node, error) {
	last := e.doc.LastBlock()
	if last != nil {
		switch last.Kind {
		case docmodel.KindParagraph, docmodel.KindHeading, docmodel.KindQuote:
			return last, nil
		case docmodel.KindList:
			if item := lastItem(last); item != nil {
				return item, nil
			}
		}
	}

	para := docmodel.NewParagraph()
	if err := e.doc.Append(para); err != nil {
		return nil, fmt.Errorf("start paragraph: %w", err)
	}
	return para, nil
}

func lastItem(list *docmodel.Node) *docmodel.Node {
	item := list.LastChild()
	for item != nil {
		nested := item.LastChild()
		if nested == nil || nested.Kind != docmodel.KindList || nested.ChildCount() == 0 {
			return item
		}
		item = nested.LastChild()
	}
	return nil
}

// appendBlock adds a root block, taking the place of a trailing empty paragraph.
func (e *Editor) appendBlock(block *docmodel.Node) error {
	if last := e.doc.LastBlock(); last != nil && last.Kind == docmodel.KindParagraph && last.TextContent() == "" {
		if err := e.doc.Remove(last); err != nil {
			return fmt.Errorf("remove empty paragraph: %w", err)
		}
	}
	if err := e.doc.Append(block); err != nil {
		return fmt.Errorf("append %s: %w", block.Kind, err)
	}
	return nil
}

// appendText extends the trailing plain run of target, or starts one. The
// sealed run is never extended.
func appendText(target *docmodel.Node, text string, sealed *docmodel.Node) *docmodel.Node {
	if last := target.LastChild(); last != nil && last != sealed &&
		last.Kind == docmodel.KindText && last.Format == docmodel.FormatNone {
		last.SetText(last.Text + text)
		return last
	}

	run := docmodel.NewText(text, docmodel.FormatNone)
	if err := target.AppendChild(run); err != nil {
		// Every caret kind accepts text runs.
		panic(fmt.Sprintf("editor: %s rejected text: %v", target.Kind, err))
	}
	return run
}
