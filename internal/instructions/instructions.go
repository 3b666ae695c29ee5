// Package instructions loads the system-level instruction document that is
// prepended to every prompt.
package instructions

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Document is the immutable instruction text. The zero value is an empty
// document.
type Document struct {
	text string
}

// New wraps text as a Document.
func New(text string) Document {
	return Document{text: text}
}

// String returns the document text verbatim.
func (d Document) String() string { return d.text }

// Empty reports whether the document has no text.
func (d Document) Empty() bool { return d.text == "" }

// Load reads the document at path once. A blank path or a missing file yields
// an empty document; any other read failure is returned.
func Load(path string) (Document, error) {
	if path == "" {
		return Document{}, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("read instructions %s: %w", path, err)
	}
	return Document{text: string(b)}, nil
}
