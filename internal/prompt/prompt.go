// Package prompt composes the instruction sent to the text-generation model
// from the system instructions and one request's navigation context.
package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"text/template"

	"github.com/joestump/hxweather/internal/instructions"
	"github.com/joestump/hxweather/internal/navigation"
)

//go:embed prompt.tmpl
var defaultTemplate string

var tmpl = template.Must(template.New("prompt").Parse(defaultTemplate))

// Labels used for the rendered context lines.
const (
	LabelDescription = "Page Description"
	LabelFrom        = "Navigated From"
	LabelTo          = "Navigated To"
	LabelContext     = "Additional Context"
)

// Line is one labeled context line in the prompt.
type Line struct {
	Label string
	Value string
}

// Data holds the variables available in the prompt template.
type Data struct {
	Instructions string
	Action       string
	City         string
	Lines        []Line
}

// Composer renders prompts. It holds a reference to the process-wide
// instruction document and is safe for concurrent use.
type Composer struct {
	doc instructions.Document
}

// New creates a Composer that prepends doc to every prompt.
func New(doc instructions.Document) *Composer {
	return &Composer{doc: doc}
}

// Compose renders the prompt for nav.
func (c *Composer) Compose(nav navigation.Context) (string, error) {
	data := Data{
		Instructions: c.doc.String(),
		Action:       nav.Action,
		City:         nav.City,
		Lines:        Lines(nav),
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// Lines returns a labeled line for every non-empty context field, followed by
// the extension parameters sorted by key.
func Lines(nav navigation.Context) []Line {
	var lines []Line
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, Line{Label: label, Value: value})
		}
	}
	add(LabelDescription, nav.Description)
	add(LabelFrom, nav.From)
	add(LabelTo, nav.To)
	add(LabelContext, nav.Context)

	keys := make([]string, 0, len(nav.Extra))
	for k := range nav.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add("Extra ("+k+")", nav.Extra[k])
	}
	return lines
}
