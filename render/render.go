// Package render turns sorted worksheet elements back into text. Each
// element class has a template that wraps its recognized text, and
// elements are emitted in their final reading order, so rendering a
// sorted page reproduces the worksheet the way a person would read it.
package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/layoutkit/pagesort/model"
)

// ClassTemplate wraps an element's text with a class-specific prefix
// and suffix.
type ClassTemplate struct {
	Prefix string
	Suffix string
}

// RendererConfig holds configuration for rendering.
type RendererConfig struct {
	// Templates maps element classes to their wrapping templates.
	// Classes without an entry use Fallback.
	Templates map[string]ClassTemplate

	// Fallback is the template used for classes not in Templates.
	Fallback ClassTemplate

	// Placeholders emits a bracketed class marker for non-text
	// elements (figures, tables) that carry no recognized text.
	Placeholders bool

	// NormalizeWidth folds full-width characters to their half-width
	// forms, common in scans of CJK worksheets.
	NormalizeWidth bool
}

// DefaultRendererConfig returns the default rendering configuration.
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		Templates: map[string]ClassTemplate{
			model.ClassQuestionNumber:       {Prefix: "\n", Suffix: " "},
			model.ClassSecondQuestionNumber: {Prefix: "\n", Suffix: " "},
			model.ClassQuestionType:         {Prefix: "\n== ", Suffix: " ==\n"},
			model.ClassQuestionText:         {Suffix: "\n"},
			model.ClassChoices:              {Suffix: "\n"},
			model.ClassList:                 {Suffix: "\n"},
			model.ClassCaption:              {Prefix: "  ", Suffix: "\n"},
			model.ClassFootnote:             {Prefix: "  ", Suffix: "\n"},
			model.ClassUnit:                 {Suffix: " "},
		},
		Fallback:       ClassTemplate{Suffix: "\n"},
		Placeholders:   true,
		NormalizeWidth: true,
	}
}

// Renderer renders sorted elements as plain text.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a Renderer with default configuration.
func NewRenderer() *Renderer {
	return NewRendererWithConfig(DefaultRendererConfig())
}

// NewRendererWithConfig creates a Renderer with the given configuration.
func NewRendererWithConfig(config RendererConfig) *Renderer {
	return &Renderer{config: config}
}

// Render emits the elements in reading order as a single text
// document. Elements are ordered by OrderInQuestion; the input slice
// is not modified.
func (r *Renderer) Render(elements []*model.Element) string {
	var b strings.Builder
	for _, e := range orderedCopy(elements) {
		text := r.elementText(e)
		if text == "" {
			continue
		}

		tmpl, ok := r.config.Templates[e.Class]
		if !ok {
			tmpl = r.config.Fallback
		}
		b.WriteString(tmpl.Prefix)
		b.WriteString(text)
		b.WriteString(tmpl.Suffix)
	}

	return strings.TrimSpace(b.String())
}

// elementText picks the text to render for an element: recognized text
// first, then the description, then a class placeholder.
func (r *Renderer) elementText(e *model.Element) string {
	if text := r.Normalize(e.Text); text != "" {
		return text
	}
	if desc := r.Normalize(e.Description); desc != "" {
		return desc
	}
	if r.config.Placeholders && !e.IsAnchor() {
		switch e.Class {
		case model.ClassFigure, model.ClassTable, model.ClassFlowchart:
			return fmt.Sprintf("[%s]", e.Class)
		}
	}
	return ""
}

// Normalize applies NFKC normalization, optional width folding, and
// whitespace cleanup to recognized text. OCR output from scans mixes
// compatibility forms and full-width punctuation; normalizing makes
// downstream matching and display stable.
func (r *Renderer) Normalize(s string) string {
	s = norm.NFKC.String(s)
	if r.config.NormalizeWidth {
		s = width.Narrow.String(s)
	}
	return strings.Join(strings.Fields(s), " ")
}
