package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/layoutkit/pagesort/model"
)

// ExportFormat defines the available export formats.
type ExportFormat int

const (
	// ExportFormatText exports rendered plain text.
	ExportFormatText ExportFormat = iota
	// ExportFormatJSON exports a JSON array of element records.
	ExportFormatJSON
	// ExportFormatJSONL exports JSON Lines (one record per line).
	ExportFormatJSONL
	// ExportFormatMarkdown exports Markdown with question headings.
	ExportFormatMarkdown
)

// String returns a human-readable representation of the export format.
func (ef ExportFormat) String() string {
	switch ef {
	case ExportFormatText:
		return "text"
	case ExportFormatJSON:
		return "json"
	case ExportFormatJSONL:
		return "jsonl"
	case ExportFormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format.
func (ef ExportFormat) FileExtension() string {
	switch ef {
	case ExportFormatText:
		return ".txt"
	case ExportFormatJSON:
		return ".json"
	case ExportFormatJSONL:
		return ".jsonl"
	case ExportFormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// ElementRecord is the serialized form of a sorted element.
type ElementRecord struct {
	ID           int     `json:"id"`
	Class        string  `json:"class"`
	Confidence   float64 `json:"confidence"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	GroupID      int     `json:"group_id"`
	OrderInGroup int     `json:"order_in_group"`
	Order        int     `json:"order"`
	Text         string  `json:"text,omitempty"`
}

// Export writes the sorted elements to w in the requested format.
// Elements are emitted in reading order regardless of input order.
func (r *Renderer) Export(w io.Writer, elements []*model.Element, format ExportFormat) error {
	switch format {
	case ExportFormatText:
		_, err := io.WriteString(w, r.Render(elements)+"\n")
		return err
	case ExportFormatJSON:
		return r.exportJSON(w, elements, false)
	case ExportFormatJSONL:
		return r.exportJSON(w, elements, true)
	case ExportFormatMarkdown:
		_, err := io.WriteString(w, r.RenderMarkdown(elements)+"\n")
		return err
	default:
		return fmt.Errorf("unknown export format: %d", format)
	}
}

// exportJSON writes element records as a JSON array, or one record per
// line when lines is set.
func (r *Renderer) exportJSON(w io.Writer, elements []*model.Element, lines bool) error {
	records := make([]ElementRecord, len(elements))
	for i, e := range orderedCopy(elements) {
		records[i] = ElementRecord{
			ID:           e.ID,
			Class:        e.Class,
			Confidence:   e.Confidence,
			X:            e.BBox.X,
			Y:            e.BBox.Y,
			Width:        e.BBox.Width,
			Height:       e.BBox.Height,
			GroupID:      e.GroupID,
			OrderInGroup: e.OrderInGroup,
			Order:        e.OrderInQuestion,
			Text:         r.Normalize(e.Text),
		}
	}

	enc := json.NewEncoder(w)
	if !lines {
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// RenderMarkdown emits the elements in reading order as Markdown, with
// question numbers as third-level headings.
func (r *Renderer) RenderMarkdown(elements []*model.Element) string {
	var b strings.Builder
	for _, e := range orderedCopy(elements) {
		text := r.elementText(e)
		if text == "" {
			continue
		}

		switch e.Class {
		case model.ClassQuestionNumber:
			b.WriteString("\n### " + text + "\n\n")
		case model.ClassSecondQuestionNumber:
			b.WriteString("\n#### " + text + "\n\n")
		case model.ClassQuestionType:
			b.WriteString("\n## " + text + "\n\n")
		case model.ClassFigure, model.ClassTable, model.ClassFlowchart:
			b.WriteString("> " + text + "\n\n")
		default:
			b.WriteString(text + "\n\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// orderedCopy returns the elements sorted by reading order without
// modifying the input slice.
func orderedCopy(elements []*model.Element) []*model.Element {
	ordered := make([]*model.Element, len(elements))
	copy(ordered, elements)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderInQuestion < ordered[j].OrderInQuestion
	})
	return ordered
}
