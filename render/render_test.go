package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/layoutkit/pagesort/model"
)

// makeSorted creates an element already stamped with its reading order.
func makeSorted(id int, class, text string, order int) *model.Element {
	return &model.Element{
		ID:              id,
		Class:           class,
		Text:            text,
		OrderInQuestion: order,
	}
}

func TestRenderer_ReadingOrder(t *testing.T) {
	renderer := NewRenderer()

	// Deliberately shuffled input; rendering must follow OrderInQuestion.
	elements := []*model.Element{
		makeSorted(2, model.ClassChoices, "A) 4  B) 5", 2),
		makeSorted(0, model.ClassQuestionNumber, "1.", 0),
		makeSorted(1, model.ClassQuestionText, "What is 2+2?", 1),
	}

	got := renderer.Render(elements)
	want := "1. What is 2+2?\nA) 4 B) 5"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRenderer_SkipsEmptyText(t *testing.T) {
	renderer := NewRenderer()

	elements := []*model.Element{
		makeSorted(0, model.ClassQuestionNumber, "1.", 0),
		makeSorted(1, model.ClassQuestionText, "   ", 1),
	}

	if got := renderer.Render(elements); got != "1." {
		t.Errorf("whitespace-only text should be skipped, got %q", got)
	}
}

func TestRenderer_FigurePlaceholder(t *testing.T) {
	renderer := NewRenderer()

	elements := []*model.Element{
		makeSorted(0, model.ClassQuestionText, "See the diagram.", 0),
		makeSorted(1, model.ClassFigure, "", 1),
	}

	got := renderer.Render(elements)
	if !strings.Contains(got, "[figure]") {
		t.Errorf("textless figure should render a placeholder, got %q", got)
	}
}

func TestRenderer_DescriptionBeatsPlaceholder(t *testing.T) {
	renderer := NewRenderer()

	figure := makeSorted(0, model.ClassFigure, "", 0)
	figure.Description = "triangle with labeled sides"

	got := renderer.Render([]*model.Element{figure})
	if got != "triangle with labeled sides" {
		t.Errorf("description should render instead of a placeholder, got %q", got)
	}
}

func TestRenderer_Normalize(t *testing.T) {
	renderer := NewRenderer()

	tests := []struct {
		in   string
		want string
	}{
		{"ﬁrst", "first"},                 // NFKC ligature fold
		{"１２．Ｓｏｌｖｅ", "12.Solve"},          // full-width fold
		{"two   spaced\twords", "two spaced words"}, // whitespace cleanup
		{"", ""},
	}
	for _, tt := range tests {
		if got := renderer.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderer_CustomTemplate(t *testing.T) {
	config := DefaultRendererConfig()
	config.Templates[model.ClassQuestionNumber] = ClassTemplate{Prefix: "Q", Suffix: ") "}
	renderer := NewRendererWithConfig(config)

	elements := []*model.Element{
		makeSorted(0, model.ClassQuestionNumber, "3", 0),
		makeSorted(1, model.ClassQuestionText, "Define velocity.", 1),
	}

	got := renderer.Render(elements)
	if got != "Q3) Define velocity." {
		t.Errorf("expected %q, got %q", "Q3) Define velocity.", got)
	}
}

func TestExport_JSON(t *testing.T) {
	renderer := NewRenderer()

	e := makeSorted(7, model.ClassQuestionText, "What is 2+2?", 0)
	e.GroupID = 3
	e.OrderInGroup = 1
	e.BBox = model.BBox{X: 10, Y: 40, Width: 300, Height: 60}

	var buf bytes.Buffer
	if err := renderer.Export(&buf, []*model.Element{e}, ExportFormatJSON); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var records []ElementRecord
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.ID != 7 || rec.GroupID != 3 || rec.OrderInGroup != 1 || rec.Text != "What is 2+2?" {
		t.Errorf("record fields wrong: %+v", rec)
	}
}

func TestExport_JSONLOneRecordPerLine(t *testing.T) {
	renderer := NewRenderer()

	elements := []*model.Element{
		makeSorted(0, model.ClassQuestionNumber, "1.", 0),
		makeSorted(1, model.ClassQuestionText, "What is 2+2?", 1),
	}

	var buf bytes.Buffer
	if err := renderer.Export(&buf, elements, ExportFormatJSONL); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var rec ElementRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	renderer := NewRenderer()

	elements := []*model.Element{
		makeSorted(0, model.ClassQuestionType, "Multiple Choice", 0),
		makeSorted(1, model.ClassQuestionNumber, "1.", 1),
		makeSorted(2, model.ClassQuestionText, "What is 2+2?", 2),
	}

	got := renderer.RenderMarkdown(elements)
	if !strings.Contains(got, "## Multiple Choice") {
		t.Errorf("question type should be a level-2 heading: %q", got)
	}
	if !strings.Contains(got, "### 1.") {
		t.Errorf("question number should be a level-3 heading: %q", got)
	}
}

func TestExportFormat_StringAndExtension(t *testing.T) {
	tests := []struct {
		format ExportFormat
		name   string
		ext    string
	}{
		{ExportFormatText, "text", ".txt"},
		{ExportFormatJSON, "json", ".json"},
		{ExportFormatJSONL, "jsonl", ".jsonl"},
		{ExportFormatMarkdown, "markdown", ".md"},
		{ExportFormat(99), "unknown", ".txt"},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.format.FileExtension(); got != tt.ext {
			t.Errorf("FileExtension() = %q, want %q", got, tt.ext)
		}
	}
}
