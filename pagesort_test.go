package pagesort

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/layoutkit/pagesort/detect"
	"github.com/layoutkit/pagesort/model"
	"github.com/layoutkit/pagesort/render"
	"github.com/layoutkit/pagesort/sorter"
)

var errTest = errors.New("test error")

func testPage() model.Page {
	return model.NewPage(1, 1000, 1000)
}

func questionDetections() []detect.Detection {
	return []detect.Detection{
		{Class: model.ClassFigure, Confidence: 0.85, BBox: model.BBox{X: 10, Y: 150, Width: 300, Height: 120}},
		{Class: model.ClassQuestionNumber, Confidence: 0.95, BBox: model.BBox{X: 10, Y: 100, Width: 30, Height: 20}},
		{Class: model.ClassQuestionText, Confidence: 0.9, BBox: model.BBox{X: 50, Y: 100, Width: 300, Height: 30}},
	}
}

func TestSortedEndToEnd(t *testing.T) {
	elements, warnings, err := FromDetections(testPage(), questionDetections()).Sorted()
	if err != nil {
		t.Fatalf("Sorted failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elements))
	}
	if elements[0].Class != model.ClassQuestionNumber {
		t.Errorf("question number should lead, got %s", elements[0].Class)
	}
	for i, e := range elements {
		if e.OrderInQuestion != i {
			t.Errorf("element %d has order %d", i, e.OrderInQuestion)
		}
	}
}

func TestStrategyForcing(t *testing.T) {
	strategy, err := FromDetections(testPage(), questionDetections()).
		Strategy(sorter.StrategyLocal).
		StrategyUsed()
	if err != nil {
		t.Fatalf("StrategyUsed failed: %v", err)
	}
	if strategy != sorter.StrategyLocal {
		t.Errorf("expected local strategy, got %s", strategy)
	}
}

func TestFluentCallsDoNotMutateTemplate(t *testing.T) {
	template := FromDetections(testPage(), questionDetections())
	forced := template.Strategy(sorter.StrategyLocal)

	if forced == template {
		t.Fatal("fluent calls must return a copy")
	}
	if template.options.strategy != sorter.StrategyAuto {
		t.Error("template's strategy should remain auto")
	}

	// Both configurations remain usable.
	if _, _, err := template.Sorted(); err != nil {
		t.Errorf("template processing failed: %v", err)
	}
	if _, _, err := forced.Sorted(); err != nil {
		t.Errorf("forced processing failed: %v", err)
	}
}

func TestReadingOrderOnly(t *testing.T) {
	groups, _, err := FromDetections(testPage(), questionDetections()).
		ReadingOrderOnly().
		Groups()
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}
	if len(groups) != 1 || groups[0].Anchor != nil {
		t.Error("reading-order pages should yield one anchorless group")
	}
}

func TestFromElements(t *testing.T) {
	elements := []*model.Element{
		{ID: 0, Class: model.ClassQuestionNumber, Text: "1.", BBox: model.BBox{X: 10, Y: 100, Width: 30, Height: 20}},
		{ID: 1, Class: model.ClassQuestionText, Text: "What is 2+2?", BBox: model.BBox{X: 10, Y: 130, Width: 300, Height: 30}},
	}

	text, _, err := FromElements(testPage(), elements).Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if !strings.Contains(text, "1.") || !strings.Contains(text, "What is 2+2?") {
		t.Errorf("rendered text missing content: %q", text)
	}
}

func TestWarningsSurface(t *testing.T) {
	detections := []detect.Detection{
		{Class: model.ClassPlainText, Confidence: 0.9, BBox: model.BBox{X: 10, Y: 100, Width: 300, Height: 30}},
	}

	_, warnings, err := FromDetections(testPage(), detections).Sorted()
	if err != nil {
		t.Fatalf("Sorted failed: %v", err)
	}
	if len(warnings) == 0 {
		t.Error("anchorless pages should produce a warning")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	warnings, err := FromDetections(testPage(), questionDetections()).
		Export(&buf, render.ExportFormatJSON)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if !strings.Contains(buf.String(), "\"class\": \"question_number\"") {
		t.Errorf("JSON export missing element records: %s", buf.String())
	}
}

func TestLayoutClassification(t *testing.T) {
	var detections []detect.Detection
	for i := 0; i < 4; i++ {
		detections = append(detections,
			detect.Detection{Class: model.ClassQuestionNumber, Confidence: 0.9,
				BBox: model.BBox{X: 100, Y: float64(100 + i*200), Width: 30, Height: 20}},
			detect.Detection{Class: model.ClassQuestionNumber, Confidence: 0.9,
				BBox: model.BBox{X: 900, Y: float64(100 + i*200), Width: 30, Height: 20}},
		)
	}

	layout := Must(FromDetections(testPage(), detections).Layout())
	if layout != sorter.TwoColumn {
		t.Errorf("expected two_column, got %s", layout)
	}
}

func TestMustPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Must should panic on error")
		}
	}()

	Must("", errTest)
}

func TestMustSortedPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustSorted should panic on error")
		}
	}()

	MustSorted("", nil, errTest)
}

func TestStatsPopulated(t *testing.T) {
	stats, err := FromDetections(testPage(), questionDetections()).Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.ElementCount != 3 {
		t.Errorf("expected 3 elements in stats, got %d", stats.ElementCount)
	}
	if stats.GroupCount != 1 {
		t.Errorf("expected 1 group in stats, got %d", stats.GroupCount)
	}
}
