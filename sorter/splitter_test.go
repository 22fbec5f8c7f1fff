package sorter

import (
	"testing"

	"github.com/layoutkit/pagesort/model"
)

func classifyAndSplit(t *testing.T, elements []*model.Element, page model.Page) []Region {
	t.Helper()
	layout, evidence := NewLayoutClassifier().Classify(elements, page)
	return NewRecursiveSplitter().Split(elements, layout, evidence, page)
}

func regionElementSet(regions []Region) map[int]int {
	seen := map[int]int{}
	for _, r := range regions {
		for _, e := range r.Elements {
			seen[e.ID]++
		}
	}
	return seen
}

func TestRecursiveSplitter_SingleColumnIsAtomic(t *testing.T) {
	splitter := NewRecursiveSplitter()

	elements := []*model.Element{
		makeElement(0, model.ClassQuestionNumber, 100, 100, 30, 20),
		makeElement(1, model.ClassQuestionText, 100, 130, 300, 60),
	}

	regions := splitter.Split(elements, SingleColumn, LayoutEvidence{}, testPage())
	if len(regions) != 1 {
		t.Fatalf("single column should yield one region, got %d", len(regions))
	}
	if len(regions[0].Elements) != 2 {
		t.Errorf("region should contain all elements, got %d", len(regions[0].Elements))
	}
}

func TestRecursiveSplitter_TwoColumnSplitsAtBoundary(t *testing.T) {
	elements := twoColumnElements()
	// Children near each column's anchors.
	elements = append(elements,
		makeElement(100, model.ClassQuestionText, 100, 130, 250, 50),
		makeElement(101, model.ClassQuestionText, 900, 130, 80, 50),
	)

	regions := classifyAndSplit(t, elements, testPage())

	if len(regions) < 2 {
		t.Fatalf("expected at least two regions, got %d", len(regions))
	}

	// Every element left of x=500 must precede every element right of it,
	// and no region may mix the two sides.
	for _, r := range regions {
		leftSeen, rightSeen := false, false
		for _, e := range r.Elements {
			if e.CenterX() < 500 {
				leftSeen = true
			} else {
				rightSeen = true
			}
		}
		if leftSeen && rightSeen {
			t.Error("a region mixes elements from both columns")
		}
	}

	// Completeness: each element appears exactly once across leaves.
	seen := regionElementSet(regions)
	if len(seen) != len(elements) {
		t.Errorf("expected %d distinct elements across regions, got %d", len(elements), len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("element %d appears %d times", id, n)
		}
	}
}

func TestRecursiveSplitter_StraddlingElementGoesByCenter(t *testing.T) {
	splitter := NewRecursiveSplitter()

	// Wide figure crossing the boundary, center at x=430.
	elements := []*model.Element{
		makeElement(0, model.ClassQuestionNumber, 100, 100, 30, 20),
		makeElement(1, model.ClassQuestionNumber, 900, 100, 30, 20),
		makeElement(2, model.ClassFigure, 280, 200, 300, 150),
	}
	evidence := LayoutEvidence{Boundary: 500}

	regions := splitter.Split(elements, TwoColumn, evidence, testPage())

	var figureRegion int = -1
	for i, r := range regions {
		for _, e := range r.Elements {
			if e.ID == 2 {
				figureRegion = i
			}
		}
	}
	if figureRegion == -1 {
		t.Fatal("figure was dropped during splitting")
	}
	// Center 430 < 500: the figure belongs to the left side, which comes first.
	if figureRegion != 0 {
		t.Errorf("straddling figure with center left of the boundary should land in the left region, got region %d", figureRegion)
	}
}

func TestRecursiveSplitter_SectionDividerSplitsFirst(t *testing.T) {
	splitter := NewRecursiveSplitter()

	// A full-width section header separates two questions, with a large
	// Y-gap elsewhere; the section cut must take priority.
	elements := []*model.Element{
		makeElement(0, model.ClassQuestionNumber, 100, 100, 30, 20),
		makeElement(1, model.ClassQuestionText, 100, 130, 300, 60),
		makeElement(2, model.ClassQuestionType, 50, 400, 900, 40), // spans 90% of width
		makeElement(3, model.ClassQuestionNumber, 100, 470, 30, 20),
		makeElement(4, model.ClassQuestionText, 100, 500, 300, 60),
	}

	regions := splitter.Split(elements, Mixed, LayoutEvidence{}, testPage())
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}

	// The divider itself belongs to the band below the cut.
	below := regions[1]
	foundDivider := false
	for _, e := range below.Elements {
		if e.ID == 2 {
			foundDivider = true
		}
	}
	if !foundDivider {
		t.Error("section divider should belong to the band it introduces")
	}
	if len(regions[0].Elements) != 2 || len(regions[1].Elements) != 3 {
		t.Errorf("unexpected band sizes: %d and %d", len(regions[0].Elements), len(regions[1].Elements))
	}
}

func TestRecursiveSplitter_GapSplit(t *testing.T) {
	splitter := NewRecursiveSplitter()

	// Two questions separated by a 300px vertical gap on a 1000px page.
	elements := []*model.Element{
		makeElement(0, model.ClassQuestionNumber, 100, 100, 30, 20),
		makeElement(1, model.ClassQuestionText, 100, 130, 300, 60),
		makeElement(2, model.ClassQuestionNumber, 100, 500, 30, 20),
		makeElement(3, model.ClassQuestionText, 100, 530, 300, 60),
	}

	regions := splitter.Split(elements, Mixed, LayoutEvidence{}, testPage())
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions from a gap split, got %d", len(regions))
	}
	if len(regions[0].Elements) != 2 || len(regions[1].Elements) != 2 {
		t.Errorf("unexpected band sizes: %d and %d", len(regions[0].Elements), len(regions[1].Elements))
	}
}

func TestRecursiveSplitter_NoValidCutIsAtomic(t *testing.T) {
	splitter := NewRecursiveSplitter()

	// Two anchors with no meaningful vertical gap: no cut exists, the
	// region stays atomic instead of recursing forever.
	elements := []*model.Element{
		makeElement(0, model.ClassQuestionNumber, 100, 100, 30, 20),
		makeElement(1, model.ClassQuestionNumber, 100, 125, 30, 20),
	}

	regions := splitter.Split(elements, Mixed, LayoutEvidence{}, testPage())
	if len(regions) != 1 {
		t.Fatalf("expected one atomic region, got %d", len(regions))
	}
}

func TestRecursiveSplitter_EmptyInput(t *testing.T) {
	splitter := NewRecursiveSplitter()

	if regions := splitter.Split(nil, TwoColumn, LayoutEvidence{Boundary: 500}, testPage()); regions != nil {
		t.Errorf("expected no regions for empty input, got %d", len(regions))
	}
}
