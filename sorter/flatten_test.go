package sorter

import (
	"testing"

	"github.com/layoutkit/pagesort/model"
)

func TestFlattener_ContiguousGlobalOrder(t *testing.T) {
	flattener := NewFlattener()

	anchor1 := makeElement(0, model.ClassQuestionNumber, 10, 100, 30, 20)
	child1 := makeElement(1, model.ClassQuestionText, 10, 130, 300, 60)
	anchor2 := makeElement(2, model.ClassQuestionNumber, 10, 300, 30, 20)
	child2 := makeElement(3, model.ClassChoices, 10, 330, 300, 80)
	child3 := makeElement(4, model.ClassFigure, 10, 420, 300, 150)

	groups := buildGroups(
		[]*model.Element{anchor1, child1},
		[]*model.Element{anchor2, child2, child3},
	)

	ordered := flattener.Flatten(groups)
	if len(ordered) != 5 {
		t.Fatalf("expected 5 elements, got %d", len(ordered))
	}

	for i, e := range ordered {
		if e.OrderInQuestion != i {
			t.Errorf("element at position %d has OrderInQuestion %d", i, e.OrderInQuestion)
		}
	}
}

func TestFlattener_AnchorIsRankZero(t *testing.T) {
	flattener := NewFlattener()

	anchor := makeElement(0, model.ClassQuestionNumber, 10, 100, 30, 20)
	child := makeElement(1, model.ClassChoices, 10, 130, 300, 80)

	groups := buildGroups([]*model.Element{anchor, child})
	flattener.Flatten(groups)

	if anchor.OrderInGroup != 0 {
		t.Errorf("anchor must be rank 0 in its group, got %d", anchor.OrderInGroup)
	}
	if child.OrderInGroup != 1 {
		t.Errorf("child should follow the anchor, got rank %d", child.OrderInGroup)
	}
}

func TestFlattener_QuestionTextPromotedToFirstChild(t *testing.T) {
	flattener := NewFlattener()

	// A reassigned figure was appended before the question text in the
	// children list; rendering still expects question text first.
	anchor := makeElement(0, model.ClassQuestionNumber, 10, 100, 30, 20)
	figure := makeElement(1, model.ClassFigure, 10, 250, 300, 150)
	text := makeElement(2, model.ClassQuestionText, 10, 130, 300, 60)

	groups := buildGroups([]*model.Element{anchor, figure, text})
	ordered := flattener.Flatten(groups)

	if ordered[1].ID != 2 {
		t.Errorf("question_text should be the first child, got element %d", ordered[1].ID)
	}
	if ordered[2].ID != 1 {
		t.Errorf("figure should follow the question text, got element %d", ordered[2].ID)
	}
}

func TestFlattener_StampsGroupIDs(t *testing.T) {
	flattener := NewFlattener()

	anchor1 := makeElement(0, model.ClassQuestionNumber, 10, 100, 30, 20)
	anchor2 := makeElement(1, model.ClassQuestionNumber, 10, 300, 30, 20)
	child := makeElement(2, model.ClassChoices, 10, 330, 300, 80)

	groups := buildGroups(
		[]*model.Element{anchor1},
		[]*model.Element{anchor2, child},
	)
	flattener.Flatten(groups)

	if anchor1.GroupID != 0 {
		t.Errorf("first group should stamp GroupID 0, got %d", anchor1.GroupID)
	}
	if anchor2.GroupID != 1 || child.GroupID != 1 {
		t.Errorf("second group should stamp GroupID 1, got %d and %d", anchor2.GroupID, child.GroupID)
	}
}

func TestFlattener_EmptyGroups(t *testing.T) {
	flattener := NewFlattener()

	if ordered := flattener.Flatten(nil); len(ordered) != 0 {
		t.Errorf("expected no elements, got %d", len(ordered))
	}
}
