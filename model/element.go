package model

// Element class names produced by the layout detector. Anchor classes mark
// the start of a new logical group; everything else is child material.
const (
	ClassQuestionNumber       = "question_number"
	ClassQuestionType         = "question_type"
	ClassSecondQuestionNumber = "second_question_number"

	ClassQuestionText = "question_text"
	ClassChoices      = "choices"
	ClassList         = "list"
	ClassFigure       = "figure"
	ClassTable        = "table"
	ClassFlowchart    = "flowchart"
	ClassCaption      = "caption"
	ClassFootnote     = "footnote"
	ClassPlainText    = "plain_text"
	ClassUnit         = "unit"
)

// anchorClasses are the classes that open a new group when encountered
// during the base-case grouping scan.
var anchorClasses = map[string]bool{
	ClassQuestionNumber:       true,
	ClassQuestionType:         true,
	ClassSecondQuestionNumber: true,
}

// relocatableClasses are visual classes eligible for cross-group
// reassignment after grouping. Text-bearing classes are never moved.
var relocatableClasses = map[string]bool{
	ClassTable:  true,
	ClassFigure: true,
}

// knownClasses is the full vocabulary the sorter has rules for. Elements
// outside it are still accepted, treated as generic children.
var knownClasses = map[string]bool{
	ClassQuestionNumber:       true,
	ClassQuestionType:         true,
	ClassSecondQuestionNumber: true,
	ClassQuestionText:         true,
	ClassChoices:              true,
	ClassList:                 true,
	ClassFigure:               true,
	ClassTable:                true,
	ClassFlowchart:            true,
	ClassCaption:              true,
	ClassFootnote:             true,
	ClassPlainText:            true,
	ClassUnit:                 true,
}

// IsAnchorClass reports whether the class opens a new group.
func IsAnchorClass(class string) bool {
	return anchorClasses[class]
}

// IsRelocatableClass reports whether elements of the class may be moved
// between groups by the reassignment pass.
func IsRelocatableClass(class string) bool {
	return relocatableClasses[class]
}

// IsKnownClass reports whether the class is part of the sorter's vocabulary.
func IsKnownClass(class string) bool {
	return knownClasses[class]
}

// Element is a detected layout region on a page. The detection stage fills
// ID, Class, Confidence and BBox; the sorter populates the ordering fields
// in place. Text and Description are filled by the OCR and captioning
// collaborators after sorting.
type Element struct {
	// ID is assigned by the detection stage and never changes.
	ID int

	// Class is the detector's class name for this region.
	Class string

	// Confidence is the detector's score in [0,1]. It is only used for
	// duplicate suppression, never for ordering.
	Confidence float64

	// BBox is the region geometry in page pixels.
	BBox BBox

	// Text is the OCR output for the region, if any.
	Text string

	// Description is the visual description for figure-like regions, if any.
	Description string

	// GroupID identifies the group this element was assigned to.
	GroupID int

	// OrderInGroup is the element's rank within its group.
	OrderInGroup int

	// OrderInQuestion is the global reading-order rank across the page.
	OrderInQuestion int
}

// XPosition returns the left edge of the element.
func (e *Element) XPosition() float64 {
	return e.BBox.X
}

// YPosition returns the top edge of the element.
func (e *Element) YPosition() float64 {
	return e.BBox.Y
}

// CenterX returns the horizontal center of the element.
func (e *Element) CenterX() float64 {
	return e.BBox.Center().X
}

// CenterY returns the vertical center of the element.
func (e *Element) CenterY() float64 {
	return e.BBox.Center().Y
}

// Area returns the pixel area of the element's box. Degenerate boxes
// report zero rather than a negative value.
func (e *Element) Area() float64 {
	if !e.BBox.IsValid() {
		return 0
	}
	return e.BBox.Area()
}

// IsAnchor reports whether this element opens a new group.
func (e *Element) IsAnchor() bool {
	return IsAnchorClass(e.Class)
}

// IsRelocatable reports whether this element may be moved between groups.
func (e *Element) IsRelocatable() bool {
	return IsRelocatableClass(e.Class)
}
