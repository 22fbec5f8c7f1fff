package model

// DocumentType governs which grouping rules apply to a page.
type DocumentType int

const (
	// QuestionBased documents use the full anchor/group pipeline:
	// question numbers and section headers own their surrounding elements.
	QuestionBased DocumentType = iota

	// ReadingOrder documents skip anchor grouping entirely and are
	// ordered by a plain top-to-bottom, left-to-right sort.
	ReadingOrder
)

// String returns a string representation of the document type
func (t DocumentType) String() string {
	if t == ReadingOrder {
		return "reading_order"
	}
	return "question_based"
}

// Page holds the metadata for a single scanned page.
type Page struct {
	Number int     // 1-indexed page number
	Width  float64 // Page width in pixels
	Height float64 // Page height in pixels

	// Type selects the grouping rules for this page.
	Type DocumentType
}

// NewPage creates a question-based page with the given 1-indexed
// number and pixel dimensions.
func NewPage(number int, width, height float64) Page {
	return Page{Number: number, Width: width, Height: height, Type: QuestionBased}
}
