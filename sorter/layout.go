package sorter

// LayoutType is the page-level column topology classification.
type LayoutType int

const (
	// SingleColumn pages read straight top to bottom.
	SingleColumn LayoutType = iota
	// TwoColumn pages have two vertical columns read left column first.
	TwoColumn
	// Mixed pages have irregular column structure, typically full-width
	// section bands each with their own internal layout.
	Mixed
)

// String returns a string representation of the layout type
func (t LayoutType) String() string {
	switch t {
	case TwoColumn:
		return "two_column"
	case Mixed:
		return "mixed"
	default:
		return "single_column"
	}
}

// LayoutEvidence records the clustering evidence behind a layout
// classification. It is computed once per page and read-only afterward.
type LayoutEvidence struct {
	// AnchorCount is the number of anchor elements the classification
	// was based on.
	AnchorCount int

	// Centers are the two cluster centers of anchor X coordinates,
	// ascending. Zero when fewer than two anchors exist.
	Centers [2]float64

	// Counts are the anchor counts per cluster.
	Counts [2]int

	// Boundary is the column boundary X coordinate (midpoint between
	// the cluster centers). Meaningful only for TwoColumn.
	Boundary float64

	// Separation is the distance between cluster centers as a fraction
	// of page width.
	Separation float64
}
