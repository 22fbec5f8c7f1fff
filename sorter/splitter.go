package sorter

import (
	"sort"

	"github.com/layoutkit/pagesort/model"
)

// Region is a rectangular subdivision of the page used during recursive
// splitting. It is defined by its member elements rather than explicit
// bounds, and exists only while the splitter runs.
type Region struct {
	Elements []*model.Element
}

// AnchorCount returns the number of anchor elements in the region.
func (r Region) AnchorCount() int {
	n := 0
	for _, e := range r.Elements {
		if e.IsAnchor() {
			n++
		}
	}
	return n
}

// SplitterConfig holds configuration for recursive region splitting.
type SplitterConfig struct {
	// SectionWidthRatio is the minimum width, as a fraction of page
	// width, for a question_type anchor to act as a full-width section
	// divider.
	// Default: 0.7
	SectionWidthRatio float64

	// MinVerticalGapRatio is the minimum Y gap between consecutive
	// anchors, as a fraction of page height, to act as a band boundary.
	// Default: 0.04
	MinVerticalGapRatio float64

	// MaxDepth bounds the recursion on pathological geometries.
	// Default: 8
	MaxDepth int
}

// DefaultSplitterConfig returns sensible default configuration
func DefaultSplitterConfig() SplitterConfig {
	return SplitterConfig{
		SectionWidthRatio:   0.7,
		MinVerticalGapRatio: 0.04,
		MaxDepth:            8,
	}
}

// RecursiveSplitter partitions a page into atomic regions: regions that
// further splitting would not divide into cleaner reading units.
type RecursiveSplitter struct {
	config SplitterConfig
}

// NewRecursiveSplitter creates a splitter with default configuration
func NewRecursiveSplitter() *RecursiveSplitter {
	return &RecursiveSplitter{config: DefaultSplitterConfig()}
}

// NewRecursiveSplitterWithConfig creates a splitter with custom configuration
func NewRecursiveSplitterWithConfig(config SplitterConfig) *RecursiveSplitter {
	return &RecursiveSplitter{config: config}
}

// Split partitions elements into leaf regions in reading order. Every
// input element lands in exactly one leaf.
//
// Two-column pages split once at the classifier's column boundary, left
// column first, then each column splits into bands. Mixed pages split
// into bands directly. Single-column pages are immediately atomic.
func (s *RecursiveSplitter) Split(elements []*model.Element, layout LayoutType, evidence LayoutEvidence, page model.Page) []Region {
	if len(elements) == 0 {
		return nil
	}

	switch layout {
	case TwoColumn:
		left, right := partitionByBoundary(elements, evidence.Boundary)
		regions := s.splitBands(left, page, 0)
		return append(regions, s.splitBands(right, page, 0)...)
	case Mixed:
		return s.splitBands(elements, page, 0)
	default:
		return []Region{{Elements: elements}}
	}
}

// partitionByBoundary assigns elements to the left or right of a column
// boundary. Elements straddling the boundary go by their center X.
func partitionByBoundary(elements []*model.Element, boundary float64) (left, right []*model.Element) {
	for _, e := range elements {
		switch {
		case e.BBox.Right() < boundary:
			left = append(left, e)
		case e.BBox.Left() > boundary:
			right = append(right, e)
		case e.CenterX() < boundary:
			left = append(left, e)
		default:
			right = append(right, e)
		}
	}
	return left, right
}

// splitBands recursively splits a region into horizontal bands until it
// is atomic. A region with at most one anchor cannot usefully split; a
// region where no valid cut exists is atomic as well, which guards
// against infinite recursion.
func (s *RecursiveSplitter) splitBands(elements []*model.Element, page model.Page, depth int) []Region {
	if len(elements) == 0 {
		return nil
	}
	region := Region{Elements: elements}
	if region.AnchorCount() <= 1 || depth >= s.config.MaxDepth {
		return []Region{region}
	}

	// A full-width section header is a stronger structural signal than
	// incidental vertical spacing, so section cuts take priority.
	if cutY, ok := s.sectionCut(elements, page); ok {
		above, below := partitionByCut(elements, cutY)
		regions := s.splitBands(above, page, depth+1)
		return append(regions, s.splitBands(below, page, depth+1)...)
	}

	if cutY, ok := s.gapCut(elements, page); ok {
		above, below := partitionByCut(elements, cutY)
		regions := s.splitBands(above, page, depth+1)
		return append(regions, s.splitBands(below, page, depth+1)...)
	}

	return []Region{region}
}

// sectionCut looks for the widest question_type anchor spanning enough of
// the page width to act as a horizontal divider. The cut runs along the
// divider's top edge; the divider itself belongs to the band below.
func (s *RecursiveSplitter) sectionCut(elements []*model.Element, page model.Page) (float64, bool) {
	minWidth := s.config.SectionWidthRatio * page.Width

	var candidates []*model.Element
	for _, e := range elements {
		if e.Class == model.ClassQuestionType && e.BBox.Width >= minWidth {
			candidates = append(candidates, e)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].BBox.Width > candidates[j].BBox.Width
	})

	for _, divider := range candidates {
		cutY := divider.BBox.Top()
		if isProperCut(elements, cutY) {
			return cutY, true
		}
	}
	return 0, false
}

// gapCut finds the largest vertical gap between consecutive anchors that
// exceeds the minimum gap threshold, returning the gap's midpoint.
func (s *RecursiveSplitter) gapCut(elements []*model.Element, page model.Page) (float64, bool) {
	var anchors []*model.Element
	for _, e := range elements {
		if e.IsAnchor() {
			anchors = append(anchors, e)
		}
	}
	sort.SliceStable(anchors, func(i, j int) bool {
		return anchors[i].BBox.Top() < anchors[j].BBox.Top()
	})

	minGap := s.config.MinVerticalGapRatio * page.Height
	bestGap := 0.0
	bestCut := 0.0
	found := false

	for i := 0; i < len(anchors)-1; i++ {
		gap := anchors[i+1].BBox.Top() - anchors[i].BBox.Bottom()
		if gap <= minGap || gap <= bestGap {
			continue
		}
		cutY := anchors[i].BBox.Bottom() + gap/2
		if isProperCut(elements, cutY) {
			bestGap = gap
			bestCut = cutY
			found = true
		}
	}

	return bestCut, found
}

// partitionByCut splits elements at a horizontal line by their center Y.
func partitionByCut(elements []*model.Element, cutY float64) (above, below []*model.Element) {
	for _, e := range elements {
		if e.CenterY() < cutY {
			above = append(above, e)
		} else {
			below = append(below, e)
		}
	}
	return above, below
}

// isProperCut reports whether cutting at cutY leaves elements on both
// sides, so the recursion always shrinks.
func isProperCut(elements []*model.Element, cutY float64) bool {
	above, below := 0, 0
	for _, e := range elements {
		if e.CenterY() < cutY {
			above++
		} else {
			below++
		}
	}
	return above > 0 && below > 0
}
