package sorter

import (
	"math"

	"github.com/layoutkit/pagesort/model"
)

// ClassifierConfig holds configuration for layout classification.
type ClassifierConfig struct {
	// MinAnchors is the minimum number of anchor elements required
	// before multi-column classification is attempted.
	// Default: 2
	MinAnchors int

	// MinSeparationRatio is the minimum distance between anchor X
	// cluster centers, as a fraction of page width, for a page to be
	// classified as two-column. A separation sitting exactly at the
	// threshold classifies as single-column.
	// Default: 0.25
	MinSeparationRatio float64

	// MixedSpreadRatio is the minimum total spread of anchor X
	// coordinates, as a fraction of page width, for a low-separation
	// page to be classified as mixed: the anchors cover a wide X range
	// without forming two separable columns, so the column boundaries
	// are irregular.
	// Default: 0.3
	MixedSpreadRatio float64

	// KMeansIterations bounds the clustering iterations.
	// Default: 50
	KMeansIterations int
}

// DefaultClassifierConfig returns sensible default configuration
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MinAnchors:         2,
		MinSeparationRatio: 0.25,
		MixedSpreadRatio:   0.3,
		KMeansIterations:   50,
	}
}

// LayoutClassifier decides a page's column topology from the X positions
// of its anchor elements. Non-anchor elements are ignored: body text and
// figures wrap unpredictably and are not reliable column indicators.
type LayoutClassifier struct {
	config ClassifierConfig
}

// NewLayoutClassifier creates a classifier with default configuration
func NewLayoutClassifier() *LayoutClassifier {
	return &LayoutClassifier{config: DefaultClassifierConfig()}
}

// NewLayoutClassifierWithConfig creates a classifier with custom configuration
func NewLayoutClassifierWithConfig(config ClassifierConfig) *LayoutClassifier {
	return &LayoutClassifier{config: config}
}

// Classify inspects all elements on a page and returns its layout type
// together with the clustering evidence behind the decision.
//
// Pages with too few anchors, or whose anchors cannot be separated into
// two clusters, classify as single-column: the conservative choice that
// avoids over-segmenting. This is a fallback, never an error.
func (c *LayoutClassifier) Classify(elements []*model.Element, page model.Page) (LayoutType, LayoutEvidence) {
	var xs []float64
	for _, e := range elements {
		if e.IsAnchor() {
			xs = append(xs, e.XPosition())
		}
	}

	evidence := LayoutEvidence{AnchorCount: len(xs)}

	if len(xs) < c.config.MinAnchors || page.Width <= 0 {
		return SingleColumn, evidence
	}

	centers, counts, _, ok := kmeans2(xs, c.config.KMeansIterations)
	if !ok {
		return SingleColumn, evidence
	}

	evidence.Centers = centers
	evidence.Counts = counts
	evidence.Boundary = (centers[0] + centers[1]) / 2
	evidence.Separation = (centers[1] - centers[0]) / page.Width

	if evidence.Separation > c.config.MinSeparationRatio {
		return TwoColumn, evidence
	}

	// Low separation: the anchors do not form two clean columns. If they
	// still cover a wide X range, the column boundaries are irregular
	// and the page needs band-wise splitting.
	if anchorSpread(xs)/page.Width > c.config.MixedSpreadRatio {
		return Mixed, evidence
	}

	return SingleColumn, evidence
}

// anchorSpread returns the total X range covered by the anchors.
func anchorSpread(xs []float64) float64 {
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return hi - lo
}
