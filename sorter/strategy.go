package sorter

import (
	"github.com/layoutkit/pagesort/model"
)

// Strategy selects how a page is grouped.
type Strategy int

const (
	// StrategyAuto profiles the page and picks Global or Local.
	StrategyAuto Strategy = iota

	// StrategyGlobal prioritizes page-wide column structure: classify,
	// split recursively, group per region. Works best on PDF-sourced
	// pages with globally consistent columns.
	StrategyGlobal

	// StrategyLocal prioritizes immediate anchor-to-neighbor adjacency
	// without global column detection. Works best on photographed or
	// skewed pages whose column boundaries are globally noisy.
	StrategyLocal

	// StrategyHybrid runs both strategies and keeps the result with
	// fewer orphaned and reassigned elements.
	StrategyHybrid
)

// String returns a string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case StrategyGlobal:
		return "global"
	case StrategyLocal:
		return "local"
	case StrategyHybrid:
		return "hybrid"
	default:
		return "auto"
	}
}

// StrategyConfig holds configuration for strategy selection.
type StrategyConfig struct {
	// GlobalConsistencyThreshold is the minimum fraction of anchors
	// sharing consistent X clustering for the Global strategy.
	// Default: 0.6
	GlobalConsistencyThreshold float64

	// AdjacencyThreshold is the minimum fraction of anchor/nearest-child
	// pairs that are horizontally adjacent for the Local strategy.
	// Default: 0.5
	AdjacencyThreshold float64

	// ConsistencyTolerance is how far an anchor may sit from its cluster
	// center, as a fraction of page width, and still count as consistent.
	// Default: 0.05
	ConsistencyTolerance float64

	// AdjacencyGapRatio is the maximum horizontal gap, as a fraction of
	// page width, for an anchor and its nearest child to count as
	// horizontally adjacent.
	// Default: 0.1
	AdjacencyGapRatio float64
}

// DefaultStrategyConfig returns sensible default configuration
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		GlobalConsistencyThreshold: 0.6,
		AdjacencyThreshold:         0.5,
		ConsistencyTolerance:       0.05,
		AdjacencyGapRatio:          0.1,
	}
}

// PageProfile summarizes a page's geometry for strategy selection.
type PageProfile struct {
	// AnchorCount is the number of anchor elements profiled.
	AnchorCount int

	// GlobalConsistency is the fraction of anchors lying close to their
	// X cluster center.
	GlobalConsistency float64

	// HorizontalAdjacency is the fraction of anchors whose nearest
	// non-anchor neighbor sits horizontally beside them rather than
	// column-separated.
	HorizontalAdjacency float64
}

// StrategySelector profiles page geometry and chooses a grouping strategy.
type StrategySelector struct {
	config StrategyConfig
}

// NewStrategySelector creates a selector with default configuration
func NewStrategySelector() *StrategySelector {
	return &StrategySelector{config: DefaultStrategyConfig()}
}

// NewStrategySelectorWithConfig creates a selector with custom configuration
func NewStrategySelectorWithConfig(config StrategyConfig) *StrategySelector {
	return &StrategySelector{config: config}
}

// Profile computes the geometry profile used for strategy selection.
func (s *StrategySelector) Profile(elements []*model.Element, page model.Page) PageProfile {
	var anchors, others []*model.Element
	for _, e := range elements {
		if e.IsAnchor() {
			anchors = append(anchors, e)
		} else {
			others = append(others, e)
		}
	}

	profile := PageProfile{AnchorCount: len(anchors)}
	profile.GlobalConsistency = s.globalConsistency(anchors, page)
	profile.HorizontalAdjacency = s.horizontalAdjacency(anchors, others, page)
	return profile
}

// Choose picks Global or Local from a profile. Consistent global
// clustering wins outright; otherwise strong local adjacency selects
// Local, and Global remains the fallback.
func (s *StrategySelector) Choose(profile PageProfile) Strategy {
	if profile.GlobalConsistency >= s.config.GlobalConsistencyThreshold {
		return StrategyGlobal
	}
	if profile.HorizontalAdjacency >= s.config.AdjacencyThreshold {
		return StrategyLocal
	}
	return StrategyGlobal
}

// globalConsistency returns the fraction of anchors within tolerance of
// their X cluster center. Pages with fewer than two anchors are trivially
// consistent.
func (s *StrategySelector) globalConsistency(anchors []*model.Element, page model.Page) float64 {
	if len(anchors) < 2 || page.Width <= 0 {
		return 1.0
	}

	xs := make([]float64, len(anchors))
	for i, a := range anchors {
		xs[i] = a.XPosition()
	}

	centers, _, assignments, ok := kmeans2(xs, 50)
	if !ok {
		return 1.0
	}

	tolerance := s.config.ConsistencyTolerance * page.Width
	consistent := 0
	for i, x := range xs {
		if abs(x-centers[assignments[i]]) <= tolerance {
			consistent++
		}
	}
	return float64(consistent) / float64(len(xs))
}

// horizontalAdjacency returns the fraction of anchors whose nearest
// non-anchor element sits beside them: overlapping vertically with only
// a small horizontal gap.
func (s *StrategySelector) horizontalAdjacency(anchors, others []*model.Element, page model.Page) float64 {
	if len(anchors) == 0 || len(others) == 0 || page.Width <= 0 {
		return 0
	}

	maxGap := s.config.AdjacencyGapRatio * page.Width
	adjacent := 0

	for _, anchor := range anchors {
		nearest := nearestByCenter(anchor, others)
		if nearest == nil {
			continue
		}
		if !verticalOverlap(anchor.BBox, nearest.BBox) {
			continue
		}
		gap := horizontalGap(anchor.BBox, nearest.BBox)
		if gap <= maxGap {
			adjacent++
		}
	}

	return float64(adjacent) / float64(len(anchors))
}

// nearestByCenter returns the candidate with the smallest center-to-center
// distance to elem. Ties keep the earlier candidate for determinism.
func nearestByCenter(elem *model.Element, candidates []*model.Element) *model.Element {
	var nearest *model.Element
	bestDist := 0.0
	for _, c := range candidates {
		d := elem.BBox.Center().Distance(c.BBox.Center())
		if nearest == nil || d < bestDist {
			nearest = c
			bestDist = d
		}
	}
	return nearest
}

// verticalOverlap reports whether two boxes share any Y range.
func verticalOverlap(a, b model.BBox) bool {
	return a.Top() < b.Bottom() && b.Top() < a.Bottom()
}

// horizontalGap returns the horizontal distance between two boxes' edges,
// zero when they overlap horizontally.
func horizontalGap(a, b model.BBox) float64 {
	if a.Right() < b.Left() {
		return b.Left() - a.Right()
	}
	if b.Right() < a.Left() {
		return a.Left() - b.Right()
	}
	return 0
}
