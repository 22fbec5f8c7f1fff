package sorter

import (
	"sort"

	"github.com/layoutkit/pagesort/model"
)

// Group is an anchor element and the children it owns. Orphan groups have
// no anchor and hold elements that precede the first anchor, or all
// elements when a region has none.
type Group struct {
	// Anchor is the element that opened the group, nil for orphans.
	// It never changes once assigned.
	Anchor *model.Element

	// Children are the owned elements, anchor excluded, in scan order.
	// The reassignment pass may add or remove children.
	Children []*model.Element

	// Ordered retains the full member set in the original scan order,
	// for diagnostics and reassignment reference points.
	Ordered []*model.Element

	// Header marks an orphan group recognized as page-level header
	// material (running headers, titles above the first question).
	Header bool
}

// Elements returns the group's members, anchor first.
func (g *Group) Elements() []*model.Element {
	if g.Anchor == nil {
		return g.Children
	}
	members := make([]*model.Element, 0, len(g.Children)+1)
	members = append(members, g.Anchor)
	return append(members, g.Children...)
}

// Size returns the number of members including the anchor.
func (g *Group) Size() int {
	n := len(g.Children)
	if g.Anchor != nil {
		n++
	}
	return n
}

// ReferenceY returns the vertical center of the group's anchor, or of
// the child nearest to y when the group has no anchor. The second return
// is false for a group with no usable reference point.
func (g *Group) ReferenceY(y float64, exclude *model.Element) (float64, bool) {
	if g.Anchor != nil {
		return g.Anchor.CenterY(), true
	}

	best := 0.0
	found := false
	for _, child := range g.Children {
		if child == exclude {
			continue
		}
		cy := child.CenterY()
		if !found || abs(cy-y) < abs(best-y) {
			best = cy
			found = true
		}
	}
	return best, found
}

// GrouperConfig holds configuration for base-case grouping.
type GrouperConfig struct {
	// TopOrphanRatio is the fraction of the region's vertical extent
	// below which leading anchorless elements count as page-level
	// header material.
	// Default: 0.15
	TopOrphanRatio float64
}

// DefaultGrouperConfig returns sensible default configuration
func DefaultGrouperConfig() GrouperConfig {
	return GrouperConfig{
		TopOrphanRatio: 0.15,
	}
}

// Grouper assigns every element of an atomic region to an anchor-owned
// group, or to an orphan group when no anchor applies.
type Grouper struct {
	config GrouperConfig
}

// NewGrouper creates a grouper with default configuration
func NewGrouper() *Grouper {
	return &Grouper{config: DefaultGrouperConfig()}
}

// NewGrouperWithConfig creates a grouper with custom configuration
func NewGrouperWithConfig(config GrouperConfig) *Grouper {
	return &Grouper{config: config}
}

// GroupRegion scans the region's elements in (Y, X) order. An anchor
// opens a new group and owns every following non-anchor element until
// the next anchor. Elements before the first anchor form a leading
// orphan group, emitted first. Every element lands in exactly one group.
func (g *Grouper) GroupRegion(region Region, page model.Page) []Group {
	if len(region.Elements) == 0 {
		return nil
	}

	scan := make([]*model.Element, len(region.Elements))
	copy(scan, region.Elements)
	// Anchors sharing a Y position (side-by-side sub-questions) order
	// by X ascending.
	sort.SliceStable(scan, func(i, j int) bool {
		if scan[i].YPosition() != scan[j].YPosition() {
			return scan[i].YPosition() < scan[j].YPosition()
		}
		return scan[i].XPosition() < scan[j].XPosition()
	})

	var groups []Group
	current := -1

	for _, e := range scan {
		if e.IsAnchor() {
			groups = append(groups, Group{Anchor: e, Ordered: []*model.Element{e}})
			current = len(groups) - 1
			continue
		}
		if current == -1 {
			if len(groups) == 0 {
				groups = append(groups, Group{})
			}
			groups[0].Children = append(groups[0].Children, e)
			groups[0].Ordered = append(groups[0].Ordered, e)
			continue
		}
		groups[current].Children = append(groups[current].Children, e)
		groups[current].Ordered = append(groups[current].Ordered, e)
	}

	g.markTopOrphan(groups, region, page)

	return groups
}

// markTopOrphan applies the top-orphan rule: an orphan group whose
// elements all sit within the top fraction of the region's vertical
// extent is header material and stays first in reading order.
func (g *Grouper) markTopOrphan(groups []Group, region Region, page model.Page) {
	if len(groups) == 0 || groups[0].Anchor != nil || len(groups[0].Children) == 0 {
		return
	}

	top, bottom := regionExtent(region)
	extent := bottom - top
	if extent <= 0 {
		extent = page.Height
	}
	threshold := top + g.config.TopOrphanRatio*extent

	for _, e := range groups[0].Children {
		if e.BBox.Bottom() > threshold {
			return
		}
	}
	groups[0].Header = true
}

// regionExtent returns the vertical extent covered by a region's elements.
func regionExtent(region Region) (top, bottom float64) {
	top = region.Elements[0].BBox.Top()
	bottom = region.Elements[0].BBox.Bottom()
	for _, e := range region.Elements[1:] {
		if e.BBox.Top() < top {
			top = e.BBox.Top()
		}
		if e.BBox.Bottom() > bottom {
			bottom = e.BBox.Bottom()
		}
	}
	return top, bottom
}

// abs returns the absolute value of a float64.
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
