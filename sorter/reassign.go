package sorter

import "github.com/layoutkit/pagesort/model"

// ReassignConfig holds configuration for cross-group reassignment.
type ReassignConfig struct {
	// Window is how many groups after the current one are considered
	// as relocation candidates. Visual elements trail their referring
	// text, so earlier groups are never candidates.
	// Default: 2
	Window int

	// ClosenessRatio is the margin a candidate must beat the current
	// group by before a move happens: candidate distance must be below
	// current distance times this ratio. Keeps noise-level differences
	// from causing churn. Exact ties are the exception and always move
	// to the later group.
	// Default: 0.8
	ClosenessRatio float64
}

// DefaultReassignConfig returns sensible default configuration
func DefaultReassignConfig() ReassignConfig {
	return ReassignConfig{
		Window:         2,
		ClosenessRatio: 0.8,
	}
}

// Reassigner moves misgrouped tables and figures to the group whose
// anchor they are closest to. Column and band splitting assigns visual
// elements by geometry alone, and a figure straddling the gap between
// two questions lands in the wrong group about as often as the right
// one; this pass corrects those cases.
type Reassigner struct {
	config ReassignConfig
}

// NewReassigner creates a reassigner with default configuration
func NewReassigner() *Reassigner {
	return &Reassigner{config: DefaultReassignConfig()}
}

// NewReassignerWithConfig creates a reassigner with custom configuration
func NewReassignerWithConfig(config ReassignConfig) *Reassigner {
	return &Reassigner{config: config}
}

// Apply scans every relocatable element and moves it to the best-fitting
// group within the lookahead window. Returns the number of moves.
//
// When an element is exactly equidistant from two candidates, the later
// group in reading order wins. A table sitting in the gap between two
// questions belongs to the one below it, and the naive closest-first
// choice picked the earlier group in exactly those cases.
func (r *Reassigner) Apply(groups []Group) int {
	moved := 0

	for gi := range groups {
		// Children may be removed mid-scan, so walk a snapshot.
		members := make([]*model.Element, len(groups[gi].Children))
		copy(members, groups[gi].Children)

		for _, elem := range members {
			if !elem.IsRelocatable() {
				continue
			}

			target := r.bestGroup(groups, gi, elem)
			if target == gi {
				continue
			}

			removeChild(&groups[gi], elem)
			groups[target].Children = append(groups[target].Children, elem)
			groups[target].Ordered = append(groups[target].Ordered, elem)
			moved++
		}
	}

	return moved
}

// bestGroup returns the index of the group elem should belong to,
// considering the current group and the lookahead window after it.
func (r *Reassigner) bestGroup(groups []Group, current int, elem *model.Element) int {
	y := elem.CenterY()

	currentRef, ok := groups[current].ReferenceY(y, elem)
	if !ok {
		// Nothing to measure against; leave the element where it is.
		return current
	}
	currentDist := abs(y - currentRef)

	best := current
	bestDist := currentDist

	end := current + r.config.Window
	if end > len(groups)-1 {
		end = len(groups) - 1
	}

	for gi := current + 1; gi <= end; gi++ {
		ref, ok := groups[gi].ReferenceY(y, elem)
		if !ok {
			continue
		}
		dist := abs(y - ref)

		switch {
		case dist == bestDist:
			// Exact tie: the later group wins.
			best = gi
		case best == current && dist < currentDist*r.config.ClosenessRatio:
			best = gi
			bestDist = dist
		case best != current && dist < bestDist:
			best = gi
			bestDist = dist
		}
	}

	return best
}

// removeChild removes elem from the group's Children and Ordered slices.
func removeChild(g *Group, elem *model.Element) {
	for i, child := range g.Children {
		if child == elem {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			break
		}
	}
	for i, member := range g.Ordered {
		if member == elem {
			g.Ordered = append(g.Ordered[:i], g.Ordered[i+1:]...)
			break
		}
	}
}
