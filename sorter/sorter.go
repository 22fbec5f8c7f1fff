package sorter

import (
	"sort"

	"github.com/layoutkit/pagesort/model"
)

// SorterConfig holds configuration for the full sorting pipeline.
// Each pass has its own sub-configuration.
type SorterConfig struct {
	// Classifier configures layout classification
	Classifier ClassifierConfig

	// Splitter configures recursive region splitting
	Splitter SplitterConfig

	// Grouper configures base-case grouping
	Grouper GrouperConfig

	// Reassign configures cross-group reassignment
	Reassign ReassignConfig

	// Strategy configures strategy selection
	Strategy StrategyConfig

	// ForceStrategy overrides automatic strategy selection when set to
	// anything other than StrategyAuto.
	ForceStrategy Strategy
}

// DefaultSorterConfig returns a configuration with the empirically tuned
// defaults for every pass.
func DefaultSorterConfig() SorterConfig {
	return SorterConfig{
		Classifier:    DefaultClassifierConfig(),
		Splitter:      DefaultSplitterConfig(),
		Grouper:       DefaultGrouperConfig(),
		Reassign:      DefaultReassignConfig(),
		Strategy:      DefaultStrategyConfig(),
		ForceStrategy: StrategyAuto,
	}
}

// SortStats contains counts from a sorting run.
type SortStats struct {
	ElementCount int
	GroupCount   int
	RegionCount  int
	OrphanCount  int // elements in groups without an anchor
	MovedCount   int // elements moved by cross-group reassignment
}

// SortResult holds the outcome of sorting one page. Elements are the
// same objects passed in, mutated in place with their ordering fields
// populated, returned here in final reading order.
type SortResult struct {
	// Elements in final reading order, OrderInQuestion 0..N-1.
	Elements []*model.Element

	// Groups in final order, after reassignment.
	Groups []Group

	// Layout is the page's classified column topology.
	Layout LayoutType

	// Evidence is the clustering evidence behind the classification.
	Evidence LayoutEvidence

	// Profile is the geometry profile used for strategy selection.
	Profile PageProfile

	// StrategyUsed is the strategy that produced Groups.
	StrategyUsed Strategy

	// Warnings are the degraded-but-valid conditions encountered.
	Warnings []Warning

	// Stats summarizes the run.
	Stats SortStats
}

// Sorter orders and groups the detected elements of a page. It is
// synchronous and deterministic; a single Sorter may be reused across
// pages, but one element slice must not be sorted concurrently from
// two goroutines.
type Sorter struct {
	config     SorterConfig
	classifier *LayoutClassifier
	splitter   *RecursiveSplitter
	grouper    *Grouper
	reassigner *Reassigner
	flattener  *Flattener
	selector   *StrategySelector
}

// NewSorter creates a sorter with default configuration
func NewSorter() *Sorter {
	return NewSorterWithConfig(DefaultSorterConfig())
}

// NewSorterWithConfig creates a sorter with custom configuration
func NewSorterWithConfig(config SorterConfig) *Sorter {
	return &Sorter{
		config:     config,
		classifier: NewLayoutClassifierWithConfig(config.Classifier),
		splitter:   NewRecursiveSplitterWithConfig(config.Splitter),
		grouper:    NewGrouperWithConfig(config.Grouper),
		reassigner: NewReassignerWithConfig(config.Reassign),
		flattener:  NewFlattener(),
		selector:   NewStrategySelectorWithConfig(config.Strategy),
	}
}

// Sort runs the full pipeline on a page's elements: classify, split,
// group, reassign, flatten. Elements are mutated in place; the result
// lists them in final reading order. Sort never fails for well-typed
// input — degraded cases surface as warnings beside a complete result.
func (s *Sorter) Sort(elements []*model.Element, page model.Page) *SortResult {
	return s.SortWithStrategy(elements, page, s.config.ForceStrategy)
}

// SortWithStrategy runs the pipeline with an explicit strategy override.
func (s *Sorter) SortWithStrategy(elements []*model.Element, page model.Page, strategy Strategy) *SortResult {
	result := &SortResult{StrategyUsed: strategy}
	if len(elements) == 0 {
		return result
	}

	result.Warnings = s.inspect(elements)

	// Reading-order documents skip anchor grouping entirely.
	if page.Type == model.ReadingOrder {
		groups := []Group{scanOrderGroup(elements)}
		result.Elements = s.flattener.Flatten(groups)
		result.Groups = groups
		result.StrategyUsed = strategy
		s.fillStats(result, 1, 0)
		return result
	}

	result.Layout, result.Evidence = s.classifier.Classify(elements, page)
	result.Profile = s.selector.Profile(elements, page)

	if strategy == StrategyAuto {
		strategy = s.selector.Choose(result.Profile)
	}

	var groups []Group
	var regions, moved int

	if strategy == StrategyHybrid {
		globalGroups, globalRegions, globalMoved := s.run(StrategyGlobal, elements, page, result)
		localGroups, localRegions, localMoved := s.run(StrategyLocal, elements, page, result)

		// Keep whichever produced fewer orphaned and reassigned
		// elements; the global result wins ties.
		globalScore := orphanElementCount(globalGroups) + globalMoved
		localScore := orphanElementCount(localGroups) + localMoved
		if localScore < globalScore {
			groups, regions, moved = localGroups, localRegions, localMoved
			strategy = StrategyLocal
		} else {
			groups, regions, moved = globalGroups, globalRegions, globalMoved
			strategy = StrategyGlobal
		}
	} else {
		groups, regions, moved = s.run(strategy, elements, page, result)
	}

	if result.Evidence.AnchorCount == 0 {
		result.Warnings = warnf(result.Warnings, WarnNoAnchors,
			"page %d has no anchor elements; grouped as a single orphan", page.Number)
	}

	result.Elements = s.flattener.Flatten(groups)
	result.Groups = groups
	result.StrategyUsed = strategy
	s.fillStats(result, regions, moved)
	return result
}

// run produces groups with one concrete strategy, reassignment included,
// without flattening. Flattening is deferred so Hybrid can score both
// candidate results before committing to one.
func (s *Sorter) run(strategy Strategy, elements []*model.Element, page model.Page, result *SortResult) (groups []Group, regions, moved int) {
	if strategy == StrategyLocal {
		groups = s.localGroups(elements, page)
		regions = 1
	} else {
		leaves := s.splitter.Split(elements, result.Layout, result.Evidence, page)
		regions = len(leaves)
		for _, region := range leaves {
			groups = append(groups, s.grouper.GroupRegion(region, page)...)
		}
	}
	moved = s.reassigner.Apply(groups)
	return groups, regions, moved
}

// localGroups implements the Local strategy: anchors become groups in
// (Y, X) order and every other element joins the anchor it sits nearest
// to, with a preference for anchors above it. No column detection runs.
func (s *Sorter) localGroups(elements []*model.Element, page model.Page) []Group {
	var anchors, others []*model.Element
	for _, e := range elements {
		if e.IsAnchor() {
			anchors = append(anchors, e)
		} else {
			others = append(others, e)
		}
	}

	if len(anchors) == 0 {
		return []Group{scanOrderGroup(elements)}
	}

	sortScanOrder(anchors)

	// Page-level header material above the first anchor stays orphaned.
	headerLimit := s.config.Grouper.TopOrphanRatio * page.Height
	firstAnchorTop := anchors[0].BBox.Top()
	var header, body []*model.Element
	for _, e := range others {
		if e.BBox.Bottom() <= headerLimit && e.BBox.Bottom() <= firstAnchorTop {
			header = append(header, e)
		} else {
			body = append(body, e)
		}
	}

	groups := make([]Group, len(anchors))
	for i, a := range anchors {
		groups[i] = Group{Anchor: a, Ordered: []*model.Element{a}}
	}

	for _, e := range body {
		best := 0
		bestScore := adjacencyScore(e, anchors[0], page)
		for i := 1; i < len(anchors); i++ {
			if score := adjacencyScore(e, anchors[i], page); score < bestScore {
				best = i
				bestScore = score
			}
		}
		groups[best].Children = append(groups[best].Children, e)
		groups[best].Ordered = append(groups[best].Ordered, e)
	}

	for i := range groups {
		sortScanOrder(groups[i].Children)
		groups[i].Ordered = groups[i].Elements()
	}

	if len(header) > 0 {
		sortScanOrder(header)
		orphan := Group{
			Children: header,
			Ordered:  append([]*model.Element(nil), header...),
			Header:   true,
		}
		groups = append([]Group{orphan}, groups...)
	}

	return groups
}

// adjacencyScore measures how strongly an element belongs beside an
// anchor: vertical distance dominates, horizontal distance counts half,
// and anchors below the element are penalized since children trail
// their anchor on the page.
func adjacencyScore(elem, anchor *model.Element, page model.Page) float64 {
	width, height := page.Width, page.Height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	score := abs(elem.CenterY()-anchor.CenterY())/height +
		0.5*abs(elem.CenterX()-anchor.CenterX())/width
	if anchor.CenterY() > elem.CenterY() {
		score *= 2
	}
	return score
}

// scanOrderGroup puts all elements into a single orphan group in
// (Y, X) scan order.
func scanOrderGroup(elements []*model.Element) Group {
	members := make([]*model.Element, len(elements))
	copy(members, elements)
	sortScanOrder(members)
	return Group{Children: members, Ordered: append([]*model.Element(nil), members...)}
}

// sortScanOrder sorts elements by Y position, then X position.
func sortScanOrder(elements []*model.Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		if elements[i].YPosition() != elements[j].YPosition() {
			return elements[i].YPosition() < elements[j].YPosition()
		}
		return elements[i].XPosition() < elements[j].XPosition()
	})
}

// inspect collects warnings about element data quality before sorting.
func (s *Sorter) inspect(elements []*model.Element) []Warning {
	var warnings []Warning

	unknownSeen := map[string]bool{}
	for _, e := range elements {
		if !e.BBox.IsValid() {
			warnings = warnf(warnings, WarnDegenerateBox,
				"element %d (%s) has non-positive dimensions %gx%g",
				e.ID, e.Class, e.BBox.Width, e.BBox.Height)
		}
		if !model.IsKnownClass(e.Class) && !unknownSeen[e.Class] {
			unknownSeen[e.Class] = true
			warnings = warnf(warnings, WarnUnknownClass,
				"class %q is not in the known vocabulary; treating as generic child", e.Class)
		}
	}

	return warnings
}

// orphanElementCount counts elements belonging to anchorless groups.
func orphanElementCount(groups []Group) int {
	n := 0
	for _, g := range groups {
		if g.Anchor == nil {
			n += len(g.Children)
		}
	}
	return n
}

// fillStats populates result statistics after flattening.
func (s *Sorter) fillStats(result *SortResult, regions, moved int) {
	result.Stats = SortStats{
		ElementCount: len(result.Elements),
		GroupCount:   len(result.Groups),
		RegionCount:  regions,
		OrphanCount:  orphanElementCount(result.Groups),
		MovedCount:   moved,
	}
}
