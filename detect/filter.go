package detect

import (
	"sort"

	"github.com/layoutkit/pagesort/model"
)

// Detection is a single raw detection from the layout model.
type Detection struct {
	// Class is the detected class name.
	Class string

	// Confidence is the model's score in [0,1].
	Confidence float64

	// BBox is the detected region in page pixels.
	BBox model.BBox
}

// FilterConfig holds configuration for duplicate suppression.
type FilterConfig struct {
	// IoUThreshold is the overlap above which the lower-confidence
	// detection of a pair is suppressed.
	// Default: 0.7
	IoUThreshold float64

	// MinArea is the minimum pixel area for a detection to survive.
	// Default: 100
	MinArea float64
}

// DefaultFilterConfig returns sensible default configuration
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		IoUThreshold: 0.7,
		MinArea:      100.0,
	}
}

// Filter removes duplicate and degenerate detections before sorting.
type Filter struct {
	config FilterConfig
}

// NewFilter creates a filter with default configuration
func NewFilter() *Filter {
	return &Filter{config: DefaultFilterConfig()}
}

// NewFilterWithConfig creates a filter with custom configuration
func NewFilterWithConfig(config FilterConfig) *Filter {
	return &Filter{config: config}
}

// Apply returns the subset of detections surviving suppression, preserving
// the input order of the survivors.
//
// Suppression is greedy in confidence order: for each detection, any
// later-ranked detection overlapping it above the IoU threshold is
// suppressed. Class identity is deliberately not part of the predicate:
// a figure box and a text box covering the same pixels are duplicates of
// the same content, whichever class the model preferred. After
// suppression, detections below the minimum area, and detections with
// non-positive dimensions, are dropped.
func (f *Filter) Apply(detections []Detection) []Detection {
	if len(detections) == 0 {
		return nil
	}

	// Rank by confidence descending; ties keep input order for determinism.
	ranked := make([]int, len(detections))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return detections[ranked[a]].Confidence > detections[ranked[b]].Confidence
	})

	suppressed := make([]bool, len(detections))
	for i := 0; i < len(ranked); i++ {
		hi := ranked[i]
		if suppressed[hi] {
			continue
		}
		for j := i + 1; j < len(ranked); j++ {
			lo := ranked[j]
			if suppressed[lo] {
				continue
			}
			if detections[hi].BBox.IoU(detections[lo].BBox) > f.config.IoUThreshold {
				suppressed[lo] = true
			}
		}
	}

	var kept []Detection
	for i, d := range detections {
		if suppressed[i] {
			continue
		}
		if !d.BBox.IsValid() {
			continue
		}
		if d.BBox.Area() < f.config.MinArea {
			continue
		}
		kept = append(kept, d)
	}

	return kept
}

// ToElements converts surviving detections into elements, assigning IDs
// sequentially starting from firstID in the order given.
func ToElements(detections []Detection, firstID int) []*model.Element {
	elements := make([]*model.Element, 0, len(detections))
	for i, d := range detections {
		elements = append(elements, &model.Element{
			ID:         firstID + i,
			Class:      d.Class,
			Confidence: d.Confidence,
			BBox:       d.BBox,
		})
	}
	return elements
}
