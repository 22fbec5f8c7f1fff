// Package pagesort provides a fluent API for reconstructing human
// reading order from object-detection output on scanned worksheet
// pages.
//
// Basic usage:
//
//	elements, warnings, err := pagesort.FromDetections(page, detections).Sorted()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagesort.FormatWarnings(warnings))
//	}
//
// With options:
//
//	text, _, err := pagesort.FromDetections(page, detections).
//	    Strategy(sorter.StrategyLocal).
//	    WithOCR(pageImage, client).
//	    Text()
//
// For advanced use cases, the lower-level detect, sorter, and pipeline
// packages are also available.
package pagesort

import (
	"github.com/layoutkit/pagesort/detect"
	"github.com/layoutkit/pagesort/model"
	"github.com/layoutkit/pagesort/sorter"
)

// Warning describes a non-fatal problem found while sorting a page.
type Warning = sorter.Warning

// FormatWarnings formats warnings as a single human-readable string.
func FormatWarnings(warnings []Warning) string {
	return sorter.FormatWarnings(warnings)
}

// FromDetections creates a Processor for raw detector output on one
// page. Detections are filtered (non-maximum suppression, area floor)
// before sorting.
//
// Example:
//
//	elements, warnings, err := pagesort.FromDetections(page, detections).Sorted()
func FromDetections(page model.Page, detections []detect.Detection) *Processor {
	return &Processor{
		page:       page,
		detections: detections,
		options:    defaultOptions(),
	}
}

// FromElements creates a Processor for elements that were already
// filtered and materialized. No detection filtering is applied.
//
// Example:
//
//	elements, warnings, err := pagesort.FromElements(page, elements).Sorted()
func FromElements(page model.Page, elements []*model.Element) *Processor {
	return &Processor{
		page:     page,
		elements: elements,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	layout := pagesort.Must(pagesort.FromDetections(page, dets).Layout())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustSorted is a helper that wraps a call to Sorted() or Text() and
// panics if the error is non-nil. It discards warnings and returns just
// the value. It is intended for use in scripts or tests where error
// handling would be cumbersome.
//
// Example:
//
//	text := pagesort.MustSorted(pagesort.FromDetections(page, dets).Text())
func MustSorted[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
