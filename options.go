package pagesort

import (
	"github.com/layoutkit/pagesort/pipeline"
	"github.com/layoutkit/pagesort/render"
	"github.com/layoutkit/pagesort/sorter"
)

// sortOptions holds configuration for page processing.
type sortOptions struct {
	// Strategy selection
	strategy sorter.Strategy

	// Pipeline configuration (filter, sorter, OCR, renderer)
	pipeline pipeline.Config

	// Output options
	exportFormat render.ExportFormat
}

// defaultOptions returns the default processing options.
func defaultOptions() sortOptions {
	return sortOptions{
		strategy:     sorter.StrategyAuto,
		pipeline:     pipeline.DefaultConfig(),
		exportFormat: render.ExportFormatText,
	}
}

// clone creates a deep copy of sortOptions.
func (o sortOptions) clone() sortOptions {
	newOpts := o

	// Deep copy the OCR class set; everything else in the pipeline
	// config is value-typed.
	if o.pipeline.OCRClasses != nil {
		newOpts.pipeline.OCRClasses = make(map[string]bool, len(o.pipeline.OCRClasses))
		for k, v := range o.pipeline.OCRClasses {
			newOpts.pipeline.OCRClasses[k] = v
		}
	}
	if o.pipeline.Renderer.Templates != nil {
		newOpts.pipeline.Renderer.Templates = make(map[string]render.ClassTemplate, len(o.pipeline.Renderer.Templates))
		for k, v := range o.pipeline.Renderer.Templates {
			newOpts.pipeline.Renderer.Templates[k] = v
		}
	}

	return newOpts
}
