package pagesort

import (
	"context"
	"image"
	"io"

	"github.com/layoutkit/pagesort/detect"
	"github.com/layoutkit/pagesort/model"
	"github.com/layoutkit/pagesort/pipeline"
	"github.com/layoutkit/pagesort/render"
	"github.com/layoutkit/pagesort/sorter"
)

// Processor sorts one worksheet page into reading order. It is
// configured fluently and processes the page lazily on the first
// terminal operation. Fluent methods return a copy, so a configured
// Processor can be safely reused as a template.
type Processor struct {
	page       model.Page
	detections []detect.Detection
	elements   []*model.Element
	image      image.Image
	recognizer pipeline.TextRecognizer
	ctx        context.Context
	options    sortOptions

	processed bool
	result    *pipeline.PageResult
	err       error
}

// clone creates a copy of the Processor with the cached result cleared.
func (p *Processor) clone() *Processor {
	return &Processor{
		page:       p.page,
		detections: p.detections,
		elements:   p.elements,
		image:      p.image,
		recognizer: p.recognizer,
		ctx:        p.ctx,
		options:    p.options.clone(),
	}
}

// ============================================================================
// Fluent configuration
// ============================================================================

// Strategy forces a specific sorting strategy instead of the adaptive
// default.
//
// Example:
//
//	elements, _, err := pagesort.FromDetections(page, dets).
//	    Strategy(sorter.StrategyLocal).
//	    Sorted()
func (p *Processor) Strategy(strategy sorter.Strategy) *Processor {
	newProc := p.clone()
	newProc.options.strategy = strategy
	return newProc
}

// ReadingOrderOnly treats the page as plain reading material: question
// grouping is skipped and elements are ordered top-to-bottom,
// left-to-right.
//
// Example:
//
//	elements, _, err := pagesort.FromDetections(page, dets).
//	    ReadingOrderOnly().
//	    Sorted()
func (p *Processor) ReadingOrderOnly() *Processor {
	newProc := p.clone()
	newProc.page.Type = model.ReadingOrder
	return newProc
}

// WithOCR attaches the scanned page image and an OCR engine. Text
// regions are recognized before sorting, so rendered output carries
// real text. Only the detections path runs OCR; elements passed to
// FromElements are assumed to carry their text already.
//
// Example:
//
//	client, err := ocr.New()
//	if err != nil {
//	    // handle error (or build without OCR)
//	}
//	defer client.Close()
//	text, _, err := pagesort.FromDetections(page, dets).
//	    WithOCR(pageImage, client).
//	    Text()
func (p *Processor) WithOCR(pageImage image.Image, recognizer pipeline.TextRecognizer) *Processor {
	newProc := p.clone()
	newProc.image = pageImage
	newProc.recognizer = recognizer
	return newProc
}

// WithContext sets the context used for processing, which bounds OCR
// calls. The default is context.Background().
func (p *Processor) WithContext(ctx context.Context) *Processor {
	newProc := p.clone()
	newProc.ctx = ctx
	return newProc
}

// FilterConfig overrides the detection filter configuration.
func (p *Processor) FilterConfig(config detect.FilterConfig) *Processor {
	newProc := p.clone()
	newProc.options.pipeline.Filter = config
	return newProc
}

// SorterConfig overrides the sorter configuration. The strategy set
// via Strategy() still takes precedence over the config's
// ForceStrategy field.
func (p *Processor) SorterConfig(config sorter.SorterConfig) *Processor {
	newProc := p.clone()
	newProc.options.pipeline.Sorter = config
	return newProc
}

// RendererConfig overrides the text rendering configuration.
func (p *Processor) RendererConfig(config render.RendererConfig) *Processor {
	newProc := p.clone()
	newProc.options.pipeline.Renderer = config
	return newProc
}

// ============================================================================
// Terminal operations
// ============================================================================

// Sorted processes the page and returns its elements in reading order.
//
// Example:
//
//	elements, warnings, err := pagesort.FromDetections(page, dets).Sorted()
func (p *Processor) Sorted() ([]*model.Element, []Warning, error) {
	if err := p.process(); err != nil {
		return nil, nil, err
	}
	return p.result.Sort.Elements, p.result.Sort.Warnings, nil
}

// Groups processes the page and returns its question groups in reading
// order.
func (p *Processor) Groups() ([]sorter.Group, []Warning, error) {
	if err := p.process(); err != nil {
		return nil, nil, err
	}
	return p.result.Sort.Groups, p.result.Sort.Warnings, nil
}

// Text processes the page and renders it as plain text in reading
// order.
//
// Example:
//
//	text, warnings, err := pagesort.FromDetections(page, dets).Text()
func (p *Processor) Text() (string, []Warning, error) {
	if err := p.process(); err != nil {
		return "", nil, err
	}
	return p.result.Text, p.result.Sort.Warnings, nil
}

// Markdown processes the page and renders it as Markdown with question
// headings.
func (p *Processor) Markdown() (string, []Warning, error) {
	if err := p.process(); err != nil {
		return "", nil, err
	}
	renderer := render.NewRendererWithConfig(p.options.pipeline.Renderer)
	return renderer.RenderMarkdown(p.result.Sort.Elements), p.result.Sort.Warnings, nil
}

// Export processes the page and writes it to w in the given format.
func (p *Processor) Export(w io.Writer, format render.ExportFormat) ([]Warning, error) {
	if err := p.process(); err != nil {
		return nil, err
	}
	renderer := render.NewRendererWithConfig(p.options.pipeline.Renderer)
	if err := renderer.Export(w, p.result.Sort.Elements, format); err != nil {
		return nil, err
	}
	return p.result.Sort.Warnings, nil
}

// Result processes the page and returns the full sort result,
// including layout evidence, the page profile, and statistics.
func (p *Processor) Result() (*sorter.SortResult, error) {
	if err := p.process(); err != nil {
		return nil, err
	}
	return p.result.Sort, nil
}

// Layout processes the page and returns its classified column layout.
//
// Example:
//
//	layout := pagesort.Must(pagesort.FromDetections(page, dets).Layout())
func (p *Processor) Layout() (sorter.LayoutType, error) {
	if err := p.process(); err != nil {
		return sorter.SingleColumn, err
	}
	return p.result.Sort.Layout, nil
}

// StrategyUsed processes the page and returns the strategy that
// produced the final ordering.
func (p *Processor) StrategyUsed() (sorter.Strategy, error) {
	if err := p.process(); err != nil {
		return sorter.StrategyAuto, err
	}
	return p.result.Sort.StrategyUsed, nil
}

// Stats processes the page and returns sorting statistics.
func (p *Processor) Stats() (sorter.SortStats, error) {
	if err := p.process(); err != nil {
		return sorter.SortStats{}, err
	}
	return p.result.Sort.Stats, nil
}

// ============================================================================
// Processing
// ============================================================================

// process runs the page through the pipeline once and caches the result.
func (p *Processor) process() error {
	if p.processed {
		return p.err
	}
	p.processed = true

	config := p.options.pipeline
	config.Sorter.ForceStrategy = p.options.strategy

	if p.elements != nil {
		// Pre-built elements bypass filtering and OCR.
		s := sorter.NewSorterWithConfig(config.Sorter)
		sortResult := s.Sort(p.elements, p.page)
		renderer := render.NewRendererWithConfig(config.Renderer)
		p.result = &pipeline.PageResult{
			Page: p.page,
			Sort: sortResult,
			Text: renderer.Render(sortResult.Elements),
		}
		return nil
	}

	pl := pipeline.NewWithConfig(config)
	if p.recognizer != nil {
		pl = pl.WithRecognizer(p.recognizer)
	}

	ctx := p.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := pl.ProcessPage(ctx, pipeline.PageInput{
		Page:       p.page,
		Detections: p.detections,
		Image:      p.image,
	})
	if err != nil {
		p.err = err
		return err
	}
	p.result = result
	return nil
}
