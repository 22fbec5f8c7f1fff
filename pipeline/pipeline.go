// Package pipeline runs the full page-processing flow for scanned
// worksheet documents: detection filtering, optional OCR of text
// regions, reading-order sorting, and rendering. Pages are processed
// concurrently with bounded parallelism, and OCR calls are gated by
// their own semaphore and rate limiter since the OCR engine is usually
// the scarce resource.
package pipeline

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/layoutkit/pagesort/detect"
	"github.com/layoutkit/pagesort/imaging"
	"github.com/layoutkit/pagesort/model"
	"github.com/layoutkit/pagesort/render"
	"github.com/layoutkit/pagesort/sorter"
)

// TextRecognizer extracts text from a prepared region image. The ocr
// package's Client satisfies this when built with the ocr tag.
//
// Implementations must be safe for concurrent use, or the pipeline
// must be configured with MaxConcurrentOCR set to 1.
type TextRecognizer interface {
	RecognizeImage(imageData []byte) (string, error)
}

// Config holds pipeline configuration.
type Config struct {
	// MaxConcurrentPages bounds how many pages are processed at once.
	MaxConcurrentPages int64

	// MaxConcurrentOCR bounds in-flight OCR calls across all pages.
	MaxConcurrentOCR int64

	// OCRPerSecond rate-limits OCR calls. Zero means unlimited.
	OCRPerSecond float64

	// OCRBurst is the rate limiter's burst size when OCRPerSecond is set.
	OCRBurst int

	// OCRClasses lists the element classes whose regions are sent to
	// OCR. Drawing-like classes (figures, tables, flowcharts) are
	// excluded by default since their pixels are not running text.
	OCRClasses map[string]bool

	// Filter configures detection filtering.
	Filter detect.FilterConfig

	// Sorter configures reading-order sorting.
	Sorter sorter.SorterConfig

	// Preparer configures region cropping for OCR.
	Preparer imaging.PreparerConfig

	// Renderer configures text rendering.
	Renderer render.RendererConfig
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentPages: 4,
		MaxConcurrentOCR:   2,
		OCRPerSecond:       0,
		OCRBurst:           1,
		OCRClasses: map[string]bool{
			model.ClassQuestionNumber:       true,
			model.ClassSecondQuestionNumber: true,
			model.ClassQuestionType:         true,
			model.ClassQuestionText:         true,
			model.ClassChoices:              true,
			model.ClassList:                 true,
			model.ClassCaption:              true,
			model.ClassFootnote:             true,
			model.ClassPlainText:            true,
			model.ClassUnit:                 true,
		},
		Filter:   detect.DefaultFilterConfig(),
		Sorter:   sorter.DefaultSorterConfig(),
		Preparer: imaging.DefaultPreparerConfig(),
		Renderer: render.DefaultRendererConfig(),
	}
}

// PageInput is one page of a document to process.
type PageInput struct {
	Page       model.Page
	Detections []detect.Detection

	// Image is the scanned page image. Required for OCR; pages
	// without an image are sorted but not recognized.
	Image image.Image
}

// PageResult is the processed form of one page.
type PageResult struct {
	Page    model.Page
	Sort    *sorter.SortResult
	Text    string
	Dropped int // detections removed by filtering
}

// Pipeline processes worksheet pages end to end.
type Pipeline struct {
	config     Config
	filter     *detect.Filter
	sorter     *sorter.Sorter
	preparer   *imaging.Preparer
	renderer   *render.Renderer
	recognizer TextRecognizer

	pageSem *semaphore.Weighted
	ocrSem  *semaphore.Weighted
	limiter *rate.Limiter
}

// New creates a Pipeline with default configuration and no OCR.
func New() *Pipeline {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Pipeline with the given configuration.
func NewWithConfig(config Config) *Pipeline {
	if config.MaxConcurrentPages < 1 {
		config.MaxConcurrentPages = 1
	}
	if config.MaxConcurrentOCR < 1 {
		config.MaxConcurrentOCR = 1
	}

	limit := rate.Inf
	if config.OCRPerSecond > 0 {
		limit = rate.Limit(config.OCRPerSecond)
	}
	burst := config.OCRBurst
	if burst < 1 {
		burst = 1
	}

	return &Pipeline{
		config:   config,
		filter:   detect.NewFilterWithConfig(config.Filter),
		sorter:   sorter.NewSorterWithConfig(config.Sorter),
		preparer: imaging.NewPreparerWithConfig(config.Preparer),
		renderer: render.NewRendererWithConfig(config.Renderer),
		pageSem:  semaphore.NewWeighted(config.MaxConcurrentPages),
		ocrSem:   semaphore.NewWeighted(config.MaxConcurrentOCR),
		limiter:  rate.NewLimiter(limit, burst),
	}
}

// WithRecognizer attaches an OCR engine to the pipeline and returns it.
func (p *Pipeline) WithRecognizer(r TextRecognizer) *Pipeline {
	p.recognizer = r
	return p
}

// ProcessDocument processes all pages of a document concurrently.
// Results are returned in input order. The first page error aborts the
// remaining work and is returned.
func (p *Pipeline) ProcessDocument(ctx context.Context, inputs []PageInput) ([]PageResult, error) {
	results := make([]PageResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := p.pageSem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer p.pageSem.Release(1)

			result, err := p.ProcessPage(ctx, inputs[i])
			if err != nil {
				return fmt.Errorf("page %d: %w", inputs[i].Page.Number, err)
			}
			results[i] = *result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ProcessPage processes a single page: filter detections, OCR text
// regions when a recognizer and page image are available, sort into
// reading order, and render.
func (p *Pipeline) ProcessPage(ctx context.Context, input PageInput) (*PageResult, error) {
	kept := p.filter.Apply(input.Detections)
	elements := detect.ToElements(kept, 0)

	if p.recognizer != nil && input.Image != nil {
		if err := p.recognizeText(ctx, input.Image, elements); err != nil {
			return nil, err
		}
	}

	sortResult := p.sorter.Sort(elements, input.Page)

	return &PageResult{
		Page:    input.Page,
		Sort:    sortResult,
		Text:    p.renderer.Render(sortResult.Elements),
		Dropped: len(input.Detections) - len(kept),
	}, nil
}

// recognizeText runs OCR over the page's text-bearing elements,
// bounded by the OCR semaphore and rate limiter.
func (p *Pipeline) recognizeText(ctx context.Context, pageImage image.Image, elements []*model.Element) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, e := range elements {
		if !p.config.OCRClasses[e.Class] || !e.BBox.IsValid() {
			continue
		}

		e := e
		g.Go(func() error {
			if err := p.limiter.Wait(ctx); err != nil {
				return err
			}
			if err := p.ocrSem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer p.ocrSem.Release(1)

			data, err := p.preparer.PrepareRegion(pageImage, e.BBox)
			if err != nil {
				return fmt.Errorf("preparing %s region %d: %w", e.Class, e.ID, err)
			}

			text, err := p.recognizer.RecognizeImage(data)
			if err != nil {
				return fmt.Errorf("recognizing %s region %d: %w", e.Class, e.ID, err)
			}
			e.Text = text
			return nil
		})
	}

	return g.Wait()
}
