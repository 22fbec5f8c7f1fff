// Package hocr parses hOCR documents, the HTML-based format OCR
// engines such as Tesseract emit to report recognized text together
// with word bounding boxes and confidences.
//
// The parsed hierarchy follows the hOCR standard: Document → Pages →
// Lines → Words. Lines can be converted into detections so OCR output
// can flow through the same filtering and sorting path as detector
// output.
package hocr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/layoutkit/pagesort/detect"
	"github.com/layoutkit/pagesort/model"
)

// Word is a single recognized word with its position and confidence.
type Word struct {
	Text       string
	BBox       model.BBox
	Confidence float64 // 0..1
}

// Line is a line of recognized words.
type Line struct {
	Words []Word
	BBox  model.BBox
}

// Text returns the line's words joined by single spaces.
func (l Line) Text() string {
	parts := make([]string, len(l.Words))
	for i, w := range l.Words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// Confidence returns the mean word confidence of the line, or 0 for an
// empty line.
func (l Line) Confidence() float64 {
	if len(l.Words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range l.Words {
		sum += w.Confidence
	}
	return sum / float64(len(l.Words))
}

// Page is a single scanned page in an hOCR document.
type Page struct {
	Number int
	BBox   model.BBox
	Lines  []Line
}

// Document is a parsed hOCR document.
type Document struct {
	Pages []Page
}

// Parse reads an hOCR document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR HTML: %w", err)
	}

	doc := &Document{}
	collectPages(root, doc)

	for i := range doc.Pages {
		doc.Pages[i].Number = i + 1
	}
	return doc, nil
}

// ParseString parses an hOCR document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// LineDetections converts every line on every page into a detection of
// the given element class, with the line's mean word confidence. This
// lets raw OCR output enter the detection filter and sorter directly.
func (d *Document) LineDetections(class string) []detect.Detection {
	var detections []detect.Detection
	for _, page := range d.Pages {
		for _, line := range page.Lines {
			detections = append(detections, detect.Detection{
				Class:      class,
				Confidence: line.Confidence(),
				BBox:       line.BBox,
			})
		}
	}
	return detections
}

// Text returns the document's full text, one line per parsed hOCR line.
func (d *Document) Text() string {
	var b strings.Builder
	for _, page := range d.Pages {
		for _, line := range page.Lines {
			b.WriteString(line.Text())
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// collectPages walks the HTML tree gathering ocr_page elements.
func collectPages(n *html.Node, doc *Document) {
	if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
		page := Page{BBox: parseBBox(attr(n, "title"))}
		collectLines(n, &page)
		doc.Pages = append(doc.Pages, page)
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectPages(c, doc)
	}
}

// collectLines walks a page subtree gathering line elements. Header,
// caption, and textfloat lines count as lines too.
func collectLines(n *html.Node, page *Page) {
	if n.Type == html.ElementNode && isLineClass(n) {
		line := Line{BBox: parseBBox(attr(n, "title"))}
		collectWords(n, &line)
		page.Lines = append(page.Lines, line)
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectLines(c, page)
	}
}

// collectWords walks a line subtree gathering ocrx_word elements.
func collectWords(n *html.Node, line *Line) {
	if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
		title := attr(n, "title")
		word := Word{
			Text:       strings.TrimSpace(textContent(n)),
			BBox:       parseBBox(title),
			Confidence: parseWordConfidence(title),
		}
		if word.Text != "" {
			line.Words = append(line.Words, word)
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectWords(c, line)
	}
}

func isLineClass(n *html.Node) bool {
	return hasClass(n, "ocr_line") || hasClass(n, "ocr_header") ||
		hasClass(n, "ocr_caption") || hasClass(n, "ocr_textfloat")
}

// hasClass reports whether the node's class attribute contains name.
func hasClass(n *html.Node, name string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == name {
			return true
		}
	}
	return false
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent returns the concatenated text nodes under n.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

// parseBBox extracts "bbox x0 y0 x1 y1" from an hOCR title attribute.
// Missing or malformed bboxes yield a zero box.
func parseBBox(title string) model.BBox {
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(prop))
		if len(fields) != 5 || fields[0] != "bbox" {
			continue
		}

		coords := make([]float64, 4)
		ok := true
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				ok = false
				break
			}
			coords[i] = v
		}
		if !ok {
			continue
		}

		return model.BBox{
			X:      coords[0],
			Y:      coords[1],
			Width:  coords[2] - coords[0],
			Height: coords[3] - coords[1],
		}
	}
	return model.BBox{}
}

// parseWordConfidence extracts "x_wconf N" (0..100) from an hOCR title
// attribute and scales it to 0..1. Missing confidence yields 0.
func parseWordConfidence(title string) float64 {
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(prop))
		if len(fields) != 2 || fields[0] != "x_wconf" {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		return v / 100
	}
	return 0
}
