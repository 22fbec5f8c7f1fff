package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents an axis-aligned bounding box in image coordinates:
// origin at the top-left of the page, X increasing right, Y increasing down.
type BBox struct {
	X      float64 // Left
	Y      float64 // Top
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromCorners creates a bounding box from two opposite corners
func NewBBoxFromCorners(p1, p2 Point) BBox {
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	width := math.Abs(p2.X - p1.X)
	height := math.Abs(p2.Y - p1.Y)
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y + b.Height
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Top() && p.Y <= b.Bottom()
}

// Intersects checks if two bounding boxes intersect
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Bottom() < other.Top() ||
		b.Top() > other.Bottom())
}

// Intersection returns the intersection of two bounding boxes.
// Returns a zero-area box if they do not intersect.
func (b BBox) Intersection(other BBox) BBox {
	x := math.Max(b.Left(), other.Left())
	y := math.Max(b.Top(), other.Top())
	right := math.Min(b.Right(), other.Right())
	bottom := math.Min(b.Bottom(), other.Bottom())

	// Clamp to zero so disjoint boxes yield zero area, never negative
	width := math.Max(0, right-x)
	height := math.Max(0, bottom-y)

	return BBox{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// Union returns the union of two bounding boxes
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Top(), other.Top())
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())

	return BBox{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// Expand expands the bounding box by a margin on all sides
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		X:      b.X - margin,
		Y:      b.Y - margin,
		Width:  b.Width + 2*margin,
		Height: b.Height + 2*margin,
	}
}

// IoU returns the intersection-over-union ratio with another box.
// Disjoint boxes score 0; identical non-degenerate boxes score 1.
// IoU is symmetric: a.IoU(b) == b.IoU(a).
func (b BBox) IoU(other BBox) float64 {
	interArea := b.Intersection(other).Area()
	unionArea := b.Area() + other.Area() - interArea
	if unionArea <= 0 {
		return 0
	}
	return interArea / unionArea
}

// OverlapRatio calculates the overlap ratio with another box relative
// to the smaller box's area. Returns a value between 0 and 1.
func (b BBox) OverlapRatio(other BBox) float64 {
	interArea := b.Intersection(other).Area()
	minArea := math.Min(b.Area(), other.Area())
	if minArea <= 0 {
		return 0
	}
	return interArea / minArea
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// IsValid returns true if the bounding box has positive dimensions
func (b BBox) IsValid() bool {
	return b.Width > 0 && b.Height > 0
}
