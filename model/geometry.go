package model

// Point represents a 2D point in image coordinates.
type Point struct {
	X, Y int
}

// Polygon is an ordered sequence of points outlining a detected staff
// fragment. Polygons are immutable input; pipeline stages never modify them.
type Polygon []Point

// Empty reports whether the polygon has no points.
func (p Polygon) Empty() bool {
	return len(p) == 0
}

// MinY returns the top-most y coordinate of the polygon.
// It must not be called on an empty polygon.
func (p Polygon) MinY() int {
	min := p[0].Y
	for _, pt := range p[1:] {
		if pt.Y < min {
			min = pt.Y
		}
	}
	return min
}

// MaxY returns the bottom-most y coordinate of the polygon.
// It must not be called on an empty polygon.
func (p Polygon) MaxY() int {
	max := p[0].Y
	for _, pt := range p[1:] {
		if pt.Y > max {
			max = pt.Y
		}
	}
	return max
}

// MinX returns the left-most x coordinate of the polygon.
// It must not be called on an empty polygon.
func (p Polygon) MinX() int {
	min := p[0].X
	for _, pt := range p[1:] {
		if pt.X < min {
			min = pt.X
		}
	}
	return min
}

// CenterY returns the vertical center of the polygon. A degenerate polygon
// whose points share a single y collapses to that y.
func (p Polygon) CenterY() float64 {
	minY, maxY := p.MinY(), p.MaxY()
	if minY == maxY {
		return float64(minY)
	}
	return float64(minY+maxY) / 2.0
}

// BBox is an axis-aligned bounding box in image coordinates, stored as its
// upper-left corner and extents the way the geometric record encodes it.
type BBox struct {
	ULX   int
	ULY   int
	NCols int
	NRows int
}

// LRX returns the lower-right x coordinate (ULX + NCols).
func (b BBox) LRX() int {
	return b.ULX + b.NCols
}

// LRY returns the lower-right y coordinate (ULY + NRows).
func (b BBox) LRY() int {
	return b.ULY + b.NRows
}

// CenterX returns the horizontal center of the box.
func (b BBox) CenterX() float64 {
	return float64(b.ULX) + float64(b.NCols)/2.0
}

// CenterY returns the vertical center of the box.
func (b BBox) CenterY() float64 {
	return float64(b.ULY) + float64(b.NRows)/2.0
}

// Area returns the area of the box in pixels.
func (b BBox) Area() int {
	return b.NCols * b.NRows
}

// Empty reports whether the box has zero area.
func (b BBox) Empty() bool {
	return b.NCols <= 0 || b.NRows <= 0
}

// OverlapsHorizontally reports whether the two boxes share any horizontal
// extent. Boxes that merely touch edge-to-edge do not overlap.
func (b BBox) OverlapsHorizontally(other BBox) bool {
	return b.ULX < other.LRX() && b.LRX() > other.ULX
}

// ContainsY reports whether y falls within the box's vertical span,
// boundaries included.
func (b BBox) ContainsY(y float64) bool {
	return y >= float64(b.ULY) && y <= float64(b.LRY())
}

// Union returns the smallest box covering both boxes.
func (b BBox) Union(other BBox) BBox {
	ulx := b.ULX
	if other.ULX < ulx {
		ulx = other.ULX
	}
	uly := b.ULY
	if other.ULY < uly {
		uly = other.ULY
	}
	lrx := b.LRX()
	if o := other.LRX(); o > lrx {
		lrx = o
	}
	lry := b.LRY()
	if o := other.LRY(); o > lry {
		lry = o
	}
	return BBox{ULX: ulx, ULY: uly, NCols: lrx - ulx, NRows: lry - uly}
}

// BoundsOf computes the bounding box of a set of polygons, ignoring empty
// ones. The second return value is false when no points were found.
func BoundsOf(polygons []Polygon) (BBox, bool) {
	found := false
	var minX, minY, maxX, maxY int
	for _, poly := range polygons {
		for _, pt := range poly {
			if !found {
				minX, maxX = pt.X, pt.X
				minY, maxY = pt.Y, pt.Y
				found = true
				continue
			}
			if pt.X < minX {
				minX = pt.X
			}
			if pt.X > maxX {
				maxX = pt.X
			}
			if pt.Y < minY {
				minY = pt.Y
			}
			if pt.Y > maxY {
				maxY = pt.Y
			}
		}
	}
	if !found {
		return BBox{}, false
	}
	return BBox{ULX: minX, ULY: minY, NCols: maxX - minX, NRows: maxY - minY}, true
}
