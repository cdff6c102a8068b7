// Package geom converts drawing geometry stored in escher and preset shape
// definitions into plain coordinates.
package geom

import (
	"math"
)

// AngleUnit is the number of stored angle units per degree.
const AngleUnit = 60000

// Point is a coordinate in shape space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the centre of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// ArcTo continues a path with an elliptical arc. Radii are in shape units;
// angles are in 60000ths of a degree, clockwise from the positive x axis.
type ArcTo struct {
	WR, HR       float64
	StAng, SwAng float64
}

// Arc is an elliptical arc in standard orientation: angles in degrees,
// counter-clockwise, measured on the bounding ellipse.
type Arc struct {
	Bounds Rect
	Start  float64
	Extent float64
}

// Radians returns start and extent in radians.
func (a Arc) Radians() (start, extent float64) {
	return a.Start * math.Pi / 180, a.Extent * math.Pi / 180
}

// StartPoint returns the point where the arc begins.
func (a Arc) StartPoint() Point {
	return a.pointAt(a.Start)
}

// EndPoint returns the point where the arc ends.
func (a Arc) EndPoint() Point {
	return a.pointAt(a.Start + a.Extent)
}

func (a Arc) pointAt(deg float64) Point {
	rad := deg * math.Pi / 180
	c := a.Bounds.Center()
	return Point{
		X: c.X + a.Bounds.Width/2*math.Cos(rad),
		Y: c.Y - a.Bounds.Height/2*math.Sin(rad),
	}
}

// Arc resolves the command against the current pen position, which lies on
// the ellipse at the start angle.
func (a ArcTo) Arc(current Point) Arc {
	rx, ry := a.WR, a.HR
	ooStart := a.StAng / AngleUnit
	ooExtent := a.SwAng / AngleUnit

	start := StandardAngle(ooStart, rx, ry)
	extent := StandardAngle(ooStart+ooExtent, rx, ry) - start

	// Parametric angle of the start point on the ellipse.
	radStart := ooStart * math.Pi / 180
	inv := math.Atan2(rx*math.Sin(radStart), ry*math.Cos(radStart))

	x0 := current.X - rx*math.Cos(inv) - rx
	y0 := current.Y - ry*math.Sin(inv) - ry

	return Arc{
		Bounds: Rect{X: x0, Y: y0, Width: 2 * rx, Height: 2 * ry},
		Start:  start,
		Extent: extent,
	}
}

// StandardAngle converts a clockwise angle in degrees, measured as a visual
// angle on a width x height ellipse, to a counter-clockwise angle on the
// ellipse's parametric scale. Angles are first reduced to -90..90 so the
// tangent stays finite, then the offset is added back.
func StandardAngle(ooDegrees, width, height float64) float64 {
	aspect := height / width
	angle := -ooDegrees

	reduced := math.Mod(angle, 360)
	offset := angle - reduced

	switch int(reduced / 90) {
	case -3:
		offset -= 360
		reduced += 360
	case -2, -1:
		offset -= 180
		reduced += 180
	case 1, 2:
		offset += 180
		reduced -= 180
	case 3:
		offset += 360
		reduced -= 360
	}

	skewed := math.Atan2(math.Tan(reduced*math.Pi/180), aspect) * 180 / math.Pi
	return skewed + offset
}
