/*
Package flightpath implements 3D points, vector arithmetic, and the
distance queries used by the flight-path simulation packages.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package flightpath

import (
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'flightpath'
func tracer() tracing.Trace {
	return tracing.Select("flightpath")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// CmPerMeter converts between the centimeter boundary used by editing
// collaborators and the meters used internally.
var CmPerMeter float64 = 100.0

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// === Point Data Type =======================================================

// Point3 is a point or vector in 3D space, in meters. The zero value is the
// origin. Points are immutable; all methods return new values.
type Point3 struct {
	X, Y, Z float64
}

// Origin represents the frequently used constant (0,0,0).
var Origin = P3(0, 0, 0)

// Up is the vertical axis unit vector. The z-axis points upwards.
var Up = P3(0, 0, 1)

// P3 is a quick notation for constructing a point from floats.
func P3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Pretty Stringer for points.
func (p Point3) String() string {
	return fmt.Sprintf("(%g,%g,%g)", p.X, p.Y, p.Z)
}

// IsFinite is a predicate: are all coordinates finite reals?
func (p Point3) IsFinite() bool {
	for _, c := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Zap rounds coordinates to Epsilon.
func (p Point3) Zap() Point3 {
	return P3(Zap(p.X), Zap(p.Y), Zap(p.Z))
}

// IsOrigin is a predicate: is this point the origin?
func (p Point3) IsOrigin() bool {
	return p.Equal(Origin)
}

// Equal compares two points.
func (p Point3) Equal(q Point3) bool {
	return Is0(p.X-q.X) && Is0(p.Y-q.Y) && Is0(p.Z-q.Z)
}

// Shifted returns a new point translated by v.
func (p Point3) Shifted(v Point3) Point3 {
	return P3(p.X+v.X, p.Y+v.Y, p.Z+v.Z)
}

// Minus returns the vector p − q.
func (p Point3) Minus(q Point3) Point3 {
	return P3(p.X-q.X, p.Y-q.Y, p.Z-q.Z)
}

// Scaled returns a new point scaled by factor a.
func (p Point3) Scaled(a float64) Point3 {
	return P3(p.X*a, p.Y*a, p.Z*a)
}

// Dot is the scalar product of two vectors.
func (p Point3) Dot(q Point3) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross is the vector product of two vectors.
func (p Point3) Cross(q Point3) Point3 {
	return P3(
		p.Y*q.Z-p.Z*q.Y,
		p.Z*q.X-p.X*q.Z,
		p.X*q.Y-p.Y*q.X,
	)
}

// Length is the Euclidean norm of p.
func (p Point3) Length() float64 {
	return math.Sqrt(p.Dot(p))
}

// Unit returns p normalized to length 1. The origin is returned unchanged,
// as there is no direction to preserve.
func (p Point3) Unit() Point3 {
	l := p.Length()
	if Is0(l) {
		tracer().Debugf("normalizing zero-length vector")
		return Origin
	}
	return p.Scaled(1 / l)
}

// RotatedCW rotates the horizontal components of p clockwise about the
// vertical axis by theta (radians). The z component is unchanged.
func (p Point3) RotatedCW(theta float64) Point3 {
	sin := math.Sin(theta)
	cos := math.Cos(theta)
	return P3(p.X*cos+p.Y*sin, -p.X*sin+p.Y*cos, p.Z)
}

// FromCm converts a point given in centimeters to meters.
func (p Point3) FromCm() Point3 {
	return p.Scaled(1 / CmPerMeter)
}

// Cm converts a point given in meters to centimeters.
func (p Point3) Cm() Point3 {
	return p.Scaled(CmPerMeter)
}

// Mid returns the midpoint of a and b.
func Mid(a, b Point3) Point3 {
	return a.Shifted(b).Scaled(0.5)
}

// === Distance Queries ======================================================

// DistanceToSegment returns the minimum Euclidean distance from p to the
// line segment between a and b. It projects p onto the infinite line through
// the segment, clamps the projection parameter to [0,1] and measures the
// distance to the clamped point. A zero-length segment degrades to the
// distance between p and a.
func DistanceToSegment(p, a, b Point3) float64 {
	ab := b.Minus(a)
	l2 := ab.Dot(ab)
	if Is0(l2) {
		return p.Minus(a).Length()
	}
	t := p.Minus(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	nearest := a.Shifted(ab.Scaled(t))
	return p.Minus(nearest).Length()
}
