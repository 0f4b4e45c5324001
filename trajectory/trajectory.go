// Package trajectory constructs continuous 3D flight curves between a start
// and an end point. Two curve families are supported: a straight line and an
// elliptical arc whose major axis is the chord between the endpoints.
/*

A curve is built from an immutable parameter snapshot. Coordinates arrive in
centimeters, the unit used by the editing collaborator; the curve itself
works in meters. The end point may be given in the global frame, or as a
local offset which is rotated clockwise about the vertical axis by a heading
angle and added to the start point.

For the arc family the chord AB is the full major axis and the minor
semi-axis is a quarter of the chord length, so every arc has the same
eccentricity no matter how far apart the endpoints are. The arc is
parametrized as

   P(t) = M + a·cos(θ)·u + b·sin(θ)·v,   θ(t) = π·(1−t)

with M the chord midpoint, u the major-axis unit vector, v the in-plane
minor-axis unit vector and a, b the semi-axes. θ runs from π to 0, which
maps t=0 onto A and t=1 onto B. Both endpoints are returned exactly,
independent of trigonometric rounding in between.

The minor-axis sign selects the side of the chord the arc bulges toward:
positive for Clockwise, negative for Anticlockwise.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package trajectory

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/flightpath"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'trajectory'
func tracer() tracing.Trace {
	return tracing.Select("trajectory")
}

var (
	// ErrNonFiniteCoordinate indicates a parameter coordinate contains NaN/Inf.
	ErrNonFiniteCoordinate = errors.New("flight parameter has non-finite coordinate")
	// ErrUnknownMode indicates an unrecognized flight mode.
	ErrUnknownMode = errors.New("unknown flight mode")
	// ErrUnknownFrame indicates an unrecognized end-coordinate frame.
	ErrUnknownFrame = errors.New("unknown end-coordinate frame")
)

// Mode selects the curve family of a flight.
type Mode int

const (
	// Line is component-wise linear interpolation between start and end.
	Line Mode = iota
	// Arc is an elliptical arc with the chord as its major axis.
	Arc
)

func (m Mode) String() string {
	if m == Arc {
		return "arc"
	}
	return "line"
}

// Frame tells how the end point of a flight is to be interpreted.
type Frame int

const (
	// Global : the end point is an absolute position.
	Global Frame = iota
	// Local : the end point is an offset from the start point, rotated
	// clockwise about the vertical axis by the flight heading.
	Local
)

// ArcDirection selects the side of the chord an arc bulges toward.
type ArcDirection int

const (
	// Clockwise arcs bulge toward the positive minor axis.
	Clockwise ArcDirection = iota
	// Anticlockwise arcs bulge toward the negative minor axis.
	Anticlockwise
)

// Params is an immutable snapshot of the flight parameters for one run.
// All coordinates are in centimeters, as delivered by the editing
// collaborator. SpeedPercent scales the nominal speed of 1 m/s, i.e. 100
// means 1 m/s.
type Params struct {
	Mode         Mode
	Start        flightpath.Point3 // cm, global frame
	End          flightpath.Point3 // cm, global or local (see EndFrame)
	EndFrame     Frame
	HeadingDeg   float64 // clockwise from +Y, Local frame only
	SpeedPercent float64
	Dir          ArcDirection // Arc mode only
	ZOffsetCm    float64      // added to every sampled z
}

// ResolveEnd resolves an end point into the global frame. In the Global
// frame the end point passes through unchanged. In the Local frame it is an
// offset, rotated clockwise about the vertical axis by headingDeg degrees
// and added to start. Units are preserved.
func ResolveEnd(start, end flightpath.Point3, frame Frame, headingDeg float64) flightpath.Point3 {
	if frame == Global {
		return end
	}
	return start.Shifted(end.RotatedCW(headingDeg * flightpath.Deg2Rad))
}

// degenerateScale shrinks the start point into a stand-in position when an
// arc chord collapses to a single point.
const degenerateScale = 0.001

// nearVertical is the horizontal-component bound below which a chord counts
// as vertical and the minor axis falls back to the x-axis.
const nearVertical = 1e-6

// Curve is a continuous flight path from a start to an end point, evaluated
// in meters. Construct it with New or Must; the zero value is not usable.
type Curve struct {
	params Params
	start  flightpath.Point3 // m, global
	end    flightpath.Point3 // m, global, resolved
	zoff   float64           // m

	// arc geometry, valid for Mode == Arc with a nonzero chord
	mid        flightpath.Point3
	major      flightpath.Point3 // unit vector along the chord
	minor      flightpath.Point3 // unit vector, in-plane, ⟂ major
	a, b       float64           // semi-axes (b carries the direction sign)
	degenerate bool
}

// New builds a Curve from a parameter snapshot. The end point is resolved
// into the global frame once, here; later edits to the collaborator's data
// do not affect the curve. Non-finite coordinates are rejected.
func New(p Params) (*Curve, error) {
	if !p.Start.IsFinite() || !p.End.IsFinite() {
		return nil, fmt.Errorf("%w: start=%s end=%s", ErrNonFiniteCoordinate, p.Start, p.End)
	}
	if math.IsNaN(p.HeadingDeg) || math.IsInf(p.HeadingDeg, 0) ||
		math.IsNaN(p.ZOffsetCm) || math.IsInf(p.ZOffsetCm, 0) {
		return nil, fmt.Errorf("%w: heading=%g zoffset=%g", ErrNonFiniteCoordinate, p.HeadingDeg, p.ZOffsetCm)
	}
	if p.Mode != Line && p.Mode != Arc {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, p.Mode)
	}
	if p.EndFrame != Global && p.EndFrame != Local {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFrame, p.EndFrame)
	}
	c := &Curve{
		params: p,
		start:  p.Start.FromCm(),
		end:    ResolveEnd(p.Start, p.End, p.EndFrame, p.HeadingDeg).FromCm(),
		zoff:   p.ZOffsetCm / flightpath.CmPerMeter,
	}
	if p.Mode == Arc {
		c.setupArc()
	}
	tracer().Debugf("curve %s from %s to %s", p.Mode, c.start, c.end)
	return c, nil
}

// Must is a compatibility helper which panics on validation errors.
func Must(p Params) *Curve {
	c, err := New(p)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Curve) setupArc() {
	chord := c.end.Minus(c.start)
	l := chord.Length()
	if flightpath.Is0(l) {
		tracer().Debugf("arc chord collapsed at %s, using degenerate point", c.start)
		c.degenerate = true
		return
	}
	c.mid = flightpath.Mid(c.start, c.end)
	c.major = chord.Scaled(1 / l)
	if math.Abs(c.major.X) <= nearVertical && math.Abs(c.major.Y) <= nearVertical {
		// vertical flight: cross with Up would vanish
		c.minor = flightpath.P3(1, 0, 0)
	} else {
		c.minor = c.major.Cross(flightpath.Up).Unit()
	}
	sign := 1.0
	if c.params.Dir == Anticlockwise {
		sign = -1.0
	}
	c.a = l / 2
	c.b = l / 4 * sign
}

// Start returns the start point in meters, global frame.
func (c *Curve) Start() flightpath.Point3 {
	return c.start
}

// End returns the resolved end point in meters, global frame.
func (c *Curve) End() flightpath.Point3 {
	return c.end
}

// Params returns the parameter snapshot the curve was built from.
func (c *Curve) Params() Params {
	return c.params
}

// ChordLength is the straight-line distance from start to resolved end,
// in meters.
func (c *Curve) ChordLength() float64 {
	return c.end.Minus(c.start).Length()
}

// Pos evaluates the curve at normalized time t ∈ [0,1] and returns a
// position in meters, with the configured z offset applied. t=0 maps onto
// the start point and t=1 onto the end point, exactly.
//
// Passing t outside [0,1] is a contract violation and panics.
func (c *Curve) Pos(t float64) flightpath.Point3 {
	if t < 0 || t > 1 || math.IsNaN(t) {
		panic(fmt.Sprintf("trajectory: position parameter %g outside [0,1]", t))
	}
	var p flightpath.Point3
	switch {
	case c.params.Mode == Line:
		p = c.start.Shifted(c.end.Minus(c.start).Scaled(t))
	case c.degenerate:
		p = c.start.Scaled(degenerateScale)
	case t == 0:
		p = c.start
	case t == 1:
		p = c.end
	default:
		theta := math.Pi * (1 - t)
		p = c.mid.
			Shifted(c.major.Scaled(c.a * math.Cos(theta))).
			Shifted(c.minor.Scaled(c.b * math.Sin(theta)))
	}
	p.Z += c.zoff
	return p
}
