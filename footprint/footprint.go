// Package footprint projects flight paths and obstacle polylines onto the
// ground plane and answers planar overlap queries on the resulting
// polygons. Rendering collaborators use footprints for shadows, coverage
// display and coarse "does the track pass over this obstacle" checks; the
// exact 3D clearance lives in package clearance.
package footprint

import (
	"fmt"

	"github.com/akavel/polyclip-go"
	"github.com/npillmayer/flightpath"
	"github.com/npillmayer/flightpath/clearance"
	"github.com/npillmayer/schuko/tracing"
)

// L writes to trace with key 'footprint'
func L() tracing.Trace {
	return tracing.Select("footprint")
}

// DefaultBufferWidth is the width, in meters, of the ground strip swept
// around a buffered segment. It defaults to twice the collision threshold,
// so a footprint overlap is a superset of any possible planar collision.
var DefaultBufferWidth float64 = 0.2

// A Footprint is a polygonal region of the ground plane, possibly with
// several contours. Build one with the knot builder, with Box, or from
// obstacle/track data.
type Footprint struct {
	poly polyclip.Polygon
	open polyclip.Contour
}

// NullFootprint creates an empty footprint, to be extended by subsequent
// builder calls. Knots are ground projections: the z coordinate is dropped.
func NullFootprint() *Footprint {
	return &Footprint{}
}

// Knot adds a corner point to the contour under construction.
// Part of builder functionality.
func (fp *Footprint) Knot(p flightpath.Point3) *Footprint {
	fp.open.Add(polyclip.Point{X: p.X, Y: p.Y})
	return fp
}

// Cycle closes the contour under construction and adds it to the footprint.
// Part of builder functionality.
func (fp *Footprint) Cycle() *Footprint {
	if len(fp.open) < 3 {
		panic("footprint contour needs at least 3 knots")
	}
	fp.poly.Add(fp.open)
	fp.open = nil
	return fp
}

// Box creates a rectangular footprint spanned by two corner points.
func Box(p1, p2 flightpath.Point3) *Footprint {
	return NullFootprint().
		Knot(flightpath.P3(p1.X, p1.Y, 0)).
		Knot(flightpath.P3(p2.X, p1.Y, 0)).
		Knot(flightpath.P3(p2.X, p2.Y, 0)).
		Knot(flightpath.P3(p1.X, p2.Y, 0)).
		Cycle()
}

// N returns the total number of corner points over all contours.
func (fp *Footprint) N() int {
	return fp.poly.NumVertices()
}

// IsEmpty is a predicate: does the footprint cover no area at all?
func (fp *Footprint) IsEmpty() bool {
	return len(fp.poly) == 0
}

// Polygon exposes the footprint as a polyclip polygon, for collaborators
// that run their own boolean operations.
func (fp *Footprint) Polygon() polyclip.Polygon {
	return fp.poly.Clone()
}

// bufferSegment turns the ground projection of the segment a–b into a thin
// quad of the given width. Zero-length projections yield no contour.
func bufferSegment(a, b flightpath.Point3, width float64) polyclip.Contour {
	d := flightpath.P3(b.X-a.X, b.Y-a.Y, 0)
	if flightpath.Is0(d.Length()) {
		return nil
	}
	n := d.Cross(flightpath.Up).Unit().Scaled(width / 2)
	return polyclip.Contour{
		{X: a.X + n.X, Y: a.Y + n.Y},
		{X: b.X + n.X, Y: b.Y + n.Y},
		{X: b.X - n.X, Y: b.Y - n.Y},
		{X: a.X - n.X, Y: a.Y - n.Y},
	}
}

// unite folds one contour into the footprint. The clipper is not called
// for the first contour, it cannot handle an empty subject polygon.
func (fp *Footprint) unite(c polyclip.Contour) {
	if len(fp.poly) == 0 {
		fp.poly = polyclip.Polygon{c}
		return
	}
	fp.poly = fp.poly.Construct(polyclip.UNION, polyclip.Polygon{c})
}

// Obstacle builds the ground footprint of an obstacle edge set: the union
// of every valid edge buffered to a strip of the given width (meters).
// Coordinates are in centimeters, like all obstacle data; edges with
// out-of-range node indices are skipped. Pass width <= 0 for the default.
func Obstacle(nodes []clearance.Node, edges []clearance.Edge, width float64) *Footprint {
	if width <= 0 {
		width = DefaultBufferWidth
	}
	fp := NullFootprint()
	for _, e := range edges {
		if e.From < 0 || e.From >= len(nodes) || e.To < 0 || e.To >= len(nodes) {
			continue
		}
		quad := bufferSegment(nodes[e.From].FromCm(), nodes[e.To].FromCm(), width)
		if quad == nil {
			continue
		}
		fp.unite(quad)
	}
	L().Debugf("obstacle footprint with %d vertices from %d edges", fp.N(), len(edges))
	return fp
}

// Track builds the ground footprint of a recorded flight path (meters), as
// the union of its buffered segments. Pass width <= 0 for the default.
func Track(path []flightpath.Point3, width float64) *Footprint {
	if width <= 0 {
		width = DefaultBufferWidth
	}
	fp := NullFootprint()
	for i := 1; i < len(path); i++ {
		quad := bufferSegment(path[i-1], path[i], width)
		if quad == nil {
			continue
		}
		fp.unite(quad)
	}
	return fp
}

// Clip combines two footprints with a polygon-clipping operation and
// returns the result as a new footprint.
func (fp *Footprint) Clip(op polyclip.Op, other *Footprint) *Footprint {
	return &Footprint{poly: fp.poly.Construct(op, other.poly)}
}

// Overlaps is a predicate: do the two footprints cover common ground?
func (fp *Footprint) Overlaps(other *Footprint) bool {
	if fp.IsEmpty() || other.IsEmpty() {
		return false
	}
	return !fp.Clip(polyclip.INTERSECTION, other).IsEmpty()
}

// Contains is a predicate: does the footprint cover the ground projection
// of p? Even-odd rule over all contours.
func (fp *Footprint) Contains(p flightpath.Point3) bool {
	inside := false
	for _, c := range fp.poly {
		for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
			a, b := c[j], c[i]
			if (a.Y > p.Y) != (b.Y > p.Y) &&
				p.X < a.X+(b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) {
				inside = !inside
			}
		}
	}
	return inside
}

// AsString returns a footprint as a (debugging) string, one line per
// contour.
func AsString(fp *Footprint) string {
	var s string
	for i, c := range fp.poly {
		if i > 0 {
			s += "\n"
		}
		for _, pt := range c {
			s += fmt.Sprintf("(%.4g,%.4g) -- ", pt.X, pt.Y)
		}
		s += "cycle"
	}
	return s
}
