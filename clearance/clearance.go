// Package clearance measures the minimum distance from a drone position to
// a set of polyline obstacle edges and tracks a per-run collision flag.
package clearance

import (
	"math"

	"github.com/npillmayer/flightpath"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'clearance'
func tracer() tracing.Trace {
	return tracing.Select("clearance")
}

// DefaultCollisionThreshold is the clearance, in meters, at or below which
// a sample counts as a collision.
var DefaultCollisionThreshold float64 = 0.1

// A Node is an obstacle corner point, in centimeters. Nodes are identified
// by their position in the node list.
type Node = flightpath.Point3

// An Edge is a collision surface: a straight segment between two nodes,
// referenced by index. Obstacle data is user-edited and may transiently
// reference missing nodes; such edges are skipped, not rejected.
type Edge struct {
	From, To int
}

// An Evaluator accumulates clearance results over the samples of one run.
// Reset it when a new run starts. The zero value uses
// DefaultCollisionThreshold.
type Evaluator struct {
	// Threshold overrides the collision threshold (meters) when positive.
	Threshold float64

	min      float64
	hasMin   bool
	collided bool
}

// NewEvaluator returns an Evaluator with the default collision threshold.
func NewEvaluator() *Evaluator {
	return &Evaluator{Threshold: DefaultCollisionThreshold}
}

func (ev *Evaluator) threshold() float64 {
	if ev.Threshold > 0 {
		return ev.Threshold
	}
	return DefaultCollisionThreshold
}

// Reset clears the running minimum and the collision flag for a new run.
func (ev *Evaluator) Reset() {
	ev.min = 0
	ev.hasMin = false
	ev.collided = false
}

// SampleDistance returns the minimum distance in meters from pos (meters)
// to any valid edge, without touching the evaluator's running state. The
// second return value is false when no edge references two existing nodes.
func SampleDistance(pos flightpath.Point3, nodes []Node, edges []Edge) (float64, bool) {
	min := math.Inf(1)
	valid := false
	for _, e := range edges {
		if e.From < 0 || e.From >= len(nodes) || e.To < 0 || e.To >= len(nodes) {
			continue
		}
		d := flightpath.DistanceToSegment(pos, nodes[e.From].FromCm(), nodes[e.To].FromCm())
		if d < min {
			min = d
		}
		valid = true
	}
	if !valid {
		return 0, false
	}
	return min, true
}

// Evaluate folds one sampled position (meters) into the run. It returns the
// sample's minimum edge distance and the sticky collision flag. When the
// obstacle set has no valid edge the sample carries no clearance value and
// the run state is unchanged.
func (ev *Evaluator) Evaluate(pos flightpath.Point3, nodes []Node, edges []Edge) (float64, bool) {
	d, ok := SampleDistance(pos, nodes, edges)
	if !ok {
		return 0, ev.collided
	}
	if !ev.hasMin || d < ev.min {
		ev.min = d
		ev.hasMin = true
	}
	if d <= ev.threshold() && !ev.collided {
		tracer().Infof("collision at %s, clearance %.4f m", pos, d)
		ev.collided = true
	}
	return d, ev.collided
}

// Min returns the running minimum clearance of the run, in meters. The
// second return value is false while no valid edge has been evaluated.
func (ev *Evaluator) Min() (float64, bool) {
	return ev.min, ev.hasMin
}

// Collided reports whether any sample of the run came within the collision
// threshold. Once set it stays set until Reset.
func (ev *Evaluator) Collided() bool {
	return ev.collided
}
