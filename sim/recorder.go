package sim

import (
	"math"

	"github.com/npillmayer/flightpath"
)

// DefaultCoalesceEpsilon is the per-axis distance, in meters, below which a
// newly sampled position is considered a duplicate of the previous one and
// is not recorded.
var DefaultCoalesceEpsilon float64 = 1e-5

// A Recorder accumulates the distinct sampled positions of one run into an
// ordered path for downstream rendering or export. The zero value is an
// empty recorder using DefaultCoalesceEpsilon.
type Recorder struct {
	// Epsilon overrides the per-axis coalescing distance when positive.
	Epsilon float64

	points []flightpath.Point3
}

func (r *Recorder) epsilon() float64 {
	if r.Epsilon > 0 {
		return r.Epsilon
	}
	return DefaultCoalesceEpsilon
}

// Record appends a sampled position unless it is a near-duplicate of the
// last recorded point, i.e. within the coalescing distance on every axis.
func (r *Recorder) Record(p flightpath.Point3) {
	if n := len(r.points); n > 0 {
		last := r.points[n-1]
		eps := r.epsilon()
		if math.Abs(p.X-last.X) <= eps &&
			math.Abs(p.Y-last.Y) <= eps &&
			math.Abs(p.Z-last.Z) <= eps {
			return
		}
	}
	r.points = append(r.points, p)
}

// Reset drops the recorded path for a new run.
func (r *Recorder) Reset() {
	r.points = r.points[:0]
}

// Len returns the number of recorded positions.
func (r *Recorder) Len() int {
	return len(r.points)
}

// Path returns the recorded positions in sample order. The returned slice
// is a copy and stays valid after further recording.
func (r *Recorder) Path() []flightpath.Point3 {
	path := make([]flightpath.Point3, len(r.points))
	copy(path, r.points)
	return path
}
