// Package sim advances a drone flight over wall-clock time. A Simulator
// owns the run/idle state machine of the flight-path engine: a trigger
// snapshots the flight parameters and obstacle data, builds the trajectory
// curve, and starts a run; an external per-frame tick then advances the
// normalized time parameter by elapsed real time. Every sample is delivered
// to the path recorder and the clearance evaluator in increasing t order.
//
// The simulator is a synchronous object with exactly one logical writer: it
// never starts goroutines and never blocks. A new trigger is the only
// cancellation mechanism and supersedes an in-flight run immediately; no
// callback of a superseded run fires afterwards.
package sim

import (
	"math"

	"github.com/npillmayer/flightpath"
	"github.com/npillmayer/flightpath/clearance"
	"github.com/npillmayer/flightpath/trajectory"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'sim'
func tracer() tracing.Trace {
	return tracing.Select("sim")
}

// MinRunSeconds is the minimum duration of a run, so that short flights
// still animate instead of completing instantaneously.
var MinRunSeconds float64 = 1.0

// SpeedFloor is the minimum effective speed in m/s, guarding the duration
// computation against near-zero speed settings.
var SpeedFloor float64 = 0.1

// A Summary describes a completed run. It is handed to the completion
// callback once per run, after the terminal sample.
type Summary struct {
	Run          uint64  // trigger token of the run
	Seconds      float64 // planned run duration
	Samples      int     // recorded (distinct) path positions
	MinClearance float64 // running minimum clearance in meters
	HasClearance bool    // false when no valid obstacle edge existed
	Collided     bool
}

// A Simulator runs one flight at a time. Create it with New. The callback
// fields may be set between runs; they are invoked synchronously from
// Trigger and Advance.
type Simulator struct {
	// OnSample, if set, receives every sampled position, in meters.
	OnSample func(flightpath.Point3)
	// OnComplete, if set, receives the run summary after the terminal
	// sample. Collaborators that want the original delayed presentation
	// schedule the delay themselves; the simulator stays tick-pure.
	OnComplete func(Summary)

	recorder *Recorder
	eval     *clearance.Evaluator

	run      uint64 // trigger token of the current run
	running  bool
	t        float64
	duration float64
	curve    *trajectory.Curve
	pos      flightpath.Point3
	nodes    []clearance.Node
	edges    []clearance.Edge
}

// New creates an idle Simulator with default policy constants.
func New() *Simulator {
	return &Simulator{
		recorder: &Recorder{},
		eval:     clearance.NewEvaluator(),
	}
}

// Trigger starts a new run from an immutable parameter snapshot and the
// current obstacle lists (centimeter coordinates). Any run in progress is
// superseded: its state is discarded and none of its callbacks fire again.
// The returned token identifies the new run.
//
// Obstacle slices are copied, so the editing collaborator may keep mutating
// its own lists mid-run without affecting the running flight.
func (s *Simulator) Trigger(p trajectory.Params, nodes []clearance.Node, edges []clearance.Edge) (uint64, error) {
	curve, err := trajectory.New(p)
	if err != nil {
		return s.run, err
	}
	s.run++
	s.running = true
	s.t = 0
	s.curve = curve
	s.nodes = append(s.nodes[:0], nodes...)
	s.edges = append(s.edges[:0], edges...)
	s.recorder.Reset()
	s.eval.Reset()

	dist := curve.ChordLength()
	speed := math.Max(SpeedFloor, p.SpeedPercent/100)
	s.duration = math.Max(MinRunSeconds, dist/speed)
	tracer().Infof("run %d: %s flight over %.2f m in %.2f s", s.run, p.Mode, dist, s.duration)

	s.sample()
	return s.run, nil
}

// Advance moves the run forward by elapsed seconds of wall-clock time and
// returns the sampled position together with a flag telling whether this
// tick completed the run. While idle, Advance does nothing and returns the
// last position.
func (s *Simulator) Advance(elapsed float64) (flightpath.Point3, bool) {
	if !s.running {
		return s.pos, false
	}
	if elapsed > 0 {
		s.t = math.Min(1, s.t+elapsed/s.duration)
	}
	s.sample()
	if s.t < 1 {
		return s.pos, false
	}
	s.running = false
	tracer().Infof("run %d complete after %d samples", s.run, s.recorder.Len())
	if s.OnComplete != nil {
		min, ok := s.eval.Min()
		s.OnComplete(Summary{
			Run:          s.run,
			Seconds:      s.duration,
			Samples:      s.recorder.Len(),
			MinClearance: min,
			HasClearance: ok,
			Collided:     s.eval.Collided(),
		})
	}
	return s.pos, true
}

// sample evaluates the curve at the current t and feeds the observers.
func (s *Simulator) sample() {
	s.pos = s.curve.Pos(s.t)
	s.recorder.Record(s.pos)
	s.eval.Evaluate(s.pos, s.nodes, s.edges)
	if s.OnSample != nil {
		s.OnSample(s.pos)
	}
}

// Running reports whether a run is in progress.
func (s *Simulator) Running() bool {
	return s.running
}

// Run returns the trigger token of the current (or last) run.
func (s *Simulator) Run() uint64 {
	return s.run
}

// T returns the normalized progress of the current run, in [0,1].
func (s *Simulator) T() float64 {
	return s.t
}

// Seconds returns the planned duration of the current run.
func (s *Simulator) Seconds() float64 {
	return s.duration
}

// Position returns the drone position of the latest sample, in meters.
func (s *Simulator) Position() flightpath.Point3 {
	return s.pos
}

// Path returns the recorded flight path of the current run, in meters.
func (s *Simulator) Path() []flightpath.Point3 {
	return s.recorder.Path()
}

// Clearance returns the running minimum clearance of the current run, in
// meters. The second return value is false while no clearance value is
// available.
func (s *Simulator) Clearance() (float64, bool) {
	return s.eval.Min()
}

// Collided reports whether the current run came within the collision
// threshold of any obstacle edge.
func (s *Simulator) Collided() bool {
	return s.eval.Collided()
}
