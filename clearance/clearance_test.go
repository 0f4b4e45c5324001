package clearance

import (
	"testing"

	"github.com/npillmayer/flightpath"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func wall() ([]Node, []Edge) {
	nodes := []Node{
		flightpath.P3(0, 0, 0),
		flightpath.P3(0, 200, 0),
	}
	edges := []Edge{{From: 0, To: 1}}
	return nodes, edges
}

func TestSampleOnSegment(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	nodes, edges := wall()
	ev := NewEvaluator()
	d, collided := ev.Evaluate(flightpath.P3(0, 1, 0), nodes, edges)
	assert.InDelta(t, 0, d, 1e-12)
	assert.True(t, collided)
}

func TestSampleOffSegment(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	nodes, edges := wall()
	ev := NewEvaluator()
	d, collided := ev.Evaluate(flightpath.P3(3, 1, 0), nodes, edges)
	assert.InDelta(t, 3, d, 1e-12)
	assert.False(t, collided)
}

func TestThresholdBoundary(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	nodes, edges := wall()
	ev := NewEvaluator()
	_, collided := ev.Evaluate(flightpath.P3(0.1, 1, 0), nodes, edges)
	if !collided {
		t.Errorf("Expected collision at exactly the threshold distance")
	}
	ev.Reset()
	_, collided = ev.Evaluate(flightpath.P3(0.1000001, 1, 0), nodes, edges)
	if collided {
		t.Errorf("Expected no collision just above the threshold")
	}
}

func TestCollisionIsSticky(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	nodes, edges := wall()
	ev := NewEvaluator()
	ev.Evaluate(flightpath.P3(0, 1, 0), nodes, edges)
	d, collided := ev.Evaluate(flightpath.P3(5, 1, 0), nodes, edges)
	assert.InDelta(t, 5, d, 1e-12)
	assert.True(t, collided, "collision flag must survive later clear samples")
}

func TestRunningMinimum(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	nodes, edges := wall()
	ev := NewEvaluator()
	ev.Evaluate(flightpath.P3(5, 1, 0), nodes, edges)
	ev.Evaluate(flightpath.P3(2, 1, 0), nodes, edges)
	ev.Evaluate(flightpath.P3(4, 1, 0), nodes, edges)
	min, ok := ev.Min()
	assert.True(t, ok)
	assert.InDelta(t, 2, min, 1e-12)
}

func TestInvalidEdgesSkipped(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	nodes, _ := wall()
	edges := []Edge{
		{From: 0, To: 7},  // dangling To
		{From: -1, To: 1}, // dangling From
		{From: 0, To: 1},
	}
	d, ok := SampleDistance(flightpath.P3(3, 1, 0), nodes, edges)
	assert.True(t, ok)
	assert.InDelta(t, 3, d, 1e-12)
}

func TestNoValidEdges(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ev := NewEvaluator()
	d, collided := ev.Evaluate(flightpath.P3(0, 0, 0), nil, []Edge{{From: 0, To: 1}})
	assert.InDelta(t, 0, d, 1e-12)
	assert.False(t, collided)
	if _, ok := ev.Min(); ok {
		t.Errorf("Expected clearance to be unavailable without valid edges")
	}
}

func TestNearestOfSeveralEdges(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	nodes := []Node{
		flightpath.P3(0, 0, 0),
		flightpath.P3(0, 200, 0),
		flightpath.P3(100, 0, 0),
		flightpath.P3(100, 200, 0),
	}
	edges := []Edge{{From: 0, To: 1}, {From: 2, To: 3}}
	d, ok := SampleDistance(flightpath.P3(0.8, 1, 0), nodes, edges)
	assert.True(t, ok)
	assert.InDelta(t, 0.2, d, 1e-12, "nearer wall at x=1 m wins")
}

func TestCustomThreshold(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	nodes, edges := wall()
	ev := &Evaluator{Threshold: 0.5}
	_, collided := ev.Evaluate(flightpath.P3(0.4, 1, 0), nodes, edges)
	assert.True(t, collided)
}
