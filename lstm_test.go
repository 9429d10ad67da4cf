package main

import (
	"math"
	"testing"
)

func TestLSTMForwardShape(t *testing.T) {
	cell := NewLSTMCell(3, 5)

	xs := [][]float64{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
	}

	h, cache := cell.Forward(xs)
	if len(h) != 5 {
		t.Errorf("hidden state length %d, want 5", len(h))
	}
	if len(cache.steps) != 2 {
		t.Errorf("cache has %d steps, want 2", len(cache.steps))
	}

	// h = o * tanh(c), both factors bounded, so |h| < 1.
	for j, v := range h {
		if math.Abs(v) >= 1 {
			t.Errorf("h[%d] = %g, want |h| < 1", j, v)
		}
	}
}

func TestLSTMForwardDeterministic(t *testing.T) {
	cell := NewLSTMCell(2, 4)

	xs := [][]float64{{1, -1}, {0.5, 0.5}, {0, 0}}
	h1, _ := cell.Forward(xs)
	h2, _ := cell.Forward(xs)

	for j := range h1 {
		if h1[j] != h2[j] {
			t.Errorf("forward is not deterministic at %d: %g vs %g", j, h1[j], h2[j])
		}
	}
}

func TestLSTMForgetBiasInit(t *testing.T) {
	cell := NewLSTMCell(2, 3)

	// Forget-gate bias rows [H, 2H) start at 1.
	for j := 0; j < 3; j++ {
		if cell.b.data[3+j] != 1.0 {
			t.Errorf("forget bias %d = %g, want 1", j, cell.b.data[3+j])
		}
		if cell.b.data[j] != 0 {
			t.Errorf("input bias %d = %g, want 0", j, cell.b.data[j])
		}
	}
}

func TestLSTMParameters(t *testing.T) {
	cell := NewLSTMCell(3, 5)
	params := cell.Parameters()

	if len(params) != 3 {
		t.Fatalf("expected 3 parameter tensors, got %d", len(params))
	}
	wantSizes := []int{4 * 5 * 3, 4 * 5 * 5, 4 * 5}
	for i, p := range params {
		if p.Size() != wantSizes[i] {
			t.Errorf("parameter %d size %d, want %d", i, p.Size(), wantSizes[i])
		}
	}
}
