package main

import (
	"fmt"
	"math"
)

// LSTMCell is the recurrent sequence encoder used by the
// sequence-encoded model variant. It consumes a sequence of input
// vectors left-to-right and emits the final hidden state as a fixed-size
// summary vector.
//
// Weights are stored gate-stacked: rows [0,H) input gate, [H,2H) forget
// gate, [2H,3H) cell candidate, [3H,4H) output gate.
type LSTMCell struct {
	inputSize  int
	hiddenSize int

	wx *Tensor // (4*hidden, input) input projection
	wh *Tensor // (4*hidden, hidden) recurrent projection
	b  *Tensor // (4*hidden) bias
}

// NewLSTMCell creates an LSTM cell with small random weights.
func NewLSTMCell(inputSize, hiddenSize int) *LSTMCell {
	if inputSize <= 0 || hiddenSize <= 0 {
		panic(fmt.Sprintf("lstm: sizes must be positive, got input=%d hidden=%d", inputSize, hiddenSize))
	}

	cell := &LSTMCell{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		wx:         NewTensorRand(0.08, 4*hiddenSize, inputSize),
		wh:         NewTensorRand(0.08, 4*hiddenSize, hiddenSize),
		b:          NewTensor(4 * hiddenSize),
	}

	// Forget-gate bias starts at 1 so early training does not wipe the
	// cell state before gradients arrive.
	for j := 0; j < hiddenSize; j++ {
		cell.b.data[hiddenSize+j] = 1.0
	}

	return cell
}

// lstmStep stores the per-timestep activations needed by the backward
// pass.
type lstmStep struct {
	x     []float64 // input vector
	hPrev []float64
	cPrev []float64
	i     []float64 // input gate (post-sigmoid)
	f     []float64 // forget gate
	g     []float64 // cell candidate (post-tanh)
	o     []float64 // output gate
	c     []float64 // cell state
	cTanh []float64 // tanh(cell state)
}

// lstmCache holds everything the backward pass needs for one sequence.
type lstmCache struct {
	steps []lstmStep
	hLast []float64
}

// Forward runs the cell over xs (one input vector per timestep) and
// returns the final hidden state plus the cache for Backward.
func (cell *LSTMCell) Forward(xs [][]float64) ([]float64, *lstmCache) {
	H := cell.hiddenSize
	D := cell.inputSize

	h := make([]float64, H)
	c := make([]float64, H)
	cache := &lstmCache{steps: make([]lstmStep, 0, len(xs))}

	for _, x := range xs {
		if len(x) != D {
			panic(fmt.Sprintf("lstm: input vector length %d, want %d", len(x), D))
		}

		step := lstmStep{
			x:     x,
			hPrev: h,
			cPrev: c,
			i:     make([]float64, H),
			f:     make([]float64, H),
			g:     make([]float64, H),
			o:     make([]float64, H),
			c:     make([]float64, H),
			cTanh: make([]float64, H),
		}

		// Gate pre-activations: a = Wx*x + Wh*h_prev + b
		a := make([]float64, 4*H)
		for k := 0; k < 4*H; k++ {
			sum := cell.b.data[k]
			rowX := k * D
			for d := 0; d < D; d++ {
				sum += cell.wx.data[rowX+d] * x[d]
			}
			rowH := k * H
			for j := 0; j < H; j++ {
				sum += cell.wh.data[rowH+j] * h[j]
			}
			a[k] = sum
		}

		newH := make([]float64, H)
		newC := make([]float64, H)
		for j := 0; j < H; j++ {
			step.i[j] = sigmoid(a[j])
			step.f[j] = sigmoid(a[H+j])
			step.g[j] = math.Tanh(a[2*H+j])
			step.o[j] = sigmoid(a[3*H+j])

			newC[j] = step.f[j]*c[j] + step.i[j]*step.g[j]
			step.c[j] = newC[j]
			step.cTanh[j] = math.Tanh(newC[j])
			newH[j] = step.o[j] * step.cTanh[j]
		}

		h = newH
		c = newC
		cache.steps = append(cache.steps, step)
	}

	cache.hLast = h
	return h, cache
}

// Backward propagates dhLast (gradient w.r.t. the final hidden state)
// back through the whole sequence, accumulating into the cell's weight
// gradients, and returns the gradient w.r.t. each input vector.
func (cell *LSTMCell) Backward(dhLast []float64, cache *lstmCache) [][]float64 {
	H := cell.hiddenSize
	D := cell.inputSize

	if len(dhLast) != H {
		panic(fmt.Sprintf("lstm: dhLast length %d, want %d", len(dhLast), H))
	}

	dxs := make([][]float64, len(cache.steps))

	dh := make([]float64, H)
	copy(dh, dhLast)
	dc := make([]float64, H)

	for t := len(cache.steps) - 1; t >= 0; t-- {
		step := cache.steps[t]
		da := make([]float64, 4*H)

		for j := 0; j < H; j++ {
			do := dh[j] * step.cTanh[j]
			dcj := dc[j] + dh[j]*step.o[j]*(1-step.cTanh[j]*step.cTanh[j])

			di := dcj * step.g[j]
			df := dcj * step.cPrev[j]
			dg := dcj * step.i[j]

			da[j] = di * step.i[j] * (1 - step.i[j])
			da[H+j] = df * step.f[j] * (1 - step.f[j])
			da[2*H+j] = dg * (1 - step.g[j]*step.g[j])
			da[3*H+j] = do * step.o[j] * (1 - step.o[j])

			dc[j] = dcj * step.f[j] // carries to step t-1
		}

		dx := make([]float64, D)
		dhPrev := make([]float64, H)
		for k := 0; k < 4*H; k++ {
			dak := da[k]
			if dak == 0 {
				continue
			}
			rowX := k * D
			for d := 0; d < D; d++ {
				cell.wx.grad[rowX+d] += dak * step.x[d]
				dx[d] += cell.wx.data[rowX+d] * dak
			}
			rowH := k * H
			for j := 0; j < H; j++ {
				cell.wh.grad[rowH+j] += dak * step.hPrev[j]
				dhPrev[j] += cell.wh.data[rowH+j] * dak
			}
			cell.b.grad[k] += dak
		}

		dxs[t] = dx
		dh = dhPrev
	}

	return dxs
}

// Parameters returns the cell's trainable tensors.
func (cell *LSTMCell) Parameters() []*Tensor {
	return []*Tensor{cell.wx, cell.wh, cell.b}
}
