package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// WordShareFeature returns the fraction of tokens in seqA that also occur
// anywhere in seqB (set membership, not positional). Directional: call it
// both ways to get the two baseline features per pair.
//
// When seqA is empty the ratio is 0/0; the function returns NaN as the
// missing-value sentinel and callers must exclude such rows before
// fitting (never impute).
func WordShareFeature(seqA, seqB []int) float64 {
	if len(seqA) == 0 {
		return math.NaN()
	}

	inB := make(map[int]bool, len(seqB))
	for _, id := range seqB {
		inB[id] = true
	}

	shared := 0
	for _, id := range seqA {
		if inB[id] {
			shared++
		}
	}

	return float64(shared) / float64(len(seqA))
}

// BaselineExample is one question pair reduced to the two word-share
// features plus its label.
type BaselineExample struct {
	ShareAB float64 // fraction of question1 tokens found in question2
	ShareBA float64 // fraction of question2 tokens found in question1
	Label   float64 // 1 = duplicate
}

// BaselineFeatures encodes records through the vocabulary and computes
// both directional word-share features. Rows where either feature is
// missing (an empty question after normalization) are dropped; the
// second return value counts them.
func BaselineFeatures(records []QuestionPairRecord, vocab *Vocabulary) ([]BaselineExample, int) {
	examples := make([]BaselineExample, 0, len(records))
	dropped := 0

	for _, rec := range records {
		seq1 := vocab.Encode(rec.Question1)
		seq2 := vocab.Encode(rec.Question2)

		ab := WordShareFeature(seq1, seq2)
		ba := WordShareFeature(seq2, seq1)
		if math.IsNaN(ab) || math.IsNaN(ba) {
			dropped++
			continue
		}

		label := 0.0
		if rec.IsDuplicate {
			label = 1.0
		}
		examples = append(examples, BaselineExample{ShareAB: ab, ShareBA: ba, Label: label})
	}

	return examples, dropped
}

// LogisticBaseline is the two-feature logistic-regression benchmark the
// neural models are compared against.
type LogisticBaseline struct {
	W1, W2, B float64
}

// ErrNoBaselineData indicates every row was dropped for missing features.
var ErrNoBaselineData = errors.New("benchmark: no usable rows after dropping missing features")

// FitLogisticBaseline trains the baseline with full-batch gradient
// descent on binary cross-entropy.
func FitLogisticBaseline(examples []BaselineExample, lr float64, epochs int, seed int64) (*LogisticBaseline, error) {
	if len(examples) == 0 {
		return nil, ErrNoBaselineData
	}
	if lr <= 0 || epochs <= 0 {
		return nil, fmt.Errorf("benchmark: lr and epochs must be positive, got %g and %d", lr, epochs)
	}

	rng := rand.New(rand.NewSource(seed))
	m := &LogisticBaseline{
		W1: rng.NormFloat64() * 0.01,
		W2: rng.NormFloat64() * 0.01,
	}

	n := float64(len(examples))
	for epoch := 0; epoch < epochs; epoch++ {
		var gw1, gw2, gb float64
		for _, ex := range examples {
			p := m.Predict(ex.ShareAB, ex.ShareBA)
			d := p - ex.Label // dLoss/dLogit for BCE behind a sigmoid
			gw1 += d * ex.ShareAB
			gw2 += d * ex.ShareBA
			gb += d
		}
		m.W1 -= lr * gw1 / n
		m.W2 -= lr * gw2 / n
		m.B -= lr * gb / n
	}

	return m, nil
}

// Predict returns the duplicate probability for one feature pair.
func (m *LogisticBaseline) Predict(shareAB, shareBA float64) float64 {
	return sigmoid(m.W1*shareAB + m.W2*shareBA + m.B)
}

// Evaluate returns mean binary cross-entropy and accuracy (0.5 threshold)
// over a set of examples.
func (m *LogisticBaseline) Evaluate(examples []BaselineExample) (loss, accuracy float64, err error) {
	if len(examples) == 0 {
		return 0, 0, ErrNoBaselineData
	}

	correct := 0
	for _, ex := range examples {
		p := m.Predict(ex.ShareAB, ex.ShareBA)
		loss += binaryCrossEntropy(p, ex.Label)
		if (p >= 0.5) == (ex.Label >= 0.5) {
			correct++
		}
	}

	n := float64(len(examples))
	return loss / n, float64(correct) / n, nil
}
