package main

import (
	"errors"
	"math"
	"math/rand"

	"go.uber.org/zap"
)

// PairExample is one training example: both questions encoded and padded
// to max_len, plus the duplicate label.
type PairExample struct {
	Q1, Q2 []int
	Label  float64 // 1 = duplicate
}

// BuildExamples runs records through the frozen vocabulary and the
// padder, producing model-ready examples. The padding value is the
// vocabulary's sentinel, never a real rank.
func BuildExamples(records []QuestionPairRecord, vocab *Vocabulary, maxLen int) []PairExample {
	examples := make([]PairExample, len(records))
	padID := vocab.PadID()

	for i, rec := range records {
		label := 0.0
		if rec.IsDuplicate {
			label = 1.0
		}
		examples[i] = PairExample{
			Q1:    Pad(vocab.Encode(rec.Question1), maxLen, padID),
			Q2:    Pad(vocab.Encode(rec.Question2), maxLen, padID),
			Label: label,
		}
	}

	return examples
}

// binaryCrossEntropy is the per-example loss. Probabilities are clamped
// away from 0 and 1 to keep the logs finite.
func binaryCrossEntropy(p, y float64) float64 {
	const eps = 1e-7
	if p < eps {
		p = eps
	} else if p > 1-eps {
		p = 1 - eps
	}
	return -y*math.Log(p) - (1-y)*math.Log(1-p)
}

// Optimizer updates parameters from their accumulated gradients.
type Optimizer interface {
	Step(params []*Tensor, lr float64)
}

// SGDOptimizer implements plain stochastic gradient descent.
type SGDOptimizer struct{}

// Step updates parameters: param -= lr * grad.
func (opt *SGDOptimizer) Step(params []*Tensor, lr float64) {
	for _, p := range params {
		for i := range p.data {
			p.data[i] -= lr * p.grad[i]
		}
	}
}

// AdamOptimizer implements the Adam update rule:
//
//	m_t = beta1*m + (1-beta1)*grad
//	v_t = beta2*v + (1-beta2)*grad^2
//	param -= lr * m_hat / (sqrt(v_hat) + epsilon)
//
// with bias-corrected moments m_hat, v_hat.
type AdamOptimizer struct {
	beta1   float64
	beta2   float64
	epsilon float64

	m []*Tensor // first moment
	v []*Tensor // second moment
	t int       // step count for bias correction
}

// NewAdamOptimizer creates an Adam optimizer with moment buffers shaped
// after params.
func NewAdamOptimizer(params []*Tensor, beta1, beta2, epsilon float64) *AdamOptimizer {
	m := make([]*Tensor, len(params))
	v := make([]*Tensor, len(params))
	for i, p := range params {
		m[i] = NewTensor(p.shape...)
		v[i] = NewTensor(p.shape...)
	}
	return &AdamOptimizer{beta1: beta1, beta2: beta2, epsilon: epsilon, m: m, v: v}
}

// Step performs one Adam update.
func (opt *AdamOptimizer) Step(params []*Tensor, lr float64) {
	opt.t++
	bias1 := 1.0 - math.Pow(opt.beta1, float64(opt.t))
	bias2 := 1.0 - math.Pow(opt.beta2, float64(opt.t))

	for i, p := range params {
		for j := range p.data {
			g := p.grad[j]
			opt.m[i].data[j] = opt.beta1*opt.m[i].data[j] + (1.0-opt.beta1)*g
			opt.v[i].data[j] = opt.beta2*opt.v[i].data[j] + (1.0-opt.beta2)*g*g

			mHat := opt.m[i].data[j] / bias1
			vHat := opt.v[i].data[j] / bias2
			p.data[j] -= lr * mHat / (math.Sqrt(vHat) + opt.epsilon)
		}
	}
}

// zeroGradients clears every parameter's gradient buffer.
func zeroGradients(params []*Tensor) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// scaleGradients multiplies every gradient by s (used to average over a
// minibatch after per-example accumulation).
func scaleGradients(params []*Tensor, s float64) {
	for _, p := range params {
		for i := range p.grad {
			p.grad[i] *= s
		}
	}
}

// clipGradients clips gradients by global norm to prevent explosion,
// which matters for the recurrent variant.
func clipGradients(params []*Tensor, maxNorm float64) {
	globalNorm := 0.0
	for _, p := range params {
		for _, g := range p.grad {
			globalNorm += g * g
		}
	}
	globalNorm = math.Sqrt(globalNorm)

	if globalNorm > maxNorm {
		scale := maxNorm / globalNorm
		scaleGradients(params, scale)
	}
}

// TrainingReport summarizes a finished training run at its best epoch.
type TrainingReport struct {
	BestEpoch       int
	BestValLoss     float64
	BestValAccuracy float64
	EpochsRun       int
	EarlyStopped    bool
}

// ErrNoTrainingData indicates an empty train or validation set.
var ErrNoTrainingData = errors.New("train: train and validation sets must be non-empty")

// TrainModel fits the model on train, monitoring val after every epoch.
//
// Two plateau policies run off the same counter of epochs without
// validation-loss improvement: once it reaches ReduceLRPatience the
// learning rate is multiplied by ReduceLRFactor (floored at
// MinLearningRate), and once it reaches EarlyStoppingPatience training
// stops. Either way the weights from the best-observed epoch are
// restored before the model is frozen for scoring.
func TrainModel(model *SimilarityModel, train, val []PairExample, cfg Config, logger *zap.Logger) (*TrainingReport, error) {
	if model.Frozen() {
		return nil, ErrModelFrozen
	}
	if len(train) == 0 || len(val) == 0 {
		return nil, ErrNoTrainingData
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params := model.Parameters()

	var optimizer Optimizer
	if cfg.Optimizer == "adam" {
		optimizer = NewAdamOptimizer(params, 0.9, 0.999, 1e-8)
	} else {
		optimizer = &SGDOptimizer{}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	lr := cfg.LearningRate

	report := &TrainingReport{BestValLoss: math.Inf(1), BestEpoch: -1}
	var bestParams []*Tensor
	sinceImprove := 0

	shuffled := make([]PairExample, len(train))
	copy(shuffled, train)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		trainLoss := 0.0
		for start := 0; start < len(shuffled); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > len(shuffled) {
				end = len(shuffled)
			}
			batch := shuffled[start:end]

			zeroGradients(params)
			for _, ex := range batch {
				p, cache := model.Forward(ex.Q1, ex.Q2)
				trainLoss += binaryCrossEntropy(p, ex.Label)
				model.Backward(cache, p-ex.Label)
			}

			scaleGradients(params, 1.0/float64(len(batch)))
			if cfg.GradClipNorm > 0 {
				clipGradients(params, cfg.GradClipNorm)
			}
			optimizer.Step(params, lr)
		}
		trainLoss /= float64(len(shuffled))

		valLoss, valAcc := EvaluateModel(model, val)
		report.EpochsRun = epoch + 1

		logger.Info("epoch finished",
			zap.Int("epoch", epoch+1),
			zap.Float64("train_loss", trainLoss),
			zap.Float64("val_loss", valLoss),
			zap.Float64("val_accuracy", valAcc),
			zap.Float64("lr", lr))

		if valLoss < report.BestValLoss {
			report.BestValLoss = valLoss
			report.BestValAccuracy = valAcc
			report.BestEpoch = epoch + 1
			sinceImprove = 0

			bestParams = make([]*Tensor, len(params))
			for i, p := range params {
				bestParams[i] = p.Clone()
			}
			continue
		}

		sinceImprove++

		if sinceImprove >= cfg.ReduceLRPatience && lr > cfg.MinLearningRate {
			lr *= cfg.ReduceLRFactor
			if lr < cfg.MinLearningRate {
				lr = cfg.MinLearningRate
			}
			logger.Info("validation loss plateaued, reducing learning rate",
				zap.Float64("lr", lr))
		}

		if sinceImprove >= cfg.EarlyStoppingPatience {
			report.EarlyStopped = true
			logger.Info("early stopping",
				zap.Int("best_epoch", report.BestEpoch),
				zap.Float64("best_val_loss", report.BestValLoss))
			break
		}
	}

	// Restore the best-observed weights before freezing.
	if bestParams != nil {
		for i, p := range params {
			p.CopyDataFrom(bestParams[i])
		}
	}
	model.Freeze()

	return report, nil
}

// EvaluateModel computes mean binary cross-entropy and accuracy
// (0.5 threshold) over examples. Forward-only, no gradients.
func EvaluateModel(model *SimilarityModel, examples []PairExample) (loss, accuracy float64) {
	if len(examples) == 0 {
		return 0, 0
	}

	correct := 0
	for _, ex := range examples {
		p := model.Predict(ex.Q1, ex.Q2)
		loss += binaryCrossEntropy(p, ex.Label)
		if (p >= 0.5) == (ex.Label >= 0.5) {
			correct++
		}
	}

	n := float64(len(examples))
	return loss / n, float64(correct) / n
}

// countParameters counts the total scalar parameters of a model.
func countParameters(params []*Tensor) int {
	total := 0
	for _, p := range params {
		total += p.Size()
	}
	return total
}

// majorityBaselineAccuracy is the accuracy of always predicting the most
// common label, the floor any trained model must beat.
func majorityBaselineAccuracy(examples []PairExample) float64 {
	if len(examples) == 0 {
		return 0
	}
	positives := 0
	for _, ex := range examples {
		if ex.Label >= 0.5 {
			positives++
		}
	}
	frac := float64(positives) / float64(len(examples))
	return math.Max(frac, 1-frac)
}
