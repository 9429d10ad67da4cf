package main

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ModelVariant selects the branch architecture of the dual encoder.
type ModelVariant string

const (
	// VariantEmbeddingOnly flattens each branch's embedding matrix into a
	// single vector.
	VariantEmbeddingOnly ModelVariant = "embedding_only"

	// VariantSequenceEncoded runs each branch's embedding matrix through
	// an LSTM and uses the final hidden state.
	VariantSequenceEncoded ModelVariant = "sequence_encoded"
)

// ErrModelFrozen indicates an attempt to train a model that has already
// been frozen for scoring. The lifecycle is one-directional:
// built -> training -> frozen.
var ErrModelFrozen = errors.New("model: model is frozen; training is not allowed")

// ModelConfig is the immutable description a SimilarityModel is built
// from. It is persisted verbatim in the model header, including the
// fingerprint of the training vocabulary, so scoring can reject a
// mismatched vocabulary instead of silently producing garbage.
type ModelConfig struct {
	Variant          ModelVariant `json:"variant"`
	VocabSize        int          `json:"vocab_size"`
	MaxLen           int          `json:"max_len"`
	EmbeddingSize    int          `json:"embedding_size"`
	LSTMSize         int          `json:"lstm_size,omitempty"`
	VocabFingerprint uint64       `json:"vocab_fingerprint,string"`
}

// Validate checks the configuration is buildable.
func (c ModelConfig) Validate() error {
	switch c.Variant {
	case VariantEmbeddingOnly:
	case VariantSequenceEncoded:
		if c.LSTMSize <= 0 {
			return fmt.Errorf("model: lstm_size must be positive for the sequence-encoded variant, got %d", c.LSTMSize)
		}
	default:
		return fmt.Errorf("model: unknown variant %q", c.Variant)
	}
	if c.VocabSize <= 0 {
		return fmt.Errorf("model: vocab_size must be positive, got %d", c.VocabSize)
	}
	if c.MaxLen <= 0 {
		return fmt.Errorf("model: max_len must be positive, got %d", c.MaxLen)
	}
	if c.EmbeddingSize <= 0 {
		return fmt.Errorf("model: embedding_size must be positive, got %d", c.EmbeddingSize)
	}
	return nil
}

// SimilarityModel is the dual-encoder duplicate-question classifier. Two
// structurally identical branches (one per question slot) share
// hyperparameters but not weights; their output vectors are combined by a
// dot product and squashed through a single logistic unit.
type SimilarityModel struct {
	config ModelConfig

	// Per-branch embedding tables, (vocab_size+2, embedding_size):
	// row 0 is the unknown token, rows 1..vocab_size are ranked tokens,
	// row vocab_size+1 is the padding sentinel.
	embedA *Tensor
	embedB *Tensor

	// Sequence encoders, nil for the embeddings-only variant.
	lstmA *LSTMCell
	lstmB *LSTMCell

	// Logistic head over the scalar dot product.
	headW *Tensor // (1)
	headB *Tensor // (1)

	frozen bool
}

// NewSimilarityModel builds a model from an immutable configuration.
// This is a pure builder: it allocates fresh weights every call and
// shares nothing with previously built models.
func NewSimilarityModel(cfg ModelConfig) (*SimilarityModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rows := cfg.VocabSize + 2 // unknown + ranked tokens + padding sentinel
	m := &SimilarityModel{
		config: cfg,
		embedA: NewTensorRand(0.02, rows, cfg.EmbeddingSize),
		embedB: NewTensorRand(0.02, rows, cfg.EmbeddingSize),
		headW:  NewTensorRand(0.02, 1),
		headB:  NewTensor(1),
	}

	if cfg.Variant == VariantSequenceEncoded {
		m.lstmA = NewLSTMCell(cfg.EmbeddingSize, cfg.LSTMSize)
		m.lstmB = NewLSTMCell(cfg.EmbeddingSize, cfg.LSTMSize)
	}

	return m, nil
}

// Config returns the model's immutable build configuration.
func (m *SimilarityModel) Config() ModelConfig {
	return m.config
}

// Frozen reports whether the model has left the training phase.
func (m *SimilarityModel) Frozen() bool {
	return m.frozen
}

// Freeze moves the model into the scoring phase. Irreversible.
func (m *SimilarityModel) Freeze() {
	m.frozen = true
}

// forwardCache stores the activations of one forward pass for Backward.
type forwardCache struct {
	q1, q2 []int

	// embeddings-only: flattened branch vectors
	u, v []float64

	// sequence-encoded: final hidden states and BPTT caches
	hA, hB         []float64
	lstmCA, lstmCB *lstmCache

	dot  float64
	prob float64
}

// Forward computes the duplicate probability for one padded pair.
// Both sequences must be exactly max_len long with IDs inside
// [0, vocab_size+1]; that is the pipeline's responsibility, and a
// violation is a programmer error.
func (m *SimilarityModel) Forward(q1, q2 []int) (float64, *forwardCache) {
	m.checkSequence(q1)
	m.checkSequence(q2)

	cache := &forwardCache{q1: q1, q2: q2}

	switch m.config.Variant {
	case VariantEmbeddingOnly:
		cache.u = m.flattenLookup(m.embedA, q1)
		cache.v = m.flattenLookup(m.embedB, q2)
		cache.dot = dotProduct(cache.u, cache.v)

	case VariantSequenceEncoded:
		cache.hA, cache.lstmCA = m.lstmA.Forward(m.lookup(m.embedA, q1))
		cache.hB, cache.lstmCB = m.lstmB.Forward(m.lookup(m.embedB, q2))
		cache.dot = dotProduct(cache.hA, cache.hB)
	}

	z := m.headW.data[0]*cache.dot + m.headB.data[0]
	cache.prob = sigmoid(z)
	return cache.prob, cache
}

// Predict is Forward without the cache, for scoring.
func (m *SimilarityModel) Predict(q1, q2 []int) float64 {
	p, _ := m.Forward(q1, q2)
	return p
}

// Backward accumulates gradients for one example given dLoss/dLogit
// (p - y for binary cross-entropy behind a sigmoid).
func (m *SimilarityModel) Backward(cache *forwardCache, dLogit float64) {
	m.headW.grad[0] += dLogit * cache.dot
	m.headB.grad[0] += dLogit
	dDot := dLogit * m.headW.data[0]

	switch m.config.Variant {
	case VariantEmbeddingOnly:
		E := m.config.EmbeddingSize
		for t, id := range cache.q1 {
			row := id * E
			for e := 0; e < E; e++ {
				m.embedA.grad[row+e] += dDot * cache.v[t*E+e]
			}
		}
		for t, id := range cache.q2 {
			row := id * E
			for e := 0; e < E; e++ {
				m.embedB.grad[row+e] += dDot * cache.u[t*E+e]
			}
		}

	case VariantSequenceEncoded:
		H := m.config.LSTMSize
		dhA := make([]float64, H)
		dhB := make([]float64, H)
		for j := 0; j < H; j++ {
			dhA[j] = dDot * cache.hB[j]
			dhB[j] = dDot * cache.hA[j]
		}

		dxsA := m.lstmA.Backward(dhA, cache.lstmCA)
		dxsB := m.lstmB.Backward(dhB, cache.lstmCB)
		m.scatterEmbedGrad(m.embedA, cache.q1, dxsA)
		m.scatterEmbedGrad(m.embedB, cache.q2, dxsB)
	}
}

// Parameters returns all trainable tensors.
func (m *SimilarityModel) Parameters() []*Tensor {
	params := []*Tensor{m.embedA, m.embedB}
	if m.config.Variant == VariantSequenceEncoded {
		params = append(params, m.lstmA.Parameters()...)
		params = append(params, m.lstmB.Parameters()...)
	}
	return append(params, m.headW, m.headB)
}

func (m *SimilarityModel) checkSequence(seq []int) {
	if len(seq) != m.config.MaxLen {
		panic(fmt.Sprintf("model: sequence length %d, want max_len %d", len(seq), m.config.MaxLen))
	}
	for t, id := range seq {
		if id < 0 || id > m.config.VocabSize+1 {
			panic(fmt.Sprintf("model: token id %d at position %d outside [0,%d]", id, t, m.config.VocabSize+1))
		}
	}
}

// lookup returns one embedding row per token. Rows are views into the
// table's data; callers must not mutate them.
func (m *SimilarityModel) lookup(table *Tensor, seq []int) [][]float64 {
	E := m.config.EmbeddingSize
	xs := make([][]float64, len(seq))
	for t, id := range seq {
		xs[t] = table.data[id*E : (id+1)*E]
	}
	return xs
}

// flattenLookup concatenates the embedding rows into one branch vector
// of length max_len*embedding_size.
func (m *SimilarityModel) flattenLookup(table *Tensor, seq []int) []float64 {
	E := m.config.EmbeddingSize
	out := make([]float64, len(seq)*E)
	for t, id := range seq {
		copy(out[t*E:(t+1)*E], table.data[id*E:(id+1)*E])
	}
	return out
}

func (m *SimilarityModel) scatterEmbedGrad(table *Tensor, seq []int, dxs [][]float64) {
	E := m.config.EmbeddingSize
	for t, id := range seq {
		row := id * E
		for e := 0; e < E; e++ {
			table.grad[row+e] += dxs[t][e]
		}
	}
}

func dotProduct(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("model: dot product of lengths %d and %d", len(a), len(b)))
	}
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// ===========================================================================
// Model Serialization
// ===========================================================================
//
// Format: a uint32 header length, a JSON-encoded ModelConfig, then every
// tensor's data as little-endian float64 in Parameters() order. Loading
// rebuilds the model from the config and reads the tensors back, so
// predictions round-trip exactly.

// Save writes the model to a file.
func (m *SimilarityModel) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("model: failed to create file: %w", err)
	}
	defer f.Close()

	header, err := json.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("model: failed to marshal config: %w", err)
	}

	if err := binary.Write(f, binary.LittleEndian, uint32(len(header))); err != nil {
		return fmt.Errorf("model: failed to write header length: %w", err)
	}
	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("model: failed to write header: %w", err)
	}

	for i, p := range m.Parameters() {
		if err := binary.Write(f, binary.LittleEndian, p.data); err != nil {
			return fmt.Errorf("model: failed to write parameter %d: %w", i, err)
		}
	}

	return nil
}

// LoadSimilarityModel reads a model previously written by Save.
// The returned model is frozen: it scores, it does not train.
func LoadSimilarityModel(filename string) (*SimilarityModel, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("model: failed to open file: %w", err)
	}
	defer f.Close()

	var headerLen uint32
	if err := binary.Read(f, binary.LittleEndian, &headerLen); err != nil {
		return nil, fmt.Errorf("model: failed to read header length: %w", err)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, fmt.Errorf("model: failed to read header: %w", err)
	}

	var cfg ModelConfig
	if err := json.Unmarshal(header, &cfg); err != nil {
		return nil, fmt.Errorf("model: failed to unmarshal config: %w", err)
	}

	m, err := NewSimilarityModel(cfg)
	if err != nil {
		return nil, err
	}

	for i, p := range m.Parameters() {
		if err := binary.Read(f, binary.LittleEndian, p.data); err != nil {
			return nil, fmt.Errorf("model: failed to read parameter %d: %w", i, err)
		}
	}

	m.frozen = true
	return m, nil
}
