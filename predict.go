package main

import "fmt"

// PredictQuestionPair scores a raw question pair with a frozen model,
// applying the same normalize/encode/pad pipeline used at training time.
//
// The vocabulary must be the one the model was trained with: its
// fingerprint is checked against the one recorded in the model header,
// and a mismatch is a caller contract violation, not a degraded
// prediction.
func PredictQuestionPair(model *SimilarityModel, vocab *Vocabulary, q1, q2 string) (float64, error) {
	cfg := model.Config()

	if vocab.Fingerprint() != cfg.VocabFingerprint {
		return 0, fmt.Errorf("predict: %w", ErrVocabularyMismatch)
	}
	if vocab.Cap() != cfg.VocabSize {
		return 0, fmt.Errorf("predict: vocabulary cap %d does not match model vocab_size %d: %w",
			vocab.Cap(), cfg.VocabSize, ErrVocabularyMismatch)
	}

	padID := vocab.PadID()
	seq1 := Pad(vocab.Encode(q1), cfg.MaxLen, padID)
	seq2 := Pad(vocab.Encode(q2), cfg.MaxLen, padID)

	return model.Predict(seq1, seq2), nil
}
