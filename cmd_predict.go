package main

import (
	"flag"
	"fmt"
)

// RunPredictCommand loads saved artifacts and scores one question pair.
func RunPredictCommand(args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)

	modelPath := fs.String("model", "model.bin", "Trained model path")
	vocabPath := fs.String("vocab", "vocab.txt", "Vocabulary path")
	q1 := fs.String("q1", "", "First question")
	q2 := fs.String("q2", "", "Second question")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *q1 == "" || *q2 == "" {
		return fmt.Errorf("predict: both -q1 and -q2 are required")
	}

	vocab, err := LoadVocabulary(*vocabPath)
	if err != nil {
		return err
	}
	model, err := LoadSimilarityModel(*modelPath)
	if err != nil {
		return err
	}

	prob, err := PredictQuestionPair(model, vocab, *q1, *q2)
	if err != nil {
		return err
	}

	fmt.Printf("duplicate probability: %.4f\n", prob)
	return nil
}
