package main

import (
	"flag"

	"go.uber.org/zap"
)

// RunBenchmarkCommand fits the two-feature word-share logistic baseline
// and reports its validation loss and accuracy, the numbers the neural
// variants have to beat.
func RunBenchmarkCommand(args []string) error {
	fs := flag.NewFlagSet("benchmark", flag.ExitOnError)

	configPath := fs.String("config", "", "Optional YAML config file")
	dataPath := fs.String("data", "quora.tsv", "Question-pair TSV file")
	lr := fs.Float64("lr", 0.5, "Baseline learning rate")
	epochs := fs.Int("epochs", 200, "Baseline gradient-descent epochs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	records, err := LoadQuestionPairs(*dataPath)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", zap.Int("records", len(records)))

	vocab, err := FitVocabulary(UniqueQuestions(records), cfg.VocabSize)
	if err != nil {
		return err
	}

	trainRecs, valRecs, err := SplitRecords(records, cfg.ValFraction, cfg.Seed)
	if err != nil {
		return err
	}

	trainSet, droppedTrain := BaselineFeatures(trainRecs, vocab)
	valSet, droppedVal := BaselineFeatures(valRecs, vocab)
	logger.Info("features computed",
		zap.Int("train", len(trainSet)),
		zap.Int("val", len(valSet)),
		zap.Int("dropped_missing", droppedTrain+droppedVal))

	baseline, err := FitLogisticBaseline(trainSet, *lr, *epochs, cfg.Seed)
	if err != nil {
		return err
	}

	valLoss, valAcc, err := baseline.Evaluate(valSet)
	if err != nil {
		return err
	}
	logger.Info("baseline evaluated",
		zap.Float64("val_loss", valLoss),
		zap.Float64("val_accuracy", valAcc),
		zap.Float64("w1", baseline.W1),
		zap.Float64("w2", baseline.W2),
		zap.Float64("b", baseline.B))

	return nil
}
