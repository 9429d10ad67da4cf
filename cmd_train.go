package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"
)

// RunTrainCommand implements the training CLI. It runs the whole
// pipeline: load TSV -> fit vocabulary on the unique-question pool ->
// encode and pad -> split -> build the dual encoder -> train with early
// stopping -> save vocabulary and model artifacts.
func RunTrainCommand(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)

	configPath := fs.String("config", "", "Optional YAML config file (fields override defaults)")
	dataPath := fs.String("data", "quora.tsv", "Question-pair TSV file")
	modelPath := fs.String("model", "model.bin", "Output model path")
	vocabPath := fs.String("vocab", "vocab.txt", "Output vocabulary path")
	useLSTM := fs.Bool("lstm", false, "Use the sequence-encoded (LSTM) variant")
	epochs := fs.Int("epochs", 0, "Override configured epoch count (0 = keep config)")

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
	if *useLSTM {
		cfg.UseLSTM = true
	}
	if *epochs > 0 {
		cfg.Epochs = *epochs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("loading dataset", zap.String("path", *dataPath))
	records, err := LoadQuestionPairs(*dataPath)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", zap.Int("records", len(records)))

	pool := UniqueQuestions(records)
	logger.Info("fitting vocabulary",
		zap.Int("unique_questions", len(pool)),
		zap.Int("vocab_size", cfg.VocabSize))
	vocab, err := FitVocabulary(pool, cfg.VocabSize)
	if err != nil {
		return err
	}
	logger.Info("vocabulary fit", zap.Int("ranked_tokens", vocab.Len()))

	trainRecs, valRecs, err := SplitRecords(records, cfg.ValFraction, cfg.Seed)
	if err != nil {
		return err
	}
	trainSet := BuildExamples(trainRecs, vocab, cfg.MaxLen)
	valSet := BuildExamples(valRecs, vocab, cfg.MaxLen)
	logger.Info("examples built",
		zap.Int("train", len(trainSet)),
		zap.Int("val", len(valSet)),
		zap.Float64("majority_baseline", majorityBaselineAccuracy(valSet)))

	variant := VariantEmbeddingOnly
	if cfg.UseLSTM {
		variant = VariantSequenceEncoded
	}
	model, err := NewSimilarityModel(ModelConfig{
		Variant:          variant,
		VocabSize:        cfg.VocabSize,
		MaxLen:           cfg.MaxLen,
		EmbeddingSize:    cfg.EmbeddingSize,
		LSTMSize:         cfg.LSTMSize,
		VocabFingerprint: vocab.Fingerprint(),
	})
	if err != nil {
		return err
	}
	logger.Info("model built",
		zap.String("variant", string(variant)),
		zap.Int("parameters", countParameters(model.Parameters())))

	report, err := TrainModel(model, trainSet, valSet, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("training finished",
		zap.Int("best_epoch", report.BestEpoch),
		zap.Float64("best_val_loss", report.BestValLoss),
		zap.Float64("best_val_accuracy", report.BestValAccuracy),
		zap.Bool("early_stopped", report.EarlyStopped))

	if err := vocab.Save(*vocabPath); err != nil {
		return err
	}
	if err := model.Save(*modelPath); err != nil {
		return err
	}
	logger.Info("artifacts saved",
		zap.String("model", *modelPath),
		zap.String("vocab", *vocabPath))

	fmt.Println()
	fmt.Println("Training complete! Try:")
	fmt.Printf("  go run . predict -model=%s -vocab=%s -q1=\"...\" -q2=\"...\"\n", *modelPath, *vocabPath)
	fmt.Printf("  go run . serve -model=%s -vocab=%s\n", *modelPath, *vocabPath)

	return nil
}
