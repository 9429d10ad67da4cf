package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
)

// ErrSchema indicates the input file does not match the expected
// six-column question-pair layout. Schema errors are fatal and abort
// before any modeling step.
var ErrSchema = errors.New("dataset: input does not match expected schema")

// QuestionPairRecord is one row of the question-pair dataset.
// Records are immutable once loaded.
type QuestionPairRecord struct {
	ID          int
	QID1        int
	QID2        int
	Question1   string
	Question2   string
	IsDuplicate bool
}

// LoadQuestionPairs reads a tab-separated question-pair file with columns
// (id, qid1, qid2, question1, question2, is_duplicate). A header row is
// detected by its first field being "id" and skipped. Any row with the
// wrong column count or an unparsable field is a schema error.
func LoadQuestionPairs(filename string) ([]QuestionPairRecord, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to open %s: %w", filename, err)
	}
	defer f.Close()

	return ReadQuestionPairs(f)
}

// ReadQuestionPairs parses question-pair records from a TSV stream.
func ReadQuestionPairs(r io.Reader) ([]QuestionPairRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = 6
	reader.LazyQuotes = true

	var records []QuestionPairRecord
	line := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSchema, line+1, err)
		}
		line++

		// Header row
		if line == 1 && row[0] == "id" {
			continue
		}

		rec, err := parsePairRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSchema, line, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrSchema)
	}

	return records, nil
}

func parsePairRow(row []string) (QuestionPairRecord, error) {
	var rec QuestionPairRecord
	var err error

	if rec.ID, err = strconv.Atoi(row[0]); err != nil {
		return rec, fmt.Errorf("bad id %q", row[0])
	}
	if rec.QID1, err = strconv.Atoi(row[1]); err != nil {
		return rec, fmt.Errorf("bad qid1 %q", row[1])
	}
	if rec.QID2, err = strconv.Atoi(row[2]); err != nil {
		return rec, fmt.Errorf("bad qid2 %q", row[2])
	}
	rec.Question1 = row[3]
	rec.Question2 = row[4]

	switch row[5] {
	case "0":
		rec.IsDuplicate = false
	case "1":
		rec.IsDuplicate = true
	default:
		return rec, fmt.Errorf("bad is_duplicate %q", row[5])
	}

	return rec, nil
}

// UniqueQuestions returns the pool of distinct question strings across
// both question slots, in first-appearance order. The vocabulary is fit
// on this pool so that repeated questions do not skew token frequencies.
func UniqueQuestions(records []QuestionPairRecord) []string {
	seen := make(map[string]bool, len(records)*2)
	pool := make([]string, 0, len(records)*2)

	for _, rec := range records {
		for _, q := range [2]string{rec.Question1, rec.Question2} {
			if !seen[q] {
				seen[q] = true
				pool = append(pool, q)
			}
		}
	}

	return pool
}

// SplitRecords shuffles records with the given seed and splits them into
// train and validation sets. valFraction must lie in (0, 1).
func SplitRecords(records []QuestionPairRecord, valFraction float64, seed int64) (train, val []QuestionPairRecord, err error) {
	if valFraction <= 0 || valFraction >= 1 {
		return nil, nil, fmt.Errorf("dataset: validation fraction must be in (0,1), got %g", valFraction)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("dataset: need at least 2 records to split, got %d", len(records))
	}

	shuffled := make([]QuestionPairRecord, len(records))
	copy(shuffled, records)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nVal := int(float64(len(shuffled)) * valFraction)
	if nVal == 0 {
		nVal = 1
	}
	if nVal == len(shuffled) {
		nVal = len(shuffled) - 1
	}

	return shuffled[nVal:], shuffled[:nVal], nil
}
