package main

import (
	"errors"
	"strings"
	"testing"
)

const sampleTSV = `id	qid1	qid2	question1	question2	is_duplicate
0	1	2	What is the step by step guide to invest in share market in india?	What is the step by step guide to invest in share market?	0
1	3	4	How can I be a good geologist?	What should I do to be a great geologist?	1
2	5	6	What is R?	what is r	1
`

func TestReadQuestionPairs(t *testing.T) {
	records, err := ReadQuestionPairs(strings.NewReader(sampleTSV))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != 0 || first.QID1 != 1 || first.QID2 != 2 {
		t.Errorf("unexpected ids: %+v", first)
	}
	if first.IsDuplicate {
		t.Error("first record should not be a duplicate")
	}
	if !records[1].IsDuplicate {
		t.Error("second record should be a duplicate")
	}
	if records[2].Question1 != "What is R?" {
		t.Errorf("unexpected question1: %q", records[2].Question1)
	}
}

func TestReadQuestionPairsSchemaErrors(t *testing.T) {
	cases := []struct {
		name string
		tsv  string
	}{
		{"wrong column count", "0\t1\t2\tq1\tq2\n"},
		{"bad id", "x\t1\t2\tq1\tq2\t0\n"},
		{"bad label", "0\t1\t2\tq1\tq2\tmaybe\n"},
		{"empty input", ""},
		{"header only", "id\tqid1\tqid2\tquestion1\tquestion2\tis_duplicate\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadQuestionPairs(strings.NewReader(tc.tsv))
			if !errors.Is(err, ErrSchema) {
				t.Errorf("expected ErrSchema, got %v", err)
			}
		})
	}
}

func TestUniqueQuestions(t *testing.T) {
	records := []QuestionPairRecord{
		{Question1: "a", Question2: "b"},
		{Question1: "b", Question2: "c"},
		{Question1: "a", Question2: "a"},
	}

	pool := UniqueQuestions(records)
	if len(pool) != 3 {
		t.Fatalf("expected 3 unique questions, got %d", len(pool))
	}
	want := []string{"a", "b", "c"} // first-appearance order
	for i := range want {
		if pool[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, pool[i], want[i])
		}
	}
}

func TestSplitRecords(t *testing.T) {
	records := make([]QuestionPairRecord, 100)
	for i := range records {
		records[i].ID = i
	}

	train, val, err := SplitRecords(records, 0.2, 7)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(train) != 80 || len(val) != 20 {
		t.Errorf("split sizes %d/%d, want 80/20", len(train), len(val))
	}

	// Same seed, same split.
	train2, val2, err := SplitRecords(records, 0.2, 7)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	for i := range val {
		if val[i].ID != val2[i].ID {
			t.Fatal("split is not deterministic for a fixed seed")
		}
	}
	_ = train2

	seen := make(map[int]bool)
	for _, r := range train {
		seen[r.ID] = true
	}
	for _, r := range val {
		if seen[r.ID] {
			t.Fatalf("record %d appears in both train and val", r.ID)
		}
	}

	if _, _, err := SplitRecords(records, 1.5, 7); err == nil {
		t.Error("expected error for out-of-range fraction")
	}
}
