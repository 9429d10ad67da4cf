package main

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Reserved token IDs. Rank 0 is the unknown/out-of-vocabulary value;
// the padding sentinel sits one past the highest rank so it never
// collides with a real token.
const UnknownTokenID = 0

var (
	// ErrEmptyCorpus indicates FitVocabulary was called with no usable text.
	ErrEmptyCorpus = errors.New("vocab: corpus is empty")

	// ErrVocabularyMismatch indicates a vocabulary other than the one the
	// model was trained with was supplied at scoring time.
	ErrVocabularyMismatch = errors.New("vocab: fingerprint does not match the one recorded at training time")
)

// Vocabulary maps normalized word tokens to dense integer ranks in
// [1, Cap], assigned by descending corpus frequency. It is built once by
// FitVocabulary and frozen thereafter; Encode never mutates it.
type Vocabulary struct {
	ranks map[string]int // token -> rank in [1, cap]
	cap   int            // configured maximum vocabulary size
}

// FitVocabulary scans a corpus of question strings and builds a
// frequency-ranked vocabulary capped at vocabSize entries.
//
// Ties in frequency are broken by first-seen corpus order, which makes
// the fit deterministic for a fixed corpus. Tokens ranked beyond the cap
// are excluded and encode to UnknownTokenID.
func FitVocabulary(corpus []string, vocabSize int) (*Vocabulary, error) {
	if vocabSize <= 0 {
		return nil, fmt.Errorf("vocab: vocab size must be positive, got %d", vocabSize)
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, text := range corpus {
		for _, tok := range tokenizeText(text) {
			if _, seen := counts[tok]; !seen {
				firstSeen[tok] = order
				order++
			}
			counts[tok]++
		}
	}

	if len(counts) == 0 {
		return nil, ErrEmptyCorpus
	}

	tokens := make([]string, 0, len(counts))
	for tok := range counts {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return firstSeen[tokens[i]] < firstSeen[tokens[j]]
	})

	if len(tokens) > vocabSize {
		tokens = tokens[:vocabSize]
	}

	ranks := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		ranks[tok] = i + 1 // ranks are dense in [1, vocabSize]
	}

	return &Vocabulary{ranks: ranks, cap: vocabSize}, nil
}

// Encode maps text to a sequence of token ranks, with UnknownTokenID for
// tokens absent from the vocabulary. Pure: never mutates the vocabulary.
func (v *Vocabulary) Encode(text string) []int {
	toks := tokenizeText(text)
	ids := make([]int, 0, len(toks))
	for _, tok := range toks {
		ids = append(ids, v.ranks[tok]) // missing tokens map to 0
	}
	return ids
}

// Len returns the number of ranked tokens (at most Cap).
func (v *Vocabulary) Len() int {
	return len(v.ranks)
}

// Cap returns the configured maximum vocabulary size.
func (v *Vocabulary) Cap() int {
	return v.cap
}

// PadID returns the padding sentinel, one past the highest possible rank.
func (v *Vocabulary) PadID() int {
	return v.cap + 1
}

// Fingerprint returns an FNV-1a hash over the rank-ordered token mapping
// and the cap. Two vocabularies with the same fingerprint encode every
// text identically, so the model header stores this value and scoring
// verifies it.
func (v *Vocabulary) Fingerprint() uint64 {
	type entry struct {
		tok  string
		rank int
	}
	entries := make([]entry, 0, len(v.ranks))
	for tok, rank := range v.ranks {
		entries = append(entries, entry{tok, rank})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].rank < entries[j].rank })

	h := fnv.New64a()
	fmt.Fprintf(h, "cap=%d\n", v.cap)
	for _, e := range entries {
		fmt.Fprintf(h, "%s\t%d\n", e.tok, e.rank)
	}
	return h.Sum64()
}

// Save writes the vocabulary to a file as rank-ordered "token<TAB>rank"
// lines under a small header. The format is deterministic: saving the
// same vocabulary twice produces identical bytes.
func (v *Vocabulary) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("vocab: failed to create file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if _, err := fmt.Fprintf(w, "VOCABULARY\ncap\t%d\n", v.cap); err != nil {
		return fmt.Errorf("vocab: failed to write header: %w", err)
	}

	type entry struct {
		tok  string
		rank int
	}
	entries := make([]entry, 0, len(v.ranks))
	for tok, rank := range v.ranks {
		entries = append(entries, entry{tok, rank})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].rank < entries[j].rank })

	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", e.tok, e.rank); err != nil {
			return fmt.Errorf("vocab: failed to write entry: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("vocab: failed to flush writer: %w", err)
	}
	return nil
}

// LoadVocabulary reads a vocabulary previously written by Save.
// The token->rank mapping round-trips exactly.
func LoadVocabulary(filename string) (*Vocabulary, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("vocab: failed to open file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	if !scanner.Scan() || scanner.Text() != "VOCABULARY" {
		return nil, fmt.Errorf("vocab: invalid header in %s", filename)
	}
	if !scanner.Scan() {
		return nil, fmt.Errorf("vocab: missing cap line in %s", filename)
	}
	capParts := strings.Split(scanner.Text(), "\t")
	if len(capParts) != 2 || capParts[0] != "cap" {
		return nil, fmt.Errorf("vocab: malformed cap line %q", scanner.Text())
	}
	vocabCap, err := strconv.Atoi(capParts[1])
	if err != nil {
		return nil, fmt.Errorf("vocab: failed to parse cap: %w", err)
	}

	ranks := make(map[string]int)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 2 {
			return nil, fmt.Errorf("vocab: malformed entry %q", line)
		}
		rank, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("vocab: failed to parse rank in %q: %w", line, err)
		}
		if rank < 1 || rank > vocabCap {
			return nil, fmt.Errorf("vocab: rank %d out of range [1,%d]", rank, vocabCap)
		}
		ranks[parts[0]] = rank
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vocab: error reading file: %w", err)
	}

	return &Vocabulary{ranks: ranks, cap: vocabCap}, nil
}
