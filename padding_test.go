package main

import "testing"

func TestPadShortSequence(t *testing.T) {
	got := Pad([]int{5, 9, 2}, 5, 99)
	want := []int{99, 99, 5, 9, 2}

	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPadAlwaysFixedLength(t *testing.T) {
	cases := []struct {
		name string
		seq  []int
	}{
		{"empty", nil},
		{"shorter", []int{1}},
		{"exact", []int{1, 2, 3, 4}},
		{"longer", []int{1, 2, 3, 4, 5, 6, 7}},
	}

	const maxLen = 4
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Pad(tc.seq, maxLen, 0); len(got) != maxLen {
				t.Errorf("len(Pad(%v)) = %d, want %d", tc.seq, len(got), maxLen)
			}
		})
	}
}

func TestPadTruncatesFromFront(t *testing.T) {
	// Longer sequences keep the tail.
	got := Pad([]int{1, 2, 3, 4, 5}, 3, 0)
	want := []int{3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPadIdempotent(t *testing.T) {
	once := Pad([]int{7, 8}, 6, 42)
	twice := Pad(once, 6, 42)

	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("padding is not idempotent at %d: %d vs %d", i, once[i], twice[i])
		}
	}
}

func TestPadDoesNotMutateInput(t *testing.T) {
	seq := []int{1, 2, 3}
	_ = Pad(seq, 5, 0)

	for i, want := range []int{1, 2, 3} {
		if seq[i] != want {
			t.Errorf("input mutated at %d: got %d, want %d", i, seq[i], want)
		}
	}
}

func BenchmarkPad(b *testing.B) {
	seq := []int{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Pad(seq, 25, 100)
	}
}
