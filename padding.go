package main

// Pad truncates or pads a token-ID sequence to exactly maxLen entries.
//
// Convention (fixed for both training and scoring):
//   - sequences longer than maxLen keep the tail and drop the front;
//   - shorter sequences are pre-padded, padValue entries first.
//
// Pad is pure: it never mutates its input and the same input always
// yields the same output. Padding an already-padded sequence is a no-op.
func Pad(seq []int, maxLen int, padValue int) []int {
	if maxLen <= 0 {
		panic("pad: maxLen must be positive")
	}

	out := make([]int, maxLen)

	if len(seq) >= maxLen {
		copy(out, seq[len(seq)-maxLen:])
		return out
	}

	offset := maxLen - len(seq)
	for i := 0; i < offset; i++ {
		out[i] = padValue
	}
	copy(out[offset:], seq)
	return out
}
