package main

import (
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"What is R?", "what is r"},
		{"  Hello,   World!  ", "hello world"},
		{"don't panic", "don t panic"},
		{"café", "café"},
		{"１２３", "123"}, // full-width digits fold under NFKC
		{"???", ""},
	}

	for _, tc := range cases {
		got := normalizeText(tc.in)
		// Collapse runs of spaces for comparison; Fields handles them.
		gotFields := strings.Join(strings.Fields(got), " ")
		if gotFields != tc.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tc.in, gotFields, tc.want)
		}
	}
}

func TestTokenizeText(t *testing.T) {
	toks := tokenizeText("How do magnets work?")
	want := []string{"how", "do", "magnets", "work"}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, toks[i], want[i])
		}
	}

	if toks := tokenizeText("!!!"); toks != nil {
		t.Errorf("punctuation-only text should yield nil, got %v", toks)
	}
}
