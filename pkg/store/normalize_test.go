package store

import (
	"reflect"
	"testing"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "HAZMAT Suit", "hazmat suit"},
		{"strips punctuation", "Epinephrine 1:10000", "epinephrine 1 10000"},
		{"keeps digits distinct", "Epinephrine 1:1000", "epinephrine 1 1000"},
		{"collapses whitespace", "  chemical \t spill \n protocol ", "chemical spill protocol"},
		{"hyphens become spaces", "staff-role", "staff role"},
		{"empty", "", ""},
		{"punctuation only", "::--!!", ""},
		{"mixed unicode", "Söfort-Hilfe", "söfort hilfe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTerm(tt.input); got != tt.want {
				t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTermDistinguishesDilutions(t *testing.T) {
	a := NormalizeTerm("Epinephrine 1:10000")
	b := NormalizeTerm("Epinephrine 1:1000")
	if a == b {
		t.Fatalf("dilutions must not normalize identically: %q", a)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Chemical Spill  Protocol!")
	want := []string{"chemical", "spill", "protocol"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}

	if Tokenize("") != nil {
		t.Error("Tokenize(\"\") must be nil")
	}
	if Tokenize("!!!") != nil {
		t.Error("Tokenize on punctuation-only input must be nil")
	}
}
