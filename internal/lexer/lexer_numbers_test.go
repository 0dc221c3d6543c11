package lexer

import (
	"testing"

	"github.com/qbi-lang/qbi/pkg/token"
)

func TestReadDecimalDigits(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123", "123"},
		{"3.14", "3.14"},
		{"0.5", "0.5"},
		{"1E10", "1E10"},
		{"1.5E-3", "1.5E-3"},
		{"2D+4", "2D+4"},
	}
	for _, tt := range tests {
		tz := New(tt.input)
		tok, ok, err := tz.Read()
		if err != nil || !ok {
			t.Fatalf("%q: unexpected read failure: ok=%v err=%v", tt.input, ok, err)
		}
		if tok.Kind != token.Digits || tok.Text != tt.want {
			t.Errorf("%q: got (%q, %s), want (%q, digits)", tt.input, tok.Text, tok.Kind, tt.want)
		}
	}
}

func TestReadHexAndOctalDigits(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"&HFF", token.HexDigits},
		{"&hff", token.HexDigits},
		{"&O17", token.OctDigits},
		{"&o17", token.OctDigits},
	}
	for _, tt := range tests {
		tz := New(tt.input)
		tok, ok, err := tz.Read()
		if err != nil || !ok {
			t.Fatalf("%q: unexpected read failure: ok=%v err=%v", tt.input, ok, err)
		}
		if tok.Kind != tt.kind || tok.Text != tt.input {
			t.Errorf("%q: got (%q, %s), want (%q, %s)", tt.input, tok.Text, tok.Kind, tt.input, tt.kind)
		}
	}
}

func TestTrailingDotWithNoFractionalDigitsIsNotPartOfTheNumber(t *testing.T) {
	// A bare "." after digits with nothing following never becomes
	// Positive for the digits recognizer (it requires at least one
	// fractional digit), so the longest match is just the integer part;
	// the dot is left for the next read.
	toks := readAll(t, "3.")
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2: %+v", len(toks), toks)
	}
	if toks[0].Kind != token.Digits || toks[0].Text != "3" {
		t.Errorf("token 0: got (%q, %s), want (\"3\", digits)", toks[0].Text, toks[0].Kind)
	}
	if toks[1].Kind != token.Dot {
		t.Errorf("token 1: got %s, want dot", toks[1].Kind)
	}
}
