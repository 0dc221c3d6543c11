package lexer

import "testing"

func TestReadUnrecognizedTokenIsAnError(t *testing.T) {
	tz := New("@")
	_, ok, err := tz.Read()
	if ok {
		t.Fatalf("expected failure, got ok=true")
	}
	if err == nil {
		t.Fatal("expected a lex error, got nil")
	}
	lexErr, isLexErr := err.(*Error)
	if !isLexErr {
		t.Fatalf("got error of type %T, want *lexer.Error", err)
	}
	if lexErr.Pos.Row != 1 || lexErr.Pos.Col != 1 {
		t.Errorf("got pos %+v, want {1 1}", lexErr.Pos)
	}
}

func TestReadAtCleanEOFReturnsNoErrorAndNotOK(t *testing.T) {
	tz := New("")
	tok, ok, err := tz.Read()
	if ok || err != nil {
		t.Fatalf("got ok=%v err=%v, want ok=false err=nil", ok, err)
	}
	if tok.Text != "" {
		t.Errorf("got non-empty token %+v at EOF", tok)
	}
}

func TestUnterminatedQuotedStringIsUnrecognized(t *testing.T) {
	tz := New(`"unterminated`)
	_, ok, err := tz.Read()
	if ok || err == nil {
		t.Fatalf("got ok=%v err=%v, want an unrecognized-token error", ok, err)
	}
}
