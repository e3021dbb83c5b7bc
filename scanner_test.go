package vasm

import (
	"fmt"
	"testing"
)

func assert(t *testing.T, cond bool, format string, args ...interface{}) {
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func TestScannerAdvanceTracksLineAndColumn(t *testing.T) {
	s := newScanner([]byte("ab\ncd"))
	assert(t, s.line == 1 && s.char == 1, "expected start at (1,1)")

	s.advance() // 'a'
	assert(t, s.char == 2, "expected char 2 after one advance, got %d", s.char)

	s.advance() // 'b'
	s.advance() // '\n'
	assert(t, s.line == 2 && s.char == 1, "expected (2,1) after newline, got (%d,%d)", s.line, s.char)
}

func TestScannerAtEndRespectsMacroMode(t *testing.T) {
	s := newScanner([]byte("abc}def"))
	s.pos = 3
	assert(t, !s.atEnd(), "not in macro mode, '}' should not signal end")

	s.macroMode = true
	assert(t, s.atEnd(), "in macro mode, '}' should signal end")
}

func TestScanIdentifierStopsAtWhitespace(t *testing.T) {
	s := newScanner([]byte("DUP2k next"))
	ident := s.scanIdentifier()
	assert(t, ident == "DUP2k", "expected DUP2k, got %q", ident)
	assert(t, s.peek() == ' ', "expected cursor on trailing space")
}

func TestSkipCommentConsumesToClosingParen(t *testing.T) {
	s := newScanner([]byte("( a comment ) rest"))
	s.advance() // consume '('
	err := s.skipComment()
	assert(t, err == nil, "expected no error, got %v", err)
	assert(t, s.peek() == ' ', "expected cursor just past ')'")
}

func TestSkipCommentUnterminatedIsError(t *testing.T) {
	s := newScanner([]byte("( never closed"))
	s.advance()
	err := s.skipComment()
	assert(t, err == errMissingCloseParen, "expected errMissingCloseParen, got %v", err)
}

func TestScanNumberLiteralModeWidthByDigitCount(t *testing.T) {
	s := newScanner([]byte("01"))
	hi, _, n, err := s.scanNumber(true)
	assert(t, err == nil && n == 1 && hi == 0x01, "expected one byte 0x01, got %d bytes hi=%x err=%v", n, hi, err)

	s = newScanner([]byte("0001"))
	hi, lo, n, err := s.scanNumber(true)
	assert(t, err == nil && n == 2 && hi == 0x00 && lo == 0x01, "expected two bytes 00 01, got hi=%x lo=%x n=%d err=%v", hi, lo, n, err)

	s = newScanner([]byte("00001"))
	_, _, _, err = s.scanNumber(true)
	assert(t, err == errNumberTooBig, "expected errNumberTooBig, got %v", err)
}

func TestScanNumberPaddingModeWidthByValue(t *testing.T) {
	s := newScanner([]byte("ff"))
	hi, _, n, err := s.scanNumber(false)
	assert(t, err == nil && n == 1 && hi == 0xff, "expected one byte 0xff, got n=%d hi=%x err=%v", n, hi, err)

	s = newScanner([]byte("100"))
	hi, lo, n, err := s.scanNumber(false)
	assert(t, err == nil && n == 2 && hi == 0x01 && lo == 0x00, "expected two bytes 01 00, got hi=%x lo=%x n=%d err=%v", hi, lo, n, err)
}

func TestScanNumberMissingDigitsIsError(t *testing.T) {
	s := newScanner([]byte(" rest"))
	_, _, _, err := s.scanNumber(true)
	assert(t, err == errMissingNumber, "expected errMissingNumber, got %v", err)
}
