package vasm

import "strconv"

// cursorState is the scanner's whole position: byte offset, line/column,
// and the latched line/column a diagnostic should anchor to. It is saved
// and restored wholesale when entering and leaving a macro body (see
// state.go).
type cursorState struct {
	pos, line, char      int
	startLine, startChar int
}

// scanner walks the source text one byte at a time, tracking line and
// column for diagnostics. In macroMode, '}' acts as a synthetic
// end-of-input so a nested scan of a macro body can't run past its
// closing brace.
type scanner struct {
	src []byte
	cursorState
	macroMode bool
}

func newScanner(src []byte) *scanner {
	return &scanner{src: src, cursorState: cursorState{line: 1, char: 1}}
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

// peek returns the byte at the cursor, or 0 past the end of the source.
func (s *scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) atEnd() bool {
	if s.macroMode && s.peek() == '}' {
		return true
	}
	return s.pos >= len(s.src)
}

// advance returns the current character and moves the cursor forward one
// byte. At true end-of-input it returns the sentinel zero byte without
// moving the cursor.
func (s *scanner) advance() byte {
	c := s.peek()
	if s.pos < len(s.src) {
		s.pos++
		if c == '\n' {
			s.line++
			s.char = 1
		} else {
			s.char++
		}
	}
	return c
}

// setStart latches the current line/column as the anchor for the next
// diagnostic raised while scanning the token that starts here.
func (s *scanner) setStart() {
	s.startLine, s.startChar = s.line, s.char
}

func (s *scanner) skipWhitespace() {
	for !s.atEnd() && isWhitespace(s.peek()) {
		s.advance()
	}
}

func (s *scanner) skipComment() error {
	for {
		if s.atEnd() {
			return errMissingCloseParen
		}
		if s.advance() == ')' {
			return nil
		}
	}
}

// scanIdentifier returns the maximal run of non-whitespace bytes at the
// cursor, or "" if the cursor is already at whitespace or end-of-input.
func (s *scanner) scanIdentifier() string {
	if s.atEnd() || isWhitespace(s.peek()) {
		return ""
	}
	start := s.pos
	for !s.atEnd() && !isWhitespace(s.peek()) {
		s.advance()
	}
	return string(s.src[start:s.pos])
}

func (s *scanner) scanHexRun() string {
	start := s.pos
	for !s.atEnd() && isHexDigit(s.peek()) {
		s.advance()
	}
	return string(s.src[start:s.pos])
}

// scanNumber consumes a maximal run of lowercase hex digits and returns up
// to two encoded bytes. In literal mode the encoded width is chosen by
// digit count: 1-2 digits make one byte, 3-4 make two, 5+ is an error. In
// non-literal (padding) mode the width is chosen by value instead: values
// under 0x100 fit one byte, under 0x10000 fit two.
func (s *scanner) scanNumber(literalMode bool) (hi, lo byte, nbytes int, err error) {
	digits := s.scanHexRun()
	if len(digits) == 0 {
		return 0, 0, 0, errMissingNumber
	}

	if literalMode {
		switch {
		case len(digits) <= 2:
			v, _ := strconv.ParseUint(digits, 16, 8)
			return byte(v), 0, 1, nil
		case len(digits) <= 4:
			v, _ := strconv.ParseUint(digits, 16, 16)
			return byte(v >> 8), byte(v), 2, nil
		default:
			return 0, 0, 0, errNumberTooBig
		}
	}

	v, perr := strconv.ParseUint(digits, 16, 32)
	if perr != nil {
		return 0, 0, 0, errNumberTooBig
	}
	switch {
	case v < 0x100:
		return byte(v), 0, 1, nil
	case v < 0x10000:
		return byte(v >> 8), byte(v), 2, nil
	default:
		return 0, 0, 0, errNumberTooBig
	}
}
