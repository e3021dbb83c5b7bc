package vasm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newPlainDiagnostics(buf *bytes.Buffer) *Diagnostics {
	color.NoColor = true
	return NewDiagnostics(buf)
}

func TestErrorfFormatsLineAndColumn(t *testing.T) {
	var buf bytes.Buffer
	d := newPlainDiagnostics(&buf)

	d.Errorf(3, 7, "Label '%s' already exists", "loop")

	want := "Error (3,7): Label 'loop' already exists.\n"
	assert(t, buf.String() == want, "expected %q, got %q", want, buf.String())
	assert(t, d.HadError(), "expected HadError true after Errorf")
}

func TestWarningfSuppressedAfterError(t *testing.T) {
	var buf bytes.Buffer
	d := newPlainDiagnostics(&buf)

	d.Errorf(1, 1, "boom")
	buf.Reset()

	d.Warningf(2, 2, "should not appear")
	assert(t, buf.Len() == 0, "expected warning to be suppressed once an error was recorded, got %q", buf.String())
}

func TestEscaperRendersControlCharacters(t *testing.T) {
	var buf bytes.Buffer
	d := newPlainDiagnostics(&buf)

	d.Errorf(1, 1, "line one\nline two\ttabbed")

	assert(t, strings.Contains(buf.String(), `line one\nline two\ttabbed`), "expected escaped control characters, got %q", buf.String())
}
