package vasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Diagnostics accumulates error and warning messages produced while
// assembling a program. Once any error has been reported, further
// warnings are suppressed: once assembly is doomed to fail there is
// nothing to gain from also flagging lint-level warnings.
type Diagnostics struct {
	w        io.Writer
	hadError bool

	errTag  *color.Color
	warnTag *color.Color
}

// NewDiagnostics builds a Diagnostics that writes to w. Error/Warning
// tags are colorized when standard output is a terminal (fatih/color
// detects this itself via NO_COLOR and isatty on os.Stdout, whatever w
// is) and left as plain text otherwise, so piping the CLI's output to a
// file or another tool never embeds escape codes.
func NewDiagnostics(w io.Writer) *Diagnostics {
	return &Diagnostics{
		w:       w,
		errTag:  color.New(color.FgRed, color.Bold),
		warnTag: color.New(color.FgYellow, color.Bold),
	}
}

// escaper renders control characters that would otherwise break a
// single-line diagnostic into their two-character escape form.
var escaper = strings.NewReplacer("\n", `\n`, "\t", `\t`, "\r", `\r`)

// Errorf reports an error at (line, col). The message is rendered as
// "Error (<line>,<col>): <message>." with embedded newlines/tabs/carriage
// returns escaped.
func (d *Diagnostics) Errorf(line, col int, format string, args ...interface{}) {
	msg := escaper.Replace(fmt.Sprintf(format, args...))
	fmt.Fprintf(d.w, "%s (%d,%d): %s.\n", d.errTag.Sprint("Error"), line, col, msg)
	d.hadError = true
}

// Warningf reports a warning, unless an error has already been reported
// this run.
func (d *Diagnostics) Warningf(line, col int, format string, args ...interface{}) {
	if d.hadError {
		return
	}
	msg := escaper.Replace(fmt.Sprintf(format, args...))
	fmt.Fprintf(d.w, "%s (%d,%d): %s.\n", d.warnTag.Sprint("Warning"), line, col, msg)
}

// HadError reports whether any error has been recorded so far.
func (d *Diagnostics) HadError() bool {
	return d.hadError
}
