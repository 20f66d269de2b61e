// Package output provides output formatting for WageTrack.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Format selects how command output is rendered.
type Format string

const (
	FormatCLI   Format = "cli"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

// ColorMode selects whether styled output uses color.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Formatter is the shared output sink for commands. Writer defaults to
// stdout; tests point it at a buffer.
type Formatter struct {
	Writer    io.Writer
	Format    Format
	ColorMode ColorMode
}

// NewFormatter returns a formatter with CLI rendering on stdout.
func NewFormatter() *Formatter {
	return &Formatter{
		Writer:    os.Stdout,
		Format:    FormatCLI,
		ColorMode: ColorAuto,
	}
}

// IsColorEnabled resolves the color mode, probing the terminal in auto.
func (f *Formatter) IsColorEnabled() bool {
	switch f.ColorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if w, ok := f.Writer.(*os.File); ok {
		return isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
	}
	return false
}

// Print writes to the output sink.
func (f *Formatter) Print(a ...interface{}) {
	fmt.Fprint(f.Writer, a...)
}

// Println writes a line to the output sink.
func (f *Formatter) Println(a ...interface{}) {
	fmt.Fprintln(f.Writer, a...)
}

// Printf writes formatted text to the output sink.
func (f *Formatter) Printf(format string, a ...interface{}) {
	fmt.Fprintf(f.Writer, format, a...)
}

// JSON writes v as indented JSON.
func (f *Formatter) JSON(v interface{}) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatMoney formats a currency amount.
func FormatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// FormatHours formats decimal hours.
func FormatHours(v float64) string {
	return fmt.Sprintf("%.2fh", v)
}

// FormatRate formats an hourly rate.
func FormatRate(v float64) string {
	return fmt.Sprintf("$%.2f/h", v)
}

// FormatAge formats how long ago a timestamp was, for sync status lines.
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh %dm ago", int(d.Hours()), int(d.Minutes())%60)
	default:
		return t.Local().Format("2006-01-02 15:04")
	}
}

// FormatTime formats a time in local timezone.
func FormatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// FormatDate formats a date only.
func FormatDate(t time.Time) string {
	return t.Local().Format("2006-01-02")
}
