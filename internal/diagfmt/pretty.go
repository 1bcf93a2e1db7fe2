package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mica/internal/diag"
	"mica/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	caretColor   = color.New(color.FgGreen)
	noteColor    = color.New(color.FgBlue)
)

// Pretty renders diagnostics one after another in source order. The caller
// is expected to Sort the bag first. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  <source line>
//	  ^~~~~~~
//
// followed by its notes when opts.ShowNotes is set.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printDiagnostic(w, &d, fs, opts)
	}
}

func printDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	start, end := fs.Resolve(d.Primary)
	file := fs.Get(d.Primary.File)

	sev := d.Severity.String()
	code := d.Code.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(file.Path, fs, opts.PathMode), start.Line, start.Col, sev, code, d.Message)

	printContext(w, file, start, end, opts)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nStart, nEnd := fs.Resolve(n.Span)
		nFile := fs.Get(n.Span.File)
		label := "note"
		if opts.Color {
			label = noteColor.Sprint(label)
		}
		fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n",
			label, formatPath(nFile.Path, fs, opts.PathMode), nStart.Line, nStart.Col, n.Msg)
		printContext(w, nFile, nStart, nEnd, opts)
	}
}

// printContext shows the first line the span touches with a ^~~~ underline.
// Column math uses display widths so tabs and wide runes stay aligned.
func printContext(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts) {
	line := file.GetLine(start.Line)
	if line == "" {
		return
	}

	shown := line
	if opts.Width > 0 {
		shown = runewidth.Truncate(shown, opts.Width, "...")
	}
	fmt.Fprintf(w, "  %s\n", shown)

	pad := displayWidth(line, start.Col-1)
	span := 1
	if end.Line == start.Line && end.Col > start.Col {
		span = displayWidth(line[min(len(line), int(start.Col)-1):], end.Col-start.Col)
	}
	if opts.Width > 0 && pad+span > opts.Width {
		if pad >= opts.Width {
			return
		}
		span = opts.Width - pad
	}
	if span < 1 {
		span = 1
	}

	marker := "^" + strings.Repeat("~", span-1)
	if opts.Color {
		marker = caretColor.Sprint(marker)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), marker)
}

// displayWidth measures the terminal width of the first n bytes of line.
func displayWidth(line string, n uint32) int {
	if int(n) > len(line) {
		n = uint32(len(line)) // #nosec G115 -- source lines fit in uint32
	}
	width := 0
	for _, r := range line[:n] {
		if r == '\t' {
			width += 4 - width%4
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return width
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func formatPath(path string, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	case PathModeRelative, PathModeAuto:
		if rel, err := filepath.Rel(fs.BaseDir(), path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(path)
	}
	return path
}
