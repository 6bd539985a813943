package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	migerrors "github.com/toyz/ngmigrate/internal/errors"
	"github.com/toyz/ngmigrate/internal/models"
)

// DiagnosticReporter prints migration diagnostics and typed errors
type DiagnosticReporter struct {
	verbose   bool
	useColors bool
	out       io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, useColors: true, out: os.Stderr}
}

// NewDiagnosticReporterTo creates a reporter writing uncolored output to out
func NewDiagnosticReporterTo(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: out}
}

// ReportDiagnostics prints the places of a target that need manual
// follow-up, one per line.
func (r *DiagnosticReporter) ReportDiagnostics(target string, diagnostics []models.Diagnostic) {
	if len(diagnostics) == 0 {
		return
	}
	warn := color.New(color.FgYellow, color.Bold)
	if !r.useColors {
		warn.DisableColor()
	}
	fmt.Fprintf(r.out, "\n%s needs manual changes:\n", target)
	for _, d := range diagnostics {
		warn.Fprint(r.out, "! ")
		fmt.Fprintf(r.out, "%s\n", d.String())
	}
}

// ReportError prints err with the location, context and suggestions of
// every migration error it carries.
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Migration Failed\n")
	fmt.Fprintf(r.out, "=======================\n\n")

	var multi *migerrors.MultipleErrors
	if errors.As(err, &multi) {
		for i, e := range multi.Errors {
			if i > 0 {
				fmt.Fprintln(r.out)
			}
			r.reportMigrationError(e)
		}
		return
	}

	var merr migerrors.MigrationError
	if errors.As(err, &merr) {
		r.reportMigrationError(merr)
		return
	}
	fmt.Fprintf(r.out, "Message: %s\n", err.Error())
}

func (r *DiagnosticReporter) reportMigrationError(err migerrors.MigrationError) {
	title := splitWords(err.ErrorCode().String())
	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(title)+6))

	fmt.Fprintf(r.out, "Message: %s\n", err.Error())
	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n", loc.String())
	}

	if r.verbose {
		if ctx := err.Context(); len(ctx) > 0 {
			r.printContext(ctx)
		}
		r.printChain(err.Unwrap())
	}

	if hints := err.Suggestions(); len(hints) > 0 {
		fmt.Fprintf(r.out, "Suggestions:\n")
		for i, s := range hints {
			fmt.Fprintf(r.out, "   %d. %s\n", i+1, s)
		}
	}
}

// printContext prints context information sorted by key
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
}

func (r *DiagnosticReporter) printChain(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(r.out, "Error Chain:\n")
	for level := 1; err != nil; level++ {
		fmt.Fprintf(r.out, "   %d. %s\n", level, err.Error())
		err = errors.Unwrap(err)
	}
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// splitWords turns "EditConflictError" into "Edit Conflict Error"
func splitWords(s string) string {
	var b strings.Builder
	for i, c := range s {
		if i > 0 && c >= 'A' && c <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	return b.String()
}
