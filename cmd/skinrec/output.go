package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/kalambet/skinrec/internal/catalog"
	"github.com/kalambet/skinrec/internal/recommend"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

// probColor grades a success probability the way the warning threshold does.
func probColor(p int) string {
	switch {
	case p >= 60:
		return colorGreen
	case p >= 30:
		return colorYellow
	default:
		return colorRed
	}
}

func printResults(w io.Writer, results []recommend.ProblemResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No problems to solve: pass --problem or symptoms that map to a problem.")
		return
	}
	for _, r := range results {
		fmt.Fprintf(w, "\n%s\n", colorize(colorBold+colorCyan, r.Problem))
		if !r.OK() {
			fmt.Fprintf(w, "  %s\n", colorize(colorRed, fmt.Sprintf("✗ %s (%s)", r.Error, r.ErrorKind)))
			continue
		}
		for i, rec := range r.Recommendations {
			printRecommendation(w, i+1, rec)
		}
	}
}

func printRecommendation(w io.Writer, n int, rec recommend.Recommendation) {
	prob := colorize(probColor(rec.SuccessProb), fmt.Sprintf("%d%%", rec.SuccessProb))
	fmt.Fprintf(w, "  %d. %s / %s  %s (base %.2f)\n", n, colorize(colorBold, rec.Method), rec.Type, prob, rec.BaseProb)
	if rec.Warning != "" {
		fmt.Fprintf(w, "     %s\n", colorize(colorYellow, "⚠ "+rec.Warning))
	}
	if len(rec.Corrections) > 0 {
		names := make([]string, len(rec.Corrections))
		for i, c := range rec.Corrections {
			names[i] = string(c)
		}
		fmt.Fprintf(w, "     Penalties: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "     Effect: %s\n", rec.ExpectedEffect)
	fmt.Fprintf(w, "     Course: %s\n", rec.CourseDuration)
	if len(rec.ActiveIngredients) > 0 {
		fmt.Fprintf(w, "     Ingredients: %s\n", strings.Join(rec.ActiveIngredients, ", "))
	}
	fmt.Fprintf(w, "     Contraindications: %s\n", strings.Join(rec.Contraindications, "; "))
	for _, f := range catalog.ParseDescription(rec.Template) {
		if f.Label == "" {
			fmt.Fprintf(w, "     %s\n", f.Value)
			continue
		}
		fmt.Fprintf(w, "     %s: %s\n", f.Label, f.Value)
	}
}

func printStats(w io.Writer, s catalog.Stats, problems []string) {
	fmt.Fprintf(w, "%s %d\n", colorize(colorBold, "Templates:"), s.Templates)
	if s.Malformed > 0 {
		fmt.Fprintf(w, "%s %d\n", colorize(colorYellow, "Malformed:"), s.Malformed)
	}
	fmt.Fprintln(w, colorize(colorBold, "Problems:"))
	for _, k := range problems {
		fmt.Fprintf(w, "  %-40s %d\n", k, s.Problems[k])
	}
	fmt.Fprintln(w, colorize(colorBold, "Methods:"))
	for _, k := range slices.Sorted(maps.Keys(s.Methods)) {
		fmt.Fprintf(w, "  %-40s %d\n", k, s.Methods[k])
	}
}
