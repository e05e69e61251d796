package stats

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholders for values that cannot be shown.
const (
	NoValue     = "—"
	NoStatValue = "–"
)

var (
	printer = message.NewPrinter(language.English)
	nan     = math.NaN()
)

// FormatNumber formats v with a fixed number of decimals.
func FormatNumber(v float64, digits int) string {
	if !finite(v) {
		return NoValue
	}
	return strconv.FormatFloat(v, 'f', digits, 64)
}

// FormatPercent formats v as a one-decimal percentage. Values are already on
// the 0-100 scale in the workbook.
func FormatPercent(v float64) string {
	if !finite(v) {
		return NoValue
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// FormatCount rounds v to an integer with thousands separators.
func FormatCount(v float64) string {
	if !finite(v) {
		return NoValue
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// FormatCompact renders a compare value: large magnitudes as grouped
// integers, everything else with at most one decimal.
func FormatCompact(v float64) string {
	if !finite(v) {
		return NoStatValue
	}
	if math.Abs(v) >= 1000 {
		return FormatCount(v)
	}
	return strconv.FormatFloat(Round(v, 1), 'f', -1, 64)
}

// Round rounds v to the given number of decimals.
func Round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ptr returns &v for finite v and nil otherwise.
func ptr(v float64) *float64 {
	if !finite(v) {
		return nil
	}
	return &v
}
