// Package format renders durations, scores and dates for display. All
// functions are pure.
package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer formats numbers the way the exam's audience reads them (es-PE
// grouping and decimal separators).
var printer = message.NewPrinter(language.MustParse("es-PE"))

// Clock renders seconds as MM:SS.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// LongClock renders seconds as H:MM:SS once an hour is reached, MM:SS
// otherwise.
func LongClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// Readable renders seconds as a compact human duration, e.g. "1h 30min 45s".
func Readable(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%dmin", mins))
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}
	return strings.Join(parts, " ")
}

// Number renders a float with locale-aware thousands grouping and the given
// number of decimals.
func Number(value float64, decimals int) string {
	return printer.Sprint(number.Decimal(value,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals)))
}

var (
	spanishWeekdays = [...]string{
		"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
	}
	spanishMonths = [...]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
)

// Date renders a timestamp as a long Spanish date with time, e.g.
// "lunes, 3 de marzo de 2025, 14:05".
func Date(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d, %02d:%02d",
		spanishWeekdays[t.Weekday()], t.Day(), spanishMonths[t.Month()-1],
		t.Year(), t.Hour(), t.Minute())
}

// OptionLetter converts a zero-based option index to its letter (0 → A).
// Out-of-range indexes render as "-".
func OptionLetter(index int) string {
	if index < 0 || index > 25 {
		return "-"
	}
	return string(rune('A' + index))
}

// PercentageColor bands a percentage into a display color.
func PercentageColor(percentage float64) string {
	switch {
	case percentage >= 80:
		return "#10B981" // emerald
	case percentage >= 60:
		return "#3B82F6" // blue
	case percentage >= 40:
		return "#F59E0B" // amber
	default:
		return "#EF4444" // red
	}
}
