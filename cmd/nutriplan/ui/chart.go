package ui

import (
	"fmt"
	"strings"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline maps values onto block runes, scaled between their min and max.
// Fewer than two values render nothing.
func Sparkline(values []float64) string {
	if len(values) < 2 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	var sb strings.Builder
	for _, v := range values {
		idx := len(sparkRunes) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}

// WeightChart renders a sparkline sampled down to MaxChartWidth points with
// its range label.
func WeightChart(styles Styles, values []float64) string {
	if len(values) < 2 {
		return styles.Muted.Render("Log at least two entries to see a trend.")
	}
	sampled := values
	if len(values) > MaxChartWidth {
		sampled = make([]float64, MaxChartWidth)
		for i := range sampled {
			sampled[i] = values[i*(len(values)-1)/(MaxChartWidth-1)]
		}
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return styles.Chart.Render(Sparkline(sampled)) + " " +
		styles.Muted.Render(fmt.Sprintf("%.1f to %.1f kg", lo, hi))
}
