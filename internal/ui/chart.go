package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/i474232898/weather-lookup/internal/chart"
)

const barWidth = 30

// renderChart draws a chart config as horizontal bars, one row per label.
// Bars are scaled between the series minimum and maximum.
func renderChart(cfg chart.Config, styles palette) string {
	if len(cfg.Data.Datasets) == 0 || len(cfg.Data.Labels) == 0 {
		return ""
	}
	ds := cfg.Data.Datasets[0]

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range ds.Data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	labelWidth := 0
	for _, l := range cfg.Data.Labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}

	var b strings.Builder
	b.WriteString(styles.text.Render(cfg.Options.Plugins.Title.Text))
	b.WriteString("\n")
	b.WriteString(styles.grid.Render(strings.Repeat("─", labelWidth+barWidth+10)))
	b.WriteString("\n")

	for i, label := range cfg.Data.Labels {
		if i >= len(ds.Data) {
			break
		}
		v := ds.Data[i]
		n := barWidth
		if hi > lo {
			n = 1 + int(math.Round((v-lo)/(hi-lo)*float64(barWidth-1)))
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			styles.text.Render(fmt.Sprintf("%*s", labelWidth, label)),
			styles.line.Render(strings.Repeat("█", n)),
			styles.text.Render(fmt.Sprintf("%.1f°C", v)))
	}

	b.WriteString(styles.border.Render(ds.Label))
	return b.String()
}
