package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Bar renders a horizontal gauge such as confidence or position within
// the difficulty range.
type Bar struct {
	Label       string
	Fraction    float64 // 0..1, clamped when rendered
	ShowPercent bool
	Width       int
}

func (b Bar) render(r *Renderer) string {
	var result string

	if b.Label != "" {
		result += r.style(bodyStyle).Render(b.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if b.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := b.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	frac := b.Fraction
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(float64(barWidth)*frac + 0.5)
	empty := barWidth - filled

	result += r.style(lipgloss.NewStyle().Foreground(Secondary)).Render(strings.Repeat("█", filled))
	result += r.style(lipgloss.NewStyle().Foreground(Border)).Render(strings.Repeat("░", empty))

	if b.ShowPercent {
		result += r.style(dimStyle).Render(fmt.Sprintf("  %d%%", int(frac*100+0.5)))
	}
	return result
}
