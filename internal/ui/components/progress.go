package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonforge/internal/ui/theme"
)

// ScoreBar displays a 0-100 score as a horizontal bar.
type ScoreBar struct {
	Label     string
	Score     float64
	ShowValue bool
	Width     int
}

// NewScoreBar creates a new score bar.
func NewScoreBar(label string, score float64, showValue bool, width int) ScoreBar {
	return ScoreBar{
		Label:     label,
		Score:     score,
		ShowValue: showValue,
		Width:     width,
	}
}

// View renders the score bar.
func (b ScoreBar) View() string {
	var result string

	if b.Label != "" {
		result += theme.Body.Render(b.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	valueWidth := 0
	if b.ShowValue {
		valueWidth = 7 // "  100.0"
	}

	barWidth := max(b.Width-labelWidth-valueWidth, 4)
	filled := min(max(int(float64(barWidth)*b.Score/100), 0), barWidth)
	empty := barWidth - filled

	result += theme.BarFilled.Render(strings.Repeat(" ", filled)) +
		theme.BarEmpty.Render(strings.Repeat(" ", empty))

	if b.ShowValue {
		result += theme.ForScore(b.Score).Render(fmt.Sprintf("  %.1f", b.Score))
	}

	return result
}
