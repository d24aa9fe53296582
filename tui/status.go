package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/nathoo/risingwaters/loader"
	"github.com/nathoo/risingwaters/types"
)

// meterRows is the number of lines the meter panel takes.
const meterRows = 3

// newMeterBars returns one bar per fill color, indexed by meterLevel.
func newMeterBars() [3]progress.Model {
	var bars [3]progress.Model
	for i, c := range []string{colorMeterLow, colorMeterMid, colorMeterHigh} {
		bars[i] = progress.New(progress.WithSolidFill(c), progress.WithoutPercentage())
	}
	return bars
}

// meterLevel buckets a 0..100 value into low, mid and high.
func meterLevel(v int) int {
	switch {
	case v < 40:
		return 0
	case v < 70:
		return 1
	default:
		return 2
	}
}

// renderMeters draws one labeled bar for each bounded metric.
func (m Model) renderMeters() string {
	t := m.text()
	metrics := m.engine.State.Metrics
	rows := []struct {
		name  string
		value int
	}{
		{types.MetricSafety, metrics.Safety},
		{types.MetricInfrastructure, metrics.Infrastructure},
		{types.MetricMorale, metrics.Morale},
	}

	labelWidth := 0
	for _, r := range rows {
		if w := lipgloss.Width(t.Metric(r.name)); w > labelWidth {
			labelWidth = w
		}
	}
	barWidth := m.width - labelWidth - 7
	if barWidth < 10 {
		barWidth = 10
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		bar := m.bars[meterLevel(r.value)]
		bar.Width = barWidth
		label := t.Metric(r.name)
		label += strings.Repeat(" ", labelWidth-lipgloss.Width(label))
		lines[i] = fmt.Sprintf(" %s %s %3d", styleMeterLabel.Render(label), bar.ViewAs(float64(r.value)/100), r.value)
	}
	return strings.Join(lines, "\n")
}

// renderStatusBar produces a full-width inverted status line showing the
// scenario, round, resource points and language.
func (m Model) renderStatusBar() string {
	t := m.text()
	snap := m.engine.Snapshot()

	left := fmt.Sprintf(" %s | %s %d/%d", loader.DisplayName(snap.Scenario), t.T("round", "Round"), snap.Round, snap.TotalRounds)
	if snap.Phase == types.PhaseGameOver {
		left = fmt.Sprintf(" %s | %s", loader.DisplayName(snap.Scenario), t.T("gameOver", "Game Over"))
	}
	right := fmt.Sprintf("RP: %d | Deck: %d | %s ", snap.Metrics.ResourcePoints, snap.DeckRemaining, strings.ToUpper(m.locale))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		// Drop the deck count first when space is short.
		right = fmt.Sprintf("RP: %d | %s ", snap.Metrics.ResourcePoints, strings.ToUpper(m.locale))
		gap = m.width - lipgloss.Width(left) - lipgloss.Width(right)
	}
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
