// Package chart renders dashboard charts as PNG images.
package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/simonev/internal/domain/tier"
	"github.com/okian/simonev/internal/domain/types"
)

const (
	width       = 800
	height      = 400
	maxLabelLen = 18
)

var (
	background = drawing.ColorFromHex("ffffff")
	textColor  = drawing.ColorFromHex("334155")
	barColor   = drawing.ColorFromHex("2563eb")
	emptyColor = drawing.ColorFromHex("cbd5e1")

	tierColors = map[tier.Tier]drawing.Color{
		tier.Excellent: drawing.ColorFromHex("16a34a"),
		tier.Good:      drawing.ColorFromHex("2563eb"),
		tier.Nice:      drawing.ColorFromHex("eab308"),
		tier.Bad:       drawing.ColorFromHex("dc2626"),
	}
)

// TierPie renders the tier distribution. Empty tiers are left out.
func TierPie(counts types.TierCounts, title string) ([]byte, error) {
	values := make([]chart.Value, 0, len(counts))
	for _, t := range tier.All() {
		n := counts[t]
		if n <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", t, n),
			Value: float64(n),
			Style: chart.Style{FillColor: tierColors[t], StrokeColor: background},
		})
	}
	if len(values) == 0 {
		return placeholder("Belum ada data sekolah")
	}

	pie := chart.PieChart{
		Title:      title,
		Width:      height,
		Height:     height,
		Background: chart.Style{FillColor: background},
		Values:     values,
	}
	buf := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// EventBars renders the number of participating schools per event.
func EventBars(parts []types.EventParticipation, title string) ([]byte, error) {
	if len(parts) == 0 {
		return placeholder("Belum ada kegiatan")
	}

	bars := make([]chart.Value, len(parts))
	maxTotal := 1.0
	for i, p := range parts {
		bars[i] = chart.Value{
			Label: shorten(p.Name),
			Value: float64(p.Total),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		maxTotal = max(maxTotal, float64(p.Total))
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: background},
		Canvas:     chart.Style{FillColor: background},
		XAxis:      chart.Style{FontColor: textColor},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: textColor},
			Range: &chart.ContinuousRange{Min: 0, Max: maxTotal},
		},
		BarWidth: 40,
		Bars:     bars,
	}
	buf := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func shorten(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelLen {
		return s
	}
	return string(r[:maxLabelLen-1]) + "…"
}

// placeholder renders a single grey slice carrying msg; go-chart refuses
// to draw charts without data.
func placeholder(msg string) ([]byte, error) {
	pie := chart.PieChart{
		Width:      height / 2,
		Height:     height / 2,
		Background: chart.Style{FillColor: background},
		Values: []chart.Value{{
			Label: msg,
			Value: 1,
			Style: chart.Style{FillColor: emptyColor, StrokeColor: background, FontColor: textColor},
		}},
	}
	buf := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}
