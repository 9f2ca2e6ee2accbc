// Package report renders lead exports and the dashboard lead-growth chart.
package report

import (
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"welux-admin/internal/domain"
)

// DayCount is the number of leads created on one calendar day (UTC).
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// LeadGrowth buckets leads per day over the last days days ending at now.
// Leads with an unparseable created_at are skipped.
func LeadGrowth(leads []domain.Lead, days int, now time.Time) []DayCount {
	if days <= 0 {
		days = 7
	}
	end := now.UTC().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -(days - 1))

	out := make([]DayCount, days)
	idx := make(map[string]int, days)
	for i := range out {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		out[i].Day = d
		idx[d] = i
	}
	for _, l := range leads {
		t, err := time.Parse(time.RFC3339, l.CreatedAt)
		if err != nil {
			continue
		}
		if i, ok := idx[t.UTC().Format("2006-01-02")]; ok {
			out[i].Count++
		}
	}
	return out
}

// GrowthPNG renders counts as a bar chart.
func GrowthPNG(w io.Writer, counts []DayCount) error {
	bars := make([]chart.Value, 0, len(counts))
	maxVal := 0
	for _, c := range counts {
		if c.Count > maxVal {
			maxVal = c.Count
		}
		label := c.Day
		if t, err := time.Parse("2006-01-02", c.Day); err == nil {
			label = t.Format("Jan 2")
		}
		bars = append(bars, chart.Value{Value: float64(c.Count), Label: label})
	}
	// go-chart rejects an empty range.
	yMax := float64(maxVal)
	if yMax <= 0 {
		yMax = 1
	}
	graph := chart.BarChart{
		Title:    "New leads",
		Width:    900,
		Height:   420,
		BarWidth: 48,
		Background: chart.Style{Padding: chart.Box{
			Top:    50,
			Left:   16,
			Right:  16,
			Bottom: 0,
		}},
		YAxis: chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: yMax}},
		Bars:  bars,
	}
	return graph.Render(chart.PNG, w)
}
