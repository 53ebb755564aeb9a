package webui

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/opsdesk/instascrape/internal/domain"
)

// Columns the sheet may use to identify the scraped account; the workflow
// renamed this header a few times.
var accountColumns = []string{"username", "account", "cuenta", "user"}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Fetch(r.Context())
	if err != nil {
		slog.Warn("dashboard read failed", "err", err)
	}

	// 1. Rows per account
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Rows per Account"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	accountCounts := make(map[string]int)
	accountCol := findAccountColumn(snap)
	for _, row := range snap.Rows {
		key := row[accountCol]
		if key == "" {
			key = "(unknown)"
		}
		accountCounts[key]++
	}

	var pieItems []opts.PieData
	for k, v := range accountCounts {
		pieItems = append(pieItems, opts.PieData{Name: k, Value: v})
	}
	pie.AddSeries("Rows", pieItems)

	// 2. Column coverage (non-empty cells per column)
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Column Coverage"}))

	var barX []string
	var barY []opts.BarData
	for _, col := range snap.Columns {
		filled := 0
		for _, row := range snap.Rows {
			if row[col] != "" {
				filled++
			}
		}
		barX = append(barX, col)
		barY = append(barY, opts.BarData{Value: filled})
	}
	bar.SetXAxis(barX).AddSeries("Filled", barY)

	pie.Render(w)
	bar.Render(w)
}

func findAccountColumn(snap domain.Snapshot) string {
	for _, col := range snap.Columns {
		for _, want := range accountColumns {
			if strings.EqualFold(col, want) {
				return col
			}
		}
	}
	if len(snap.Columns) > 0 {
		return snap.Columns[0]
	}
	return ""
}
