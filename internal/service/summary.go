package service

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"audioharvest/internal/core/domain"
)

// RenderSummary renders one row per job plus a totals footer. fancy selects
// rounded box drawing; plain ASCII is used otherwise (e.g. when piped).
func RenderSummary(reports []domain.JobReport, fancy bool) string {
	tw := table.NewWriter()
	if fancy {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(table.Row{"Job", "Language", "Target", "Query", "Located", "Downloaded", "Skipped", "Failed", "Note"})

	var located, downloaded, skipped, failed int
	for _, r := range reports {
		tw.AppendRow(table.Row{
			r.JobID,
			r.Job.Language,
			strconv.Itoa(r.Job.TargetCount),
			r.Job.Query,
			strconv.Itoa(r.Located),
			strconv.Itoa(r.Downloaded),
			strconv.Itoa(r.Skipped),
			strconv.Itoa(r.Failed),
			r.Reason,
		})
		located += r.Located
		downloaded += r.Downloaded
		skipped += r.Skipped
		failed += r.Failed
	}

	tw.AppendFooter(table.Row{
		"Total", "", "", "",
		strconv.Itoa(located),
		strconv.Itoa(downloaded),
		strconv.Itoa(skipped),
		strconv.Itoa(failed),
		"",
	})

	configs := make([]table.ColumnConfig, 0, 5)
	for _, col := range []int{3, 5, 6, 7, 8} {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
			AlignFooter: text.AlignRight,
		})
	}
	configs = append(configs, table.ColumnConfig{Number: 4, WidthMax: 40})
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
