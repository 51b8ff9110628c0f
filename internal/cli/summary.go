package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jaa/musicmaid/internal/engine"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func writeSummary(w io.Writer, stats engine.Stats, dryRun bool) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	title := "Summary"
	if dryRun {
		title = "Summary (dry run, nothing changed)"
	}
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"Result", "Count"})
	tw.AppendRows([]table.Row{
		{"Organized", strconv.Itoa(stats.Organized)},
		{"Duplicates removed", strconv.Itoa(stats.DuplicatesRemoved)},
		{"Sidecar files deleted", strconv.Itoa(stats.SidecarsDeleted)},
		{"Errors", strconv.Itoa(stats.Errors)},
		{"Empty directories removed", strconv.Itoa(stats.DirsRemoved)},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	fmt.Fprintln(w, tw.Render())
	if rate, ok := stats.SuccessRate(); ok {
		fmt.Fprintf(w, "Success rate: %.1f%%\n", rate)
	}
}
