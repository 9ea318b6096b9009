package main

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/viant/scalpel/genetic"
)

// writeReport renders one row per evaluated generation
func writeReport(w io.Writer, result *genetic.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Generation", "Best", "Mean", "Worst", "Compiled", "Best Lines"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, stats := range result.History {
		table.Append([]string{
			fmt.Sprintf("%d", stats.Generation),
			fmt.Sprintf("%.4f", stats.Best),
			fmt.Sprintf("%.4f", stats.Mean),
			fmt.Sprintf("%.4f", stats.Worst),
			fmt.Sprintf("%d", stats.Compiled),
			fmt.Sprintf("%d", stats.BestSize),
		})
	}
	best := 0.0
	if result.BestSoFar != nil {
		best = result.BestSoFar.Fitness
	}
	table.SetFooter([]string{"Run " + result.RunID, fmt.Sprintf("%.4f", best), "", "", "", ""})
	table.Render()
}
