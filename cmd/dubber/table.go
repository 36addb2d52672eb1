package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable renders a listing in the rounded style shared by dubber
// commands. Columns named in rightAligned are right-aligned; rows shorter
// than the header are padded with blank cells. The last column is capped so
// long output keys and error messages wrap instead of blowing out the width.
func renderTable(headers []string, rows [][]string, rightAligned ...int) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(headers))
	for _, h := range headers {
		header = append(header, h)
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, 0, len(headers))
		for i := range headers {
			if i < len(row) {
				r = append(r, row[i])
			} else {
				r = append(r, "")
			}
		}
		tw.AppendRow(r)
	}

	right := make(map[int]bool, len(rightAligned))
	for _, col := range rightAligned {
		right[col] = true
	}
	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		colCfg := table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if right[i] {
			colCfg.Align = text.AlignRight
		}
		if i == len(headers)-1 {
			colCfg.WidthMax = 60
		}
		configs = append(configs, colCfg)
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
