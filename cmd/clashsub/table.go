package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableView describes one rendered table. Cells wider than maxWidth wrap.
type tableView struct {
	title    string
	headers  []string
	rows     [][]string
	aligns   []columnAlignment
	footer   []string
	maxWidth int
}

func renderTable(view tableView) string {
	columns := len(view.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if view.title != "" {
		tw.SetTitle(view.title)
	}

	tw.AppendHeader(toRow(view.headers, columns))
	for _, row := range view.rows {
		tw.AppendRow(toRow(row, columns))
	}
	if len(view.footer) > 0 {
		tw.AppendFooter(toRow(view.footer, columns))
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(view.aligns) && view.aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			AlignFooter: align,
			WidthMax:    view.maxWidth,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func toRow(cells []string, columns int) table.Row {
	row := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}
