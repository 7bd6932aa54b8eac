package main

import (
	"dataviz/internal/dataset"
	"dataviz/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func styled(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.Render()
}

// previewTable lays records out under the first record's columns.
func previewTable(ds dataset.Dataset) string {
	columns := ds.Columns()
	rows := make([][]string, 0, len(ds))
	for _, rec := range ds {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = rec.Get(col).Text()
		}
		rows = append(rows, row)
	}
	return styled(columns, rows)
}

func columnsTable(types []models.ColumnType) string {
	rows := make([][]string, 0, len(types))
	for _, ct := range types {
		rows = append(rows, []string{ct.Name, ct.Type})
	}
	return styled([]string{"Column", "Type"}, rows)
}
