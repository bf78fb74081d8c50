package main

import (
	"strconv"

	"github.com/guridi/pubsite/internal/publication"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column is one table column: its header and cell alignment.
type column struct {
	Header string
	Align  text.Align
}

var publicationColumns = []column{
	{"Year", text.AlignRight},
	{"Category", text.AlignLeft},
	{"Title", text.AlignLeft},
	{"Authors", text.AlignLeft},
	{"Venue", text.AlignLeft},
}

var countColumns = []column{
	{"Category", text.AlignLeft},
	{"Count", text.AlignRight},
}

// renderTable draws rows under cols. Headers keep their case; short rows are
// padded with empty cells.
func renderTable(cols []column, rows [][]string) string {
	if len(cols) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(cols))
	configs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		header[i] = c.Header
		configs[i] = table.ColumnConfig{Number: i + 1, Align: c.Align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(cols))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}

// publicationTable renders one row per publication, in the given order.
func publicationTable(pubs []publication.Publication) string {
	rows := make([][]string, 0, len(pubs))
	for _, p := range pubs {
		rows = append(rows, []string{
			formatYear(p),
			string(p.Category),
			truncateString(p.Title, ListTitleMaxLen),
			truncateString(formatAuthorsShort(p.Authors, 2), ListAuthorsMaxLen),
			truncateString(p.Venue, ListVenueMaxLen),
		})
	}
	return renderTable(publicationColumns, rows)
}

// countTable renders per-category counts in page order, skipping zeros.
func countTable(counts map[publication.Category]int) string {
	var rows [][]string
	for _, c := range publication.Categories() {
		if n := counts[c]; n > 0 {
			rows = append(rows, []string{string(c), strconv.Itoa(n)})
		}
	}
	if len(rows) == 0 {
		return ""
	}
	return renderTable(countColumns, rows)
}
