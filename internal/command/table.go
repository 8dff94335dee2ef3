package command

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
)

// newTable creates a table writing to w with bold headers. Styling follows w: plain
// text when w is not a terminal.
func newTable(w io.Writer, headers ...interface{}) table.Table {
	bold := lipgloss.NewRenderer(w).NewStyle().Bold(true)

	// Header cells are styled one by one; the table's header formatter receives the
	// whole line including its newline, which lipgloss would pad into the next row.
	styled := make([]interface{}, len(headers))
	for i, header := range headers {
		styled[i] = bold.Render(fmt.Sprint(header))
	}

	tbl := table.New(styled...)
	tbl.WithWriter(w)
	tbl.WithPadding(2) //nolint:mnd // Column gap
	tbl.WithWidthFunc(lipgloss.Width)

	return tbl
}
