// File: pkg/formatter/table.go
package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Faint(true)
)

type Table struct {
	Headers      []string
	Rows         [][]string
	columnWidths []int
}

// Creates a new table with the given headers
func NewTable(headers []string) *Table {
	t := &Table{
		Headers: headers,
		Rows:    [][]string{},
	}
	t.calculateColumnWidths()
	return t
}

func (t *Table) AddRow(row []string) {
	t.Rows = append(t.Rows, row)
	t.calculateColumnWidths()
}

// Widths are measured in terminal cells so wide runes in file names stay aligned
func (t *Table) calculateColumnWidths() {
	t.columnWidths = make([]int, len(t.Headers))
	for i, h := range t.Headers {
		t.columnWidths[i] = lipgloss.Width(h)
	}

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(t.columnWidths) && lipgloss.Width(cell) > t.columnWidths[i] {
				t.columnWidths[i] = lipgloss.Width(cell)
			}
		}
	}
}

// Returns the string representation of the table
func (t *Table) String() string {
	if len(t.Headers) == 0 {
		return ""
	}

	var sb strings.Builder

	t.writeBorder(&sb)
	sb.WriteString("\n")

	sb.WriteString("|")
	for i, h := range t.Headers {
		sb.WriteString(" ")
		sb.WriteString(headerStyle.Render(h))
		sb.WriteString(strings.Repeat(" ", t.columnWidths[i]-lipgloss.Width(h)))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")

	t.writeBorder(&sb)
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString("|")
		for i := range t.columnWidths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(" ")
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", t.columnWidths[i]-lipgloss.Width(cell)))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	t.writeBorder(&sb)

	return sb.String()
}

func (t *Table) writeBorder(sb *strings.Builder) {
	sb.WriteString("+")
	for _, width := range t.columnWidths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}
}

// Formats a section header with a title
func FormatHeaderSection(title string) string {
	borderLine := strings.Repeat("=", lipgloss.Width(title)+30)
	return lipgloss.JoinVertical(lipgloss.Left,
		borderLine,
		titleStyle.Render("  "+title+"  "),
		borderLine,
	)
}

// Formats a simple section title
func FormatSectionTitle(title string) string {
	return sectionStyle.Render("-- " + title + " --")
}
