package output

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/crimson-sun/nino/internal/engine/metrics"
)

var (
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	headerStyle   = cellStyle.Bold(true)
	diagonalStyle = cellStyle.Foreground(lipgloss.Color("2"))
	offDiagStyle  = cellStyle.Foreground(lipgloss.Color("1"))
)

// RenderMatrix draws cm as a bordered table. Row i / column j holds the
// count of samples with true label i predicted as j. With styled set,
// correct counts are green and non-zero errors red.
func RenderMatrix(cm metrics.ConfusionMatrix, labels []string, styled bool) string {
	headers := make([]string, 0, len(labels)+1)
	headers = append(headers, "true \\ pred")
	for j := range labels {
		headers = append(headers, strconv.Itoa(j))
	}

	rows := make([][]string, len(cm))
	for i, row := range cm {
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(i)+" "+labels[i])
		for _, c := range row {
			cells = append(cells, strconv.Itoa(c))
		}
		rows[i] = cells
	}

	return newTable(headers, rows).
		StyleFunc(func(row, col int) lipgloss.Style {
			if !styled {
				return cellStyle
			}
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0, row < 0, row >= len(cm):
				return cellStyle
			case row == col-1:
				return diagonalStyle
			case cm[row][col-1] > 0:
				return offDiagStyle
			default:
				return cellStyle
			}
		}).
		String()
}

// RenderTable draws a plain bordered table.
func RenderTable(headers []string, rows [][]string) string {
	return newTable(headers, rows).
		StyleFunc(func(int, int) lipgloss.Style { return cellStyle }).
		String()
}

func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
}
