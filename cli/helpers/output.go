package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// OutputWriter writes command results as JSON or a plain table
type OutputWriter struct {
	writer io.Writer
	format OutputFormat
	width  int
}

func NewOutputWriter(writer io.Writer, format OutputFormat) *OutputWriter {
	return &OutputWriter{writer: writer, format: format, width: TerminalWidth()}
}

// WithWidth overrides the detected terminal width
func (ow *OutputWriter) WithWidth(width int) *OutputWriter {
	ow.width = width
	return ow
}

func (ow *OutputWriter) WriteJSON(data any) error {
	encoder := json.NewEncoder(ow.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// WriteData writes data as JSON, or headers and rows as a table
func (ow *OutputWriter) WriteData(data any, headers []string, rows [][]string) error {
	switch ow.format {
	case OutputFormatJSON:
		return ow.WriteJSON(data)
	case OutputFormatTable, OutputFormatTUI:
		return ow.WriteTable(headers, rows)
	default:
		return fmt.Errorf("unsupported output format: %s", ow.format)
	}
}

// WriteTable renders rows in columns that fit the writer width.
func (ow *OutputWriter) WriteTable(headers []string, rows [][]string) error {
	widths := fitColumns(headers, rows, ow.width)
	var b strings.Builder
	writeRow := func(cells []string) {
		parts := make([]string, len(widths))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = pad(Truncate(cell, w), w)
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, strings.Repeat(" ", columnGap)), " "))
		b.WriteByte('\n')
	}
	writeRow(headers)
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	writeRow(seps)
	for _, row := range rows {
		writeRow(row)
	}
	_, err := io.WriteString(ow.writer, b.String())
	return err
}

// fitColumns sizes columns to their content and shrinks the widest ones
// until the row fits width.
func fitColumns(headers []string, rows [][]string, width int) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], lipgloss.Width(row[i]))
			}
		}
	}
	if width <= 0 || len(widths) == 0 {
		return widths
	}
	budget := width - columnGap*(len(widths)-1)
	for total(widths) > budget {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			break
		}
		widths[widest]--
	}
	return widths
}

func total(widths []int) int {
	sum := 0
	for _, w := range widths {
		sum += w
	}
	return sum
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// Truncate shortens s to maxWidth display cells, ending with an ellipsis
func Truncate(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return string([]rune(s)[:max(maxWidth, 0)])
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > maxWidth-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// TerminalWidth returns the stdout width, or a default when stdout is not a terminal
func TerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return defaultTerminalWidth
}
