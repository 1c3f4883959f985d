package helpers

// OutputFormat represents different output formats
type OutputFormat string

const (
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
	OutputFormatTUI   OutputFormat = "tui"
)

const (
	defaultTerminalWidth = 100
	minColumnWidth       = 4
	columnGap            = 2
)
