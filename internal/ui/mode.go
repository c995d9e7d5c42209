package ui

// Mode controls which widget receives key input.
type Mode int

const (
	// TableMode moves the cursor through the results table.
	TableMode Mode = iota
	// FilterMode edits the model filter.
	FilterMode
	// DialogMode shows the models dialog.
	DialogMode
)

func (m Mode) String() string {
	switch m {
	case TableMode:
		return "table"
	case FilterMode:
		return "filter"
	case DialogMode:
		return "dialog"
	default:
		return "unknown"
	}
}
