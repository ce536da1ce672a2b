// Package style provides shared UI styling primitives including brand colors
// and icons for consistent terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Ember  = lipgloss.Color("#F97316")
	Slate  = lipgloss.Color("#667085")
	Cyan   = lipgloss.Color("#06B6D4")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
)
