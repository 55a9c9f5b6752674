// Package style defines the depstrap color palette and the status glyphs
// shared by the log handler and the status table.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Slate  = lipgloss.Color("#64748B")
	Red    = lipgloss.Color("#DC2626")
	Yellow = lipgloss.Color("#CA8A04")
)

// Stage state glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Circle  = "○"
)
