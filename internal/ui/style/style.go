// Package style provides shared UI styling primitives including brand colors,
// the per-target palette and icons.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// TargetPalette is cycled through to tell concurrent target output apart.
// The entries are ANSI color indices so they render in any color profile.
var TargetPalette = []lipgloss.Color{
	lipgloss.Color("1"), // red
	lipgloss.Color("2"), // green
	lipgloss.Color("3"), // yellow
	lipgloss.Color("4"), // blue
	lipgloss.Color("5"), // magenta
	lipgloss.Color("6"), // cyan
}

// TargetColor returns the palette color of the i-th target.
func TargetColor(i int) lipgloss.Color {
	return TargetPalette[i%len(TargetPalette)]
}

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)
