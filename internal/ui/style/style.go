// Package style provides shared console styling primitives: the palette and
// the icons used for task states.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/tend/internal/core/domain"
)

// Palette.
var (
	Accent = lipgloss.Color("#0E7490")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Blue   = lipgloss.Color("#2563EB")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Skip    = "-"
	Arrow   = "→"
)

// StatusIcon returns the icon shown next to a finished task.
func StatusIcon(s domain.Status) string {
	switch s {
	case domain.StatusSuccess:
		return Check
	case domain.StatusRecoveredAfterRetry:
		return Tilde
	case domain.StatusSkipped:
		return Skip
	default:
		return Cross
	}
}

// StatusColor returns the color used for a task status.
func StatusColor(s domain.Status) lipgloss.Color {
	switch s {
	case domain.StatusSuccess:
		return Green
	case domain.StatusRecoveredAfterRetry:
		return Yellow
	case domain.StatusSkipped:
		return Slate
	default:
		return Red
	}
}
