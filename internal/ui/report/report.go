// Package report renders run summaries for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/ui/style"
	"go.trai.ch/zerr"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatText, FormatJSON}

// Writer renders summaries to an io.Writer.
type Writer struct {
	w        io.Writer
	renderer *lipgloss.Renderer
}

// NewWriter creates a Writer using the given color profile.
func NewWriter(w io.Writer, profile termenv.Profile) *Writer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return &Writer{w: w, renderer: r}
}

// Write renders s in format.
func (w *Writer) Write(s domain.Summary, format string) error {
	switch format {
	case FormatText, "":
		return w.Text(s)
	case FormatJSON:
		return w.JSON(s)
	default:
		return zerr.With(domain.ErrUnknownOutputFormat, "format", format)
	}
}

// JSON writes s as indented JSON.
func (w *Writer) JSON(s domain.Summary) error {
	enc := json.NewEncoder(w.w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Text writes s as a human-readable report.
func (w *Writer) Text(s domain.Summary) error {
	var b strings.Builder

	title := w.renderer.NewStyle().Bold(true).Foreground(style.Accent)
	muted := w.renderer.NewStyle().Foreground(style.Slate)

	fmt.Fprintln(&b, title.Render("Maintenance run "+s.RunID))
	fmt.Fprintf(&b, "%s  %s\n", muted.Render("Started:"), s.StartedAt.UTC().Format(time.DateTime+" MST"))
	fmt.Fprintf(&b, "%s %s\n\n", muted.Render("Duration:"), s.Duration.Round(time.Second))

	nameWidth, statusWidth := 0, 0
	for _, r := range s.Tasks {
		nameWidth = max(nameWidth, lipgloss.Width(r.Task))
		statusWidth = max(statusWidth, lipgloss.Width(r.Status.String()))
	}
	nameCol := w.renderer.NewStyle().Width(nameWidth + 2)
	for _, r := range s.Tasks {
		status := w.renderer.NewStyle().Foreground(style.StatusColor(r.Status))
		line := fmt.Sprintf("  %s %s%s",
			status.Render(style.StatusIcon(r.Status)),
			nameCol.Render(r.Task),
			status.Width(statusWidth+2).Render(r.Status.String()),
		)
		if r.Message != "" {
			line += muted.Render(r.Message)
		}
		fmt.Fprintln(&b, strings.TrimRight(line, " "))
	}

	counts := make([]string, 0, len(domain.Statuses))
	for _, status := range domain.Statuses {
		counts = append(counts, fmt.Sprintf("%d %s", s.Counts[status], status))
	}
	fmt.Fprintf(&b, "\n%d task(s): %s\n", s.Total, strings.Join(counts, ", "))

	if len(s.NetworkChanges) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, title.Render("Network adapters"))
		width := 0
		for _, c := range s.NetworkChanges {
			width = max(width, lipgloss.Width(c.Name))
		}
		col := w.renderer.NewStyle().Width(width + 2)
		for _, c := range s.NetworkChanges {
			line := fmt.Sprintf("  %s%s %s %s", col.Render(c.Name), c.Before.Status, style.Arrow, c.After.Status)
			if c.Changed {
				line += " " + w.renderer.NewStyle().Foreground(style.Yellow).Render("(changed)")
			}
			fmt.Fprintln(&b, line)
		}
	}

	_, err := io.WriteString(w.w, b.String())
	return err
}

// TaskList writes the task sequence with each task's category. Tasks named in
// skipped are marked.
func (w *Writer) TaskList(tasks []domain.Task, skipped []string) error {
	var b strings.Builder

	muted := w.renderer.NewStyle().Foreground(style.Slate)

	width := 0
	for _, t := range tasks {
		width = max(width, lipgloss.Width(t.Name))
	}
	col := w.renderer.NewStyle().Width(width + 2)
	for i, t := range tasks {
		line := fmt.Sprintf("%2d. %s%s", i+1, col.Render(t.Name), t.Category)
		if slices.Contains(skipped, t.Name) {
			line += " " + muted.Render("(skipped)")
		}
		fmt.Fprintln(&b, line)
	}

	_, err := io.WriteString(w.w, b.String())
	return err
}
