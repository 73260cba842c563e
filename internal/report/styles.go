package report

import "github.com/charmbracelet/lipgloss"

// Styles used for report lines. All colors are specified using hex codes.
type Styles struct {
	Prefix  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Path    lipgloss.Style
}

// NewStyles builds the styles against renderer r, so color output follows
// the capabilities of the writer r was created for.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Prefix: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff5fd2")),

		Error: r.NewStyle().
			Foreground(lipgloss.Color("#ff005f")).
			Bold(true),

		Success: r.NewStyle().
			Foreground(lipgloss.Color("#00ff5f")).
			Bold(true),

		Path: r.NewStyle().
			Foreground(lipgloss.Color("#5fd7ff")),
	}
}
