package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
)

// renderMarkdown renders a task description for the detail view. Plain
// text passes through glamour unchanged apart from wrapping.
func renderMarkdown(md string, width int) (string, error) {
	if width < 20 {
		width = 20
	}
	style := glamourstyles.DarkStyleConfig
	style.Document.Margin = uintPtr(0)
	style.H1.Prefix = "# "
	style.H1.BackgroundColor = nil
	style.H1.Color = stringPtr("#7aa2f7")
	style.H2.Color = stringPtr("#bb9af7")

	renderer, err := glamour.NewTermRenderer(
		glamour.WithWordWrap(width),
		glamour.WithStyles(style),
	)
	if err != nil {
		return "", err
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

func stringPtr(v string) *string { return &v }

func uintPtr(v uint) *uint { return &v }
