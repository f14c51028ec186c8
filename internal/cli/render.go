package cli

import (
	"github.com/charmbracelet/glamour"
)

// NewMarkdownRenderer returns a glamour renderer for the portfolio report.
// Off a terminal the plain "notty" style is used.
func NewMarkdownRenderer(tty bool, width int) (func(string) (string, error), error) {
	style := glamour.WithStandardStyle("notty")
	if tty {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
