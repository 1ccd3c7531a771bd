package widget

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/latentecho/backdrop/internal/style"
)

// Styles are the widget's lipgloss styles, derived from the chat style tokens.
type Styles struct {
	Box   lipgloss.Style
	Title lipgloss.Style
	User  lipgloss.Style
	Bot   lipgloss.Style
	Error lipgloss.Style
	Help  lipgloss.Style
}

// NewStyles reads the chat tokens from src. Missing tokens leave the terminal default colour.
func NewStyles(src style.TokenSource) Styles {
	color := func(name string) lipgloss.TerminalColor {
		if v := src.Token(name); v != "" {
			return lipgloss.Color(v)
		}
		return lipgloss.NoColor{}
	}
	border := color(style.TokenChatBorder)
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Title: lipgloss.NewStyle().Bold(true).Foreground(color(style.TokenText)),
		User:  lipgloss.NewStyle().Bold(true).Foreground(color(style.TokenChatUser)),
		Bot:   lipgloss.NewStyle().Foreground(color(style.TokenChatBot)),
		Error: lipgloss.NewStyle().Foreground(color(style.TokenChatError)),
		Help:  lipgloss.NewStyle().Foreground(border),
	}
}
