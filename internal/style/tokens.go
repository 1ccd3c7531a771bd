// Package style resolves named, theme-dependent style tokens such as "--animation-wireframe".
// Values are looked up at read time, so a theme switch is visible on the next read.
package style

// Token names consumed by the animation controller and the chat widget.
const (
	TokenWireframe      = "--animation-wireframe"
	TokenWireframePulse = "--animation-wireframe-pulse"
	TokenSphere         = "--animation-sphere"
	TokenSpherePulse    = "--animation-sphere-pulse"
	TokenOpacity        = "--animation-opacity"
	TokenPulseIntensity = "--animation-pulse-intensity"

	TokenBackground = "--background"
	TokenText       = "--text"
	TokenChatUser   = "--chat-user"
	TokenChatBot    = "--chat-bot"
	TokenChatError  = "--chat-error"
	TokenChatBorder = "--chat-border"
)

// Theme names known to the built-in stylesheet.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// TokenSource returns the current value of a named token for the active theme.
// Unknown tokens resolve to "".
type TokenSource interface {
	Token(name string) string
}

// ThemeSource reports the active theme name.
type ThemeSource interface {
	Theme() string
}

// StaticTokens is a fixed TokenSource.
type StaticTokens map[string]string

func (s StaticTokens) Token(name string) string {
	return s[name]
}

// StaticTheme is a fixed ThemeSource.
type StaticTheme string

func (s StaticTheme) Theme() string {
	return string(s)
}
