package style

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Stylesheet maps theme name to token name to value.
type Stylesheet struct {
	Themes map[string]map[string]string `koanf:"themes" yaml:"themes"`
}

// DefaultStylesheet returns the built-in light and dark themes.
func DefaultStylesheet() *Stylesheet {
	return &Stylesheet{Themes: map[string]map[string]string{
		ThemeLight: {
			TokenWireframe:      "#1a1a1a",
			TokenWireframePulse: "#4a6cf7",
			TokenSphere:         "#666666",
			TokenSpherePulse:    "#8fa2ff",
			TokenOpacity:        "0.15",
			TokenPulseIntensity: "0.5",
			TokenBackground:     "#ffffff",
			TokenText:           "#1a1a1a",
			TokenChatUser:       "#4a6cf7",
			TokenChatBot:        "#1a1a1a",
			TokenChatError:      "#d64545",
			TokenChatBorder:     "#666666",
		},
		ThemeDark: {
			TokenWireframe:      "#e0e0e0",
			TokenWireframePulse: "#7aa2ff",
			TokenSphere:         "#9a9a9a",
			TokenSpherePulse:    "#b4c5ff",
			TokenOpacity:        "0.2",
			TokenPulseIntensity: "0.6",
			TokenBackground:     "#121212",
			TokenText:           "#e0e0e0",
			TokenChatUser:       "#7aa2ff",
			TokenChatBot:        "#e0e0e0",
			TokenChatError:      "#ff6b6b",
			TokenChatBorder:     "#9a9a9a",
		},
	}}
}

// LoadStylesheet reads a YAML stylesheet and merges it over the built-in defaults, so a file only
// needs to list the tokens it changes. A missing file yields the defaults.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - *Stylesheet: the merged stylesheet
//   - error: if the file exists but cannot be read or parsed
func LoadStylesheet(path string) (*Stylesheet, error) {
	sheet := DefaultStylesheet()
	if path == "" {
		return sheet, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return sheet, nil
		}
		return nil, fmt.Errorf("accessing stylesheet %s: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("reading stylesheet %s: %w", path, err)
	}

	for _, theme := range k.MapKeys("themes") {
		tokens := k.StringMap("themes." + theme)
		if sheet.Themes[theme] == nil {
			sheet.Themes[theme] = make(map[string]string, len(tokens))
		}
		maps.Copy(sheet.Themes[theme], tokens)
	}
	return sheet, nil
}

// Save writes the stylesheet to path as YAML.
func (s *Stylesheet) Save(path string) error {
	data, err := yamlv3.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshalling stylesheet: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing stylesheet to %s: %w", path, err)
	}
	return nil
}

// Lookup returns the value of token in theme.
func (s *Stylesheet) Lookup(theme, token string) (string, bool) {
	v, ok := s.Themes[theme][token]
	return v, ok
}

// ThemeNames returns the defined themes in sorted order.
func (s *Stylesheet) ThemeNames() []string {
	return slices.Sorted(maps.Keys(s.Themes))
}
