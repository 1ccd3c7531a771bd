package style

import "sync"

// Resolver is a TokenSource backed by a Stylesheet and the active theme.
// Tokens missing from the active theme fall back to the light theme.
type Resolver struct {
	mu    *sync.RWMutex
	sheet *Stylesheet
	theme ThemeSource
}

var _ TokenSource = &Resolver{}

// NewResolver creates a Resolver. A nil sheet uses DefaultStylesheet and a nil theme source
// always reads the light theme.
func NewResolver(sheet *Stylesheet, theme ThemeSource) *Resolver {
	if sheet == nil {
		sheet = DefaultStylesheet()
	}
	if theme == nil {
		theme = StaticTheme(ThemeLight)
	}
	return &Resolver{mu: &sync.RWMutex{}, sheet: sheet, theme: theme}
}

func (r *Resolver) Token(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if v, ok := r.sheet.Lookup(r.theme.Theme(), name); ok {
		return v
	}
	v, _ := r.sheet.Lookup(ThemeLight, name)
	return v
}

// SetStylesheet swaps the stylesheet. Nil is ignored.
func (r *Resolver) SetStylesheet(sheet *Stylesheet) {
	if sheet == nil {
		return
	}
	r.mu.Lock()
	r.sheet = sheet
	r.mu.Unlock()
}

// Stylesheet returns the current stylesheet.
func (r *Resolver) Stylesheet() *Stylesheet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sheet
}
