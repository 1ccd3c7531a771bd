// Package theme owns the light/dark preference: it is mirrored to the document's data-theme
// attribute and persisted in a storage.Store.
package theme

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/latentecho/backdrop/engine/host"
	"github.com/latentecho/backdrop/internal/storage"
	"github.com/latentecho/backdrop/internal/style"
)

const (
	// Attribute is the document attribute carrying the active theme.
	Attribute = "data-theme"
	// LoadingClass is present on the document from Init until the loading timeout fires.
	LoadingClass = "loading"
	// StorageKey is the default key the preference is persisted under.
	StorageKey = "theme"
)

// ErrEmptyTheme is returned by Apply for a blank theme name.
var ErrEmptyTheme = errors.New("theme name is empty")

// Manager applies and persists the theme. It implements style.ThemeSource.
type Manager struct {
	mu *sync.Mutex

	doc   host.Document
	store storage.Store
	pref  host.ColorSchemePreference

	storageKey     string
	loadingTimeout time.Duration
	loadingTimer   *time.Timer

	nextID    int
	listeners map[int]func(theme string)
}

var _ style.ThemeSource = &Manager{}

// NewManager creates a Manager. Nothing is applied until Init.
//
// Parameters:
//   - doc: the document whose attribute and class list are managed
//   - store: where the preference is persisted
//   - options: functional options
//
// Returns:
//   - *Manager: the manager
func NewManager(doc host.Document, store storage.Store, options ...ManagerBuilderOption) *Manager {
	m := &Manager{
		mu:             &sync.Mutex{},
		doc:            doc,
		store:          store,
		pref:           host.EnvColorScheme{},
		storageKey:     StorageKey,
		loadingTimeout: time.Second,
		listeners:      make(map[int]func(string)),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Init marks the document as loading, applies the initial theme and schedules removal of the
// loading class. The initial theme is the stored preference, else the system preference, else light.
//
// Returns:
//   - error: if the preference cannot be read or written
func (m *Manager) Init(ctx context.Context) error {
	m.doc.AddClass(LoadingClass)

	theme, err := m.initialTheme(ctx)
	if err != nil {
		return err
	}
	if err := m.Apply(ctx, theme); err != nil {
		return err
	}

	m.mu.Lock()
	if m.loadingTimer != nil {
		m.loadingTimer.Stop()
	}
	m.loadingTimer = time.AfterFunc(m.loadingTimeout, m.RemoveLoading)
	m.mu.Unlock()
	return nil
}

func (m *Manager) initialTheme(ctx context.Context) (string, error) {
	stored, err := m.store.Get(ctx, m.storageKey)
	switch {
	case err == nil && strings.TrimSpace(stored) != "":
		return strings.TrimSpace(stored), nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return "", fmt.Errorf("reading theme preference: %w", err)
	}

	if dark, known := m.pref.PrefersDark(); known && dark {
		return style.ThemeDark, nil
	}
	return style.ThemeLight, nil
}

// Apply sets the theme attribute, persists the theme and notifies listeners.
//
// Parameters:
//   - theme: the theme name
//
// Returns:
//   - error: ErrEmptyTheme, or a storage failure
func (m *Manager) Apply(ctx context.Context, theme string) error {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return ErrEmptyTheme
	}

	m.doc.SetAttribute(Attribute, theme)
	if err := m.store.Set(ctx, m.storageKey, theme); err != nil {
		return fmt.Errorf("saving theme preference: %w", err)
	}

	m.mu.Lock()
	fns := make([]func(string), 0, len(m.listeners))
	for id := 0; id < m.nextID; id++ {
		if fn, ok := m.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(theme)
	}
	return nil
}

// Toggle switches light to dark and anything else to light.
//
// Returns:
//   - string: the new theme
//   - error: as for Apply
func (m *Manager) Toggle(ctx context.Context) (string, error) {
	next := style.ThemeLight
	if m.Theme() == style.ThemeLight {
		next = style.ThemeDark
	}
	return next, m.Apply(ctx, next)
}

// Theme returns the active theme, light when none has been applied.
func (m *Manager) Theme() string {
	if t := m.doc.Attribute(Attribute); t != "" {
		return t
	}
	return style.ThemeLight
}

// Pressed reports the toggle's pressed state, which is true while the dark theme is active.
func (m *Manager) Pressed() bool {
	return m.Theme() == style.ThemeDark
}

// OnChange registers fn to run after every Apply.
func (m *Manager) OnChange(fn func(theme string)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// RemoveLoading drops the loading class.
func (m *Manager) RemoveLoading() {
	m.doc.RemoveClass(LoadingClass)
}

// Teardown stops the pending loading timer, removes the loading class and drops all listeners.
func (m *Manager) Teardown() {
	m.mu.Lock()
	if m.loadingTimer != nil {
		m.loadingTimer.Stop()
		m.loadingTimer = nil
	}
	clear(m.listeners)
	m.mu.Unlock()

	m.RemoveLoading()
	log.Printf("theme manager stopped (theme %s)", m.Theme())
}
