package theme

import (
	"time"

	"github.com/latentecho/backdrop/engine/host"
)

// ManagerBuilderOption is a functional option for configuring a Manager.
type ManagerBuilderOption func(*Manager)

// WithPreference sets the system colour scheme source. The default reads the environment.
//
// Parameters:
//   - pref: the preference source
//
// Returns:
//   - ManagerBuilderOption: option function to apply
func WithPreference(pref host.ColorSchemePreference) ManagerBuilderOption {
	return func(m *Manager) {
		if pref != nil {
			m.pref = pref
		}
	}
}

// WithLoadingTimeout sets how long the loading class stays after Init. Defaults to one second.
func WithLoadingTimeout(d time.Duration) ManagerBuilderOption {
	return func(m *Manager) {
		if d > 0 {
			m.loadingTimeout = d
		}
	}
}

// WithStorageKey changes the key the preference is stored under.
func WithStorageKey(key string) ManagerBuilderOption {
	return func(m *Manager) {
		if key != "" {
			m.storageKey = key
		}
	}
}
