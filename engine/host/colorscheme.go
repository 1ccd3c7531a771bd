package host

import (
	"os"
	"strconv"
	"strings"
)

// StaticColorScheme is a fixed preference.
type StaticColorScheme struct {
	Dark  bool
	Known bool
}

func (s StaticColorScheme) PrefersDark() (bool, bool) {
	return s.Dark, s.Known
}

// EnvColorScheme derives the system preference from the environment.
//
// BACKDROP_COLOR_SCHEME ("dark" or "light") wins; otherwise a GTK_THEME ending in ":dark"
// means dark, and a COLORFGBG background of 0-6 or 8 means dark while 7 or 9-15 means light.
type EnvColorScheme struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

func (e EnvColorScheme) PrefersDark() (bool, bool) {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	switch strings.ToLower(strings.TrimSpace(getenv("BACKDROP_COLOR_SCHEME"))) {
	case "dark":
		return true, true
	case "light":
		return false, true
	}

	if theme := getenv("GTK_THEME"); theme != "" {
		return strings.HasSuffix(strings.ToLower(theme), ":dark"), true
	}

	if fgbg := getenv("COLORFGBG"); fgbg != "" {
		parts := strings.Split(fgbg, ";")
		bg, err := strconv.Atoi(parts[len(parts)-1])
		if err == nil && bg >= 0 && bg <= 15 {
			return bg <= 6 || bg == 8, true
		}
	}
	return false, false
}
