package animation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Variant selects the scene an animation builds.
type Variant string

const (
	VariantLanding Variant = "landing"
	VariantHeader  Variant = "header"
)

// ParseVariant maps a name to a Variant. The empty string selects the header variant, the
// same one an unrecognised type builds.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantLanding:
		return VariantLanding, nil
	case "", VariantHeader:
		return VariantHeader, nil
	default:
		return "", fmt.Errorf("unknown animation variant %q", s)
	}
}

// SphereSegments is the tessellation of the landing shell.
type SphereSegments struct {
	Width  int `koanf:"width" yaml:"width"`
	Height int `koanf:"height" yaml:"height"`
}

// Config is the construction-time configuration of a Controller.
// Overrides is free-form and merged over the typed fields; recognised keys are "type",
// "wireframeDetail", "sphereSegments.width", "sphereSegments.height", "fov" and "maxPixelRatio".
// Nested maps are flattened with "." so {"sphereSegments": {"width": 16}} also works.
type Config struct {
	Type            Variant
	WireframeDetail int
	SphereSegments  SphereSegments
	Overrides       map[string]any
}

// Defaults.
const (
	DefaultWireframeDetail = 1
	DefaultSphereWidth     = 12
	DefaultSphereHeight    = 8
	DefaultFov             = 75.0
	DefaultMaxPixelRatio   = 2.0
)

// DefaultConfig returns the landing configuration with default tessellation.
func DefaultConfig() Config {
	return Config{
		Type:            VariantLanding,
		WireframeDetail: DefaultWireframeDetail,
		SphereSegments:  SphereSegments{Width: DefaultSphereWidth, Height: DefaultSphereHeight},
	}
}

// settings is a Config with overrides applied and invalid values replaced by defaults.
type settings struct {
	variant       Variant
	detail        int
	sphereWidth   int
	sphereHeight  int
	fov           float64
	maxPixelRatio float64
}

func (c Config) resolve() settings {
	s := settings{
		variant:       c.Type,
		detail:        c.WireframeDetail,
		sphereWidth:   c.SphereSegments.Width,
		sphereHeight:  c.SphereSegments.Height,
		fov:           DefaultFov,
		maxPixelRatio: DefaultMaxPixelRatio,
	}

	flat := make(map[string]any, len(c.Overrides))
	flatten("", c.Overrides, flat)

	if v, ok := flat["type"]; ok {
		if name, ok := v.(string); ok {
			s.variant = Variant(name)
		} else if vt, ok := v.(Variant); ok {
			s.variant = vt
		}
	}
	if v, ok := toInt(flat["wireframeDetail"]); ok {
		s.detail = v
	}
	if v, ok := toInt(flat["sphereSegments.width"]); ok {
		s.sphereWidth = v
	}
	if v, ok := toInt(flat["sphereSegments.height"]); ok {
		s.sphereHeight = v
	}
	if v, ok := toFloat(flat["fov"]); ok {
		s.fov = v
	}
	if v, ok := toFloat(flat["maxPixelRatio"]); ok {
		s.maxPixelRatio = v
	}

	s.variant = variantOrHeader(string(s.variant))
	if s.detail < 0 {
		s.detail = DefaultWireframeDetail
	}
	if s.sphereWidth <= 0 {
		s.sphereWidth = DefaultSphereWidth
	}
	if s.sphereHeight <= 0 {
		s.sphereHeight = DefaultSphereHeight
	}
	if s.fov <= 0 || s.fov >= 180 || math.IsNaN(s.fov) {
		s.fov = DefaultFov
	}
	if s.maxPixelRatio <= 0 || math.IsNaN(s.maxPixelRatio) {
		s.maxPixelRatio = DefaultMaxPixelRatio
	}
	return s
}

// variantOrHeader builds landing only when asked for by name; anything else is the header.
func variantOrHeader(name string) Variant {
	if Variant(strings.ToLower(strings.TrimSpace(name))) == VariantLanding {
		return VariantLanding
	}
	return VariantHeader
}

func flatten(prefix string, in map[string]any, out map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
