package common

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is an sRGB colour with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Black is the fallback for colour tokens that fail to parse.
var Black = Color{}

// ParseColor parses a CSS colour: hex ("#rgb" or "#rrggbb"), rgb()/rgba() with integer or
// percentage channels, hsl()/hsla(), or a CSS colour name. Alpha is accepted and ignored.
// Surrounding whitespace and case are ignored.
//
// Parameters:
//   - s: the colour string
//
// Returns:
//   - Color: the parsed colour
//   - error: error if s is not a recognised colour
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	var (
		c   colorful.Color
		err error
	)
	switch {
	case strings.HasPrefix(v, "#"):
		c, err = colorful.Hex(v)
	case strings.HasPrefix(v, "rgb"):
		c, err = parseRGBFunc(v)
	case strings.HasPrefix(v, "hsl"):
		c, err = parseHSLFunc(v)
	default:
		named, ok := colornames.Map[v]
		if !ok {
			err = errors.New("unknown colour name")
			break
		}
		c, _ = colorful.MakeColor(named)
	}
	if err != nil {
		return Black, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B}, nil
}

// funcArgs splits "name(a, b, c)" or "name(a b c / d)" into its first three arguments.
func funcArgs(v string) ([3]string, error) {
	var args [3]string
	open, end := strings.IndexByte(v, '('), strings.LastIndexByte(v, ')')
	if open < 0 || end != len(v)-1 {
		return args, errors.New("malformed colour function")
	}
	fields := strings.FieldsFunc(v[open+1:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(fields) != 3 && len(fields) != 4 {
		return args, errors.New("colour function needs 3 or 4 arguments")
	}
	copy(args[:], fields)
	return args, nil
}

func parseRGBFunc(v string) (colorful.Color, error) {
	args, err := funcArgs(v)
	if err != nil {
		return colorful.Color{}, err
	}
	var ch [3]float64
	for i, a := range args {
		if pct, ok := strings.CutSuffix(a, "%"); ok {
			f, err := strconv.ParseFloat(pct, 64)
			if err != nil {
				return colorful.Color{}, err
			}
			ch[i] = f / 100
			continue
		}
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return colorful.Color{}, err
		}
		ch[i] = f / 255
	}
	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}.Clamped(), nil
}

func parseHSLFunc(v string) (colorful.Color, error) {
	args, err := funcArgs(v)
	if err != nil {
		return colorful.Color{}, err
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return colorful.Color{}, err
	}
	var sl [2]float64
	for i, a := range args[1:] {
		f, err := strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
		if err != nil {
			return colorful.Color{}, err
		}
		sl[i] = max(0, min(1, f/100))
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsl(h, sl[0], sl[1]).Clamped(), nil
}

// Lerp interpolates towards to by t in linear RGB and re-encodes the result as sRGB.
// t is clamped to [0, 1].
func (c Color) Lerp(to Color, t float64) Color {
	t = max(0, min(1, t))
	out := c.colorful().BlendLinearRgb(to.colorful(), t).Clamped()
	return Color{R: out.R, G: out.G, B: out.B}
}

// Linear returns the colour decoded to linear RGB, the form the GPU blends in.
func (c Color) Linear() [3]float32 {
	r, g, b := c.colorful().LinearRgb()
	return [3]float32{float32(r), float32(g), float32(b)}
}

// Hex returns the "#rrggbb" form of the colour.
func (c Color) Hex() string {
	return c.colorful().Clamped().Hex()
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}
