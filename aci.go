package plotstyle

import (
	"fmt"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Special AutoCAD Color Index values.
const (
	ByBlock = -1  // ByBlock uses the color of the enclosing block reference
	ByLayer = 256 // ByLayer uses the color of the entity layer
	Default = 257 // Default is the sentinel ByBlock resolves to

	hueFirst = 10  // first procedurally colored index
	hueLast  = 255 // last procedurally colored index
)

// Color code represented as a 6 digit hexadecimal RRGGBB value without a leading #.
//
// For example, the code of ACI red "cc0000" (red: cc, green: 00, blue: 00).
type Color string

const (
	ABlack   Color = "000000" // 0, black
	ARed     Color = "cc0000" // 1, red
	AYellow  Color = "cccc00" // 2, yellow
	AGreen   Color = "00cc00" // 3, green
	ACyan    Color = "00cccc" // 4, cyan
	ABlue    Color = "0000cc" // 5, blue
	AMagenta Color = "cc00cc" // 6, magenta
	AWhite   Color = "cccccc" // 7, white or black depending on the background
	ADark    Color = "000000" // 8, dark gray
	ALight   Color = "c0c0c0" // 9, light gray
	ALayer   Color = "cccccc" // 256, by layer gray
	ADefault Color = "000000" // 257, block or entity default
)

// CSS returns the color value with a leading #.
func (c Color) CSS() string {
	if c == "" {
		return ""
	}
	return "#" + string(c)
}

// RGB returns the red, green and blue channels of the color.
// An invalid color returns -1 for every channel.
func (c Color) RGB() [3]int {
	const hexlen = 6
	bad := [3]int{-1, -1, -1}
	if len(c) != hexlen {
		return bad
	}
	var rgb [3]int
	for i := range rgb {
		v, err := strconv.ParseUint(string(c[i*2:i*2+2]), 16, 8)
		if err != nil {
			return bad
		}
		rgb[i] = int(v)
	}
	return rgb
}

// Palette returns the fixed ACI colors, keyed by the color index.
// The returned map is a new copy on each call.
func Palette() map[int]Color {
	return map[int]Color{
		0: ABlack, 1: ARed, 2: AYellow, 3: AGreen, 4: ACyan,
		5: ABlue, 6: AMagenta, 7: AWhite, 8: ADark, 9: ALight,
		ByLayer: ALayer, Default: ADefault,
	}
}

// Resolve takes an AutoCAD Color Index and returns the corresponding color
// as both a hexadecimal string and RGB values.
//
// Indexes 0 to 9, ByLayer and Default use a fixed palette. ByBlock resolves
// the same as Default. Every other value is clamped between 10 and 255 and
// spread across the hue wheel at full saturation and half lightness,
// so both 10 and 255 are red.
func Resolve(aci int) (Color, [3]int) {
	c := ResolveHex(aci)
	return c, c.RGB()
}

// ResolveHex returns the hexadecimal string of the color index.
//
//nolint:mnd
func ResolveHex(aci int) Color {
	if aci == ByBlock {
		aci = Default
	}
	switch aci {
	case 0:
		return ABlack
	case 1:
		return ARed
	case 2:
		return AYellow
	case 3:
		return AGreen
	case 4:
		return ACyan
	case 5:
		return ABlue
	case 6:
		return AMagenta
	case 7:
		return AWhite
	case 8:
		return ADark
	case 9:
		return ALight
	case ByLayer:
		return ALayer
	case Default:
		return ADefault
	}
	idx := clamp(aci, hueFirst, hueLast)
	hue := float64(idx-hueFirst) / float64(hueLast-hueFirst) * 360
	r, g, b := colorful.Hsl(hue, 1, 0.5).Clamped().RGB255()
	return Color(fmt.Sprintf("%02x%02x%02x", r, g, b))
}

// ResolveRGB returns the red, green and blue values of the color index.
func ResolveRGB(aci int) [3]int {
	return ResolveHex(aci).RGB()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
