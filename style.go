package plotstyle

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Table names used by plot style payloads.
const (
	ACITable        = "aci_table"               // ACITable maps color indexes to style names
	LineweightTable = "lineweight_table"        // LineweightTable maps lineweight indexes to millimeters
	CustomTable     = "custom_lineweight_table" // CustomTable is an alternative name of the lineweight table
)

// Per-index property keys.
const (
	keyCustom   = "custom_lineweight_table"
	keyWeight   = "lineweight"
	keyPlotLW   = "plot_lineweight"
	keyWeightAl = "weight"
	keyScrTable = "screening_table"
	keyScreen   = "screening"
	keyPlotScr  = "plot_screening"
	keyScr      = "screen"
)

// decimal matches a plain decimal number without an exponent, such as "0.35", "-1" or ".5".
var decimal = regexp.MustCompile(`^-?\d*\.?\d+$`)

// Style is a named pen style of a single color index.
type Style struct {
	ACI        int      `json:"aci"` // ACI is 0 to 255, or ByBlock for an unusable index
	Name       string   `json:"name"`
	Lineweight *float64 `json:"lineweight_mm,omitempty"`
	Color      Color    `json:"color_hex"`
	RGB        [3]int   `json:"color_rgb"`
	Screening  *int     `json:"screening_percent,omitempty"`
	Extra      *Table   `json:"extra,omitempty"`
}

// Catalog is the decoded content of a plot style file.
type Catalog struct {
	Header  string  // Header is the first line of the file header
	Kind    Kind    // Kind is the plot style variant named in the header
	Globals *Table  // Globals are the key values found outside of any table
	Styles  []Style // Styles are in the order of the aci_table entries
}

// Len returns the number of styles.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Styles)
}

// Style returns the first style using the color index.
func (c *Catalog) Style(aci int) (Style, bool) {
	if c == nil {
		return Style{}, false
	}
	i := slices.IndexFunc(c.Styles, func(s Style) bool { return s.ACI == aci })
	if i < 0 {
		return Style{}, false
	}
	return c.Styles[i], true
}

// assemble joins the aci_table against the per-index tables and the lineweight table.
// An index that is not an integer between 0 and 255 uses the ByBlock color index.
func assemble(t tables) []Style {
	names := t.named[ACITable]
	lw, ok := t.named[LineweightTable]
	if !ok {
		lw = t.named[CustomTable]
	}
	styles := make([]Style, 0, names.Len())
	names.Each(func(index, name string) {
		aci, err := strconv.Atoi(index)
		if err != nil || aci < 0 || aci > hueLast {
			aci = ByBlock
		}
		props := t.named[index]
		hex, rgb := Resolve(aci)
		styles = append(styles, Style{
			ACI:        aci,
			Name:       strings.TrimSpace(name),
			Lineweight: lineweight(props, lw),
			Color:      hex,
			RGB:        rgb,
			Screening:  screening(props),
			Extra:      extra(props),
		})
	})
	return styles
}

// lineweight returns the millimeter value of the properties.
// A direct custom_lineweight_table value takes precedence over
// a lineweight index into the lineweight table.
func lineweight(props, lw *Table) *float64 {
	if s, ok := props.Get(keyCustom); ok && decimal.MatchString(s) {
		if mm, ok := millimeters(s); ok {
			return &mm
		}
	}
	s, ok := props.Get(keyWeight)
	if !ok {
		return nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	v, ok := lw.Get(strconv.Itoa(i))
	if !ok {
		return nil
	}
	if mm, ok := millimeters(strings.TrimSpace(v)); ok {
		return &mm
	}
	return nil
}

func millimeters(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// screening returns the percentage of the first non-empty screening property.
// Only the leading digits are used, so "80%" returns 80.
// Values above 100 are clamped.
func screening(props *Table) *int {
	const maxPercent = 100
	for _, key := range []string{keyScrTable, keyScreen, keyPlotScr, keyScr} {
		s, ok := props.Get(key)
		if !ok || s == "" {
			continue
		}
		end := 0
		for end < len(s) && '0' <= s[end] && s[end] <= '9' {
			end++
		}
		if end == 0 {
			return nil
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil || n > maxPercent {
			n = maxPercent
		}
		return &n
	}
	return nil
}

// extra returns the properties that are not lineweight or screening keys.
func extra(props *Table) *Table {
	consumed := []string{
		keyCustom, keyWeight, keyPlotLW, keyWeightAl,
		keyScrTable, keyScreen, keyPlotScr, keyScr,
	}
	out := NewTable()
	props.Each(func(key, value string) {
		if slices.Contains(consumed, key) {
			return
		}
		out.Set(key, value)
	})
	if out.Len() == 0 {
		return nil
	}
	return out
}
