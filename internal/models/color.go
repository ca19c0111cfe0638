package models

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultColor is used whenever a color string cannot be parsed.
const DefaultColor Color = "#FF0000"

// Color is an RGB color stored as "#RRGGBB".
type Color string

// ParseColor normalizes a hex color string. It accepts an optional leading '#'
// followed by exactly six hex digits; anything else resolves to DefaultColor.
func ParseColor(raw string) Color {
	const hexDigits = 6

	hex := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(hex) != hexDigits {
		return DefaultColor
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return DefaultColor
	}

	return Color(fmt.Sprintf("#%06X", rgb))
}

func (c Color) String() string {
	return string(c)
}
