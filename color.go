package prefseditor

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a color with 16 bits per channel.
type Color struct {
	Red   uint16 `json:"red"`
	Green uint16 `json:"green"`
	Blue  uint16 `json:"blue"`
}

// RGB8 is a color with 8 bits per channel, the depth used by color prompts.
type RGB8 struct {
	R, G, B uint8
}

// ColorFromRGB8 widens an 8-bit color by replicating each channel into both bytes.
func ColorFromRGB8(c RGB8) Color {
	return Color{
		Red:   uint16(c.R)<<8 | uint16(c.R),
		Green: uint16(c.G)<<8 | uint16(c.G),
		Blue:  uint16(c.B)<<8 | uint16(c.B),
	}
}

// RGB8 narrows the color to 8 bits per channel.
func (c Color) RGB8() RGB8 {
	return RGB8{R: uint8(c.Red >> 8), G: uint8(c.Green >> 8), B: uint8(c.Blue >> 8)}
}

// String formats the color as a six-digit hex triplet, e.g. "fce94f".
func (c Color) String() string {
	n := c.RGB8()
	return fmt.Sprintf("%02x%02x%02x", n.R, n.G, n.B)
}

// ParseColor parses a six-digit hex triplet with an optional leading '#'.
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("%w: color %q must have six hex digits", ErrInvalidValue, s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: color %q is not hexadecimal", ErrInvalidValue, s)
	}
	return ColorFromRGB8(RGB8{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}), nil
}
