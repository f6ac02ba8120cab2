// Package colors holds the Paintly paint color catalog.
//
// Colors are identified three ways: a display name, a Japan Paint
// Manufacturers Association (JIS) color code for professional-grade
// fidelity claims, and the hex/RGB representation used for rendering.
// Some colors additionally carry a Munsell notation.
//
// The catalog is static. Selections arriving from clients are resolved
// against it exactly once, at request-build time.
package colors

import (
	"fmt"
	"strings"
)

// RGB is an 8-bit-per-channel color triple.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// PaintColor is a single catalog entry.
type PaintColor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"` // JIS paint code, e.g. "07-40X"
	Hex     string `json:"hex"`  // "#RRGGBB"
	RGB     RGB    `json:"rgb"`
	Munsell string `json:"munsell,omitempty"`
}

// Validate checks that the entry carries everything prompt construction
// needs. A color with a missing hex or code must never reach the prompt
// builder, where it would interpolate as an empty token.
func (c PaintColor) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("paint color %q has no name", c.ID)
	}
	if c.Code == "" {
		return fmt.Errorf("paint color %q (%s) has no JIS code", c.ID, c.Name)
	}
	if !strings.HasPrefix(c.Hex, "#") || len(c.Hex) != 7 {
		return fmt.Errorf("paint color %q (%s) has malformed hex %q", c.ID, c.Name, c.Hex)
	}
	return nil
}

// Surface identifies which part of the building a catalog applies to.
type Surface string

const (
	SurfaceWall Surface = "wall"
	SurfaceRoof Surface = "roof"
	SurfaceDoor Surface = "door"
)

// WallColors is the catalog of wall paint colors.
var WallColors = []PaintColor{
	{ID: "n90", Name: "White", Code: "N90", Hex: "#E5E5E5", RGB: RGB{229, 229, 229}},
	{ID: "n80", Name: "Light Gray", Code: "N80", Hex: "#CCCCCC", RGB: RGB{204, 204, 204}},
	{ID: "n70", Name: "Gray", Code: "N70", Hex: "#B3B3B3", RGB: RGB{179, 179, 179}},
	{ID: "07-40x", Name: "Red", Code: "07-40X", Hex: "#B90019", RGB: RGB{185, 0, 25}, Munsell: "7.5R4/14"},
	{ID: "15-50t", Name: "Beige", Code: "15-50T", Hex: "#D4A76A", RGB: RGB{212, 167, 106}, Munsell: "10YR7/6"},
	{ID: "22-85b", Name: "Light Yellow", Code: "22-85B", Hex: "#F5E6A3", RGB: RGB{245, 230, 163}, Munsell: "5Y9/4"},
	{ID: "35-70p", Name: "Green", Code: "35-70P", Hex: "#5FA775", RGB: RGB{95, 167, 117}, Munsell: "10GY6/8"},
	{ID: "45-40t", Name: "Blue", Code: "45-40T", Hex: "#4A7C9E", RGB: RGB{74, 124, 158}, Munsell: "10B5/8"},
	{ID: "55-30d", Name: "Navy", Code: "55-30D", Hex: "#2B4C6F", RGB: RGB{43, 76, 111}, Munsell: "5PB3/8"},
	{ID: "62-60h", Name: "Purple", Code: "62-60H", Hex: "#8B5A8C", RGB: RGB{139, 90, 140}, Munsell: "5P5/8"},
	{ID: "09-60l", Name: "Pink", Code: "09-60L", Hex: "#E8A0B8", RGB: RGB{232, 160, 184}, Munsell: "5RP7/8"},
	{ID: "05-30l", Name: "Brown", Code: "05-30L", Hex: "#8B5A3C", RGB: RGB{139, 90, 60}, Munsell: "5YR4/6"},
	{ID: "n20", Name: "Black", Code: "N20", Hex: "#333333", RGB: RGB{51, 51, 51}},
}

// RoofColors is the catalog of roof paint colors.
var RoofColors = []PaintColor{
	{ID: "n25", Name: "Charcoal Black", Code: "N25", Hex: "#404040", RGB: RGB{64, 64, 64}},
	{ID: "09-20d", Name: "Brown", Code: "09-20D", Hex: "#6B4423", RGB: RGB{107, 68, 35}, Munsell: "7.5YR3/6"},
	{ID: "45-20d", Name: "Dark Blue", Code: "45-20D", Hex: "#2C4A5F", RGB: RGB{44, 74, 95}, Munsell: "10B3/6"},
	{ID: "35-30d", Name: "Dark Green", Code: "35-30D", Hex: "#2B5F3F", RGB: RGB{43, 95, 63}, Munsell: "10GY3/6"},
	{ID: "07-30t", Name: "Red Brown", Code: "07-30T", Hex: "#8B3A3A", RGB: RGB{139, 58, 58}, Munsell: "5R3/8"},
	{ID: "n60", Name: "Medium Gray", Code: "N60", Hex: "#999999", RGB: RGB{153, 153, 153}},
	{ID: "15-40v", Name: "Orange", Code: "15-40V", Hex: "#CC7722", RGB: RGB{204, 119, 34}, Munsell: "7.5YR6/10"},
	{ID: "19-60h", Name: "Terracotta", Code: "19-60H", Hex: "#B85C43", RGB: RGB{184, 92, 67}, Munsell: "2.5YR5/10"},
}

// DoorColors is the catalog of door paint colors.
var DoorColors = []PaintColor{
	{ID: "05-30d", Name: "Dark Brown", Code: "05-30D", Hex: "#5C3A28", RGB: RGB{92, 58, 40}, Munsell: "5YR3/4"},
	{ID: "09-40l", Name: "Light Brown", Code: "09-40L", Hex: "#A67C52", RGB: RGB{166, 124, 82}, Munsell: "7.5YR6/6"},
	{ID: "n90", Name: "White", Code: "N90", Hex: "#E5E5E5", RGB: RGB{229, 229, 229}},
	{ID: "n20", Name: "Black", Code: "N20", Hex: "#333333", RGB: RGB{51, 51, 51}},
	{ID: "45-30l", Name: "Blue", Code: "45-30L", Hex: "#6B9BD2", RGB: RGB{107, 155, 210}, Munsell: "10B6/8"},
	{ID: "35-50p", Name: "Green", Code: "35-50P", Hex: "#7FAA7F", RGB: RGB{127, 170, 127}, Munsell: "10GY6/6"},
	{ID: "07-50t", Name: "Red", Code: "07-50T", Hex: "#CC5555", RGB: RGB{204, 85, 85}, Munsell: "7.5R5/10"},
	{ID: "22-70h", Name: "Yellow", Code: "22-70H", Hex: "#E6C84B", RGB: RGB{230, 200, 75}, Munsell: "5Y8/8"},
	{ID: "n50", Name: "Gray", Code: "N50", Hex: "#808080", RGB: RGB{128, 128, 128}},
}

// CatalogFor returns the catalog for a surface, or nil for an unknown surface.
func CatalogFor(surface Surface) []PaintColor {
	switch surface {
	case SurfaceWall:
		return WallColors
	case SurfaceRoof:
		return RoofColors
	case SurfaceDoor:
		return DoorColors
	}
	return nil
}

// Find looks up a color by name or ID within the catalog for the given
// surface. Matching is case-insensitive on the ID and exact on the name.
func Find(surface Surface, nameOrID string) (PaintColor, bool) {
	for _, c := range CatalogFor(surface) {
		if c.Name == nameOrID || strings.EqualFold(c.ID, nameOrID) {
			return c, true
		}
	}
	return PaintColor{}, false
}
