package signroom

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func (c Color) RGB() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// UnmarshalJSON accepts the object form as well as the legacy string form
// the annotation engine serializes, e.g. `"#{r:255,g:187,b:133}"`.
func (c *Color) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		parsed, err := ParseColor(s)
		if err != nil {
			return err
		}
		*c = *parsed
		return nil
	}

	type plain Color
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Color(p)
	return nil
}

var (
	White       = Color{R: 255, G: 255, B: 255}
	Transparent = Color{}
)

// Palette is the fixed set of colors handed out to signees. Seven entries;
// once they are all in use the allocator falls back to random repeats.
var Palette = []Color{
	{R: 192, G: 192, B: 192}, // light grey
	{R: 162, G: 233, B: 132}, // light green
	{R: 252, G: 238, B: 124}, // light yellow
	{R: 255, G: 187, B: 133}, // light orange
	{R: 247, G: 141, B: 138}, // light red
	{R: 141, G: 184, B: 255}, // light blue
	{R: 15, G: 252, B: 241},  // aqua
}

var colorKeyPattern = regexp.MustCompile(`(\w+):`)

// ParseColor reads the serialized form colors come back in from the
// annotation engine, e.g. `#{r:255,g:187,b:133}`. A malformed string is an
// error, not a panic: callers log it and carry on without a color.
func ParseColor(s string) (*Color, error) {
	if s == "" {
		return nil, fmt.Errorf("empty color string")
	}
	if len(s) < 2 {
		return nil, fmt.Errorf("color string too short: %q", s)
	}

	jsonString := colorKeyPattern.ReplaceAllString(s[1:], `"$1":`)
	if !strings.HasPrefix(jsonString, "{") {
		return nil, fmt.Errorf("malformed color string: %q", s)
	}

	var c Color
	if err := json.Unmarshal([]byte(jsonString), &c); err != nil {
		return nil, fmt.Errorf("malformed color string %q: %v", s, err)
	}
	return &c, nil
}
