package capabilities

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/wheelibin/yadom/internal/models"
)

var hexColorPattern = regexp.MustCompile(`^#?([a-fA-F\d]{2})([a-fA-F\d]{2})([a-fA-F\d]{2})$`)

// swatches shown when a colour capability declares no palette
var FallbackPalette = []string{"#ffffff", "#ff0000", "#00ff00", "#0000ff", "#ffff00", "#ff00ff", "#00ffff", "#ff8800"}

func ParseHex(hex string) (r, g, b int, err error) {
	m := hexColorPattern.FindStringSubmatch(hex)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("invalid hex colour %q", hex)
	}
	parts := [3]int{}
	for i := range parts {
		v, _ := strconv.ParseUint(m[i+1], 16, 8)
		parts[i] = int(v)
	}
	return parts[0], parts[1], parts[2], nil
}

func ToHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(r), clampByte(g), clampByte(b))
}

// PackRGB packs a colour as R<<16 | G<<8 | B.
func PackRGB(r, g, b int) int {
	return clampByte(r)<<16 | clampByte(g)<<8 | clampByte(b)
}

func UnpackRGB(n int) (r, g, b int) {
	return (n >> 16) & 255, (n >> 8) & 255, n & 255
}

// RGBToHSV converts 0-255 channels to h 0-360, s and v 0-100, rounded.
func RGBToHSV(r, g, b int) models.HSV {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	d := max - min

	v := max * 100
	s := 0.0
	if max != 0 {
		s = d / max * 100
	}

	h := 0.0
	if d != 0 {
		switch max {
		case rf:
			h = (gf - bf) / d
			if gf < bf {
				h += 6
			}
		case gf:
			h = (bf-rf)/d + 2
		default:
			h = (rf-gf)/d + 4
		}
		h = math.Round(h / 6 * 360)
	}

	return models.HSV{H: int(h), S: int(math.Round(s)), V: int(math.Round(v))}
}

func HSVToRGB(c models.HSV) (r, g, b int) {
	h := math.Mod(float64(c.H), 360)
	if h < 0 {
		h += 360
	}
	s := float64(c.S) / 100
	v := float64(c.V) / 100

	chroma := v * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - chroma

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = chroma, x, 0
	case h < 120:
		rf, gf, bf = x, chroma, 0
	case h < 180:
		rf, gf, bf = 0, chroma, x
	case h < 240:
		rf, gf, bf = 0, x, chroma
	case h < 300:
		rf, gf, bf = x, 0, chroma
	default:
		rf, gf, bf = chroma, 0, x
	}

	return int(math.Round((rf + m) * 255)), int(math.Round((gf + m) * 255)), int(math.Round((bf + m) * 255))
}

// PaletteHex turns one palette entry into a hex colour. Entries may be a
// packed integer, an {r,g,b} object, or either of those wrapped in "rgb", or
// an "hsv" object.
func PaletteHex(raw json.RawMessage) (string, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return colorValueHex(v)
}

func colorValueHex(v any) (string, bool) {
	switch val := v.(type) {
	case float64:
		r, g, b := UnpackRGB(int(val))
		return ToHex(r, g, b), true
	case string:
		if _, _, _, err := ParseHex(val); err == nil {
			if val[0] != '#' {
				val = "#" + val
			}
			return val, true
		}
	case map[string]any:
		if inner, ok := val["rgb"]; ok {
			return colorValueHex(inner)
		}
		if inner, ok := val["hsv"].(map[string]any); ok {
			r, g, b := HSVToRGB(models.HSV{
				H: int(ToNumber(inner["h"], 0)),
				S: int(ToNumber(inner["s"], 0)),
				V: int(ToNumber(inner["v"], 0)),
			})
			return ToHex(r, g, b), true
		}
		_, hasR := val["r"]
		_, hasG := val["g"]
		_, hasB := val["b"]
		if hasR || hasG || hasB {
			return ToHex(
				int(ToNumber(val["r"], 255)),
				int(ToNumber(val["g"], 255)),
				int(ToNumber(val["b"], 255)),
			), true
		}
	}
	return "", false
}

func clampByte(n int) int {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}
