package format

import (
	"fmt"
	"regexp"
	"strconv"
)

// namedColors maps a fixed set of color names to their SGR escape codes,
// the table referenced (but not specified) by spec §4.7.
var namedColors = map[string]string{
	"black":   "30",
	"red":     "31",
	"green":   "32",
	"yellow":  "33",
	"blue":    "34",
	"magenta": "35",
	"cyan":    "36",
	"white":   "37",
	"gray":    "90",
	"grey":    "90",
}

// autoRotation is the deterministic color sequence "auto" cycles through by
// task index.
var autoRotation = []string{"cyan", "yellow", "green", "magenta", "blue", "red"}

const resetEscape = "\x1b[0m"

var hexPattern = regexp.MustCompile(`^#([0-9a-fA-F]{6})$`)
var rgbPattern = regexp.MustCompile(`^rgb\((\d{1,3}),\s*(\d{1,3}),\s*(\d{1,3})\)$`)

// ResolveColor resolves a color spec (named color, #RRGGBB, rgb(r,g,b), or
// "auto") to an SGR escape prefix. ok is false when the color disables
// coloring (unknown name, empty spec).
func ResolveColor(spec string, index int) (escape string, ok bool) {
	if spec == "" {
		return "", false
	}
	if spec == "auto" {
		name := autoRotation[index%len(autoRotation)]
		return "\x1b[" + namedColors[name] + "m", true
	}
	if m := hexPattern.FindStringSubmatch(spec); m != nil {
		r, g, b := hexComponents(m[1])
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b), true
	}
	if m := rgbPattern.FindStringSubmatch(spec); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b), true
	}
	if code, ok := namedColors[spec]; ok {
		return "\x1b[" + code + "m", true
	}
	return "", false
}

func hexComponents(hex string) (r, g, b int) {
	v, _ := strconv.ParseInt(hex, 16, 32)
	return int(v>>16) & 0xFF, int(v>>8) & 0xFF, int(v) & 0xFF
}
