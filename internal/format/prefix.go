// Package format implements C7: per-line prefix construction and coloring.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// executableTruncateLen is the fixed, documented truncation length for the
// "command" prefix kind and the {command} template token (§9 Open Question).
const executableTruncateLen = 16

// PrefixInput carries the fields a prefix shape or template may reference.
type PrefixInput struct {
	Index      int
	Name       string
	PID        int
	Executable string
	Timestamp  string // pre-formatted per RunOptions.TimestampFormat
}

func truncateExecutable(exe string) string {
	if len(exe) > executableTruncateLen {
		return exe[:executableTruncateLen]
	}
	return exe
}

// BuildPrefix renders the prefix text (no color) for one of the enumerated
// kinds, or a template string containing {index}/{pid}/{time}/{command}/{name}
// tokens, per §4.7's table. A template always gets exactly one trailing
// space appended; the enumerated kinds already include their own bracket
// and trailing space (or are empty).
func BuildPrefix(kind string, in PrefixInput) string {
	switch kind {
	case "none":
		return ""
	case "index":
		return "[" + strconv.Itoa(in.Index) + "] "
	case "name":
		if in.Name != "" {
			return "[" + in.Name + "] "
		}
		return "[" + strconv.Itoa(in.Index) + "] "
	case "pid":
		if in.PID != 0 {
			return "[" + strconv.Itoa(in.PID) + "] "
		}
		return ""
	case "time":
		return "[" + in.Timestamp + "] "
	case "command":
		return "[" + truncateExecutable(in.Executable) + "] "
	default:
		return renderTemplate(kind, in) + " "
	}
}

func renderTemplate(tmpl string, in PrefixInput) string {
	replacer := strings.NewReplacer(
		"{index}", strconv.Itoa(in.Index),
		"{pid}", strconv.Itoa(in.PID),
		"{time}", in.Timestamp,
		"{command}", truncateExecutable(in.Executable),
		"{name}", in.Name,
	)
	return replacer.Replace(tmpl)
}

// Colorize wraps text in the SGR escape for spec, if resolvable, always
// appending the reset escape after a colored prefix.
func Colorize(text, spec string, index int) string {
	escape, ok := ResolveColor(spec, index)
	if !ok || text == "" {
		return text
	}
	return fmt.Sprintf("%s%s%s", escape, text, resetEscape)
}
