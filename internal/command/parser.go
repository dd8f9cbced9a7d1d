// Package command implements C1: tokenizing a command string into an
// executable plus argument vector, honoring single/double quotes and
// backslash escapes.
package command

import (
	"github.com/codemastersolutions/taskly/internal/taskerr"
)

// Parsed is the C1 output: an executable and its argument vector.
type Parsed struct {
	Executable string
	Args       []string
}

// Parse tokenizes s by whitespace, honoring paired single quotes, paired
// double quotes, and backslash escapes inside both quote kinds. An empty
// string and an unterminated quote are both parse errors.
func Parse(s string) (Parsed, error) {
	fields, err := tokenize(s)
	if err != nil {
		return Parsed{}, err
	}
	if len(fields) == 0 {
		return Parsed{}, taskerr.New(taskerr.EParse, "empty command")
	}
	return Parsed{Executable: fields[0], Args: fields[1:]}, nil
}

// tokenize splits s into whitespace-delimited fields, honoring quotes and
// backslash escapes. Inside either quote kind, a backslash followed by that
// quote character or by another backslash collapses to the second character
// (`\'` and `\\` in single quotes, `\"` and `\\` in double quotes); any other
// backslash inside quotes is kept literally. Outside quotes, a backslash
// escapes the next rune directly, including a space.
func tokenize(s string) ([]string, error) {
	if s == "" {
		return nil, taskerr.New(taskerr.EParse, "empty command")
	}

	var fields []string
	var cur []rune
	haveField := false

	const (
		none = iota
		single
		double
	)
	state := none
	runes := []rune(s)

	flush := func() {
		if haveField {
			fields = append(fields, string(cur))
			cur = cur[:0]
			haveField = false
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch state {
		case single:
			if r == '\'' {
				state = none
				continue
			}
			if r == '\\' && i+1 < len(runes) {
				next := runes[i+1]
				if next == '\'' || next == '\\' {
					cur = append(cur, next)
					haveField = true
					i++
					continue
				}
			}
			cur = append(cur, r)
			haveField = true
			continue

		case double:
			if r == '"' {
				state = none
				continue
			}
			if r == '\\' && i+1 < len(runes) {
				next := runes[i+1]
				if next == '"' || next == '\\' {
					cur = append(cur, next)
					haveField = true
					i++
					continue
				}
			}
			cur = append(cur, r)
			haveField = true
			continue
		}

		// state == none
		switch {
		case r == '\'':
			state = single
			haveField = true
		case r == '"':
			state = double
			haveField = true
		case r == '\\':
			if i+1 >= len(runes) {
				return nil, taskerr.New(taskerr.EParse, "trailing backslash")
			}
			cur = append(cur, runes[i+1])
			haveField = true
			i++
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur = append(cur, r)
			haveField = true
		}
	}

	if state == single || state == double {
		return nil, taskerr.New(taskerr.EParse, "unterminated quote")
	}
	flush()

	if len(fields) == 0 {
		return nil, taskerr.New(taskerr.EParse, "empty command")
	}
	return fields, nil
}
