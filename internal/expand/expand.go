// Package expand implements C2 (package-manager shortcut rewriting) and C3
// (wildcard expansion against the project manifest).
package expand

import (
	"strings"

	"github.com/codemastersolutions/taskly/internal/tasktype"
)

// Expand applies C2 then C3 to one input command, returning one or more
// tasktype.Command records. cwd is the effective working directory used to
// locate the manifest (the task's own Cwd if set, else the run's Cwd).
func Expand(in tasktype.Command, cwd string, sortMode tasktype.WildcardSort) []tasktype.Command {
	normalized := Shortcut(in.Command)

	if !strings.Contains(normalized, "*") {
		out := in
		out.Command = normalized
		return []tasktype.Command{out}
	}

	manifest := ReadManifest(cwd)
	if manifest == nil {
		// Degrade gracefully: keep the normalized (possibly shortcut-rewritten)
		// command as a single task, per §4.3's no-match contract.
		out := in
		out.Command = normalized
		return []tasktype.Command{out}
	}

	matches, ok := Wildcard(normalized, manifest, sortMode)
	if !ok {
		out := in
		out.Command = normalized
		return []tasktype.Command{out}
	}

	// A match's derived name is the part of its script name that the
	// wildcard covered: the pattern's text before the first '*' and after
	// the last '*' is stripped ("start-watch:*" names "start-watch:app" as
	// "app").
	pattern, _, _ := wildcardPattern(normalized)
	before := pattern[:strings.Index(pattern, "*")]
	after := pattern[strings.LastIndex(pattern, "*")+1:]

	out := make([]tasktype.Command, 0, len(matches))
	for _, match := range matches {
		c := in
		c.Command = match.Command
		label := strings.TrimSuffix(strings.TrimPrefix(match.Script, before), after)
		if in.Name != "" {
			c.Name = in.Name + ":" + label
		} else {
			c.Name = label
		}
		out = append(out, c)
	}
	return out
}
