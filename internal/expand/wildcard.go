package expand

import (
	"sort"
	"strings"

	"github.com/codemastersolutions/taskly/internal/tasktype"
)

// Match is one wildcard expansion result: the selected script name and the
// reconstructed "<pm> run <script>" command that invokes it.
type Match struct {
	Script  string
	Command string
}

// Wildcard expands a "<pm> run <pattern>" command (pattern containing '*')
// against the manifest's scripts map. sortMode selects alphabetical or
// manifest-insertion ordering. It returns the matches and whether expansion
// actually happened (false means: no wildcard, or no matches — caller keeps
// the original command as a single task). Each match's Command re-invokes
// the package manager with the resolved script name (not the manifest's raw
// script body), so pre/post hooks and the package manager's own run
// semantics still apply.
func Wildcard(runCmd string, m *Manifest, sortMode tasktype.WildcardSort) ([]Match, bool) {
	pattern, prefix, ok := wildcardPattern(runCmd)
	if !ok {
		return nil, false
	}

	names := m.Names()
	var matched []string
	for _, name := range names {
		if literalStarMatch(pattern, name) {
			matched = append(matched, name)
		}
	}
	if len(matched) == 0 {
		return nil, false
	}

	if sortMode == tasktype.WildcardAlpha {
		sort.Strings(matched)
	}
	// sortMode == package: matched is already in manifest insertion order,
	// since names was iterated in that order above.

	out := make([]Match, 0, len(matched))
	for _, name := range matched {
		out = append(out, Match{Script: name, Command: prefix + name})
	}
	return out, true
}

// wildcardPattern extracts the pattern after "run " when it contains '*',
// along with the prefix ("<pm> run ") to reconstruct a resolved command.
// runCmd is expected to already be shortcut-normalized (e.g. "npm run
// start-watch:*"). Returns ok=false if there's no "run " token or no '*'.
func wildcardPattern(runCmd string) (pattern, prefix string, ok bool) {
	idx := strings.Index(runCmd, "run ")
	if idx < 0 {
		return "", "", false
	}
	prefix = runCmd[:idx+len("run ")]
	pattern = runCmd[idx+len("run "):]
	if !strings.Contains(pattern, "*") {
		return "", "", false
	}
	return pattern, prefix, true
}

// literalStarMatch implements a literal-star glob: characters match themselves;
// '*' matches any substring, including the empty string. Unlike
// path/filepath.Match, '*' here crosses any separator and no other glob
// metacharacters (?, [...]) are special.
func literalStarMatch(pattern, name string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == name
	}

	rest := name
	for i, part := range parts {
		switch {
		case i == 0:
			if !strings.HasPrefix(rest, part) {
				return false
			}
			rest = rest[len(part):]
		case i == len(parts)-1:
			if !strings.HasSuffix(rest, part) {
				return false
			}
		default:
			idx := strings.Index(rest, part)
			if idx < 0 {
				return false
			}
			rest = rest[idx+len(part):]
		}
	}
	return true
}
