package expand

import "regexp"

// shortcutPattern matches "<pm>:<script>" package-manager shortcuts.
var shortcutPattern = regexp.MustCompile(`^(npm|pnpm|yarn|bun):(.+)$`)

// Shortcut rewrites a "<pm>:<script>" command into "<pm> run <script>".
// Commands that don't match the anchored pattern pass through unchanged.
// yarn always uses the explicit "run" form for cross-version compatibility.
func Shortcut(cmd string) string {
	m := shortcutPattern.FindStringSubmatch(cmd)
	if m == nil {
		return cmd
	}
	pm, script := m[1], m[2]
	return pm + " run " + script
}
