package expand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemastersolutions/taskly/internal/tasktype"
)

const manifestJSON = `{
  "scripts": {
    "start-watch:app": "webpack watch --config app.js",
    "start-watch:customer": "webpack watch --config customer.js",
    "start-watch:admin": "webpack watch --config admin.js"
  }
}`

func writeManifest(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(manifestJSON), 0o644))
}

func TestShortcut_MatchesKnownPMs(t *testing.T) {
	assert.Equal(t, "npm run build", Shortcut("npm:build"))
	assert.Equal(t, "pnpm run test", Shortcut("pnpm:test"))
	assert.Equal(t, "yarn run lint", Shortcut("yarn:lint"))
	assert.Equal(t, "bun run dev", Shortcut("bun:dev"))
}

func TestShortcut_PassesThroughOtherInputs(t *testing.T) {
	assert.Equal(t, "npm run build", Shortcut("npm run build"))
	assert.Equal(t, "pm build", Shortcut("pm build")) // space, not colon: not a shortcut
	assert.Equal(t, "./script.sh", Shortcut("./script.sh"))
}

func TestShortcut_IsIdempotent(t *testing.T) {
	once := Shortcut("npm:build")
	twice := Shortcut(once)
	assert.Equal(t, once, twice)
}

// TestWildcard_AlphaVsPackageOrdering is spec §8 scenario 4.
func TestWildcard_AlphaVsPackageOrdering(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir)

	in := tasktype.Command{Command: "pnpm:start-watch:*"}

	alpha := Expand(in, dir, tasktype.WildcardAlpha)
	require.Len(t, alpha, 3)
	assert.Equal(t, []string{"admin", "app", "customer"}, namesOf(alpha))

	pkg := Expand(in, dir, tasktype.WildcardPackage)
	require.Len(t, pkg, 3)
	assert.Equal(t, []string{"app", "customer", "admin"}, namesOf(pkg))
}

// TestWildcard_NamesOverrideAppliesPostExpansion is spec §8 scenario 5.
func TestWildcard_NamesOverrideAppliesPostExpansion(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir)

	in := tasktype.Command{Command: "pnpm:start-watch:*"}
	expanded := Expand(in, dir, tasktype.WildcardAlpha)
	require.Len(t, expanded, 3)
	assert.Equal(t, []string{"admin", "app", "customer"}, namesOf(expanded))

	names := []string{"N-app", "N-customer", "N-admin"}
	for i := range expanded {
		if i < len(names) {
			expanded[i].Name = names[i]
		}
	}
	assert.Equal(t, "N-app", expanded[0].Name)
	assert.Equal(t, "N-customer", expanded[1].Name)
	assert.Equal(t, "N-admin", expanded[2].Name)
}

func TestWildcard_EmptyScriptsYieldsSingleUnexpandedTask(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(`{"scripts": {}}`), 0o644))

	in := tasktype.Command{Command: "npm:build*"}
	out := Expand(in, dir, tasktype.WildcardAlpha)
	require.Len(t, out, 1)
	assert.Equal(t, "npm run build*", out[0].Command)
}

func TestWildcard_MissingManifestDegrades(t *testing.T) {
	dir := t.TempDir()
	in := tasktype.Command{Command: "npm:build*"}
	out := Expand(in, dir, tasktype.WildcardAlpha)
	require.Len(t, out, 1)
	assert.Equal(t, "npm run build*", out[0].Command)
}

func TestWildcard_NamedBaseProducesCompositeName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir)

	in := tasktype.Command{Command: "pnpm:start-watch:*", Name: "web"}
	out := Expand(in, dir, tasktype.WildcardAlpha)
	require.Len(t, out, 3)
	assert.Equal(t, "web:admin", out[0].Name)
}

func namesOf(cmds []tasktype.Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Name
	}
	return out
}
