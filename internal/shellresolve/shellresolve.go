// Package shellresolve implements C5: choosing the shell mode for a task
// from its per-command hint and OS heuristics.
package shellresolve

import (
	"runtime"
	"strings"

	"github.com/codemastersolutions/taskly/internal/tasktype"
)

// knownShells maps a recognized shell name hint to its OS-appropriate
// executable.
var knownShells = map[string]map[string]string{
	"cmd": {
		"windows": "cmd.exe",
		"default": "cmd",
	},
	"powershell": {
		"windows": "powershell.exe",
		"default": "powershell",
	},
	"pwsh": {
		"windows": "pwsh.exe",
		"default": "pwsh",
	},
	"bash": {
		"default": "bash",
	},
	"sh": {
		"default": "sh",
	},
}

// IsKnownShellName reports whether name is one of the recognized shell
// hints (cmd, powershell, pwsh, bash, sh). Used by the CLI flag parser to
// decide whether "--shell <token>" should consume <token> as a shell name
// or treat --shell as a bare boolean flag.
func IsKnownShellName(name string) bool {
	_, ok := knownShells[name]
	return ok
}

func lookupKnownShell(name string) (string, bool) {
	table, ok := knownShells[name]
	if !ok {
		return "", false
	}
	if exe, ok := table[runtime.GOOS]; ok {
		return exe, true
	}
	return table["default"], true
}

// defaultShell returns the platform default shell executable.
func defaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	return "sh"
}

// Resolve implements the §4.5 decision table for one task's shell hint.
func Resolve(shell interface{}, command string) tasktype.ShellDecision {
	switch v := shell.(type) {
	case string:
		if v != "" {
			if exe, ok := lookupKnownShell(v); ok {
				return tasktype.ShellDecision{UseShell: true, Executable: exe}
			}
			return tasktype.ShellDecision{UseShell: true, Executable: v}
		}
		// empty string falls through to the false/absent branch below.
	case bool:
		if v {
			return tasktype.ShellDecision{UseShell: true, Executable: defaultShell()}
		}
	}

	if runtime.GOOS == "windows" {
		switch {
		case strings.HasSuffix(command, ".ps1"):
			return tasktype.ShellDecision{UseShell: true, Executable: "powershell.exe"}
		case strings.HasSuffix(command, ".bat"), strings.HasSuffix(command, ".cmd"):
			return tasktype.ShellDecision{UseShell: true, Executable: defaultShell()}
		}
	}

	return tasktype.ShellDecision{UseShell: false}
}
