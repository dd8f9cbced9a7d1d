package cliapp

import (
	"strings"

	"github.com/codemastersolutions/taskly/internal/shellresolve"
)

// extractShellFlag pre-scans args for "--shell" and, per §6, optionally
// consumes the following token only when it names a known shell (cmd,
// powershell, pwsh, bash, sh); otherwise --shell is a bare boolean flag.
//
// pflag's NoOptDefVal mechanism only recognizes "--flag=value" as carrying a
// value when a default is configured for the no-value case — it cannot
// decide, by inspecting the *next* bare token, whether to consume it. That
// lookahead is exactly what §6 asks for, so --shell is peeled off the
// argument list here before the rest is handed to cobra/pflag, the same way
// NielsdaWheelz-agency's internal/cli/dispatch.go hand-parses some flags
// directly from argv rather than forcing every flag through one library's
// grammar.
//
// Returns the remaining args (with --shell and its optional value removed)
// and the resolved shell value: nil (not passed), true (bare flag), or a
// shell name string.
func extractShellFlag(args []string) (remaining []string, shell interface{}) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--shell" {
			if i+1 < len(args) && shellresolve.IsKnownShellName(args[i+1]) {
				shell = args[i+1]
				remaining = append(remaining, args[:i]...)
				remaining = append(remaining, args[i+2:]...)
				return remaining, shell
			}
			shell = true
			remaining = append(remaining, args[:i]...)
			remaining = append(remaining, args[i+1:]...)
			return remaining, shell
		}
		if strings.HasPrefix(a, "--shell=") {
			val := strings.TrimPrefix(a, "--shell=")
			remaining = append(remaining, args[:i]...)
			remaining = append(remaining, args[i+1:]...)
			return remaining, val
		}
	}
	return args, nil
}
