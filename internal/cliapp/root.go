// Package cliapp builds the taskly command line: flag definitions and the
// translation from parsed flags into tasktype.RunOptions/tasktype.Command,
// per §6 External Interfaces.
package cliapp

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/codemastersolutions/taskly/internal/runner"
	"github.com/codemastersolutions/taskly/internal/taskerr"
	"github.com/codemastersolutions/taskly/internal/tasktype"
)

// flagSet holds the raw pflag-bound values before translation.
type flagSet struct {
	names            []string
	maxProcesses     int
	killOthersOn     []string
	successCondition string
	raw              bool
	cwd              string
	prefix           string
	prefixColors     []string
	timestampFormat  string
	wildcardSort     string
	noWildcardSort   bool
	ignoreMissing    bool
}

// result carries the outcome of a run back out of cobra's RunE closure.
type result struct {
	outcome      runner.Outcome
	ran          bool
	usagePrinted bool
}

// printUsageError writes err's complaint to stderr and the command's usage
// text to stdout, per §6/§7: argument and parse errors get "usage written
// to stdout... the specific complaint to stderr."
func printUsageError(cmd *cobra.Command, stdout, stderr io.Writer, err error) {
	fmt.Fprintln(stderr, err)
	fmt.Fprint(stdout, cmd.UsageString())
}

// Execute runs the root command against args (already stripped of the
// program name), having first peeled off --shell via extractShellFlag since
// its optional-argument grammar doesn't fit pflag's value model.
func Execute(args []string, stdout, stderr io.Writer, logger *logrus.Logger) (runner.Outcome, error) {
	remaining, shell := extractShellFlag(args)

	fs := &flagSet{}
	res := &result{}

	cmd := &cobra.Command{
		Use:                   "taskly [flags] <command...>",
		Short:                 "Run multiple commands concurrently",
		DisableFlagsInUseLine: true,
		// Usage/error reporting is handled explicitly below so that usage
		// text lands on stdout specifically, not wherever cobra's defaults
		// would send it.
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, opts, err := translate(args, fs, shell)
			if err != nil {
				printUsageError(cmd, stdout, stderr, err)
				res.usagePrinted = true
				return err
			}
			outcome, err := runner.Run(inputs, opts, stdout, logger)
			if err != nil {
				if taskerr.IsUsageError(err) {
					printUsageError(cmd, stdout, stderr, err)
					res.usagePrinted = true
				}
				return err
			}
			res.outcome = outcome
			res.ran = true
			if !outcome.Success {
				return taskerr.New(taskerr.EInternal, "one or more tasks failed")
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&fs.names, "names", nil, "comma-separated names, assigned positionally to each command")
	cmd.Flags().IntVarP(&fs.maxProcesses, "max-processes", "m", 0, "maximum number of commands to run concurrently (0 = unlimited)")
	cmd.Flags().StringSliceVar(&fs.killOthersOn, "kill-others-on", nil, "kill all remaining commands when one exits with these outcomes: success,failure")
	cmd.Flags().StringVar(&fs.successCondition, "success-condition", "all", "success aggregation policy: all, first, or last")
	cmd.Flags().BoolVarP(&fs.raw, "raw", "r", false, "output only raw command output, no prefixing")
	cmd.Flags().StringVar(&fs.cwd, "cwd", "", "working directory for every command")
	cmd.Flags().StringVarP(&fs.prefix, "prefix", "p", "", "prefix kind: none, index, name, pid, time, command, or a {template}")
	cmd.Flags().StringSliceVar(&fs.prefixColors, "prefix-colors", nil, "comma-separated colors, assigned positionally/cyclically to each command")
	cmd.Flags().StringVarP(&fs.timestampFormat, "timestamp-format", "t", "", "Go time layout used by the time prefix kind")
	cmd.Flags().StringVar(&fs.wildcardSort, "wildcard-sort", "alpha", "wildcard match ordering: alpha or package")
	cmd.Flags().BoolVar(&fs.noWildcardSort, "no-wildcard-sort", false, "disable wildcard sorting; preserve manifest order")
	cmd.Flags().BoolVarP(&fs.ignoreMissing, "ignore-missing", "i", false, "skip commands whose executable or script cannot be found")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(remaining)

	if err := cmd.Execute(); err != nil {
		if res.ran {
			return res.outcome, err
		}
		// A cobra-level failure (unknown flag, Args validator) never reaches
		// RunE, so usage hasn't been printed yet for those paths.
		if !res.usagePrinted {
			printUsageError(cmd, stdout, stderr, err)
		}
		var te *taskerr.Error
		if errors.As(err, &te) {
			return runner.Outcome{}, te
		}
		return runner.Outcome{}, taskerr.Wrap(taskerr.EUsage, "taskly", err)
	}
	return res.outcome, nil
}

func translate(args []string, fs *flagSet, shell interface{}) ([]tasktype.Command, tasktype.RunOptions, error) {
	inputs := make([]tasktype.Command, 0, len(args))
	for _, a := range args {
		inputs = append(inputs, tasktype.Command{Command: a, Shell: shell})
	}

	killOthersOn, err := parseKillOthersOn(fs.killOthersOn)
	if err != nil {
		return nil, tasktype.RunOptions{}, err
	}

	successCondition, err := parseSuccessCondition(fs.successCondition)
	if err != nil {
		return nil, tasktype.RunOptions{}, err
	}

	wildcardSort, err := parseWildcardSort(fs)
	if err != nil {
		return nil, tasktype.RunOptions{}, err
	}

	opts := tasktype.RunOptions{
		Cwd:              fs.cwd,
		KillOthersOn:     killOthersOn,
		MaxProcesses:     fs.maxProcesses,
		Prefix:           fs.prefix,
		PrefixColors:     fs.prefixColors,
		SuccessCondition: successCondition,
		TimestampFormat:  fs.timestampFormat,
		Raw:              fs.raw,
		WildcardSort:     wildcardSort,
		IgnoreMissing:    fs.ignoreMissing,
		Names:            fs.names,
	}
	return inputs, opts, nil
}

func parseKillOthersOn(raw []string) (tasktype.KillOthersOn, error) {
	var out tasktype.KillOthersOn
	for _, v := range raw {
		switch strings.TrimSpace(strings.ToLower(v)) {
		case "success":
			out.Success = true
		case "failure":
			out.Failure = true
		case "":
			continue
		default:
			return out, taskerr.New(taskerr.EUsage, fmt.Sprintf("invalid --kill-others-on value %q: want success or failure", v))
		}
	}
	return out, nil
}

func parseSuccessCondition(raw string) (tasktype.SuccessCondition, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "", "all":
		return tasktype.SuccessAll, nil
	case "first":
		return tasktype.SuccessFirst, nil
	case "last":
		return tasktype.SuccessLast, nil
	default:
		return "", taskerr.New(taskerr.EUsage, fmt.Sprintf("invalid --success-condition value %q: want all, first, or last", raw))
	}
}

func parseWildcardSort(fs *flagSet) (tasktype.WildcardSort, error) {
	if fs.noWildcardSort {
		return tasktype.WildcardPackage, nil
	}
	switch strings.TrimSpace(strings.ToLower(fs.wildcardSort)) {
	case "", "alpha":
		return tasktype.WildcardAlpha, nil
	case "package":
		return tasktype.WildcardPackage, nil
	default:
		return "", taskerr.New(taskerr.EUsage, fmt.Sprintf("invalid --wildcard-sort value %q: want alpha or package", fs.wildcardSort))
	}
}
