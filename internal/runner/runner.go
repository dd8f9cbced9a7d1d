// Package runner wires C1–C8 together: it turns a list of input commands and
// RunOptions into an expanded, availability-filtered task queue, drives the
// supervisor to completion, and aggregates the outcome.
package runner

import (
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codemastersolutions/taskly/internal/aggregate"
	"github.com/codemastersolutions/taskly/internal/command"
	"github.com/codemastersolutions/taskly/internal/expand"
	"github.com/codemastersolutions/taskly/internal/format"
	"github.com/codemastersolutions/taskly/internal/probe"
	"github.com/codemastersolutions/taskly/internal/shellresolve"
	"github.com/codemastersolutions/taskly/internal/supervisor"
	"github.com/codemastersolutions/taskly/internal/taskerr"
	"github.com/codemastersolutions/taskly/internal/tasktype"
)

// Outcome is the result of one Run invocation.
type Outcome struct {
	Results []tasktype.Result
	Success bool
}

// Run expands inputs (C2/C3), parses each (C1), resolves shell mode (C5),
// filters by availability (C4), and drives the supervisor (C6) to
// completion before aggregating (C8).
func Run(inputs []tasktype.Command, opts tasktype.RunOptions, stdout io.Writer, logger *logrus.Logger) (Outcome, error) {
	if logger == nil {
		logger = logrus.New()
	}

	expanded := expandAll(inputs, opts)
	applyNamesOverride(expanded, opts.Names)

	tasks, err := buildTasks(expanded, opts)
	if err != nil {
		return Outcome{}, err
	}

	tasks = filterAvailability(tasks, opts, logger)

	sup := supervisor.New(tasks, stdout, supervisor.Options{
		MaxProcesses: opts.MaxProcesses,
		KillOthersOn: opts.KillOthersOn,
		PrefixKind:   effectivePrefix(opts.Prefix),
		PrefixColors: opts.PrefixColors,
		TimestampFmt: opts.TimestampFormat,
		Logger:       logger,
		ColorEnabled: format.IsTerminalAuto(stdout),
	}, func() string { return time.Now().Format(effectiveTimestampFormat(opts.TimestampFormat)) })
	if opts.Raw {
		sup.SetRaw(true)
	}

	results := sup.Run()
	return Outcome{
		Results: results,
		Success: aggregate.Success(results, effectiveSuccessCondition(opts.SuccessCondition)),
	}, nil
}

func effectivePrefix(p string) string {
	if p == "" {
		return "index"
	}
	return p
}

func effectiveTimestampFormat(f string) string {
	if f == "" {
		return "15:04:05"
	}
	return f
}

func effectiveSuccessCondition(c tasktype.SuccessCondition) tasktype.SuccessCondition {
	if c == "" {
		return tasktype.SuccessAll
	}
	return c
}

// expandAll applies C2/C3 to every input command, in order, preserving the
// dense-index contract: the i-th element of the returned slice becomes
// task index i.
func expandAll(inputs []tasktype.Command, opts tasktype.RunOptions) []tasktype.Command {
	sortMode := opts.WildcardSort
	if sortMode == "" {
		sortMode = tasktype.WildcardAlpha
	}

	var out []tasktype.Command
	for _, in := range inputs {
		cwd := in.Cwd
		if cwd == "" {
			cwd = opts.Cwd
		}
		out = append(out, expand.Expand(in, cwd, sortMode)...)
	}
	return out
}

// applyNamesOverride rewrites names positionally over the post-expansion
// list; a shorter Names list leaves later tasks with their derived names.
func applyNamesOverride(expanded []tasktype.Command, names []string) {
	for i := range expanded {
		if i < len(names) && names[i] != "" {
			expanded[i].Name = names[i]
		}
	}
}

// buildTasks runs C1 (parse) and C5 (shell resolve) over each expanded
// command, assigning dense indices.
func buildTasks(expanded []tasktype.Command, opts tasktype.RunOptions) ([]*tasktype.Task, error) {
	tasks := make([]*tasktype.Task, 0, len(expanded))
	for i, c := range expanded {
		shellDecision := shellresolve.Resolve(c.Shell, c.Command)

		var argv []string
		if !shellDecision.UseShell {
			parsed, err := command.Parse(c.Command)
			if err != nil {
				return nil, taskerr.Wrap(taskerr.EParse, "parsing command #"+strconv.Itoa(i), err)
			}
			argv = append([]string{parsed.Executable}, parsed.Args...)
		}

		cwd := c.Cwd
		if cwd == "" {
			cwd = opts.Cwd
		}

		raw := c.Raw || opts.Raw

		tasks = append(tasks, &tasktype.Task{
			Index:         i,
			Name:          c.Name,
			Argv:          argv,
			RawCommand:    c.Command,
			Shell:         shellDecision,
			Env:           c.Env,
			Cwd:           cwd,
			Color:         c.PrefixColor,
			Raw:           raw,
			RestartBudget: c.RestartTries,
			RestartDelay:  c.RestartDelay,
		})
	}
	return tasks, nil
}

// filterAvailability applies C4, dropping unavailable tasks when
// IgnoreMissing is set and logging a [skip] diagnostic for each.
func filterAvailability(tasks []*tasktype.Task, opts tasktype.RunOptions, logger *logrus.Logger) []*tasktype.Task {
	if !opts.IgnoreMissing {
		return tasks
	}

	cwd := opts.Cwd
	manifest := expand.ReadManifest(cwd)

	out := make([]*tasktype.Task, 0, len(tasks))
	for _, task := range tasks {
		executable := ""
		if len(task.Argv) > 0 {
			executable = task.Argv[0]
		}
		available, reason := probe.Available(executable, task.RawCommand, manifest, task.Shell.UseShell)
		if !available {
			logger.WithFields(logrus.Fields{
				"index":  task.Index,
				"name":   task.Name,
				"reason": string(reason),
			}).Warn("[skip] task unavailable")
			continue
		}
		out = append(out, task)
	}
	return out
}
