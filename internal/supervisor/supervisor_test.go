package supervisor

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemastersolutions/taskly/internal/aggregate"
	"github.com/codemastersolutions/taskly/internal/tasktype"
)

func shTask(index int, script string) *tasktype.Task {
	return &tasktype.Task{
		Index:      index,
		Name:       "",
		RawCommand: script,
		Shell:      tasktype.ShellDecision{UseShell: true, Executable: "sh"},
	}
}

// Scenario 1: parallel success — every task runs and every result is zero.
func TestSupervisor_AllTasksRunInParallelAndSucceed(t *testing.T) {
	var buf bytes.Buffer
	tasks := []*tasktype.Task{
		shTask(0, "echo one"),
		shTask(1, "echo two"),
		shTask(2, "echo three"),
	}
	sup := New(tasks, &buf, Options{MaxProcesses: 3}, func() string { return "00:00:00" })

	results := sup.Run()
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, 0, r.ExitCode)
	}
	assert.Contains(t, buf.String(), "one")
	assert.Contains(t, buf.String(), "two")
	assert.Contains(t, buf.String(), "three")
}

// Scenario 2: kill-others on failure terminates the still-live sibling.
func TestSupervisor_KillOthersOnFailureTerminatesSiblings(t *testing.T) {
	var buf bytes.Buffer
	tasks := []*tasktype.Task{
		shTask(0, "exit 1"),
		shTask(1, "sleep 5; echo should-not-print"),
	}
	sup := New(tasks, &buf, Options{
		MaxProcesses: 2,
		KillOthersOn: tasktype.KillOthersOn{Failure: true},
	}, func() string { return "00:00:00" })

	start := time.Now()
	results := sup.Run()
	elapsed := time.Since(start)

	require.Len(t, results, 2)
	assert.Less(t, elapsed, 4*time.Second, "kill-others must not wait out the sleeping sibling")
	assert.NotContains(t, buf.String(), "should-not-print")
}

// Scenario 3: "first" success condition short-circuits on the first result.
func TestSupervisor_FirstSuccessConditionIgnoresLaterResults(t *testing.T) {
	var buf bytes.Buffer
	tasks := []*tasktype.Task{
		shTask(0, "exit 0"),
		shTask(1, "sleep 5; exit 1"),
	}
	sup := New(tasks, &buf, Options{
		MaxProcesses: 2,
		KillOthersOn: tasktype.KillOthersOn{Success: true},
	}, func() string { return "00:00:00" })

	results := sup.Run()
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].ExitCode)
	assert.True(t, aggregate.Success(results, tasktype.SuccessFirst))
}

// Scenario 6: restart-on-failure re-queues the task and consumes its budget.
func TestSupervisor_RestartOnFailureConsumesBudget(t *testing.T) {
	var buf bytes.Buffer
	task := shTask(0, "exit 1")
	task.RestartBudget = 2
	tasks := []*tasktype.Task{task}

	sup := New(tasks, &buf, Options{MaxProcesses: 1}, func() string { return "00:00:00" })
	results := sup.Run()

	require.Len(t, results, 3, "original run plus two restarts")
	for _, r := range results {
		assert.Equal(t, 1, r.ExitCode)
	}
}

func TestSupervisor_MaxProcessesSerializesExecution(t *testing.T) {
	var buf bytes.Buffer
	tasks := []*tasktype.Task{
		shTask(0, "sleep 0.2"),
		shTask(1, "sleep 0.2"),
	}
	sup := New(tasks, &buf, Options{MaxProcesses: 1}, func() string { return "00:00:00" })

	start := time.Now()
	results := sup.Run()
	elapsed := time.Since(start)

	require.Len(t, results, 2)
	assert.GreaterOrEqual(t, elapsed, 350*time.Millisecond)
}

func TestSupervisor_RawModeWritesUnprefixedOutput(t *testing.T) {
	var buf bytes.Buffer
	tasks := []*tasktype.Task{shTask(0, "echo hello")}
	sup := New(tasks, &buf, Options{MaxProcesses: 1}, func() string { return "00:00:00" })
	sup.SetRaw(true)

	sup.Run()
	assert.False(t, strings.Contains(buf.String(), "[0]"))
	assert.Contains(t, buf.String(), "hello")
}

func TestSupervisor_ColorDisabledByDefaultOmitsEscapes(t *testing.T) {
	var buf bytes.Buffer
	task := shTask(0, "echo hello")
	task.Color = "red"
	sup := New([]*tasktype.Task{task}, &buf, Options{MaxProcesses: 1, PrefixKind: "index"}, func() string { return "00:00:00" })

	sup.Run()
	assert.NotContains(t, buf.String(), "\x1b[", "ColorEnabled defaults to false: no dst TTY to color for")
}

func TestSupervisor_ColorEnabledAppliesPerTaskEscape(t *testing.T) {
	var buf bytes.Buffer
	task := shTask(0, "echo hello")
	task.Color = "red"
	sup := New([]*tasktype.Task{task}, &buf, Options{MaxProcesses: 1, PrefixKind: "index", ColorEnabled: true}, func() string { return "00:00:00" })

	sup.Run()
	assert.Contains(t, buf.String(), "\x1b[31m")
}
