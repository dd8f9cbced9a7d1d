// Package supervisor implements C6: the concurrent process core —
// admission, spawning, stream demuxing, exit bookkeeping, restart-on-failure,
// and kill-others propagation over a queue-driven many-process controller.
package supervisor

import (
	"io"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codemastersolutions/taskly/internal/format"
	"github.com/codemastersolutions/taskly/internal/tasktype"
)

// killGrace is the fixed grace period between a terminate signal and the
// hard-kill fallback (§4.6 Kill-others).
const killGrace = 3 * time.Second

// admissionPollInterval is not referenced by Run: the controller is driven
// only by the events channel, with no polling.
const admissionPollInterval = 25 * time.Millisecond

// Options configures one supervisor run.
type Options struct {
	MaxProcesses int
	KillOthersOn tasktype.KillOthersOn
	PrefixKind   string
	PrefixColors []string
	TimestampFmt string
	Logger       *logrus.Logger
	// ColorEnabled gates every prefix color escape. The caller derives this
	// from format.IsTerminalAuto(dst) (or an explicit override) so color
	// codes are never written to a non-terminal destination.
	ColorEnabled bool
}

// Supervisor runs a queue of tasks to completion and reports results.
type Supervisor struct {
	opts   Options
	writer *format.Writer
	now    func() string

	mu      sync.Mutex
	queue   []*tasktype.Task
	live    map[int]*liveChild
	results []tasktype.Result
	killed  bool

	events chan interface{}
}

// New creates a Supervisor over the given expanded, availability-filtered
// task queue, writing formatted output to dst.
func New(tasks []*tasktype.Task, dst io.Writer, opts Options, nowFormatted func() string) *Supervisor {
	if opts.MaxProcesses <= 0 {
		opts.MaxProcesses = len(tasks)
	}
	if opts.MaxProcesses <= 0 {
		opts.MaxProcesses = 1
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	queue := make([]*tasktype.Task, len(tasks))
	copy(queue, tasks)

	return &Supervisor{
		opts:   opts,
		writer: format.NewWriter(dst, false),
		now:    nowFormatted,
		queue:  queue,
		live:   make(map[int]*liveChild),
		events: make(chan interface{}, 64),
	}
}

// SetRaw forces the writer into global raw mode (§4.7 Raw mode).
func (s *Supervisor) SetRaw(raw bool) {
	s.writer.SetRaw(raw)
}

// Run drains the queue to completion and returns the completion-ordered
// results. The controller logic below owns the single consistency domain
// named in §5: queue, live set, results, killed.
func (s *Supervisor) Run() []tasktype.Result {
	s.admit()

	for {
		s.mu.Lock()
		done := len(s.queue) == 0 && len(s.live) == 0
		s.mu.Unlock()
		if done {
			break
		}

		ev := <-s.events
		switch e := ev.(type) {
		case chunkEvent:
			s.handleChunk(e)
		case exitEvent:
			s.handleExit(e)
		case errorEvent:
			s.handleSpawnError(e)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tasktype.Result, len(s.results))
	copy(out, s.results)
	return out
}

// admit spawns tasks from the front of the queue until either the queue is
// empty or the live set reaches MaxProcesses. Priming short-circuits on an
// empty queue so MaxProcesses > queue length never deadlocks (§4.6).
func (s *Supervisor) admit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admitLocked()
}

func (s *Supervisor) admitLocked() {
	if s.killed {
		return
	}
	for len(s.queue) > 0 && len(s.live) < s.opts.MaxProcesses {
		task := s.queue[0]
		s.queue = s.queue[1:]
		lc := spawn(task, s.events)
		if lc != nil {
			s.live[task.Index] = lc
		}
	}
}

func (s *Supervisor) prefixFor(task *tasktype.Task) string {
	executable := task.Name
	if len(task.Argv) > 0 {
		executable = task.Argv[0]
	}
	ts := ""
	if s.now != nil {
		ts = s.now()
	}
	return format.BuildPrefix(s.opts.PrefixKind, format.PrefixInput{
		Index:      task.Index,
		Name:       task.Name,
		PID:        task.PID,
		Executable: executable,
		Timestamp:  ts,
	})
}

func (s *Supervisor) colorFor(task *tasktype.Task) string {
	if !s.opts.ColorEnabled {
		return ""
	}
	if task.Color != "" {
		return task.Color
	}
	if len(s.opts.PrefixColors) == 0 {
		return ""
	}
	return s.opts.PrefixColors[task.Index%len(s.opts.PrefixColors)]
}

func (s *Supervisor) handleChunk(e chunkEvent) {
	s.mu.Lock()
	lc, ok := s.live[e.index]
	s.mu.Unlock()
	if !ok {
		return
	}
	prefix := s.prefixFor(lc.task)
	color := s.colorFor(lc.task)
	s.writer.WriteChunk(e.index, lc.task.Raw, e.data, prefix, color)
}

func (s *Supervisor) handleSpawnError(e errorEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, tasktype.Result{Index: e.index, ExitCode: 1})
	delete(s.live, e.index)
	s.opts.Logger.WithError(e.err).WithField("index", e.index).Warn("spawn failed")
	s.evaluateKillOthers(1)
	s.admitLocked()
}

func (s *Supervisor) handleExit(e exitEvent) {
	s.mu.Lock()
	lc, ok := s.live[e.index]
	if ok {
		s.writer.Flush(e.index, s.prefixFor(lc.task), s.colorFor(lc.task))
		s.results = append(s.results, tasktype.Result{Index: e.index, Name: lc.task.Name, ExitCode: e.exitCode})
		delete(s.live, e.index)
	}

	// Kill-others is evaluated before restart: once it fires, restart is
	// disabled for this and every future exit (§4.6).
	s.evaluateKillOthers(e.exitCode)

	restart := ok && !s.killed && !e.signaled && e.exitCode != 0 && lc.task.RestartBudget > 0
	if restart {
		lc.task.RestartBudget--
		task := lc.task
		delay := time.Duration(task.RestartDelay) * time.Millisecond
		s.mu.Unlock()

		s.opts.Logger.WithField("index", task.Index).WithField("budget", task.RestartBudget).Info("restarting task")
		if delay > 0 {
			time.AfterFunc(delay, func() {
				s.mu.Lock()
				s.queue = append([]*tasktype.Task{task}, s.queue...)
				s.admitLocked()
				s.mu.Unlock()
			})
		} else {
			s.mu.Lock()
			s.queue = append([]*tasktype.Task{task}, s.queue...)
			s.admitLocked()
			s.mu.Unlock()
		}
		return
	}

	s.admitLocked()
	s.mu.Unlock()
}

// evaluateKillOthers must be called with s.mu held. It implements §4.6
// kill-others: idempotent (a second trigger is a no-op), clears the queue so
// no further admissions occur, signals every live child, and schedules a
// hard-kill fallback that does not itself block on the targeted process.
func (s *Supervisor) evaluateKillOthers(exitCode int) {
	if s.killed {
		return
	}
	failureMatch := s.opts.KillOthersOn.Failure && exitCode != 0
	successMatch := s.opts.KillOthersOn.Success && exitCode == 0
	if !failureMatch && !successMatch {
		return
	}

	s.killed = true
	s.queue = nil
	s.opts.Logger.Info("kill-others triggered")

	for _, lc := range s.live {
		killChild(lc, syscall.SIGTERM)
		lc := lc
		time.AfterFunc(killGrace, func() {
			select {
			case <-lc.done:
			default:
				killChild(lc, syscall.SIGKILL)
			}
		})
	}
}
