package format

import (
	"bytes"
	"io"
	"sync"

	"golang.org/x/term"
)

// Writer serializes formatted line output from many concurrent tasks onto a
// shared destination, so that one task's formatted line is never interleaved
// with another's (§5 shared-resource policy). It also tracks each task's
// partial trailing line across chunk boundaries (§9 line buffering note).
type Writer struct {
	mu      sync.Mutex
	dst     io.Writer
	raw     bool
	partial map[int][]byte
}

// NewWriter creates a Writer over dst. raw forces byte-through forwarding
// for every task regardless of per-task settings.
func NewWriter(dst io.Writer, raw bool) *Writer {
	return &Writer{dst: dst, raw: raw, partial: make(map[int][]byte)}
}

// SetRaw toggles global raw mode (§4.7 Raw mode) after construction.
func (w *Writer) SetRaw(raw bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.raw = raw
}

// IsTerminalAuto reports whether dst looks like it supports color for the
// purposes of "auto" color decisions, using golang.org/x/term's TTY check
// when dst exposes an Fd() uintptr method (e.g. *os.File).
func IsTerminalAuto(dst io.Writer) bool {
	type fdable interface{ Fd() uintptr }
	f, ok := dst.(fdable)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// WriteChunk handles one byte chunk read from a task's stdout or stderr.
// In raw mode (global or per-task) the bytes are forwarded unchanged. In
// prefixed mode the chunk is split on newline boundaries; each complete line
// is prefixed, colored, and written; a trailing partial line is buffered
// under taskIndex until the next chunk or Flush.
func (w *Writer) WriteChunk(taskIndex int, rawTask bool, chunk []byte, prefix string, colorSpec string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.raw || rawTask {
		w.dst.Write(chunk)
		return
	}

	buf := append(w.partial[taskIndex], chunk...)
	lines := bytes.Split(buf, []byte("\n"))
	// The last element is either empty (buf ended in \n) or a partial line
	// to hold onto.
	last := lines[len(lines)-1]
	complete := lines[:len(lines)-1]

	for _, line := range complete {
		w.writeLine(line, prefix, colorSpec, taskIndex)
	}

	if len(last) > 0 {
		w.partial[taskIndex] = append([]byte(nil), last...)
	} else {
		delete(w.partial, taskIndex)
	}
}

// Flush emits a task's buffered partial line (with no trailing newline),
// used when the task's stream closes without a final newline.
func (w *Writer) Flush(taskIndex int, prefix string, colorSpec string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rest, ok := w.partial[taskIndex]
	if !ok || len(rest) == 0 {
		return
	}
	delete(w.partial, taskIndex)
	w.writeLineNoNewline(rest, prefix, colorSpec, taskIndex)
}

func (w *Writer) writeLine(line []byte, prefix, colorSpec string, index int) {
	coloredPrefix := Colorize(prefix, colorSpec, index)
	w.dst.Write([]byte(coloredPrefix))
	w.dst.Write(line)
	w.dst.Write([]byte("\n"))
}

func (w *Writer) writeLineNoNewline(line []byte, prefix, colorSpec string, index int) {
	coloredPrefix := Colorize(prefix, colorSpec, index)
	w.dst.Write([]byte(coloredPrefix))
	w.dst.Write(line)
}
