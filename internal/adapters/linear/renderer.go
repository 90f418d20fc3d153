// Package linear provides a synchronous, line-buffered progress renderer.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/tend/internal/ui/output"
	"go.trai.ch/tend/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer with chronological, task-prefixed lines.
// Command output goes to stdout, lifecycle lines to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	tasks   map[string]*taskState
	stopped bool
}

type taskState struct {
	name      string
	startTime time.Time
	buf       bytes.Buffer
}

// NewRenderer creates a Renderer. Nil writers select os.Stdout and os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.NewWithProfile(stderr, output.ColorProfileANSI),
		tasks:  make(map[string]*taskState),
	}
}

// Start is a no-op; the renderer is synchronous.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes partial lines of tasks that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, task := range r.tasks {
		r.flushLocked(task)
	}
	r.stopped = true
	return nil
}

// Wait is a no-op; the renderer is synchronous.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the task list.
func (r *Renderer) OnPlanEmit(tasks []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Running %d maintenance task(s): %s\n", len(tasks), strings.Join(tasks, ", "))
}

// OnTaskStart prints a start line.
func (r *Renderer) OnTaskStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.tasks[spanID] = &taskState{name: name, startTime: startTime}

	prefix := r.output.String("[" + name + "]").Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
}

// OnTaskLog prints complete output lines with the task prefix and keeps the
// trailing partial line buffered.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	task.buf.Write(data)
	for {
		i := bytes.IndexByte(task.buf.Bytes(), '\n')
		if i < 0 {
			return
		}
		line := task.buf.Next(i + 1)
		r.printLineLocked(task.name, line)
	}
}

// OnTaskComplete flushes the task's output and prints its status.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, status, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)
	r.flushLocked(task)

	var s domain.Status
	if err := s.UnmarshalText([]byte(status)); err != nil {
		s = domain.StatusFailure
	}

	duration := endTime.Sub(task.startTime).Round(time.Millisecond)
	symbol := r.output.String(style.StatusIcon(s)).Foreground(r.output.Color(string(style.StatusColor(s)))).String()
	prefix := "[" + task.name + "]"

	var line string
	switch s {
	case domain.StatusSuccess:
		line = fmt.Sprintf("Completed in %v", duration)
	case domain.StatusRecoveredAfterRetry:
		line = fmt.Sprintf("Recovered after retry in %v", duration)
	case domain.StatusSkipped:
		line = fmt.Sprintf("Skipped after %v", duration)
	default:
		line = fmt.Sprintf("Failed after %v", duration)
	}
	if message != "" {
		line += ": " + message
	}

	_, _ = fmt.Fprintf(r.stderr, "%s %s %s\n", prefix, symbol, line)
}

func (r *Renderer) flushLocked(task *taskState) {
	if task.buf.Len() > 0 {
		r.printLineLocked(task.name, task.buf.Bytes())
		task.buf.Reset()
	}
}

func (r *Renderer) printLineLocked(taskName string, line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(bytes.TrimSpace(line)) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", taskName, line)
}
