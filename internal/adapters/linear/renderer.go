// Package linear provides a synchronous, line-oriented task progress renderer.
package linear

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer with one line per task start and completion:
//
//	[15:04:05] Starting 'styles'...
//	[15:04:05] Finished 'styles' after 45 ms
type Renderer struct {
	output *termenv.Output

	mu    sync.Mutex
	tasks map[string]*taskState // spanID -> task state
}

type taskState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stdout
	}

	return &Renderer{
		output: output.New(w),
		tasks:  make(map[string]*taskState),
	}
}

// OnTaskStart prints a task start message.
func (r *Renderer) OnTaskStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{
		name:      name,
		startTime: startTime,
	}

	r.printLocked(startTime, "Starting %s...", r.taskName(name))
}

// OnTaskComplete prints the completion status and duration of a task.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)

	duration := r.output.String(FormatDuration(endTime.Sub(task.startTime))).
		Foreground(termenv.RGBColor(string(style.Ember))).String()

	if err != nil {
		label := r.output.String("errored").Foreground(termenv.RGBColor(string(style.Red))).String()
		r.printLocked(endTime, "%s %s after %s", r.taskName(task.name), label, duration)
		return
	}

	r.printLocked(endTime, "Finished %s after %s", r.taskName(task.name), duration)
}

func (r *Renderer) taskName(name string) string {
	return r.output.String("'" + name + "'").Foreground(termenv.RGBColor(string(style.Cyan))).String()
}

// printLocked prints a timestamped line. Must be called with r.mu held.
func (r *Renderer) printLocked(at time.Time, format string, args ...any) {
	stamp := r.output.String(at.Format(time.TimeOnly)).Faint().String()
	_, _ = fmt.Fprintf(r.output, "[%s] %s\n", stamp, fmt.Sprintf(format, args...))
}

// FormatDuration renders d the way task timings are usually read: microseconds and
// milliseconds as integers, seconds and minutes with two decimals.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%d μs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.2f s", d.Seconds())
	default:
		return fmt.Sprintf("%.2f min", d.Minutes())
	}
}
