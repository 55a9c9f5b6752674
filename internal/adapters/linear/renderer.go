// Package linear provides a synchronous, line-buffered renderer for CI environments.
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

	"github.com/depstrap/depstrap/internal/ui/output"
)

// Renderer implements ports.Renderer for CI/non-interactive environments.
// It outputs linear, chronological logs with stage name prefixes.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	stages  map[string]*stageState // spanID -> stage state
	buffers map[string]*bytes.Buffer
}

type stageState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new linear Renderer using the CI color profile.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	return newRenderer(stdout, stderr, output.ColorProfileANSI)
}

// NewPrettyRenderer creates a linear Renderer using the terminal's detected
// color profile, for interactive sessions.
func NewPrettyRenderer(stdout, stderr io.Writer) *Renderer {
	return newRenderer(stdout, stderr, output.ColorProfile)
}

func newRenderer(stdout, stderr io.Writer, profileFn func() termenv.Profile) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.NewWithProfile(stderr, profileFn),
		stages:  make(map[string]*stageState),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Start is a no-op for the linear renderer (synchronous).
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes all remaining buffers.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}

	return nil
}

// Wait is a no-op for the linear renderer (synchronous).
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the ordered stage list.
func (r *Renderer) OnPlanEmit(stages []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Bootstrapping %d stage(s): %s\n",
		len(stages), strings.Join(stages, ", "))
}

// OnStageStart prints a stage start message.
func (r *Renderer) OnStageStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stages[spanID] = &stageState{
		name:      name,
		startTime: startTime,
	}
	r.buffers[spanID] = new(bytes.Buffer)

	prefix := r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
}

// OnStageLog buffers log data and prints complete lines with stage prefix.
func (r *Renderer) OnStageLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stage, ok := r.stages[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	// Process complete lines
	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, put it back
			if len(line) > 0 {
				newBuf := new(bytes.Buffer)
				newBuf.Write(line)
				r.buffers[spanID] = newBuf
			}
			break
		}

		r.printLineLocked(stage.name, line)
	}
}

// OnStageComplete flushes the remaining buffer and prints completion status.
func (r *Renderer) OnStageComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stage, ok := r.stages[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(stage.startTime)
	prefix := fmt.Sprintf("[%s]", stage.name)

	if err != nil {
		symbol := r.output.String("✗").Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n",
			prefix, symbol, duration, err)
	} else {
		symbol := r.output.String("✓").Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n",
			prefix, symbol, duration)
	}

	delete(r.stages, spanID)
	delete(r.buffers, spanID)
}

// flushBufferLocked flushes any remaining data in the buffer for a stage.
// Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	stage, ok := r.stages[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(stage.name, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked prints a line with the stage name prefix.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(stageName string, line []byte) {
	// Trim trailing newline for cleaner output
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	prefix := fmt.Sprintf("[%s]", stageName)
	_, _ = fmt.Fprintf(r.stdout, "%s %s\n", prefix, string(line))
}
