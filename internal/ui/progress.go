package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/term"
)

// ProgressLine redraws a single progress bar line in place. When the
// output is not a terminal, only the final state of each item is printed.
type ProgressLine struct {
	mu    sync.Mutex
	w     io.Writer
	tty   bool
	bar   progress.Model
	label string
	last  time.Time
}

// NewProgressLine creates a progress line writing to w.
func NewProgressLine(w io.Writer) *ProgressLine {
	return &ProgressLine{
		w:   w,
		tty: isTerminal(w),
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Start begins a new item.
func (p *ProgressLine) Start(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.label = label
	p.last = time.Time{}
	if !p.tty {
		fmt.Fprintf(p.w, "%s ...\n", label)
	}
}

// SetLabel renames the current item.
func (p *ProgressLine) SetLabel(label string) {
	p.mu.Lock()
	p.label = label
	p.mu.Unlock()
}

// Label returns the current item's label.
func (p *ProgressLine) Label() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.label
}

// Update redraws the bar at percent (0..1) with an ETA suffix.
func (p *ProgressLine) Update(percent float64, eta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.tty {
		return
	}
	if time.Since(p.last) < 100*time.Millisecond && percent < 1 {
		return
	}
	p.last = time.Now()
	fmt.Fprintf(p.w, "\r\033[K%s %s %s", p.bar.ViewAs(percent), p.label, formatETA(eta))
}

// Finish ends the current item with a status message.
func (p *ProgressLine) Finish(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tty {
		fmt.Fprint(p.w, "\r\033[K")
	}
	fmt.Fprintln(p.w, msg)
}

func formatETA(eta time.Duration) string {
	if eta <= 0 {
		return ""
	}
	return "ETA " + eta.Round(time.Second).String()
}
