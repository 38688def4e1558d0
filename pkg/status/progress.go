// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package status reports the progress of a scenario run
package status

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// ProgressTracker prints step outcomes and, on a terminal, a progress bar
type ProgressTracker struct {
	writer    io.Writer
	isTTY     bool
	bar       *progressbar.ProgressBar
	startTime time.Time
	mu        sync.Mutex
}

// NewProgressTracker creates a tracker on writer. A bar is drawn only when
// writer is a terminal.
func NewProgressTracker(writer io.Writer) *ProgressTracker {
	return &ProgressTracker{
		writer:    writer,
		isTTY:     isTerminal(writer),
		startTime: time.Now(),
	}
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// Begin sizes the progress bar for total steps
func (pt *ProgressTracker) Begin(task string, total int) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.startTime = time.Now()
	if !pt.isTTY {
		fmt.Fprintf(pt.writer, "%s: %d to run\n", task, total)
		return
	}
	pt.bar = progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(pt.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(fmt.Sprintf("[[cyan]]%s[[reset]]", task)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// StartStep announces a step
func (pt *ProgressTracker) StartStep(stepName string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if pt.isTTY {
		if pt.bar != nil {
			pt.bar.Describe(fmt.Sprintf("[[cyan]]%s[[reset]]", stepName))
		}
		return
	}
	fmt.Fprintf(pt.writer, "%s...\n", stepName)
}

func (pt *ProgressTracker) CompleteStep(stepName string, elapsed time.Duration) {
	pt.finish(fmt.Sprintf("✓ %s (%.1fs)", stepName, elapsed.Seconds()))
}

func (pt *ProgressTracker) FailStep(stepName string, err error) {
	pt.finish(fmt.Sprintf("✗ %s: %v", stepName, err))
}

func (pt *ProgressTracker) SkipStep(stepName string, reason string) {
	pt.finish(fmt.Sprintf("- %s: skipped, %s", stepName, reason))
}

func (pt *ProgressTracker) finish(line string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if pt.isTTY && pt.bar != nil {
		_ = pt.bar.Clear()
	}
	fmt.Fprintln(pt.writer, line)
	if pt.bar != nil {
		_ = pt.bar.Add(1)
	}
}

// Summary closes the bar and prints the totals
func (pt *ProgressTracker) Summary(passed, failed, skipped int) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	if pt.bar != nil {
		_ = pt.bar.Finish()
		fmt.Fprintln(pt.writer)
		pt.bar = nil
	}
	fmt.Fprintf(pt.writer, "\nScenario Summary:\n")
	fmt.Fprintf(pt.writer, "   Passed: %d | Failed: %d | Skipped: %d\n", passed, failed, skipped)
	fmt.Fprintf(pt.writer, "   Duration: %.2fs\n", time.Since(pt.startTime).Seconds())
}
