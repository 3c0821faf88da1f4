// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package statusui renders the pipeline's live run status to the terminal:
// current phase (running/paused), batches flushed, and the high-watermark
// LSN last acknowledged. It is grounded on the teacher's header/area spinner
// helpers (argon-it-seedfast-cli/cmd/seed_helpers.go), generalized from
// seeding progress to pipeline phase/batch/LSN reporting.
package statusui

import (
	"context"
	"fmt"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"seedfast/cli/internal/cdc"
	"seedfast/cli/internal/control"
	"seedfast/cli/internal/wireformat"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Renderer draws a single live-updating status line for as long as Run is
// active. It never blocks pipeline progress: Run reads State's counters on
// its own ticker and is stopped independently of the pipeline loop.
type Renderer struct {
	area *pterm.AreaPrinter
	stop chan struct{}
}

// New creates an idle Renderer.
func New() *Renderer {
	return &Renderer{stop: make(chan struct{})}
}

// Run starts the status line and blocks until ctx is canceled, updating
// from state at the given interval. Call it in its own goroutine.
func (r *Renderer) Run(ctx context.Context, state *control.State, interval time.Duration) {
	if state == nil {
		return
	}

	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return
	}
	r.area = area

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer r.teardown()

	frameIdx := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			frameIdx++
			area.Update(r.line(state, frameIdx))
		}
	}
}

// Stop ends the render loop early, if running.
func (r *Renderer) Stop() {
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
}

func (r *Renderer) teardown() {
	if r.area != nil {
		r.area.Stop()
		r.area = nil
	}
	cursor.Show()
}

func (r *Renderer) line(state *control.State, frameIdx int) string {
	phase := pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("running")
	if state.IsPaused() {
		phase = pterm.NewStyle(pterm.FgYellow, pterm.Bold).Sprint("paused")
	}

	frame := frames[frameIdx%len(frames)]
	lsn := wireformat.FormatLSN(cdc.LSN(state.LastLSN()))
	return fmt.Sprintf("%s %s  batches=%d  lsn=%s",
		frame, phase, state.BatchesSent(), lsn)
}
