// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package control holds the pipeline's externally-driven state handle: the
// Running/Paused state machine and the batches-sent metric the pipeline
// increments on every successful flush. The pipeline only reads the phase
// and writes the metrics; phase transitions are driven by whatever consumes
// internal/control/grpcclient (or tests, directly).
package control

import (
	"sync"
	"sync/atomic"
)

// Phase is the pipeline's externally-driven run state.
type Phase int

const (
	Running Phase = iota
	Paused
)

// State is a concurrency-safe pause/resume + metrics handle shared between
// whatever drives the control plane and the pipeline that reads it.
//
// Pause is level-triggered (IsPaused, polled) for correctness and
// additionally edge-triggered via Resumed() so a pipeline can wake up as
// soon as a resume happens instead of only on the next poll tick; this type
// supports both without forcing the caller to choose.
type State struct {
	mu          sync.Mutex
	phase       Phase
	resumedCh   chan struct{}
	batchesSent uint64
	lastLSN     uint64
}

// NewState creates a State starting in the Running phase.
func NewState() *State {
	return &State{resumedCh: make(chan struct{})}
}

// IsPaused reports the current phase.
func (s *State) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == Paused
}

// Pause transitions to Paused. Idempotent.
func (s *State) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = Paused
}

// Resume transitions to Running and wakes any goroutine blocked on
// Resumed(). Idempotent.
func (s *State) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == Running {
		return
	}
	s.phase = Running
	close(s.resumedCh)
	s.resumedCh = make(chan struct{})
}

// Resumed returns a channel that is closed the next time Resume moves the
// state from Paused to Running (a Resume while already Running leaves it
// open).
// Callers must re-invoke Resumed() after it fires to observe the next
// transition; the returned channel is single-use.
func (s *State) Resumed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumedCh
}

// IncrementBatchesSent records one successfully flushed batch.
func (s *State) IncrementBatchesSent() {
	atomic.AddUint64(&s.batchesSent, 1)
}

// BatchesSent returns the total count of successfully flushed batches.
func (s *State) BatchesSent() uint64 {
	return atomic.LoadUint64(&s.batchesSent)
}

// SetLastLSN records the high-watermark LSN of the most recently
// successfully flushed batch, surfaced to the status renderer.
func (s *State) SetLastLSN(lsn uint64) {
	atomic.StoreUint64(&s.lastLSN, lsn)
}

// LastLSN returns the high-watermark LSN of the most recently successfully
// flushed batch, or zero if none has flushed yet.
func (s *State) LastLSN() uint64 {
	return atomic.LoadUint64(&s.lastLSN)
}
