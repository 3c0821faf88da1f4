// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pipeline implements the single cooperative consumer task that
// turns a channel of CdcEvent into batches pushed to a Sink: schema-delta
// detection, size-and-timeout batching, pause/resume handling, and LSN
// feedback for checkpoint acknowledgement. It is grounded on the same
// select-loop-with-timer shape the pglogrepl demo (other_examples) uses for
// its apply-batch timer, generalized from a direct-to-Postgres apply into a
// sink-agnostic consumer.
package pipeline

import (
	"context"
	"time"

	"seedfast/cli/internal/cdc"
	"seedfast/cli/internal/control"
	"seedfast/cli/internal/logging"
	"seedfast/cli/internal/schema"
	"seedfast/cli/internal/sink"
)

const pausePollInterval = 100 * time.Millisecond

// Config holds the batching policy: flush once the pending batch reaches
// MaxMessages, and also on every tick of a fixed MaxInterval ticker when the
// batch is non-empty. The ticker is not reset by size-triggered flushes.
type Config struct {
	MaxMessages int
	MaxInterval time.Duration
}

// Pipeline consumes CdcEvents, maintains the schema cache, and flushes
// batches to a sink. The schema cache is owned exclusively by this type;
// nothing outside Pipeline ever mutates it.
type Pipeline struct {
	cfg   Config
	sink  sink.Sink
	cache *schema.Cache
	state *control.State // nil when no control-plane is wired in

	batch   cdc.Batch
	lastLSN cdc.LSN
}

// New creates a Pipeline. state may be nil if no pause/resume or metrics
// handle is wired in for this run.
func New(cfg Config, s sink.Sink, state *control.State) *Pipeline {
	return &Pipeline{
		cfg:   cfg,
		sink:  s,
		cache: schema.New(),
		state: state,
	}
}

// Run drives the main loop until events is closed or ctx is canceled.
// feedback, if non-nil, receives the high-watermark LSN of every
// successfully flushed batch; sends are best-effort and never block the
// loop for more than the time it takes to attempt one non-blocking send.
func (p *Pipeline) Run(ctx context.Context, events <-chan cdc.CdcEvent, feedback chan<- cdc.LSN) error {
	ticker := time.NewTicker(p.cfg.MaxInterval)
	defer ticker.Stop()

	for {
		if p.state != nil && p.state.IsPaused() {
			p.flush(ctx, feedback)
			select {
			case <-p.state.Resumed():
			case <-time.After(pausePollInterval):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				p.flush(ctx, feedback)
				return nil
			}
			p.lastLSN = ev.LSN

			if delta := p.cache.Update(ev.Message); delta != nil {
				if err := p.sink.ApplySchemaDelta(ctx, *delta); err != nil {
					logging.Warn("schema delta apply failed for %q: %v", delta.TableName, err)
				}
			}

			p.batch.Append(ev.LSN, ev.Message)
			if p.batch.Len() >= p.cfg.MaxMessages {
				p.flush(ctx, feedback)
			}

		case <-ticker.C:
			if p.batch.Len() > 0 {
				p.flush(ctx, feedback)
			}
		}
	}
}

// flush pushes the pending batch to the sink, advances feedback on
// success, and always clears the batch afterward: retries and durability
// are the sink's responsibility, not this loop's.
func (p *Pipeline) flush(ctx context.Context, feedback chan<- cdc.LSN) {
	if p.batch.Len() == 0 {
		return
	}

	highWater := p.batch.HighWater
	err := p.sink.PushBatch(ctx, &p.batch, p.cache, highWater)
	if err != nil {
		logging.Error("batch flush failed, LSN not advanced: %v", err)
		p.batch.Reset()
		return
	}

	if p.state != nil {
		p.state.IncrementBatchesSent()
		p.state.SetLastLSN(uint64(highWater))
	}
	if feedback != nil {
		select {
		case feedback <- highWater:
		default:
			logging.Warn("LSN feedback channel full, dropping acknowledgement for %d", highWater)
		}
	}

	p.batch.Reset()
}
