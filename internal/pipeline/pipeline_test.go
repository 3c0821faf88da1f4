// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"seedfast/cli/internal/cdc"
	"seedfast/cli/internal/control"
	"seedfast/cli/internal/schema"
)

type mockSink struct {
	mu         sync.Mutex
	fail       bool
	batches    [][]cdc.CdcMessage
	deltaCalls int
}

func (m *mockSink) PushBatch(ctx context.Context, batch *cdc.Batch, cache *schema.Cache, highWater cdc.LSN) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("sink rejected batch")
	}
	cp := make([]cdc.CdcMessage, len(batch.Messages))
	copy(cp, batch.Messages)
	m.batches = append(m.batches, cp)
	return nil
}

func (m *mockSink) ApplySchemaDelta(ctx context.Context, delta cdc.SchemaDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deltaCalls++
	return nil
}

func insertEvent(lsn cdc.LSN, tableID uint32) cdc.CdcEvent {
	return cdc.CdcEvent{
		LSN:     lsn,
		Message: cdc.CdcMessage{Kind: cdc.MsgInsert, TableID: tableID},
	}
}

func TestPipeline_FlushesOnSizeThenOnClose(t *testing.T) {
	const maxMessages = 3
	m := &mockSink{}
	p := New(Config{MaxMessages: maxMessages, MaxInterval: time.Hour}, m, nil)

	events := make(chan cdc.CdcEvent)
	feedback := make(chan cdc.LSN, 10)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background(), events, feedback) }()

	for i := cdc.LSN(1); i <= maxMessages+1; i++ {
		events <- insertEvent(i, 1)
	}
	close(events)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after events closed")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.batches) != 2 {
		t.Fatalf("got %d batches, want 2 (one full, one partial on close)", len(m.batches))
	}
	if len(m.batches[0]) != maxMessages {
		t.Errorf("first batch has %d messages, want %d", len(m.batches[0]), maxMessages)
	}
	if len(m.batches[1]) != 1 {
		t.Errorf("second (close-triggered) batch has %d messages, want 1", len(m.batches[1]))
	}

	close(feedback)
	var acked []cdc.LSN
	for lsn := range feedback {
		acked = append(acked, lsn)
	}
	if len(acked) != 2 {
		t.Fatalf("feedback delivered %d LSNs, want 2", len(acked))
	}
	if acked[0] != maxMessages || acked[1] != maxMessages+1 {
		t.Errorf("feedback = %v, want [%d %d]", acked, maxMessages, maxMessages+1)
	}
}

func TestPipeline_FailingSinkNeverAdvancesFeedback(t *testing.T) {
	const maxMessages = 3
	m := &mockSink{fail: true}
	p := New(Config{MaxMessages: maxMessages, MaxInterval: time.Hour}, m, nil)

	events := make(chan cdc.CdcEvent)
	feedback := make(chan cdc.LSN, 10)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background(), events, feedback) }()

	for i := cdc.LSN(1); i <= maxMessages+1; i++ {
		events <- insertEvent(i, 1)
	}
	close(events)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after events closed")
	}

	close(feedback)
	var acked []cdc.LSN
	for lsn := range feedback {
		acked = append(acked, lsn)
	}
	if len(acked) != 0 {
		t.Errorf("feedback delivered %v, want none from a failing sink", acked)
	}
}

func TestPipeline_FlushesOnTimerWhenBelowSizeThreshold(t *testing.T) {
	m := &mockSink{}
	p := New(Config{MaxMessages: 1000, MaxInterval: 20 * time.Millisecond}, m, nil)

	events := make(chan cdc.CdcEvent)
	feedback := make(chan cdc.LSN, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, events, feedback) }()

	events <- insertEvent(1, 1)

	select {
	case lsn := <-feedback:
		if lsn != 1 {
			t.Errorf("feedback = %d, want 1", lsn)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer flush never delivered feedback")
	}

	cancel()
	<-done
}

func TestPipeline_PauseSuppressesConsumptionUntilResume(t *testing.T) {
	m := &mockSink{}
	state := control.NewState()
	p := New(Config{MaxMessages: 1, MaxInterval: time.Hour}, m, state)
	state.Pause()

	events := make(chan cdc.CdcEvent, 1)
	feedback := make(chan cdc.LSN, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, events, feedback) }()

	events <- insertEvent(1, 1)

	select {
	case <-feedback:
		t.Fatal("pipeline flushed while paused")
	case <-time.After(150 * time.Millisecond):
	}

	state.Resume()

	select {
	case lsn := <-feedback:
		if lsn != 1 {
			t.Errorf("feedback = %d, want 1", lsn)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline never flushed after resume")
	}

	cancel()
	<-done
}

func TestPipeline_SchemaDeltaForwardedToSink(t *testing.T) {
	m := &mockSink{}
	p := New(Config{MaxMessages: 10, MaxInterval: time.Hour}, m, nil)

	events := make(chan cdc.CdcEvent)
	feedback := make(chan cdc.LSN, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, events, feedback) }()

	relation := cdc.CdcMessage{
		Kind:      cdc.MsgRelation,
		TableID:   1,
		Namespace: "public",
		Name:      "accounts",
		Columns:   []cdc.Column{{Flags: 1, Name: "id", TypeID: 23, TypeMod: -1}},
	}
	events <- cdc.CdcEvent{LSN: 1, Message: relation}

	widened := relation
	widened.Columns = []cdc.Column{
		{Flags: 1, Name: "id", TypeID: 23, TypeMod: -1},
		{Flags: 0, Name: "email", TypeID: 1043, TypeMod: -1},
	}
	events <- cdc.CdcEvent{LSN: 2, Message: widened}

	close(events)
	<-done

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deltaCalls != 1 {
		t.Errorf("ApplySchemaDelta called %d times, want 1 (first Relation seeds silently)", m.deltaCalls)
	}
}
