// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sink

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"seedfast/cli/internal/cdc"
	"seedfast/cli/internal/schema"
	"seedfast/cli/internal/typemap"
)

// Stdout is a reference Sink that writes one JSON line per message and one
// per schema delta to os.Stdout. A failed encode or write is returned as an
// error from PushBatch or ApplySchemaDelta; the pipeline logs it and, for
// PushBatch, does not advance the acknowledged LSN.
type Stdout struct {
	out *os.File
}

// NewStdout creates a Stdout sink writing to os.Stdout.
func NewStdout() *Stdout {
	return &Stdout{out: os.Stdout}
}

type messageRecord struct {
	Kind      string      `json:"kind"`
	TableID   uint32      `json:"table_id"`
	Namespace string      `json:"namespace,omitempty"`
	Name      string      `json:"name,omitempty"`
	CommitLSN uint64      `json:"commit_lsn,omitempty"`
	HighWater uint64      `json:"high_water_lsn"`
	New       []valueJSON `json:"new,omitempty"`
	Old       []valueJSON `json:"old,omitempty"`
}

type valueJSON struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type deltaRecord struct {
	Kind           string   `json:"kind"`
	TableName      string   `json:"table_name"`
	AddedColumns   []string `json:"added_columns,omitempty"`
	DroppedColumns []string `json:"dropped_columns,omitempty"`
	ChangedColumns []string `json:"changed_columns,omitempty"`
}

// PushBatch writes every message in the batch as a JSON line, decoding
// tuple datums against the schema cache's current column layout for the
// message's table_id so the emitted record is keyed by column name rather
// than bare positional datums. A data message for a table_id the cache has
// no Relation for yet is emitted with positional fallback names, since the
// stream itself guarantees a Relation precedes any data message that
// references it but a sink should still degrade gracefully rather than
// drop the row.
func (s *Stdout) PushBatch(ctx context.Context, batch *cdc.Batch, cache *schema.Cache, highWater cdc.LSN) error {
	enc := json.NewEncoder(s.out)
	for _, msg := range batch.Messages {
		rec := messageRecord{
			Kind:      kindName(msg.Kind),
			TableID:   msg.TableID,
			Namespace: msg.Namespace,
			Name:      msg.Name,
			CommitLSN: uint64(msg.CommitLSN),
			HighWater: uint64(highWater),
		}

		entry, hasSchema := cache.Get(msg.TableID)
		if hasSchema {
			rec.Namespace = entry.Namespace
			rec.Name = entry.Name
		}

		if len(msg.NewTuple) > 0 {
			rec.New = decodeTuple(msg.NewTuple, entry.Columns, hasSchema)
		}
		if len(msg.OldTuple) > 0 {
			rec.Old = decodeTuple(msg.OldTuple, entry.Columns, hasSchema)
		}

		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding batch record: %w", err)
		}
	}
	return nil
}

func decodeTuple(datums []cdc.TupleDatum, columns []cdc.Column, hasSchema bool) []valueJSON {
	out := make([]valueJSON, len(datums))
	for i, datum := range datums {
		name := fmt.Sprintf("col%d", i)
		var oid cdc.OID
		if hasSchema && i < len(columns) {
			name = columns[i].Name
			oid = columns[i].TypeID
		}
		out[i] = valueJSON{Name: name, Value: encodeValue(typemap.DecodeTupleDatum(datum, oid))}
	}
	return out
}

// ApplySchemaDelta writes a single JSON line summarizing a schema change.
func (s *Stdout) ApplySchemaDelta(ctx context.Context, delta cdc.SchemaDelta) error {
	rec := deltaRecord{Kind: "schema_delta", TableName: delta.TableName}
	for _, c := range delta.AddedColumns {
		rec.AddedColumns = append(rec.AddedColumns, c.Name)
	}
	rec.DroppedColumns = append(rec.DroppedColumns, delta.DroppedColumns...)
	for _, c := range delta.ChangedColumns {
		rec.ChangedColumns = append(rec.ChangedColumns, c.Name)
	}
	if err := json.NewEncoder(s.out).Encode(rec); err != nil {
		return fmt.Errorf("encoding schema delta record: %w", err)
	}
	return nil
}

// encodeValue converts a decoded column value into the JSON-friendly shape
// this sink emits: bytes become hex, Unchanged becomes a sentinel string
// distinct from null so consumers never conflate the two.
func encodeValue(v cdc.Value) any {
	switch v.Kind {
	case cdc.ValNull:
		return nil
	case cdc.ValUnchanged:
		return "__unchanged__"
	case cdc.ValBool:
		return v.Bool
	case cdc.ValInt64:
		return v.I64
	case cdc.ValFloat64:
		return v.F64
	case cdc.ValBytes:
		return "\\x" + hex.EncodeToString(v.Bytes)
	case cdc.ValDecimal, cdc.ValString, cdc.ValText, cdc.ValJSON, cdc.ValJSONB, cdc.ValUUID:
		return v.Str
	default:
		return nil
	}
}

func kindName(k cdc.MessageKind) string {
	switch k {
	case cdc.MsgRelation:
		return "relation"
	case cdc.MsgInsert:
		return "insert"
	case cdc.MsgUpdate:
		return "update"
	case cdc.MsgDelete:
		return "delete"
	case cdc.MsgBegin:
		return "begin"
	case cdc.MsgCommit:
		return "commit"
	case cdc.MsgTruncate:
		return "truncate"
	default:
		return "unknown"
	}
}
