// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cdc defines the database-agnostic data model that flows between the
// PostgreSQL logical-replication source, the type mapper, the schema cache,
// and the batching pipeline. Every other domain package in this module
// operates on these types rather than on raw pgoutput wire structures.
package cdc

// OID is a 32-bit PostgreSQL type identifier.
type OID = uint32

// LSN is a 64-bit PostgreSQL WAL log sequence number. Zero means "from the
// slot's consistent point". Keep the in-memory form a single integer and
// only format it at protocol boundaries (see internal/wireformat).
type LSN uint64

// LogicalType is the database-agnostic type a column decodes into.
type LogicalType int

const (
	TypeUnknown LogicalType = iota
	TypeBoolean
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeDecimal
	TypeString
	TypeText
	TypeBytes
	TypeJSON
	TypeJSONB
	TypeUUID
	TypeDate
	TypeTime
	TypeTimestamp
	TypeTimestampTz
)

func (t LogicalType) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	case TypeDecimal:
		return "decimal"
	case TypeString:
		return "string"
	case TypeText:
		return "text"
	case TypeBytes:
		return "bytes"
	case TypeJSON:
		return "json"
	case TypeJSONB:
		return "jsonb"
	case TypeUUID:
		return "uuid"
	case TypeDate:
		return "date"
	case TypeTime:
		return "time"
	case TypeTimestamp:
		return "timestamp"
	case TypeTimestampTz:
		return "timestamptz"
	default:
		return "unknown"
	}
}

// Decimal carries arbitrary-precision numeric shape. Invariant:
// Precision >= Scale >= 0.
type Decimal struct {
	Precision uint8
	Scale     uint8
}

// ColumnDef describes a column's shape for schema-delta reporting.
// Nullable is false iff the column participates in the replica key.
type ColumnDef struct {
	Name        string
	LogicalType LogicalType
	Decimal     Decimal // only meaningful when LogicalType == TypeDecimal
	Nullable    bool
}

// Column is the replication-protocol view of a column, as announced on a
// Relation message: {flags, name, type_id, type_mod}.
type Column struct {
	Flags   uint8
	Name    string
	TypeID  OID
	TypeMod int32
}

// IsKey reports whether this column is part of the replica identity key
// (relation flag bit 0).
func (c Column) IsKey() bool { return c.Flags&1 != 0 }

// TupleDatumKind tags a TupleDatum's variant.
type TupleDatumKind int

const (
	DatumNull TupleDatumKind = iota
	DatumToast
	DatumText
)

// TupleDatum is a single column value as it appears in a row image on the
// wire, before type-mapping. Toast means "unchanged since the prior row
// image" and must propagate as the Unchanged sentinel, never as Null.
type TupleDatum struct {
	Kind TupleDatumKind
	Text []byte // only meaningful when Kind == DatumText
}

// ValueKind tags a Value's variant.
type ValueKind int

const (
	ValNull ValueKind = iota
	ValUnchanged
	ValBool
	ValInt64
	ValFloat64
	ValDecimal
	ValString
	ValText
	ValBytes
	ValJSON
	ValJSONB
	ValUUID
)

// Value is the runtime, type-mapped representation of a column value.
// Decimal/JSON/UUID are carried as textual representations to preserve
// arbitrary precision; Unchanged is a distinct sentinel from Null and must
// never be conflated with it by downstream sinks.
type Value struct {
	Kind  ValueKind
	Bool  bool
	I64   int64
	F64   float64
	Str   string // Decimal, String, Text, JSON, JSONB, UUID text payload
	Bytes []byte
}

func NullValue() Value      { return Value{Kind: ValNull} }
func UnchangedValue() Value { return Value{Kind: ValUnchanged} }
func BoolValue(b bool) Value {
	return Value{Kind: ValBool, Bool: b}
}
func Int64Value(v int64) Value     { return Value{Kind: ValInt64, I64: v} }
func Float64Value(v float64) Value { return Value{Kind: ValFloat64, F64: v} }
func DecimalValue(s string) Value  { return Value{Kind: ValDecimal, Str: s} }
func StringValue(s string) Value   { return Value{Kind: ValString, Str: s} }
func TextValue(s string) Value     { return Value{Kind: ValText, Str: s} }
func BytesValue(b []byte) Value    { return Value{Kind: ValBytes, Bytes: b} }
func JSONValue(s string) Value     { return Value{Kind: ValJSON, Str: s} }
func JSONBValue(s string) Value    { return Value{Kind: ValJSONB, Str: s} }
func UUIDValue(s string) Value     { return Value{Kind: ValUUID, Str: s} }

// ColumnValue pairs a decoded value with its column name.
type ColumnValue struct {
	Name  string
	Value Value
}

// MessageKind tags a CdcMessage's variant.
type MessageKind int

const (
	MsgRelation MessageKind = iota
	MsgInsert
	MsgUpdate
	MsgDelete
	MsgBegin
	MsgCommit
	MsgTruncate
)

// CdcMessage is produced by the external wire-protocol parser (see
// internal/source, which wraps github.com/jackc/pglogrepl) and consumed by
// the schema cache and pipeline. Only the shapes this core needs to reason
// about are represented; Begin/Commit/Truncate are opaque markers carried
// through for ordering purposes only.
type CdcMessage struct {
	Kind MessageKind

	// Relation
	TableID   uint32
	Namespace string
	Name      string
	Columns   []Column

	// Insert/Update/Delete
	NewTuple []TupleDatum
	OldTuple []TupleDatum // Update/Delete only; nil when no old row image present

	// Begin/Commit
	CommitLSN LSN
}

// CdcEvent wraps a decoded message with the LSN it arrived at. LSN
// monotonicity is guaranteed by the producer.
type CdcEvent struct {
	LSN     LSN
	Message CdcMessage
}

// DecodedRow is the fully type-mapped form of a CdcMessage's tuple, produced
// by decoding each TupleDatum against the owning table's schema.
type DecodedRow struct {
	TableID   uint32
	Namespace string
	Name      string
	Operation MessageKind
	New       []ColumnValue
	Old       []ColumnValue
}

// SchemaCacheEntry is the schema-cache's per-table record.
type SchemaCacheEntry struct {
	TableID   uint32
	Namespace string
	Name      string
	Columns   []Column
}

// SchemaDelta describes what changed between two successive Relation
// announcements for the same table_id. Empty deltas must never be emitted.
type SchemaDelta struct {
	TableName      string
	AddedColumns   []ColumnDef
	DroppedColumns []string
	ChangedColumns []ColumnChange
}

// ColumnChange records a column whose (type_id, type_mod) differs between
// two Relation announcements.
type ColumnChange struct {
	Name    string
	OldType Column
	NewType Column
}

// IsEmpty reports whether a SchemaDelta carries no changes at all.
func (d SchemaDelta) IsEmpty() bool {
	return len(d.AddedColumns) == 0 && len(d.DroppedColumns) == 0 && len(d.ChangedColumns) == 0
}

// Batch is an ordered sequence of CdcMessage of bounded size with a
// high-watermark LSN equal to the LSN of its last element.
type Batch struct {
	Messages  []CdcMessage
	HighWater LSN
}

// Len returns the number of messages queued in the batch.
func (b *Batch) Len() int { return len(b.Messages) }

// Append adds a message to the batch and advances the high-water mark.
func (b *Batch) Append(lsn LSN, msg CdcMessage) {
	b.Messages = append(b.Messages, msg)
	b.HighWater = lsn
}

// Reset clears the batch for reuse.
func (b *Batch) Reset() {
	b.Messages = b.Messages[:0]
}
