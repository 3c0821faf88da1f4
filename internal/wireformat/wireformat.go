// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package wireformat implements the small set of byte-level encodings the
// PostgreSQL logical-replication protocol needs on the client side: the
// epoch-relative timestamp carried in StandbyStatusUpdate frames, the frame
// itself, and the human-readable "X/Y" LSN format used in log lines and the
// status line.
//
// github.com/jackc/pglogrepl (wired in internal/source) already implements
// equivalent helpers for its own LSN type, and internal/source's driver loop
// sends its StandbyStatusUpdate frames and START_REPLICATION command through
// pglogrepl. The frame builder here is a standalone, independently tested
// implementation against the plain uint64 cdc.LSN; no other package calls it.
package wireformat

import (
	"encoding/binary"
	"fmt"
	"time"

	"seedfast/cli/internal/cdc"
)

// pgEpochOffsetMicros is 2000-01-01T00:00:00Z expressed as microseconds
// since the Unix epoch.
const pgEpochOffsetMicros = 946684800000000

// PgTimestamp returns the current wall-clock time as microseconds since the
// PostgreSQL epoch (2000-01-01T00:00:00Z), the form StandbyStatusUpdate
// frames carry.
func PgTimestamp() int64 {
	return time.Now().UnixMicro() - pgEpochOffsetMicros
}

// standbyStatusUpdateLen is the fixed wire size of a StandbyStatusUpdate
// frame: 1 (type byte) + 8*3 (LSN fields) + 8 (timestamp) + 1 (reply flag).
const standbyStatusUpdateLen = 1 + 8*3 + 8 + 1

// BuildStandbyStatusUpdate constructs the 34-byte client-to-server frame
// acknowledging WAL receipt/flush/apply up to lsn. All three position fields
// carry the same value; this core does not track write/flush/apply
// separately from the high-watermark LSN reported by the pipeline.
func BuildStandbyStatusUpdate(lsn cdc.LSN) []byte {
	buf := make([]byte, standbyStatusUpdateLen)
	buf[0] = 0x72 // 'r'
	binary.BigEndian.PutUint64(buf[1:9], uint64(lsn))
	binary.BigEndian.PutUint64(buf[9:17], uint64(lsn))
	binary.BigEndian.PutUint64(buf[17:25], uint64(lsn))
	binary.BigEndian.PutUint64(buf[25:33], uint64(PgTimestamp()))
	buf[33] = 0 // reply not requested
	return buf
}

// FormatLSN renders an LSN in PostgreSQL's "upper/lower" uppercase-hex form,
// e.g. "16/B374D848". Zero renders as "0/0".
func FormatLSN(lsn cdc.LSN) string {
	if lsn == 0 {
		return "0/0"
	}
	upper := uint32(lsn >> 32)
	lower := uint32(lsn & 0xFFFFFFFF)
	return fmt.Sprintf("%X/%X", upper, lower)
}
