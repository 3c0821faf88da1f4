// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package typemap implements the OID-to-logical-type registry and the
// textual-tuple-to-runtime-value decoder for pgoutput payloads. Grounded on
// the decodeTextColumnData helpers in the pack's pglogrepl demo and bunnyDB's
// CDC connector (other_examples), generalized from ad-hoc Go-value decoding
// into this module's own LogicalType/Value model.
//
// Decoding never errors: every failure degrades to a looser variant (string,
// bytes, or an echo of the input) rather than aborting the stream.
package typemap

import (
	"sync/atomic"

	"seedfast/cli/internal/cdc"
)

// Known PostgreSQL OID constants (stable, must match bit-exactly).
const (
	oidBool     cdc.OID = 16
	oidBytea    cdc.OID = 17
	oidChar     cdc.OID = 18
	oidName     cdc.OID = 19
	oidInt8     cdc.OID = 20
	oidInt2     cdc.OID = 21
	oidInt4     cdc.OID = 23
	oidText     cdc.OID = 25
	oidOID      cdc.OID = 26
	oidJSON     cdc.OID = 114
	oidXML      cdc.OID = 142
	oidFloat4   cdc.OID = 700
	oidFloat8   cdc.OID = 701
	oidMoney    cdc.OID = 790
	oidMacaddr  cdc.OID = 829
	oidInet     cdc.OID = 869
	oidCidr     cdc.OID = 650
	oidMacaddr8 cdc.OID = 774
	oidBpchar   cdc.OID = 1042
	oidVarchar  cdc.OID = 1043
	oidDate     cdc.OID = 1082
	oidTime     cdc.OID = 1083
	oidTstamp   cdc.OID = 1114
	oidTstampTz cdc.OID = 1184
	oidInterval cdc.OID = 1186
	oidTimeTz   cdc.OID = 1266
	oidBit      cdc.OID = 1560
	oidVarbit   cdc.OID = 1562
	oidNumeric  cdc.OID = 1700
	oidUUID     cdc.OID = 2950
	oidJSONB    cdc.OID = 3802

	oidInt2Array    cdc.OID = 1005
	oidInt4Array    cdc.OID = 1007
	oidInt8Array    cdc.OID = 1016
	oidTextArray    cdc.OID = 1009
	oidVarcharArray cdc.OID = 1015
	oidFloat4Array  cdc.OID = 1021
	oidFloat8Array  cdc.OID = 1022
)

// unknownOIDCounter tracks OIDs that fell back to the String variant because
// they weren't in the registry, as a process-local atomic counter read
// through UnknownOIDCount.
var unknownOIDCounter uint64

// UnknownOIDCount returns the number of OIDToLogical calls that hit an OID
// outside the known registry and fell back to LogicalType String.
func UnknownOIDCount() uint64 {
	return atomic.LoadUint64(&unknownOIDCounter)
}

// OIDToLogical maps a PostgreSQL type OID (plus its type modifier, relevant
// only for NUMERIC) to a LogicalType. Deterministic and idempotent: the same
// (oid, typeMod) pair always yields the same result.
func OIDToLogical(oid cdc.OID, typeMod int32) cdc.LogicalType {
	switch oid {
	case oidBool:
		return cdc.TypeBoolean
	case oidInt2:
		return cdc.TypeInt16
	case oidInt4, oidOID:
		return cdc.TypeInt32
	case oidInt8:
		return cdc.TypeInt64
	case oidFloat4:
		return cdc.TypeFloat32
	case oidFloat8, oidMoney:
		return cdc.TypeFloat64
	case oidNumeric:
		return cdc.TypeDecimal
	case oidChar, oidBpchar, oidVarchar, oidName:
		return cdc.TypeString
	case oidText, oidXML:
		return cdc.TypeText
	case oidBytea:
		return cdc.TypeBytes
	case oidJSON:
		return cdc.TypeJSON
	case oidJSONB:
		return cdc.TypeJSONB
	case oidUUID:
		return cdc.TypeUUID
	case oidDate:
		return cdc.TypeDate
	case oidTime, oidTimeTz:
		return cdc.TypeTime
	case oidTstamp:
		return cdc.TypeTimestamp
	case oidTstampTz:
		return cdc.TypeTimestampTz
	case oidMacaddr, oidMacaddr8, oidInet, oidCidr, oidBit, oidVarbit, oidInterval:
		return cdc.TypeString
	case oidInt2Array, oidInt4Array, oidInt8Array, oidTextArray, oidVarcharArray, oidFloat4Array, oidFloat8Array:
		return cdc.TypeJSON
	default:
		atomic.AddUint64(&unknownOIDCounter, 1)
		return cdc.TypeString
	}
}

// DecimalShape returns the {precision, scale} pair encoded in a NUMERIC
// column's type modifier. When typeMod <= 0 PostgreSQL did not report a
// precision/scale (e.g. "numeric" with no bounds); default to {38, 10}.
func DecimalShape(typeMod int32) cdc.Decimal {
	if typeMod <= 0 {
		return cdc.Decimal{Precision: 38, Scale: 10}
	}
	raw := uint32(typeMod - 4)
	precision := raw >> 16
	scale := raw & 0xFFFF
	return cdc.Decimal{Precision: uint8(precision), Scale: uint8(scale)}
}

// ColumnDefFor builds a ColumnDef from replication Column metadata, the way
// the schema cache needs it for SchemaDelta reporting: a column is treated
// as nullable unless it is part of the replica identity / key.
func ColumnDefFor(col cdc.Column) cdc.ColumnDef {
	def := cdc.ColumnDef{
		Name:        col.Name,
		LogicalType: OIDToLogical(col.TypeID, col.TypeMod),
		Nullable:    !col.IsKey(),
	}
	if def.LogicalType == cdc.TypeDecimal {
		def.Decimal = DecimalShape(col.TypeMod)
	}
	return def
}
