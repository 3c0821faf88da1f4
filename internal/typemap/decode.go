// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package typemap

import (
	"encoding/hex"
	"strconv"
	"unicode/utf8"

	"seedfast/cli/internal/cdc"
)

// DecodeTupleDatum converts a single wire-format tuple datum into a runtime
// Value, dispatching on the owning column's OID. This never returns an
// error: every failure mode degrades to a looser variant instead.
func DecodeTupleDatum(datum cdc.TupleDatum, oid cdc.OID) cdc.Value {
	switch datum.Kind {
	case cdc.DatumNull:
		return cdc.NullValue()
	case cdc.DatumToast:
		return cdc.UnchangedValue()
	}

	raw := datum.Text
	text, ok := utf8DecodeOrFallback(raw)
	if !ok {
		return cdc.BytesValue(raw)
	}

	switch oid {
	case oidBool:
		return cdc.BoolValue(text == "t" || text == "true" || text == "1")

	case oidInt2, oidInt4, oidInt8, oidOID:
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return cdc.Int64Value(v)
		}
		return cdc.StringValue(text)

	case oidFloat4, oidFloat8:
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return cdc.Float64Value(v)
		}
		return cdc.StringValue(text)

	case oidNumeric:
		return cdc.DecimalValue(text)

	case oidMoney:
		return cdc.DecimalValue(StripMoney(text))

	case oidJSON:
		return cdc.JSONValue(text)

	case oidJSONB:
		return cdc.JSONBValue(text)

	case oidUUID:
		return cdc.UUIDValue(text)

	case oidTstamp:
		return cdc.StringValue(text)

	case oidTstampTz:
		return cdc.StringValue(NormalizeTstz(text))

	case oidBytea:
		return decodeBytea(text, raw)

	case oidInt2Array, oidInt4Array, oidInt8Array:
		return cdc.JSONValue(ParsePgArray(text, "int"))

	case oidFloat4Array, oidFloat8Array:
		return cdc.JSONValue(ParsePgArray(text, "float"))

	case oidTextArray, oidVarcharArray:
		return cdc.JSONValue(ParsePgArray(text, "text"))

	default:
		return cdc.StringValue(text)
	}
}

func utf8DecodeOrFallback(raw []byte) (string, bool) {
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

func decodeBytea(text string, raw []byte) cdc.Value {
	const prefix = "\\x"
	if len(text) < len(prefix) || text[:len(prefix)] != prefix {
		return cdc.BytesValue(raw)
	}
	decoded, err := hex.DecodeString(text[len(prefix):])
	if err != nil {
		return cdc.StringValue(text)
	}
	return cdc.BytesValue(decoded)
}
