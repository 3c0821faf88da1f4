// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package typemap

import (
	"testing"

	"seedfast/cli/internal/cdc"
)

func textDatum(s string) cdc.TupleDatum {
	return cdc.TupleDatum{Kind: cdc.DatumText, Text: []byte(s)}
}

func TestDecodeTupleDatum_NullAndToast(t *testing.T) {
	null := cdc.TupleDatum{Kind: cdc.DatumNull}
	if got := DecodeTupleDatum(null, oidInt4); got.Kind != cdc.ValNull {
		t.Errorf("null datum decoded as %v, want ValNull", got.Kind)
	}

	toast := cdc.TupleDatum{Kind: cdc.DatumToast}
	if got := DecodeTupleDatum(toast, oidInt4); got.Kind != cdc.ValUnchanged {
		t.Errorf("toast datum decoded as %v, want ValUnchanged", got.Kind)
	}
}

func TestDecodeTupleDatum_Bool(t *testing.T) {
	if got := DecodeTupleDatum(textDatum("t"), oidBool); got.Kind != cdc.ValBool || !got.Bool {
		t.Errorf("decode(\"t\") = %+v, want Bool(true)", got)
	}
	if got := DecodeTupleDatum(textDatum("f"), oidBool); got.Kind != cdc.ValBool || got.Bool {
		t.Errorf("decode(\"f\") = %+v, want Bool(false)", got)
	}
}

func TestDecodeTupleDatum_Bytea(t *testing.T) {
	got := DecodeTupleDatum(textDatum("\\x48656c6c6f"), oidBytea)
	if got.Kind != cdc.ValBytes {
		t.Fatalf("decode bytea = %+v, want ValBytes", got)
	}
	want := []byte{0x48, 0x65, 0x6c, 0x6c, 0x6f}
	if string(got.Bytes) != string(want) {
		t.Errorf("decode bytea bytes = %v, want %v", got.Bytes, want)
	}
}

func TestDecodeTupleDatum_ByteaBadHexFallsBackToString(t *testing.T) {
	got := DecodeTupleDatum(textDatum("\\xzz"), oidBytea)
	if got.Kind != cdc.ValString {
		t.Errorf("decode bad-hex bytea = %+v, want ValString fallback", got)
	}
}

func TestDecodeTupleDatum_Numeric(t *testing.T) {
	got := DecodeTupleDatum(textDatum("1234.5600"), oidNumeric)
	if got.Kind != cdc.ValDecimal || got.Str != "1234.5600" {
		t.Errorf("decode numeric = %+v, want Decimal(\"1234.5600\")", got)
	}
}

func TestDecodeTupleDatum_Money(t *testing.T) {
	got := DecodeTupleDatum(textDatum("$1,234.56"), oidMoney)
	if got.Kind != cdc.ValDecimal || got.Str != "1234.56" {
		t.Errorf("decode money = %+v, want Decimal(\"1234.56\")", got)
	}
}

func TestDecodeTupleDatum_IntegerFallback(t *testing.T) {
	got := DecodeTupleDatum(textDatum("not-an-int"), oidInt4)
	if got.Kind != cdc.ValString || got.Str != "not-an-int" {
		t.Errorf("decode bad int = %+v, want String fallback", got)
	}
}

func TestDecodeTupleDatum_JSONVariants(t *testing.T) {
	if got := DecodeTupleDatum(textDatum(`{"a":1}`), oidJSON); got.Kind != cdc.ValJSON {
		t.Errorf("decode json = %+v, want ValJSON", got)
	}
	if got := DecodeTupleDatum(textDatum(`{"a":1}`), oidJSONB); got.Kind != cdc.ValJSONB {
		t.Errorf("decode jsonb = %+v, want ValJSONB", got)
	}
}

func TestDecodeTupleDatum_TimestampTzNormalized(t *testing.T) {
	got := DecodeTupleDatum(textDatum("2024-06-15 17:30:00+05:30"), oidTstampTz)
	if got.Kind != cdc.ValString || got.Str != "2024-06-15 12:00:00" {
		t.Errorf("decode timestamptz = %+v, want String(\"2024-06-15 12:00:00\")", got)
	}
}

func TestDecodeTupleDatum_TimestampVerbatim(t *testing.T) {
	in := "2024-06-15 17:30:00.123456"
	got := DecodeTupleDatum(textDatum(in), oidTstamp)
	if got.Kind != cdc.ValString || got.Str != in {
		t.Errorf("decode timestamp = %+v, want verbatim String(%q)", got, in)
	}
}

func TestDecodeTupleDatum_IntArray(t *testing.T) {
	got := DecodeTupleDatum(textDatum("{1,2,3}"), oidInt4Array)
	if got.Kind != cdc.ValJSON || got.Str != "[1,2,3]" {
		t.Errorf("decode int array = %+v, want JSON(\"[1,2,3]\")", got)
	}
}

func TestDecodeTupleDatum_UUID(t *testing.T) {
	in := "550e8400-e29b-41d4-a716-446655440000"
	got := DecodeTupleDatum(textDatum(in), oidUUID)
	if got.Kind != cdc.ValUUID || got.Str != in {
		t.Errorf("decode uuid = %+v, want UUID(%q)", got, in)
	}
}

func TestDecodeTupleDatum_InvalidUTF8FallsBackToBytes(t *testing.T) {
	raw := []byte{0xff, 0xfe, 0xfd}
	datum := cdc.TupleDatum{Kind: cdc.DatumText, Text: raw}
	got := DecodeTupleDatum(datum, oidText)
	if got.Kind != cdc.ValBytes {
		t.Errorf("decode invalid utf8 = %+v, want ValBytes", got)
	}
}
