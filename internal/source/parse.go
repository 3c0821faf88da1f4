// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package source

import (
	"fmt"

	"seedfast/cli/internal/cdc"

	"github.com/jackc/pglogrepl"
)

// ParseMessage decodes one pgoutput protocol v1 message (as delivered
// inside an XLogData frame's WALData) into a CdcMessage, translating the
// pglogrepl wire types into this module's own data model. Message kinds
// the pipeline has no use for (Origin, Type, logical decoding messages,
// streaming-transaction framing) are reported as an empty CdcMessage with
// ok=false so the caller can skip them without special-casing every kind.
func ParseMessage(walData []byte) (cdc.CdcMessage, bool, error) {
	msg, err := pglogrepl.Parse(walData)
	if err != nil {
		return cdc.CdcMessage{}, false, fmt.Errorf("parsing pgoutput message: %w", err)
	}

	switch m := msg.(type) {
	case *pglogrepl.RelationMessage:
		return cdc.CdcMessage{
			Kind:      cdc.MsgRelation,
			TableID:   m.RelationID,
			Namespace: m.Namespace,
			Name:      m.RelationName,
			Columns:   relationColumns(m.Columns),
		}, true, nil

	case *pglogrepl.InsertMessage:
		return cdc.CdcMessage{
			Kind:     cdc.MsgInsert,
			TableID:  m.RelationID,
			NewTuple: tupleDatums(m.Tuple),
		}, true, nil

	case *pglogrepl.UpdateMessage:
		out := cdc.CdcMessage{
			Kind:     cdc.MsgUpdate,
			TableID:  m.RelationID,
			NewTuple: tupleDatums(m.NewTuple),
		}
		if m.OldTuple != nil {
			out.OldTuple = tupleDatums(m.OldTuple)
		}
		return out, true, nil

	case *pglogrepl.DeleteMessage:
		out := cdc.CdcMessage{
			Kind:    cdc.MsgDelete,
			TableID: m.RelationID,
		}
		if m.OldTuple != nil {
			out.OldTuple = tupleDatums(m.OldTuple)
		}
		return out, true, nil

	case *pglogrepl.BeginMessage:
		return cdc.CdcMessage{Kind: cdc.MsgBegin}, true, nil

	case *pglogrepl.CommitMessage:
		return cdc.CdcMessage{Kind: cdc.MsgCommit, CommitLSN: cdc.LSN(m.CommitLSN)}, true, nil

	case *pglogrepl.TruncateMessage:
		if len(m.RelationIDs) == 0 {
			return cdc.CdcMessage{}, false, nil
		}
		return cdc.CdcMessage{Kind: cdc.MsgTruncate, TableID: m.RelationIDs[0]}, true, nil

	default:
		return cdc.CdcMessage{}, false, nil
	}
}

func relationColumns(cols []*pglogrepl.RelationMessageColumn) []cdc.Column {
	out := make([]cdc.Column, len(cols))
	for i, c := range cols {
		out[i] = cdc.Column{
			Flags:   c.Flags,
			Name:    c.Name,
			TypeID:  c.DataType,
			TypeMod: c.TypeModifier,
		}
	}
	return out
}

func tupleDatums(tuple *pglogrepl.TupleData) []cdc.TupleDatum {
	if tuple == nil {
		return nil
	}
	out := make([]cdc.TupleDatum, len(tuple.Columns))
	for i, col := range tuple.Columns {
		switch col.DataType {
		case 'n':
			out[i] = cdc.TupleDatum{Kind: cdc.DatumNull}
		case 'u':
			out[i] = cdc.TupleDatum{Kind: cdc.DatumToast}
		default: // 't' (text)
			out[i] = cdc.TupleDatum{Kind: cdc.DatumText, Text: col.Data}
		}
	}
	return out
}
