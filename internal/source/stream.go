// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package source

import (
	"context"
	"time"

	"seedfast/cli/internal/cdc"
	"seedfast/cli/internal/errors"
	"seedfast/cli/internal/logging"

	"github.com/jackc/pglogrepl"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgproto3"
)

const standbyMessageTimeout = 10 * time.Second

// Run drives the replication socket: it reads XLogData and keepalive
// frames, parses pgoutput messages into CdcEvents pushed onto events, and
// sends periodic StandbyStatusUpdate frames acknowledging the highest
// position the pipeline has reported back via acked. It returns when ctx is
// canceled or the connection fails; a closed events channel is the signal
// the pipeline treats as end of stream.
//
// acked is read non-blockingly once per loop iteration: it should receive
// the pipeline's last successfully flushed LSN. When acked is empty there
// is nothing new to report, and the next standby update resends the last
// known position, matching the server's expectation of a steady heartbeat
// even without progress.
func (s *Source) Run(ctx context.Context, events chan<- cdc.CdcEvent, acked <-chan cdc.LSN, startLSN cdc.LSN) error {
	defer close(events)

	clientXLogPos := pglogrepl.LSN(startLSN)
	ackedPos := pglogrepl.LSN(startLSN)
	nextStandby := time.Now().Add(standbyMessageTimeout)

	for {
		select {
		case <-ctx.Done():
			return nil
		case lsn, ok := <-acked:
			if ok && pglogrepl.LSN(lsn) > ackedPos {
				ackedPos = pglogrepl.LSN(lsn)
			}
		default:
		}

		if time.Now().After(nextStandby) {
			if err := pglogrepl.SendStandbyStatusUpdate(ctx, s.replConn, pglogrepl.StandbyStatusUpdate{
				WALWritePosition: ackedPos,
				WALFlushPosition: ackedPos,
				WALApplyPosition: ackedPos,
			}); err != nil {
				return errors.Wrap(errors.TransientIO, "sending standby status update", err)
			}
			nextStandby = time.Now().Add(standbyMessageTimeout)
		}

		recvCtx, cancel := context.WithDeadline(ctx, nextStandby)
		rawMsg, err := s.replConn.ReceiveMessage(recvCtx)
		cancel()
		if err != nil {
			if pgconn.Timeout(err) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(errors.TransientIO, "receiving replication message", err)
		}

		if errMsg, ok := rawMsg.(*pgproto3.ErrorResponse); ok {
			return errors.New(errors.Protocol, "server reported replication error: "+errMsg.Message)
		}

		copyData, ok := rawMsg.(*pgproto3.CopyData)
		if !ok {
			logging.Warn("unexpected replication message type %T", rawMsg)
			continue
		}

		if len(copyData.Data) == 0 {
			continue
		}

		switch copyData.Data[0] {
		case pglogrepl.PrimaryKeepaliveMessageByteID:
			pkm, err := pglogrepl.ParsePrimaryKeepaliveMessage(copyData.Data[1:])
			if err != nil {
				return errors.Wrap(errors.Protocol, "parsing keepalive message", err)
			}
			if pkm.ServerWALEnd > clientXLogPos {
				clientXLogPos = pkm.ServerWALEnd
			}
			if pkm.ReplyRequested {
				nextStandby = time.Time{}
			}

		case pglogrepl.XLogDataByteID:
			xld, err := pglogrepl.ParseXLogData(copyData.Data[1:])
			if err != nil {
				return errors.Wrap(errors.Protocol, "parsing XLogData", err)
			}
			if xld.WALStart > clientXLogPos {
				clientXLogPos = xld.WALStart
			}

			msg, ok, err := ParseMessage(xld.WALData)
			if err != nil {
				logging.Warn("skipping unparseable pgoutput message: %v", err)
				continue
			}
			if !ok {
				continue
			}

			select {
			case events <- cdc.CdcEvent{LSN: cdc.LSN(clientXLogPos), Message: msg}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
