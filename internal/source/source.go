// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package source owns the PostgreSQL side of replication: slot creation on
// an ordinary session, the duplex COPY BOTH stream on a second,
// replication-mode session, and replica-identity validation. It is grounded
// directly on the pglogrepl project's own demo (other_examples) and on
// bunnyDB's CDC connector for the slot-creation/dual-session split.
package source

import (
	"context"
	"fmt"
	"strings"

	"seedfast/cli/internal/cdc"
	"seedfast/cli/internal/dsn"
	"seedfast/cli/internal/errors"
	"seedfast/cli/internal/logging"
	"seedfast/cli/internal/wireformat"

	"github.com/jackc/pglogrepl"
	"github.com/jackc/pgx/v5/pgconn"
)

const outputPlugin = "pgoutput"
const protocolVersion = "1"

// Source owns both PostgreSQL sessions needed to drive logical replication:
// a plain session for slot management and ad-hoc validation queries, and a
// replication-mode session for the duplex COPY BOTH stream.
type Source struct {
	cleanURL        string
	slotName        string
	publicationName string

	replConn *pgconn.PgConn
}

// Connect strips any replication=database parameter from url (PostgreSQL's
// non-replication protocol rejects that parameter, so the cleaned URL is
// what every plain query session must use), creates the replication slot if
// it doesn't already exist, and opens the replication-mode session on a
// second connection string derived from the same cleaned URL. The cleaned
// URL is retained on the Source so later ad-hoc sessions (replica-identity
// validation) never need to reread it from the environment.
func Connect(ctx context.Context, rawURL, slotName, publicationName string) (*Source, error) {
	cleanURL, err := dsn.WithoutReplicationParam(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.Configuration, "parsing connection string", err)
	}

	if err := createSlotIfAbsent(ctx, cleanURL, slotName); err != nil {
		return nil, err
	}

	replConn, err := pgconn.Connect(ctx, cleanURL+replicationSuffix(cleanURL))
	if err != nil {
		return nil, errors.Wrap(errors.TransientIO, "opening replication session", err)
	}

	return &Source{
		cleanURL:        cleanURL,
		slotName:        slotName,
		publicationName: publicationName,
		replConn:        replConn,
	}, nil
}

// replicationSuffix appends replication=database as a query parameter,
// choosing the separator based on whether cleanURL already carries a query
// string.
func replicationSuffix(cleanURL string) string {
	if strings.Contains(cleanURL, "?") {
		return "&replication=database"
	}
	return "?replication=database"
}

func createSlotIfAbsent(ctx context.Context, cleanURL, slotName string) error {
	conn, err := pgconn.Connect(ctx, cleanURL)
	if err != nil {
		return errors.Wrap(errors.TransientIO, "opening setup session", err)
	}
	defer conn.Close(ctx)

	_, err = pglogrepl.CreateReplicationSlot(ctx, conn, slotName, outputPlugin, pglogrepl.CreateReplicationSlotOptions{})
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			logging.Info("replication slot %q already exists, reusing it", slotName)
			return nil
		}
		return errors.Wrap(errors.Configuration, fmt.Sprintf("creating replication slot %q", slotName), err)
	}
	logging.Success("created replication slot %q", slotName)
	return nil
}

// StartReplicationFrom issues START_REPLICATION on the duplex session
// beginning at startLSN (zero meaning "from the slot's consistent point")
// and returns once the server has acknowledged the command. Subsequent
// reads happen in Run, against the same PgConn that Conn() exposes.
func (s *Source) StartReplicationFrom(ctx context.Context, startLSN cdc.LSN) error {
	err := pglogrepl.StartReplication(ctx, s.replConn, s.slotName, pglogrepl.LSN(startLSN), pglogrepl.StartReplicationOptions{
		PluginArgs: []string{
			fmt.Sprintf("proto_version '%s'", protocolVersion),
			fmt.Sprintf("publication_names '%s'", s.publicationName),
		},
	})
	if err != nil {
		return errors.Wrap(errors.Protocol, "starting replication stream", err)
	}
	logging.Info("replication started on slot %q at LSN %s", s.slotName, wireformat.FormatLSN(startLSN))
	return nil
}

// Conn exposes the underlying replication-mode connection for the driver
// task that reads XLogData/keepalive frames and writes StandbyStatusUpdate
// frames back.
func (s *Source) Conn() *pgconn.PgConn {
	return s.replConn
}

// CleanURL returns the replication-parameter-stripped connection string
// used for this source's sessions, so callers needing an additional
// ad-hoc session (e.g. replica-identity validation) never reread
// DATABASE_URL themselves.
func (s *Source) CleanURL() string {
	return s.cleanURL
}

// Close terminates the replication-mode session.
func (s *Source) Close(ctx context.Context) error {
	return s.replConn.Close(ctx)
}
