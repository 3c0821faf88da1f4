// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package source

import (
	"context"
	"fmt"
	"strings"

	"seedfast/cli/internal/errors"
	"seedfast/cli/internal/logging"

	"github.com/jackc/pgx/v5"
)

// ValidateReplicaIdentity opens an ad-hoc query session on the source's
// already-cleaned URL (never rereading the raw connection string) and
// checks pg_class.relreplident for every table, logging at a severity that
// matches how much risk each setting carries for downstream delete
// reconstruction. A table with replica identity NOTHING cannot stream old
// row images at all and is treated as a fatal configuration error.
func (s *Source) ValidateReplicaIdentity(ctx context.Context, tables []string) error {
	conn, err := pgx.Connect(ctx, s.cleanURL)
	if err != nil {
		return errors.Wrap(errors.TransientIO, "opening validation session", err)
	}
	defer conn.Close(ctx)

	for _, table := range tables {
		qualified := table
		if !strings.Contains(qualified, ".") {
			qualified = "public." + qualified
		}

		var identity string
		row := conn.QueryRow(ctx, "SELECT relreplident FROM pg_class WHERE oid = $1::regclass", qualified)
		if err := row.Scan(&identity); err != nil {
			return errors.Wrap(errors.Configuration, fmt.Sprintf("looking up replica identity for %q", qualified), err)
		}

		switch identity {
		case "f":
			logging.Success("%s: replica identity FULL", qualified)
		case "d":
			logging.Warn("%s: replica identity DEFAULT — deletes will only carry primary-key columns", qualified)
		case "i":
			logging.Info("%s: replica identity INDEX — deletes carry the named unique index's columns", qualified)
		case "n":
			return errors.New(errors.Configuration, fmt.Sprintf("%s: replica identity NOTHING — logical replication cannot stream row images for this table", qualified))
		default:
			logging.Warn("%s: unrecognized replica identity code %q", qualified, identity)
		}
	}

	return nil
}
