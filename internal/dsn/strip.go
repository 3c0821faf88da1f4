// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

// WithoutReplicationParam parses a PostgreSQL DSN, removes the
// replication=database query parameter if present, and renormalizes it.
// pgconn accepts replication=database to open a session in replication
// mode, but libpq rejects that same parameter on a plain (non-replication)
// session, so the source driver keeps one cleaned DSN around for its
// regular queries and appends replication=database itself only for the
// second, replication-mode connection.
func WithoutReplicationParam(rawDSN string) (string, error) {
	resolver := NewPostgreSQLResolver()

	info, err := resolver.Parse(rawDSN)
	if err != nil {
		return "", err
	}

	delete(info.Params, "replication")

	return resolver.Normalize(info)
}
