// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sink defines the pipeline's narrow downstream capability set and
// a stdout-backed implementation. Real deployments back Sink with an HTTP
// call, a Kafka producer, or a direct StarRocks/ClickHouse load; this core
// only needs the interface and one reference implementation behind it.
package sink

import (
	"context"

	"seedfast/cli/internal/cdc"
	"seedfast/cli/internal/schema"
)

// Sink is the capability set the pipeline drives: push a batch of raw
// messages (decoded against the schema cache's current column layout) and
// apply a schema delta. Implementations may back either call with any
// transport; the pipeline never inspects the concrete type.
type Sink interface {
	PushBatch(ctx context.Context, batch *cdc.Batch, cache *schema.Cache, highWater cdc.LSN) error
	ApplySchemaDelta(ctx context.Context, delta cdc.SchemaDelta) error
}
