// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package schema implements the pipeline's process-local table-id → column
// list cache, owned exclusively by the pipeline task. It has no persistence
// and no external mutators: Update is the only write path, driven entirely
// by Relation messages observed on the replication stream.
package schema

import (
	"seedfast/cli/internal/cdc"
	"seedfast/cli/internal/typemap"
)

// Cache maps table_id to its current column layout, and detects the
// added/dropped/changed deltas between successive Relation announcements
// for the same table.
type Cache struct {
	entries map[uint32]cdc.SchemaCacheEntry
}

// New creates an empty schema cache.
func New() *Cache {
	return &Cache{entries: make(map[uint32]cdc.SchemaCacheEntry)}
}

// Update applies a CdcMessage to the cache. Only Relation messages have any
// effect. The first Relation seen for a table_id seeds the cache and
// reports no delta (an initial schema is not a delta). A later Relation for
// the same table_id is diffed by column name; if anything changed the entry
// is replaced and the delta returned, otherwise the cache is left untouched
// and nil is returned. Empty deltas are never surfaced to the caller.
func (c *Cache) Update(msg cdc.CdcMessage) *cdc.SchemaDelta {
	if msg.Kind != cdc.MsgRelation {
		return nil
	}

	next := cdc.SchemaCacheEntry{
		TableID:   msg.TableID,
		Namespace: msg.Namespace,
		Name:      msg.Name,
		Columns:   msg.Columns,
	}

	prev, existed := c.entries[msg.TableID]
	if !existed {
		c.entries[msg.TableID] = next
		return nil
	}

	delta := diffColumns(prev.Name, prev.Columns, next.Columns)
	if delta.IsEmpty() {
		return nil
	}

	c.entries[msg.TableID] = next
	return &delta
}

// Get returns the cached columns for table_id, used when decoding data
// messages into typed values. ok is false when no Relation has been seen
// for this table yet.
func (c *Cache) Get(tableID uint32) (cdc.SchemaCacheEntry, bool) {
	entry, ok := c.entries[tableID]
	return entry, ok
}

func diffColumns(tableName string, oldCols, newCols []cdc.Column) cdc.SchemaDelta {
	oldByName := make(map[string]cdc.Column, len(oldCols))
	for _, c := range oldCols {
		oldByName[c.Name] = c
	}
	newByName := make(map[string]cdc.Column, len(newCols))
	for _, c := range newCols {
		newByName[c.Name] = c
	}

	delta := cdc.SchemaDelta{TableName: tableName}

	for _, nc := range newCols {
		oc, ok := oldByName[nc.Name]
		if !ok {
			delta.AddedColumns = append(delta.AddedColumns, typemap.ColumnDefFor(nc))
			continue
		}
		if oc.TypeID != nc.TypeID || oc.TypeMod != nc.TypeMod {
			delta.ChangedColumns = append(delta.ChangedColumns, cdc.ColumnChange{
				Name:    nc.Name,
				OldType: oc,
				NewType: nc,
			})
		}
	}

	for _, oc := range oldCols {
		if _, ok := newByName[oc.Name]; !ok {
			delta.DroppedColumns = append(delta.DroppedColumns, oc.Name)
		}
	}

	return delta
}
