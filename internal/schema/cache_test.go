// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package schema

import (
	"testing"

	"seedfast/cli/internal/cdc"
)

func relationMsg(tableID uint32, cols []cdc.Column) cdc.CdcMessage {
	return cdc.CdcMessage{
		Kind:      cdc.MsgRelation,
		TableID:   tableID,
		Namespace: "public",
		Name:      "accounts",
		Columns:   cols,
	}
}

func TestCache_FirstRelationSeedsWithNoDelta(t *testing.T) {
	c := New()
	cols := []cdc.Column{
		{Flags: 1, Name: "id", TypeID: 23, TypeMod: -1},
		{Flags: 0, Name: "name", TypeID: 1043, TypeMod: -1},
	}

	if delta := c.Update(relationMsg(1, cols)); delta != nil {
		t.Errorf("first Relation returned delta %+v, want nil", delta)
	}

	entry, ok := c.Get(1)
	if !ok {
		t.Fatal("Get(1) ok = false after seeding")
	}
	if entry.Name != "accounts" || len(entry.Columns) != 2 {
		t.Errorf("cached entry = %+v, want accounts/2 columns", entry)
	}
}

func TestCache_IdenticalRelationReturnsNoDelta(t *testing.T) {
	c := New()
	cols := []cdc.Column{
		{Flags: 1, Name: "id", TypeID: 23, TypeMod: -1},
	}

	c.Update(relationMsg(1, cols))
	if delta := c.Update(relationMsg(1, cols)); delta != nil {
		t.Errorf("identical second Relation returned delta %+v, want nil", delta)
	}
}

func TestCache_AddedColumnDelta(t *testing.T) {
	c := New()
	initial := []cdc.Column{
		{Flags: 1, Name: "id", TypeID: 23, TypeMod: -1},
	}
	c.Update(relationMsg(1, initial))

	withNewCol := []cdc.Column{
		{Flags: 1, Name: "id", TypeID: 23, TypeMod: -1},
		{Flags: 0, Name: "email", TypeID: 1043, TypeMod: -1},
	}
	delta := c.Update(relationMsg(1, withNewCol))
	if delta == nil {
		t.Fatal("added column produced nil delta")
	}
	if len(delta.AddedColumns) != 1 || delta.AddedColumns[0].Name != "email" {
		t.Errorf("AddedColumns = %+v, want [email]", delta.AddedColumns)
	}
	if len(delta.DroppedColumns) != 0 || len(delta.ChangedColumns) != 0 {
		t.Errorf("delta = %+v, want only AddedColumns populated", delta)
	}

	entry, _ := c.Get(1)
	if len(entry.Columns) != 2 {
		t.Errorf("cache not updated after delta, entry = %+v", entry)
	}
}

func TestCache_DroppedColumnDelta(t *testing.T) {
	c := New()
	initial := []cdc.Column{
		{Flags: 1, Name: "id", TypeID: 23, TypeMod: -1},
		{Flags: 0, Name: "legacy", TypeID: 1043, TypeMod: -1},
	}
	c.Update(relationMsg(1, initial))

	withoutLegacy := []cdc.Column{
		{Flags: 1, Name: "id", TypeID: 23, TypeMod: -1},
	}
	delta := c.Update(relationMsg(1, withoutLegacy))
	if delta == nil {
		t.Fatal("dropped column produced nil delta")
	}
	if len(delta.DroppedColumns) != 1 || delta.DroppedColumns[0] != "legacy" {
		t.Errorf("DroppedColumns = %v, want [legacy]", delta.DroppedColumns)
	}
}

func TestCache_ChangedColumnTypeDelta(t *testing.T) {
	c := New()
	initial := []cdc.Column{
		{Flags: 1, Name: "id", TypeID: 23, TypeMod: -1},
	}
	c.Update(relationMsg(1, initial))

	widened := []cdc.Column{
		{Flags: 1, Name: "id", TypeID: 20, TypeMod: -1},
	}
	delta := c.Update(relationMsg(1, widened))
	if delta == nil {
		t.Fatal("changed column type produced nil delta")
	}
	if len(delta.ChangedColumns) != 1 || delta.ChangedColumns[0].Name != "id" {
		t.Errorf("ChangedColumns = %+v, want [id]", delta.ChangedColumns)
	}
}

func TestCache_GetUnknownTable(t *testing.T) {
	c := New()
	if _, ok := c.Get(999); ok {
		t.Error("Get on unseen table_id returned ok = true")
	}
}

func TestCache_NonRelationMessageIgnored(t *testing.T) {
	c := New()
	msg := cdc.CdcMessage{Kind: cdc.MsgInsert, TableID: 1}
	if delta := c.Update(msg); delta != nil {
		t.Errorf("Insert message produced delta %+v, want nil", delta)
	}
	if _, ok := c.Get(1); ok {
		t.Error("Insert message seeded the cache, want untouched")
	}
}
