// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds table and column names for hand-written SQL.
package schema

// PortalSessionEntryTable represents the 'portal.session_entry' table
type PortalSessionEntryTable struct {
	Table      string
	SessionID  string
	EntryKey   string
	EntryValue string
	ExpiresAt  string
	UpdatedAt  string
}

// PortalSessionEntry is the schema definition for portal.session_entry
var PortalSessionEntry = PortalSessionEntryTable{
	Table:      "portal.session_entry",
	SessionID:  "sessionid",
	EntryKey:   "entrykey",
	EntryValue: "entryvalue",
	ExpiresAt:  "expiresat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t PortalSessionEntryTable) Columns() []string {
	return []string{
		t.SessionID, t.EntryKey, t.EntryValue, t.ExpiresAt, t.UpdatedAt,
	}
}
