package graph

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// MemoryRecord is a stored fact/event/document fragment owned by the external
// memory store. Read-only to this pipeline.
type MemoryRecord struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata MemoryMetadata `json:"metadata"`
}

// MemoryMetadata carries the loosely-typed metadata attached to a record.
// Timestamps arrive as RFC3339 strings, epoch milliseconds, or not at all.
type MemoryMetadata struct {
	Mode      string          `json:"mode,omitempty"`
	Type      string          `json:"type,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	EventDate json.RawMessage `json:"eventDate,omitempty"`
	ExpiresAt json.RawMessage `json:"expiresAt,omitempty"`
}

const labelMaxLen = 60

// NodeFromMemory derives a graph node from a memory record. The event date
// wins over the creation date when both are present; a record without either
// gets the zero time and never participates in temporal synthesis.
func NodeFromMemory(rec MemoryRecord, activeCategory string) Node {
	scope := rec.Metadata.Mode
	if scope == "" {
		scope = activeCategory
	}

	ts := parseTimestamp(rec.Metadata.EventDate)
	if ts.IsZero() {
		ts = parseTimestamp(rec.Metadata.CreatedAt)
	}

	return Node{
		ID:        rec.ID,
		Label:     truncateLabel(rec.Text),
		Type:      ParseNodeType(rec.Metadata.Type),
		Scope:     scope,
		Timestamp: ts,
	}
}

// IsExpired reports whether the record carries an expiry in the past
func (r MemoryRecord) IsExpired(now time.Time) bool {
	expires := parseTimestamp(r.Metadata.ExpiresAt)
	return !expires.IsZero() && expires.Before(now)
}

func truncateLabel(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= labelMaxLen {
		return text
	}
	return string(runes[:labelMaxLen-3]) + "..."
}

// parseTimestamp accepts RFC3339 strings, numeric epoch milliseconds, or
// numeric strings. Anything else yields the zero time.
func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return time.UnixMilli(int64(asNumber)).UTC()
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err != nil || asString == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, asString); err == nil {
		return t.UTC()
	}
	if ms, err := strconv.ParseInt(asString, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}
