package graph

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNodeFromMemory_EventDateWinsOverCreatedAt(t *testing.T) {
	rec := MemoryRecord{
		ID:   "m1",
		Text: "Dentist appointment",
		Metadata: MemoryMetadata{
			Mode:      "parent",
			Type:      "memory",
			CreatedAt: json.RawMessage(`"2026-03-01T10:00:00Z"`),
			EventDate: json.RawMessage(`"2026-03-05T09:30:00Z"`),
		},
	}

	node := NodeFromMemory(rec, "student")

	assert.Equal(t, "m1", node.ID)
	assert.Equal(t, "parent", node.Scope)
	assert.Equal(t, NodeTypeMemory, node.Type)
	assert.Equal(t, time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC), node.Timestamp)
}

func TestNodeFromMemory_DefaultsScopeAndType(t *testing.T) {
	rec := MemoryRecord{ID: "m2", Text: "plain"}

	node := NodeFromMemory(rec, "job")

	assert.Equal(t, "job", node.Scope)
	assert.Equal(t, NodeTypeDefault, node.Type)
	assert.True(t, node.Timestamp.IsZero())
}

func TestNodeFromMemory_EpochMillisecondTimestamps(t *testing.T) {
	rec := MemoryRecord{
		ID: "m3",
		Metadata: MemoryMetadata{
			CreatedAt: json.RawMessage(`1767225600000`),
		},
	}

	node := NodeFromMemory(rec, "student")

	assert.Equal(t, time.UnixMilli(1767225600000).UTC(), node.Timestamp)
}

func TestNodeFromMemory_TruncatesLongLabels(t *testing.T) {
	rec := MemoryRecord{ID: "m4", Text: strings.Repeat("x", 200)}

	node := NodeFromMemory(rec, "student")

	assert.Len(t, node.Label, labelMaxLen)
	assert.True(t, strings.HasSuffix(node.Label, "..."))
}

func TestNodeFromMemory_TruncatesMultibyteLabelsOnRuneBoundary(t *testing.T) {
	rec := MemoryRecord{ID: "m5", Text: strings.Repeat("ü", 200)}

	node := NodeFromMemory(rec, "student")

	assert.True(t, utf8.ValidString(node.Label))
	assert.Equal(t, labelMaxLen, utf8.RuneCountInString(node.Label))
	assert.True(t, strings.HasSuffix(node.Label, "..."))
}

func TestMemoryRecord_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	expired := MemoryRecord{Metadata: MemoryMetadata{ExpiresAt: json.RawMessage(`"2026-03-01T00:00:00Z"`)}}
	fresh := MemoryRecord{Metadata: MemoryMetadata{ExpiresAt: json.RawMessage(`"2026-04-01T00:00:00Z"`)}}
	unset := MemoryRecord{}

	assert.True(t, expired.IsExpired(now))
	assert.False(t, fresh.IsExpired(now))
	assert.False(t, unset.IsExpired(now))
}
