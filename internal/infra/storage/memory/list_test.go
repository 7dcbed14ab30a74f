package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"teamdesk/internal/domain/shared/query"
)

func TestAfterCursorDirection(t *testing.T) {
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	// Descending traversal moves toward older values.
	assert.True(t, afterCursor(earlier, later, true))
	assert.False(t, afterCursor(later, earlier, true))
	assert.False(t, afterCursor(later, later, true))

	// Ascending traversal moves toward newer values.
	assert.True(t, afterCursor(later, earlier, false))
	assert.False(t, afterCursor(earlier, later, false))
}

func TestLessInOrderTiebreaksOnID(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, lessInOrder(at, at, "a", "b", true))
	assert.True(t, lessInOrder(at, at, "a", "b", false))
	assert.False(t, lessInOrder(at, at, "b", "a", true))
}

func TestExactMatchBoolNormalization(t *testing.T) {
	clause := query.FilterClause{Path: "is_online", Value: "True", Kind: query.ValueBool}
	assert.True(t, exactMatch(clause, "true"))
	assert.True(t, exactMatch(clause, "1"))
	assert.False(t, exactMatch(clause, "false"))
	assert.False(t, exactMatch(clause, "offline"))
}

func TestMatchesSearchCaseInsensitive(t *testing.T) {
	value := func(path string) string {
		if path == "name" {
			return "Deploy Runbook"
		}
		return ""
	}
	assert.True(t, matchesSearch("runBOOK", []string{"name", "notes"}, value))
	assert.False(t, matchesSearch("rollback", []string{"name", "notes"}, value))
	assert.True(t, matchesSearch("", []string{"name"}, value))
}
