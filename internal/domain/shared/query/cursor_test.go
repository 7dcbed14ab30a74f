package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdesk/internal/domain/shared/apperr"
)

func TestCursorRoundTripTime(t *testing.T) {
	at := time.Date(2024, 6, 15, 10, 30, 45, 123456789, time.UTC)

	raw := EncodeCursor(at)
	decoded, err := DecodeCursor(raw, ValueTime)
	require.NoError(t, err)
	assert.Equal(t, at, decoded)
}

func TestCursorRoundTripTimeNormalizesZone(t *testing.T) {
	zone := time.FixedZone("CEST", 2*60*60)
	at := time.Date(2024, 6, 15, 12, 30, 45, 0, zone)

	raw := EncodeCursor(at)
	decoded, err := DecodeCursor(raw, ValueTime)
	require.NoError(t, err)
	assert.True(t, decoded.(time.Time).Equal(at))
	assert.Equal(t, time.UTC, decoded.(time.Time).Location())
}

func TestCursorRoundTripString(t *testing.T) {
	raw := EncodeCursor("carol")
	decoded, err := DecodeCursor(raw, ValueString)
	require.NoError(t, err)
	assert.Equal(t, "carol", decoded)
}

func TestCursorRoundTripEmptyString(t *testing.T) {
	raw := EncodeCursor("")
	require.NotEmpty(t, raw)

	decoded, err := DecodeCursor(raw, ValueString)
	require.NoError(t, err)
	assert.Equal(t, "", decoded)
}

func TestCursorRoundTripInt(t *testing.T) {
	raw := EncodeCursor(3)
	decoded, err := DecodeCursor(raw, ValueInt)
	require.NoError(t, err)
	assert.Equal(t, int64(3), decoded)

	raw = EncodeCursor(int64(-7))
	decoded, err = DecodeCursor(raw, ValueInt)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), decoded)
}

func TestDecodeCursorMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		kind ValueKind
	}{
		{"garbage time", "not-a-time", ValueTime},
		{"garbage int", "12x", ValueInt},
		{"empty string", "", ValueString},
		{"unquoted string", "carol", ValueString},
		{"bool kind has no cursor", "true", ValueBool},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeCursor(tc.raw, tc.kind)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidCursor, apperr.KindOf(err))
		})
	}
}

func TestNewPageTrimsOverfetch(t *testing.T) {
	items := []string{"a", "b", "c"}

	page := NewPage(items, 2, func(s string) any { return s })
	assert.Equal(t, []string{"a", "b"}, page.Items)
	assert.True(t, page.HasMore)
	assert.Equal(t, `"b"`, page.NextCursor)
	assert.Equal(t, 2, page.Total)
}

func TestNewPageEmptyStringSortKey(t *testing.T) {
	// Conversations sorted by name surface private chats with blank names;
	// the token must still round-trip so the next page does not restart.
	items := []string{"", "", ""}

	page := NewPage(items, 2, func(s string) any { return s })
	require.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)

	decoded, err := DecodeCursor(page.NextCursor, ValueString)
	require.NoError(t, err)
	assert.Equal(t, "", decoded)
}

func TestNewPageLastPage(t *testing.T) {
	items := []string{"a", "b"}

	page := NewPage(items, 2, func(s string) any { return s })
	assert.Equal(t, items, page.Items)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
	assert.Equal(t, 2, page.Total)
}

func TestIDPageNeverPaginates(t *testing.T) {
	page := IDPage([]int{1, 2, 3})
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
	assert.Equal(t, 3, page.Total)
}
