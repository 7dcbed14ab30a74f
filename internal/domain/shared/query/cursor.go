package query

import (
	"strconv"
	"time"

	"teamdesk/internal/domain/shared/apperr"
)

// Cursors encode the sort-key value of the last row of a page. The token is
// opaque to callers; its only guarantee is an exact round-trip through
// DecodeCursor for the matching ValueKind.
//
// Known limitation: when two rows share the same sort-key value at a page
// boundary, the strict < / > cursor predicate can skip or duplicate rows.
// Rows are secondarily ordered by id for determinism, but the id is not part
// of the token.

// EncodeCursor serializes a sort-key value. Strings are quoted so that an
// empty sort key still produces a non-empty token.
func EncodeCursor(v any) string {
	switch value := v.(type) {
	case time.Time:
		return value.UTC().Format(time.RFC3339Nano)
	case string:
		return strconv.Quote(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return ""
	}
}

// DecodeCursor parses a cursor back into the comparable sort-key type.
// Malformed input is a client error, not a server fault.
func DecodeCursor(raw string, kind ValueKind) (any, error) {
	switch kind {
	case ValueTime:
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, apperr.InvalidCursor(raw)
		}
		return t.UTC(), nil
	case ValueInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperr.InvalidCursor(raw)
		}
		return n, nil
	case ValueString:
		value, err := strconv.Unquote(raw)
		if err != nil {
			return nil, apperr.InvalidCursor(raw)
		}
		return value, nil
	default:
		return nil, apperr.InvalidCursor(raw)
	}
}
