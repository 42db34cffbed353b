// Package pagination implements composite-key keyset pagination shared by
// every feed query. A cursor addresses the last seen row by its sort tuple
// rather than by offset, so concurrent inserts and deletes elsewhere in the
// order never shift a page boundary.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// MinLimit and MaxLimit bound the client-supplied page size.
	MinLimit = 1
	MaxLimit = 100
	// DefaultLimit is used when the client omits the limit.
	DefaultLimit = 20
)

// ClampLimit normalizes an untrusted client limit into [MinLimit, MaxLimit].
// A zero or negative value falls back to DefaultLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Cursor is the opaque "last seen" marker for a feed. UpdatedAt and ID form
// the sort tuple for timestamp-ordered feeds; trending feeds carry the
// derived view count instead, with ID still breaking ties.
type Cursor struct {
	UpdatedAt time.Time `json:"updated_at"`
	ID        uuid.UUID `json:"id"`
	ViewCount *int64    `json:"view_count,omitempty"`
}

// Encode serializes the cursor to an opaque URL-safe token.
func (c Cursor) Encode() string {
	data, err := json.Marshal(c)
	if err != nil {
		// Cursor fields are all marshalable; this cannot happen.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses a cursor token produced by Encode. An empty token yields a
// nil cursor (first page).
func Decode(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	return &c, nil
}

// Page is one page of feed results. NextCursor is nil on the last page.
type Page[T any] struct {
	Items      []T
	NextCursor *Cursor
}

// SlicePage derives a page from rows fetched with LIMIT limit+1. If the
// fetch overflowed the limit, the slice is truncated and the next cursor is
// taken from the last row that remains; otherwise the page is final.
func SlicePage[T any](rows []T, limit int, cursorOf func(T) Cursor) Page[T] {
	if len(rows) <= limit {
		return Page[T]{Items: rows}
	}
	items := rows[:limit]
	next := cursorOf(items[len(items)-1])
	return Page[T]{Items: items, NextCursor: &next}
}
