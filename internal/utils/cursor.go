package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor marks a position in the feed: rows strictly after it in
// (created_at DESC, id DESC) order are on the next page.
type Cursor struct {
	CreatedAt time.Time
	ID        uint64
}

// EncodeCursor returns the opaque client form of c.
func EncodeCursor(c Cursor) string {
	raw := fmt.Sprintf("%d:%d", c.CreatedAt.UnixNano(), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a value produced by EncodeCursor.
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}

	nanos, id, ok := strings.Cut(string(raw), ":")
	if !ok {
		return Cursor{}, ErrInvalidCursor
	}

	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	postID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}

	return Cursor{CreatedAt: time.Unix(0, n).UTC(), ID: postID}, nil
}
