package memstore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

// Cursor is an opaque position in a room's history.
type Cursor struct {
	Offset int `json:"offset"`
}

func EncodeCursor(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", domain.ErrInvalidCursor, err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", domain.ErrInvalidCursor, err)
	}
	if c.Offset < 0 {
		return nil, fmt.Errorf("%w: negative offset", domain.ErrInvalidCursor)
	}
	return &c, nil
}
