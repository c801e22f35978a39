package domain

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrInvalidCursor = errors.New("invalid cursor")
)
