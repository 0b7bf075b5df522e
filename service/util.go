package service

import (
	"strings"

	"github.com/google/uuid"
)

// NewRoomCode returns an 8 character room code.
func NewRoomCode() string {
	uuidStr := uuid.New().String()
	return strings.ToUpper(strings.ReplaceAll(uuidStr, "-", "")[:8])
}
