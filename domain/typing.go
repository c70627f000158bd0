package domain

import "time"

// TypingState is the ephemeral "user is typing" entry for one
// (room, user) pair. It expires on its own if no stop signal arrives.
type TypingState struct {
	Room      RoomID
	UserID    string
	UserName  string
	ExpiresAt time.Time
}
