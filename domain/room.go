// Package domain contains core concepts of the messaging system.
// This file defines Room identity and the canonical direct-room naming rule.
package domain

import (
	"fmt"
	"strings"
	"time"
)

type RoomID string

type RoomKind string

const (
	DirectRoom    RoomKind = "DIRECT"
	CommunityRoom RoomKind = "COMMUNITY"
	StreamRoom    RoomKind = "STREAM"
)

const directRoomPrefix = "dm_"

// Room is a logical channel. Membership lives in the runtime registry,
// not on the value itself.
type Room struct {
	ID        RoomID
	Kind      RoomKind
	CreatedAt time.Time
}

func NewRoom(id RoomID, kind RoomKind) Room {
	return Room{ID: id, Kind: kind, CreatedAt: time.Now().UTC()}
}

// DirectRoomID derives the room id shared by two participants.
// Both sides must converge on the same id regardless of who initiates,
// so the two user ids are sorted lexicographically before joining.
func DirectRoomID(userA, userB string) RoomID {
	if userB < userA {
		userA, userB = userB, userA
	}
	return RoomID(directRoomPrefix + userA + "_" + userB)
}

// IsDirectRoomID reports whether an id follows the direct-room naming rule.
// Direct rooms are the only kind created implicitly on first join or send.
func IsDirectRoomID(id RoomID) bool {
	return strings.HasPrefix(string(id), directRoomPrefix)
}

func (k RoomKind) Valid() bool {
	switch k {
	case DirectRoom, CommunityRoom, StreamRoom:
		return true
	}
	return false
}

func (r Room) String() string {
	return fmt.Sprintf("%s(%s)", r.ID, r.Kind)
}
