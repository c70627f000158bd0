package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectRoomID_OrderIndependent(t *testing.T) {
	req := require.New(t)

	// Given two participants, whoever initiates
	// Then both sides compute the identical room id
	req.Equal(DirectRoomID("u1", "u2"), DirectRoomID("u2", "u1"))
	req.Equal(RoomID("dm_u1_u2"), DirectRoomID("u2", "u1"))
}

func TestDirectRoomID_SortsLexicographically(t *testing.T) {
	req := require.New(t)

	req.Equal(RoomID("dm_alice_bob"), DirectRoomID("bob", "alice"))
	req.Equal(RoomID("dm_alice_bob"), DirectRoomID("alice", "bob"))
}

func TestIsDirectRoomID(t *testing.T) {
	req := require.New(t)

	req.True(IsDirectRoomID(DirectRoomID("u1", "u2")))
	req.False(IsDirectRoomID("community_42"))
	req.False(IsDirectRoomID("stream_42"))
}

func TestRoomKind_Valid(t *testing.T) {
	req := require.New(t)

	req.True(DirectRoom.Valid())
	req.True(CommunityRoom.Valid())
	req.True(StreamRoom.Valid())
	req.False(RoomKind("VOICE").Valid())
}
