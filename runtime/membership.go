package runtime

import (
	"sync"

	"creator-chat/domain"
	"creator-chat/errors"
)

// Membership maintains the set of users subscribed to each logical room.
// Join and Leave are idempotent.
//
// Direct rooms are created lazily by the first join or send that names
// them. Community and stream rooms must be created explicitly; joining an
// unknown one fails with ErrRoomNotFound. A direct or community room id
// stays valid after its member set goes empty, only stream rooms are torn
// down for good.
type Membership struct {
	mu      sync.RWMutex
	rooms   map[domain.RoomID]domain.Room
	members map[domain.RoomID]Set
}

func NewMembership() *Membership {
	return &Membership{
		rooms:   make(map[domain.RoomID]domain.Room),
		members: make(map[domain.RoomID]Set),
	}
}

// Create registers a community or stream room. Creating a room that
// already exists is a no-op.
func (m *Membership) Create(roomID domain.RoomID, kind domain.RoomKind) error {
	if !kind.Valid() {
		return errors.ErrRoomNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[roomID]; ok {
		return nil
	}
	m.rooms[roomID] = domain.NewRoom(roomID, kind)
	return nil
}

// Join subscribes a user to a room. Joining twice is a no-op.
// An unknown direct room is created on the fly.
func (m *Membership) Join(roomID domain.RoomID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[roomID]; !ok {
		if !domain.IsDirectRoomID(roomID) {
			return errors.ErrRoomNotFound
		}
		m.rooms[roomID] = domain.NewRoom(roomID, domain.DirectRoom)
	}

	if _, ok := m.members[roomID]; !ok {
		m.members[roomID] = make(Set)
	}
	m.members[roomID][userID] = struct{}{}
	return nil
}

// Leave unsubscribes a user. Leaving a room the user never joined is a
// no-op. The room record itself survives so the id stays valid.
func (m *Membership) Leave(roomID domain.RoomID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if members, ok := m.members[roomID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.members, roomID)
		}
	}
}

func (m *Membership) MembersOf(roomID domain.RoomID) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	members, ok := m.members[roomID]
	if !ok {
		return nil
	}
	res := make([]string, 0, len(members))
	for userID := range members {
		res = append(res, userID)
	}
	return res
}

func (m *Membership) IsMember(roomID domain.RoomID, userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.members[roomID][userID]
	return ok
}

func (m *Membership) Kind(roomID domain.RoomID) (domain.RoomKind, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	return room.Kind, ok
}

// Close destroys a room and its membership, used when a broadcaster
// stops a stream.
func (m *Membership) Close(roomID domain.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rooms, roomID)
	delete(m.members, roomID)
}
