package relay

import (
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"
	"go.uber.org/zap"

	"github.com/seedroom-project/backend/internal/secure"
)

// room is the store's internal record. Key holds the derived room key in its
// transport (base64) form; Salt holds the raw KDF salt. Both are zeroized
// when the room is destroyed.
type room struct {
	members   mapset.Set
	createdAt time.Time
	salt      []byte
	key       []byte
}

// RoomView is the projection handed out by the store. Key and Salt are
// copies of the room's buffers, so holders never observe the in-place
// zeroization that happens when the room is destroyed.
type RoomView struct {
	ID      string
	Key     []byte
	Salt    []byte
	Members int
}

// RoomStore owns every live room. All mutation of a room's member set goes
// through the store mutex, so concurrent joins and leaves on the same room
// serialize here.
type RoomStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	rooms map[string]*room
}

func NewRoomStore(ttl time.Duration) *RoomStore {
	return &RoomStore{
		ttl:   ttl,
		rooms: make(map[string]*room),
	}
}

// Create makes a room with a fresh salt, derives and caches its key, and
// adds the creator as the first member. If the identifier already names a
// live room, that room is reused instead (identifier collisions merge);
// already then reports whether the user was a member of it beforehand.
func (s *RoomStore) Create(roomID, userID string, now time.Time) (view RoomView, already bool, err error) {
	s.mu.Lock()
	if r, ok := s.rooms[roomID]; ok {
		already = r.members.Contains(userID)
		r.members.Add(userID)
		view = s.view(roomID, r)
		s.mu.Unlock()
		return view, already, nil
	}
	s.mu.Unlock()

	// Key stretching takes tens of milliseconds; keep it outside the
	// critical section so unrelated rooms are not stalled behind it.
	salt, err := secure.NewSalt()
	if err != nil {
		return RoomView{}, false, err
	}
	key := secure.DeriveRoomKey(roomID, salt)

	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.rooms[roomID]; ok {
		// A concurrent creator won the race; merge into its room and
		// discard our derivation, keeping the salt immutable.
		secure.Zero(key)
		secure.Zero(salt)
		already = r.members.Contains(userID)
		r.members.Add(userID)
		return s.view(roomID, r), already, nil
	}

	r := &room{
		members:   mapset.NewSet(userID),
		createdAt: now,
		salt:      salt,
		key:       key,
	}
	s.rooms[roomID] = r

	return s.view(roomID, r), false, nil
}

// Get returns the room's view, or ok=false if it does not exist.
func (s *RoomStore) Get(roomID string) (RoomView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return RoomView{}, false
	}
	return s.view(roomID, r), true
}

// AddMember adds userID to the room's member set. already reports whether
// the user was a member beforehand (set semantics make the add idempotent).
func (s *RoomStore) AddMember(roomID, userID string) (view RoomView, already bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return RoomView{}, false, ErrRoomNotFound
	}
	already = r.members.Contains(userID)
	r.members.Add(userID)
	return s.view(roomID, r), already, nil
}

// HasMember reports whether userID is in the room's member set.
func (s *RoomStore) HasMember(roomID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	return ok && r.members.Contains(userID)
}

// RemoveMember takes userID out of the room. When the last member leaves the
// room is destroyed in the same critical section, key material included, so
// there is no window where an empty room is still observable.
func (s *RoomStore) RemoveMember(roomID, userID string) (remaining int, removed, destroyed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok || !r.members.Contains(userID) {
		return 0, false, false
	}
	r.members.Remove(userID)

	if r.members.Cardinality() == 0 {
		s.destroy(roomID, r)
		return 0, true, true
	}
	return r.members.Cardinality(), true, false
}

// Sweep evicts every room older than the store TTL.
func (s *RoomStore) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.rooms {
		if now.Sub(r.createdAt) > s.ttl {
			s.destroy(id, r)
			zap.L().Info("reaped expired room", zap.String("room_id", id))
		}
	}
}

// Len returns the number of live rooms.
func (s *RoomStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// WipeAll destroys every room. Called on shutdown.
func (s *RoomStore) WipeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.rooms {
		s.destroy(id, r)
	}
}

// destroy must be called with s.mu held.
func (s *RoomStore) destroy(roomID string, r *room) {
	secure.Zero(r.key)
	secure.Zero(r.salt)
	r.members.Clear()
	delete(s.rooms, roomID)
}

// view must be called with s.mu held. Key and salt are copied out so the
// caller's view stays readable while destroy zeroizes the originals.
func (s *RoomStore) view(roomID string, r *room) RoomView {
	key := make([]byte, len(r.key))
	copy(key, r.key)
	salt := make([]byte, len(r.salt))
	copy(salt, r.salt)

	return RoomView{
		ID:      roomID,
		Key:     key,
		Salt:    salt,
		Members: r.members.Cardinality(),
	}
}
