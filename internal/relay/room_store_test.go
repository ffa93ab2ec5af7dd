package relay

import (
	"sync"
	"testing"
	"time"
)

func TestRoomStoreCreateAndGet(t *testing.T) {
	s := NewRoomStore(2 * time.Hour)
	now := time.Now()

	view, already, err := s.Create("blue-cat-river-echo-chip", "alice", now)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if already {
		t.Error("Create() already = true for a fresh room")
	}
	if view.Members != 1 {
		t.Errorf("Members = %d, want 1 (creator joins at create time)", view.Members)
	}
	if len(view.Salt) == 0 || len(view.Key) == 0 {
		t.Error("Create() returned empty salt or key")
	}

	got, ok := s.Get("blue-cat-river-echo-chip")
	if !ok {
		t.Fatal("Get() ok = false for existing room")
	}
	if string(got.Key) != string(view.Key) {
		t.Error("Get() returned a different key than Create()")
	}
}

func TestRoomStoreCollisionMerges(t *testing.T) {
	s := NewRoomStore(2 * time.Hour)
	now := time.Now()

	first, _, err := s.Create("blue-cat-river-echo-chip", "alice", now)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, already, err := s.Create("blue-cat-river-echo-chip", "bob", now)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if already {
		t.Error("already = true for a user joining via collision for the first time")
	}
	if second.Members != 2 {
		t.Errorf("Members = %d, want 2 after collision merge", second.Members)
	}
	if string(first.Key) != string(second.Key) {
		t.Error("collision produced a different key; salt must be immutable for the room's lifetime")
	}
}

func TestRoomStoreMembership(t *testing.T) {
	s := NewRoomStore(2 * time.Hour)
	now := time.Now()

	if _, _, err := s.AddMember("no-such-room", "alice"); err != ErrRoomNotFound {
		t.Errorf("AddMember() on unknown room error = %v, want ErrRoomNotFound", err)
	}

	_, _, _ = s.Create("blue-cat-river-echo-chip", "alice", now)

	view, already, err := s.AddMember("blue-cat-river-echo-chip", "bob")
	if err != nil || already || view.Members != 2 {
		t.Errorf("AddMember(bob) = (%d members, already=%v, err=%v), want (2, false, nil)",
			view.Members, already, err)
	}

	// Set semantics: re-adding does not grow the count.
	view, already, err = s.AddMember("blue-cat-river-echo-chip", "bob")
	if err != nil || !already || view.Members != 2 {
		t.Errorf("AddMember(bob) again = (%d members, already=%v, err=%v), want (2, true, nil)",
			view.Members, already, err)
	}

	if !s.HasMember("blue-cat-river-echo-chip", "alice") {
		t.Error("HasMember(alice) = false")
	}
	if s.HasMember("blue-cat-river-echo-chip", "mallory") {
		t.Error("HasMember(mallory) = true")
	}
}

func TestRoomStoreLastLeaverDestroysRoom(t *testing.T) {
	s := NewRoomStore(2 * time.Hour)
	now := time.Now()

	_, _, _ = s.Create("blue-cat-river-echo-chip", "alice", now)
	_, _, _ = s.AddMember("blue-cat-river-echo-chip", "bob")

	remaining, removed, destroyed := s.RemoveMember("blue-cat-river-echo-chip", "alice")
	if !removed || destroyed || remaining != 1 {
		t.Fatalf("RemoveMember(alice) = (%d, %v, %v), want (1, true, false)", remaining, removed, destroyed)
	}

	keyBefore := s.rooms["blue-cat-river-echo-chip"].key
	_, removed, destroyed = s.RemoveMember("blue-cat-river-echo-chip", "bob")
	if !removed || !destroyed {
		t.Fatalf("RemoveMember(bob) removed=%v destroyed=%v, want both true", removed, destroyed)
	}

	// No observable window with an empty-but-present room.
	if _, ok := s.Get("blue-cat-river-echo-chip"); ok {
		t.Error("Get() ok = true after last member left")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}

	// The derived key must not outlive its room.
	for _, b := range keyBefore {
		if b != 0 {
			t.Error("key material not zeroized after room destruction")
			break
		}
	}
}

func TestRoomStoreRemoveMemberUnknown(t *testing.T) {
	s := NewRoomStore(2 * time.Hour)
	_, _, _ = s.Create("blue-cat-river-echo-chip", "alice", time.Now())

	if _, removed, _ := s.RemoveMember("no-such-room", "alice"); removed {
		t.Error("RemoveMember() removed = true for unknown room")
	}
	if _, removed, _ := s.RemoveMember("blue-cat-river-echo-chip", "mallory"); removed {
		t.Error("RemoveMember() removed = true for non-member")
	}
}

func TestRoomViewDetachedFromStore(t *testing.T) {
	s := NewRoomStore(2 * time.Hour)
	view, _, _ := s.Create("blue-cat-river-echo-chip", "alice", time.Now())

	live := s.rooms["blue-cat-river-echo-chip"]
	if &view.Key[0] == &live.key[0] || &view.Salt[0] == &live.salt[0] {
		t.Fatal("view aliases the live key or salt buffer")
	}

	// Destroying the room zeroizes the originals but must leave the
	// handed-out copies readable.
	_, _, destroyed := s.RemoveMember("blue-cat-river-echo-chip", "alice")
	if !destroyed {
		t.Fatal("expected the room to be destroyed")
	}

	allZero := true
	for _, b := range view.Key {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Error("view key was zeroized with the room; it should be a copy")
	}
}

func TestRoomStoreConcurrentCreate(t *testing.T) {
	s := NewRoomStore(2 * time.Hour)
	now := time.Now()

	users := []string{"alice", "bob", "carol", "dave", "erin", "frank"}
	views := make([]RoomView, len(users))

	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			view, _, err := s.Create("blue-cat-river-echo-chip", u, now)
			if err != nil {
				t.Errorf("Create(%s) error = %v", u, err)
				return
			}
			views[i] = view
		}(i, u)
	}
	wg.Wait()

	if s.Len() != 1 {
		t.Fatalf("Len() = %d after concurrent creates of one id, want 1", s.Len())
	}

	// Every creator merged into the same room and got the same key.
	final, _ := s.Get("blue-cat-river-echo-chip")
	if final.Members != len(users) {
		t.Errorf("Members = %d, want %d", final.Members, len(users))
	}
	for i, v := range views {
		if string(v.Key) != string(final.Key) {
			t.Errorf("creator %d got a different key than the surviving room", i)
		}
	}
}

func TestRoomStoreSweep(t *testing.T) {
	s := NewRoomStore(2 * time.Hour)
	created := time.Now()

	_, _, _ = s.Create("old-room-one-two-three", "alice", created)
	_, _, _ = s.Create("new-room-one-two-three", "bob", created.Add(90*time.Minute))

	s.Sweep(created.Add(121 * time.Minute))

	if _, ok := s.Get("old-room-one-two-three"); ok {
		t.Error("room older than TTL survived Sweep()")
	}
	if _, ok := s.Get("new-room-one-two-three"); !ok {
		t.Error("room within TTL was reaped")
	}
}

func TestRoomStoreWipeAll(t *testing.T) {
	s := NewRoomStore(2 * time.Hour)
	_, _, _ = s.Create("blue-cat-river-echo-chip", "alice", time.Now())
	key := s.rooms["blue-cat-river-echo-chip"].key

	s.WipeAll()

	if s.Len() != 0 {
		t.Errorf("Len() = %d after WipeAll, want 0", s.Len())
	}
	for _, b := range key {
		if b != 0 {
			t.Error("key material not zeroized by WipeAll")
			break
		}
	}
}
