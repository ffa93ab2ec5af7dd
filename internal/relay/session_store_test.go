package relay

import (
	"testing"
	"time"
)

func TestSessionStorePutGetDelete(t *testing.T) {
	s := NewSessionStore(time.Hour)
	now := time.Now()

	s.Put("sid-1", "alice", "blue-cat-river-echo-chip", now)

	sess, ok := s.Get("sid-1")
	if !ok {
		t.Fatal("Get() ok = false after Put")
	}
	if sess.UserID != "alice" || sess.RoomID != "blue-cat-river-echo-chip" {
		t.Errorf("Get() = %+v, want alice in blue-cat-river-echo-chip", sess)
	}
	if !sess.LastActivity.Equal(now) {
		t.Errorf("LastActivity = %v, want %v", sess.LastActivity, now)
	}

	s.Delete("sid-1")
	if _, ok := s.Get("sid-1"); ok {
		t.Error("Get() ok = true after Delete")
	}
}

func TestSessionStoreRebind(t *testing.T) {
	s := NewSessionStore(time.Hour)
	now := time.Now()

	s.Put("sid-1", "alice", "room-a", now)
	s.Put("sid-1", "alice", "room-b", now.Add(time.Minute))

	sess, _ := s.Get("sid-1")
	if sess.RoomID != "room-b" {
		t.Errorf("RoomID = %q after rebind, want room-b", sess.RoomID)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSessionStoreSweep(t *testing.T) {
	s := NewSessionStore(time.Hour)
	base := time.Now()

	s.Put("stale", "alice", "room-a", base)
	s.Put("fresh", "bob", "room-a", base.Add(45*time.Minute))

	s.Sweep(base.Add(61 * time.Minute))

	if _, ok := s.Get("stale"); ok {
		t.Error("session idle past TTL survived Sweep()")
	}
	if _, ok := s.Get("fresh"); !ok {
		t.Error("session within TTL was reaped")
	}
}

func TestSessionStoreWipeAll(t *testing.T) {
	s := NewSessionStore(time.Hour)
	s.Put("sid-1", "alice", "room-a", time.Now())
	s.Put("sid-2", "bob", "room-a", time.Now())

	s.WipeAll()

	if s.Len() != 0 {
		t.Errorf("Len() = %d after WipeAll, want 0", s.Len())
	}
}
