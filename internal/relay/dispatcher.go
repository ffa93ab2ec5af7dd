package relay

import (
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/seedroom-project/backend/internal/secure"
)

// MaxMessageLength is the longest relayed payload, in characters.
const MaxMessageLength = 1000

// Options selects between the strict and lenient relay variants.
type Options struct {
	// RequireMembershipPrecheck makes join_room fail for unknown rooms
	// instead of creating them on demand.
	RequireMembershipPrecheck bool
	// EnforceIntegrity rejects send_message events whose HMAC tag is
	// missing or does not verify against the room key.
	EnforceIntegrity bool
}

// Dispatcher is the connection-event handler layer: it drives the per
// connection join/send/leave state machine, mutates the stores and fans
// outbound events through the hub. Every failure is reported only to the
// originating connection and never mutates shared state.
type Dispatcher struct {
	opts     Options
	rooms    *RoomStore
	sessions *SessionStore
	hub      *Hub
}

func NewDispatcher(opts Options, rooms *RoomStore, sessions *SessionStore, hub *Hub) *Dispatcher {
	return &Dispatcher{
		opts:     opts,
		rooms:    rooms,
		sessions: sessions,
		hub:      hub,
	}
}

// Connect acknowledges a fresh connection with its session identifier.
// Stale sessions are opportunistically reaped here.
func (d *Dispatcher) Connect(c Client) {
	d.sessions.Sweep(time.Now())
	_ = c.Send(Event{
		Type:    EventConnected,
		Payload: ConnectedPayload{SessionID: c.SessionID()},
	})
	zap.L().Debug("client connected", zap.String("session_id", c.SessionID()))
}

// Join binds the connection to a room. In strict mode the room must already
// exist; in lenient mode it is created on demand. Rejoining a room the user
// is already a member of is idempotent: the count does not change and no
// duplicate user_joined goes out.
func (d *Dispatcher) Join(c Client, p JoinPayload) {
	if p.RoomID == "" || p.UserID == "" {
		d.reject(c, ErrMissingFields)
		return
	}

	now := time.Now()
	d.rooms.Sweep(now)
	d.sessions.Sweep(now)

	view, already, err := d.admit(p.RoomID, p.UserID, now)
	if err != nil {
		d.reject(c, err)
		return
	}

	// Rebinding to another room drops the old subscription, or broadcasts
	// there would keep hitting this connection.
	if sess, ok := d.sessions.Get(c.SessionID()); ok && sess.RoomID != p.RoomID {
		d.hub.Remove(sess.RoomID, c)
	}

	d.sessions.Put(c.SessionID(), p.UserID, p.RoomID, now)
	d.hub.Add(p.RoomID, c)

	_ = c.Send(Event{
		Type: EventRoomJoined,
		Payload: RoomJoinedPayload{
			RoomID:     p.RoomID,
			UserID:     p.UserID,
			UsersCount: view.Members,
		},
	})

	if !already {
		d.hub.Broadcast(p.RoomID, c.SessionID(), Event{
			Type: EventUserJoined,
			Payload: UserEventPayload{
				UserID:     p.UserID,
				UsersCount: view.Members,
			},
		})
	}

	zap.L().Info("user joined room",
		zap.String("room_id", p.RoomID),
		zap.String("user_id", p.UserID),
		zap.Int("users_count", view.Members))
}

// Send relays an already-encrypted payload to every other member of the
// room. Nothing is retained once the broadcast is out.
func (d *Dispatcher) Send(c Client, p SendPayload) {
	if p.RoomID == "" || p.Message == "" || p.UserID == "" {
		d.reject(c, ErrIncomplete)
		return
	}

	sess, ok := d.sessions.Get(c.SessionID())
	if !ok || sess.RoomID != p.RoomID {
		d.reject(c, ErrNotJoined)
		return
	}

	view, ok := d.rooms.Get(p.RoomID)
	if !ok {
		d.reject(c, ErrRoomNotFound)
		return
	}
	if !d.rooms.HasMember(p.RoomID, p.UserID) {
		d.reject(c, ErrNotInRoom)
		return
	}
	if utf8.RuneCountInString(p.Message) > MaxMessageLength {
		d.reject(c, ErrMessageTooLong)
		return
	}
	if d.opts.EnforceIntegrity && !secure.VerifyTag(p.Message, view.Key, p.HMAC) {
		d.reject(c, ErrBadIntegrity)
		return
	}

	d.hub.Broadcast(p.RoomID, c.SessionID(), Event{
		Type: EventNewMessage,
		Payload: NewMessagePayload{
			RoomID:    p.RoomID,
			UserID:    p.UserID,
			Message:   p.Message,
			HMAC:      p.HMAC,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})

	// Drop local references to the ciphertext right away; the relay keeps
	// no copy of a message once it has been fanned out.
	p.Message, p.HMAC = "", ""
}

// Leave removes the user from the room and tears down the session. Destroying
// the last membership destroys the room and its key material with it.
func (d *Dispatcher) Leave(c Client, p JoinPayload) {
	if p.RoomID != "" && p.UserID != "" {
		remaining, removed, destroyed := d.rooms.RemoveMember(p.RoomID, p.UserID)
		switch {
		case destroyed:
			zap.L().Info("room destroyed", zap.String("room_id", p.RoomID))
		case removed:
			d.hub.Broadcast(p.RoomID, c.SessionID(), Event{
				Type: EventUserLeft,
				Payload: UserEventPayload{
					UserID:     p.UserID,
					UsersCount: remaining,
				},
			})
		}
	}

	// Unsubscribe from the bound room too, in case the leave names a
	// different one than the session points at.
	if sess, ok := d.sessions.Get(c.SessionID()); ok && sess.RoomID != p.RoomID {
		d.hub.Remove(sess.RoomID, c)
	}
	d.sessions.Delete(c.SessionID())
	d.hub.Remove(p.RoomID, c)

	_ = c.Send(Event{
		Type:    EventRoomLeft,
		Payload: RoomLeftPayload{RoomID: p.RoomID},
	})
}

// Disconnect cleans up after a connection that went away without an explicit
// leave_room. The remaining members get the same user_left they would on a
// clean leave; the closing connection gets nothing.
func (d *Dispatcher) Disconnect(c Client) {
	sess, ok := d.sessions.Get(c.SessionID())
	if !ok {
		return
	}

	remaining, removed, destroyed := d.rooms.RemoveMember(sess.RoomID, sess.UserID)
	switch {
	case destroyed:
		zap.L().Info("room destroyed", zap.String("room_id", sess.RoomID))
	case removed:
		d.hub.Broadcast(sess.RoomID, c.SessionID(), Event{
			Type: EventUserLeft,
			Payload: UserEventPayload{
				UserID:     sess.UserID,
				UsersCount: remaining,
			},
		})
	}

	d.hub.Remove(sess.RoomID, c)
	d.sessions.Delete(c.SessionID())
	zap.L().Debug("client disconnected", zap.String("session_id", c.SessionID()))
}

// admit resolves the join against the room store under the configured
// strictness. already reports whether the user was a member beforehand.
func (d *Dispatcher) admit(roomID, userID string, now time.Time) (RoomView, bool, error) {
	if d.opts.RequireMembershipPrecheck {
		return d.rooms.AddMember(roomID, userID)
	}

	view, already, err := d.rooms.AddMember(roomID, userID)
	if err == ErrRoomNotFound {
		view, already, err = d.rooms.Create(roomID, userID, now)
	}
	return view, already, err
}

// reject surfaces a per-event failure to the originating connection only.
func (d *Dispatcher) reject(c Client, err error) {
	_ = c.Send(Event{
		Type:    EventError,
		Payload: ErrorPayload{Message: err.Error()},
	})
	zap.L().Debug("event rejected",
		zap.String("session_id", c.SessionID()),
		zap.Error(err))
}
