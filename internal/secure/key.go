package secure

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeyBytes is the raw length of a derived room key.
	KeyBytes = 32
	// SaltBytes is the length of the per-room KDF salt.
	SaltBytes = 16
	// KDFIterations is the PBKDF2 iteration count. High on purpose: room
	// identifiers are low-entropy word sequences.
	KDFIterations = 200_000
)

// NewSalt returns SaltBytes of cryptographically secure random data.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltBytes)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveRoomKey stretches a room identifier and salt into the room key.
//
// The key is returned in its url-safe base64 form because that encoded form
// is what clients hold and what the integrity tags are keyed with. Both
// sides of the wire always see the key in this shape; the raw 32 bytes
// never leave this function.
func DeriveRoomKey(roomID string, salt []byte) []byte {
	raw := pbkdf2.Key([]byte(roomID), salt, KDFIterations, KeyBytes, sha256.New)
	defer Zero(raw)

	key := make([]byte, base64.URLEncoding.EncodedLen(len(raw)))
	base64.URLEncoding.Encode(key, raw)
	return key
}

// EncodeSalt renders a salt for transport.
func EncodeSalt(salt []byte) string {
	return base64.URLEncoding.EncodeToString(salt)
}
