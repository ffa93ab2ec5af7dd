// Package secure holds the relay's key material handling: PBKDF2 room key
// derivation, HMAC integrity tags and best-effort zeroization. The server
// never handles plaintext messages; these primitives only prove possession
// of the room key and keep derived material from outliving its room.
package secure
