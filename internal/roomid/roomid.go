// Package roomid generates human-readable room identifiers. Identifiers
// double as key derivation input, so guessing one is equivalent to joining
// the room: sampling must come from crypto/rand, never math/rand.
package roomid

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	// WordCount is the number of words in a generated identifier.
	WordCount = 5
	// Separator joins the sampled words.
	Separator = "-"
)

// New returns a fresh room identifier of WordCount words sampled uniformly
// with replacement from the corpus. Identifiers are not checked against
// existing rooms; a collision lands the caller in the existing room.
func New() (string, error) {
	corpus := big.NewInt(int64(len(seedWords)))
	words := make([]string, WordCount)
	for i := range words {
		n, err := rand.Int(rand.Reader, corpus)
		if err != nil {
			return "", err
		}
		words[i] = seedWords[n.Int64()]
	}
	return strings.Join(words, Separator), nil
}
