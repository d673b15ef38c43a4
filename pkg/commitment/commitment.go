// Package commitment implements the hash-based pre-commitment a voter
// makes to their encoded vote during the Commit phase, checked against
// the revealed vote during the Vote phase.
package commitment

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/openvote/ovnet/pkg/curve"
)

// Size is the length of a commitment hash.
const Size = 32

// Commit computes commitment = SHA256(encode(vote)).
func Commit(vote curve.Point) [Size]byte {
	return sha256.Sum256(vote.Encode())
}

// Verify reports whether vote hashes to the given commitment.
func Verify(vote curve.Point, commitment []byte) bool {
	if len(commitment) != Size {
		return false
	}
	got := Commit(vote)
	return subtle.ConstantTimeCompare(got[:], commitment) == 1
}
