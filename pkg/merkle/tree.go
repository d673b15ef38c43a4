// Package merkle implements the binary SHA-256 Merkle tree used to
// authorize voters: the configured root commits to the set of account
// identities allowed to register, and each voter proves membership
// with an inclusion proof over their own leaf.
package merkle

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
)

// LeafSize is the fixed size of a leaf hash.
const LeafSize = 32

var (
	// ErrEmptyLeaves is returned when building a tree from no leaves.
	ErrEmptyLeaves = errors.New("merkle: cannot build a tree with no leaves")
	// ErrInvalidLeafSize is returned when a leaf is not exactly LeafSize bytes.
	ErrInvalidLeafSize = errors.New("merkle: leaf must be 32 bytes")
	// ErrIndexOutOfRange is returned when a proof index exceeds the leaf count.
	ErrIndexOutOfRange = errors.New("merkle: index out of range")
)

// Tree is a binary Merkle tree over SHA-256 leaf hashes, stored level
// by level from the leaves up to the single root.
type Tree struct {
	levels [][][]byte
}

// Build constructs a Merkle tree from the given leaf hashes, in the
// insertion order that defines the authorized voter set. Odd levels
// duplicate their last node, matching the standard Bitcoin-style
// binary Merkle tree construction.
func Build(leaves [][]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyLeaves
	}
	level := make([][]byte, len(leaves))
	for i, l := range leaves {
		if len(l) != LeafSize {
			return nil, ErrInvalidLeafSize
		}
		level[i] = append([]byte(nil), l...)
	}

	tree := &Tree{levels: [][][]byte{level}}
	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, hashPair(left, right))
		}
		tree.levels = append(tree.levels, next)
		level = next
	}
	return tree, nil
}

// Root returns the tree's root hash.
func (t *Tree) Root() []byte {
	top := t.levels[len(t.levels)-1]
	return append([]byte(nil), top[0]...)
}

// LeafCount returns the number of leaves the tree was built from.
func (t *Tree) LeafCount() int {
	return len(t.levels[0])
}

// Proof returns the inclusion proof for the leaf at index, in the
// wire shape the protocol uses: a concatenated sibling-hash path, the
// leaf hash, and the leaf's index.
func (t *Tree) Proof(index int) (Proof, error) {
	if index < 0 || index >= t.LeafCount() {
		return Proof{}, ErrIndexOutOfRange
	}
	var path []byte
	idx := index
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		siblingIdx := idx ^ 1
		if siblingIdx >= len(nodes) {
			siblingIdx = idx // odd node duplicated itself
		}
		path = append(path, nodes[siblingIdx]...)
		idx /= 2
	}
	var leaf [LeafSize]byte
	copy(leaf[:], t.levels[0][index])
	return Proof{
		Bytes: path,
		Leaf:  leaf,
		Index: int32(index),
	}, nil
}

// Proof is the inclusion proof wire shape: the concatenated sibling
// path, the leaf hash, and the 0-based leaf index whose bits
// determine fold direction during verification (LSB = first sibling).
type Proof struct {
	Bytes []byte
	Leaf  [LeafSize]byte
	Index int32
}

// Verify checks that proof folds leaf up to root, taking the fold
// direction at each step from successive bits of index (least
// significant bit first): a 0 bit means the sibling is on the right
// (hash(current || sibling)); a 1 bit means the sibling is on the left
// (hash(sibling || current)).
func Verify(proof Proof, root []byte) bool {
	if len(proof.Bytes)%LeafSize != 0 {
		return false
	}
	siblings := len(proof.Bytes) / LeafSize
	current := proof.Leaf[:]
	idx := proof.Index
	for i := 0; i < siblings; i++ {
		sibling := proof.Bytes[i*LeafSize : (i+1)*LeafSize]
		if idx&1 == 0 {
			current = hashPair(current, sibling)
		} else {
			current = hashPair(sibling, current)
		}
		idx >>= 1
	}
	return subtle.ConstantTimeCompare(current, root) == 1
}

// HashLeaf hashes an encoded voter identity into a leaf value.
func HashLeaf(encodedIdentity []byte) [LeafSize]byte {
	return sha256.Sum256(encodedIdentity)
}

func hashPair(left, right []byte) []byte {
	h := sha256.New()
	h.Write(left)
	h.Write(right)
	return h.Sum(nil)
}
