package merkle

import (
	"crypto/sha256"
	"testing"
)

func leafFor(s string) []byte {
	h := sha256.Sum256([]byte(s))
	return h[:]
}

func TestBuildSingleLeaf(t *testing.T) {
	leaf := leafFor("voter-0")
	tree, err := Build([][]byte{leaf})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if string(tree.Root()) != string(leaf) {
		t.Fatalf("single-leaf root must equal the leaf itself")
	}
	proof, err := tree.Proof(0)
	if err != nil {
		t.Fatalf("Proof: %v", err)
	}
	if len(proof.Bytes) != 0 {
		t.Fatalf("single-leaf proof should have an empty sibling path")
	}
	if !Verify(proof, tree.Root()) {
		t.Fatalf("single-leaf proof failed to verify")
	}
}

func TestBuildAndVerifyAllLeaves(t *testing.T) {
	identities := []string{"voter-0", "voter-1", "voter-2", "voter-3", "voter-4"}
	leaves := make([][]byte, len(identities))
	for i, id := range identities {
		leaves[i] = leafFor(id)
	}
	tree, err := Build(leaves)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Root()
	for i := range identities {
		proof, err := tree.Proof(i)
		if err != nil {
			t.Fatalf("Proof(%d): %v", i, err)
		}
		if int(proof.Index) != i {
			t.Fatalf("proof index = %d, want %d", proof.Index, i)
		}
		if !Verify(proof, root) {
			t.Fatalf("proof for leaf %d failed to verify", i)
		}
	}
}

func TestVerifyRejectsWrongRoot(t *testing.T) {
	leaves := [][]byte{leafFor("a"), leafFor("b"), leafFor("c")}
	tree, err := Build(leaves)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	proof, err := tree.Proof(1)
	if err != nil {
		t.Fatalf("Proof: %v", err)
	}
	wrongRoot := leafFor("not the root")
	if Verify(proof, wrongRoot) {
		t.Fatalf("proof verified against the wrong root")
	}
}

func TestVerifyRejectsTamperedLeaf(t *testing.T) {
	leaves := [][]byte{leafFor("a"), leafFor("b"), leafFor("c"), leafFor("d")}
	tree, err := Build(leaves)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	proof, err := tree.Proof(2)
	if err != nil {
		t.Fatalf("Proof: %v", err)
	}
	proof.Leaf = HashLeaf([]byte("someone else"))
	if Verify(proof, tree.Root()) {
		t.Fatalf("tampered leaf unexpectedly verified")
	}
}

func TestBuildRejectsEmptyAndBadLeafSize(t *testing.T) {
	if _, err := Build(nil); err != ErrEmptyLeaves {
		t.Fatalf("Build(nil) = %v, want ErrEmptyLeaves", err)
	}
	if _, err := Build([][]byte{[]byte("too short")}); err != ErrInvalidLeafSize {
		t.Fatalf("Build(short leaf) = %v, want ErrInvalidLeafSize", err)
	}
}

func TestHashLeafMatchesSHA256(t *testing.T) {
	got := HashLeaf([]byte("account-123"))
	want := sha256.Sum256([]byte("account-123"))
	if got != want {
		t.Fatalf("HashLeaf does not match sha256.Sum256")
	}
}
