package commitment

import (
	"crypto/rand"
	"testing"

	"github.com/openvote/ovnet/pkg/curve"
)

func TestCommitIsDeterministic(t *testing.T) {
	x, _ := curve.RandomScalar(rand.Reader)
	vote := curve.MulGenerator(x)

	a := Commit(vote)
	b := Commit(vote)
	if a != b {
		t.Fatalf("Commit is not deterministic for equal votes")
	}
}

func TestVerifyAcceptsOwnCommitment(t *testing.T) {
	x, _ := curve.RandomScalar(rand.Reader)
	vote := curve.MulGenerator(x)
	c := Commit(vote)
	if !Verify(vote, c[:]) {
		t.Fatalf("Verify rejected the voter's own commitment")
	}
}

func TestVerifyRejectsMismatch(t *testing.T) {
	x, _ := curve.RandomScalar(rand.Reader)
	vote := curve.MulGenerator(x)
	other, _ := curve.RandomScalar(rand.Reader)
	wrongCommitment := Commit(curve.MulGenerator(other))
	if Verify(vote, wrongCommitment[:]) {
		t.Fatalf("Verify accepted a mismatched commitment")
	}
}

func TestVerifyRejectsWrongLength(t *testing.T) {
	x, _ := curve.RandomScalar(rand.Reader)
	vote := curve.MulGenerator(x)
	if Verify(vote, []byte{1, 2, 3}) {
		t.Fatalf("Verify accepted a malformed-length commitment")
	}
}
