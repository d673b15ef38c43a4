package orzkp

import (
	"crypto/rand"
	"testing"

	"github.com/openvote/ovnet/pkg/curve"
)

func setupVoter(t *testing.T) (x curve.Scalar, X, H curve.Point) {
	t.Helper()
	var err error
	x, err = curve.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	X = curve.MulGenerator(x)
	h, err := curve.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	H = curve.MulGenerator(h)
	return x, X, H
}

func TestProveYesVerifies(t *testing.T) {
	x, X, H := setupVoter(t)
	proof, err := ProveYes(rand.Reader, x, X, H)
	if err != nil {
		t.Fatalf("ProveYes: %v", err)
	}
	if !Verify(H, proof) {
		t.Fatalf("honest yes-proof failed verification")
	}
}

func TestProveNoVerifies(t *testing.T) {
	x, X, H := setupVoter(t)
	proof, err := ProveNo(rand.Reader, x, X, H)
	if err != nil {
		t.Fatalf("ProveNo: %v", err)
	}
	if !Verify(H, proof) {
		t.Fatalf("honest no-proof failed verification")
	}
}

func TestVerifyRejectsWrongReconstructedKey(t *testing.T) {
	x, X, H := setupVoter(t)
	proof, err := ProveYes(rand.Reader, x, X, H)
	if err != nil {
		t.Fatalf("ProveYes: %v", err)
	}
	_, _, otherH := setupVoter(t)
	if Verify(otherH, proof) {
		t.Fatalf("proof verified under the wrong reconstructed key")
	}
}

func TestVerifyRejectsTamperedVote(t *testing.T) {
	x, X, H := setupVoter(t)
	proof, err := ProveYes(rand.Reader, x, X, H)
	if err != nil {
		t.Fatalf("ProveYes: %v", err)
	}
	// Swap in a vote point that does not correspond to the proof's
	// witnesses; verification must fail.
	proof.Y = proof.Y.Add(curve.Generator())
	if Verify(H, proof) {
		t.Fatalf("tampered vote unexpectedly verified")
	}
}

func TestVerifyErrWrapsFailure(t *testing.T) {
	x, X, H := setupVoter(t)
	proof, err := ProveYes(rand.Reader, x, X, H)
	if err != nil {
		t.Fatalf("ProveYes: %v", err)
	}
	_, _, otherH := setupVoter(t)
	if err := VerifyErr(otherH, proof); err != ErrVerificationFailed {
		t.Fatalf("VerifyErr = %v, want ErrVerificationFailed", err)
	}
}
