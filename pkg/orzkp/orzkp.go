// Package orzkp implements the 1-of-2 OR zero-knowledge proof
// (Cramer-Damgard-Schoenmakers) that a submitted vote encodes 0 or 1
// under the voter's reconstructed key, without revealing which.
package orzkp

import (
	"errors"
	"io"

	"github.com/openvote/ovnet/pkg/curve"
)

// Proof is a 1-of-2 OR proof: four scalars and six points.
type Proof struct {
	R1, R2 curve.Scalar
	D1, D2 curve.Scalar
	X, Y   curve.Point
	A1, B1 curve.Point
	A2, B2 curve.Point
}

// ErrVerificationFailed is returned when a proof fails to satisfy the
// verification equations.
var ErrVerificationFailed = errors.New("orzkp: verification failed")

// ProveYes proves that Y = [x]H + G, i.e. the voter's choice is 1
// ("yes"), without revealing that branch to the verifier.
func ProveYes(rnd io.Reader, x curve.Scalar, X, H curve.Point) (Proof, error) {
	Y := H.Mul(x).Add(curve.Generator())

	w, err := curve.RandomScalar(rnd)
	if err != nil {
		return Proof{}, err
	}
	r1, err := curve.RandomScalar(rnd)
	if err != nil {
		return Proof{}, err
	}
	d1, err := curve.RandomScalar(rnd)
	if err != nil {
		return Proof{}, err
	}

	A1 := curve.MulGenerator(r1).Add(X.Mul(d1))
	B1 := H.Mul(r1).Add(Y.Mul(d1))
	A2 := curve.MulGenerator(w)
	B2 := H.Mul(w)

	c := challenge(X, Y, A1, B1, A2, B2)
	d2 := c.Sub(d1)
	r2 := w.Sub(x.Mul(d2))

	return Proof{
		R1: r1, R2: r2, D1: d1, D2: d2,
		X: X, Y: Y, A1: A1, B1: B1, A2: A2, B2: B2,
	}, nil
}

// ProveNo proves that Y = [x]H, i.e. the voter's choice is 0 ("no"),
// without revealing that branch to the verifier.
func ProveNo(rnd io.Reader, x curve.Scalar, X, H curve.Point) (Proof, error) {
	Y := H.Mul(x)

	w, err := curve.RandomScalar(rnd)
	if err != nil {
		return Proof{}, err
	}
	r2, err := curve.RandomScalar(rnd)
	if err != nil {
		return Proof{}, err
	}
	d2, err := curve.RandomScalar(rnd)
	if err != nil {
		return Proof{}, err
	}

	A1 := curve.MulGenerator(w)
	B1 := H.Mul(w)
	A2 := curve.MulGenerator(r2).Add(X.Mul(d2))
	YMinusG := Y.Sub(curve.Generator())
	B2 := H.Mul(r2).Add(YMinusG.Mul(d2))

	c := challenge(X, Y, A1, B1, A2, B2)
	d1 := c.Sub(d2)
	r1 := w.Sub(x.Mul(d1))

	return Proof{
		R1: r1, R2: r2, D1: d1, D2: d2,
		X: X, Y: Y, A1: A1, B1: B1, A2: A2, B2: B2,
	}, nil
}

// Verify checks proof against the voter's reconstructed key H.
func Verify(H curve.Point, proof Proof) bool {
	c := challenge(proof.X, proof.Y, proof.A1, proof.B1, proof.A2, proof.B2)
	if !c.Equal(proof.D1.Add(proof.D2)) {
		return false
	}
	if !proof.A1.Equal(curve.MulGenerator(proof.R1).Add(proof.X.Mul(proof.D1))) {
		return false
	}
	if !proof.B1.Equal(H.Mul(proof.R1).Add(proof.Y.Mul(proof.D1))) {
		return false
	}
	if !proof.A2.Equal(curve.MulGenerator(proof.R2).Add(proof.X.Mul(proof.D2))) {
		return false
	}
	yMinusG := proof.Y.Sub(curve.Generator())
	if !proof.B2.Equal(H.Mul(proof.R2).Add(yMinusG.Mul(proof.D2))) {
		return false
	}
	return true
}

// VerifyErr is Verify with a discriminant error.
func VerifyErr(H curve.Point, proof Proof) error {
	if !Verify(H, proof) {
		return ErrVerificationFailed
	}
	return nil
}

// challenge computes c = hash_to_scalar(encode(X + Y + A1 + B1 + A2 + B2)),
// matching §4.2's point-sum transcript convention.
func challenge(X, Y, A1, B1, A2, B2 curve.Point) curve.Scalar {
	sum := X.Add(Y).Add(A1).Add(B1).Add(A2).Add(B2)
	return curve.HashToScalar(sum.Encode())
}
