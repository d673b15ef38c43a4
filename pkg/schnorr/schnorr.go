// Package schnorr implements the non-interactive Schnorr discrete-log
// proof used to show knowledge of a voting key's private scalar
// without revealing it.
package schnorr

import (
	"errors"
	"io"

	"github.com/openvote/ovnet/pkg/curve"
)

// Proof is a Schnorr proof of knowledge of x such that X = [x]G.
type Proof struct {
	W curve.Point  // commitment G_w = [w]G
	R curve.Scalar // response r = w - x*z mod n
}

// ErrVerificationFailed is returned by Verify when the proof does not
// satisfy the verification equation.
var ErrVerificationFailed = errors.New("schnorr: verification failed")

// Prove produces a Schnorr proof that the caller knows x such that
// X = [x]G, sampling the commitment randomness w from rnd. Production
// callers must pass crypto/rand.Reader (or an equivalent CSPRNG);
// tests may pass a seeded reader for reproducibility. There is no
// package-level default random source.
func Prove(rnd io.Reader, x curve.Scalar, X curve.Point) (Proof, error) {
	w, err := curve.RandomScalar(rnd)
	if err != nil {
		return Proof{}, err
	}
	W := curve.MulGenerator(w)

	z := challenge(W, X)

	r := w.Sub(x.Mul(z))
	return Proof{W: W, R: r}, nil
}

// Verify checks that proof is a valid Schnorr proof for X.
//
// The challenge hashes the point SUM G + W + X rather than a
// concatenation of their encodings. This is the convention used by the
// reference implementation this protocol's wire format derives from;
// it is preserved here bit-for-bit so provers and verifiers agree.
func Verify(X curve.Point, proof Proof) bool {
	z := challenge(proof.W, X)

	lhs := curve.MulGenerator(proof.R).Add(X.Mul(z))
	return lhs.Equal(proof.W)
}

// VerifyErr is Verify with a discriminant error instead of a bool, for
// callers that want to propagate a typed failure (e.g. pkg/voting's
// InvalidZKP error).
func VerifyErr(X curve.Point, proof Proof) error {
	if !Verify(X, proof) {
		return ErrVerificationFailed
	}
	return nil
}

// challenge computes z = hash_to_scalar(encode(G + W + X)).
func challenge(W, X curve.Point) curve.Scalar {
	sum := curve.Generator().Add(W).Add(X)
	return curve.HashToScalar(sum.Encode())
}
