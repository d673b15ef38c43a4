// Package wire implements the canonical binary encodings of the
// protocol's entry-point parameters: VoteConfig, RegisterMessage,
// CommitMessage, and VoteMessage, per §6 of the protocol
// specification. Scalars are 32-byte big-endian, points are 33-byte
// SEC1-compressed, and variable-size fields are little-endian
// length-prefixed.
package wire

import (
	"encoding/binary"
	"errors"

	"github.com/openvote/ovnet/pkg/curve"
	"github.com/openvote/ovnet/pkg/merkle"
	"github.com/openvote/ovnet/pkg/orzkp"
	"github.com/openvote/ovnet/pkg/schnorr"
)

var (
	// ErrShortBuffer is returned when decoding reads past the end of
	// the input.
	ErrShortBuffer = errors.New("wire: buffer too short")
	// ErrTrailingBytes is returned when more bytes remain after a
	// message has been fully decoded.
	ErrTrailingBytes = errors.New("wire: unexpected trailing bytes")
)

// VoteConfig is the wire form of the immutable setup parameters.
type VoteConfig struct {
	MerkleRoot      [32]byte
	MerkleLeafCount int32
	VotingQuestion  string
	DepositMicro    uint64
	TRegMillis      uint64
	TCommitMillis   uint64
	TVoteMillis     uint64
}

// EncodeVoteConfig serializes cfg per §6.
func EncodeVoteConfig(cfg VoteConfig) []byte {
	var buf []byte
	buf = append(buf, cfg.MerkleRoot[:]...)
	buf = appendI32(buf, cfg.MerkleLeafCount)
	buf = appendLenPrefixed(buf, []byte(cfg.VotingQuestion))
	buf = appendU64(buf, cfg.DepositMicro)
	buf = appendU64(buf, cfg.TRegMillis)
	buf = appendU64(buf, cfg.TCommitMillis)
	buf = appendU64(buf, cfg.TVoteMillis)
	return buf
}

// DecodeVoteConfig parses the wire form produced by EncodeVoteConfig.
func DecodeVoteConfig(b []byte) (VoteConfig, error) {
	var cfg VoteConfig
	r := reader{buf: b}
	root, err := r.fixed(32)
	if err != nil {
		return VoteConfig{}, err
	}
	copy(cfg.MerkleRoot[:], root)

	leafCount, err := r.i32()
	if err != nil {
		return VoteConfig{}, err
	}
	cfg.MerkleLeafCount = leafCount

	question, err := r.lenPrefixed()
	if err != nil {
		return VoteConfig{}, err
	}
	cfg.VotingQuestion = string(question)

	if cfg.DepositMicro, err = r.u64(); err != nil {
		return VoteConfig{}, err
	}
	if cfg.TRegMillis, err = r.u64(); err != nil {
		return VoteConfig{}, err
	}
	if cfg.TCommitMillis, err = r.u64(); err != nil {
		return VoteConfig{}, err
	}
	if cfg.TVoteMillis, err = r.u64(); err != nil {
		return VoteConfig{}, err
	}
	if !r.empty() {
		return VoteConfig{}, ErrTrailingBytes
	}
	return cfg, nil
}

// RegisterMessage is the wire form of a voter's registration request.
type RegisterMessage struct {
	VotingKey    curve.Point
	VotingKeyZKP schnorr.Proof
	Merkle       merkle.Proof
}

// EncodeRegisterMessage serializes msg per §6.
func EncodeRegisterMessage(msg RegisterMessage) []byte {
	var buf []byte
	buf = append(buf, msg.VotingKey.Encode()...)
	buf = append(buf, msg.VotingKeyZKP.W.Encode()...)
	buf = append(buf, msg.VotingKeyZKP.R.Encode()...)
	buf = appendLenPrefixed(buf, msg.Merkle.Bytes)
	buf = append(buf, msg.Merkle.Leaf[:]...)
	buf = appendI32(buf, msg.Merkle.Index)
	return buf
}

// DecodeRegisterMessage parses the wire form produced by EncodeRegisterMessage.
func DecodeRegisterMessage(b []byte) (RegisterMessage, error) {
	r := reader{buf: b}

	votingKeyBytes, err := r.fixed(curve.PointSize)
	if err != nil {
		return RegisterMessage{}, err
	}
	votingKey, err := curve.DecodePoint(votingKeyBytes)
	if err != nil {
		return RegisterMessage{}, err
	}

	wBytes, err := r.fixed(curve.PointSize)
	if err != nil {
		return RegisterMessage{}, err
	}
	w, err := curve.DecodePoint(wBytes)
	if err != nil {
		return RegisterMessage{}, err
	}
	rBytes, err := r.fixed(curve.ScalarSize)
	if err != nil {
		return RegisterMessage{}, err
	}
	respScalar, err := curve.DecodeScalar(rBytes)
	if err != nil {
		return RegisterMessage{}, err
	}

	merklePath, err := r.lenPrefixed()
	if err != nil {
		return RegisterMessage{}, err
	}
	leafBytes, err := r.fixed(merkle.LeafSize)
	if err != nil {
		return RegisterMessage{}, err
	}
	index, err := r.i32()
	if err != nil {
		return RegisterMessage{}, err
	}
	if !r.empty() {
		return RegisterMessage{}, ErrTrailingBytes
	}

	var leaf [merkle.LeafSize]byte
	copy(leaf[:], leafBytes)

	return RegisterMessage{
		VotingKey:    votingKey,
		VotingKeyZKP: schnorr.Proof{W: w, R: respScalar},
		Merkle: merkle.Proof{
			Bytes: merklePath,
			Leaf:  leaf,
			Index: index,
		},
	}, nil
}

// CommitMessage is the wire form of a voter's commit-phase submission.
type CommitMessage struct {
	ReconstructedKey curve.Point
	Commitment       [32]byte
}

// EncodeCommitMessage serializes msg per §6.
func EncodeCommitMessage(msg CommitMessage) []byte {
	var buf []byte
	buf = append(buf, msg.ReconstructedKey.Encode()...)
	buf = append(buf, msg.Commitment[:]...)
	return buf
}

// DecodeCommitMessage parses the wire form produced by EncodeCommitMessage.
func DecodeCommitMessage(b []byte) (CommitMessage, error) {
	r := reader{buf: b}
	keyBytes, err := r.fixed(curve.PointSize)
	if err != nil {
		return CommitMessage{}, err
	}
	key, err := curve.DecodePoint(keyBytes)
	if err != nil {
		return CommitMessage{}, err
	}
	commitmentBytes, err := r.fixed(32)
	if err != nil {
		return CommitMessage{}, err
	}
	if !r.empty() {
		return CommitMessage{}, ErrTrailingBytes
	}
	var commitment [32]byte
	copy(commitment[:], commitmentBytes)
	return CommitMessage{ReconstructedKey: key, Commitment: commitment}, nil
}

// VoteMessage is the wire form of a voter's vote-phase submission.
type VoteMessage struct {
	Vote    curve.Point
	VoteZKP orzkp.Proof
}

// EncodeVoteMessage serializes msg per §6.
func EncodeVoteMessage(msg VoteMessage) []byte {
	var buf []byte
	buf = append(buf, msg.Vote.Encode()...)
	buf = append(buf, msg.VoteZKP.R1.Encode()...)
	buf = append(buf, msg.VoteZKP.R2.Encode()...)
	buf = append(buf, msg.VoteZKP.D1.Encode()...)
	buf = append(buf, msg.VoteZKP.D2.Encode()...)
	buf = append(buf, msg.VoteZKP.X.Encode()...)
	buf = append(buf, msg.VoteZKP.Y.Encode()...)
	buf = append(buf, msg.VoteZKP.A1.Encode()...)
	buf = append(buf, msg.VoteZKP.B1.Encode()...)
	buf = append(buf, msg.VoteZKP.A2.Encode()...)
	buf = append(buf, msg.VoteZKP.B2.Encode()...)
	return buf
}

// DecodeVoteMessage parses the wire form produced by EncodeVoteMessage.
func DecodeVoteMessage(b []byte) (VoteMessage, error) {
	r := reader{buf: b}

	voteBytes, err := r.fixed(curve.PointSize)
	if err != nil {
		return VoteMessage{}, err
	}
	vote, err := curve.DecodePoint(voteBytes)
	if err != nil {
		return VoteMessage{}, err
	}

	scalars := make([]curve.Scalar, 4)
	for i := range scalars {
		sb, err := r.fixed(curve.ScalarSize)
		if err != nil {
			return VoteMessage{}, err
		}
		s, err := curve.DecodeScalar(sb)
		if err != nil {
			return VoteMessage{}, err
		}
		scalars[i] = s
	}

	points := make([]curve.Point, 6)
	for i := range points {
		pb, err := r.fixed(curve.PointSize)
		if err != nil {
			return VoteMessage{}, err
		}
		p, err := curve.DecodePoint(pb)
		if err != nil {
			return VoteMessage{}, err
		}
		points[i] = p
	}
	if !r.empty() {
		return VoteMessage{}, ErrTrailingBytes
	}

	return VoteMessage{
		Vote: vote,
		VoteZKP: orzkp.Proof{
			R1: scalars[0], R2: scalars[1], D1: scalars[2], D2: scalars[3],
			X: points[0], Y: points[1], A1: points[2], B1: points[3], A2: points[4], B2: points[5],
		},
	}, nil
}

// --- little-endian length-prefixed primitives ---

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendI32(buf []byte, v int32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

func appendLenPrefixed(buf, data []byte) []byte {
	buf = appendI32(buf, int32(len(data)))
	return append(buf, data...)
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) empty() bool {
	return r.off == len(r.buf)
}

func (r *reader) fixed(n int) ([]byte, error) {
	if r.off+n > len(r.buf) {
		return nil, ErrShortBuffer
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out, nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.fixed(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) i32() (int32, error) {
	b, err := r.fixed(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *reader) lenPrefixed() ([]byte, error) {
	n, err := r.i32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ErrShortBuffer
	}
	return r.fixed(int(n))
}
