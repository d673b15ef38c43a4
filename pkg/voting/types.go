// Package voting implements the OV-Net phase state machine: voter
// registration, commitment, voting, result extraction, and the
// deposit escrow/refund policy that incentivizes honest completion.
package voting

import (
	"sync"

	"github.com/openvote/ovnet/pkg/curve"
	"github.com/openvote/ovnet/pkg/host"
	"github.com/openvote/ovnet/pkg/orzkp"
	"github.com/openvote/ovnet/pkg/schnorr"
)

// Phase is one of the five states of the voting protocol.
type Phase int

const (
	PhaseRegistration Phase = iota
	PhaseCommit
	PhaseVote
	PhaseResult
	PhaseAbort
)

// String returns the phase's name, useful for logging.
func (p Phase) String() string {
	switch p {
	case PhaseRegistration:
		return "Registration"
	case PhaseCommit:
		return "Commit"
	case PhaseVote:
		return "Vote"
	case PhaseResult:
		return "Result"
	case PhaseAbort:
		return "Abort"
	default:
		return "Unknown"
	}
}

// VoteConfig holds the immutable parameters fixed at setup.
type VoteConfig struct {
	MerkleRoot      [32]byte
	MerkleLeafCount int
	VotingQuestion  string
	Deposit         uint64
	TReg            int64 // registration timeout, ms
	TCommit         int64 // commit timeout, ms
	TVote           int64 // vote timeout, ms
}

// Voter is a single voter's record. A field is "set" when its pointer
// is non-nil, matching the specification's "non-zero byte length"
// convention in idiomatic Go.
type Voter struct {
	VotingKey        *curve.Point
	VotingKeyZKP     *schnorr.Proof
	ReconstructedKey *curve.Point
	Commitment       *[32]byte
	Vote             *curve.Point
	VoteZKP          *orzkp.Proof
	Refunded         bool
}

// State is the per-instance mutable state created once by Setup. The
// voters map grows monotonically during Registration; order records
// the insertion order that every reconstructed-key and tally
// computation must agree on (§5, §9).
type State struct {
	mu sync.Mutex

	Config VoteConfig
	Phase  Phase

	// TallyYes/TallyNo are -1 until Result computes the tally, which
	// it does only in PhaseResult.
	TallyYes int
	TallyNo  int

	order  []host.AccountID
	voters map[host.AccountID]*Voter
}

// Setup creates a new VotingState in the Registration phase, per §3
// and scenario 1 of §8. cfg must satisfy TReg < TCommit < TVote and
// MerkleLeafCount >= 3; deposit may be zero but not invalid in any other way beyond the
// type system already enforcing non-negativity.
func Setup(cfg VoteConfig) (*State, error) {
	if !(cfg.TReg < cfg.TCommit && cfg.TCommit < cfg.TVote) {
		return nil, ErrParse
	}
	if cfg.MerkleLeafCount < 3 {
		// The protocol requires at least 3 voters for the Registration
		// timeout-abort threshold in §4.8 to be meaningful.
		return nil, ErrParse
	}
	return &State{
		Config:   cfg,
		Phase:    PhaseRegistration,
		TallyYes: -1,
		TallyNo:  -1,
		voters:   make(map[host.AccountID]*Voter),
	}, nil
}

// VoterCount returns the number of voters who have registered so far.
func (s *State) VoterCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Voter returns a copy of the voter record for id, or nil if absent.
func (s *State) Voter(id host.AccountID) *Voter {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voters[id]
	if !ok {
		return nil
	}
	cp := *v
	return &cp
}

// OrderedVotingKeys returns the voting keys of every registered voter,
// in registration (insertion) order — the ordering the reconstructed
// key and tally derivations depend on.
func (s *State) OrderedVotingKeys() []curve.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]curve.Point, 0, len(s.order))
	for _, id := range s.order {
		keys = append(keys, *s.voters[id].VotingKey)
	}
	return keys
}
