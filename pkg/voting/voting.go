package voting

import (
	"github.com/openvote/ovnet/pkg/commitment"
	"github.com/openvote/ovnet/pkg/curve"
	"github.com/openvote/ovnet/pkg/host"
	"github.com/openvote/ovnet/pkg/merkle"
	"github.com/openvote/ovnet/pkg/orzkp"
	"github.com/openvote/ovnet/pkg/schnorr"
	"github.com/openvote/ovnet/pkg/wire"
)

// Register implements §4.10's register entry point. It validates the
// sender, phase, timeout, Merkle authorization, and Schnorr proof
// before inserting the voter, then applies Registration's auto-advance
// check.
func Register(s *State, h host.Host, msg wire.RegisterMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sender := h.Sender()
	if sender.Kind != host.SenderAccount {
		return ErrContractSender
	}
	if s.Phase != PhaseRegistration {
		return ErrPhaseMismatch
	}
	if h.Now() > s.Config.TReg {
		return ErrPhaseExpired
	}
	if h.AttachedValue() != s.Config.Deposit {
		return ErrWrongDeposit
	}
	if _, exists := s.voters[sender.ID]; exists {
		return ErrAlreadyRegistered
	}

	expectedLeaf := merkle.HashLeaf(sender.Encode())
	if msg.Merkle.Leaf != expectedLeaf {
		return ErrUnauthorized
	}
	if int(msg.Merkle.Index) >= s.Config.MerkleLeafCount {
		return ErrUnauthorized
	}
	if !merkle.Verify(msg.Merkle, s.Config.MerkleRoot[:]) {
		return ErrUnauthorized
	}

	if msg.VotingKey.IsIdentity() {
		return ErrInvalidVotingKey
	}
	if !schnorr.Verify(msg.VotingKey, msg.VotingKeyZKP) {
		return ErrInvalidZKP
	}

	votingKey := msg.VotingKey
	zkp := msg.VotingKeyZKP
	s.voters[sender.ID] = &Voter{
		VotingKey:    &votingKey,
		VotingKeyZKP: &zkp,
	}
	s.order = append(s.order, sender.ID)

	s.autoAdvance()
	return nil
}

// Commit implements §4.10's commit entry point. The submitted
// reconstructed key must equal the canonical derivation from the
// current ordered list of voting keys, preventing key substitution.
func Commit(s *State, h host.Host, msg wire.CommitMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sender := h.Sender()
	if sender.Kind != host.SenderAccount {
		return ErrContractSender
	}
	if s.Phase != PhaseCommit {
		return ErrPhaseMismatch
	}
	if h.Now() > s.Config.TCommit {
		return ErrPhaseExpired
	}

	v, ok := s.voters[sender.ID]
	if !ok {
		return ErrUnauthorized
	}
	if v.ReconstructedKey != nil {
		return ErrInvalidCommitMessage
	}

	position := -1
	for i, id := range s.order {
		if id == sender.ID {
			position = i
			break
		}
	}
	keys := make([]curve.Point, len(s.order))
	for i, id := range s.order {
		keys[i] = *s.voters[id].VotingKey
	}
	expected := ReconstructedKey(keys, position)
	if !msg.ReconstructedKey.Equal(expected) {
		return ErrInvalidCommitMessage
	}

	reconstructed := msg.ReconstructedKey
	commit := msg.Commitment
	v.ReconstructedKey = &reconstructed
	v.Commitment = &commit

	s.autoAdvance()
	return nil
}

// Vote implements §4.10's vote entry point: the submitted vote must
// decode to a point whose hash matches the voter's stored commitment,
// and the 1-of-2 OR proof must verify under the voter's reconstructed
// key. A valid vote is refunded its deposit immediately.
func Vote(s *State, h host.Host, msg wire.VoteMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sender := h.Sender()
	if sender.Kind != host.SenderAccount {
		return ErrContractSender
	}
	if s.Phase != PhaseVote {
		return ErrPhaseMismatch
	}
	if h.Now() > s.Config.TVote {
		return ErrPhaseExpired
	}

	v, ok := s.voters[sender.ID]
	if !ok {
		return ErrUnauthorized
	}
	if v.Vote != nil {
		return ErrAlreadyVoted
	}

	if !commitment.Verify(msg.Vote, v.Commitment[:]) {
		return ErrVoteCommitmentMismatch
	}
	if !orzkp.Verify(*v.ReconstructedKey, msg.VoteZKP) {
		return ErrInvalidZKP
	}

	vote := msg.Vote
	zkp := msg.VoteZKP
	v.Vote = &vote
	v.VoteZKP = &zkp

	if err := h.Transfer(sender.ID, s.Config.Deposit); err != nil {
		return ErrTransferFailure
	}
	v.Refunded = true

	s.autoAdvance()
	return nil
}

// Result implements §4.10's result entry point: sums every stored
// vote and extracts the (yes, no) tally via brute-force discrete log
// (§4.6).
func Result(s *State) (yes, no int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Phase != PhaseResult {
		return 0, 0, ErrPhaseMismatch
	}

	votes := make([]curve.Point, 0, len(s.order))
	for _, id := range s.order {
		votes = append(votes, *s.voters[id].Vote)
	}
	total := curve.SumPoints(votes...)

	k, err := curve.BruteForceTally(total, len(votes))
	if err != nil {
		return 0, 0, err
	}

	s.TallyYes = k
	s.TallyNo = len(votes) - k
	return s.TallyYes, s.TallyNo, nil
}
