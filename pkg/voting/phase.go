package voting

import "github.com/openvote/ovnet/pkg/host"

// requiredFieldForPhase returns which voter field a stalling voter is
// missing for the phase currently being aborted, per §4.9.
func requiredFieldForPhase(p Phase) func(*Voter) bool {
	switch p {
	case PhaseRegistration:
		return func(v *Voter) bool { return v.VotingKey != nil }
	case PhaseCommit:
		return func(v *Voter) bool { return v.ReconstructedKey != nil && v.Commitment != nil }
	case PhaseVote:
		return func(v *Voter) bool { return v.Vote != nil }
	default:
		return func(*Voter) bool { return true }
	}
}

// allRegistered reports whether every authorized voter slot has
// registered a voting key. Caller must hold s.mu.
func (s *State) allRegistered() bool {
	return len(s.order) == s.Config.MerkleLeafCount
}

// allCommitted reports whether every registered voter has committed.
// Caller must hold s.mu.
func (s *State) allCommitted() bool {
	for _, id := range s.order {
		v := s.voters[id]
		if v.ReconstructedKey == nil || v.Commitment == nil {
			return false
		}
	}
	return true
}

// allVoted reports whether every registered voter has voted. Caller
// must hold s.mu.
func (s *State) allVoted() bool {
	for _, id := range s.order {
		v := s.voters[id]
		if v.Vote == nil {
			return false
		}
	}
	return true
}

// autoAdvance applies the tail-of-entry-point auto-advance checks of
// §4.8. Caller must hold s.mu.
func (s *State) autoAdvance() {
	switch s.Phase {
	case PhaseRegistration:
		if s.allRegistered() {
			s.Phase = PhaseCommit
		}
	case PhaseCommit:
		if s.allCommitted() {
			s.Phase = PhaseVote
		}
	case PhaseVote:
		if s.allVoted() {
			s.Phase = PhaseResult
		}
	}
}

// ChangePhase applies the timeout-driven transitions of §4.8 and, on
// Abort, the deposit refund policy of §4.9. It is a no-op (returns
// nil, leaving the phase unchanged) when no transition's guard is
// satisfied yet (§8 scenario 6).
func ChangePhase(s *State, h host.Host) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sender := h.Sender()
	if sender.Kind != host.SenderAccount {
		return ErrContractSender
	}
	now := h.Now()

	switch s.Phase {
	case PhaseRegistration:
		if now <= s.Config.TReg {
			return nil
		}
		registered := len(s.order)
		if registered >= 3 {
			s.Phase = PhaseCommit
			return nil
		}
		s.Phase = PhaseAbort
		return s.refundOnAbort(h, sender.ID, PhaseRegistration, true)

	case PhaseCommit:
		if now <= s.Config.TCommit {
			return nil
		}
		if s.allCommitted() {
			s.Phase = PhaseVote
			return nil
		}
		s.Phase = PhaseAbort
		return s.refundOnAbort(h, sender.ID, PhaseCommit, true)

	case PhaseVote:
		if now <= s.Config.TVote {
			return nil
		}
		if s.allVoted() {
			s.Phase = PhaseResult
			return nil
		}
		s.Phase = PhaseAbort
		return s.refundOnAbort(h, sender.ID, PhaseVote, false)

	default:
		// Result and Abort are terminal; change_phase is a no-op.
		return nil
	}
}

// refundOnAbort implements §4.9's abort policy: identify stalling vs.
// honest voters for the phase being aborted, reward the caller if they
// are not themselves stalling and at least one stalling voter exists,
// and (for Registration/Commit aborts only) refund one deposit to each
// honest voter. Caller must hold s.mu.
func (s *State) refundOnAbort(h host.Host, caller host.AccountID, abortedPhase Phase, refundHonest bool) error {
	hasField := requiredFieldForPhase(abortedPhase)

	var stalling, honest []host.AccountID
	for _, id := range s.order {
		v := s.voters[id]
		if hasField(v) {
			honest = append(honest, id)
		} else {
			stalling = append(stalling, id)
		}
	}

	callerStalling := false
	for _, id := range stalling {
		if id == caller {
			callerStalling = true
			break
		}
	}

	if !callerStalling && len(stalling) > 0 {
		if err := h.Transfer(caller, s.Config.Deposit); err != nil {
			return ErrTransferFailure
		}
	}

	if refundHonest {
		for _, id := range honest {
			v := s.voters[id]
			if v.Refunded {
				continue
			}
			if err := h.Transfer(id, s.Config.Deposit); err != nil {
				return ErrTransferFailure
			}
			v.Refunded = true
		}
	}

	return nil
}
