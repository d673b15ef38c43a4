package voting

import "errors"

// Error taxonomy for the core's entry points. Each discriminates a
// distinct reason an invocation was rejected; callers should compare
// with errors.Is rather than string-matching.
var (
	// ErrParse indicates malformed parameter bytes.
	ErrParse = errors.New("voting: malformed parameters")
	// ErrPhaseMismatch indicates the operation was invoked in the wrong phase.
	ErrPhaseMismatch = errors.New("voting: operation not valid in current phase")
	// ErrPhaseExpired indicates the operation was invoked after its phase timeout.
	ErrPhaseExpired = errors.New("voting: phase has expired")
	// ErrUnauthorized indicates a failed Merkle proof or an unregistered sender.
	ErrUnauthorized = errors.New("voting: sender is not authorized")
	// ErrContractSender indicates a contract called an entry point requiring an account.
	ErrContractSender = errors.New("voting: sender must be an account, not a contract")
	// ErrWrongDeposit indicates the attached value did not equal config.Deposit.
	ErrWrongDeposit = errors.New("voting: attached value does not match required deposit")
	// ErrAlreadyRegistered indicates a duplicate registration by the same voter.
	ErrAlreadyRegistered = errors.New("voting: voter already registered")
	// ErrAlreadyVoted indicates a duplicate vote by the same voter.
	ErrAlreadyVoted = errors.New("voting: voter already voted")
	// ErrInvalidVotingKey indicates the voting key does not decode to a non-identity point.
	ErrInvalidVotingKey = errors.New("voting: invalid voting key")
	// ErrInvalidZKP indicates a Schnorr or 1-of-2 OR proof failed to verify.
	ErrInvalidZKP = errors.New("voting: zero-knowledge proof failed to verify")
	// ErrVoteCommitmentMismatch indicates SHA256(vote) != the voter's stored commitment.
	ErrVoteCommitmentMismatch = errors.New("voting: vote does not match prior commitment")
	// ErrInvalidCommitMessage indicates an empty field or a reconstructed key
	// that does not match the deterministic derivation from the ordered voting keys.
	ErrInvalidCommitMessage = errors.New("voting: invalid commit message")
	// ErrTransferFailure indicates an escrow refund failed.
	ErrTransferFailure = errors.New("voting: deposit transfer failed")
)
