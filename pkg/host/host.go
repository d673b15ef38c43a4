// Package host defines the narrow interface the voting core consumes
// from its surrounding ledger/VM: the current time, caller identity,
// attached value, and a transfer primitive. The core never reaches
// outside this interface; everything about the real host (consensus,
// persistence, networking) is the concern of whatever wires a Host
// implementation in.
package host

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrInsufficientFunds is returned by Transfer when the paying account
// does not hold enough balance.
var ErrInsufficientFunds = errors.New("host: insufficient funds")

// SenderKind distinguishes an externally-owned account from a
// contract-originated call. The protocol requires several entry
// points to reject contract senders.
type SenderKind int

const (
	SenderAccount SenderKind = iota
	SenderContract
)

// AccountID is a raw account address, used as the voters map key and
// as the Merkle leaf's underlying identity bytes.
type AccountID string

// Sender describes the caller of the current entry point.
type Sender struct {
	Kind SenderKind
	ID   AccountID
}

// Encode returns the canonical bytes hashed into a Merkle leaf for
// this sender, per §4.7's `leaf == SHA256(encode(sender))` check.
func (s Sender) Encode() []byte {
	return []byte(s.ID)
}

// Host is the set of callbacks the core requires from its embedding
// environment.
type Host interface {
	// Now returns the current logical timestamp in milliseconds, as
	// supplied by the host for the current invocation. Never wall-clock
	// time read directly by the core.
	Now() int64
	// Sender returns the identity of the caller of the current entry
	// point.
	Sender() Sender
	// AttachedValue returns the value attached to the current call,
	// meaningful only for register.
	AttachedValue() uint64
	// Transfer moves amount from the contract's escrow to the given
	// account. May fail with ErrInsufficientFunds.
	Transfer(to AccountID, amount uint64) error
}

// InMemoryHost is a deterministic, in-process Host used by tests and
// the node harness's local demo server. It
// models a single escrow balance and a fixed current sender/time/value
// that test code mutates between calls to simulate multiple voters.
type InMemoryHost struct {
	mu sync.Mutex

	now           int64
	sender        Sender
	attachedValue uint64
	escrow        uint64
	transfers     map[AccountID]uint64

	// SessionID identifies this harness instance, minted once, useful
	// for correlating log lines across a run the way the teacher's
	// server correlates requests with github.com/google/uuid.
	SessionID uuid.UUID
}

// NewInMemoryHost creates a harness with the given initial escrow
// balance (e.g. the sum of deposits expected from registrants).
func NewInMemoryHost(initialEscrow uint64) *InMemoryHost {
	return &InMemoryHost{
		escrow:    initialEscrow,
		transfers: make(map[AccountID]uint64),
		SessionID: uuid.New(),
	}
}

// SetNow sets the logical clock returned by subsequent Now() calls.
func (h *InMemoryHost) SetNow(ms int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = ms
}

// SetSender sets the identity returned by subsequent Sender() calls.
func (h *InMemoryHost) SetSender(s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sender = s
}

// SetAttachedValue sets the value returned by subsequent
// AttachedValue() calls.
func (h *InMemoryHost) SetAttachedValue(v uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attachedValue = v
}

// Now implements Host.
func (h *InMemoryHost) Now() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

// Sender implements Host.
func (h *InMemoryHost) Sender() Sender {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sender
}

// AttachedValue implements Host.
func (h *InMemoryHost) AttachedValue() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attachedValue
}

// Transfer implements Host, crediting to from the escrow balance.
func (h *InMemoryHost) Transfer(to AccountID, amount uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if amount > h.escrow {
		return ErrInsufficientFunds
	}
	h.escrow -= amount
	h.transfers[to] += amount
	return nil
}

// Deposit credits amount into the escrow, modeling the value attached
// to a register call before Transfer can pay it back out.
func (h *InMemoryHost) Deposit(amount uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.escrow += amount
}

// EscrowBalance returns the current contract-held balance.
func (h *InMemoryHost) EscrowBalance() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.escrow
}

// TransferredTo returns the cumulative amount paid out to id so far.
func (h *InMemoryHost) TransferredTo(id AccountID) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.transfers[id]
}
