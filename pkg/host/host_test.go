package host

import "testing"

func TestInMemoryHostSettersAreVisibleThroughInterface(t *testing.T) {
	h := NewInMemoryHost(100)
	var hh Host = h

	h.SetNow(42)
	h.SetSender(Sender{Kind: SenderAccount, ID: "voter0"})
	h.SetAttachedValue(7)

	if hh.Now() != 42 {
		t.Fatalf("Now() = %d, want 42", hh.Now())
	}
	if hh.Sender().ID != "voter0" || hh.Sender().Kind != SenderAccount {
		t.Fatalf("Sender() = %+v, want voter0/SenderAccount", hh.Sender())
	}
	if hh.AttachedValue() != 7 {
		t.Fatalf("AttachedValue() = %d, want 7", hh.AttachedValue())
	}
}

func TestTransferMovesFromEscrowAndAccumulates(t *testing.T) {
	h := NewInMemoryHost(50)

	if err := h.Transfer("voter0", 20); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if err := h.Transfer("voter0", 10); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if got := h.TransferredTo("voter0"); got != 30 {
		t.Fatalf("TransferredTo = %d, want 30", got)
	}
	if got := h.EscrowBalance(); got != 20 {
		t.Fatalf("EscrowBalance = %d, want 20", got)
	}
}

func TestTransferRejectsInsufficientEscrow(t *testing.T) {
	h := NewInMemoryHost(5)
	if err := h.Transfer("voter0", 6); err != ErrInsufficientFunds {
		t.Fatalf("Transfer = %v, want ErrInsufficientFunds", err)
	}
	if got := h.EscrowBalance(); got != 5 {
		t.Fatalf("EscrowBalance after failed transfer = %d, want unchanged 5", got)
	}
}

func TestDepositCreditsEscrow(t *testing.T) {
	h := NewInMemoryHost(0)
	h.Deposit(30)
	if got := h.EscrowBalance(); got != 30 {
		t.Fatalf("EscrowBalance = %d, want 30", got)
	}
}

func TestSenderEncodeIsAccountIDBytes(t *testing.T) {
	s := Sender{Kind: SenderAccount, ID: "voter0"}
	if got := string(s.Encode()); got != "voter0" {
		t.Fatalf("Encode() = %q, want %q", got, "voter0")
	}
}

func TestNewInMemoryHostMintsDistinctSessionIDs(t *testing.T) {
	a := NewInMemoryHost(0)
	b := NewInMemoryHost(0)
	if a.SessionID == b.SessionID {
		t.Fatalf("two InMemoryHost instances minted the same SessionID")
	}
}
