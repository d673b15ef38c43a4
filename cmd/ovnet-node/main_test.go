package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openvote/ovnet/pkg/commitment"
	"github.com/openvote/ovnet/pkg/config"
	"github.com/openvote/ovnet/pkg/curve"
	"github.com/openvote/ovnet/pkg/host"
	"github.com/openvote/ovnet/pkg/merkle"
	"github.com/openvote/ovnet/pkg/orzkp"
	"github.com/openvote/ovnet/pkg/schnorr"
	"github.com/openvote/ovnet/pkg/voting"
	"github.com/openvote/ovnet/pkg/wire"
)

func doJSON(t *testing.T, handler http.HandlerFunc, method string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode request: %v", err)
	}
	req := httptest.NewRequest(method, "/", &buf)
	rr := httptest.NewRecorder()
	handler(rr, req)

	var resp map[string]interface{}
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rr, resp
}

func TestHandleResultBeforeSetupIsServiceUnavailable(t *testing.T) {
	s := &server{host: host.NewInMemoryHost(0)}
	req := httptest.NewRequest(http.MethodGet, "/result", nil)
	rr := httptest.NewRecorder()
	s.handleResult(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestHandleHealthzReportsNoVoteConfigured(t *testing.T) {
	s := &server{host: host.NewInMemoryHost(0)}
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	s.handleHealthz(rr, req)

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "no vote configured" {
		t.Fatalf("status = %q, want %q", resp["status"], "no vote configured")
	}
}

// TestFullRoundThroughHandlers drives three voters through setup,
// register, commit, vote, and result entirely via the HTTP handlers,
// the same sequence an ovnet-cli-generated fixture set would replay
// against a live node.
func TestFullRoundThroughHandlers(t *testing.T) {
	ids := []string{"voter0", "voter1", "voter2"}
	leaves := make([][]byte, len(ids))
	for i, id := range ids {
		leaf := merkle.HashLeaf([]byte(id))
		leaves[i] = leaf[:]
	}
	tree, err := merkle.Build(leaves)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	s := &server{host: host.NewInMemoryHost(0)}

	// The handlers stamp every call with the wall-clock time, so the
	// deadlines are set relative to the current time.
	now := time.Now().UnixMilli()
	setupReq := setupRequest{
		MerkleRootHex:   hex.EncodeToString(tree.Root()),
		AuthorizedVoter: ids,
		VotingQuestion:  "Adopt?",
		Deposit:         0,
		TRegMillis:      now + 60_000,
		TCommitMillis:   now + 120_000,
		TVoteMillis:     now + 180_000,
	}
	rr, resp := doJSON(t, s.handleSetup, http.MethodPost, setupReq)
	if rr.Code != http.StatusOK {
		t.Fatalf("setup status = %d body=%v", rr.Code, resp)
	}

	xs := make([]curve.Scalar, len(ids))
	keys := make([]curve.Point, len(ids))
	for i := range ids {
		x, err := curve.RandomScalar(rand.Reader)
		if err != nil {
			t.Fatalf("RandomScalar: %v", err)
		}
		xs[i] = x
		keys[i] = curve.MulGenerator(x)
	}

	for i, id := range ids {
		proof, err := schnorr.Prove(rand.Reader, xs[i], keys[i])
		if err != nil {
			t.Fatalf("schnorr.Prove: %v", err)
		}
		merkleProof, err := tree.Proof(i)
		if err != nil {
			t.Fatalf("Proof: %v", err)
		}
		msgBytes := wire.EncodeRegisterMessage(wire.RegisterMessage{
			VotingKey:    keys[i],
			VotingKeyZKP: proof,
			Merkle:       merkleProof,
		})
		rr, resp := doJSON(t, s.handleRegister, http.MethodPost, entryRequest{
			Sender:     id,
			MessageHex: hex.EncodeToString(msgBytes),
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("register %s status=%d body=%v", id, rr.Code, resp)
		}
	}

	hs := make([]curve.Point, len(ids))
	for i, id := range ids {
		h := voting.ReconstructedKey(keys, i)
		hs[i] = h
		votePoint := h.Mul(xs[i]) // vote "no"
		commit := commitment.Commit(votePoint)
		msgBytes := wire.EncodeCommitMessage(wire.CommitMessage{
			ReconstructedKey: h,
			Commitment:       commit,
		})
		rr, resp := doJSON(t, s.handleCommit, http.MethodPost, entryRequest{
			Sender:     id,
			MessageHex: hex.EncodeToString(msgBytes),
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("commit %s status=%d body=%v", id, rr.Code, resp)
		}
	}

	for i, id := range ids {
		h := hs[i]
		X := keys[i]
		votePoint := h.Mul(xs[i])
		proof, err := orzkp.ProveNo(rand.Reader, xs[i], X, h)
		if err != nil {
			t.Fatalf("ProveNo: %v", err)
		}
		msgBytes := wire.EncodeVoteMessage(wire.VoteMessage{Vote: votePoint, VoteZKP: proof})
		rr, resp := doJSON(t, s.handleVote, http.MethodPost, entryRequest{
			Sender:     id,
			MessageHex: hex.EncodeToString(msgBytes),
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("vote %s status=%d body=%v", id, rr.Code, resp)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/result", nil)
	rr2 := httptest.NewRecorder()
	s.handleResult(rr2, req)
	var result map[string]int
	if err := json.Unmarshal(rr2.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result["yes"] != 0 || result["no"] != len(ids) {
		t.Fatalf("result = %v, want all-no for %d voters", result, len(ids))
	}
}

func TestSetupFromManifestRejectsBadMerkleRoot(t *testing.T) {
	_, err := setupFromManifest(&config.Manifest{
		MerkleRootHex:   "not-hex",
		AuthorizedVoter: []string{"a", "b", "c"},
	})
	if err == nil {
		t.Fatalf("expected error for invalid merkle_root hex")
	}
}
