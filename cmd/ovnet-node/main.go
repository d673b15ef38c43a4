// Command ovnet-node runs a single-vote OV-Net instance behind a
// minimal JSON HTTP API: register, commit, vote, result, and
// change_phase, backed by an in-memory host and voting state. It is a
// reference harness, not a production ledger integration — a real
// deployment wires pkg/voting's entry points into a blockchain
// contract's own host, not this process's in-memory escrow.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openvote/ovnet/pkg/config"
	"github.com/openvote/ovnet/pkg/host"
	"github.com/openvote/ovnet/pkg/voting"
	"github.com/openvote/ovnet/pkg/wire"
)

func main() {
	manifestPath := flag.String("manifest", "", "path to the vote manifest YAML (overrides OVNET_MANIFEST_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *manifestPath != "" {
		cfg.ManifestPath = *manifestPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	srv, err := newServer(cfg)
	if err != nil {
		log.Fatalf("initialize server: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/setup", srv.handleSetup)
	mux.HandleFunc("/register", srv.handleRegister)
	mux.HandleFunc("/commit", srv.handleCommit)
	mux.HandleFunc("/vote", srv.handleVote)
	mux.HandleFunc("/result", srv.handleResult)
	mux.HandleFunc("/change_phase", srv.handleChangePhase)

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", srv.handleHealthz)

	apiServer := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	healthServer := &http.Server{Addr: cfg.HealthAddr, Handler: healthMux}

	go func() {
		log.Printf("ovnet-node API listening on %s", cfg.ListenAddr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server: %v", err)
		}
	}()
	go func() {
		log.Printf("ovnet-node health check listening on %s", cfg.HealthAddr)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("health server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("shutting down ovnet-node")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	apiServer.Shutdown(ctx)
	healthServer.Shutdown(ctx)
}

// server holds the single vote instance ovnet-node exposes. The voting
// core is concurrency-safe on its own (State and InMemoryHost each
// guard their fields with a mutex); server adds no locking of its own.
type server struct {
	state *voting.State
	host  *host.InMemoryHost
}

func newServer(cfg *config.Config) (*server, error) {
	s := &server{host: host.NewInMemoryHost(cfg.InitialEscrow)}

	if _, err := os.Stat(cfg.ManifestPath); err == nil {
		manifest, err := config.LoadManifest(cfg.ManifestPath)
		if err != nil {
			return nil, fmt.Errorf("load manifest: %w", err)
		}
		state, err := setupFromManifest(manifest)
		if err != nil {
			return nil, fmt.Errorf("setup from manifest: %w", err)
		}
		s.state = state
		log.Printf("loaded vote manifest from %s (%d authorized voters)", cfg.ManifestPath, len(manifest.AuthorizedVoter))
	}
	return s, nil
}

func setupFromManifest(m *config.Manifest) (*voting.State, error) {
	rootBytes, err := hex.DecodeString(m.MerkleRootHex)
	if err != nil {
		return nil, fmt.Errorf("decode merkle_root: %w", err)
	}
	if len(rootBytes) != 32 {
		return nil, fmt.Errorf("merkle_root must decode to 32 bytes, got %d", len(rootBytes))
	}
	var root [32]byte
	copy(root[:], rootBytes)

	return voting.Setup(voting.VoteConfig{
		MerkleRoot:      root,
		MerkleLeafCount: len(m.AuthorizedVoter),
		VotingQuestion:  m.VotingQuestion,
		Deposit:         m.Deposit,
		TReg:            m.TRegMillis,
		TCommit:         m.TCommitMillis,
		TVote:           m.TVoteMillis,
	})
}

// setupRequest is the wire shape of POST /setup, mirroring config.Manifest
// but accepted directly over HTTP so a vote can be (re)configured without
// writing a file to disk first.
type setupRequest struct {
	MerkleRootHex   string   `json:"merkle_root"`
	AuthorizedVoter []string `json:"authorized_voters"`
	VotingQuestion  string   `json:"voting_question"`
	Deposit         uint64   `json:"deposit"`
	TRegMillis      int64    `json:"t_reg_millis"`
	TCommitMillis   int64    `json:"t_commit_millis"`
	TVoteMillis     int64    `json:"t_vote_millis"`
}

func (s *server) handleSetup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	state, err := setupFromManifest(&config.Manifest{
		MerkleRootHex:   req.MerkleRootHex,
		AuthorizedVoter: req.AuthorizedVoter,
		VotingQuestion:  req.VotingQuestion,
		Deposit:         req.Deposit,
		TRegMillis:      req.TRegMillis,
		TCommitMillis:   req.TCommitMillis,
		TVoteMillis:     req.TVoteMillis,
	})
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.state = state
	writeJSON(w, map[string]string{"phase": state.Phase.String()})
}

// entryRequest is the common envelope for /register, /commit, and
// /vote: the caller's identity, any attached deposit, and the
// hex-encoded wire message.
type entryRequest struct {
	Sender        string `json:"sender"`
	AttachedValue uint64 `json:"attached_value"`
	MessageHex    string `json:"message_hex"`
}

func (s *server) prepareCall(w http.ResponseWriter, r *http.Request) (entryRequest, []byte, bool) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return entryRequest{}, nil, false
	}
	if s.state == nil {
		writeJSONError(w, "vote not set up", http.StatusServiceUnavailable)
		return entryRequest{}, nil, false
	}
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return entryRequest{}, nil, false
	}
	msgBytes, err := hex.DecodeString(req.MessageHex)
	if err != nil {
		writeJSONError(w, "message_hex is not valid hex", http.StatusBadRequest)
		return entryRequest{}, nil, false
	}
	s.host.SetNow(time.Now().UnixMilli())
	s.host.SetSender(host.Sender{Kind: host.SenderAccount, ID: host.AccountID(req.Sender)})
	s.host.SetAttachedValue(req.AttachedValue)
	return req, msgBytes, true
}

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, msgBytes, ok := s.prepareCall(w, r)
	if !ok {
		return
	}
	msg, err := wire.DecodeRegisterMessage(msgBytes)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("decode register message: %v", err), http.StatusBadRequest)
		return
	}
	if err := voting.Register(s.state, s.host, msg); err != nil {
		writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.host.Deposit(req.AttachedValue)
	writeJSON(w, map[string]string{"phase": s.state.Phase.String()})
}

func (s *server) handleCommit(w http.ResponseWriter, r *http.Request) {
	_, msgBytes, ok := s.prepareCall(w, r)
	if !ok {
		return
	}
	msg, err := wire.DecodeCommitMessage(msgBytes)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("decode commit message: %v", err), http.StatusBadRequest)
		return
	}
	if err := voting.Commit(s.state, s.host, msg); err != nil {
		writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]string{"phase": s.state.Phase.String()})
}

func (s *server) handleVote(w http.ResponseWriter, r *http.Request) {
	_, msgBytes, ok := s.prepareCall(w, r)
	if !ok {
		return
	}
	msg, err := wire.DecodeVoteMessage(msgBytes)
	if err != nil {
		writeJSONError(w, fmt.Sprintf("decode vote message: %v", err), http.StatusBadRequest)
		return
	}
	if err := voting.Vote(s.state, s.host, msg); err != nil {
		writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]string{"phase": s.state.Phase.String()})
}

func (s *server) handleResult(w http.ResponseWriter, r *http.Request) {
	if s.state == nil {
		writeJSONError(w, "vote not set up", http.StatusServiceUnavailable)
		return
	}
	yes, no, err := voting.Result(s.state)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]int{"yes": yes, "no": no})
}

type changePhaseRequest struct {
	Sender string `json:"sender"`
}

func (s *server) handleChangePhase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.state == nil {
		writeJSONError(w, "vote not set up", http.StatusServiceUnavailable)
		return
	}
	var req changePhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s.host.SetNow(time.Now().UnixMilli())
	s.host.SetSender(host.Sender{Kind: host.SenderAccount, ID: host.AccountID(req.Sender)})
	if err := voting.ChangePhase(s.state, s.host); err != nil {
		writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]string{"phase": s.state.Phase.String()})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.state == nil {
		status = "no vote configured"
	}
	writeJSON(w, map[string]string{"status": status})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
