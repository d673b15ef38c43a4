// Command ovnet-cli generates a complete, self-consistent set of
// registration, commit, and vote messages for a simulated voter panel,
// plus the YAML manifest describing the resulting vote. It exists to
// produce fixtures for ovnet-node without requiring N separate clients
// each holding their own private key.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openvote/ovnet/pkg/commitment"
	"github.com/openvote/ovnet/pkg/config"
	"github.com/openvote/ovnet/pkg/curve"
	"github.com/openvote/ovnet/pkg/merkle"
	"github.com/openvote/ovnet/pkg/orzkp"
	"github.com/openvote/ovnet/pkg/schnorr"
	"github.com/openvote/ovnet/pkg/voting"
	"github.com/openvote/ovnet/pkg/wire"
)

func main() {
	voters := flag.Int("voters", 3, "number of simulated voters")
	yesVotes := flag.Int("yes", -1, "number of voters who vote yes (default: all but one)")
	deposit := flag.Uint64("deposit", 0, "required per-voter deposit")
	tReg := flag.Int64("t-reg", 100_000, "registration phase deadline, ms")
	tCommit := flag.Int64("t-commit", 200_000, "commit phase deadline, ms")
	tVote := flag.Int64("t-vote", 300_000, "vote phase deadline, ms")
	question := flag.String("question", "Adopt the proposal?", "the voting question recorded in the manifest")
	outDir := flag.String("out", "./voteconfig", "output directory for generated message files and manifest")
	flag.Parse()

	if err := run(*voters, *yesVotes, *deposit, *tReg, *tCommit, *tVote, *question, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "ovnet-cli: %v\n", err)
		os.Exit(1)
	}
}

func run(n, yes int, deposit uint64, tReg, tCommit, tVote int64, question, outDir string) error {
	if n < 3 {
		return fmt.Errorf("voters must be at least 3, got %d", n)
	}
	if yes < 0 {
		yes = n - 1
	}
	if yes > n {
		return fmt.Errorf("yes (%d) cannot exceed voters (%d)", yes, n)
	}

	if err := os.MkdirAll(filepath.Join(outDir, "register_msgs"), 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(outDir, "commit_msgs"), 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(outDir, "vote_msgs"), 0o755); err != nil {
		return err
	}

	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("voter%d", i)
	}

	root, tree, err := buildAuthorizationTree(ids)
	if err != nil {
		return fmt.Errorf("build authorization tree: %w", err)
	}

	secrets, registerMsgs, err := generateRegisterMessages(ids, tree)
	if err != nil {
		return fmt.Errorf("generate register messages: %w", err)
	}
	for i, msg := range registerMsgs {
		path := filepath.Join(outDir, "register_msgs", fmt.Sprintf("register_msg%d.bin", i))
		if err := os.WriteFile(path, wire.EncodeRegisterMessage(msg), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	keys := make([]curve.Point, n)
	for i, msg := range registerMsgs {
		keys[i] = msg.VotingKey
	}

	votes := make([]curve.Point, n)
	reconstructed := make([]curve.Point, n)
	for i := range ids {
		h := voting.ReconstructedKey(keys, i)
		reconstructed[i] = h
		if i < yes {
			votes[i] = h.Mul(secrets[i]).Add(curve.Generator())
		} else {
			votes[i] = h.Mul(secrets[i])
		}

		commitMsg := wire.CommitMessage{ReconstructedKey: h, Commitment: commitment.Commit(votes[i])}
		path := filepath.Join(outDir, "commit_msgs", fmt.Sprintf("commit_msg%d.bin", i))
		if err := os.WriteFile(path, wire.EncodeCommitMessage(commitMsg), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	for i := range ids {
		var proof orzkp.Proof
		var err error
		if i < yes {
			proof, err = orzkp.ProveYes(rand.Reader, secrets[i], keys[i], reconstructed[i])
		} else {
			proof, err = orzkp.ProveNo(rand.Reader, secrets[i], keys[i], reconstructed[i])
		}
		if err != nil {
			return fmt.Errorf("prove vote %d: %w", i, err)
		}
		voteMsg := wire.VoteMessage{Vote: votes[i], VoteZKP: proof}
		path := filepath.Join(outDir, "vote_msgs", fmt.Sprintf("vote_msg%d.bin", i))
		if err := os.WriteFile(path, wire.EncodeVoteMessage(voteMsg), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	manifest := &config.Manifest{
		MerkleRootHex:   hex.EncodeToString(root[:]),
		AuthorizedVoter: ids,
		VotingQuestion:  question,
		Deposit:         deposit,
		TRegMillis:      tReg,
		TCommitMillis:   tCommit,
		TVoteMillis:     tVote,
	}
	manifestPath := filepath.Join(outDir, "voteconfig.yaml")
	if err := config.WriteManifest(manifestPath, manifest); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	fmt.Printf("generated %d register/commit/vote message sets and %s (%d yes, %d no)\n", n, manifestPath, yes, n-yes)
	return nil
}

// buildAuthorizationTree builds the Merkle tree of account identities
// authorized to register, in the order ovnet-node expects register
// calls to later resolve against.
func buildAuthorizationTree(ids []string) ([32]byte, *merkle.Tree, error) {
	leaves := make([][]byte, len(ids))
	for i, id := range ids {
		leaf := merkle.HashLeaf([]byte(id))
		leaves[i] = leaf[:]
	}
	tree, err := merkle.Build(leaves)
	if err != nil {
		return [32]byte{}, nil, err
	}
	var root [32]byte
	copy(root[:], tree.Root())
	return root, tree, nil
}

// generateRegisterMessages samples a fresh voting key per voter and
// assembles its RegisterMessage, including the Merkle inclusion proof
// for its own leaf.
func generateRegisterMessages(ids []string, tree *merkle.Tree) ([]curve.Scalar, []wire.RegisterMessage, error) {
	secrets := make([]curve.Scalar, len(ids))
	msgs := make([]wire.RegisterMessage, len(ids))
	for i := range ids {
		x, err := curve.RandomScalar(rand.Reader)
		if err != nil {
			return nil, nil, err
		}
		X := curve.MulGenerator(x)
		zkp, err := schnorr.Prove(rand.Reader, x, X)
		if err != nil {
			return nil, nil, err
		}
		proof, err := tree.Proof(i)
		if err != nil {
			return nil, nil, err
		}
		secrets[i] = x
		msgs[i] = wire.RegisterMessage{VotingKey: X, VotingKeyZKP: zkp, Merkle: proof}
	}
	return secrets, msgs, nil
}
