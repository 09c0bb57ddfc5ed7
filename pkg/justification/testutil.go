package justification

import (
	"crypto/ed25519"

	"github.com/bridgecore/finality-bridge/pkg/bridgetypes"
	"github.com/bridgecore/finality-bridge/pkg/codec"
)

// Voter is a test-fixture keypair plus its finality-gadget weight. This
// file supplements the verifier (which only ever consumes signatures,
// never produces them, per spec §1's Non-goals) with the construction
// helper the original's own test suite uses to build justification
// fixtures — see the original's from_commit / create_dummy_validator_proof
// in _examples/original_source/srml/bridge. Nothing here is reachable from
// production dispatch; it exists only to build realistic _test.go fixtures.
type Voter struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
	Weight  uint64
}

// NewVoter generates a fresh Ed25519 keypair with the given weight.
func NewVoter(weight uint64) Voter {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return Voter{Public: pub, Private: priv, Weight: weight}
}

// AuthorityID returns v's identity in the wire format AuthorityID expects.
func (v Voter) AuthorityID() bridgetypes.AuthorityID {
	var id bridgetypes.AuthorityID
	copy(id[:], v.Public)
	return id
}

// Authority returns v's (id, weight) pair for an AuthoritySet.
func (v Voter) Authority() bridgetypes.Authority {
	return bridgetypes.Authority{ID: v.AuthorityID(), Weight: v.Weight}
}

// SignPrecommit signs precommit for round/setID and returns the resulting
// SignedPrecommit, mirroring the original's construction of each
// GrandpaJustification vote.
func (v Voter) SignPrecommit(round, setID uint64, precommit bridgetypes.Precommit) bridgetypes.SignedPrecommit {
	payload := codec.LocalizedPayload(round, setID, bridgetypes.PrecommitMessage{Precommit: precommit})
	sig := ed25519.Sign(v.Private, payload)
	return bridgetypes.SignedPrecommit{
		Precommit: precommit,
		ID:        v.AuthorityID(),
		Signature: sig,
	}
}

// FromCommit builds a Justification from a target and a set of voters
// each precommitting for their own (possibly descendant) target header,
// walking each precommit's chain back to the commit target and collecting
// the union of traversed headers into votes_ancestries — mirroring
// from_commit in the original's justification.rs, deduplicating ancestries
// the way its BTreeSet of BlockHashKey does.
func FromCommit(round, setID uint64, target bridgetypes.Header, votes []Vote, chainHeaders []bridgetypes.Header) bridgetypes.Justification {
	byHash := make(map[bridgetypes.Hash]bridgetypes.Header, len(chainHeaders))
	for _, h := range chainHeaders {
		byHash[h.Hash()] = h
	}

	commit := bridgetypes.Commit{
		TargetHash:   target.Hash(),
		TargetNumber: target.Number,
	}

	ancestrySeen := make(map[bridgetypes.Hash]bool)
	var votesAncestries []bridgetypes.Header

	for _, vote := range votes {
		precommit := bridgetypes.Precommit{TargetHash: vote.Header.Hash(), TargetNumber: vote.Header.Number}
		commit.Precommits = append(commit.Precommits, vote.Voter.SignPrecommit(round, setID, precommit))

		current := vote.Header.Hash()
		for current != target.Hash() {
			h, ok := byHash[current]
			if !ok {
				break
			}
			if !ancestrySeen[current] {
				ancestrySeen[current] = true
				votesAncestries = append(votesAncestries, h)
			}
			current = h.ParentHash
		}
	}

	return bridgetypes.Justification{
		Round:           round,
		Commit:          commit,
		VotesAncestries: votesAncestries,
	}
}

// Vote pairs a voter with the header it precommits for.
type Vote struct {
	Voter  Voter
	Header bridgetypes.Header
}
