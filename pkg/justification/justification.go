// Package justification implements the central algorithm of spec §4.E:
// decoding an encoded commit justification, checking it carries a
// supermajority of precommit weight for its target, verifying every
// precommit signature, and confirming the supplied ancestry exactly
// covers (no more, no less) what the precommits actually traverse.
// Grounded on decode_and_verify_finalizes/verify in
// _examples/original_source/srml/bridge/src/justification.rs.
package justification

import (
	"github.com/bridgecore/finality-bridge/pkg/ancestry"
	"github.com/bridgecore/finality-bridge/pkg/bridgeerr"
	"github.com/bridgecore/finality-bridge/pkg/bridgetypes"
	"github.com/bridgecore/finality-bridge/pkg/codec"
	"github.com/bridgecore/finality-bridge/pkg/cryptoadapter"
)

// Target is the expected finalized block a justification must commit to.
type Target struct {
	Hash   bridgetypes.Hash
	Number bridgetypes.BlockNumber
}

// DecodeAndVerifyFinalizes decodes raw, checks it commits to expected
// under set_id using voters, and returns the parsed Justification on
// success. This is the single entry point submit_finalized_headers (§4.G)
// calls into; the six steps below follow spec §4.E, with step 3 reduced to
// a distinct-voter weight sum rather than a full ghost search.
func DecodeAndVerifyFinalizes(raw []byte, expected Target, setID uint64, voters *VoterSet) (bridgetypes.Justification, error) {
	// Step 1: decode.
	j, err := bridgetypes.DecodeJustification(raw)
	if err != nil {
		return bridgetypes.Justification{}, bridgeerr.Wrap(bridgeerr.CodeJustificationDecode, err)
	}

	if err := verify(j, expected, setID, voters); err != nil {
		return bridgetypes.Justification{}, err
	}
	return j, nil
}

func verify(j bridgetypes.Justification, expected Target, setID uint64, voters *VoterSet) error {
	// Step 2: target match.
	if j.Commit.TargetHash != expected.Hash || j.Commit.TargetNumber != expected.Number {
		return bridgeerr.Newf(bridgeerr.CodeBadJustification, "invalid commit target")
	}

	chain := ancestry.New(j.VotesAncestries)

	// Step 3: commit validity — supermajority of distinct voter weight
	// supports the commit target. The ancestry chain is not consulted
	// here. Every precommit in a well-formed commit targets the commit
	// target or a descendant of it; step 5 below independently enforces
	// that every precommit target actually traces back to the commit
	// target, so the supermajority check here sums each distinct
	// authority's weight once.
	seen := make(map[bridgetypes.AuthorityID]bool, len(j.Commit.Precommits))
	var supportWeight uint64
	for _, sp := range j.Commit.Precommits {
		if seen[sp.ID] {
			continue
		}
		weight, ok := voters.Weight(sp.ID)
		if !ok {
			continue
		}
		seen[sp.ID] = true
		supportWeight += weight
	}
	if !voters.IsThresholdMet(supportWeight) {
		return bridgeerr.Newf(bridgeerr.CodeBadJustification, "invalid commit")
	}

	// Step 4: signature verification.
	for _, sp := range j.Commit.Precommits {
		weight, ok := voters.Weight(sp.ID)
		if !ok || weight == 0 {
			return bridgeerr.Newf(bridgeerr.CodeBadJustification, "invalid signature: unknown authority")
		}
		payload := codec.LocalizedPayload(j.Round, setID, bridgetypes.PrecommitMessage{Precommit: sp.Precommit})
		if !cryptoadapter.VerifyEd25519(sp.ID[:], payload, sp.Signature) {
			return bridgeerr.Newf(bridgeerr.CodeBadJustification, "invalid signature")
		}
	}

	// Step 5: ancestry coverage.
	visited := make(map[bridgetypes.Hash]bool)
	for _, sp := range j.Commit.Precommits {
		if sp.Precommit.TargetHash == j.Commit.TargetHash {
			continue
		}
		route, err := chain.Ancestry(j.Commit.TargetHash, sp.Precommit.TargetHash)
		if err != nil {
			return bridgeerr.Newf(bridgeerr.CodeBadJustification, "invalid precommit ancestry proof")
		}
		visited[sp.Precommit.TargetHash] = true
		for _, h := range route {
			visited[h] = true
		}
	}

	// Step 6: no extraneous headers.
	if len(visited) != len(j.VotesAncestries) {
		return bridgeerr.Newf(bridgeerr.CodeBadJustification, "unused headers")
	}
	for _, h := range j.VotesAncestries {
		if !visited[h.Hash()] {
			return bridgeerr.Newf(bridgeerr.CodeBadJustification, "unused headers")
		}
	}

	return nil
}
