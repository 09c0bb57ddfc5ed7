package justification

import (
	"testing"

	"github.com/bridgecore/finality-bridge/pkg/bridgetypes"
	"github.com/bridgecore/finality-bridge/pkg/codec"
)

func buildChain(t *testing.T, n int) []bridgetypes.Header {
	t.Helper()
	headers := make([]bridgetypes.Header, 0, n)
	var parent bridgetypes.Hash
	for i := 0; i < n; i++ {
		h := bridgetypes.Header{ParentHash: parent, Number: bridgetypes.BlockNumber(i + 1), Digest: []byte{byte(i)}}
		headers = append(headers, h)
		parent = h.Hash()
	}
	return headers
}

func TestDecodeAndVerifyFinalizesAccepts(t *testing.T) {
	chain := buildChain(t, 3) // [h1, h2, h3]
	target := chain[0]

	voters := []Voter{NewVoter(1), NewVoter(1), NewVoter(1)}
	authorities := bridgetypes.AuthoritySet{voters[0].Authority(), voters[1].Authority(), voters[2].Authority()}
	voterSet := NewVoterSet(authorities)

	votes := []Vote{
		{Voter: voters[0], Header: chain[0]},
		{Voter: voters[1], Header: chain[2]},
		{Voter: voters[2], Header: chain[2]},
	}

	j := FromCommit(7, 0, target, votes, chain)
	raw := codec.Encode(j)

	expected := Target{Hash: target.Hash(), Number: target.Number}
	got, err := DecodeAndVerifyFinalizes(raw, expected, 0, voterSet)
	if err != nil {
		t.Fatalf("DecodeAndVerifyFinalizes: %v", err)
	}
	if got.Round != 7 {
		t.Fatalf("round = %d, want 7", got.Round)
	}
}

func TestDecodeAndVerifyFinalizesRejectsBadTarget(t *testing.T) {
	chain := buildChain(t, 2)
	target := chain[0]

	voters := []Voter{NewVoter(1), NewVoter(1), NewVoter(1)}
	authorities := bridgetypes.AuthoritySet{voters[0].Authority(), voters[1].Authority(), voters[2].Authority()}
	voterSet := NewVoterSet(authorities)

	votes := []Vote{{Voter: voters[0], Header: chain[0]}, {Voter: voters[1], Header: chain[0]}, {Voter: voters[2], Header: chain[0]}}
	j := FromCommit(1, 0, target, votes, chain)
	raw := codec.Encode(j)

	wrongTarget := Target{Hash: chain[1].Hash(), Number: chain[1].Number}
	if _, err := DecodeAndVerifyFinalizes(raw, wrongTarget, 0, voterSet); err == nil {
		t.Fatalf("expected error for mismatched target")
	}
}

func TestDecodeAndVerifyFinalizesRejectsBelowThreshold(t *testing.T) {
	chain := buildChain(t, 1)
	target := chain[0]

	voters := []Voter{NewVoter(1), NewVoter(1), NewVoter(1)}
	authorities := bridgetypes.AuthoritySet{voters[0].Authority(), voters[1].Authority(), voters[2].Authority()}
	voterSet := NewVoterSet(authorities)

	// Only one of three equally-weighted voters precommits: 1/3 < 2/3+1 threshold.
	votes := []Vote{{Voter: voters[0], Header: chain[0]}}
	j := FromCommit(1, 0, target, votes, chain)
	raw := codec.Encode(j)

	expected := Target{Hash: target.Hash(), Number: target.Number}
	if _, err := DecodeAndVerifyFinalizes(raw, expected, 0, voterSet); err == nil {
		t.Fatalf("expected error for sub-threshold commit")
	}
}

func TestDecodeAndVerifyFinalizesRejectsUnusedHeaders(t *testing.T) {
	chain := buildChain(t, 3)
	target := chain[0]

	voters := []Voter{NewVoter(1), NewVoter(1), NewVoter(1)}
	authorities := bridgetypes.AuthoritySet{voters[0].Authority(), voters[1].Authority(), voters[2].Authority()}
	voterSet := NewVoterSet(authorities)

	votes := []Vote{
		{Voter: voters[0], Header: chain[0]},
		{Voter: voters[1], Header: chain[0]},
		{Voter: voters[2], Header: chain[0]},
	}
	j := FromCommit(1, 0, target, votes, chain)

	// Pad votes_ancestries with an unrelated header no precommit references.
	unrelated := bridgetypes.Header{ParentHash: bridgetypes.Hash{0xAA}, Number: 99}
	j.VotesAncestries = append(j.VotesAncestries, unrelated)
	raw := codec.Encode(j)

	expected := Target{Hash: target.Hash(), Number: target.Number}
	if _, err := DecodeAndVerifyFinalizes(raw, expected, 0, voterSet); err == nil {
		t.Fatalf("expected error for unused headers in votes_ancestries")
	}
}

func TestDecodeAndVerifyFinalizesRejectsMissingAncestryProof(t *testing.T) {
	chain := buildChain(t, 3)
	target := chain[0]

	voters := []Voter{NewVoter(1), NewVoter(1), NewVoter(1)}
	authorities := bridgetypes.AuthoritySet{voters[0].Authority(), voters[1].Authority(), voters[2].Authority()}
	voterSet := NewVoterSet(authorities)

	votes := []Vote{
		{Voter: voters[0], Header: chain[0]},
		{Voter: voters[1], Header: chain[2]},
		{Voter: voters[2], Header: chain[2]},
	}
	j := FromCommit(1, 0, target, votes, chain)

	// Remove a header the precommit route actually traverses.
	j.VotesAncestries = j.VotesAncestries[:len(j.VotesAncestries)-1]
	raw := codec.Encode(j)

	expected := Target{Hash: target.Hash(), Number: target.Number}
	if _, err := DecodeAndVerifyFinalizes(raw, expected, 0, voterSet); err == nil {
		t.Fatalf("expected error for missing ancestry header")
	}
}

func TestDecodeAndVerifyFinalizesRejectsMalformedBytes(t *testing.T) {
	voterSet := NewVoterSet(bridgetypes.AuthoritySet{NewVoter(1).Authority()})
	if _, err := DecodeAndVerifyFinalizes([]byte{0x01, 0x02}, Target{}, 0, voterSet); err == nil {
		t.Fatalf("expected decode error for malformed bytes")
	}
}
