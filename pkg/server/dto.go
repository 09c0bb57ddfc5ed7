package server

import (
	"encoding/hex"
	"fmt"

	"github.com/bridgecore/finality-bridge/pkg/bridgetypes"
)

// headerDTO is the wire representation of bridgetypes.Header: fixed-size
// hash fields travel as hex strings rather than JSON byte arrays.
type headerDTO struct {
	ParentHash     string `json:"parent_hash"`
	Number         uint64 `json:"number"`
	StateRoot      string `json:"state_root"`
	ExtrinsicsRoot string `json:"extrinsics_root"`
	Digest         string `json:"digest,omitempty"`
}

func (d headerDTO) toHeader() (bridgetypes.Header, error) {
	parentHash, err := decodeHash(d.ParentHash)
	if err != nil {
		return bridgetypes.Header{}, fmt.Errorf("parent_hash: %w", err)
	}
	stateRoot, err := decodeHash(d.StateRoot)
	if err != nil {
		return bridgetypes.Header{}, fmt.Errorf("state_root: %w", err)
	}
	extrinsicsRoot, err := decodeHash(d.ExtrinsicsRoot)
	if err != nil {
		return bridgetypes.Header{}, fmt.Errorf("extrinsics_root: %w", err)
	}
	digest, err := hex.DecodeString(d.Digest)
	if err != nil {
		return bridgetypes.Header{}, fmt.Errorf("digest: %w", err)
	}
	return bridgetypes.Header{
		ParentHash:     parentHash,
		Number:         bridgetypes.BlockNumber(d.Number),
		StateRoot:      stateRoot,
		ExtrinsicsRoot: extrinsicsRoot,
		Digest:         digest,
	}, nil
}

func fromHeader(h bridgetypes.Header) headerDTO {
	return headerDTO{
		ParentHash:     hex.EncodeToString(h.ParentHash[:]),
		Number:         uint64(h.Number),
		StateRoot:      hex.EncodeToString(h.StateRoot[:]),
		ExtrinsicsRoot: hex.EncodeToString(h.ExtrinsicsRoot[:]),
		Digest:         hex.EncodeToString(h.Digest),
	}
}

func decodeHash(s string) (bridgetypes.Hash, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return bridgetypes.Hash{}, err
	}
	h, ok := bridgetypes.HashFromBytes(raw)
	if !ok {
		return bridgetypes.Hash{}, fmt.Errorf("want %d bytes, got %d", len(bridgetypes.Hash{}), len(raw))
	}
	return h, nil
}

// authorityDTO is the wire representation of bridgetypes.Authority.
type authorityDTO struct {
	ID     string `json:"id"`
	Weight uint64 `json:"weight"`
}

func (d authorityDTO) toAuthority() (bridgetypes.Authority, error) {
	raw, err := hex.DecodeString(d.ID)
	if err != nil {
		return bridgetypes.Authority{}, fmt.Errorf("id: %w", err)
	}
	if len(raw) != len(bridgetypes.AuthorityID{}) {
		return bridgetypes.Authority{}, fmt.Errorf("id: want %d bytes, got %d", len(bridgetypes.AuthorityID{}), len(raw))
	}
	var id bridgetypes.AuthorityID
	copy(id[:], raw)
	return bridgetypes.Authority{ID: id, Weight: d.Weight}, nil
}

func fromAuthority(a bridgetypes.Authority) authorityDTO {
	return authorityDTO{ID: hex.EncodeToString(a.ID[:]), Weight: a.Weight}
}

// bridgeInfoDTO is the wire representation of bridgetypes.BridgeInfo.
type bridgeInfoDTO struct {
	LastFinalizedBlockNumber uint64         `json:"last_finalized_block_number"`
	LastFinalizedBlockHash   string         `json:"last_finalized_block_hash"`
	LastFinalizedStateRoot   string         `json:"last_finalized_state_root"`
	CurrentValidatorSet      []authorityDTO `json:"current_validator_set"`
	CurrentSetID             uint64         `json:"current_set_id"`
}

func fromBridgeInfo(info bridgetypes.BridgeInfo) bridgeInfoDTO {
	set := make([]authorityDTO, len(info.CurrentValidatorSet))
	for i, a := range info.CurrentValidatorSet {
		set[i] = fromAuthority(a)
	}
	return bridgeInfoDTO{
		LastFinalizedBlockNumber: uint64(info.LastFinalizedBlockNumber),
		LastFinalizedBlockHash:   hex.EncodeToString(info.LastFinalizedBlockHash[:]),
		LastFinalizedStateRoot:   hex.EncodeToString(info.LastFinalizedStateRoot[:]),
		CurrentValidatorSet:      set,
		CurrentSetID:             info.CurrentSetID,
	}
}

type initializeBridgeRequest struct {
	Header            headerDTO      `json:"header"`
	ValidatorSet      []authorityDTO `json:"validator_set"`
	ValidatorSetProof []string       `json:"validator_set_proof"`
}

func (r initializeBridgeRequest) decode() (bridgetypes.Header, bridgetypes.AuthoritySet, [][]byte, error) {
	header, err := r.Header.toHeader()
	if err != nil {
		return bridgetypes.Header{}, nil, nil, fmt.Errorf("header: %w", err)
	}
	set := make(bridgetypes.AuthoritySet, len(r.ValidatorSet))
	for i, a := range r.ValidatorSet {
		auth, err := a.toAuthority()
		if err != nil {
			return bridgetypes.Header{}, nil, nil, fmt.Errorf("validator_set[%d]: %w", i, err)
		}
		set[i] = auth
	}
	proof := make([][]byte, len(r.ValidatorSetProof))
	for i, node := range r.ValidatorSetProof {
		raw, err := hex.DecodeString(node)
		if err != nil {
			return bridgetypes.Header{}, nil, nil, fmt.Errorf("validator_set_proof[%d]: %w", i, err)
		}
		proof[i] = raw
	}
	return header, set, proof, nil
}

type submitFinalizedHeadersRequest struct {
	Header        headerDTO `json:"header"`
	Justification string    `json:"justification"`
}

func (r submitFinalizedHeadersRequest) decode() (bridgetypes.Header, []byte, error) {
	header, err := r.Header.toHeader()
	if err != nil {
		return bridgetypes.Header{}, nil, fmt.Errorf("header: %w", err)
	}
	justification, err := hex.DecodeString(r.Justification)
	if err != nil {
		return bridgetypes.Header{}, nil, fmt.Errorf("justification: %w", err)
	}
	return header, justification, nil
}
