// Package bridgetypes holds the wire-level data model shared by every
// bridge component: headers, authority sets, commits, justifications and
// the persisted BridgeInfo record. Types here implement codec.Encodable so
// their canonical encoding matches spec §6's wire formats exactly.
package bridgetypes

import (
	"bytes"

	"github.com/bridgecore/finality-bridge/pkg/codec"
	"github.com/bridgecore/finality-bridge/pkg/cryptoadapter"
)

// Hash is a fixed-width, opaque chain hash. It has no intrinsic total
// order; Less provides its lexicographic byte order. pkg/ancestry keys its
// index by String() and only looks hashes up, never ordering them.
type Hash [cryptoadapter.HashSize]byte

// Less implements the lexicographic ordering spec §9 requires for any
// deterministic iteration over hash-keyed collections.
func (h Hash) Less(other Hash) bool {
	return bytes.Compare(h[:], other[:]) < 0
}

// String returns the hash as a map-safe, comparable string key.
func (h Hash) String() string {
	return string(h[:])
}

// HashFromBytes copies b into a Hash, zero-padding or truncating is never
// performed: b must be exactly cryptoadapter.HashSize bytes.
func HashFromBytes(b []byte) (Hash, bool) {
	var h Hash
	if len(b) != cryptoadapter.HashSize {
		return h, false
	}
	copy(h[:], b)
	return h, true
}

// BlockNumber is the remote chain's monotone block height.
type BlockNumber uint64

// Header is the abstract header type of §3: a block number, parent hash,
// state root and extrinsics root, plus an opaque digest the bridge
// inspects only for authority-change markers (§9 "Authority-set handoff").
type Header struct {
	ParentHash     Hash
	Number         BlockNumber
	StateRoot      Hash
	ExtrinsicsRoot Hash
	Digest         []byte
}

// EncodeTo implements codec.Encodable.
func (h Header) EncodeTo(e *codec.Encoder) {
	e.WriteFixed(h.ParentHash[:])
	e.WriteUint64(uint64(h.Number))
	e.WriteFixed(h.StateRoot[:])
	e.WriteFixed(h.ExtrinsicsRoot[:])
	e.WriteBytes(h.Digest)
}

// Hash computes the header's canonical hash: Blake2b-256 over its
// canonical encoding (§4.B).
func (h Header) Hash() Hash {
	return cryptoadapter.Hash256(codec.Encode(h))
}

// DecodeHeader reads a Header from d.
func DecodeHeader(d *codec.Decoder) (Header, error) {
	var h Header
	parent, err := d.ReadFixed(cryptoadapter.HashSize)
	if err != nil {
		return h, &codec.DecodeError{Field: "Header.ParentHash", Err: err}
	}
	copy(h.ParentHash[:], parent)
	num, err := d.ReadUint64()
	if err != nil {
		return h, &codec.DecodeError{Field: "Header.Number", Err: err}
	}
	h.Number = BlockNumber(num)
	stateRoot, err := d.ReadFixed(cryptoadapter.HashSize)
	if err != nil {
		return h, &codec.DecodeError{Field: "Header.StateRoot", Err: err}
	}
	copy(h.StateRoot[:], stateRoot)
	extrinsicsRoot, err := d.ReadFixed(cryptoadapter.HashSize)
	if err != nil {
		return h, &codec.DecodeError{Field: "Header.ExtrinsicsRoot", Err: err}
	}
	copy(h.ExtrinsicsRoot[:], extrinsicsRoot)
	digest, err := d.ReadBytes()
	if err != nil {
		return h, &codec.DecodeError{Field: "Header.Digest", Err: err}
	}
	h.Digest = digest
	return h, nil
}

// AuthorityID identifies a voter's public key in the finality gadget.
type AuthorityID [ed25519PublicKeySize]byte

const ed25519PublicKeySize = 32

// Authority is a (public key identifier, weight) pair, §3.
type Authority struct {
	ID     AuthorityID
	Weight uint64
}

// EncodeTo implements codec.Encodable.
func (a Authority) EncodeTo(e *codec.Encoder) {
	e.WriteFixed(a.ID[:])
	e.WriteUint64(a.Weight)
}

// AuthoritySet is the ordered voter set of §3. Order is significant: it is
// part of the canonical encoding compared byte-for-byte in
// check_validator_set_proof (§4.G, scenario 3 of §8).
type AuthoritySet []Authority

// EncodeTo implements codec.Encodable.
func (s AuthoritySet) EncodeTo(e *codec.Encoder) {
	e.WriteSeqLen(len(s))
	for _, a := range s {
		a.EncodeTo(e)
	}
}

// DecodeAuthoritySet reads an AuthoritySet from d.
func DecodeAuthoritySet(d *codec.Decoder) (AuthoritySet, error) {
	n, err := d.ReadSeqLen()
	if err != nil {
		return nil, &codec.DecodeError{Field: "AuthoritySet.len", Err: err}
	}
	out := make(AuthoritySet, 0, n)
	for i := 0; i < n; i++ {
		id, err := d.ReadFixed(ed25519PublicKeySize)
		if err != nil {
			return nil, &codec.DecodeError{Field: "AuthoritySet[].ID", Err: err}
		}
		weight, err := d.ReadUint64()
		if err != nil {
			return nil, &codec.DecodeError{Field: "AuthoritySet[].Weight", Err: err}
		}
		var a Authority
		copy(a.ID[:], id)
		a.Weight = weight
		out = append(out, a)
	}
	return out, nil
}

// TotalWeight sums every authority's weight.
func (s AuthoritySet) TotalWeight() uint64 {
	var total uint64
	for _, a := range s {
		total += a.Weight
	}
	return total
}

// Precommit is a vote for (target_hash, target_number), §3.
type Precommit struct {
	TargetHash   Hash
	TargetNumber BlockNumber
}

// EncodeTo implements codec.Encodable.
func (p Precommit) EncodeTo(e *codec.Encoder) {
	e.WriteFixed(p.TargetHash[:])
	e.WriteUint64(uint64(p.TargetNumber))
}

func decodePrecommit(d *codec.Decoder) (Precommit, error) {
	var p Precommit
	hash, err := d.ReadFixed(cryptoadapter.HashSize)
	if err != nil {
		return p, &codec.DecodeError{Field: "Precommit.TargetHash", Err: err}
	}
	copy(p.TargetHash[:], hash)
	num, err := d.ReadUint64()
	if err != nil {
		return p, &codec.DecodeError{Field: "Precommit.TargetNumber", Err: err}
	}
	p.TargetNumber = BlockNumber(num)
	return p, nil
}

// PrecommitMessage is the Message::Precommit(precommit) variant referenced
// by §6's signed-payload wire format. The variant tag (0) matches the
// finality gadget's Message enum discriminant for Precommit, the only
// variant this verifier ever constructs.
type PrecommitMessage struct {
	Precommit Precommit
}

// EncodeTo implements codec.Encodable.
func (m PrecommitMessage) EncodeTo(e *codec.Encoder) {
	e.WriteUint8(0)
	m.Precommit.EncodeTo(e)
}

// SignedPrecommit is (Precommit, authority id, signature), §3.
type SignedPrecommit struct {
	Precommit Precommit
	ID        AuthorityID
	Signature []byte
}

const ed25519SignatureSize = 64

// EncodeTo implements codec.Encodable.
func (sp SignedPrecommit) EncodeTo(e *codec.Encoder) {
	sp.Precommit.EncodeTo(e)
	e.WriteFixed(sp.ID[:])
	e.WriteFixed(sp.Signature)
}

func decodeSignedPrecommit(d *codec.Decoder) (SignedPrecommit, error) {
	var sp SignedPrecommit
	pc, err := decodePrecommit(d)
	if err != nil {
		return sp, err
	}
	sp.Precommit = pc
	id, err := d.ReadFixed(ed25519PublicKeySize)
	if err != nil {
		return sp, &codec.DecodeError{Field: "SignedPrecommit.ID", Err: err}
	}
	copy(sp.ID[:], id)
	sig, err := d.ReadFixed(ed25519SignatureSize)
	if err != nil {
		return sp, &codec.DecodeError{Field: "SignedPrecommit.Signature", Err: err}
	}
	sp.Signature = sig
	return sp, nil
}

// Commit is the aggregate of precommits finalizing a block, §3.
type Commit struct {
	TargetHash   Hash
	TargetNumber BlockNumber
	Precommits   []SignedPrecommit
}

// EncodeTo implements codec.Encodable.
func (c Commit) EncodeTo(e *codec.Encoder) {
	e.WriteFixed(c.TargetHash[:])
	e.WriteUint64(uint64(c.TargetNumber))
	e.WriteSeqLen(len(c.Precommits))
	for _, sp := range c.Precommits {
		sp.EncodeTo(e)
	}
}

func decodeCommit(d *codec.Decoder) (Commit, error) {
	var c Commit
	hash, err := d.ReadFixed(cryptoadapter.HashSize)
	if err != nil {
		return c, &codec.DecodeError{Field: "Commit.TargetHash", Err: err}
	}
	copy(c.TargetHash[:], hash)
	num, err := d.ReadUint64()
	if err != nil {
		return c, &codec.DecodeError{Field: "Commit.TargetNumber", Err: err}
	}
	c.TargetNumber = BlockNumber(num)
	n, err := d.ReadSeqLen()
	if err != nil {
		return c, &codec.DecodeError{Field: "Commit.Precommits.len", Err: err}
	}
	c.Precommits = make([]SignedPrecommit, 0, n)
	for i := 0; i < n; i++ {
		sp, err := decodeSignedPrecommit(d)
		if err != nil {
			return c, err
		}
		c.Precommits = append(c.Precommits, sp)
	}
	return c, nil
}

// Justification is (round_number, Commit, votes_ancestries), §3.
type Justification struct {
	Round           uint64
	Commit          Commit
	VotesAncestries []Header
}

// EncodeTo implements codec.Encodable.
func (j Justification) EncodeTo(e *codec.Encoder) {
	e.WriteUint64(j.Round)
	j.Commit.EncodeTo(e)
	e.WriteSeqLen(len(j.VotesAncestries))
	for _, h := range j.VotesAncestries {
		h.EncodeTo(e)
	}
}

// DecodeJustification parses the bytes produced by Justification.EncodeTo.
func DecodeJustification(raw []byte) (Justification, error) {
	d := codec.NewDecoder(raw)
	var j Justification
	round, err := d.ReadUint64()
	if err != nil {
		return j, &codec.DecodeError{Field: "Justification.Round", Err: err}
	}
	j.Round = round
	commit, err := decodeCommit(d)
	if err != nil {
		return j, err
	}
	j.Commit = commit
	n, err := d.ReadSeqLen()
	if err != nil {
		return j, &codec.DecodeError{Field: "Justification.VotesAncestries.len", Err: err}
	}
	j.VotesAncestries = make([]Header, 0, n)
	for i := 0; i < n; i++ {
		h, err := DecodeHeader(d)
		if err != nil {
			return j, err
		}
		j.VotesAncestries = append(j.VotesAncestries, h)
	}
	return j, nil
}

// BridgeInfo is the persisted per-bridge record, §3.
type BridgeInfo struct {
	LastFinalizedBlockNumber BlockNumber
	LastFinalizedBlockHash   Hash
	LastFinalizedStateRoot   Hash
	CurrentValidatorSet      AuthoritySet
	CurrentSetID             uint64
}

// EncodeTo implements codec.Encodable, used for KV-store persistence.
func (b BridgeInfo) EncodeTo(e *codec.Encoder) {
	e.WriteUint64(uint64(b.LastFinalizedBlockNumber))
	e.WriteFixed(b.LastFinalizedBlockHash[:])
	e.WriteFixed(b.LastFinalizedStateRoot[:])
	b.CurrentValidatorSet.EncodeTo(e)
	e.WriteUint64(b.CurrentSetID)
}

// DecodeBridgeInfo parses the bytes produced by BridgeInfo.EncodeTo.
func DecodeBridgeInfo(raw []byte) (BridgeInfo, error) {
	d := codec.NewDecoder(raw)
	var b BridgeInfo
	num, err := d.ReadUint64()
	if err != nil {
		return b, &codec.DecodeError{Field: "BridgeInfo.LastFinalizedBlockNumber", Err: err}
	}
	b.LastFinalizedBlockNumber = BlockNumber(num)
	hash, err := d.ReadFixed(cryptoadapter.HashSize)
	if err != nil {
		return b, &codec.DecodeError{Field: "BridgeInfo.LastFinalizedBlockHash", Err: err}
	}
	copy(b.LastFinalizedBlockHash[:], hash)
	root, err := d.ReadFixed(cryptoadapter.HashSize)
	if err != nil {
		return b, &codec.DecodeError{Field: "BridgeInfo.LastFinalizedStateRoot", Err: err}
	}
	copy(b.LastFinalizedStateRoot[:], root)
	set, err := DecodeAuthoritySet(d)
	if err != nil {
		return b, err
	}
	b.CurrentValidatorSet = set
	setID, err := d.ReadUint64()
	if err != nil {
		return b, &codec.DecodeError{Field: "BridgeInfo.CurrentSetID", Err: err}
	}
	b.CurrentSetID = setID
	return b, nil
}
