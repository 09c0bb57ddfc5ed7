// Package bridge implements the state machine of spec §4.G: the per-bridge
// registry (BridgeInfo keyed by BridgeId), bridge initialization from a
// root-of-trust header and validator-set proof, and advancement via
// verified finality justifications. Grounded on initialize_bridge,
// check_validator_set_proof and submit_finalized_headers in
// _examples/original_source/srml/bridge/src/lib.rs, completed per spec §9
// ("Authority-set handoff") rather than left as the original's stub.
package bridge

import (
	"bytes"
	"time"

	"github.com/bridgecore/finality-bridge/pkg/bridgeerr"
	"github.com/bridgecore/finality-bridge/pkg/bridgetypes"
	"github.com/bridgecore/finality-bridge/pkg/codec"
	"github.com/bridgecore/finality-bridge/pkg/justification"
	"github.com/bridgecore/finality-bridge/pkg/logging"
	"github.com/bridgecore/finality-bridge/pkg/metrics"
	"github.com/bridgecore/finality-bridge/pkg/trieproof"
)

// GrandpaAuthoritiesKey is the well-known storage key of spec §6 holding
// the remote chain's encoded authority set.
var GrandpaAuthoritiesKey = []byte(":grandpa_authorities")

// KV is the minimal persistence capability the registry needs; satisfied
// by pkg/kvdb.KVAdapter.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}

var numBridgesKey = []byte("bridge/num_bridges")

func infoKey(id uint64) []byte {
	e := codec.NewEncoder()
	e.WriteFixed([]byte("bridge/info/"))
	e.WriteUint64(id)
	return e.Bytes()
}

// Registry is the bridge module's persisted state: NumBridges plus the
// TrackedBridges map, both backed by KV (spec §6 "Persisted state layout").
type Registry struct {
	kv     KV
	logger *logging.Logger
}

// NewRegistry wraps kv as a bridge registry. logger may be nil, in which
// case nothing is logged; storage-proof checks are metered either way.
func NewRegistry(kv KV, logger *logging.Logger) *Registry {
	return &Registry{kv: kv, logger: logger}
}

// NumBridges returns the current bridge count (spec §6 query surface).
func (r *Registry) NumBridges() (uint64, error) {
	raw, err := r.kv.Get(numBridgesKey)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil
	}
	d := codec.NewDecoder(raw)
	n, err := d.ReadUint64()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// TrackedBridge returns the BridgeInfo for id, or ok=false if no such
// bridge has been initialized (spec §6 query surface).
func (r *Registry) TrackedBridge(id uint64) (info bridgetypes.BridgeInfo, ok bool, err error) {
	raw, err := r.kv.Get(infoKey(id))
	if err != nil {
		return bridgetypes.BridgeInfo{}, false, err
	}
	if raw == nil {
		return bridgetypes.BridgeInfo{}, false, nil
	}
	info, err = bridgetypes.DecodeBridgeInfo(raw)
	if err != nil {
		return bridgetypes.BridgeInfo{}, false, err
	}
	return info, true, nil
}

func (r *Registry) putNumBridges(n uint64) error {
	e := codec.NewEncoder()
	e.WriteUint64(n)
	return r.kv.Set(numBridgesKey, e.Bytes())
}

func (r *Registry) putInfo(id uint64, info bridgetypes.BridgeInfo) error {
	return r.kv.Set(infoKey(id), codec.Encode(info))
}

// CheckValidatorSetProof builds a storage-proof checker over
// (stateRoot, proofNodes), reads :grandpa_authorities, and compares its
// canonical encoding byte-for-byte against expectedSet (spec §4.G).
func CheckValidatorSetProof(stateRoot bridgetypes.Hash, proofNodes [][]byte, expectedSet bridgetypes.AuthoritySet) error {
	checker, err := trieproof.New([32]byte(stateRoot), proofNodes)
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.CodeInvalidStorageProof, err)
	}

	value, err := checker.ReadValue(GrandpaAuthoritiesKey)
	if err == trieproof.ErrProofInsufficient {
		return bridgeerr.Wrap(bridgeerr.CodeInvalidValidatorSetProof, err)
	}
	if err != nil {
		return bridgeerr.Wrap(bridgeerr.CodeInvalidStorageProof, err)
	}
	if value == nil {
		return bridgeerr.New(bridgeerr.CodeInvalidValidatorSetProof)
	}

	if !bytes.Equal(codec.Encode(expectedSet), value) {
		return bridgeerr.New(bridgeerr.CodeValidatorSetMismatch)
	}
	return nil
}

// InitializeBridge creates a new bridge record from a root-of-trust header
// plus authority-set proof (spec §4.G). Origin authentication is the
// dispatch layer's responsibility (§4.H); this function assumes the caller
// is already authorized.
func (r *Registry) InitializeBridge(header bridgetypes.Header, validatorSet bridgetypes.AuthoritySet, validatorSetProof [][]byte) (uint64, error) {
	if len(validatorSet) == 0 || validatorSet.TotalWeight() == 0 {
		return 0, bridgeerr.Newf(bridgeerr.CodeInvalidArgument, "validator set must be non-empty with total weight >= 1")
	}

	start := time.Now()
	err := CheckValidatorSetProof(header.StateRoot, validatorSetProof, validatorSet)
	metrics.ObserveStorageProofChecked(err == nil)
	if r.logger != nil {
		r.logger.LogStorageProofCheck(0, GrandpaAuthoritiesKey, err == nil, time.Since(start))
	}
	if err != nil {
		return 0, err
	}

	info := bridgetypes.BridgeInfo{
		LastFinalizedBlockNumber: header.Number,
		LastFinalizedBlockHash:   header.Hash(),
		LastFinalizedStateRoot:   header.StateRoot,
		CurrentValidatorSet:      validatorSet,
		CurrentSetID:             0,
	}

	numBridges, err := r.NumBridges()
	if err != nil {
		return 0, err
	}
	newID := numBridges + 1

	if err := r.putInfo(newID, info); err != nil {
		return 0, err
	}
	if err := r.putNumBridges(newID); err != nil {
		return 0, err
	}
	return newID, nil
}

// SubmitFinalizedHeaders verifies justificationBytes finalizes header for
// bridgeID under the bridge's current authority set, then advances the
// bridge's last-finalized state (spec §4.G). If header.Digest decodes to a
// non-empty scheduled-change AuthoritySet, the bridge's current validator
// set and set_id are rotated atomically with the finalized-state update —
// the handoff the original leaves as a stub (spec §9).
func (r *Registry) SubmitFinalizedHeaders(bridgeID uint64, header bridgetypes.Header, justificationBytes []byte) error {
	info, ok, err := r.TrackedBridge(bridgeID)
	if err != nil {
		return err
	}
	if !ok {
		return bridgeerr.New(bridgeerr.CodeNotFound)
	}

	if header.Number <= info.LastFinalizedBlockNumber {
		return bridgeerr.Newf(bridgeerr.CodeInvalidArgument, "header number %d does not exceed last finalized %d", header.Number, info.LastFinalizedBlockNumber)
	}

	voters := justification.NewVoterSet(info.CurrentValidatorSet)
	target := justification.Target{Hash: header.Hash(), Number: header.Number}
	start := time.Now()
	just, err := justification.DecodeAndVerifyFinalizes(justificationBytes, target, info.CurrentSetID, voters)
	if r.logger != nil {
		r.logger.LogJustificationVerification(bridgeID, just.Round, info.CurrentSetID, err == nil, time.Since(start))
	}
	if err != nil {
		return err
	}

	info.LastFinalizedBlockNumber = header.Number
	info.LastFinalizedBlockHash = header.Hash()
	info.LastFinalizedStateRoot = header.StateRoot

	if newSet, changed := decodeScheduledChange(header.Digest); changed {
		info.CurrentValidatorSet = newSet
		info.CurrentSetID++
	}

	return r.putInfo(bridgeID, info)
}

// decodeScheduledChange interprets a header's digest as an optional
// scheduled authority-set change: an empty digest means no change, a
// non-empty one decodes as a canonical AuthoritySet (§9).
func decodeScheduledChange(digest []byte) (bridgetypes.AuthoritySet, bool) {
	if len(digest) == 0 {
		return nil, false
	}
	d := codec.NewDecoder(digest)
	set, err := bridgetypes.DecodeAuthoritySet(d)
	if err != nil || len(set) == 0 {
		return nil, false
	}
	return set, true
}
