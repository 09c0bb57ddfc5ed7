// Package trieproof implements the storage-proof checker of spec §4.C: an
// in-memory Merkle-Patricia trie view built from a flat set of raw nodes,
// used to authenticate a key/value lookup against a known state root.
// Grounded on wyf-ACCEPT-eth2030/pkg/trie/proof.go's VerifyProof walk and
// proof_verifier.go's VerifyMPTProof result shape, adapted from
// RLP+Keccak256 to this module's own node encoding (pkg/trieproof/node.go)
// hashed with Blake2b-256 per spec §4.B.
package trieproof

import (
	"errors"

	"github.com/bridgecore/finality-bridge/pkg/cryptoadapter"
)

// ErrMalformedNodes is returned when the supplied nodes do not form a
// valid partial trie (construction failure, §4.C).
var ErrMalformedNodes = errors.New("trieproof: malformed proof nodes")

// ErrProofInsufficient is returned when the proof does not contain enough
// nodes to decide a lookup (§4.C: "a ProofError if the proof is
// insufficient to decide").
var ErrProofInsufficient = errors.New("trieproof: proof insufficient to decide key")

// ErrRootMismatch is returned when no supplied node hashes to the claimed
// state root, i.e. the proof does not belong to that root.
var ErrRootMismatch = errors.New("trieproof: no proof node matches the state root")

// Checker verifies key lookups against a fixed state root using a static
// set of trie nodes. It holds no mutable state beyond its constructor
// inputs: one Checker serves any number of ReadValue calls.
type Checker struct {
	stateRoot [cryptoadapter.HashSize]byte
	nodes     map[string][]byte
}

// New builds a Checker from a claimed state root and the raw trie nodes
// that make up the proof. Construction fails only if a node's hash
// collides — which would indicate a malformed, non-injective proof set.
// Whether the root node is present is checked by ReadValue, which
// returns ErrRootMismatch when it is not.
func New(stateRoot [cryptoadapter.HashSize]byte, nodes [][]byte) (*Checker, error) {
	index := make(map[string][]byte, len(nodes))
	for _, n := range nodes {
		h := cryptoadapter.Hash256(n)
		key := string(h[:])
		if existing, ok := index[key]; ok && string(existing) != string(n) {
			return nil, ErrMalformedNodes
		}
		index[key] = n
	}
	return &Checker{stateRoot: stateRoot, nodes: index}, nil
}

// ReadValue returns the value stored at key, nil if the proof establishes
// key's absence, ErrRootMismatch if no node hashes to the state root, or
// ErrProofInsufficient if the supplied nodes don't reach far enough to
// decide either way.
func (c *Checker) ReadValue(key []byte) ([]byte, error) {
	rootBytes, ok := c.nodes[string(c.stateRoot[:])]
	if !ok {
		return nil, ErrRootMismatch
	}
	return c.get(rootBytes, keybytesToHex(key), 0)
}

func (c *Checker) get(nodeBytes []byte, hexKey []byte, pos int) ([]byte, error) {
	if len(nodeBytes) == 0 {
		return nil, ErrMalformedNodes
	}
	kind := nodeBytes[0]
	body := nodeBytes[1:]

	switch kind {
	case kindShort:
		compactKey, rest, ok := readLP(body)
		if !ok {
			return nil, ErrMalformedNodes
		}
		valOrRef, _, ok := readLP(rest)
		if !ok {
			return nil, ErrMalformedNodes
		}
		hexNibbles := compactToHex(compactKey)
		matchLen := commonPrefixLen(hexNibbles, hexKey[pos:])
		if matchLen < len(hexNibbles) {
			return nil, nil // path diverges here: key proven absent
		}
		pos += len(hexNibbles)

		if hasTerm(hexNibbles) {
			return valOrRef, nil // leaf
		}

		// Extension node: valOrRef must be a 32-byte child hash.
		if len(valOrRef) != cryptoadapter.HashSize {
			return nil, ErrMalformedNodes
		}
		childBytes, ok := c.nodes[string(valOrRef)]
		if !ok {
			return nil, ErrProofInsufficient
		}
		return c.get(childBytes, hexKey, pos)

	case kindBranch:
		offset := 0
		var childRefs [16][]byte
		for i := 0; i < 16; i++ {
			ref, rest, ok := readLP(body[offset:])
			if !ok {
				return nil, ErrMalformedNodes
			}
			childRefs[i] = ref
			offset = len(body) - len(rest)
		}
		value, _, ok := readLP(body[offset:])
		if !ok {
			return nil, ErrMalformedNodes
		}

		if pos >= len(hexKey) {
			return nil, ErrMalformedNodes
		}
		nibble := hexKey[pos]
		if nibble == terminatorNibble {
			if len(value) == 0 {
				return nil, nil
			}
			return value, nil
		}

		ref := childRefs[nibble]
		if len(ref) == 0 {
			return nil, nil // no child at this nibble: key proven absent
		}
		if len(ref) != cryptoadapter.HashSize {
			return nil, ErrMalformedNodes
		}
		childBytes, ok := c.nodes[string(ref)]
		if !ok {
			return nil, ErrProofInsufficient
		}
		return c.get(childBytes, hexKey, pos+1)

	default:
		return nil, ErrMalformedNodes
	}
}
