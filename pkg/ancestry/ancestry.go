// Package ancestry implements the chain-oracle capability the
// finality-gadget's commit-validation algorithm needs: an index of headers
// by hash, and a walk over parent pointers proving descent (spec §4.D).
// Grounded on the original's AncestryChain in
// _examples/original_source/srml/bridge/src/justification.rs.
package ancestry

import (
	"errors"

	"github.com/bridgecore/finality-bridge/pkg/bridgetypes"
)

// ErrNotDescendent is returned when block cannot be shown to descend from
// base by walking the supplied header index.
var ErrNotDescendent = errors.New("ancestry: block is not a descendent of base")

// Chain indexes a flat set of headers by hash and answers descent queries
// over them. It owns no storage beyond the headers passed to New: a chain
// oracle is built fresh for the lifetime of one justification-verification
// call (spec §9, "no cycles; the verifier owns the index for the lifetime
// of one call").
type Chain struct {
	byHash map[string]bridgetypes.Header
}

// New indexes headers by their canonical hash. Duplicate headers (same
// hash) overwrite one another harmlessly since they encode identically.
func New(headers []bridgetypes.Header) *Chain {
	index := make(map[string]bridgetypes.Header, len(headers))
	for _, h := range headers {
		index[h.Hash().String()] = h
	}
	return &Chain{byHash: index}
}

// Ancestry walks parent pointers starting from block, collecting every
// intermediate hash, until it reaches base. The original
// (AncestryChain::ancestry in justification.rs) builds the route by
// walking from block back to base and only then pops base off before
// returning — that two-step shape (walk-then-trim) is preserved here
// rather than special-casing the loop to stop one step early.
func (c *Chain) Ancestry(base, block bridgetypes.Hash) ([]bridgetypes.Hash, error) {
	var route []bridgetypes.Hash
	current := block
	for current != base {
		header, ok := c.byHash[current.String()]
		if !ok {
			return nil, ErrNotDescendent
		}
		current = header.ParentHash
		route = append(route, current)
	}
	// Drop base, which the final iteration pushed onto the route.
	if len(route) > 0 {
		route = route[:len(route)-1]
	}
	return route, nil
}

// BestChainContaining intentionally always returns false: this index is a
// verifier, not a chain oracle capable of picking a canonical best chain
// (spec §4.D).
func (c *Chain) BestChainContaining(block bridgetypes.Hash) (bridgetypes.Hash, bool) {
	return bridgetypes.Hash{}, false
}
