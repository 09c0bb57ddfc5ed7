// Package headerchain implements spec §4.F: verifying that an explicit,
// caller-supplied header sequence links a child block down to a claimed
// ancestor. Grounded on verify_ancestry in
// _examples/original_source/srml/bridge/src/lib.rs.
package headerchain

import (
	"errors"

	"github.com/bridgecore/finality-bridge/pkg/bridgetypes"
)

// ErrAncestorNotFound is returned whenever the proof sequence fails to
// link child to ancestor, for any of the reasons listed in spec §4.F.
var ErrAncestorNotFound = errors.New("headerchain: proof does not link child to ancestor")

// VerifyAncestry checks that proof, given in descending order starting
// with child, walks down to ancestor via parent-hash links. It returns nil
// on success and ErrAncestorNotFound on any structural mismatch, including
// an empty proof or a proof that never reaches ancestor.
func VerifyAncestry(proof []bridgetypes.Header, ancestor, child bridgetypes.Header) error {
	if len(proof) == 0 {
		return ErrAncestorNotFound
	}
	if proof[0].Hash() != child.Hash() {
		return ErrAncestorNotFound
	}

	ancestorHash := ancestor.Hash()
	parentHash := proof[0].ParentHash
	if parentHash == ancestorHash {
		return nil
	}

	for i := 1; i < len(proof); i++ {
		if proof[i].Hash() != parentHash {
			return ErrAncestorNotFound
		}
		parentHash = proof[i].ParentHash
		if parentHash == ancestorHash {
			return nil
		}
	}
	return ErrAncestorNotFound
}
