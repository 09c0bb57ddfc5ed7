// Package cryptoadapter wraps the two primitives the bridge needs from the
// remote chain's signature and hashing schemes: Ed25519 verification and
// Blake2b-256 hashing. Both are consumed as adapters per spec §1 — this
// module never generates signatures, only verifies them.
package cryptoadapter

import (
	"crypto/ed25519"

	"golang.org/x/crypto/blake2b"
)

// HashSize is the width of a header/node hash throughout the bridge.
const HashSize = 32

// Hash256 computes the Blake2b-256 digest of data, matching the remote
// chain's header and trie node hashing (grounded on
// wyf-ACCEPT-eth2030/pkg/trie's node hashing, adapted from Keccak to
// Blake2b per spec §4.B).
func Hash256(data []byte) [HashSize]byte {
	return blake2b.Sum256(data)
}

// VerifyEd25519 reports whether signature is a valid Ed25519 signature by
// pubKey over message. Malformed keys or signatures verify as false rather
// than panicking — callers treat verification failure as an ordinary
// rejection, not a programming error.
func VerifyEd25519(pubKey, message, signature []byte) bool {
	if len(pubKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pubKey), message, signature)
}
