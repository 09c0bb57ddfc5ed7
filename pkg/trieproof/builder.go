package trieproof

import "github.com/bridgecore/finality-bridge/pkg/cryptoadapter"

// BuildSingleEntryTrie constructs the smallest possible valid trie holding
// exactly one key/value pair: a single leaf node whose key path is the
// full key. It returns the state root and the one-node proof set, enough
// to satisfy Checker.New/ReadValue for that key. Used by bridge-state-
// machine fixtures (§8 scenario 2: the well-known ":grandpa_authorities"
// key) and by tests across this module.
func BuildSingleEntryTrie(key, value []byte) (root [cryptoadapter.HashSize]byte, nodes [][]byte) {
	hexKey := keybytesToHex(key)
	leaf := EncodeLeaf(hexKey[:len(hexKey)-1], value)
	root = cryptoadapter.Hash256(leaf)
	return root, [][]byte{leaf}
}

// BuildBranchTrie constructs a three-entry trie whose root is a branch node,
// deep enough to exercise every node kind Checker.get switches on: a
// root-level kindBranch, a kindShort extension node for the two keys that
// share a nibble beyond the root, and an inner kindBranch that finally
// splits them into their own leaves. Returns the root hash, the full proof
// node set, and the three (key, value) pairs it encodes.
//
// Key layout (by nibble):
//
//	keyA = 0x1234 -> [1,2,3,4,T]
//	keyB = 0x1256 -> [1,2,5,6,T]
//	keyC = 0x78   -> [7,8,T]
//
// Root branches on nibble 0 (1 vs 7). Slot 1 leads through an extension
// node over shared nibble 2, into an inner branch on nibble 3 (3 vs 5)
// that holds keyA's and keyB's leaves. Slot 7 leads directly to keyC's
// leaf.
func BuildBranchTrie() (root [cryptoadapter.HashSize]byte, nodes [][]byte, keyA, valA, keyB, valB, keyC, valC []byte) {
	keyA = []byte{0x12, 0x34}
	keyB = []byte{0x12, 0x56}
	keyC = []byte{0x78}
	valA = []byte("value-a")
	valB = []byte("value-b")
	valC = []byte("value-c")

	leafA := EncodeLeaf([]byte{4}, valA)
	leafB := EncodeLeaf([]byte{6}, valB)
	leafC := EncodeLeaf([]byte{8}, valC)
	hashA := cryptoadapter.Hash256(leafA)
	hashB := cryptoadapter.Hash256(leafB)
	hashC := cryptoadapter.Hash256(leafC)

	var innerChildren [16][]byte
	innerChildren[3] = hashA[:]
	innerChildren[5] = hashB[:]
	innerBranch := EncodeBranch(innerChildren, nil)
	hashInner := cryptoadapter.Hash256(innerBranch)

	extension := EncodeExtension([]byte{2}, hashInner[:])
	hashExtension := cryptoadapter.Hash256(extension)

	var rootChildren [16][]byte
	rootChildren[1] = hashExtension[:]
	rootChildren[7] = hashC[:]
	rootBranch := EncodeBranch(rootChildren, nil)
	root = cryptoadapter.Hash256(rootBranch)

	nodes = [][]byte{leafA, leafB, innerBranch, extension, leafC, rootBranch}
	return root, nodes, keyA, valA, keyB, valB, keyC, valC
}
