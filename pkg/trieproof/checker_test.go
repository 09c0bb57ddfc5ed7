package trieproof

import (
	"bytes"
	"testing"
)

func TestCheckerReadValueSingleEntry(t *testing.T) {
	key := []byte(":grandpa_authorities")
	value := []byte("encoded-validator-set")

	root, nodes := BuildSingleEntryTrie(key, value)

	checker, err := New(root, nodes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := checker.ReadValue(key)
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if !bytes.Equal(got, value) {
		t.Fatalf("ReadValue = %q, want %q", got, value)
	}
}

func TestCheckerReadValueAbsentKey(t *testing.T) {
	root, nodes := BuildSingleEntryTrie([]byte("present-key"), []byte("value"))

	checker, err := New(root, nodes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := checker.ReadValue([]byte("absent-key"))
	if err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if got != nil {
		t.Fatalf("ReadValue = %q, want nil", got)
	}
}

func TestCheckerRootMismatchIsRejected(t *testing.T) {
	_, nodes := BuildSingleEntryTrie([]byte("key"), []byte("value"))

	var wrongRoot [32]byte
	wrongRoot[0] = 0xff

	checker, err := New(wrongRoot, nodes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := checker.ReadValue([]byte("key")); err != ErrRootMismatch {
		t.Fatalf("ReadValue error = %v, want ErrRootMismatch", err)
	}
}

func TestCheckerReadValueWalksExtensionAndBranchNodes(t *testing.T) {
	root, nodes, keyA, valA, keyB, valB, keyC, valC := BuildBranchTrie()

	checker, err := New(root, nodes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, tc := range []struct {
		key, want []byte
	}{
		{keyA, valA},
		{keyB, valB},
		{keyC, valC},
	} {
		got, err := checker.ReadValue(tc.key)
		if err != nil {
			t.Fatalf("ReadValue(%x): %v", tc.key, err)
		}
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("ReadValue(%x) = %q, want %q", tc.key, got, tc.want)
		}
	}

	got, err := checker.ReadValue([]byte{0x99})
	if err != nil {
		t.Fatalf("ReadValue(absent): %v", err)
	}
	if got != nil {
		t.Fatalf("ReadValue(absent) = %q, want nil", got)
	}
}

// TestCheckerAlteredExtensionNodeByteBreaksProof drives the §8 "alter a
// proof byte" law against a real multi-level trie: flipping a byte inside
// the extension node that sits between the root branch and keyA/keyB's
// inner branch must stop the checker from reaching keyA's value, since the
// altered node's hash no longer matches the reference the root branch
// holds for it.
func TestCheckerAlteredExtensionNodeByteBreaksProof(t *testing.T) {
	root, nodes, keyA, valA, _, _, _, _ := BuildBranchTrie()

	// nodes[3] is the extension node (see BuildBranchTrie's layout comment).
	altered := make([]byte, len(nodes[3]))
	copy(altered, nodes[3])
	altered[len(altered)-1] ^= 0xff

	tampered := append([][]byte{}, nodes...)
	tampered[3] = altered

	checker, err := New(root, tampered)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := checker.ReadValue(keyA)
	if err == nil && bytes.Equal(got, valA) {
		t.Fatalf("altering the extension node's proof byte must not yield the original value")
	}
}

func TestCheckerAlteredNodeByteBreaksProof(t *testing.T) {
	root, nodes := BuildSingleEntryTrie([]byte("key"), []byte("value"))

	altered := make([]byte, len(nodes[0]))
	copy(altered, nodes[0])
	altered[len(altered)-1] ^= 0xff

	checker, err := New(root, [][]byte{altered})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := checker.ReadValue([]byte("key"))
	if err == nil && bytes.Equal(got, []byte("value")) {
		t.Fatalf("altering proof byte must not yield the original value")
	}
}
