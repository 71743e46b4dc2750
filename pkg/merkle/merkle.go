// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package merkle batches recovery audit records (or any other byte-keyed
// payload) into a Merkle tree, so a fleet of devices can be verified
// against one root hash instead of one record at a time. Leaf hashing
// reuses pkg/kdf.Digest rather than a separate hash construction.
package merkle

import "github.com/mouhamed1296/isa-project/pkg/kdf"

// Leaf is one entry in a tree: an identifier (e.g. a device ID) and the
// payload being committed to (e.g. an encoded recovery audit record).
type Leaf struct {
	ID      string
	Payload []byte
	hash    [kdf.OutSize]byte
}

// NewLeaf builds a Leaf and computes its hash eagerly.
func NewLeaf(id string, payload []byte) Leaf {
	l := Leaf{ID: id, Payload: append([]byte(nil), payload...)}
	l.hash = leafHash(id, l.Payload)
	return l
}

// Domain-separation prefixes distinguishing a leaf hash from an internal
// node hash. Without them, a leaf whose payload happens to equal the
// concatenation of two node hashes would collide with the internal node
// built over those same two children.
const (
	leafPrefix     = 0x00
	internalPrefix = 0x01
)

func leafHash(id string, payload []byte) [kdf.OutSize]byte {
	buf := make([]byte, 0, 1+len(id)+len(payload))
	buf = append(buf, leafPrefix)
	buf = append(buf, id...)
	buf = append(buf, payload...)
	return kdf.Digest(buf)
}

func pairHash(left, right [kdf.OutSize]byte) [kdf.OutSize]byte {
	buf := make([]byte, 0, 1+2*kdf.OutSize)
	buf = append(buf, internalPrefix)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return kdf.Digest(buf)
}

// Hash returns the leaf's cached hash.
func (l Leaf) Hash() [kdf.OutSize]byte { return l.hash }

// Tree is a binary Merkle tree over a fixed set of leaves, built once at
// construction. Non-power-of-two leaf counts pad the bottom level by
// repeating the last leaf's hash, matching the usual Merkle batching
// convention.
type Tree struct {
	leaves []Leaf
	nodes  [][kdf.OutSize]byte // level-order, root at nodes[0]
	height int
}

// New builds a Tree from leaves. It panics if leaves is empty: an empty
// batch has no meaningful root.
func New(leaves []Leaf) *Tree {
	if len(leaves) == 0 {
		panic("merkle: cannot build a tree from zero leaves")
	}
	n := len(leaves)
	height := 0
	for (1 << height) < n {
		height++
	}
	nodeCount := (1 << (height + 1)) - 1
	nodes := make([][kdf.OutSize]byte, nodeCount)

	leafStart := (1 << height) - 1
	for i, l := range leaves {
		nodes[leafStart+i] = l.Hash()
	}
	for i := n; i < (1 << height); i++ {
		nodes[leafStart+i] = leaves[n-1].Hash()
	}

	for level := height - 1; level >= 0; level-- {
		levelStart := (1 << level) - 1
		childStart := (1 << (level + 1)) - 1
		for i := 0; i < (1 << level); i++ {
			left := nodes[childStart+2*i]
			right := nodes[childStart+2*i+1]
			nodes[levelStart+i] = pairHash(left, right)
		}
	}

	out := make([]Leaf, n)
	copy(out, leaves)
	return &Tree{leaves: out, nodes: nodes, height: height}
}

// Root returns the tree's root hash.
func (t *Tree) Root() [kdf.OutSize]byte { return t.nodes[0] }

// Len returns the number of leaves in the tree.
func (t *Tree) Len() int { return len(t.leaves) }

// Proof is a Merkle inclusion proof for one leaf.
type Proof struct {
	Leaf     Leaf
	Siblings [][kdf.OutSize]byte
	Index    int
}

// Prove builds an inclusion proof for the leaf at index. It returns false
// if index is out of range.
func (t *Tree) Prove(index int) (Proof, bool) {
	if index < 0 || index >= len(t.leaves) {
		return Proof{}, false
	}
	var siblings [][kdf.OutSize]byte
	current := index
	for level := t.height - 1; level >= 0; level-- {
		childStart := (1 << (level + 1)) - 1
		siblingIdx := current + 1
		if current%2 != 0 {
			siblingIdx = current - 1
		}
		siblings = append(siblings, t.nodes[childStart+siblingIdx])
		current /= 2
	}
	return Proof{Leaf: t.leaves[index], Siblings: siblings, Index: index}, true
}

// VerifyAll checks every leaf's proof against the tree's own root. It is
// primarily a construction-time self-check; callers that already trust
// the tree they built rarely need it.
func (t *Tree) VerifyAll() bool {
	root := t.Root()
	for i := range t.leaves {
		proof, ok := t.Prove(i)
		if !ok || !proof.Verify(root) {
			return false
		}
	}
	return true
}

// Verify reports whether p is a valid inclusion proof against root.
func (p Proof) Verify(root [kdf.OutSize]byte) bool {
	current := p.Leaf.Hash()
	idx := p.Index
	for _, sibling := range p.Siblings {
		if idx%2 == 0 {
			current = pairHash(current, sibling)
		} else {
			current = pairHash(sibling, current)
		}
		idx /= 2
	}
	return current == root
}

// BatchResult summarizes a batch verification across many proofs.
type BatchResult struct {
	Total, Valid, Invalid int
	FailedIDs             []string
}

// AllValid reports whether every proof in the batch verified.
func (r BatchResult) AllValid() bool { return r.Invalid == 0 }

// SuccessRate returns the fraction, as a percentage, of proofs that
// verified. It returns 0 for an empty batch.
func (r BatchResult) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Valid) / float64(r.Total) * 100
}

// VerifyBatch verifies every proof against root and summarizes the
// outcome.
func VerifyBatch(proofs []Proof, root [kdf.OutSize]byte) BatchResult {
	result := BatchResult{Total: len(proofs)}
	for _, p := range proofs {
		if p.Verify(root) {
			result.Valid++
		} else {
			result.Invalid++
			result.FailedIDs = append(result.FailedIDs, p.Leaf.ID)
		}
	}
	return result
}
