// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package profile

import (
	"math/big"

	"github.com/mouhamed1296/isa-project/pkg/ring"
)

// Node is one entry in an optional dimension hierarchy: an axis, its
// parent (if any), and the children that aggregate into it. A hierarchy is
// purely a reporting convenience; nothing in pkg/integrity or pkg/policy
// requires or consumes one.
type Node struct {
	Index    int
	Name     string
	Parent   *int
	Children []int
	Weight   float64
}

// Hierarchy is an optional parent-child organization of axis indices,
// used only to aggregate divergence for reporting.
type Hierarchy struct {
	nodes map[int]*Node
}

// NewHierarchy returns an empty hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{nodes: make(map[int]*Node)}
}

// AddNode registers node in the hierarchy. If node has a parent, the
// parent's Children list is updated to include it.
func (h *Hierarchy) AddNode(node Node) {
	cp := node
	cp.Children = append([]int(nil), node.Children...)
	h.nodes[node.Index] = &cp
	if node.Parent != nil {
		if parent, ok := h.nodes[*node.Parent]; ok {
			if !containsInt(parent.Children, node.Index) {
				parent.Children = append(parent.Children, node.Index)
			}
		}
	}
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Node returns the node at index, if registered.
func (h *Hierarchy) Node(index int) (Node, bool) {
	n, ok := h.nodes[index]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Roots returns every node with no parent.
func (h *Hierarchy) Roots() []Node {
	var out []Node
	for _, n := range h.nodes {
		if n.Parent == nil {
			out = append(out, *n)
		}
	}
	return out
}

// Children returns the direct children of the node at index.
func (h *Hierarchy) Children(index int) []Node {
	n, ok := h.nodes[index]
	if !ok {
		return nil
	}
	out := make([]Node, 0, len(n.Children))
	for _, c := range n.Children {
		if child, ok := h.nodes[c]; ok {
			out = append(out, *child)
		}
	}
	return out
}

// PathToRoot returns the sequence of indices from index up to (and
// including) its root ancestor.
func (h *Hierarchy) PathToRoot(index int) []int {
	path := []int{index}
	current := index
	for {
		n, ok := h.nodes[current]
		if !ok || n.Parent == nil {
			break
		}
		path = append(path, *n.Parent)
		current = *n.Parent
	}
	return path
}

// Depth returns the number of edges from index to its root ancestor.
func (h *Hierarchy) Depth(index int) int {
	return len(h.PathToRoot(index)) - 1
}

// AggregateDivergence computes the weighted average, over parentIndex's
// direct children, of their entries in divergences (indexed by axis).
// Divergences are treated as unsigned 256-bit magnitudes. It returns
// (zero, false) if parentIndex has no children or none of them appear in
// divergences.
func (h *Hierarchy) AggregateDivergence(parentIndex int, divergences []ring.Element) (ring.Element, bool) {
	children := h.Children(parentIndex)
	if len(children) == 0 {
		return ring.Zero, false
	}

	weightedSum := new(big.Float)
	totalWeight := 0.0
	for _, child := range children {
		if child.Index < 0 || child.Index >= len(divergences) {
			continue
		}
		mag := new(big.Float).SetInt(toBig(divergences[child.Index]))
		mag.Mul(mag, big.NewFloat(child.Weight))
		weightedSum.Add(weightedSum, mag)
		totalWeight += child.Weight
	}
	if totalWeight == 0 {
		return ring.Zero, false
	}
	weightedSum.Quo(weightedSum, big.NewFloat(totalWeight))

	avg, _ := weightedSum.Int(nil)
	return fromBig(avg), true
}

func toBig(e ring.Element) *big.Int {
	b := e.Bytes()
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

func fromBig(v *big.Int) ring.Element {
	be := v.Bytes()
	var e ring.Element
	for i := 0; i < len(be) && i < ring.Size; i++ {
		e[i] = be[len(be)-1-i]
	}
	return e
}
