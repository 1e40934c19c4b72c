// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package ast defines the syntax tree produced by the parser and reshaped by
// the rewriter.
//
// Every node knows its span and keeps a back reference to its parent. The
// parent reference is only used for lookups, such as finding the scope that
// encloses a node; ownership flows strictly from parent to child through the
// named slots each node exposes.
package ast

import (
	"reflect"

	"gopkg.axion.dev/compiler.go/internal/source"
)

type Node interface {
	Span() source.Span
	Parent() Node
	// Slots lists the named child positions of the node in source order.
	Slots() []Slot
	Accept(v Visitor)
	meta() *node
}

type node struct {
	span   source.Span
	parent Node
}

func (n *node) Span() source.Span {
	return n.span
}

func (n *node) SetSpan(s source.Span) {
	n.span = s
}

func (n *node) Parent() Node {
	return n.parent
}

func (n *node) meta() *node {
	return n
}

// Slot is a named child position of a node.
type Slot interface {
	Name() string
	// Nodes returns the children currently held by the slot. The result is
	// a snapshot that stays valid while the slot is modified.
	Nodes() []Node
	// Replace swaps old for replacement. A nil replacement empties a single
	// slot or removes the element from a sequence slot. It reports false
	// when old is not held by the slot or the slot cannot hold replacement.
	Replace(old Node, replacement Node) bool
}

// ListSlot is a Slot that holds an ordered sequence of children.
type ListSlot interface {
	Slot
	IndexOf(n Node) int
	Insert(at int, nodes ...Node)
	Remove(n Node) bool
}

type one[T Node] struct {
	owner Node
	name  string
	ref   *T
}

func single[T Node](owner Node, name string, ref *T) Slot {
	return one[T]{owner: owner, name: name, ref: ref}
}

func (s one[T]) Name() string {
	return s.name
}

func (s one[T]) Nodes() []Node {
	var n Node = *s.ref
	if IsNil(n) {
		return nil
	}
	return []Node{n}
}

func (s one[T]) Replace(old Node, replacement Node) bool {
	var current Node = *s.ref
	if IsNil(current) || current != old {
		return false
	}
	if IsNil(replacement) {
		var zero T
		*s.ref = zero
	} else {
		v, ok := replacement.(T)
		if !ok {
			return false
		}
		*s.ref = v
		adopt(s.owner, replacement)
	}
	release(s.owner, old)
	return true
}

type many[T Node] struct {
	owner Node
	name  string
	ref   *[]T
}

func sequence[T Node](owner Node, name string, ref *[]T) ListSlot {
	return many[T]{owner: owner, name: name, ref: ref}
}

func (s many[T]) Name() string {
	return s.name
}

func (s many[T]) Nodes() []Node {
	out := make([]Node, 0, len(*s.ref))
	for _, n := range *s.ref {
		out = append(out, n)
	}
	return out
}

func (s many[T]) IndexOf(n Node) int {
	for x, item := range *s.ref {
		var v Node = item
		if v == n {
			return x
		}
	}
	return -1
}

func (s many[T]) Replace(old Node, replacement Node) bool {
	x := s.IndexOf(old)
	if x < 0 {
		return false
	}
	if IsNil(replacement) {
		*s.ref = append((*s.ref)[:x], (*s.ref)[x+1:]...)
	} else {
		v, ok := replacement.(T)
		if !ok {
			return false
		}
		(*s.ref)[x] = v
		adopt(s.owner, replacement)
	}
	release(s.owner, old)
	return true
}

func (s many[T]) Insert(at int, nodes ...Node) {
	if at < 0 {
		at = 0
	}
	if at > len(*s.ref) {
		at = len(*s.ref)
	}
	values := make([]T, 0, len(nodes))
	for _, n := range nodes {
		values = append(values, n.(T))
		adopt(s.owner, n)
	}
	out := make([]T, 0, len(*s.ref)+len(values))
	out = append(out, (*s.ref)[:at]...)
	out = append(out, values...)
	out = append(out, (*s.ref)[at:]...)
	*s.ref = out
}

func (s many[T]) Remove(n Node) bool {
	return s.Replace(n, nil)
}

func adopt(owner Node, child Node) {
	if IsNil(child) {
		return
	}
	child.meta().parent = owner
}

func release(owner Node, child Node) {
	if IsNil(child) {
		return
	}
	if m := child.meta(); m.parent == owner {
		m.parent = nil
	}
}

// IsNil reports whether n is absent, including typed nil pointers stored in
// an interface.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Link sets the parent reference of every node below n.
func Link(n Node) {
	if IsNil(n) {
		return
	}
	for _, slot := range n.Slots() {
		for _, child := range slot.Nodes() {
			child.meta().parent = n
			Link(child)
		}
	}
}

// Walk visits n and its descendants in pre-order. Returning false from f
// skips the children of the node just visited.
func Walk(n Node, f func(Node) bool) {
	if IsNil(n) {
		return
	}
	if !f(n) {
		return
	}
	for _, slot := range n.Slots() {
		for _, child := range slot.Nodes() {
			Walk(child, f)
		}
	}
}

// Root returns the topmost ancestor of n.
func Root(n Node) Node {
	for !IsNil(n) && !IsNil(n.Parent()) {
		n = n.Parent()
	}
	return n
}

// SlotOf finds the slot of parent that currently holds child.
func SlotOf(parent Node, child Node) Slot {
	if IsNil(parent) {
		return nil
	}
	for _, slot := range parent.Slots() {
		for _, n := range slot.Nodes() {
			if n == child {
				return slot
			}
		}
	}
	return nil
}

// SetSpan updates the source range of n.
func SetSpan(n Node, s source.Span) {
	if !IsNil(n) {
		n.meta().span = s
	}
}
