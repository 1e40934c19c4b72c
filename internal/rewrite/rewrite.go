// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package rewrite desugars parsed trees in place. The walk is pre-order and
// offers every node to a fixed catalogue of rules before visiting its
// children.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.axion.dev/compiler.go/internal/ast"
)

// ErrInvariant marks failures caused by a tree that breaks the contract
// between the parser and the rewriter. A unit that hits it has no usable
// tree.
var ErrInvariant = errors.New("rewrite invariant violated")

func invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

type Option func(r *rewriter)

// WithEmptyTupleRule toggles the rewrite of the empty tuple type into the
// Unit type. It is on by default.
func WithEmptyTupleRule(enabled bool) Option {
	return func(r *rewriter) {
		r.emptyTuple = enabled
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *rewriter) {
		r.logger = logger
	}
}

// Cursor is the handle a rule gets on the node being visited. Replacing the
// node writes the replacement into the slot of the parent that held it.
type Cursor struct {
	Node ast.Node
	// Traversed is set once a rule has handled the node. Rules are not
	// offered a node again after that, only its children are visited.
	Traversed bool
	slot      ast.Slot
}

func (c *Cursor) Replace(n ast.Node) error {
	if c.slot == nil || !c.slot.Replace(c.Node, n) {
		return invariant("%T cannot be replaced by %T", c.Node, n)
	}
	c.Node = n
	c.Traversed = true
	return nil
}

type rewriter struct {
	ctx        context.Context
	emptyTuple bool
	logger     *slog.Logger
	rules      []rule
}

func newRewriter(opts ...Option) *rewriter {
	r := &rewriter{ctx: context.Background(), emptyTuple: true}
	for _, opt := range opts {
		opt(r)
	}
	r.rules = catalogue(r.emptyTuple)
	return r
}

// Rewrite applies the desugaring catalogue to the tree. Cancellation is
// checked between top level statements. The returned error wraps
// ErrInvariant when the tree could not be rewritten, or is the context error.
func Rewrite(ctx context.Context, tree *ast.Ast, opts ...Option) error {
	if tree == nil {
		return invariant("no tree")
	}
	r := newRewriter(opts...)
	r.ctx = ctx
	return r.visit(&Cursor{Node: tree})
}

func (r *rewriter) visit(c *Cursor) error {
	if err := r.apply(c); err != nil {
		return err
	}
	n := c.Node
	_, top := n.(*ast.Ast)
	for _, slot := range n.Slots() {
		if list, ok := slot.(ast.ListSlot); ok {
			if err := r.visitList(list, top); err != nil {
				return err
			}
			continue
		}
		for _, child := range slot.Nodes() {
			if err := r.visit(&Cursor{Node: child, slot: slot}); err != nil {
				return err
			}
		}
	}
	return nil
}

// visitList walks a snapshot of the sequence. Elements that rules insert
// while the snapshot is walked are picked up by another pass and elements
// that rules remove are skipped.
func (r *rewriter) visitList(list ast.ListSlot, top bool) error {
	seen := make(map[ast.Node]bool)
	for {
		var pending []ast.Node
		for _, n := range list.Nodes() {
			if !seen[n] {
				pending = append(pending, n)
			}
		}
		if len(pending) == 0 {
			return nil
		}
		for _, child := range pending {
			if top {
				if err := r.ctx.Err(); err != nil {
					return err
				}
			}
			seen[child] = true
			if list.IndexOf(child) < 0 {
				continue
			}
			c := &Cursor{Node: child, slot: list}
			if err := r.visit(c); err != nil {
				return err
			}
			seen[c.Node] = true
		}
	}
}

func (r *rewriter) apply(c *Cursor) error {
	for _, rule := range r.rules {
		if c.Traversed {
			return nil
		}
		before := c.Node
		if err := rule.apply(c); err != nil {
			return err
		}
		if c.Traversed && r.logger != nil {
			r.logger.Debug("rewrote", slog.String("rule", rule.name), slog.String("span", before.Span().String()))
		}
	}
	return nil
}
