package ast

import (
	"strconv"
	"strings"
)

// Scope is implemented by nodes that own a list of statements and can hand
// out names that are unique within the tree.
type Scope interface {
	Node
	Statements() ListSlot
	// UniqueName fills the {n} placeholder of template with the next value
	// of a per scope counter, skipping names already in use anywhere in the
	// tree.
	UniqueName(template string) string
}

var (
	_ Scope = (*Ast)(nil)
	_ Scope = (*ScopeExpr)(nil)
)

type scope struct {
	Items    []Node
	counters map[string]int
}

func (s *scope) unique(self Node, template string) string {
	if s.counters == nil {
		s.counters = make(map[string]int)
	}
	used := make(map[string]bool)
	Walk(Root(self), func(n Node) bool {
		if name, ok := n.(*NameExpr); ok {
			used[name.Name] = true
		}
		return true
	})
	for {
		x := s.counters[template]
		s.counters[template] = x + 1
		name := strings.ReplaceAll(template, "{n}", strconv.Itoa(x))
		if !used[name] {
			return name
		}
	}
}

// EnclosingScope returns the nearest scope above n together with the
// statement of that scope that contains n. Both are nil when n is not inside
// a scope.
func EnclosingScope(n Node) (Scope, Node) {
	stmt := n
	for p := n.Parent(); !IsNil(p); p = p.Parent() {
		if s, ok := p.(Scope); ok {
			return s, stmt
		}
		stmt = p
	}
	return nil, nil
}
