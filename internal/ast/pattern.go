package ast

import (
	"fmt"
	"strings"
)

// PatternKind names the syntactic category an expression pattern captures.
type PatternKind uint8

const (
	PatternExpr PatternKind = iota
	PatternInfix
	PatternAtom
	PatternName
	PatternType
	PatternScope
	PatternConst
)

var patternKindNames = map[PatternKind]string{
	PatternExpr:  "Expr",
	PatternInfix: "Infix",
	PatternAtom:  "Atom",
	PatternName:  "Name",
	PatternType:  "Type",
	PatternScope: "Scope",
	PatternConst: "Const",
}

func (k PatternKind) String() string {
	return patternKindNames[k]
}

// ParsePatternKind maps the spelling used in macro definitions to a kind.
func ParsePatternKind(s string) (PatternKind, bool) {
	for k, name := range patternKindNames {
		if name == s {
			return k, true
		}
	}
	return PatternExpr, false
}

// Accepts reports whether a parsed node belongs to the category.
func (k PatternKind) Accepts(n Node) bool {
	if IsNil(n) {
		return false
	}
	switch k {
	case PatternInfix:
		_, ok := n.(*BinaryExpr)
		return ok
	case PatternAtom:
		switch n.(type) {
		case *NameExpr, *ConstantExpr, *TupleExpr, *ListExpr:
			return true
		}
		return false
	case PatternName:
		_, ok := n.(*NameExpr)
		return ok
	case PatternType:
		_, ok := n.(TypeName)
		return ok
	case PatternScope:
		_, ok := n.(*ScopeExpr)
		return ok
	case PatternConst:
		_, ok := n.(*ConstantExpr)
		return ok
	}
	return true
}

// Pattern is one element of a macro grammar.
type Pattern interface {
	fmt.Stringer
	pattern()
}

// TokenPattern matches one token by its text.
type TokenPattern struct {
	Value string
}

// ExprPattern captures a syntax node of the wanted kind.
type ExprPattern struct {
	Name string
	Want PatternKind
}

type OptionalPattern struct {
	Inner Pattern
}

// RepeatPattern matches its inner pattern zero or more times.
type RepeatPattern struct {
	Inner Pattern
}

type SequencePattern struct {
	Items []Pattern
}

type OrPattern struct {
	Alternatives []Pattern
}

func (TokenPattern) pattern()    {}
func (ExprPattern) pattern()     {}
func (OptionalPattern) pattern() {}
func (RepeatPattern) pattern()   {}
func (SequencePattern) pattern() {}
func (OrPattern) pattern()       {}

func (p TokenPattern) String() string {
	return fmt.Sprintf("'%s'", p.Value)
}

func (p ExprPattern) String() string {
	return fmt.Sprintf("%s: %s", p.Name, p.Want)
}

func (p OptionalPattern) String() string {
	return "[" + p.Inner.String() + "]"
}

func (p RepeatPattern) String() string {
	return "{" + p.Inner.String() + "}"
}

func (p SequencePattern) String() string {
	return "(" + joinPatterns(p.Items, ", ") + ")"
}

func (p OrPattern) String() string {
	return joinPatterns(p.Alternatives, " | ")
}

func joinPatterns(ps []Pattern, sep string) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, sep)
}
