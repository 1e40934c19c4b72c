// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package spec holds the static operator and symbol tables of the language.
// The tables are built once at package initialization and are never mutated
// afterwards, so they are safe to read from any number of goroutines.
package spec

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"gopkg.axion.dev/compiler.go/internal/token"
)

// Side describes where the operands of an operator appear.
type Side uint8

const (
	// SideLeft operators take one operand on their left (postfix).
	SideLeft Side = iota
	// SideRight operators take one operand on their right (prefix).
	SideRight
	// SideBoth operators are binary.
	SideBoth
	// SideSomeOne operators take one operand on either side.
	SideSomeOne
)

type Associativity uint8

const (
	LeftToRight Associativity = iota
	RightToLeft
)

// OperatorProperties describes one operator. Higher precedence binds tighter.
type OperatorProperties struct {
	Kind       token.Kind
	Value      string
	Side       Side
	Assoc      Associativity
	Precedence uint8
	// RightAssocUnary marks binary operators that may also appear as a
	// prefix operator, such as unary minus.
	RightAssocUnary bool
}

func (o OperatorProperties) IsBinary() bool {
	return o.Side == SideBoth
}

func (o OperatorProperties) IsPrefix() bool {
	return o.Side == SideRight || o.Side == SideSomeOne || o.RightAssocUnary
}

func (o OperatorProperties) IsPostfix() bool {
	return o.Side == SideLeft || o.Side == SideSomeOne
}

const (
	// AssignPrecedence is the binding strength of assignment symbols.
	AssignPrecedence uint8 = 1
	// UnaryPrecedence is the binding strength of prefix arithmetic
	// operators.
	UnaryPrecedence uint8 = 40
)

var operators = []OperatorProperties{
	{Kind: token.KindIncrement, Value: "++", Side: SideSomeOne, Precedence: 40},
	{Kind: token.KindDecrement, Value: "--", Side: SideSomeOne, Precedence: 40},
	{Kind: token.KindTilde, Value: "~", Side: SideRight, Precedence: 40},
	{Kind: token.KindPower, Value: "**", Side: SideBoth, Assoc: RightToLeft, Precedence: 35},
	{Kind: token.KindStar, Value: "*", Side: SideBoth, Precedence: 35},
	{Kind: token.KindSlash, Value: "/", Side: SideBoth, Precedence: 35},
	{Kind: token.KindFloorDiv, Value: "//", Side: SideBoth, Precedence: 35},
	{Kind: token.KindPercent, Value: "%", Side: SideBoth, Precedence: 35},
	{Kind: token.KindPlus, Value: "+", Side: SideBoth, Precedence: 30, RightAssocUnary: true},
	{Kind: token.KindMinus, Value: "-", Side: SideBoth, Precedence: 30, RightAssocUnary: true},
	{Kind: token.KindShiftLeft, Value: "<<", Side: SideBoth, Precedence: 25},
	{Kind: token.KindShiftRight, Value: ">>", Side: SideBoth, Precedence: 25},
	{Kind: token.KindLess, Value: "<", Side: SideBoth, Precedence: 20},
	{Kind: token.KindLessEqual, Value: "<=", Side: SideBoth, Precedence: 20},
	{Kind: token.KindGreater, Value: ">", Side: SideBoth, Precedence: 20},
	{Kind: token.KindGreaterEqual, Value: ">=", Side: SideBoth, Precedence: 20},
	{Kind: token.KindEqual, Value: "==", Side: SideBoth, Precedence: 15},
	{Kind: token.KindNotEqual, Value: "!=", Side: SideBoth, Precedence: 15},
	{Kind: token.KindIs, Value: "is", Side: SideBoth, Precedence: 15},
	{Kind: token.KindIsNot, Value: "is-not", Side: SideBoth, Precedence: 15},
	{Kind: token.KindIn, Value: "in", Side: SideBoth, Precedence: 15},
	{Kind: token.KindNotIn, Value: "not-in", Side: SideBoth, Precedence: 15},
	{Kind: token.KindAmpersand, Value: "&", Side: SideBoth, Precedence: 12},
	{Kind: token.KindCaret, Value: "^", Side: SideBoth, Precedence: 11},
	{Kind: token.KindPipe, Value: "|", Side: SideBoth, Precedence: 10},
	{Kind: token.KindAs, Value: "as", Side: SideBoth, Precedence: 8},
	{Kind: token.KindNot, Value: "not", Side: SideRight, Precedence: 7},
	{Kind: token.KindAnd, Value: "and", Side: SideBoth, Precedence: 6},
	{Kind: token.KindOr, Value: "or", Side: SideBoth, Precedence: 5},
	{Kind: token.KindRightPipe, Value: "|>", Side: SideBoth, Precedence: 2},
}

var assignments = []OperatorProperties{
	{Kind: token.KindAssign, Value: "="},
	{Kind: token.KindPlusAssign, Value: "+="},
	{Kind: token.KindMinusAssign, Value: "-="},
	{Kind: token.KindPowerAssign, Value: "**="},
	{Kind: token.KindStarAssign, Value: "*="},
	{Kind: token.KindSlashAssign, Value: "/="},
	{Kind: token.KindFloorDivAssign, Value: "//="},
	{Kind: token.KindPercentAssign, Value: "%="},
	{Kind: token.KindNilCoalesceAssign, Value: "?="},
	{Kind: token.KindShiftLeftAssign, Value: "<<="},
	{Kind: token.KindShiftRightAssign, Value: ">>="},
	{Kind: token.KindAmpersandAssign, Value: "&="},
	{Kind: token.KindPipeAssign, Value: "|="},
	{Kind: token.KindCaretAssign, Value: "^="},
}

var punctuation = map[string]token.Kind{
	".":  token.KindDot,
	"<|": token.KindLeftPipe,
	"=>": token.KindFatArrow,
	"->": token.KindArrow,
	"@":  token.KindAt,
	"?":  token.KindQuestion,
	"::": token.KindDoubleColon,
	"(":  token.KindParenOpen,
	")":  token.KindParenClose,
	"[":  token.KindBracketOpen,
	"]":  token.KindBracketClose,
	"{":  token.KindBraceOpen,
	"}":  token.KindBraceClose,
	",":  token.KindComma,
	":":  token.KindColon,
	";":  token.KindSemicolon,
}

var (
	byKind          = map[token.Kind]OperatorProperties{}
	wordOperators   = map[string]token.Kind{}
	symbolKinds     = map[string]token.Kind{}
	symbolicValues  []string
	symbolicStarts  = map[rune]bool{}
	neverExprStarts = map[token.Kind]bool{
		token.KindEOF:          true,
		token.KindNewline:      true,
		token.KindIndent:       true,
		token.KindOutdent:      true,
		token.KindParenClose:   true,
		token.KindBracketClose: true,
		token.KindBraceClose:   true,
		token.KindComma:        true,
		token.KindColon:        true,
		token.KindSemicolon:    true,
		token.KindDot:          true,
		token.KindArrow:        true,
		token.KindFatArrow:     true,
		token.KindElif:         true,
		token.KindElse:         true,
		token.KindNoBreak:      true,
	}
)

func init() {
	for _, op := range operators {
		byKind[op.Kind] = op
		if isWord(op.Value) {
			wordOperators[op.Value] = op.Kind
		} else {
			symbolKinds[op.Value] = op.Kind
		}
		if !op.IsPrefix() {
			neverExprStarts[op.Kind] = true
		}
	}
	for _, op := range assignments {
		op.Side = SideBoth
		op.Assoc = RightToLeft
		op.Precedence = AssignPrecedence
		byKind[op.Kind] = op
		symbolKinds[op.Value] = op.Kind
		neverExprStarts[op.Kind] = true
	}
	for v, k := range punctuation {
		symbolKinds[v] = k
	}
	for v := range symbolKinds {
		symbolicValues = append(symbolicValues, v)
		symbolicStarts[[]rune(v)[0]] = true
	}
	sort.Slice(symbolicValues, func(i, j int) bool {
		if len(symbolicValues[i]) != len(symbolicValues[j]) {
			return len(symbolicValues[i]) > len(symbolicValues[j])
		}
		return symbolicValues[i] < symbolicValues[j]
	})
}

// isWord reports operators spelled like identifiers. They start with a
// letter and may contain hyphens after it, as in is-not.
func isWord(v string) bool {
	first, _ := utf8.DecodeRuneInString(v)
	if !unicode.IsLetter(first) {
		return false
	}
	for _, r := range v {
		if !unicode.IsLetter(r) && r != '-' {
			return false
		}
	}
	return true
}

// Operator returns the properties of an operator or assignment kind.
func Operator(k token.Kind) (OperatorProperties, bool) {
	op, ok := byKind[k]
	return op, ok
}

// Binary returns the properties of a kind when it can join two operands,
// including assignment symbols.
func Binary(k token.Kind) (OperatorProperties, bool) {
	op, ok := byKind[k]
	if !ok || !op.IsBinary() {
		return OperatorProperties{}, false
	}
	return op, true
}

// Prefix returns the properties of a kind when it can start a unary
// expression.
func Prefix(k token.Kind) (OperatorProperties, bool) {
	op, ok := byKind[k]
	if !ok || !op.IsPrefix() {
		return OperatorProperties{}, false
	}
	if op.RightAssocUnary {
		op.Precedence = UnaryPrecedence
	}
	return op, true
}

func IsAssignment(k token.Kind) bool {
	op, ok := byKind[k]
	return ok && op.Precedence == AssignPrecedence
}

// WordOperator looks up operators spelled as words, such as and or is-not.
func WordOperator(word string) (token.Kind, bool) {
	k, ok := wordOperators[word]
	return k, ok
}

// Symbol returns the kind of an exact symbolic lexeme.
func Symbol(value string) (token.Kind, bool) {
	k, ok := symbolKinds[value]
	return k, ok
}

// SymbolicValues returns every symbolic lexeme ordered longest first. The
// returned slice is shared and must not be modified.
func SymbolicValues() []string {
	return symbolicValues
}

// IsSymbolicStart reports whether r begins at least one symbolic lexeme.
func IsSymbolicStart(r rune) bool {
	return symbolicStarts[r]
}

// LongestSymbol returns the longest symbolic lexeme that prefixes text.
func LongestSymbol(hasPrefix func(string) bool) (string, token.Kind, bool) {
	for _, v := range symbolicValues {
		if hasPrefix(v) {
			return v, symbolKinds[v], true
		}
	}
	return "", token.KindUnknown, false
}

// NeverStartsExpression reports kinds that can never begin an expression.
func NeverStartsExpression(k token.Kind) bool {
	return neverExprStarts[k]
}

// BracketFamily groups bracket kinds. Open and close brackets of the same
// family share the value.
type BracketFamily uint8

const (
	NotBracket BracketFamily = iota
	Parenthesis
	Bracket
	Brace
)

// BracketOf reports the family of a bracket kind and whether it opens.
func BracketOf(k token.Kind) (BracketFamily, bool) {
	switch k {
	case token.KindParenOpen:
		return Parenthesis, true
	case token.KindParenClose:
		return Parenthesis, false
	case token.KindBracketOpen:
		return Bracket, true
	case token.KindBracketClose:
		return Bracket, false
	case token.KindBraceOpen:
		return Brace, true
	case token.KindBraceClose:
		return Brace, false
	}
	return NotBracket, false
}
