package ast

import (
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/spec"
	"gopkg.axion.dev/compiler.go/internal/token"
)

// Ast is the root of a unit's tree.
type Ast struct {
	node
	scope
	Path string
}

func NewAst(path string, span source.Span) *Ast {
	return &Ast{node: node{span: span}, Path: path}
}

func (n *Ast) Slots() []Slot {
	return []Slot{n.Statements()}
}

func (n *Ast) Statements() ListSlot {
	return sequence(Node(n), "items", &n.Items)
}

func (n *Ast) UniqueName(template string) string {
	return n.scope.unique(n, template)
}

// ScopeExpr is an indented block of statements.
type ScopeExpr struct {
	node
	scope
}

func NewScope(span source.Span, items ...Node) *ScopeExpr {
	s := &ScopeExpr{node: node{span: span}}
	s.Items = items
	for _, item := range items {
		adopt(s, item)
	}
	return s
}

func (n *ScopeExpr) Slots() []Slot {
	return []Slot{n.Statements()}
}

func (n *ScopeExpr) Statements() ListSlot {
	return sequence(Node(n), "items", &n.Items)
}

func (n *ScopeExpr) UniqueName(template string) string {
	return n.scope.unique(n, template)
}

type NameExpr struct {
	node
	Name string
}

func NewName(span source.Span, name string) *NameExpr {
	return &NameExpr{node: node{span: span}, Name: name}
}

func (n *NameExpr) Slots() []Slot {
	return nil
}

// ConstantExpr is a literal value. The token keeps the literal exactly as it
// was written.
type ConstantExpr struct {
	node
	Token *token.Token
}

func NewConstant(t *token.Token) *ConstantExpr {
	return &ConstantExpr{node: node{span: t.Span}, Token: t}
}

func (n *ConstantExpr) Slots() []Slot {
	return nil
}

type TupleExpr struct {
	node
	Items []Node
}

func (n *TupleExpr) Slots() []Slot {
	return []Slot{sequence(Node(n), "items", &n.Items)}
}

type ListExpr struct {
	node
	Items []Node
}

func (n *ListExpr) Slots() []Slot {
	return []Slot{sequence(Node(n), "items", &n.Items)}
}

// EmptyExpr is the pass statement.
type EmptyExpr struct {
	node
}

func (n *EmptyExpr) Slots() []Slot {
	return nil
}

type VarDef struct {
	node
	Name  *NameExpr
	Type  TypeName
	Value Node
}

func (n *VarDef) Slots() []Slot {
	return []Slot{
		single(Node(n), "name", &n.Name),
		single(Node(n), "type", &n.Type),
		single(Node(n), "value", &n.Value),
	}
}

type FuncDef struct {
	node
	Name    *NameExpr
	Params  []*FuncParam
	Returns TypeName
	Body    *ScopeExpr
}

func (n *FuncDef) Slots() []Slot {
	return []Slot{
		single(Node(n), "name", &n.Name),
		sequence(Node(n), "params", &n.Params),
		single(Node(n), "returns", &n.Returns),
		single(Node(n), "body", &n.Body),
	}
}

type FuncParam struct {
	node
	Name    *NameExpr
	Type    TypeName
	Default Node
}

func (n *FuncParam) Slots() []Slot {
	return []Slot{
		single(Node(n), "name", &n.Name),
		single(Node(n), "type", &n.Type),
		single(Node(n), "default", &n.Default),
	}
}

// ClassDef is a class. DataMembers holds the fields declared in the class
// header, which the rewriter moves into the body.
type ClassDef struct {
	node
	Name        *NameExpr
	DataMembers []*VarDef
	Bases       []TypeName
	Body        *ScopeExpr
}

func (n *ClassDef) Slots() []Slot {
	return []Slot{
		single(Node(n), "name", &n.Name),
		n.Members(),
		sequence(Node(n), "bases", &n.Bases),
		single(Node(n), "body", &n.Body),
	}
}

func (n *ClassDef) Members() ListSlot {
	return sequence(Node(n), "members", &n.DataMembers)
}

// MacroDef declares a syntax extension. The pattern is data and has no child
// nodes.
type MacroDef struct {
	node
	Name    string
	Pattern Pattern
}

func (n *MacroDef) Slots() []Slot {
	return nil
}

type BinaryExpr struct {
	node
	Left  Node
	Op    *token.Token
	Right Node
}

// NewBinary builds a binary expression for an operator kind, synthesizing
// the operator token when the node does not come from source.
func NewBinary(left Node, kind token.Kind, right Node) *BinaryExpr {
	n := &BinaryExpr{Left: left, Op: synthetic(kind), Right: right}
	n.span = spanOf(left, right)
	adopt(n, left)
	adopt(n, right)
	return n
}

func (n *BinaryExpr) Slots() []Slot {
	return []Slot{
		single(Node(n), "left", &n.Left),
		single(Node(n), "right", &n.Right),
	}
}

func (n *BinaryExpr) Is(kind token.Kind) bool {
	return n.Op != nil && n.Op.Kind == kind
}

type UnaryExpr struct {
	node
	Op      *token.Token
	Operand Node
	Postfix bool
}

func NewUnary(kind token.Kind, operand Node) *UnaryExpr {
	n := &UnaryExpr{Op: synthetic(kind), Operand: operand}
	n.span = spanOf(operand)
	adopt(n, operand)
	return n
}

func (n *UnaryExpr) Slots() []Slot {
	return []Slot{single(Node(n), "operand", &n.Operand)}
}

func (n *UnaryExpr) Is(kind token.Kind) bool {
	return n.Op != nil && n.Op.Kind == kind
}

type FuncCallExpr struct {
	node
	Target Node
	Args   []*FuncCallArg
}

func (n *FuncCallExpr) Slots() []Slot {
	return []Slot{
		single(Node(n), "target", &n.Target),
		n.Arguments(),
	}
}

func (n *FuncCallExpr) Arguments() ListSlot {
	return sequence(Node(n), "args", &n.Args)
}

// FuncCallArg is one argument of a call. Name is set for keyword arguments.
type FuncCallArg struct {
	node
	Name  *NameExpr
	Value Node
}

func NewArg(value Node) *FuncCallArg {
	n := &FuncCallArg{Value: value}
	n.span = spanOf(value)
	adopt(n, value)
	return n
}

func (n *FuncCallArg) Slots() []Slot {
	return []Slot{
		single(Node(n), "name", &n.Name),
		single(Node(n), "value", &n.Value),
	}
}

// IndexerExpr is a subscript. Index holds a single expression, a SliceExpr,
// or a TupleExpr when more than one index is given.
type IndexerExpr struct {
	node
	Target Node
	Index  Node
}

func (n *IndexerExpr) Slots() []Slot {
	return []Slot{
		single(Node(n), "target", &n.Target),
		single(Node(n), "index", &n.Index),
	}
}

type SliceExpr struct {
	node
	From Node
	To   Node
	Step Node
}

func (n *SliceExpr) Slots() []Slot {
	return []Slot{
		single(Node(n), "from", &n.From),
		single(Node(n), "to", &n.To),
		single(Node(n), "step", &n.Step),
	}
}

type MemberAccessExpr struct {
	node
	Target Node
	Member *NameExpr
}

func NewMemberAccess(target Node, member string) *MemberAccessExpr {
	n := &MemberAccessExpr{Target: target, Member: NewName(target.Span(), member)}
	n.span = target.Span()
	adopt(n, target)
	adopt(n, n.Member)
	return n
}

func (n *MemberAccessExpr) Slots() []Slot {
	return []Slot{
		single(Node(n), "target", &n.Target),
		single(Node(n), "member", &n.Member),
	}
}

// IfExpr is a conditional. Else holds a ScopeExpr, or another IfExpr for an
// elif chain.
type IfExpr struct {
	node
	Cond Node
	Then *ScopeExpr
	Else Node
}

func (n *IfExpr) Slots() []Slot {
	return []Slot{
		single(Node(n), "cond", &n.Cond),
		single(Node(n), "then", &n.Then),
		single(Node(n), "else", &n.Else),
	}
}

type WhileExpr struct {
	node
	Cond    Node
	Body    *ScopeExpr
	NoBreak *ScopeExpr
}

func (n *WhileExpr) Slots() []Slot {
	return []Slot{
		single(Node(n), "cond", &n.Cond),
		single(Node(n), "body", &n.Body),
		single(Node(n), "nobreak", &n.NoBreak),
	}
}

type ForExpr struct {
	node
	Target   Node
	Iterable Node
	Body     *ScopeExpr
}

func (n *ForExpr) Slots() []Slot {
	return []Slot{
		single(Node(n), "target", &n.Target),
		single(Node(n), "iterable", &n.Iterable),
		single(Node(n), "body", &n.Body),
	}
}

// ComprehensionExpr builds a sequence from Target, evaluated once for every
// combination of its clauses. List marks the bracketed form; the
// parenthesized form yields a lazy sequence.
type ComprehensionExpr struct {
	node
	Target  Node
	Clauses []*ComprehensionClause
	List    bool
}

func (n *ComprehensionExpr) Slots() []Slot {
	return []Slot{
		single(Node(n), "target", &n.Target),
		sequence(Node(n), "clauses", &n.Clauses),
	}
}

// ComprehensionClause is one for part of a comprehension. Cond, when set,
// filters the items it draws.
type ComprehensionClause struct {
	node
	Item     Node
	Iterable Node
	Cond     Node
}

func (n *ComprehensionClause) Slots() []Slot {
	return []Slot{
		single(Node(n), "item", &n.Item),
		single(Node(n), "iterable", &n.Iterable),
		single(Node(n), "cond", &n.Cond),
	}
}

type AssertExpr struct {
	node
	Cond    Node
	Message Node
}

func (n *AssertExpr) Slots() []Slot {
	return []Slot{
		single(Node(n), "cond", &n.Cond),
		single(Node(n), "message", &n.Message),
	}
}

type BreakExpr struct {
	node
}

func (n *BreakExpr) Slots() []Slot {
	return nil
}

type ContinueExpr struct {
	node
}

func (n *ContinueExpr) Slots() []Slot {
	return nil
}

type ReturnExpr struct {
	node
	Value Node
}

func (n *ReturnExpr) Slots() []Slot {
	return []Slot{single(Node(n), "value", &n.Value)}
}

// MacroApplicationExpr is a use of a macro. Parts holds the captured
// expressions in match order. Layout records the matched shape for printing:
// each entry is either a literal token or the empty string standing for the
// next captured part.
type MacroApplicationExpr struct {
	node
	Macro  *MacroDef
	Parts  []Node
	Layout []string
}

func (n *MacroApplicationExpr) Slots() []Slot {
	return []Slot{sequence(Node(n), "parts", &n.Parts)}
}

// TypeName is implemented by the nodes that spell types.
type TypeName interface {
	Node
	typeName()
}

type SimpleTypeName struct {
	node
	Name string
}

func NewSimpleType(span source.Span, name string) *SimpleTypeName {
	return &SimpleTypeName{node: node{span: span}, Name: name}
}

func (n *SimpleTypeName) Slots() []Slot {
	return nil
}

func (n *SimpleTypeName) typeName() {}

type GenericTypeName struct {
	node
	Target TypeName
	Args   []TypeName
}

func (n *GenericTypeName) Slots() []Slot {
	return []Slot{
		single(Node(n), "target", &n.Target),
		sequence(Node(n), "args", &n.Args),
	}
}

func (n *GenericTypeName) typeName() {}

type UnionTypeName struct {
	node
	Left  TypeName
	Right TypeName
}

func (n *UnionTypeName) Slots() []Slot {
	return []Slot{
		single(Node(n), "left", &n.Left),
		single(Node(n), "right", &n.Right),
	}
}

func (n *UnionTypeName) typeName() {}

type TupleTypeName struct {
	node
	Types []TypeName
}

func (n *TupleTypeName) Slots() []Slot {
	return []Slot{sequence(Node(n), "types", &n.Types)}
}

func (n *TupleTypeName) typeName() {}

func synthetic(kind token.Kind) *token.Token {
	value := kind.String()
	if op, ok := spec.Operator(kind); ok {
		value = op.Value
	}
	return token.New(kind, value, source.Span{})
}

func spanOf(nodes ...Node) source.Span {
	var out source.Span
	first := true
	for _, n := range nodes {
		if IsNil(n) {
			continue
		}
		if first {
			out = n.Span()
			first = false
			continue
		}
		out = out.Join(n.Span())
	}
	return out
}
