package ast

import (
	"strings"

	"gopkg.axion.dev/compiler.go/internal/spec"
	"gopkg.axion.dev/compiler.go/internal/token"
)

const postfixPrecedence = 50

// Print renders a tree, or any part of one, as Axion source.
func Print(n Node) string {
	if IsNil(n) {
		return ""
	}
	p := &printer{}
	if _, ok := n.(*Ast); ok {
		n.Accept(p)
	} else {
		p.expr(n, 0)
	}
	return p.b.String()
}

type printer struct {
	b       strings.Builder
	depth   int
	prec    uint8
	newline bool
}

var _ Visitor = (*printer)(nil)

func (p *printer) write(parts ...string) {
	for _, s := range parts {
		if s == "" {
			continue
		}
		p.b.WriteString(s)
		p.newline = strings.HasSuffix(s, "\n")
	}
}

func (p *printer) expr(n Node, min uint8) {
	if IsNil(n) {
		return
	}
	saved := p.prec
	p.prec = min
	n.Accept(p)
	p.prec = saved
}

func (p *printer) stmt(n Node) {
	p.write(strings.Repeat("    ", p.depth))
	p.expr(n, 0)
	if !p.newline {
		p.write("\n")
	}
}

func (p *printer) block(s *ScopeExpr) {
	p.write(":\n")
	p.depth = p.depth + 1
	if s == nil || len(s.Items) == 0 {
		p.write(strings.Repeat("    ", p.depth), "pass\n")
	} else {
		for _, item := range s.Items {
			p.stmt(item)
		}
	}
	p.depth = p.depth - 1
}

func (p *printer) list(nodes []Node, min uint8) {
	for x, n := range nodes {
		if x > 0 {
			p.write(", ")
		}
		p.expr(n, min)
	}
}

func (p *printer) VisitAst(n *Ast) {
	for _, item := range n.Items {
		p.stmt(item)
	}
}

func (p *printer) VisitScopeExpr(n *ScopeExpr) {
	p.block(n)
}

func (p *printer) VisitNameExpr(n *NameExpr) {
	p.write(n.Name)
}

func (p *printer) VisitConstantExpr(n *ConstantExpr) {
	p.write(n.Token.Value)
}

func (p *printer) VisitTupleExpr(n *TupleExpr) {
	p.write("(")
	p.list(n.Items, spec.AssignPrecedence+1)
	if len(n.Items) == 1 {
		p.write(",")
	}
	p.write(")")
}

func (p *printer) VisitListExpr(n *ListExpr) {
	p.write("[")
	p.list(n.Items, spec.AssignPrecedence+1)
	p.write("]")
}

func (p *printer) VisitEmptyExpr(n *EmptyExpr) {
	p.write("pass")
}

func (p *printer) VisitVarDef(n *VarDef) {
	p.write("let ")
	p.member(n)
}

func (p *printer) member(n *VarDef) {
	p.expr(n.Name, 0)
	if !IsNil(n.Type) {
		p.write(": ")
		p.expr(n.Type, 0)
	}
	if !IsNil(n.Value) {
		p.write(" = ")
		p.expr(n.Value, spec.AssignPrecedence+1)
	}
}

func (p *printer) VisitFuncDef(n *FuncDef) {
	p.write("fn ")
	p.expr(n.Name, 0)
	p.write("(")
	for x, param := range n.Params {
		if x > 0 {
			p.write(", ")
		}
		p.expr(param, 0)
	}
	p.write(")")
	if !IsNil(n.Returns) {
		p.write(" -> ")
		p.expr(n.Returns, 0)
	}
	p.block(n.Body)
}

func (p *printer) VisitFuncParam(n *FuncParam) {
	p.expr(n.Name, 0)
	if !IsNil(n.Type) {
		p.write(": ")
		p.expr(n.Type, 0)
	}
	if !IsNil(n.Default) {
		p.write(" = ")
		p.expr(n.Default, spec.AssignPrecedence+1)
	}
}

func (p *printer) VisitClassDef(n *ClassDef) {
	p.write("class ")
	p.expr(n.Name, 0)
	if len(n.DataMembers) > 0 {
		p.write("(")
		for x, m := range n.DataMembers {
			if x > 0 {
				p.write(", ")
			}
			p.member(m)
		}
		p.write(")")
	}
	for x, base := range n.Bases {
		if x == 0 {
			p.write(" <| ")
		} else {
			p.write(", ")
		}
		p.expr(base, 0)
	}
	p.block(n.Body)
}

func (p *printer) VisitMacroDef(n *MacroDef) {
	p.write("macro ", n.Name)
	if _, ok := n.Pattern.(SequencePattern); ok {
		p.write(n.Pattern.String())
		return
	}
	p.write("(", n.Pattern.String(), ")")
}

func (p *printer) VisitBinaryExpr(n *BinaryExpr) {
	op, _ := spec.Binary(n.Op.Kind)
	open := op.Precedence < p.prec
	if open {
		p.write("(")
	}
	left, right := op.Precedence, op.Precedence+1
	if op.Assoc == spec.RightToLeft {
		left, right = op.Precedence+1, op.Precedence
	} else if inner, ok := n.Left.(*BinaryExpr); ok {
		// * and ** share a band but group in opposite directions.
		if lop, _ := spec.Binary(inner.Op.Kind); lop.Precedence == op.Precedence && lop.Assoc == spec.RightToLeft {
			left = op.Precedence + 1
		}
	}
	p.expr(n.Left, left)
	p.write(" ", n.Op.Value, " ")
	p.expr(n.Right, right)
	if open {
		p.write(")")
	}
}

func (p *printer) VisitUnaryExpr(n *UnaryExpr) {
	if n.Postfix {
		p.expr(n.Operand, postfixPrecedence)
		p.write(n.Op.Value)
		return
	}
	op, _ := spec.Prefix(n.Op.Kind)
	open := op.Precedence < p.prec
	if open {
		p.write("(")
	}
	p.write(n.Op.Value)
	if inner, ok := n.Operand.(*UnaryExpr); n.Op.Kind == token.KindNot || ok && !inner.Postfix && inner.Op.Kind != token.KindNot {
		p.write(" ")
	}
	p.expr(n.Operand, op.Precedence)
	if open {
		p.write(")")
	}
}

func (p *printer) VisitFuncCallExpr(n *FuncCallExpr) {
	p.expr(n.Target, postfixPrecedence)
	p.write("(")
	for x, arg := range n.Args {
		if x > 0 {
			p.write(", ")
		}
		p.expr(arg, 0)
	}
	p.write(")")
}

func (p *printer) VisitFuncCallArg(n *FuncCallArg) {
	if !IsNil(n.Name) {
		p.expr(n.Name, 0)
		p.write("=")
	}
	p.expr(n.Value, spec.AssignPrecedence+1)
}

func (p *printer) VisitIndexerExpr(n *IndexerExpr) {
	p.expr(n.Target, postfixPrecedence)
	p.write("[")
	if t, ok := n.Index.(*TupleExpr); ok {
		p.list(t.Items, spec.AssignPrecedence+1)
	} else {
		p.expr(n.Index, spec.AssignPrecedence+1)
	}
	p.write("]")
}

func (p *printer) VisitSliceExpr(n *SliceExpr) {
	p.expr(n.From, spec.AssignPrecedence+1)
	p.write(":")
	p.expr(n.To, spec.AssignPrecedence+1)
	if !IsNil(n.Step) {
		p.write(":")
		p.expr(n.Step, spec.AssignPrecedence+1)
	}
}

func (p *printer) VisitMemberAccessExpr(n *MemberAccessExpr) {
	p.expr(n.Target, postfixPrecedence)
	p.write(".")
	p.expr(n.Member, 0)
}

func (p *printer) VisitIfExpr(n *IfExpr) {
	p.write("if ")
	p.expr(n.Cond, 0)
	p.block(n.Then)
	for {
		switch e := n.Else.(type) {
		case *IfExpr:
			p.write(strings.Repeat("    ", p.depth), "elif ")
			p.expr(e.Cond, 0)
			p.block(e.Then)
			n = e
			continue
		case *ScopeExpr:
			p.write(strings.Repeat("    ", p.depth), "else")
			p.block(e)
		}
		return
	}
}

func (p *printer) VisitWhileExpr(n *WhileExpr) {
	p.write("while ")
	p.expr(n.Cond, 0)
	p.block(n.Body)
	if n.NoBreak != nil {
		p.write(strings.Repeat("    ", p.depth), "nobreak")
		p.block(n.NoBreak)
	}
}

func (p *printer) VisitForExpr(n *ForExpr) {
	p.write("for ")
	p.expr(n.Target, postfixPrecedence)
	p.write(" in ")
	p.expr(n.Iterable, 0)
	p.block(n.Body)
}

func (p *printer) VisitComprehensionExpr(n *ComprehensionExpr) {
	left, right := "(", ")"
	if n.List {
		left, right = "[", "]"
	}
	p.write(left)
	p.expr(n.Target, spec.AssignPrecedence+1)
	for _, c := range n.Clauses {
		p.write(" ")
		p.expr(c, 0)
	}
	p.write(right)
}

func (p *printer) VisitComprehensionClause(n *ComprehensionClause) {
	p.write("for ")
	p.expr(n.Item, postfixPrecedence)
	p.write(" in ")
	p.expr(n.Iterable, spec.AssignPrecedence+1)
	if !IsNil(n.Cond) {
		p.write(" if ")
		p.expr(n.Cond, spec.AssignPrecedence+1)
	}
}

func (p *printer) VisitAssertExpr(n *AssertExpr) {
	p.write("assert ")
	p.expr(n.Cond, spec.AssignPrecedence+1)
	if !IsNil(n.Message) {
		p.write(", ")
		p.expr(n.Message, spec.AssignPrecedence+1)
	}
}

func (p *printer) VisitBreakExpr(n *BreakExpr) {
	p.write("break")
}

func (p *printer) VisitContinueExpr(n *ContinueExpr) {
	p.write("continue")
}

func (p *printer) VisitReturnExpr(n *ReturnExpr) {
	p.write("return")
	if !IsNil(n.Value) {
		p.write(" ")
		p.expr(n.Value, 0)
	}
}

func (p *printer) VisitMacroApplicationExpr(n *MacroApplicationExpr) {
	next := 0
	for x, item := range n.Layout {
		if x > 0 && !p.newline {
			p.write(" ")
		}
		if item != "" {
			p.write(item)
			continue
		}
		if next < len(n.Parts) {
			p.expr(n.Parts[next], 0)
			next = next + 1
		}
	}
}

func (p *printer) VisitSimpleTypeName(n *SimpleTypeName) {
	p.write(n.Name)
}

func (p *printer) VisitGenericTypeName(n *GenericTypeName) {
	p.expr(n.Target, 0)
	p.write("[")
	for x, arg := range n.Args {
		if x > 0 {
			p.write(", ")
		}
		p.expr(arg, 0)
	}
	p.write("]")
}

func (p *printer) VisitUnionTypeName(n *UnionTypeName) {
	p.expr(n.Left, 0)
	p.write(" | ")
	p.expr(n.Right, 0)
}

func (p *printer) VisitTupleTypeName(n *TupleTypeName) {
	p.write("(")
	for x, t := range n.Types {
		if x > 0 {
			p.write(", ")
		}
		p.expr(t, 0)
	}
	p.write(")")
}
