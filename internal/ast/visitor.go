package ast

// Visitor has one method per node variant. Emitters implement it to turn a
// tree into output.
type Visitor interface {
	VisitAst(*Ast)
	VisitScopeExpr(*ScopeExpr)
	VisitNameExpr(*NameExpr)
	VisitConstantExpr(*ConstantExpr)
	VisitTupleExpr(*TupleExpr)
	VisitListExpr(*ListExpr)
	VisitEmptyExpr(*EmptyExpr)
	VisitVarDef(*VarDef)
	VisitFuncDef(*FuncDef)
	VisitFuncParam(*FuncParam)
	VisitClassDef(*ClassDef)
	VisitMacroDef(*MacroDef)
	VisitBinaryExpr(*BinaryExpr)
	VisitUnaryExpr(*UnaryExpr)
	VisitFuncCallExpr(*FuncCallExpr)
	VisitFuncCallArg(*FuncCallArg)
	VisitIndexerExpr(*IndexerExpr)
	VisitSliceExpr(*SliceExpr)
	VisitMemberAccessExpr(*MemberAccessExpr)
	VisitIfExpr(*IfExpr)
	VisitWhileExpr(*WhileExpr)
	VisitForExpr(*ForExpr)
	VisitComprehensionExpr(*ComprehensionExpr)
	VisitComprehensionClause(*ComprehensionClause)
	VisitAssertExpr(*AssertExpr)
	VisitBreakExpr(*BreakExpr)
	VisitContinueExpr(*ContinueExpr)
	VisitReturnExpr(*ReturnExpr)
	VisitMacroApplicationExpr(*MacroApplicationExpr)
	VisitSimpleTypeName(*SimpleTypeName)
	VisitGenericTypeName(*GenericTypeName)
	VisitUnionTypeName(*UnionTypeName)
	VisitTupleTypeName(*TupleTypeName)
}

func (n *Ast) Accept(v Visitor)                  { v.VisitAst(n) }
func (n *ScopeExpr) Accept(v Visitor)            { v.VisitScopeExpr(n) }
func (n *NameExpr) Accept(v Visitor)             { v.VisitNameExpr(n) }
func (n *ConstantExpr) Accept(v Visitor)         { v.VisitConstantExpr(n) }
func (n *TupleExpr) Accept(v Visitor)            { v.VisitTupleExpr(n) }
func (n *ListExpr) Accept(v Visitor)             { v.VisitListExpr(n) }
func (n *EmptyExpr) Accept(v Visitor)            { v.VisitEmptyExpr(n) }
func (n *VarDef) Accept(v Visitor)               { v.VisitVarDef(n) }
func (n *FuncDef) Accept(v Visitor)              { v.VisitFuncDef(n) }
func (n *FuncParam) Accept(v Visitor)            { v.VisitFuncParam(n) }
func (n *ClassDef) Accept(v Visitor)             { v.VisitClassDef(n) }
func (n *MacroDef) Accept(v Visitor)             { v.VisitMacroDef(n) }
func (n *BinaryExpr) Accept(v Visitor)           { v.VisitBinaryExpr(n) }
func (n *UnaryExpr) Accept(v Visitor)            { v.VisitUnaryExpr(n) }
func (n *FuncCallExpr) Accept(v Visitor)         { v.VisitFuncCallExpr(n) }
func (n *FuncCallArg) Accept(v Visitor)          { v.VisitFuncCallArg(n) }
func (n *IndexerExpr) Accept(v Visitor)          { v.VisitIndexerExpr(n) }
func (n *SliceExpr) Accept(v Visitor)            { v.VisitSliceExpr(n) }
func (n *MemberAccessExpr) Accept(v Visitor)     { v.VisitMemberAccessExpr(n) }
func (n *IfExpr) Accept(v Visitor)               { v.VisitIfExpr(n) }
func (n *WhileExpr) Accept(v Visitor)            { v.VisitWhileExpr(n) }
func (n *ForExpr) Accept(v Visitor)              { v.VisitForExpr(n) }
func (n *ComprehensionExpr) Accept(v Visitor)    { v.VisitComprehensionExpr(n) }
func (n *ComprehensionClause) Accept(v Visitor)  { v.VisitComprehensionClause(n) }
func (n *AssertExpr) Accept(v Visitor)           { v.VisitAssertExpr(n) }
func (n *BreakExpr) Accept(v Visitor)            { v.VisitBreakExpr(n) }
func (n *ContinueExpr) Accept(v Visitor)         { v.VisitContinueExpr(n) }
func (n *ReturnExpr) Accept(v Visitor)           { v.VisitReturnExpr(n) }
func (n *MacroApplicationExpr) Accept(v Visitor) { v.VisitMacroApplicationExpr(n) }
func (n *SimpleTypeName) Accept(v Visitor)       { v.VisitSimpleTypeName(n) }
func (n *GenericTypeName) Accept(v Visitor)      { v.VisitGenericTypeName(n) }
func (n *UnionTypeName) Accept(v Visitor)        { v.VisitUnionTypeName(n) }
func (n *TupleTypeName) Accept(v Visitor)        { v.VisitTupleTypeName(n) }
