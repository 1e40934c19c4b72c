package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/token"
)

// ErrUnreduced is returned by Verify when sugar survived the rewrite.
var ErrUnreduced = errors.New("unreduced syntax")

// Verify checks that no node of the tree still has a shape that the
// catalogue rewrites. The options must match the ones given to Rewrite.
func Verify(tree ast.Node, opts ...Option) error {
	r := newRewriter(opts...)
	var found []string
	ast.Walk(tree, func(n ast.Node) bool {
		if name := r.match(n); name != "" {
			found = append(found, fmt.Sprintf("%s at %s", name, n.Span()))
		}
		return true
	})
	if len(found) > 0 {
		return fmt.Errorf("%w: %s", ErrUnreduced, strings.Join(found, ", "))
	}
	return nil
}

func (r *rewriter) match(n ast.Node) string {
	switch n := n.(type) {
	case *ast.UnionTypeName:
		return "union type"
	case *ast.TupleTypeName:
		if r.emptyTuple && len(n.Types) == 0 {
			return "empty tuple type"
		}
	case *ast.BinaryExpr:
		if _, _, ok := isNotPair(n); ok {
			return "is not"
		}
		if n.Is(token.KindRightPipe) {
			return "pipeline"
		}
		if _, _, ok := destructuring(n); ok {
			if _, stmt := ast.EnclosingScope(n); stmt == ast.Node(n) {
				return "destructuring"
			}
		}
	case *ast.WhileExpr:
		if n.NoBreak != nil {
			return "nobreak"
		}
	case *ast.ClassDef:
		if len(n.DataMembers) > 0 {
			return "data members"
		}
	}
	return ""
}
