// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package dump renders token streams and trees as YAML or JSON documents
// for debugging the front end.
package dump

import (
	"fmt"
	"io"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"gopkg.axion.dev/compiler.go/internal/ast"
	"gopkg.axion.dev/compiler.go/internal/exc"
	"gopkg.axion.dev/compiler.go/internal/source"
	"gopkg.axion.dev/compiler.go/internal/token"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Document is a tree of plain values: maps, slices, strings, numbers and
// booleans. It encodes the same way in either format.
type Document map[string]any

// Tokens builds a document listing every token of a unit.
func Tokens(path string, tokens []*token.Token) Document {
	return Document{
		"path":   path,
		"tokens": tokenList(tokens),
	}
}

// Tree builds a document for a node and everything below it.
func Tree(path string, n ast.Node) Document {
	return Document{
		"path": path,
		"tree": nodeValue(n),
	}
}

// WithDiagnostics adds the given exceptions to the document.
func (d Document) WithDiagnostics(es []exc.Exception) Document {
	out := make([]any, 0, len(es))
	for _, e := range es {
		out = append(out, map[string]any{
			"code":    e.Code(),
			"message": e.Message(),
			"span":    spanString(e.Location().Span),
		})
	}
	d["diagnostics"] = out
	return d
}

// Encode writes the document to w in the requested format.
func (d Document) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(d)); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		s, err := structpb.NewStruct(d)
		if err != nil {
			return fmt.Errorf("failed to convert document: %w", err)
		}
		b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("unknown dump format %q", format)
}

func spanString(s source.Span) string {
	return s.Start.String() + "-" + s.End.String()
}

func tokenList(tokens []*token.Token) []any {
	out := make([]any, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, tokenValue(t))
	}
	return out
}

func tokenValue(t *token.Token) map[string]any {
	v := map[string]any{
		"kind":  t.Kind.String(),
		"value": t.Value,
		"span":  spanString(t.Span),
	}
	if t.Content != t.Value {
		v["content"] = t.Content
	}
	if t.Unterminated {
		v["unterminated"] = true
	}
	if t.Prefixes != "" {
		v["prefixes"] = t.Prefixes
	}
	if t.Kind == token.KindIndent || t.Kind == token.KindOutdent {
		v["depth"] = t.Depth
		v["delta"] = t.Delta
	}
	if len(t.Interpolations) > 0 {
		parts := make([]any, 0, len(t.Interpolations))
		for _, in := range t.Interpolations {
			parts = append(parts, map[string]any{
				"span":   spanString(in.Span),
				"tokens": tokenList(in.Tokens),
			})
		}
		v["interpolations"] = parts
	}
	return v
}

func nodeValue(n ast.Node) any {
	if ast.IsNil(n) {
		return nil
	}
	v := map[string]any{
		"node": strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast."),
		"span": spanString(n.Span()),
	}
	switch n := n.(type) {
	case *ast.NameExpr:
		v["name"] = n.Name
	case *ast.ConstantExpr:
		v["kind"] = n.Token.Kind.String()
		v["value"] = n.Token.Value
	case *ast.SimpleTypeName:
		v["name"] = n.Name
	case *ast.BinaryExpr:
		v["op"] = n.Op.Value
	case *ast.UnaryExpr:
		v["op"] = n.Op.Value
		if n.Postfix {
			v["postfix"] = true
		}
	case *ast.MacroDef:
		v["name"] = n.Name
		if n.Pattern != nil {
			v["pattern"] = n.Pattern.String()
		}
	case *ast.MacroApplicationExpr:
		if n.Macro != nil {
			v["macro"] = n.Macro.Name
		}
	case *ast.ComprehensionExpr:
		if n.List {
			v["list"] = true
		}
	}
	for _, slot := range n.Slots() {
		children := slot.Nodes()
		if _, ok := slot.(ast.ListSlot); ok {
			items := make([]any, 0, len(children))
			for _, c := range children {
				items = append(items, nodeValue(c))
			}
			v[slot.Name()] = items
			continue
		}
		if len(children) > 0 {
			v[slot.Name()] = nodeValue(children[0])
		}
	}
	return v
}
