// Package verify checks generated C for syntax errors with the tree-sitter C
// grammar
package verify

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
)

// snippetLength limits how much of the offending source is kept
const snippetLength = 40

// SyntaxError is a node that the grammar could not make sense of
type SyntaxError struct {
	// 1-based line and column
	Line, Column int
	// Missing is set when the parser inserted a node that is not in the
	// source, such as a missing `;`
	Missing bool
	// The kind of node that was expected, for missing nodes
	Expected string
	Snippet  string
}

func (se SyntaxError) String() string {
	if se.Missing {
		return fmt.Sprintf("%d:%d: missing %s", se.Line, se.Column, se.Expected)
	}
	return fmt.Sprintf("%d:%d: syntax error near %q", se.Line, se.Column, se.Snippet)
}

// Check parses the source, and returns every error and missing node found in
// the tree
func Check(ctx context.Context, source []byte) ([]SyntaxError, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}

	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}

	var errs []SyntaxError
	inspect(root, func(node *sitter.Node) bool {
		switch {
		case node.IsMissing():
			errs = append(errs, newSyntaxError(node, source))
			return false
		case node.Type() == "ERROR":
			errs = append(errs, newSyntaxError(node, source))
			return false
		}
		// Only descend into subtrees that contain an error
		return node.HasError()
	})
	return errs, nil
}

func newSyntaxError(node *sitter.Node, source []byte) SyntaxError {
	start := node.StartPoint()
	se := SyntaxError{
		Line:    int(start.Row) + 1,
		Column:  int(start.Column) + 1,
		Missing: node.IsMissing(),
	}
	if se.Missing {
		se.Expected = node.Type()
		return se
	}

	snippet := node.Content(source)
	if ind := strings.IndexByte(snippet, '\n'); ind != -1 {
		snippet = snippet[:ind]
	}
	if len(snippet) > snippetLength {
		snippet = snippet[:snippetLength]
	}
	se.Snippet = snippet
	return se
}

// Children returns every child of a node, including the unnamed ones, since
// errors and missing tokens are often anonymous
func Children(node *sitter.Node) []*sitter.Node {
	count := int(node.ChildCount())
	children := make([]*sitter.Node, count)
	for i := 0; i < count; i++ {
		children[i] = node.Child(i)
	}
	return children
}

// inspect walks the tree depth-first, visiting the children of a node only if
// visit returns true for it
func inspect(node *sitter.Node, visit func(*sitter.Node) bool) {
	if !visit(node) {
		return
	}
	for _, child := range Children(node) {
		inspect(child, visit)
	}
}
