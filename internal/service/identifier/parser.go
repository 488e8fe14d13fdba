package identifier

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"namestat/internal/model/naming"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// SyntaxTree is a parsed source file. It must be closed once identifiers are extracted.
type SyntaxTree struct {
	tree    *tree_sitter.Tree
	source  []byte
	grammar *Grammar
}

// Language returns the language the tree was parsed with
func (t *SyntaxTree) Language() string {
	if t == nil || t.grammar == nil {
		return ""
	}
	return t.grammar.Name
}

// Close releases the underlying tree-sitter tree
func (t *SyntaxTree) Close() {
	if t == nil || t.tree == nil {
		return
	}
	t.tree.Close()
	t.tree = nil
}

// FileResult carries either a tree or the reason a file yields no identifiers
type FileResult struct {
	Path string
	Tree *SyntaxTree
	Err  error
}

// OK reports whether the file produced a tree
func (r FileResult) OK() bool {
	return r.Err == nil && r.Tree != nil
}

func failed(path string, err error) FileResult {
	return FileResult{Path: path, Err: &naming.FileError{Path: path, Err: err}}
}

// Parse builds a syntax tree for source. Parsers are created per call because
// tree-sitter parsers are not safe for concurrent use.
func (r *Registry) Parse(ctx context.Context, path string, source []byte) FileResult {
	grammar, ok := r.ForPath(path)
	if !ok {
		return failed(path, fmt.Errorf("%w: no grammar for file extension", naming.ErrParseFailure))
	}
	return grammar.Parse(ctx, path, source)
}

// ParseFile reads and parses a file from disk
func (r *Registry) ParseFile(ctx context.Context, path string) FileResult {
	source, err := os.ReadFile(path)
	if err != nil {
		return failed(path, fmt.Errorf("%w: %v", naming.ErrSourceUnreadable, err))
	}
	return r.Parse(ctx, path, source)
}

// Parse builds a syntax tree for source using this grammar
func (g *Grammar) Parse(ctx context.Context, path string, source []byte) FileResult {
	if err := ctx.Err(); err != nil {
		return failed(path, fmt.Errorf("%w: %v", naming.ErrSourceUnreadable, err))
	}
	if !utf8.Valid(source) {
		return failed(path, fmt.Errorf("%w: not valid UTF-8", naming.ErrSourceUnreadable))
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(g.language); err != nil {
		return failed(path, fmt.Errorf("%w: failed to set %s language: %v", naming.ErrParseFailure, g.Name, err))
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return failed(path, fmt.Errorf("%w: failed to parse %s source", naming.ErrParseFailure, g.Name))
	}

	root := tree.RootNode()
	if root == nil || root.HasError() {
		// nodes are only valid while the tree is open
		detail := describeError(root, source)
		tree.Close()
		return failed(path, fmt.Errorf("%w: %s", naming.ErrParseFailure, detail))
	}

	return FileResult{
		Path: path,
		Tree: &SyntaxTree{tree: tree, source: source, grammar: g},
	}
}

// describeError locates the first ERROR or MISSING node for the diagnostic
func describeError(root *tree_sitter.Node, source []byte) string {
	if root == nil {
		return "empty tree"
	}
	queue := []*tree_sitter.Node{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node.IsError() || node.IsMissing() {
			pos := node.StartPosition()
			return fmt.Sprintf("invalid syntax at line %d, column %d", pos.Row+1, pos.Column+1)
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			if child := node.Child(i); child != nil && (child.HasError() || child.IsMissing()) {
				queue = append(queue, child)
			}
		}
	}
	return "invalid syntax"
}
