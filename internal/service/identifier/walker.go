package identifier

import (
	"strings"

	"namestat/internal/model/naming"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// ExtractIdentifiers returns the lowercased names of every node of the selected kind,
// in breadth-first order from the root. A nil tree yields no identifiers.
func ExtractIdentifiers(tree *SyntaxTree, kind naming.IdentifierKind) []string {
	if tree == nil || tree.tree == nil {
		return []string{}
	}

	names := []string{}
	queue := []*tree_sitter.Node{tree.tree.RootNode()}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == nil {
			continue
		}

		role, rule := tree.grammar.roleOf(node.Kind())
		switch role {
		case naming.NodeDeclarationName, naming.NodeAttributeName:
			if role.Matches(kind) {
				if name, ok := nameOf(node, rule, tree.source); ok {
					names = append(names, name)
				}
			}
		case naming.NodeOther:
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			queue = append(queue, node.Child(i))
		}
	}
	return names
}

func nameOf(node *tree_sitter.Node, rule nodeRule, source []byte) (string, bool) {
	if rule.requires != "" && node.ChildByFieldName(rule.requires) == nil {
		return "", false
	}
	nameNode := node.ChildByFieldName(rule.nameField)
	if nameNode == nil {
		return "", false
	}
	name := nameNode.Utf8Text(source)
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}
