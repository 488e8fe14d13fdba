package identifier

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"namestat/internal/model/naming"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// nodeRule describes how an identifier-bearing node type carries its name
type nodeRule struct {
	role      naming.NodeKind
	nameField string
	// requires is a field that must be present for the node to count (empty = none)
	requires string
}

// Grammar binds a tree-sitter language to the node types that carry identifiers
type Grammar struct {
	Name       string
	Extensions []string
	language   *tree_sitter.Language
	rules      map[string]nodeRule
}

func newGrammar(name string, language *tree_sitter.Language, extensions []string, rules map[string]nodeRule) *Grammar {
	return &Grammar{
		Name:       name,
		Extensions: extensions,
		language:   language,
		rules:      rules,
	}
}

// roleOf maps a tree-sitter node type onto the closed NodeKind set
func (g *Grammar) roleOf(nodeType string) (naming.NodeKind, nodeRule) {
	rule, ok := g.rules[nodeType]
	if !ok {
		return naming.NodeOther, nodeRule{}
	}
	return rule.role, rule
}

func decl(field string) nodeRule {
	return nodeRule{role: naming.NodeDeclarationName, nameField: field}
}

func attr(field string) nodeRule {
	return nodeRule{role: naming.NodeAttributeName, nameField: field}
}

// PythonGrammar returns the grammar for Python sources
func PythonGrammar() *Grammar {
	return newGrammar("python", tree_sitter.NewLanguage(python.Language()), []string{".py", ".pyw"}, map[string]nodeRule{
		"function_definition": decl("name"),
		"attribute":           attr("attribute"),
	})
}

// GoGrammar returns the grammar for Go sources
func GoGrammar() *Grammar {
	return newGrammar("go", tree_sitter.NewLanguage(golang.Language()), []string{".go"}, map[string]nodeRule{
		"function_declaration": decl("name"),
		"method_declaration":   decl("name"),
		"selector_expression":  attr("field"),
	})
}

// JavaGrammar returns the grammar for Java sources
func JavaGrammar() *Grammar {
	return newGrammar("java", tree_sitter.NewLanguage(java.Language()), []string{".java"}, map[string]nodeRule{
		"method_declaration":      decl("name"),
		"constructor_declaration": decl("name"),
		"field_access":            attr("field"),
		"method_invocation":       {role: naming.NodeAttributeName, nameField: "name", requires: "object"},
	})
}

func ecmaRules() map[string]nodeRule {
	return map[string]nodeRule{
		"function_declaration":           decl("name"),
		"generator_function_declaration": decl("name"),
		"method_definition":              decl("name"),
		"member_expression":              attr("property"),
	}
}

// JavaScriptGrammar returns the grammar for JavaScript sources
func JavaScriptGrammar() *Grammar {
	return newGrammar("javascript", tree_sitter.NewLanguage(javascript.Language()), []string{".js", ".jsx", ".mjs"}, ecmaRules())
}

// TypeScriptGrammar returns the grammar for TypeScript sources
func TypeScriptGrammar() *Grammar {
	return newGrammar("typescript", tree_sitter.NewLanguage(typescript.LanguageTypescript()), []string{".ts"}, ecmaRules())
}

// TSXGrammar returns the grammar for TSX sources
func TSXGrammar() *Grammar {
	return newGrammar("tsx", tree_sitter.NewLanguage(typescript.LanguageTSX()), []string{".tsx"}, ecmaRules())
}

// Registry manages grammars for different languages
type Registry struct {
	grammars   map[string]*Grammar
	extensions map[string]string // file extension -> language
}

// NewRegistry creates an empty grammar registry
func NewRegistry() *Registry {
	return &Registry{
		grammars:   make(map[string]*Grammar),
		extensions: make(map[string]string),
	}
}

// NewDefaultRegistry registers every built-in grammar, or only the named languages when given
func NewDefaultRegistry(languages ...string) (*Registry, error) {
	all := map[string]func() *Grammar{
		"python":     PythonGrammar,
		"go":         GoGrammar,
		"java":       JavaGrammar,
		"javascript": JavaScriptGrammar,
		"typescript": TypeScriptGrammar,
		"tsx":        TSXGrammar,
	}

	if len(languages) == 0 {
		for name := range all {
			languages = append(languages, name)
		}
	}

	registry := NewRegistry()
	for _, lang := range languages {
		build, ok := all[strings.ToLower(lang)]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported language %q", naming.ErrConfiguration, lang)
		}
		registry.Register(build())
	}
	return registry, nil
}

// Register adds a grammar and its file extensions
func (r *Registry) Register(grammar *Grammar) {
	r.grammars[grammar.Name] = grammar
	for _, ext := range grammar.Extensions {
		r.extensions[ext] = grammar.Name
	}
}

// GetGrammar returns the grammar for a given language
func (r *Registry) GetGrammar(language string) (*Grammar, bool) {
	g, ok := r.grammars[language]
	return g, ok
}

// ForPath returns the grammar responsible for a file, based on its extension
func (r *Registry) ForPath(path string) (*Grammar, bool) {
	language, ok := r.extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, false
	}
	return r.GetGrammar(language)
}

// Supports reports whether a file can be parsed by a registered grammar
func (r *Registry) Supports(path string) bool {
	_, ok := r.ForPath(path)
	return ok
}

// SupportedLanguages returns the registered language names, sorted
func (r *Registry) SupportedLanguages() []string {
	languages := make([]string, 0, len(r.grammars))
	for lang := range r.grammars {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}
