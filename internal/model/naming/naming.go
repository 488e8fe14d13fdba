package naming

import (
	"errors"
	"fmt"
	"strings"
)

// IdentifierKind selects which identifier-bearing nodes are mined
type IdentifierKind int

const (
	// DeclarationName is the name of a function or method declaration
	DeclarationName IdentifierKind = iota
	// AttributeName is the member name of an attribute access (obj.member)
	AttributeName
)

// String returns the CLI spelling of the kind
func (k IdentifierKind) String() string {
	switch k {
	case DeclarationName:
		return "func"
	case AttributeName:
		return "vars"
	default:
		return fmt.Sprintf("IdentifierKind(%d)", int(k))
	}
}

// ParseIdentifierKind converts a CLI spelling ("func" or "vars") into a kind
func ParseIdentifierKind(s string) (IdentifierKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "func":
		return DeclarationName, nil
	case "vars":
		return AttributeName, nil
	default:
		return 0, fmt.Errorf("%w: unknown identifier kind %q (use func or vars)", ErrConfiguration, s)
	}
}

// NodeKind is the closed set of node roles the tree walker distinguishes
type NodeKind int

const (
	NodeOther NodeKind = iota
	NodeDeclarationName
	NodeAttributeName
)

// Matches reports whether nodes of this role contribute to the given identifier kind
func (n NodeKind) Matches(kind IdentifierKind) bool {
	switch n {
	case NodeDeclarationName:
		return kind == DeclarationName
	case NodeAttributeName:
		return kind == AttributeName
	default:
		return false
	}
}

// Category is the grammatical role a word is tested against
type Category int

const (
	Verb Category = iota
	Noun
)

// String returns the CLI spelling of the category
func (c Category) String() string {
	switch c {
	case Verb:
		return "verb"
	case Noun:
		return "noun"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Tag returns the part-of-speech tag a word must carry to belong to the category
func (c Category) Tag() string {
	switch c {
	case Verb:
		return "VB"
	case Noun:
		return "NN"
	default:
		return ""
	}
}

// ParseCategory converts a CLI spelling ("verb" or "noun") into a category
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "verb":
		return Verb, nil
	case "noun":
		return Noun, nil
	default:
		return 0, fmt.Errorf("%w: unknown word category %q (use noun or verb)", ErrConfiguration, s)
	}
}

// FrequencyEntry is one ranked word
type FrequencyEntry struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

var (
	// ErrSourceUnreadable means a file could not be opened or decoded
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrParseFailure means the parser could not build a tree for a file
	ErrParseFailure = errors.New("parse failure")
	// ErrClassificationUnavailable means the grammar provider failed or timed out
	ErrClassificationUnavailable = errors.New("classification unavailable")
	// ErrConfiguration means the run options are invalid
	ErrConfiguration = errors.New("configuration error")
	// ErrCloneFailure means a remote repository could not be cloned
	ErrCloneFailure = errors.New("clone failure")
)

// FileError records why a file contributed nothing to a run
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Reason returns the short taxonomy name for the failure
func (e *FileError) Reason() string {
	switch {
	case errors.Is(e.Err, ErrSourceUnreadable):
		return "source_unreadable"
	case errors.Is(e.Err, ErrParseFailure):
		return "parse_failure"
	default:
		return "unknown"
	}
}
