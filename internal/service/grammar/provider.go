package grammar

import (
	"context"
	"strings"

	"namestat/internal/model/naming"
)

// Provider decides whether a single word belongs to a grammatical category
type Provider interface {
	Classify(ctx context.Context, word string, category naming.Category) (bool, error)
}

// Tagger assigns a Penn Treebank part-of-speech tag to a word taken in isolation
type Tagger interface {
	Tag(ctx context.Context, word string) (string, error)
	Name() string
}

// TagProvider turns a Tagger into a Provider by exact tag comparison
type TagProvider struct {
	tagger Tagger
}

// NewTagProvider wraps a tagger
func NewTagProvider(tagger Tagger) *TagProvider {
	return &TagProvider{tagger: tagger}
}

func (p *TagProvider) Classify(ctx context.Context, word string, category naming.Category) (bool, error) {
	tag, err := p.tagger.Tag(ctx, word)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(tag), category.Tag()), nil
}

// Name returns the wrapped tagger's name
func (p *TagProvider) Name() string {
	return p.tagger.Name()
}

// ProviderFunc adapts a plain function into a Provider
type ProviderFunc func(ctx context.Context, word string, category naming.Category) (bool, error)

func (f ProviderFunc) Classify(ctx context.Context, word string, category naming.Category) (bool, error) {
	return f(ctx, word, category)
}
