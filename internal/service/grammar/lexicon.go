package grammar

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v2"
)

//go:embed lexicon.yaml
var builtinLexicon []byte

// suffixRule tags unknown words by their ending
type suffixRule struct {
	suffix string
	tag    string
}

// Ordered: the first matching suffix wins.
var suffixRules = []suffixRule{
	{"ing", "VBG"},
	{"ed", "VBD"},
	{"ly", "RB"},
	{"ize", "VB"},
	{"ise", "VB"},
	{"ify", "VB"},
	{"tion", "NN"},
	{"sion", "NN"},
	{"ment", "NN"},
	{"ness", "NN"},
	{"ity", "NN"},
	{"ism", "NN"},
	{"ance", "NN"},
	{"ence", "NN"},
	{"able", "JJ"},
	{"ible", "JJ"},
	{"ful", "JJ"},
	{"ous", "JJ"},
	{"ive", "JJ"},
	{"less", "JJ"},
	{"er", "NN"},
	{"or", "NN"},
	{"ss", "NN"},
	{"s", "NNS"},
}

// minSuffixWordLen keeps short words like "is" or "red" away from suffix rules
const minSuffixWordLen = 5

// LexiconTagger tags words from a word list, falling back to suffix heuristics.
// Unknown words default to NN, which is what single-word taggers usually answer.
type LexiconTagger struct {
	tags map[string]string
}

// NewLexiconTagger loads the built-in lexicon and overlays the user lexicon at path, if any
func NewLexiconTagger(path string) (*LexiconTagger, error) {
	t := &LexiconTagger{tags: make(map[string]string)}
	if err := t.load(builtinLexicon); err != nil {
		return nil, fmt.Errorf("failed to load built-in lexicon: %w", err)
	}
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}
	if err := t.load(data); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon %s: %w", path, err)
	}
	return t, nil
}

// load merges a tag -> words YAML document; later documents win
func (t *LexiconTagger) load(data []byte) error {
	var doc map[string][]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	for tag, words := range doc {
		tag = strings.ToUpper(strings.TrimSpace(tag))
		for _, word := range words {
			t.tags[strings.ToLower(strings.TrimSpace(word))] = tag
		}
	}
	return nil
}

// Lookup returns the lexicon tag for a word and whether the word is listed
func (t *LexiconTagger) Lookup(word string) (string, bool) {
	tag, ok := t.tags[strings.ToLower(word)]
	return tag, ok
}

// Size returns the number of listed words
func (t *LexiconTagger) Size() int {
	return len(t.tags)
}

func (t *LexiconTagger) Tag(ctx context.Context, word string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if tag, ok := t.Lookup(word); ok {
		return tag, nil
	}
	return guessTag(strings.ToLower(word)), nil
}

func (t *LexiconTagger) Name() string {
	return "lexicon"
}

func guessTag(word string) string {
	if word == "" {
		return "NN"
	}
	if isNumber(word) {
		return "CD"
	}
	if len(word) >= minSuffixWordLen {
		for _, rule := range suffixRules {
			if strings.HasSuffix(word, rule.suffix) {
				return rule.tag
			}
		}
	}
	return "NN"
}

func isNumber(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
