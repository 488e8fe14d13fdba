package tokenizer

import "strings"

const (
	// Delimiter separates words inside a compound identifier
	Delimiter = "_"
	// MagicMarker brackets reserved names on both ends (__init__)
	MagicMarker = "__"
)

// IsMagic reports whether name starts and ends with the magic marker
func IsMagic(name string) bool {
	return strings.HasPrefix(name, MagicMarker) && strings.HasSuffix(name, MagicMarker)
}

// FilterMagic drops magic names, keeping the order of the rest
func FilterMagic(names []string) []string {
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if IsMagic(name) {
			continue
		}
		kept = append(kept, name)
	}
	return kept
}

// Tokenize splits a compound identifier on the delimiter. Empty segments are dropped.
func Tokenize(name string) []string {
	parts := strings.Split(name, Delimiter)
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		words = append(words, part)
	}
	return words
}

// Flatten concatenates nested lists in order: [[a b] [c]] -> [a b c]
func Flatten(lists [][]string) []string {
	size := 0
	for _, l := range lists {
		size += len(l)
	}
	flat := make([]string, 0, size)
	for _, l := range lists {
		flat = append(flat, l...)
	}
	return flat
}

// Words filters magic names out and returns the words of the remaining names in order
func Words(names []string) []string {
	kept := FilterMagic(names)
	split := make([][]string, 0, len(kept))
	for _, name := range kept {
		split = append(split, Tokenize(name))
	}
	return Flatten(split)
}
