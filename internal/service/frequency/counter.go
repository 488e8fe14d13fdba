package frequency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"namestat/internal/model/naming"
)

// ErrInvalidK is returned when a ranking size is not positive
var ErrInvalidK = errors.New("k must be a positive integer")

// Order is the display order of a ranked list
type Order int

const (
	// OrderAscending lists the selected entries from least to most frequent
	OrderAscending Order = iota
	// OrderDescending lists the selected entries from most to least frequent
	OrderDescending
)

// Counter counts words and remembers the order in which each word was first seen.
// It is not safe for concurrent use; give each worker its own and Merge them.
type Counter struct {
	counts map[string]int
	order  []string
	total  int
}

// NewCounter creates an empty counter
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Aggregate counts the occurrences of each word
func Aggregate(words []string) *Counter {
	c := NewCounter()
	c.AddAll(words)
	return c
}

// Add counts one occurrence of word
func (c *Counter) Add(word string) {
	c.AddN(word, 1)
}

// AddN counts n occurrences of word. Non-positive n is ignored.
func (c *Counter) AddN(word string, n int) {
	if n <= 0 {
		return
	}
	if _, seen := c.counts[word]; !seen {
		c.order = append(c.order, word)
	}
	c.counts[word] += n
	c.total += n
}

// AddAll counts every word in order
func (c *Counter) AddAll(words []string) {
	for _, w := range words {
		c.Add(w)
	}
}

// Merge adds the counts of other; words new to c keep other's first-seen order
func (c *Counter) Merge(other *Counter) {
	if other == nil {
		return
	}
	for _, w := range other.order {
		c.AddN(w, other.counts[w])
	}
}

// Count returns the occurrences of word
func (c *Counter) Count(word string) int {
	return c.counts[word]
}

// Len returns the number of distinct words
func (c *Counter) Len() int {
	return len(c.order)
}

// Total returns the number of counted occurrences
func (c *Counter) Total() int {
	return c.total
}

// Entries returns every word with its count in first-seen order
func (c *Counter) Entries() []naming.FrequencyEntry {
	entries := make([]naming.FrequencyEntry, 0, len(c.order))
	for _, w := range c.order {
		entries = append(entries, naming.FrequencyEntry{Word: w, Count: c.counts[w]})
	}
	return entries
}

// MostCommon returns the k most frequent words, most frequent first.
// Ties keep first-seen order. k larger than Len returns every word.
func (c *Counter) MostCommon(k int) ([]naming.FrequencyEntry, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	entries := c.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if k < len(entries) {
		entries = entries[:k]
	}
	return entries, nil
}

// TopK selects the k most common words and then orders the selection for display.
// OrderAscending shows the least frequent of the selected words first.
func (c *Counter) TopK(k int, order Order) ([]naming.FrequencyEntry, error) {
	entries, err := c.MostCommon(k)
	if err != nil {
		return nil, err
	}
	if order == OrderAscending {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Count < entries[j].Count
		})
	}
	return entries, nil
}

// ParseOrder converts "ascending" or "descending" into an Order
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascending", "asc":
		return OrderAscending, nil
	case "descending", "desc":
		return OrderDescending, nil
	default:
		return 0, fmt.Errorf("%w: unknown order %q (use ascending or descending)", naming.ErrConfiguration, s)
	}
}

func (o Order) String() string {
	if o == OrderDescending {
		return "descending"
	}
	return "ascending"
}
