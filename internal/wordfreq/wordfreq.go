// Package wordfreq counts token occurrences and prints them as a frequency table
package wordfreq

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Order selects how table entries are sorted
type Order int

const (
	// Lexicographic sorts by token ascending
	Lexicographic Order = iota
	// Frequency sorts by count descending, then token ascending
	Frequency
)

func (o Order) String() string {
	switch o {
	case Lexicographic:
		return "lexicographic"
	case Frequency:
		return "frequency"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// Entry is one row of the frequency table
type Entry struct {
	Token string
	Count int
}

// Counts maps a token to its number of occurrences
type Counts map[string]int

// Tokens returns args when non-empty, otherwise all whitespace separated
// tokens read from r.
func Tokens(args []string, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return strings.Fields(string(data)), nil
}

// Count tallies tokens by exact, case sensitive equality
func Count(tokens []string) Counts {
	counts := make(Counts, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// Sorted returns the table entries ordered by o
func (c Counts) Sorted(o Order) []Entry {
	entries := make([]Entry, 0, len(c))
	for token, n := range c {
		entries = append(entries, Entry{Token: token, Count: n})
	}
	slices.SortFunc(entries, o.compare)
	return entries
}

func (o Order) compare(a, b Entry) int {
	if o == Frequency {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Token, b.Token)
}

// Write prints one "token count" line per entry
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s %d\n", e.Token, e.Count); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Run reads tokens, counts them and writes the table sorted by o
func Run(args []string, in io.Reader, out io.Writer, o Order) error {
	tokens, err := Tokens(args, in)
	if err != nil {
		return err
	}
	return Write(out, Count(tokens).Sorted(o))
}
