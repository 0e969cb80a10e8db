package normalize

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	apperrors "butik-nlu/internal/common/errors"
)

//go:embed dictionary.txt
var embeddedDictionary string

// Suggestion is a dictionary correction candidate.
type Suggestion struct {
	Term      string
	Distance  int
	Frequency int64
}

// Dictionary holds the term frequency table spelling correction looks
// suggestions up in. It is immutable after construction and safe for
// concurrent use.
type Dictionary struct {
	terms map[string]int64
}

// NewDictionary builds a dictionary from an in-memory frequency table.
func NewDictionary(terms map[string]int64) *Dictionary {
	copied := make(map[string]int64, len(terms))
	for t, f := range terms {
		copied[t] = f
	}
	return &Dictionary{terms: copied}
}

// DefaultDictionary returns the dictionary compiled into the binary.
func DefaultDictionary() *Dictionary {
	d, err := parseDictionary(strings.NewReader(embeddedDictionary))
	if err != nil {
		// The embedded file is validated by tests; a parse failure here
		// means a broken build, not a runtime condition.
		panic("normalize: embedded dictionary is invalid: " + err.Error())
	}
	return d
}

// LoadDictionary reads a "term<TAB>frequency" file from disk.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDictionaryUnavailableError(fmt.Sprintf("%s: %v", path, err))
	}
	defer f.Close()

	d, err := parseDictionary(f)
	if err != nil {
		return nil, apperrors.NewDictionaryUnavailableError(fmt.Sprintf("%s: %v", path, err))
	}
	return d, nil
}

func parseDictionary(r interface{ Read([]byte) (int, error) }) (*Dictionary, error) {
	terms := make(map[string]int64)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		term := parts[0]
		freq := int64(1)
		if len(parts) > 1 {
			n, err := strconv.ParseInt(parts[1], 10, 64)
			if err == nil {
				freq = n
			}
		}
		if existing, ok := terms[term]; !ok || freq > existing {
			terms[term] = freq
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Dictionary{terms: terms}, nil
}

// Size returns the number of distinct terms.
func (d *Dictionary) Size() int {
	return len(d.terms)
}

// Contains reports whether the term is known verbatim.
func (d *Dictionary) Contains(term string) bool {
	_, ok := d.terms[term]
	return ok
}

// Lookup finds the best correction for term within maxDistance edits.
// Candidates are ranked by edit distance, then frequency, then
// lexicographically so the result is deterministic.
func (d *Dictionary) Lookup(term string, maxDistance int) (Suggestion, bool) {
	if f, ok := d.terms[term]; ok {
		return Suggestion{Term: term, Distance: 0, Frequency: f}, true
	}

	best := Suggestion{Distance: maxDistance + 1}
	found := false
	termLen := len([]rune(term))
	for cand, freq := range d.terms {
		if diff := len([]rune(cand)) - termLen; diff > maxDistance || diff < -maxDistance {
			continue
		}
		dist := levenshtein.ComputeDistance(term, cand)
		if dist > maxDistance {
			continue
		}
		s := Suggestion{Term: cand, Distance: dist, Frequency: freq}
		if !found || betterSuggestion(s, best) {
			best = s
			found = true
		}
	}
	return best, found
}

func betterSuggestion(a, b Suggestion) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	if a.Frequency != b.Frequency {
		return a.Frequency > b.Frequency
	}
	return a.Term < b.Term
}
