package morphology

import (
	"strings"
	"unicode"
)

// Short words that carry meaning on their own and are kept as-is instead
// of being skipped for length.
var shortWhitelist = map[string]bool{
	"su": true, "bu": true, "şu": true, "o": true, "ne": true,
	"mi": true, "mı": true, "mu": true, "mü": true, "ve": true,
}

// Reducer turns a text into its space-joined lemma form. A nil analyzer is
// tolerated: the reducer then degrades to lowercase passthrough so the
// pipeline keeps working without morphology.
type Reducer struct {
	analyzer *Analyzer
}

// NewReducer wraps the given analyzer. Pass nil for a passthrough reducer.
func NewReducer(analyzer *Analyzer) *Reducer {
	return &Reducer{analyzer: analyzer}
}

// Available reports whether real morphological analysis is wired in.
func (r *Reducer) Available() bool {
	return r != nil && r.analyzer != nil
}

// ReduceWord maps a single token to its lemma.
func (r *Reducer) ReduceWord(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	lower := lowerTurkish(word)

	// Numbers pass through untouched, they are sizes or amounts.
	if isNumeric(lower) {
		return lower
	}
	// Very short tokens are particles or size letters; reduction would
	// only mangle them.
	if len([]rune(lower)) <= 2 {
		return lower
	}
	if shortWhitelist[lower] {
		return lower
	}
	// "fiyat" inflects into forms whose stripped stem collides with other
	// stems, so it is pinned.
	if strings.HasPrefix(lower, "fiyat") {
		return "fiyat"
	}

	if !r.Available() {
		return lower
	}

	analyses := r.analyzer.Analyze(lower)
	if len(analyses) == 0 {
		return lower
	}
	best := analyses[0]
	if best.POS == POSPunctuation || best.POS == POSUnknown && best.Score < 0.3 {
		return lower
	}
	lemma := lowerTurkish(best.Lemma)
	// Guard against degenerate lemmas from over-stripping.
	if len([]rune(lemma)) < 2 {
		return lower
	}
	return lemma
}

// ReducePhrase lemmatizes every token of the text and rejoins them with
// single spaces.
func (r *Reducer) ReducePhrase(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'")
		if f == "" {
			continue
		}
		out = append(out, r.ReduceWord(f))
	}
	return strings.Join(out, " ")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
