// Package normalize canonicalizes raw user utterances before any other
// stage sees them: Turkish-aware lowercasing, a whole-word typo table,
// size token canonicalization, and guarded frequency-dictionary spelling
// correction. The output is stable, normalizing an already normalized
// string returns it unchanged.
package normalize

import (
	"strings"
	"unicode"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"butik-nlu/internal/common/logger"
	"butik-nlu/internal/common/metrics"
)

// Whole-word shorthand and run-together fixes applied before dictionary
// correction. Values may expand to multiple words.
var defaultTypos = map[string]string{
	"mrb":      "merhaba",
	"merhba":   "merhaba",
	"slm":      "selam",
	"gunaydn":  "günaydın",
	"tşk":      "teşekkür",
	"tsk":      "teşekkür",
	"tşkler":   "teşekkürler",
	"eyw":      "eyvallah",
	"fyt":      "fiyat",
	"fiyt":     "fiyat",
	"kça":      "kaça",
	"nekadar":  "ne kadar",
	"varmı":    "var mı",
	"varmi":    "var mı",
	"mevcutmu": "mevcut mu",
	"açıkmı":   "açık mı",
	"acikmi":   "açık mı",
	"kaçadır":  "kaçtır",
}

// Correct words the dictionary must never rewrite into something else.
var defaultProtected = map[string]bool{
	"s": true, "m": true, "l": true, "xs": true, "xl": true, "xxl": true,
	"mı": true, "mi": true, "mu": true, "mü": true,
	"ne": true, "bu": true, "şu": true, "o": true, "ve": true, "da": true,
	"de": true, "var": true, "yok": true, "kaç": true, "tl": true,
	"no": true, "tel": true, "web": true, "en": true, "çok": true,
	// Demonstrative and genitive function words; the entity stage keys
	// anaphora detection on these, a lookalike correction would erase
	// the back-reference ("bunun" is distance 2 from "bugün").
	"bunun": true, "şunun": true, "onun": true,
	"bunu": true, "şunu": true, "onu": true, "peki": true, "si": true,
	"sı": true,
}

// Corrections that look close by edit distance but flip the meaning.
var defaultBlocklist = map[[2]string]bool{
	{"bedeni", "bedeli"}:  true,
	{"bedenleri", "bedelleri"}: true,
	{"beden", "neden"}:    true,
	{"iade", "ifade"}:     true,
	{"kot", "kat"}:        true,
	{"kaça", "kaçta"}:     true,
	{"keten", "beden"}:    true,
}

// Normalizer is the spelling stage. A nil dictionary disables correction
// but keeps lowercasing, typo substitution, and size canonicalization.
type Normalizer struct {
	dict        *Dictionary
	typos       map[string]string
	protected   map[string]bool
	blocklist   map[[2]string]bool
	maxDistance int
	guardScore  int
	log         logger.Logger
}

// Option customizes a Normalizer.
type Option func(*Normalizer)

// WithMaxDistance overrides the edit distance ceiling.
func WithMaxDistance(d int) Option {
	return func(n *Normalizer) { n.maxDistance = d }
}

// WithGuardScore overrides the fuzzy similarity floor a correction with a
// differing first letter must clear.
func WithGuardScore(score int) Option {
	return func(n *Normalizer) { n.guardScore = score }
}

// WithLogger attaches a logger for correction diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(n *Normalizer) { n.log = log }
}

// New builds a Normalizer around the given dictionary, which may be nil.
func New(dict *Dictionary, opts ...Option) *Normalizer {
	n := &Normalizer{
		dict:        dict,
		typos:       defaultTypos,
		protected:   defaultProtected,
		blocklist:   defaultBlocklist,
		maxDistance: 2,
		guardScore:  70,
		log:         logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Available reports whether dictionary correction is active.
func (n *Normalizer) Available() bool {
	return n.dict != nil && n.dict.Size() > 0
}

// Normalize canonicalizes the utterance. The result only contains
// lowercase tokens separated by single spaces.
func (n *Normalizer) Normalize(raw string) string {
	lowered := strings.ToLowerSpecial(unicode.TurkishCase, raw)

	fields := strings.Fields(lowered)
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		tok = strings.Trim(tok, ".,!?;:\"'()")
		if tok == "" {
			continue
		}
		if repl, ok := n.typos[tok]; ok {
			out = append(out, strings.Fields(repl)...)
			continue
		}
		out = append(out, n.normalizeToken(tok)...)
	}
	return strings.Join(out, " ")
}

func (n *Normalizer) normalizeToken(tok string) []string {
	if n.protected[tok] {
		return []string{tok}
	}
	if canonical, ok := CanonicalSize(tok); ok {
		return []string{strings.ToLowerSpecial(unicode.TurkishCase, canonical)}
	}
	if !n.Available() || !isAlphabetic(tok) || len([]rune(tok)) <= 2 {
		return []string{tok}
	}
	if n.dict.Contains(tok) {
		return []string{tok}
	}

	suggestion, found := n.dict.Lookup(tok, n.maxDistance)
	if !found || suggestion.Term == tok {
		return []string{tok}
	}
	if !n.acceptCorrection(tok, suggestion.Term) {
		return []string{tok}
	}
	metrics.SpellCorrections.Inc()
	n.log.Debug("spelling corrected", map[string]interface{}{
		"original":  tok,
		"corrected": suggestion.Term,
		"distance":  suggestion.Distance,
	})
	return []string{suggestion.Term}
}

// acceptCorrection applies the guard rules that keep the dictionary from
// rewriting valid words into lookalikes.
func (n *Normalizer) acceptCorrection(original, corrected string) bool {
	if n.blocklist[[2]string{original, corrected}] {
		return false
	}
	origRunes := []rune(original)
	corrRunes := []rune(corrected)
	if origRunes[0] == corrRunes[0] {
		return true
	}
	if strings.Contains(corrected, original) || strings.Contains(original, corrected) {
		return true
	}
	return fuzzy.Ratio(original, corrected) >= n.guardScore
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
