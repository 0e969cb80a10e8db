// Package morphology provides rule-based Turkish morphological analysis for
// the pipeline. The analyzer strips inflectional suffixes (case, possessive,
// plural, question particles) and restores softened final consonants,
// returning ranked analyses the reducer picks the best lemma from. The
// dictionary data is compiled into the binary, so the analyzer is fully
// self-contained and safe for concurrent use after construction.
package morphology

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PartOfSpeech is the coarse tag attached to an analysis.
type PartOfSpeech string

const (
	POSNoun        PartOfSpeech = "Noun"
	POSAdjective   PartOfSpeech = "Adj"
	POSVerb        PartOfSpeech = "Verb"
	POSPunctuation PartOfSpeech = "Punc"
	POSUnknown     PartOfSpeech = "Unk"
)

// Analysis is one candidate reading of a word.
type Analysis struct {
	Lemma string
	POS   PartOfSpeech
	// Score orders analyses; higher is more likely. Lexicon hits outrank
	// rule-only strips.
	Score float64
}

// Analyzer performs suffix-stripping analysis over an in-memory lexicon.
type Analyzer struct {
	lexicon map[string]PartOfSpeech
}

// NewAnalyzer returns an Analyzer backed by the built-in domain lexicon.
func NewAnalyzer() *Analyzer {
	lex := make(map[string]PartOfSpeech, len(lexiconNouns)+len(lexiconAdjectives)+len(lexiconVerbs))
	for _, w := range lexiconNouns {
		lex[w] = POSNoun
	}
	for _, w := range lexiconAdjectives {
		lex[w] = POSAdjective
	}
	for _, w := range lexiconVerbs {
		lex[w] = POSVerb
	}
	return &Analyzer{lexicon: lex}
}

// inflectional suffixes ordered longest-first so the greedy strip always
// removes the most specific reading available.
var suffixes = []string{
	"lerinden", "larından",
	"lerinde", "larında",
	"lerini", "larını",
	"lerin", "ların",
	"leri", "ları",
	"ler", "lar",
	"nden", "ndan", "inden", "ından", "unden", "undan",
	"nin", "nın", "nun", "nün",
	"den", "dan", "ten", "tan",
	"nde", "nda",
	"in", "ın", "un", "ün",
	"de", "da", "te", "ta",
	"yi", "yı", "yu", "yü",
	"ye", "ya",
	"si", "sı", "su", "sü",
	"ni", "nı", "nu", "nü",
	"im", "ım", "um", "üm",
	"e", "a", "i", "ı", "u", "ü",
}

// softened final consonants restored when a vowel-initial suffix came off.
var harden = map[rune]rune{
	'ğ': 'k',
	'b': 'p',
	'c': 'ç',
	'd': 't',
}

// Analyze returns candidate readings for a single word, best first. The
// word is expected in lowercase; a nil or empty result means the analyzer
// found nothing better than the surface form.
func (a *Analyzer) Analyze(word string) []Analysis {
	word = lowerTurkish(strings.TrimSpace(word))
	if word == "" {
		return nil
	}
	if isPunctuation(word) {
		return []Analysis{{Lemma: word, POS: POSPunctuation, Score: 1.0}}
	}

	// Direct lexicon hit: the word is already a lemma.
	if pos, ok := a.lexicon[word]; ok {
		return []Analysis{{Lemma: word, POS: pos, Score: 1.0}}
	}

	var out []Analysis
	seen := map[string]bool{word: true}

	// Strip up to three suffix layers ("gömleklerinden" needs two).
	candidates := []string{word}
	for depth := 0; depth < 3; depth++ {
		var next []string
		for _, c := range candidates {
			for _, suf := range suffixes {
				stem, ok := stripSuffix(c, suf)
				if !ok || seen[stem] {
					continue
				}
				seen[stem] = true
				next = append(next, stem)

				score := 0.9 - 0.1*float64(depth)
				if pos, hit := a.lexicon[stem]; hit {
					out = append(out, Analysis{Lemma: stem, POS: pos, Score: score})
					continue
				}
				// Vowel-initial suffixes soften the final consonant; try
				// restoring it ("gömleğ" -> "gömlek").
				if startsWithVowel(suf) {
					if restored, changed := restoreFinal(stem); changed {
						if !seen[restored] {
							seen[restored] = true
							next = append(next, restored)
						}
						if pos, hit := a.lexicon[restored]; hit {
							out = append(out, Analysis{Lemma: restored, POS: pos, Score: score})
						}
					}
				}
			}
		}
		if len(next) == 0 {
			break
		}
		candidates = next
	}

	if len(out) == 0 {
		// No lexicon evidence. Offer a single-layer rule-only strip as a
		// low-confidence guess so the reducer can still shorten obvious
		// inflections of unknown words.
		for _, suf := range suffixes {
			if stem, ok := stripSuffix(word, suf); ok {
				out = append(out, Analysis{Lemma: stem, POS: POSUnknown, Score: 0.3})
				break
			}
		}
	}

	sortAnalyses(out)
	return out
}

// Known reports whether the lemma is in the analyzer's lexicon.
func (a *Analyzer) Known(lemma string) bool {
	_, ok := a.lexicon[lowerTurkish(lemma)]
	return ok
}

func stripSuffix(word, suf string) (string, bool) {
	if !strings.HasSuffix(word, suf) {
		return "", false
	}
	stem := strings.TrimSuffix(word, suf)
	// Degenerate stems are never useful lemmas.
	if len([]rune(stem)) < 2 {
		return "", false
	}
	return stem, true
}

func restoreFinal(stem string) (string, bool) {
	runes := []rune(stem)
	last := runes[len(runes)-1]
	if hard, ok := harden[last]; ok {
		runes[len(runes)-1] = hard
		return string(runes), true
	}
	return stem, false
}

func startsWithVowel(s string) bool {
	if s == "" {
		return false
	}
	return strings.ContainsRune("aeıioöuü", []rune(s)[0])
}

func isPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

func sortAnalyses(a []Analysis) {
	// Insertion sort by score desc, then longer lemma, then lexicographic;
	// the slices are tiny and the ordering must be deterministic.
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && less(a[j], a[j-1]); j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}

func less(x, y Analysis) bool {
	if x.Score != y.Score {
		return x.Score > y.Score
	}
	if len(x.Lemma) != len(y.Lemma) {
		return len(x.Lemma) > len(y.Lemma)
	}
	return x.Lemma < y.Lemma
}

// lowerTurkish lowercases with Turkish casing rules (İ->i, I->ı).
func lowerTurkish(s string) string {
	return cases.Lower(language.Turkish).String(s)
}
