// Package entity pulls product and size references out of a turn. Matching
// runs in lemma space against the catalog index, in three tiers: exact
// longest name containment, generic category reference, then fuzzy
// token-set scoring for misspelled or reordered names.
package entity

import (
	"regexp"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"butik-nlu/internal/catalog"
	"butik-nlu/internal/common/logger"
	"butik-nlu/internal/models"
	"butik-nlu/internal/nlu/normalize"
)

// Question phrases removed before the size scan so their particles are not
// mistaken for letter sizes ("var mı" must not read as size M).
var questionSuffixes = []string{
	"stokta var mı", "var mı", "var mi", "kaldı mı", "kaldı mi",
	"mevcut mu", "bulunur mu", "bulabilir miyim",
}

// Anaphora openers. A turn starting with one of these refers back to the
// previous subject unless it names a catalog term itself.
var anaphoraStarters = map[string]bool{
	"bu": true, "bunun": true, "şu": true, "şunun": true,
	"o": true, "onun": true, "peki": true,
}

// Filler and question words that carry no product signal. Used both for
// anaphora content counting and for fuzzy candidate construction.
var stopWords = map[string]bool{
	"bu": true, "bunun": true, "şu": true, "şunun": true, "o": true,
	"onun": true, "peki": true, "ne": true, "nedir": true, "kadar": true,
	"kaç": true, "kaça": true, "para": true, "tl": true, "acaba": true,
	"fiyat": true, "ücret": true, "beden": true, "stok": true, "stokta": true,
	"var": true, "yok": true, "mı": true, "mi": true, "mu": true, "mü": true,
	"mevcut": true, "bilgi": true, "hakkında": true, "özellik": true,
	"malzeme": true, "kumaş": true, "iade": true, "ve": true, "ile": true,
	"için": true, "bir": true, "da": true, "de": true, "rica": true,
	"lütfen": true, "merhaba": true, "selam": true, "si": true, "sı": true,
}

var sizePhrase = regexp.MustCompile(`\bbeden(i|leri)?\b`)

// Resolver extracts entities for one turn.
type Resolver struct {
	index          *catalog.Index
	fuzzyThreshold int
	log            logger.Logger
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithFuzzyThreshold overrides the 0-100 token-set score a fuzzy product
// match must reach.
func WithFuzzyThreshold(score int) ResolverOption {
	return func(r *Resolver) { r.fuzzyThreshold = score }
}

// WithResolverLogger attaches a logger.
func WithResolverLogger(log logger.Logger) ResolverOption {
	return func(r *Resolver) { r.log = log }
}

// NewResolver builds a Resolver over the catalog index. A nil index
// disables product matching; size extraction still works.
func NewResolver(index *catalog.Index, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		index:          index,
		fuzzyThreshold: 80,
		log:            logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Extract finds the product and size references in one turn. It receives
// the normalized utterance for size work and the lemmatized one for
// product matching; intent gates the fuzzy tier.
func (r *Resolver) Extract(normalized, lemmatized string, intent models.IntentLabel) models.ExtractedEntities {
	var out models.ExtractedEntities

	neutral := neutralizeQuestions(normalized)
	out.Size = extractSize(neutral)

	if r.index == nil {
		return out
	}
	if r.isAnaphoric(lemmatized) {
		return out
	}

	queryTokens := strings.Fields(lemmatized)

	// Tier 1: exact containment of a full product name, longest first.
	for _, ln := range r.index.LemmaNames() {
		if containsPhrase(queryTokens, strings.Fields(ln.Lemma)) {
			if p, ok := r.index.ProductByID(ln.ProductID); ok {
				out.Product = p.Name
				out.ProductID = p.ID
				return out
			}
		}
	}

	// Tier 2: a bare category word is a generic reference that needs
	// clarification.
	for _, tok := range queryTokens {
		if r.index.IsCategory(tok) {
			out.Product = tok
			out.IsGeneric = true
			out.GenericOptions = r.index.CategoryProducts(tok)
			return out
		}
	}

	// Tier 3: fuzzy token-set match, only for intents that actually talk
	// about a product. Chit-chat must never fuzzy-match a product name.
	if !intent.IsProductBearing() {
		return out
	}
	if name, id, ok := r.fuzzyMatch(queryTokens); ok {
		out.Product = name
		out.ProductID = id
	}
	return out
}

// isAnaphoric reports whether the turn leans on the previous subject:
// it opens with a demonstrative, has little content of its own, and none
// of that content names a catalog term.
func (r *Resolver) isAnaphoric(lemmatized string) bool {
	tokens := strings.Fields(lemmatized)
	if len(tokens) == 0 || !anaphoraStarters[tokens[0]] {
		return false
	}
	var content []string
	for _, tok := range tokens[1:] {
		if stopWords[tok] || isNumber(tok) {
			continue
		}
		content = append(content, tok)
	}
	if len(content) >= 3 {
		return false
	}
	for _, w := range content {
		if r.index.HasTerm(w) {
			return false
		}
	}
	return true
}

func (r *Resolver) fuzzyMatch(queryTokens []string) (name, id string, ok bool) {
	var candidate []string
	for _, tok := range queryTokens {
		if stopWords[tok] || isNumber(tok) || len([]rune(tok)) <= 2 {
			continue
		}
		candidate = append(candidate, tok)
	}
	if len(candidate) == 0 {
		return "", "", false
	}
	query := strings.Join(candidate, " ")

	type scored struct {
		name  string
		id    string
		score int
	}
	var results []scored
	for _, ln := range r.index.LemmaNames() {
		s := fuzzy.TokenSetRatio(query, ln.Lemma)
		if s >= r.fuzzyThreshold {
			if p, found := r.index.ProductByID(ln.ProductID); found {
				results = append(results, scored{name: p.Name, id: p.ID, score: s})
			}
		}
	}
	if len(results) == 0 {
		return "", "", false
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].name < results[j].name
	})
	best := results[0]
	r.log.Debug("fuzzy product match", map[string]interface{}{
		"query":   query,
		"product": best.name,
		"score":   best.score,
	})
	return best.name, best.id, true
}

func neutralizeQuestions(normalized string) string {
	s := " " + normalized + " "
	for _, q := range questionSuffixes {
		s = strings.ReplaceAll(s, " "+q+" ", " ")
	}
	return strings.TrimSpace(s)
}

// extractSize finds the first size token in the text. "42 si" style
// possessives already arrive as separate tokens, so a plain token scan
// is enough once question phrases are gone.
func extractSize(neutral string) string {
	tokens := strings.Fields(neutral)
	for i, tok := range tokens {
		// Bare question particles survive neutralization in phrasings
		// like "850 tl mi" and must not read as letter sizes.
		if tok == "mı" || tok == "mi" || tok == "mu" || tok == "mü" {
			continue
		}
		if size, ok := normalize.CanonicalSize(tok); ok {
			// A bare number only counts as a size near size wording or a
			// letter-size context; "850 tl" must not become a size.
			if isNumber(tok) && !numberLooksLikeSize(tokens, i, neutral) {
				continue
			}
			return size
		}
	}
	return ""
}

// numberLooksLikeSize accepts a numeric token as a size when the turn
// mentions size wording, or the number stands alone with its possessive
// ("42 si"), or nothing price-like follows it.
func numberLooksLikeSize(tokens []string, i int, neutral string) bool {
	if sizePhrase.MatchString(neutral) {
		return true
	}
	if i+1 < len(tokens) {
		next := tokens[i+1]
		if next == "si" || next == "sı" || next == "numara" {
			return true
		}
		if next == "tl" || next == "lira" {
			return false
		}
	}
	return len(tokens) == 1
}

func containsPhrase(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, w := range needle {
			if haystack[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
