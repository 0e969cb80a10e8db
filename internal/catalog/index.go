package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"butik-nlu/internal/models"
)

var turkishLower = cases.Lower(language.Turkish)

// Lemmatizer reduces a phrase to its space-joined lemma form. The index
// stores product names and categories in lemma space so lookups and the
// lemmatized query live in the same vocabulary.
type Lemmatizer interface {
	ReducePhrase(text string) string
}

// LemmaName pairs a lemmatized product name with its product id.
type LemmaName struct {
	Lemma     string
	ProductID string
	// Words is the token count of Lemma, used for longest-match ordering.
	Words int
}

// Index is the read-only lookup structure entity extraction works
// against. Build it once at startup; it is safe for concurrent reads.
type Index struct {
	products   []models.Product
	byID       map[string]models.Product
	lemmaNames []LemmaName
	categories map[string][]string // category lemma -> product ids
	facts      models.BusinessFacts
}

// NewIndex builds the index. The lemmatizer may be nil, in which case
// lowercased surface forms are indexed instead of lemmas.
func NewIndex(products []models.Product, facts models.BusinessFacts, lem Lemmatizer) *Index {
	idx := &Index{
		products:   append([]models.Product(nil), products...),
		byID:       make(map[string]models.Product, len(products)),
		categories: make(map[string][]string),
		facts:      facts,
	}
	for _, p := range products {
		idx.byID[p.ID] = p

		nameLemma := idx.reduce(p.Name, lem)
		idx.lemmaNames = append(idx.lemmaNames, LemmaName{
			Lemma:     nameLemma,
			ProductID: p.ID,
			Words:     len(strings.Fields(nameLemma)),
		})

		catLemma := idx.reduce(p.Category, lem)
		idx.categories[catLemma] = append(idx.categories[catLemma], p.ID)
	}
	// Longest names first so containment checks find the most specific
	// product before a shorter name that happens to share words.
	sort.SliceStable(idx.lemmaNames, func(i, j int) bool {
		a, b := idx.lemmaNames[i], idx.lemmaNames[j]
		if a.Words != b.Words {
			return a.Words > b.Words
		}
		if len(a.Lemma) != len(b.Lemma) {
			return len(a.Lemma) > len(b.Lemma)
		}
		return a.Lemma < b.Lemma
	})
	return idx
}

func (idx *Index) reduce(text string, lem Lemmatizer) string {
	if lem != nil {
		return lem.ReducePhrase(text)
	}
	return turkishLower.String(text)
}

// Products returns all catalog entries in load order.
func (idx *Index) Products() []models.Product {
	return idx.products
}

// ProductByID looks a product up by its stable id.
func (idx *Index) ProductByID(id string) (models.Product, bool) {
	p, ok := idx.byID[id]
	return p, ok
}

// ProductByName looks a product up by display name, ignoring case.
// EqualFold does not fold the dotted capital İ, so the comparison lowers
// both sides with the Turkish caser.
func (idx *Index) ProductByName(name string) (models.Product, bool) {
	lowered := turkishLower.String(name)
	for _, p := range idx.products {
		if turkishLower.String(p.Name) == lowered {
			return p, true
		}
	}
	return models.Product{}, false
}

// LemmaNames returns lemmatized product names, longest first.
func (idx *Index) LemmaNames() []LemmaName {
	return idx.lemmaNames
}

// IsCategory reports whether the lemma is a known product category.
func (idx *Index) IsCategory(lemma string) bool {
	_, ok := idx.categories[lemma]
	return ok
}

// CategoryProducts returns display names of the products in a category,
// in load order.
func (idx *Index) CategoryProducts(categoryLemma string) []string {
	ids := idx.categories[categoryLemma]
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := idx.byID[id]; ok {
			names = append(names, p.Name)
		}
	}
	return names
}

// HasTerm reports whether the word appears in any indexed product name or
// category lemma. Anaphora detection uses it to tell "bunun fiyatı" (no
// catalog word, an anaphoric reference) from "bu pantolon" (names a
// catalog term outright).
func (idx *Index) HasTerm(word string) bool {
	if word == "" {
		return false
	}
	if _, ok := idx.categories[word]; ok {
		return true
	}
	for _, ln := range idx.lemmaNames {
		for _, w := range strings.Fields(ln.Lemma) {
			if w == word {
				return true
			}
		}
	}
	return false
}

// Facts returns the static business information.
func (idx *Index) Facts() models.BusinessFacts {
	return idx.facts
}
