package morphology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReduceWord(t *testing.T) {
	reducer := NewReducer(NewAnalyzer())

	tests := []struct {
		name     string
		word     string
		expected string
	}{
		{"bare lemma", "pantolon", "pantolon"},
		{"accusative", "pantolonu", "pantolon"},
		{"genitive", "pantolonun", "pantolon"},
		{"plural", "ceketler", "ceket"},
		{"softened final consonant", "gömleği", "gömlek"},
		{"softened plus genitive", "gömleğin", "gömlek"},
		{"possessive chain", "gömleklerinden", "gömlek"},
		{"material", "keteni", "keten"},
		{"price is pinned", "fiyatı", "fiyat"},
		{"price plural", "fiyatları", "fiyat"},
		{"number passthrough", "42", "42"},
		{"short particle", "mı", "mı"},
		{"short whitelist word", "su", "su"},
		{"uppercase input", "Pantolonun", "pantolon"},
		{"turkish dotted capital", "İpek", "ipek"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, reducer.ReduceWord(tt.word))
		})
	}
}

func TestReducePhrase(t *testing.T) {
	reducer := NewReducer(NewAnalyzer())

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "product question",
			text:     "Keten Pantolonun fiyatı ne kadar?",
			expected: "keten pantolon fiyat ne kadar",
		},
		{
			name:     "softening restored",
			text:     "İpek Gömleğin bedenleri",
			expected: "ipek gömlek beden",
		},
		{
			name:     "numbers survive",
			text:     "42 bedeni var mı",
			expected: "42 beden var mı",
		},
		{
			name:     "empty input",
			text:     "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, reducer.ReducePhrase(tt.text))
		})
	}
}

func TestReducerWithoutAnalyzer(t *testing.T) {
	reducer := NewReducer(nil)

	assert.False(t, reducer.Available())
	// Degrades to lowercase passthrough instead of failing.
	assert.Equal(t, "pantolonun", reducer.ReduceWord("Pantolonun"))
	assert.Equal(t, "keten pantolon", reducer.ReducePhrase("Keten Pantolon"))
}

func TestAnalyzerRanking(t *testing.T) {
	analyzer := NewAnalyzer()

	analyses := analyzer.Analyze("gömleği")
	if assert.NotEmpty(t, analyses) {
		assert.Equal(t, "gömlek", analyses[0].Lemma)
		assert.Equal(t, POSNoun, analyses[0].POS)
	}

	punct := analyzer.Analyze("?")
	if assert.Len(t, punct, 1) {
		assert.Equal(t, POSPunctuation, punct[0].POS)
	}
}
