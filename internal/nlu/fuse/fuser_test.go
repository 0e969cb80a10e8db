package fuse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"butik-nlu/internal/models"
)

func TestResolve(t *testing.T) {
	withContext := &models.Session{
		ID:                     "s1",
		LastMentionedProduct:   "İpek Gömlek",
		LastMentionedProductID: "ipek-gomlek",
	}
	empty := &models.Session{ID: "s2"}

	tests := []struct {
		name     string
		entities models.ExtractedEntities
		intent   models.IntentLabel
		sess     *models.Session
		expected Decision
	}{
		{
			name:     "explicit product wins and refreshes context",
			entities: models.ExtractedEntities{Product: "Keten Pantolon", ProductID: "keten-pantolon"},
			intent:   models.IntentPriceQuery,
			sess:     withContext,
			expected: Decision{Product: "Keten Pantolon", ProductID: "keten-pantolon", UpdateContext: true},
		},
		{
			name: "generic term asks for clarification",
			entities: models.ExtractedEntities{
				Product: "pantolon", IsGeneric: true,
				GenericOptions: []string{"Keten Pantolon", "Kot Pantolon"},
			},
			intent: models.IntentPriceQuery,
			sess:   withContext,
			expected: Decision{
				NeedsClarification: true,
				GenericTerm:        "pantolon",
				Options:            []string{"Keten Pantolon", "Kot Pantolon"},
			},
		},
		{
			name:     "product-bearing turn borrows session context",
			entities: models.ExtractedEntities{Size: "M"},
			intent:   models.IntentStockQuery,
			sess:     withContext,
			expected: Decision{Product: "İpek Gömlek", ProductID: "ipek-gomlek", Size: "M", CarriedOver: true},
		},
		{
			name:     "no context to borrow",
			entities: models.ExtractedEntities{Size: "M"},
			intent:   models.IntentStockQuery,
			sess:     empty,
			expected: Decision{Size: "M"},
		},
		{
			name:     "non-product intent never borrows",
			entities: models.ExtractedEntities{},
			intent:   models.IntentGreeting,
			sess:     withContext,
			expected: Decision{},
		},
		{
			name:     "hours question ignores context",
			entities: models.ExtractedEntities{},
			intent:   models.IntentHoursQuery,
			sess:     withContext,
			expected: Decision{},
		},
		{
			name:     "nil session is safe",
			entities: models.ExtractedEntities{},
			intent:   models.IntentPriceQuery,
			sess:     nil,
			expected: Decision{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.entities, tt.intent, tt.sess))
		})
	}
}
