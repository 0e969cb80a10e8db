package models

// ExtractedEntities is the Entity Resolver's output for a single turn.
type ExtractedEntities struct {
	// Product is a specific catalog display name, or when IsGeneric is set,
	// the lemmatized category token ("pantolon"). Empty when nothing matched.
	Product string `json:"product,omitempty"`
	// ProductID is the stable catalog identifier for a specific match.
	ProductID string `json:"productId,omitempty"`
	// Size is a canonical size code: XS/S/M/L/XL/XXL or "28".."60".
	Size      string `json:"size,omitempty"`
	IsGeneric bool   `json:"isGenericProductTerm"`
	// GenericOptions lists the display names of every catalog entry sharing
	// the matched category. Populated only when IsGeneric is set.
	GenericOptions []string `json:"genericTermOptions,omitempty"`
}

// ResolvedTurn is the pipeline's contract with the response-generation layer.
type ResolvedTurn struct {
	SessionID  string      `json:"sessionId"`
	Utterance  string      `json:"utterance"`
	Intent     IntentLabel `json:"intent"`
	Provenance Provenance  `json:"nluMethod"`
	// Confidence is the statistical classifier's score when the model
	// produced or overrode the intent; 1.0 for rule matches.
	Confidence float64 `json:"confidence"`

	// Product is the resolved specific product display name, empty when no
	// product could be resolved this turn (including the generic case).
	Product   string `json:"resolvedProduct,omitempty"`
	ProductID string `json:"resolvedProductId,omitempty"`
	Size      string `json:"resolvedSize,omitempty"`

	// NeedsClarification is set only for the ambiguous-generic-term case;
	// a product-bearing turn with no product at all does not set it.
	NeedsClarification   bool     `json:"askForClarification"`
	GenericTerm          string   `json:"genericTerm,omitempty"`
	ClarificationOptions []string `json:"clarificationOptions,omitempty"`

	// PreviousUtterance is the prior turn's raw text, surfaced for display.
	PreviousUtterance string `json:"previousQueryInSession,omitempty"`
}
