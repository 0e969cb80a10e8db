package models

// IntentLabel identifies what the customer is asking for. Exactly one label
// is assigned per turn. The Turkish label strings are part of the wire
// contract and match the labels the classifier model is trained with.
type IntentLabel string

const (
	IntentGreeting      IntentLabel = "selamlama"
	IntentThanks        IntentLabel = "tesekkur"
	IntentNegativeReply IntentLabel = "olumsuz_yanit"
	IntentPriceQuery    IntentLabel = "fiyat_sorgulama"
	IntentStockQuery    IntentLabel = "stok_sorgulama"
	IntentMaterialQuery IntentLabel = "urun_malzeme_sorma"
	IntentInfoQuery     IntentLabel = "urun_bilgisi_sorma"
	IntentReturnQuery   IntentLabel = "iade_sorgulama"
	IntentShippingQuery IntentLabel = "kargo_bilgisi_sorma"
	IntentHoursQuery    IntentLabel = "calisma_saatleri_sorma"
	IntentPaymentQuery  IntentLabel = "odeme_yontemleri_sorma"
	IntentLocationQuery IntentLabel = "lokasyon_sorma"
	IntentContactQuery  IntentLabel = "tel_no_sorma"
	IntentWebsiteQuery  IntentLabel = "website_sorma"
	IntentHumanHandoff  IntentLabel = "insana_aktar"
	IntentOrderStatus   IntentLabel = "siparis_durumu_sorgulama"
	IntentRecommend     IntentLabel = "oneri_isteme"
	IntentOutOfScope    IntentLabel = "kapsam_disi"
	IntentUnrecognized  IntentLabel = "taninmayan"
)

// AllIntents lists every assignable label in a fixed order.
var AllIntents = []IntentLabel{
	IntentGreeting, IntentThanks, IntentNegativeReply,
	IntentPriceQuery, IntentStockQuery, IntentMaterialQuery, IntentInfoQuery,
	IntentReturnQuery, IntentShippingQuery, IntentHoursQuery,
	IntentPaymentQuery, IntentLocationQuery, IntentContactQuery,
	IntentWebsiteQuery, IntentHumanHandoff, IntentOrderStatus,
	IntentRecommend, IntentOutOfScope, IntentUnrecognized,
}

// IsGeneral reports whether the label is a conversational nicety rather than
// a business question. General intents follow stricter rule matching and may
// be overridden by the statistical classifier.
func (l IntentLabel) IsGeneral() bool {
	switch l {
	case IntentGreeting, IntentThanks, IntentNegativeReply:
		return true
	}
	return false
}

// IsProductBearing reports whether the intent expects a product reference,
// either in the utterance itself or carried over from session context.
func (l IntentLabel) IsProductBearing() bool {
	switch l {
	case IntentPriceQuery, IntentStockQuery, IntentMaterialQuery,
		IntentInfoQuery, IntentReturnQuery:
		return true
	}
	return false
}

// Valid reports whether the label is one of the fixed assignable set.
func (l IntentLabel) Valid() bool {
	for _, known := range AllIntents {
		if l == known {
			return true
		}
	}
	return false
}

// Provenance records which strategy produced the final intent. Diagnostic
// only; nothing downstream branches on it.
type Provenance string

const (
	ProvenanceRule          Provenance = "regex"
	ProvenanceModel         Provenance = "slm_fasttext"
	ProvenanceModelOverride Provenance = "slm_fasttext_override"
	ProvenanceFallback      Provenance = "fallback"
)
