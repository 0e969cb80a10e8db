// Package intent decides what the user wants from a normalized utterance.
// A prioritized regex rule table answers the clear-cut cases, a
// statistical classifier covers everything the rules miss, and an
// arbitration step lets the classifier override over-eager general rules
// like greeting on longer utterances.
package intent

import (
	"regexp"

	"butik-nlu/internal/models"
)

// Rule is one pattern in the prioritized table. General rules (greeting,
// thanks, negative) only fire when the match starts the utterance.
type Rule struct {
	Intent  models.IntentLabel
	Pattern *regexp.Regexp
	General bool
}

// Exclusion voids a rule hit when a competing pattern also matches,
// resolving phrasings that satisfy two rules at once.
type Exclusion struct {
	Voided models.IntentLabel
	By     *regexp.Regexp
}

var (
	hoursPattern   = regexp.MustCompile(`kaça kadar açık|saat kaçta|çalışma saat|kaçta açıl|kaçta kapan|açık mı|pazar açık|hangi saatler`)
	paymentPattern = regexp.MustCompile(`ödeme|kredi kart|banka kart|taksit|havale|eft|kapıda`)
	stockWithKaldi = regexp.MustCompile(`kaldı mı`)
)

// DefaultRules returns the rule table in evaluation order. Specific
// business questions come before product questions so "iade var mı" never
// reads as a stock query, and general conversational rules come last.
func DefaultRules() []Rule {
	return []Rule{
		{Intent: models.IntentHoursQuery, Pattern: hoursPattern},
		{Intent: models.IntentPaymentQuery, Pattern: paymentPattern},
		{Intent: models.IntentOrderStatus, Pattern: regexp.MustCompile(`siparişim|sipariş durum|sipariş no|kargom nerede|kargom gelmedi`)},
		{Intent: models.IntentShippingQuery, Pattern: regexp.MustCompile(`kargo|teslimat|gönderim|kaç günde gelir|ne zaman gelir`)},
		{Intent: models.IntentReturnQuery, Pattern: regexp.MustCompile(`iade|geri verebilir|değişim|değiştirebilir`)},
		{Intent: models.IntentLocationQuery, Pattern: regexp.MustCompile(`adres|konum|nerede|neredesiniz|nerdesiniz|hangi semt|nasıl gelinir`)},
		{Intent: models.IntentContactQuery, Pattern: regexp.MustCompile(`telefon|tel no|numaranız|whatsapp|iletişim|mail|e posta`)},
		{Intent: models.IntentWebsiteQuery, Pattern: regexp.MustCompile(`web site|siteniz|internet sitesi|site adresi|online`)},
		{Intent: models.IntentRecommend, Pattern: regexp.MustCompile(`öner|tavsiye|ne alsam|ne alabilirim|hangisi iyi`)},
		{Intent: models.IntentHumanHandoff, Pattern: regexp.MustCompile(`yetkili|müşteri temsilci|temsilci|canlı destek|operatör|gerçek biri|insana`)},
		{Intent: models.IntentPriceQuery, Pattern: regexp.MustCompile(`fiyat|ne kadar|kaç para|kaç tl|kaça|ücreti`)},
		{Intent: models.IntentStockQuery, Pattern: regexp.MustCompile(`var mı|stok|mevcut mu|bulunur mu|kaldı mı|bedeni var`)},
		{Intent: models.IntentMaterialQuery, Pattern: regexp.MustCompile(`kumaş|malzeme|materyal|iplik|içerik|%\d+|yüzde yüz`)},
		{Intent: models.IntentInfoQuery, Pattern: regexp.MustCompile(`hakkında|bilgi|özellik|detay|açıklama`)},
		{Intent: models.IntentGreeting, Pattern: regexp.MustCompile(`merhaba|selam|iyi günler|günaydın|iyi akşamlar|kolay gelsin|hey`), General: true},
		{Intent: models.IntentThanks, Pattern: regexp.MustCompile(`teşekkür|sağ ol|sağol|eyvallah|çok iyisin`), General: true},
		{Intent: models.IntentNegativeReply, Pattern: regexp.MustCompile(`hayır|yok teşekkür|istemiyorum|gerek yok|olmaz|kalsın`), General: true},
	}
}

// DefaultExclusions returns the built-in mutual exclusions:
// an hours phrasing beats the price rule ("kaça kadar açıksınız"),
// a payment phrasing beats the stock rule ("taksit imkanı var mı"),
// and a "kaldı mı" stock phrasing beats the thanks rule
// ("sağ olun, pantolondan kaldı mı").
func DefaultExclusions() []Exclusion {
	return []Exclusion{
		{Voided: models.IntentPriceQuery, By: hoursPattern},
		{Voided: models.IntentStockQuery, By: paymentPattern},
		{Voided: models.IntentThanks, By: stockWithKaldi},
	}
}
