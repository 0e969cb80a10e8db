package httpapi

import (
	"fmt"
	"strings"
	"unicode"

	"butik-nlu/internal/catalog"
	"butik-nlu/internal/models"
)

// Responder turns a resolved turn into the Turkish reply text. It only
// reads the catalog index; all conversational state already lives in the
// turn.
type Responder struct {
	index *catalog.Index
}

// NewResponder builds a Responder over the catalog index.
func NewResponder(index *catalog.Index) *Responder {
	return &Responder{index: index}
}

// Build returns the customer-facing reply and, when the turn requires
// operator action, an internal actionable message.
func (r *Responder) Build(turn *models.ResolvedTurn) (botResponse, actionable string) {
	if turn.NeedsClarification {
		return clarificationPrompt(turn.GenericTerm, turn.ClarificationOptions), ""
	}

	facts := r.index.Facts()
	switch turn.Intent {
	case models.IntentGreeting:
		return fmt.Sprintf("Merhaba! %s'e hoş geldiniz. Size nasıl yardımcı olabilirim?", facts.Name), ""
	case models.IntentThanks:
		return "Rica ederim! Başka bir konuda yardımcı olabilir miyim?", ""
	case models.IntentNegativeReply:
		return "Anladım. Başka bir sorunuz olursa buradayım, iyi günler dilerim!", ""
	case models.IntentPriceQuery:
		return r.priceReply(turn), ""
	case models.IntentStockQuery:
		return r.stockReply(turn), ""
	case models.IntentMaterialQuery:
		return r.materialReply(turn), ""
	case models.IntentInfoQuery:
		return r.infoReply(turn), ""
	case models.IntentReturnQuery:
		return facts.ReturnPolicy, ""
	case models.IntentShippingQuery:
		return facts.ShippingInfo, ""
	case models.IntentHoursQuery:
		return facts.OpeningHours, ""
	case models.IntentPaymentQuery:
		return facts.PaymentOptions, ""
	case models.IntentLocationQuery:
		reply := fmt.Sprintf("Adresimiz: %s", facts.Address)
		if facts.MapsLink != "" {
			reply += fmt.Sprintf(" Harita: %s", facts.MapsLink)
		}
		return reply, ""
	case models.IntentContactQuery:
		reply := fmt.Sprintf("Bize %s numarasından ulaşabilirsiniz.", facts.Phone)
		if facts.WhatsApp != "" {
			reply += fmt.Sprintf(" WhatsApp: %s", facts.WhatsApp)
		}
		return reply, ""
	case models.IntentWebsiteQuery:
		if facts.Website == "" {
			return "Şu an için bir web sitemiz bulunmuyor, mağazamızdan alışveriş yapabilirsiniz.", ""
		}
		return fmt.Sprintf("Web sitemiz: %s", facts.Website), ""
	case models.IntentHumanHandoff:
		return "Sizi bir müşteri temsilcimize aktarıyorum, lütfen hatta kalın.",
			fmt.Sprintf("Müşteri temsilcisi talebi: oturum %s", turn.SessionID)
	case models.IntentOrderStatus:
		return "Sipariş durumunuzu kontrol edebilmem için sipariş numaranızı paylaşır mısınız?",
			fmt.Sprintf("Sipariş durumu sorgusu: oturum %s", turn.SessionID)
	case models.IntentRecommend:
		return r.recommendReply(), ""
	case models.IntentOutOfScope, models.IntentUnrecognized:
		return "Bu konuda maalesef yardımcı olamıyorum. Ürünlerimiz, fiyatlar, stok, kargo ve iade hakkında soru sorabilirsiniz.", ""
	}
	return "Sorunuzu tam anlayamadım, farklı bir şekilde sorabilir misiniz?", ""
}

func (r *Responder) product(turn *models.ResolvedTurn) (models.Product, bool) {
	if turn.ProductID != "" {
		if p, ok := r.index.ProductByID(turn.ProductID); ok {
			return p, true
		}
	}
	if turn.Product != "" {
		return r.index.ProductByName(turn.Product)
	}
	return models.Product{}, false
}

func (r *Responder) priceReply(turn *models.ResolvedTurn) string {
	p, ok := r.product(turn)
	if !ok {
		return "Hangi ürünün fiyatını öğrenmek istersiniz?"
	}
	return fmt.Sprintf("%s fiyatı %s.", p.Name, p.Price)
}

func (r *Responder) stockReply(turn *models.ResolvedTurn) string {
	p, ok := r.product(turn)
	if !ok {
		return "Hangi ürünün stok durumunu sormuştunuz?"
	}
	if turn.Size != "" {
		if sizeListed(p.Sizes, turn.Size) {
			return fmt.Sprintf("Evet, %s %s bedeni stoklarımızda mevcut.", p.Name, turn.Size)
		}
		return fmt.Sprintf("Maalesef %s %s bedeni şu an stokta yok. Mevcut bedenler: %s.", p.Name, turn.Size, p.Sizes)
	}
	return fmt.Sprintf("%s stoklarımızda mevcut. Bedenler: %s.", p.Name, p.Sizes)
}

func (r *Responder) materialReply(turn *models.ResolvedTurn) string {
	p, ok := r.product(turn)
	if !ok {
		return "Hangi ürünün malzemesini sormuştunuz?"
	}
	if p.Material == "" {
		return fmt.Sprintf("%s için malzeme bilgisi şu an elimizde yok.", p.Name)
	}
	return fmt.Sprintf("%s malzemesi: %s.", p.Name, p.Material)
}

func (r *Responder) infoReply(turn *models.ResolvedTurn) string {
	p, ok := r.product(turn)
	if !ok {
		return "Hangi ürün hakkında bilgi almak istersiniz?"
	}
	if p.Info == "" {
		return fmt.Sprintf("%s, %s fiyatıyla satışta. Bedenler: %s.", p.Name, p.Price, p.Sizes)
	}
	return fmt.Sprintf("%s: %s", p.Name, p.Info)
}

func (r *Responder) recommendReply() string {
	names := make([]string, 0, len(r.index.Products()))
	for _, p := range r.index.Products() {
		names = append(names, p.Name)
	}
	return fmt.Sprintf("Size şunları önerebilirim: %s. Hangisi hakkında bilgi vermemi istersiniz?", strings.Join(names, ", "))
}

// clarificationPrompt is the fixed ambiguous-category question.
func clarificationPrompt(term string, options []string) string {
	return fmt.Sprintf("'%s' ile ilgili birkaç ürünümüz var: %s. Hangisini sormuştunuz?",
		titleTurkish(term), strings.Join(options, ", "))
}

func sizeListed(sizes, size string) bool {
	for _, s := range strings.Split(sizes, ",") {
		if strings.EqualFold(strings.TrimSpace(s), size) {
			return true
		}
	}
	return false
}

func titleTurkish(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	switch runes[0] {
	case 'i':
		runes[0] = 'İ'
	case 'ı':
		runes[0] = 'I'
	default:
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}
