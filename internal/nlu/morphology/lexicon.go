package morphology

// Built-in lemma lexicon. Covers the retail vocabulary the pipeline
// actually sees plus the common question and filler words around it.
// Unknown words still get a rule-only strip, just at lower confidence.

var lexiconNouns = []string{
	// products and categories
	"pantolon", "gömlek", "ceket", "kaban", "mont", "elbise", "etek",
	"kazak", "tişört", "bluz", "ayakkabı", "çanta", "kemer", "atkı",
	// materials
	"keten", "ipek", "deri", "kot", "pamuk", "yün", "kadife", "kumaş",
	"polyester", "viskon", "iplik", "malzeme", "materyal",
	// commerce
	"fiyat", "ücret", "para", "stok", "beden", "numara", "renk", "model",
	"ürün", "sipariş", "kargo", "teslimat", "iade", "değişim", "indirim",
	"kampanya", "ödeme", "taksit", "havale", "kart", "kasa", "fatura",
	// store and contact
	"mağaza", "dükkan", "butik", "adres", "konum", "şube", "telefon",
	"numara", "mail", "posta", "site", "saat", "gün", "hafta",
	"müşteri", "temsilci", "yetkili", "destek", "operatör", "insan",
	// generic
	"bilgi", "özellik", "detay", "açıklama", "soru", "cevap", "yardım",
	"şey", "su", "içerik", "tavsiye", "öneri", "haber",
	"merhaba", "selam", "teşekkür", "akşam", "sabah", "öğle",
}

var lexiconAdjectives = []string{
	"güzel", "ucuz", "pahalı", "yeni", "eski", "büyük", "küçük",
	"kırmızı", "mavi", "siyah", "beyaz", "yeşil", "lacivert", "bej",
	"mevcut", "açık", "kapalı", "uygun", "kaliteli",
}

var lexiconVerbs = []string{
	"almak", "satmak", "bakmak", "sormak", "istemek", "gelmek",
	"gitmek", "olmak", "kalmak", "bulmak", "değiştirmek", "göndermek",
}
