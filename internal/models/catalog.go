package models

// Product is a read-only catalog entry. ID is the stable identity; the
// display name is presentation and may change without breaking sessions.
type Product struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Category string `json:"category" db:"category"`
	Price    string `json:"price" db:"price"`
	Sizes    string `json:"availableSizesInfo" db:"available_sizes_info"`
	Material string `json:"materialComposition" db:"material_composition"`
	Info     string `json:"description" db:"description"`
	Link     string `json:"link" db:"link"`
}

// BusinessFacts holds the static business information answers are built from.
type BusinessFacts struct {
	Name           string `json:"name" db:"name"`
	Phone          string `json:"phone" db:"phone"`
	WhatsApp       string `json:"whatsappNumber" db:"whatsapp_number"`
	Email          string `json:"email" db:"email"`
	Address        string `json:"address" db:"address"`
	MapsLink       string `json:"mapsLink" db:"maps_link"`
	Website        string `json:"website" db:"website"`
	ShippingInfo   string `json:"shippingInfo" db:"shipping_info"`
	ReturnPolicy   string `json:"returnPolicy" db:"return_policy"`
	OpeningHours   string `json:"openingHours" db:"opening_hours"`
	PaymentOptions string `json:"paymentOptions" db:"payment_options"`
}
