// Package catalog loads the product catalog and business facts from one of
// three sources (embedded default, JSON file, Postgres) and builds the
// lemma-keyed index entity extraction matches against.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "butik-nlu/internal/common/errors"
	"butik-nlu/internal/models"
)

//go:embed catalog.json
var embeddedCatalog []byte

//go:embed schema.json
var catalogSchema []byte

type catalogDocument struct {
	Products []models.Product     `json:"products"`
	Business models.BusinessFacts `json:"business"`
}

// LoadEmbedded returns the catalog compiled into the binary.
func LoadEmbedded() ([]models.Product, models.BusinessFacts, error) {
	return decodeCatalog(embeddedCatalog, "embedded")
}

// LoadFile reads and validates a catalog JSON file.
func LoadFile(path string) ([]models.Product, models.BusinessFacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.BusinessFacts{}, apperrors.NewCatalogLoadError(fmt.Sprintf("%s: %v", path, err))
	}
	return decodeCatalog(data, path)
}

func decodeCatalog(data []byte, source string) ([]models.Product, models.BusinessFacts, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(catalogSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, models.BusinessFacts{}, apperrors.NewCatalogLoadError(fmt.Sprintf("%s: %v", source, err))
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, models.BusinessFacts{}, apperrors.NewCatalogSchemaError(source+": "+strings.Join(problems, "; "))
	}

	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, models.BusinessFacts{}, apperrors.NewCatalogLoadError(fmt.Sprintf("%s: %v", source, err))
	}
	if err := checkUniqueIDs(doc.Products); err != nil {
		return nil, models.BusinessFacts{}, err
	}
	return doc.Products, doc.Business, nil
}

func checkUniqueIDs(products []models.Product) error {
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if seen[p.ID] {
			return apperrors.NewCatalogSchemaError(fmt.Sprintf("duplicate product id %q", p.ID))
		}
		seen[p.ID] = true
	}
	return nil
}

// LoadPostgres reads the catalog from the products and business_info tables.
func LoadPostgres(ctx context.Context, db *sql.DB) ([]models.Product, models.BusinessFacts, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, category, price,
		       COALESCE(available_sizes_info, ''),
		       COALESCE(material_composition, ''),
		       COALESCE(description, ''),
		       COALESCE(link, '')
		FROM products
		ORDER BY id`)
	if err != nil {
		return nil, models.BusinessFacts{}, apperrors.NewCatalogLoadError(fmt.Sprintf("postgres: %v", err))
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Sizes, &p.Material, &p.Info, &p.Link); err != nil {
			return nil, models.BusinessFacts{}, apperrors.NewCatalogLoadError(fmt.Sprintf("postgres: %v", err))
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, models.BusinessFacts{}, apperrors.NewCatalogLoadError(fmt.Sprintf("postgres: %v", err))
	}
	if len(products) == 0 {
		return nil, models.BusinessFacts{}, apperrors.NewCatalogLoadError("postgres: products table is empty")
	}

	var facts models.BusinessFacts
	err = db.QueryRowContext(ctx, `
		SELECT name, phone,
		       COALESCE(whatsapp_number, ''),
		       COALESCE(email, ''),
		       address,
		       COALESCE(maps_link, ''),
		       COALESCE(website, ''),
		       COALESCE(shipping_info, ''),
		       COALESCE(return_policy, ''),
		       COALESCE(opening_hours, ''),
		       COALESCE(payment_options, '')
		FROM business_info
		LIMIT 1`).Scan(
		&facts.Name, &facts.Phone, &facts.WhatsApp, &facts.Email,
		&facts.Address, &facts.MapsLink, &facts.Website,
		&facts.ShippingInfo, &facts.ReturnPolicy, &facts.OpeningHours,
		&facts.PaymentOptions)
	if err != nil {
		return nil, models.BusinessFacts{}, apperrors.NewCatalogLoadError(fmt.Sprintf("postgres: %v", err))
	}
	return products, facts, nil
}
