package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "butik-nlu/internal/common/errors"
	"butik-nlu/internal/models"
	"butik-nlu/internal/nlu/morphology"
)

func TestLoadEmbedded(t *testing.T) {
	products, facts, err := LoadEmbedded()
	require.NoError(t, err)

	assert.Len(t, products, 4)
	assert.Equal(t, "Mantarinyo Butik", facts.Name)
	assert.NotEmpty(t, facts.Phone)
	assert.NotEmpty(t, facts.OpeningHours)

	ids := make(map[string]bool)
	for _, p := range products {
		ids[p.ID] = true
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Category)
		assert.NotEmpty(t, p.Price)
	}
	assert.True(t, ids["keten-pantolon"])
	assert.True(t, ids["ipek-gomlek"])
}

func TestLoadFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		require.NoError(t, os.WriteFile(path, embeddedCatalog, 0o644))

		products, facts, err := LoadFile(path)
		require.NoError(t, err)
		assert.Len(t, products, 4)
		assert.Equal(t, "Mantarinyo Butik", facts.Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeCatalogLoadFailed, apperrors.CodeOf(err))
	})

	t.Run("schema violation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		bad := `{"products":[{"id":"x","name":"X"}],"business":{"name":"B","phone":"1","address":"A"}}`
		require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

		_, _, err := LoadFile(path)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeCatalogSchemaInvalid, apperrors.CodeOf(err))
	})

	t.Run("duplicate ids", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dup.json")
		dup := `{"products":[
			{"id":"a","name":"A","category":"c","price":"1 TL"},
			{"id":"a","name":"B","category":"c","price":"2 TL"}],
			"business":{"name":"B","phone":"1","address":"A"}}`
		require.NoError(t, os.WriteFile(path, []byte(dup), 0o644))

		_, _, err := LoadFile(path)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeCatalogSchemaInvalid, apperrors.CodeOf(err))
	})
}

func TestLoadPostgres(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	productRows := sqlmock.NewRows([]string{
		"id", "name", "category", "price", "available_sizes_info",
		"material_composition", "description", "link",
	}).
		AddRow("keten-pantolon", "Keten Pantolon", "pantolon", "850 TL", "S, M, L", "%100 keten", "", "").
		AddRow("deri-ceket", "Deri Ceket", "ceket", "3200 TL", "M, L", "gerçek deri", "", "")
	mock.ExpectQuery("SELECT id, name, category, price").WillReturnRows(productRows)

	factRows := sqlmock.NewRows([]string{
		"name", "phone", "whatsapp_number", "email", "address", "maps_link",
		"website", "shipping_info", "return_policy", "opening_hours", "payment_options",
	}).AddRow("Mantarinyo Butik", "0555 123 4567", "", "", "Kadıköy", "", "", "", "", "10:00 - 20:00", "")
	mock.ExpectQuery("SELECT name, phone").WillReturnRows(factRows)

	products, facts, err := LoadPostgres(context.Background(), db)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Keten Pantolon", products[0].Name)
	assert.Equal(t, "Mantarinyo Butik", facts.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPostgresEmpty(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, category, price").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "category", "price", "available_sizes_info",
			"material_composition", "description", "link",
		}))

	_, _, err = LoadPostgres(context.Background(), db)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCatalogLoadFailed, apperrors.CodeOf(err))
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	products, facts, err := LoadEmbedded()
	require.NoError(t, err)
	return NewIndex(products, facts, morphology.NewReducer(morphology.NewAnalyzer()))
}

func TestIndexLookups(t *testing.T) {
	idx := newTestIndex(t)

	p, ok := idx.ProductByID("deri-ceket")
	require.True(t, ok)
	assert.Equal(t, "Deri Ceket", p.Name)

	p, ok = idx.ProductByName("ipek gömlek")
	require.True(t, ok)
	assert.Equal(t, "ipek-gomlek", p.ID)

	// Dotted capital İ folds to plain i under the Turkish caser.
	p, ok = idx.ProductByName("İPEK GÖMLEK")
	require.True(t, ok)
	assert.Equal(t, "ipek-gomlek", p.ID)

	_, ok = idx.ProductByID("yok-boyle-urun")
	assert.False(t, ok)
}

func TestIndexLemmaNamesLongestFirst(t *testing.T) {
	idx := newTestIndex(t)

	names := idx.LemmaNames()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.GreaterOrEqual(t, names[i-1].Words, names[i].Words)
	}
	// Product names index under their lemma form.
	var found bool
	for _, ln := range names {
		if ln.Lemma == "keten pantolon" {
			found = true
			assert.Equal(t, "keten-pantolon", ln.ProductID)
		}
	}
	assert.True(t, found)
}

func TestIndexCategories(t *testing.T) {
	idx := newTestIndex(t)

	assert.True(t, idx.IsCategory("pantolon"))
	assert.False(t, idx.IsCategory("kaban"))

	options := idx.CategoryProducts("pantolon")
	assert.Equal(t, []string{"Keten Pantolon", "Kot Pantolon"}, options)
}

func TestIndexHasTerm(t *testing.T) {
	idx := newTestIndex(t)

	assert.True(t, idx.HasTerm("pantolon"))
	assert.True(t, idx.HasTerm("deri"))
	assert.True(t, idx.HasTerm("gömlek"))
	assert.False(t, idx.HasTerm("kaban"))
	assert.False(t, idx.HasTerm(""))
}

func TestIndexWithoutLemmatizer(t *testing.T) {
	products := []models.Product{
		{ID: "a", Name: "Keten Pantolon", Category: "Pantolon", Price: "1 TL"},
	}
	idx := NewIndex(products, models.BusinessFacts{}, nil)

	// Falls back to lowercased surface forms.
	assert.True(t, idx.IsCategory("pantolon"))
	require.NotEmpty(t, idx.LemmaNames())
	assert.Equal(t, "keten pantolon", idx.LemmaNames()[0].Lemma)
}
