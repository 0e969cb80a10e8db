package intent

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "butik-nlu/internal/common/errors"
)

func trainingSamples() []Sample {
	return []Sample{
		{Label: "fiyat_sorgulama", Text: "fiyat ne kadar"},
		{Label: "fiyat_sorgulama", Text: "pantolon kaç para"},
		{Label: "fiyat_sorgulama", Text: "bu kaç tl"},
		{Label: "stok_sorgulama", Text: "beden var mı"},
		{Label: "stok_sorgulama", Text: "stok mevcut mu"},
		{Label: "selamlama", Text: "merhaba"},
		{Label: "selamlama", Text: "iyi gün"},
	}
}

func TestTrainAndPredict(t *testing.T) {
	m, err := Train(trainingSamples())
	require.NoError(t, err)

	label, conf, err := m.Predict("pantolon fiyat ne kadar")
	require.NoError(t, err)
	assert.Equal(t, "fiyat_sorgulama", label)
	assert.Greater(t, conf, 0.5)

	label, _, err = m.Predict("beden stok var mı")
	require.NoError(t, err)
	assert.Equal(t, "stok_sorgulama", label)
}

func TestTrainRejectsDegenerateData(t *testing.T) {
	_, err := Train(nil)
	assert.Error(t, err)

	_, err = Train([]Sample{{Label: "tek", Text: "tek etiket yetmez"}})
	assert.Error(t, err)
}

func TestSaveAndLoadModel(t *testing.T) {
	m, err := Train(trainingSamples())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, m.Save(path))

	loaded, err := LoadModel(path)
	require.NoError(t, err)

	// The loaded artifact predicts identically.
	wantLabel, wantConf, _ := m.Predict("stok var mı")
	gotLabel, gotConf, err := loaded.Predict("stok var mı")
	require.NoError(t, err)
	assert.Equal(t, wantLabel, gotLabel)
	assert.InDelta(t, wantConf, gotConf, 1e-12)
}

func TestLoadModelErrors(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeModelLoadFailed, apperrors.CodeOf(err))
}

func TestParseSamples(t *testing.T) {
	data := strings.Join([]string{
		"# yorum satırı",
		"",
		"__label__selamlama merhaba nasıl",
		"__label__fiyat_sorgulama fiyat ne kadar",
	}, "\n")

	samples, err := ParseSamples(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "selamlama", samples[0].Label)
	assert.Equal(t, "merhaba nasıl", samples[0].Text)

	_, err = ParseSamples(strings.NewReader("etiketsiz satır"))
	assert.Error(t, err)

	_, err = ParseSamples(strings.NewReader("__label__bos"))
	assert.Error(t, err)
}
