package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"butik-nlu/internal/catalog"
	"butik-nlu/internal/common/logger"
	"butik-nlu/internal/nlu"
	"butik-nlu/internal/nlu/entity"
	"butik-nlu/internal/nlu/intent"
	"butik-nlu/internal/nlu/morphology"
	"butik-nlu/internal/nlu/normalize"
	"butik-nlu/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	products, facts, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	reducer := morphology.NewReducer(morphology.NewAnalyzer())
	idx := catalog.NewIndex(products, facts, reducer)

	model, err := intent.DefaultModel()
	require.NoError(t, err)

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { store.Close() })

	pipeline := nlu.NewPipeline(
		normalize.New(normalize.DefaultDictionary()),
		reducer,
		intent.NewDetector(intent.WithModel(model)),
		entity.NewResolver(idx),
		store,
	)
	srv := NewServer(pipeline, NewResponder(idx), Health{
		SpellingDictionary: true,
		Lemmatizer:         true,
		IntentModel:        true,
	}, logger.NewTestLogger(t))

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postQuery(t *testing.T, ts *httptest.Server, query, sessionID string) (int, processQueryResponse) {
	t.Helper()
	body, err := json.Marshal(processQueryRequest{Query: query, SessionID: sessionID})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/process_query", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out processQueryResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestProcessQueryPriceFlow(t *testing.T) {
	ts := newTestServer(t)

	status, out := postQuery(t, ts, "Keten Pantolonun fiyatı ne kadar?", "")
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "Keten Pantolonun fiyatı ne kadar?", out.OriginalQuery)
	assert.NotEmpty(t, out.SessionID)
	assert.Equal(t, "fiyat_sorgulama", out.DetectedIntent)
	assert.Equal(t, "Keten Pantolon", out.ResolvedProduct)
	assert.False(t, out.AskForClarification)
	assert.Contains(t, out.BotResponse, "850 TL")
}

func TestProcessQueryTrailingSlash(t *testing.T) {
	ts := newTestServer(t)

	body, err := json.Marshal(processQueryRequest{Query: "merhaba"})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/process_query/", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out processQueryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "selamlama", out.DetectedIntent)
}

func TestProcessQueryClarificationFlow(t *testing.T) {
	ts := newTestServer(t)

	status, out := postQuery(t, ts, "pantolon fiyatları nedir?", "")
	require.Equal(t, http.StatusOK, status)

	assert.True(t, out.AskForClarification)
	assert.Equal(t, []string{"Keten Pantolon", "Kot Pantolon"}, out.ClarificationOptions)
	assert.Equal(t,
		"'Pantolon' ile ilgili birkaç ürünümüz var: Keten Pantolon, Kot Pantolon. Hangisini sormuştunuz?",
		out.BotResponse)
}

func TestProcessQueryCarryoverFlow(t *testing.T) {
	ts := newTestServer(t)

	status, first := postQuery(t, ts, "İpek Gömleğin fiyatı ne kadar?", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "İpek Gömlek", first.ResolvedProduct)

	status, second := postQuery(t, ts, "M bedeni var mı?", first.SessionID)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "stok_sorgulama", second.DetectedIntent)
	assert.Equal(t, "İpek Gömlek", second.ResolvedProduct)
	assert.Equal(t, "M", second.ResolvedSize)
	assert.Equal(t, "İpek Gömleğin fiyatı ne kadar?", second.PreviousQueryInSession)
	assert.Contains(t, second.BotResponse, "mevcut")
}

func TestProcessQueryEmptyUtterance(t *testing.T) {
	ts := newTestServer(t)

	status, _ := postQuery(t, ts, "   ", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProcessQueryInvalidBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/process_query", "application/json", strings.NewReader("bozuk"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcessQueryMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/process_query")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestProcessQueryHumanHandoff(t *testing.T) {
	ts := newTestServer(t)

	status, out := postQuery(t, ts, "müşteri temsilcisine bağlar mısın", "")
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "insana_aktar", out.DetectedIntent)
	assert.NotEmpty(t, out.ActionableMessage)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status    string `json:"status"`
		Resources Health `json:"resources"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.Resources.IntentModel)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// Resolve one turn so counters exist.
	status, _ := postQuery(t, ts, "merhaba", "")
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "nlu_turns_resolved_total")
}
