package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"town-connect/internal/common/config"
	"town-connect/internal/common/logger"
	"town-connect/internal/directory/catalog"
	"town-connect/internal/notify"
	"town-connect/internal/payfast"
	"town-connect/internal/payments"
	"town-connect/internal/search"
	"town-connect/internal/tenant"
)

const testBusinessesURL = "https://sheets.test/businesses.csv"

type stubProvider struct {
	bodies map[string]string
	err    error
}

func (p *stubProvider) Fetch(ctx context.Context, u string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.bodies[u], nil
}

type stubLedger struct {
	entries []payments.Entry
	err     error
}

func (l *stubLedger) Append(ctx context.Context, entry payments.Entry) error {
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, entry)
	return nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func testRegistry(t *testing.T) *tenant.Registry {
	t.Helper()
	dir := t.TempDir()
	cfgJSON := `{
	  "slug": "vaalwater",
	  "town": "Vaalwater",
	  "domains": ["vaalwaterconnect.co.za"],
	  "sheets": {"businesses": "` + testBusinessesURL + `"},
	  "branding": {"displayName": "Vaalwater Connect", "primaryColor": "#1a5632", "secondaryColor": "#f5a623"},
	  "map": {"lat": -24.2936, "lng": 28.1076, "zoom": 13},
	  "pricing": {"standard": 0, "premium": 99, "gold": 199}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vaalwater.json"), []byte(cfgJSON), 0o644))
	reg, err := tenant.NewRegistry(dir, "vaalwater", logger.NewNoOpLogger())
	require.NoError(t, err)
	return reg
}

type fixture struct {
	server   *Server
	provider *stubProvider
	ledger   *stubLedger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	provider := &stubProvider{bodies: map[string]string{
		testBusinessesURL: "id,name,town,subcategory,phone\n1,Joe's Garage,Vaalwater,mechanic,0141234567\n2,Bosveld Plumbing,Vaalwater,plumber,\n",
	}}
	ledger := &stubLedger{}

	cfg := &config.Config{}
	cfg.App.Name = "town-connect"
	cfg.App.Version = "test"
	cfg.PayFast.Passphrase = "secret"

	srv := New(
		cfg,
		logger.NewNoOpLogger(),
		tenant.NewResolver(testRegistry(t), ""),
		catalog.NewService(provider, time.Minute, logger.NewNoOpLogger()),
		search.NewService(6),
		ledger,
		notify.NoOpNotifier{},
		stubPinger{},
	)

	return &fixture{server: srv, provider: provider, ledger: ledger}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "town-connect")
}

func TestReady(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReady_BackingStoreDown(t *testing.T) {
	f := newFixture(t)
	f.server.pingers = append(f.server.pingers, stubPinger{err: errors.New("redis down")})

	w := f.do(httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetTenant(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tenant", nil)
	req.Host = "vaalwaterconnect.co.za"
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Vaalwater Connect"`)
}

func TestGetPricing(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/pricing", nil)
	req.Host = "vaalwaterconnect.co.za"
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"gold":199`)
	assert.Contains(t, w.Body.String(), `"currency":"ZAR"`)
}

func TestGetBusinesses(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/businesses", nil)
	req.Host = "vaalwaterconnect.co.za"
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Joe's Garage")
	assert.Contains(t, w.Body.String(), `"sectorId":"automotive"`)
}

func TestGetBusinesses_SectorFilter(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/businesses?sector=home-services", nil)
	req.Host = "vaalwaterconnect.co.za"
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bosveld Plumbing")
	assert.NotContains(t, w.Body.String(), "Joe's Garage")
}

func TestGetBusinesses_FetchFailure(t *testing.T) {
	f := newFixture(t)
	f.provider.err = errors.New("network down")

	req := httptest.NewRequest(http.MethodGet, "/api/businesses", nil)
	req.Host = "vaalwaterconnect.co.za"
	w := f.do(req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWhatsAppBot(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"Body": {"plumber"}}
	req := httptest.NewRequest(http.MethodPost, "/bot/whatsapp", strings.NewReader(form.Encode()))
	req.Host = "vaalwaterconnect.co.za"
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bosveld Plumbing")
	assert.NotContains(t, w.Body.String(), "Joe's Garage")
}

func TestWhatsAppBot_NoResults(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"Body": {"helicopter"}}
	req := httptest.NewRequest(http.MethodPost, "/bot/whatsapp", strings.NewReader(form.Encode()))
	req.Host = "vaalwaterconnect.co.za"
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No results")
}

func itnForm(passphrase, status string) url.Values {
	form := url.Values{
		"merchant_id":    {"10000100"},
		"pf_payment_id":  {"1089250"},
		"payment_status": {status},
		"item_name":      {"Premium Listing - Joe's Garage"},
		"amount_gross":   {"99.00"},
		"amount_net":     {"96.72"},
		"email_address":  {"owner@example.co.za"},
	}
	form.Set("signature", payfast.Sign(form, passphrase))
	return form
}

func postITN(f *fixture, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payfast", strings.NewReader(form.Encode()))
	req.Host = "vaalwaterconnect.co.za"
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

func TestPayFast_CompleteRecordsPayment(t *testing.T) {
	f := newFixture(t)

	w := postITN(f, itnForm("secret", payfast.StatusComplete))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.ledger.entries, 1)
	entry := f.ledger.entries[0]
	assert.Equal(t, "1089250", entry.PaymentID)
	assert.Equal(t, "vaalwater", entry.TenantSlug)
	assert.NotEmpty(t, entry.ID)
}

func TestPayFast_InvalidSignatureRejected(t *testing.T) {
	f := newFixture(t)

	form := itnForm("wrong-passphrase", payfast.StatusComplete)
	w := postITN(f, form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.ledger.entries)
}

func TestPayFast_NonCompleteIgnored(t *testing.T) {
	f := newFixture(t)

	w := postITN(f, itnForm("secret", payfast.StatusPending))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.ledger.entries)
}

func TestPayFast_LedgerFailure(t *testing.T) {
	f := newFixture(t)
	f.ledger.err = errors.New("db down")

	w := postITN(f, itnForm("secret", payfast.StatusComplete))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUnknownHostFallsBackToDefaultTenant(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tenant", nil)
	req.Host = "unknown.example.com"
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"vaalwater"`)
}
