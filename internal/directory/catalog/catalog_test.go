package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"town-connect/internal/common/logger"
	"town-connect/internal/tenant"
)

// stubProvider serves canned CSV per URL and can block a fetch until
// released, which lets tests interleave slow and fast refreshes.
type stubProvider struct {
	mu      sync.Mutex
	bodies  map[string]string
	blocked map[string]chan struct{}
	fetches int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		bodies:  make(map[string]string),
		blocked: make(map[string]chan struct{}),
	}
}

func (p *stubProvider) set(url, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies[url] = body
}

func (p *stubProvider) block(url string) chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan struct{})
	p.blocked[url] = ch
	return ch
}

func (p *stubProvider) Fetch(ctx context.Context, url string) (string, error) {
	p.mu.Lock()
	gate := p.blocked[url]
	body := p.bodies[url]
	p.fetches++
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return body, nil
}

func testTenant() *tenant.Config {
	return &tenant.Config{
		Slug: "vaalwater",
		Town: "Vaalwater",
		Sheets: tenant.SheetURLs{
			Businesses: "https://sheets.test/businesses.csv",
			Emergency:  "https://sheets.test/emergency.csv",
		},
	}
}

func TestRefresh_BuildsFilteredSnapshot(t *testing.T) {
	provider := newStubProvider()
	provider.set("https://sheets.test/businesses.csv",
		"id,name,town,subcategory\n1,Joe's Garage,Vaalwater,mechanic\n2,Far Away Spares,Modimolle,spares\n3,Provincial Towing,,towing\n")
	provider.set("https://sheets.test/emergency.csv",
		"id,town,province,category,service_name,primary_phone,secondary_phone,whatsapp,ussd,email,hours,coverage_area\ne1,Vaalwater,Limpopo,police,SAPS Vaalwater,10111,,,,,,\n")

	svc := NewService(provider, time.Minute, logger.NewNoOpLogger())

	snap, err := svc.Refresh(context.Background(), testTenant())

	require.NoError(t, err)
	require.Len(t, snap.Businesses, 2)
	assert.Equal(t, "Joe's Garage", snap.Businesses[0].Name)
	assert.Equal(t, "Provincial Towing", snap.Businesses[1].Name)
	require.Len(t, snap.Emergency, 1)
	assert.Equal(t, "SAPS Vaalwater", snap.Emergency[0].ServiceName)
}

func TestRefresh_EmergencyScopedToTown(t *testing.T) {
	provider := newStubProvider()
	provider.set("https://sheets.test/businesses.csv", "id,name\n1,Joe's Garage\n")
	provider.set("https://sheets.test/emergency.csv",
		"id,town,province,category,service_name,primary_phone,secondary_phone,whatsapp,ussd,email,hours,coverage_area\n"+
			"e1,Vaalwater,Limpopo,police,SAPS Vaalwater,10111,,,,,,\n"+
			"e2,Modimolle,Limpopo,police,SAPS Modimolle,10111,,,,,,\n"+
			"e3,,Limpopo,medical,Provincial Ambulance,10177,,,,,,\n")

	svc := NewService(provider, time.Minute, logger.NewNoOpLogger())

	snap, err := svc.Refresh(context.Background(), testTenant())

	require.NoError(t, err)
	require.Len(t, snap.Emergency, 2)
	assert.Equal(t, "SAPS Vaalwater", snap.Emergency[0].ServiceName)
	assert.Equal(t, "Provincial Ambulance", snap.Emergency[1].ServiceName)
}

func TestRefresh_EmergencyFailureKeepsBusinesses(t *testing.T) {
	provider := newStubProvider()
	provider.set("https://sheets.test/businesses.csv", "id,name\n1,Joe's Garage\n")
	// Emergency URL left unset yields an empty body, which parses to nothing.

	svc := NewService(provider, time.Minute, logger.NewNoOpLogger())

	snap, err := svc.Refresh(context.Background(), testTenant())

	require.NoError(t, err)
	assert.Len(t, snap.Businesses, 1)
	assert.Empty(t, snap.Emergency)
}

func TestRefresh_StaleResponseNeverOverwritesNewer(t *testing.T) {
	provider := newStubProvider()
	cfg := testTenant()
	cfg.Sheets.Emergency = ""

	provider.set(cfg.Sheets.Businesses, "id,name\n1,Old Listing\n")
	gate := provider.block(cfg.Sheets.Businesses)

	svc := NewService(provider, time.Minute, logger.NewNoOpLogger())

	// First refresh is issued but stalls inside the fetch.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Refresh(context.Background(), cfg)
		assert.NoError(t, err)
	}()

	// Second refresh is issued later, sees new data, and commits first.
	provider.mu.Lock()
	delete(provider.blocked, cfg.Sheets.Businesses)
	provider.bodies[cfg.Sheets.Businesses] = "id,name\n1,New Listing\n"
	provider.mu.Unlock()

	_, err := svc.Refresh(context.Background(), cfg)
	require.NoError(t, err)

	// Release the stale fetch; its response must be discarded.
	provider.mu.Lock()
	provider.bodies[cfg.Sheets.Businesses] = "id,name\n1,Old Listing\n"
	provider.mu.Unlock()
	close(gate)
	wg.Wait()

	snap := svc.Snapshot(cfg.Slug)
	require.NotNil(t, snap)
	require.Len(t, snap.Businesses, 1)
	assert.Equal(t, "New Listing", snap.Businesses[0].Name)
}

func TestBusinesses_RefreshesOnFirstUse(t *testing.T) {
	provider := newStubProvider()
	cfg := testTenant()
	cfg.Sheets.Emergency = ""
	provider.set(cfg.Sheets.Businesses, "id,name\n1,Joe's Garage\n")

	svc := NewService(provider, time.Minute, logger.NewNoOpLogger())

	require.Nil(t, svc.Snapshot(cfg.Slug))

	records, err := svc.Businesses(context.Background(), cfg)

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.NotNil(t, svc.Snapshot(cfg.Slug))
}

func TestBusinesses_ServesSnapshotWithinMaxAge(t *testing.T) {
	provider := newStubProvider()
	cfg := testTenant()
	cfg.Sheets.Emergency = ""
	provider.set(cfg.Sheets.Businesses, "id,name\n1,Joe's Garage\n")

	svc := NewService(provider, time.Minute, logger.NewNoOpLogger())

	_, err := svc.Businesses(context.Background(), cfg)
	require.NoError(t, err)
	_, err = svc.Businesses(context.Background(), cfg)
	require.NoError(t, err)

	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.Equal(t, 1, provider.fetches)
}

func TestBusinesses_AgedSnapshotTriggersRefetch(t *testing.T) {
	provider := newStubProvider()
	cfg := testTenant()
	cfg.Sheets.Emergency = ""
	provider.set(cfg.Sheets.Businesses, "id,name\n1,Old Listing\n")

	svc := NewService(provider, time.Minute, logger.NewNoOpLogger())

	_, err := svc.Businesses(context.Background(), cfg)
	require.NoError(t, err)

	// Age the committed snapshot past maxAge and change the sheet.
	st := svc.state(cfg.Slug)
	st.mu.Lock()
	st.snapshot.FetchedAt = time.Now().UTC().Add(-2 * time.Minute)
	st.mu.Unlock()
	provider.set(cfg.Sheets.Businesses, "id,name\n1,New Listing\n")

	records, err := svc.Businesses(context.Background(), cfg)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "New Listing", records[0].Name)
}

func TestBusinesses_ZeroMaxAgeRefreshesEveryRead(t *testing.T) {
	provider := newStubProvider()
	cfg := testTenant()
	cfg.Sheets.Emergency = ""
	provider.set(cfg.Sheets.Businesses, "id,name\n1,Joe's Garage\n")

	svc := NewService(provider, 0, logger.NewNoOpLogger())

	_, err := svc.Businesses(context.Background(), cfg)
	require.NoError(t, err)
	_, err = svc.Businesses(context.Background(), cfg)
	require.NoError(t, err)

	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.Equal(t, 2, provider.fetches)
}
