package search

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"town-connect/internal/directory/listing"
	"town-connect/internal/tenant"
)

func sampleRecords() []listing.BusinessRecord {
	return []listing.BusinessRecord{
		{Name: "Joe's Garage", Subcategory: "mechanic", Phone: "0141234567"},
		{Name: "Bosveld Plumbing", Subcategory: "plumber", Tags: []string{"geyser", "solar"}},
		{Name: "The Nail Bar", Subcategory: "nails"},
	}
}

func searchTenant() *tenant.Config {
	return &tenant.Config{
		Slug:     "vaalwater",
		Town:     "Vaalwater",
		Branding: tenant.Branding{DisplayName: "Vaalwater Connect"},
	}
}

func TestMatch(t *testing.T) {
	rec := listing.BusinessRecord{
		Name:        "Bosveld Plumbing",
		Subcategory: "plumber",
		Tags:        []string{"geyser", "Solar Installs"},
	}

	assert.True(t, Match(rec, "plumb"))
	assert.True(t, Match(rec, "BOSVELD"))
	assert.True(t, Match(rec, "geyser"))
	assert.True(t, Match(rec, "solar"))
	assert.False(t, Match(rec, "bakery"))
	assert.False(t, Match(rec, ""))
	assert.False(t, Match(rec, "   "))
}

func TestQuery_CapsResults(t *testing.T) {
	var records []listing.BusinessRecord
	for i := 0; i < 10; i++ {
		records = append(records, listing.BusinessRecord{
			Name:        fmt.Sprintf("Plumber %d", i),
			Subcategory: "plumber",
		})
	}

	svc := NewService(6)
	matches := svc.Query(records, "plumber", "vaalwater")

	require.Len(t, matches, 6)
	assert.Equal(t, "Plumber 0", matches[0].Name)
	assert.Equal(t, "Plumber 5", matches[5].Name)
}

func TestReply_WithResults(t *testing.T) {
	svc := NewService(6)

	reply := svc.Reply(searchTenant(), sampleRecords(), "mechanic")

	assert.Contains(t, reply, "1 result(s)")
	assert.Contains(t, reply, "Joe's Garage")
	assert.Contains(t, reply, "0141234567")
	assert.NotContains(t, reply, "Nail Bar")
}

func TestReply_NoResultsHasCallToAction(t *testing.T) {
	svc := NewService(6)

	reply := svc.Reply(searchTenant(), sampleRecords(), "helicopter")

	assert.Contains(t, reply, "No results")
	assert.Contains(t, reply, "helicopter")
	assert.Contains(t, strings.ToLower(reply), "register")
}

func TestNewService_DefaultCap(t *testing.T) {
	svc := NewService(0)
	assert.Equal(t, DefaultMaxResults, svc.maxResults)
}
