// Package search answers inbound WhatsApp keyword queries against the
// tenant's business snapshot.
package search

import (
	"fmt"
	"strings"

	"town-connect/internal/common/metrics"
	"town-connect/internal/directory/listing"
	"town-connect/internal/tenant"
)

// DefaultMaxResults caps a WhatsApp reply; more than a handful of
// entries is unreadable on a phone.
const DefaultMaxResults = 6

// Service matches free-text keywords against name, subcategory, and tags.
type Service struct {
	maxResults int
}

func NewService(maxResults int) *Service {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Service{maxResults: maxResults}
}

// Match reports whether a record matches the keyword. Matching is
// case-insensitive substring containment over name, subcategory, and
// each tag.
func Match(rec listing.BusinessRecord, keyword string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return false
	}
	if strings.Contains(strings.ToLower(rec.Name), kw) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Subcategory), kw) {
		return true
	}
	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), kw) {
			return true
		}
	}
	return false
}

// Query returns at most maxResults matching records in snapshot order.
func (s *Service) Query(records []listing.BusinessRecord, keyword string, tenantSlug string) []listing.BusinessRecord {
	var matches []listing.BusinessRecord
	for _, rec := range records {
		if Match(rec, keyword) {
			matches = append(matches, rec)
			if len(matches) == s.maxResults {
				break
			}
		}
	}

	outcome := "results"
	if len(matches) == 0 {
		outcome = "empty"
	}
	metrics.SearchQueries.WithLabelValues(tenantSlug, outcome).Inc()

	return matches
}

// Reply formats the WhatsApp text response for a query.
func (s *Service) Reply(cfg *tenant.Config, records []listing.BusinessRecord, keyword string) string {
	matches := s.Query(records, keyword, cfg.Slug)

	if len(matches) == 0 {
		return fmt.Sprintf(
			"No results for %q in %s.\n\nOwn a business here? Register it free on %s and be found next time!",
			strings.TrimSpace(keyword), cfg.Town, cfg.Branding.DisplayName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d result(s) for %q in %s:\n", len(matches), strings.TrimSpace(keyword), cfg.Town)
	for i, rec := range matches {
		fmt.Fprintf(&b, "\n%d. %s", i+1, rec.Name)
		if rec.Subcategory != "" {
			fmt.Fprintf(&b, " (%s)", rec.Subcategory)
		}
		if rec.Phone != "" {
			fmt.Fprintf(&b, "\n   📞 %s", rec.Phone)
		}
		if rec.WhatsApp != "" {
			fmt.Fprintf(&b, "\n   WhatsApp: %s", rec.WhatsApp)
		}
		if rec.Address != "" {
			fmt.Fprintf(&b, "\n   %s", rec.Address)
		}
		b.WriteString("\n")
	}
	return b.String()
}
