// internal/tenant/resolver.go
package tenant

import (
	"strings"

	"github.com/gosimple/slug"
)

// Geographic centre of South Africa, used as the map viewport for
// tenants synthesized from an override with no config file.
const (
	fallbackLat = -28.4793
	fallbackLng = 24.6727
)

// Resolver picks the active tenant for an execution context. Resolution
// never fails; every path ends at a usable Config.
type Resolver struct {
	registry *Registry

	// activeTown is the process-wide override (the TOWN environment
	// variable, captured at startup). Empty means fall through to
	// hostname resolution.
	activeTown string
}

func NewResolver(registry *Registry, activeTown string) *Resolver {
	return &Resolver{registry: registry, activeTown: activeTown}
}

// Resolve returns the tenant config for a request, in priority order:
//
//  1. the process-wide town override, synthesizing a minimal config when
//     the named town has no config file;
//  2. exact hostname match against the domain table;
//  3. leftmost subdomain label match against known slugs;
//  4. the hard-coded default tenant.
func (r *Resolver) Resolve(host string) *Config {
	if r.activeTown != "" {
		s := slug.Make(r.activeTown)
		if cfg := r.registry.Get(s); cfg != nil {
			return cfg
		}
		return synthesize(r.activeTown, s)
	}

	host = normalizeHost(host)

	if cfg := r.registry.byDomain[host]; cfg != nil {
		return cfg
	}

	if label, _, found := strings.Cut(host, "."); found {
		if cfg := r.registry.Get(label); cfg != nil {
			return cfg
		}
	}

	return r.registry.Default()
}

// normalizeHost strips the port and lowercases, so "Vaalwater.example.com:8080"
// and "vaalwater.example.com" resolve identically.
func normalizeHost(host string) string {
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return strings.ToLower(strings.TrimSpace(host))
}

// synthesize builds a minimal config for an override town with no file:
// default branding, default pricing, empty data arrays, and a map
// viewport centred on South Africa. Launching a new town must never
// require a code change to see data.
func synthesize(town, townSlug string) *Config {
	return &Config{
		Slug: townSlug,
		Town: town,
		Branding: Branding{
			DisplayName:    town + " Connect",
			PrimaryColor:   "#1a5632",
			SecondaryColor: "#f5a623",
		},
		Map: MapView{Lat: fallbackLat, Lng: fallbackLng, Zoom: 6},
		Pricing: TierPricing{
			Standard: 0,
			Premium:  99,
			Gold:     199,
		},
		Jobs:          []map[string]interface{}{},
		Events:        []map[string]interface{}{},
		Classifieds:   []map[string]interface{}{},
		Properties:    []map[string]interface{}{},
		Announcements: []map[string]interface{}{},
	}
}
