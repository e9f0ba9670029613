// internal/tenant/registry.go
package tenant

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	stderrors "town-connect/internal/common/errors"
	"town-connect/internal/common/logger"
)

// configSchema is the contract every tenant file must satisfy before it
// is allowed into the registry. A bad file fails startup loudly instead
// of producing a half-configured town in production.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["slug", "town", "sheets", "branding", "map", "pricing"],
  "properties": {
    "slug": {"type": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
    "town": {"type": "string", "minLength": 1},
    "domains": {"type": "array", "items": {"type": "string"}},
    "sheets": {
      "type": "object",
      "required": ["businesses"],
      "properties": {
        "businesses": {"type": "string", "format": "uri"},
        "emergency": {"type": "string"},
        "ledger": {"type": "string"}
      }
    },
    "branding": {
      "type": "object",
      "required": ["displayName", "primaryColor", "secondaryColor"],
      "properties": {
        "displayName": {"type": "string", "minLength": 1},
        "primaryColor": {"type": "string"},
        "secondaryColor": {"type": "string"}
      }
    },
    "map": {
      "type": "object",
      "required": ["lat", "lng", "zoom"],
      "properties": {
        "lat": {"type": "number"},
        "lng": {"type": "number"},
        "zoom": {"type": "integer", "minimum": 1, "maximum": 20}
      }
    },
    "pricing": {
      "type": "object",
      "required": ["standard", "premium", "gold"],
      "properties": {
        "standard": {"type": "number", "minimum": 0},
        "premium": {"type": "number", "minimum": 0},
        "gold": {"type": "number", "minimum": 0}
      }
    },
    "whatsapp": {"type": "string"}
  }
}`

// Registry holds every known tenant config, keyed by slug, plus the
// domain table used for hostname resolution.
type Registry struct {
	configs     map[string]*Config
	byDomain    map[string]*Config
	defaultSlug string
	logger      logger.Logger
}

// NewRegistry loads and validates every *.json file under dir.
func NewRegistry(dir, defaultSlug string, log logger.Logger) (*Registry, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing tenant configs: %w", err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(configSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling tenant schema: %w", err)
	}

	reg := &Registry{
		configs:     make(map[string]*Config),
		byDomain:    make(map[string]*Config),
		defaultSlug: defaultSlug,
		logger:      log,
	}

	for _, file := range files {
		if strings.HasSuffix(file, ".schema.json") {
			continue
		}
		cfg, err := loadConfigFile(file, schema)
		if err != nil {
			return nil, err
		}
		reg.configs[cfg.Slug] = cfg
		for _, domain := range cfg.Domains {
			reg.byDomain[strings.ToLower(domain)] = cfg
		}
		log.Info("tenant config loaded", map[string]interface{}{
			"slug": cfg.Slug,
			"town": cfg.Town,
		})
	}

	if _, ok := reg.configs[defaultSlug]; !ok {
		return nil, stderrors.NewTenantConfigInvalidError(dir,
			fmt.Sprintf("default tenant %q has no config file", defaultSlug))
	}

	return reg, nil
}

func loadConfigFile(path string, schema *gojsonschema.Schema) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stderrors.NewTenantConfigInvalidError(path, err.Error())
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, stderrors.NewTenantConfigInvalidError(path, err.Error())
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return nil, stderrors.NewTenantConfigInvalidError(path, strings.Join(details, "; "))
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, stderrors.NewTenantConfigInvalidError(path, err.Error())
	}
	return &cfg, nil
}

// Get returns the config for a slug, or nil.
func (r *Registry) Get(slug string) *Config {
	return r.configs[slug]
}

// Default returns the hard-coded fallback tenant.
func (r *Registry) Default() *Config {
	return r.configs[r.defaultSlug]
}

// Slugs lists known tenant slugs.
func (r *Registry) Slugs() []string {
	slugs := make([]string, 0, len(r.configs))
	for s := range r.configs {
		slugs = append(slugs, s)
	}
	return slugs
}
