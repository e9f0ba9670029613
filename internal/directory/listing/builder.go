// internal/directory/listing/builder.go
package listing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"town-connect/internal/directory/csvtable"
	"town-connect/internal/directory/sector"
)

// placeholderName marks rows whose sheet template was never filled in.
// Such rows are as useless as a blank name and are dropped the same way.
const placeholderName = "unnamed business"

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// columns holds the resolved index of every recognised business column.
// Sheets are maintained by different towns and header names drift, so each
// logical column carries an alias list; a missing column resolves to the
// NotFound sentinel and simply yields empty values.
type columns struct {
	id          int
	town        int
	sectorID    int
	subcategory int
	name        int
	description int
	phone       int
	whatsapp    int
	email       int
	website     int
	facebook    int
	instagram   int
	address     int
	lat         int
	lng         int
	tier        int
	isFeatured  int
	tags        int
	imageURL    int
}

func resolveColumns(headers []string) columns {
	return columns{
		id:          csvtable.FindColumn(headers, "id"),
		town:        csvtable.FindColumn(headers, "town", "town_name", "location"),
		sectorID:    csvtable.FindColumn(headers, "sectorid", "sector_id", "sector"),
		subcategory: csvtable.FindColumn(headers, "subcategory", "sub_category", "category"),
		name:        csvtable.FindColumn(headers, "name", "business_name", "businessname"),
		description: csvtable.FindColumn(headers, "description", "desc"),
		phone:       csvtable.FindColumn(headers, "phone", "phone_number", "tel", "contact"),
		whatsapp:    csvtable.FindColumn(headers, "whatsapp", "whatsapp_number"),
		email:       csvtable.FindColumn(headers, "email", "email_address"),
		website:     csvtable.FindColumn(headers, "website", "url", "web"),
		facebook:    csvtable.FindColumn(headers, "facebook", "fb"),
		instagram:   csvtable.FindColumn(headers, "instagram", "ig"),
		address:     csvtable.FindColumn(headers, "address", "street_address", "physical_address"),
		lat:         csvtable.FindColumn(headers, "lat", "latitude"),
		lng:         csvtable.FindColumn(headers, "lng", "lon", "longitude"),
		tier:        csvtable.FindColumn(headers, "tier", "plan", "package"),
		isFeatured:  csvtable.FindColumn(headers, "isfeatured", "is_featured", "featured"),
		tags:        csvtable.FindColumn(headers, "tags", "keywords"),
		imageURL:    csvtable.FindColumn(headers, "imageurl", "image_url", "image", "photo"),
	}
}

// ParseBusinesses converts raw CSV text into directory records. Rows
// without a usable name are dropped; everything else is kept with
// best-effort field extraction. The returned slice preserves sheet order.
func ParseBusinesses(text string) []BusinessRecord {
	table := csvtable.Parse(text)
	if len(table.Headers) == 0 {
		return nil
	}

	cols := resolveColumns(table.Headers)

	records := make([]BusinessRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		name := csvtable.Field(row, cols.name)
		if name == "" || normalize(name) == placeholderName {
			continue
		}

		id := csvtable.Field(row, cols.id)
		if id == "" {
			// Row index is stable for a given sheet snapshot, which is
			// all the frontend needs for keys and deep links.
			id = fmt.Sprintf("csv-%d", i)
		}

		rec := BusinessRecord{
			ID:          id,
			Name:        name,
			SectorID:    sector.Classify(csvtable.Field(row, cols.sectorID), csvtable.Field(row, cols.subcategory)),
			Subcategory: csvtable.Field(row, cols.subcategory),
			Description: csvtable.Field(row, cols.description),
			Phone:       csvtable.Field(row, cols.phone),
			WhatsApp:    csvtable.Field(row, cols.whatsapp),
			Email:       csvtable.Field(row, cols.email),
			Website:     csvtable.Field(row, cols.website),
			Facebook:    csvtable.Field(row, cols.facebook),
			Instagram:   csvtable.Field(row, cols.instagram),
			Address:     csvtable.Field(row, cols.address),
			Town:        csvtable.Field(row, cols.town),
			Lat:         parseCoord(csvtable.Field(row, cols.lat)),
			Lng:         parseCoord(csvtable.Field(row, cols.lng)),
			ImageURL:    csvtable.Field(row, cols.imageURL),
			Tier:        ParseTier(csvtable.Field(row, cols.tier)),
			IsFeatured:  normalize(csvtable.Field(row, cols.isFeatured)) == "true",
			Tags:        parseTags(csvtable.Field(row, cols.tags)),
		}
		records = append(records, rec)
	}

	return records
}

// parseCoord returns nil for blank or non-finite input. 0 is a valid
// coordinate, so absence must be nil rather than the zero value.
func parseCoord(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	if !strings.Contains(s, ";") {
		parts = strings.Split(s, "|")
	}
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
