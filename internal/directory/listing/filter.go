// internal/directory/listing/filter.go
package listing

import "strings"

// FilterByTown keeps records scoped to the tenant's town. A record with
// an empty town is global and passes every tenant's filter; one shared
// sheet can carry rows for several towns plus rows meant for all of
// them. An empty tenant town passes everything through. Order is
// preserved and the input slice is never mutated.
func FilterByTown(records []BusinessRecord, town string) []BusinessRecord {
	if town == "" {
		return records
	}

	want := strings.ToLower(town)
	out := make([]BusinessRecord, 0, len(records))
	for _, rec := range records {
		if rec.Town == "" || strings.ToLower(rec.Town) == want {
			out = append(out, rec)
		}
	}
	return out
}

// FilterEmergencyByTown applies the same town scope rule to emergency
// services. Province-wide numbers carry an empty town and reach every
// tenant; town-specific stations only reach their own.
func FilterEmergencyByTown(services []EmergencyService, town string) []EmergencyService {
	if town == "" {
		return services
	}

	want := strings.ToLower(town)
	out := make([]EmergencyService, 0, len(services))
	for _, svc := range services {
		if svc.Town == "" || strings.ToLower(svc.Town) == want {
			out = append(out, svc)
		}
	}
	return out
}
