// internal/directory/listing/emergency.go
package listing

import "town-connect/internal/directory/csvtable"

// Emergency sheet columns are positional. The dataset is maintained as a
// single template copied between towns, so unlike the business sheet the
// column order is fixed and headers are ignored.
const (
	emColID = iota
	emColTown
	emColProvince
	emColCategory
	emColServiceName
	emColPrimaryPhone
	emColSecondaryPhone
	emColWhatsApp
	emColUSSD
	emColEmail
	emColHours
	emColCoverageArea
)

// ParseEmergencyServices converts the fixed-position emergency CSV into
// records. Rows without a service name are dropped.
func ParseEmergencyServices(text string) []EmergencyService {
	table := csvtable.Parse(text)
	services := make([]EmergencyService, 0, len(table.Rows))
	for _, row := range table.Rows {
		svc := EmergencyService{
			ID:             csvtable.Field(row, emColID),
			Town:           csvtable.Field(row, emColTown),
			Province:       csvtable.Field(row, emColProvince),
			Category:       csvtable.Field(row, emColCategory),
			ServiceName:    csvtable.Field(row, emColServiceName),
			PrimaryPhone:   csvtable.Field(row, emColPrimaryPhone),
			SecondaryPhone: csvtable.Field(row, emColSecondaryPhone),
			WhatsApp:       csvtable.Field(row, emColWhatsApp),
			USSD:           csvtable.Field(row, emColUSSD),
			Email:          csvtable.Field(row, emColEmail),
			Hours:          csvtable.Field(row, emColHours),
			CoverageArea:   csvtable.Field(row, emColCoverageArea),
		}
		if svc.ServiceName == "" {
			continue
		}
		services = append(services, svc)
	}
	return services
}
