package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"town-connect/internal/directory/sector"
)

func TestParseBusinesses_DropsNamelessRows(t *testing.T) {
	csv := "id,name,subcategory\n1,Joe's Garage,mechanic\n2,,bakery\n"

	records := ParseBusinesses(csv)

	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "Joe's Garage", records[0].Name)
	assert.Equal(t, sector.Automotive, records[0].SectorID)
}

func TestParseBusinesses_DropsPlaceholderName(t *testing.T) {
	csv := "id,name\n1,Unnamed Business\n2,unnamed business\n3,Real Shop\n"

	records := ParseBusinesses(csv)

	require.Len(t, records, 1)
	assert.Equal(t, "Real Shop", records[0].Name)
}

func TestParseBusinesses_IDFallback(t *testing.T) {
	csv := "id,name\n,First\n,Second\n"

	records := ParseBusinesses(csv)

	require.Len(t, records, 2)
	assert.Equal(t, "csv-0", records[0].ID)
	assert.Equal(t, "csv-1", records[1].ID)
}

func TestParseBusinesses_Coordinates(t *testing.T) {
	csv := "name,lat,lng\nWith Coords,-24.2936,28.1076\nNo Coords,,\nBad Coords,abc,xyz\nZero,0,0\n"

	records := ParseBusinesses(csv)
	require.Len(t, records, 4)

	require.NotNil(t, records[0].Lat)
	assert.InDelta(t, -24.2936, *records[0].Lat, 1e-9)
	require.NotNil(t, records[0].Lng)
	assert.InDelta(t, 28.1076, *records[0].Lng, 1e-9)

	assert.Nil(t, records[1].Lat)
	assert.Nil(t, records[1].Lng)
	assert.Nil(t, records[2].Lat)
	assert.Nil(t, records[2].Lng)

	// 0,0 is a real point in the Atlantic, not a missing coordinate.
	require.NotNil(t, records[3].Lat)
	assert.Zero(t, *records[3].Lat)
}

func TestParseBusinesses_FeaturedFlag(t *testing.T) {
	csv := "name,isFeatured\nA,true\nB,TRUE\nC, true \nD,yes\nE,1\nF,\n"

	records := ParseBusinesses(csv)
	require.Len(t, records, 6)

	assert.True(t, records[0].IsFeatured)
	assert.True(t, records[1].IsFeatured)
	assert.True(t, records[2].IsFeatured)
	assert.False(t, records[3].IsFeatured)
	assert.False(t, records[4].IsFeatured)
	assert.False(t, records[5].IsFeatured)
}

func TestParseBusinesses_TierDefaults(t *testing.T) {
	csv := "name,tier\nA,gold\nB,Premium\nC,platinum\nD,\n"

	records := ParseBusinesses(csv)
	require.Len(t, records, 4)

	assert.Equal(t, TierGold, records[0].Tier)
	assert.Equal(t, TierPremium, records[1].Tier)
	assert.Equal(t, TierStandard, records[2].Tier)
	assert.Equal(t, TierStandard, records[3].Tier)
}

func TestParseBusinesses_HeaderAliases(t *testing.T) {
	csv := "business_name,sub_category,phone_number,latitude,longitude\nThabo's Plumbing,plumbing,0141234567,-24.1,28.2\n"

	records := ParseBusinesses(csv)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Thabo's Plumbing", rec.Name)
	assert.Equal(t, sector.HomeServices, rec.SectorID)
	assert.Equal(t, "0141234567", rec.Phone)
	require.NotNil(t, rec.Lat)
	require.NotNil(t, rec.Lng)
}

func TestParseBusinesses_QuotedFields(t *testing.T) {
	csv := "name,description\n\"Plumbing, Gas & Geysers\",\"He said \"\"same day\"\" service\"\n"

	records := ParseBusinesses(csv)
	require.Len(t, records, 1)
	assert.Equal(t, "Plumbing, Gas & Geysers", records[0].Name)
	assert.Equal(t, `He said "same day" service`, records[0].Description)
}

func TestParseBusinesses_Tags(t *testing.T) {
	csv := "name,tags\nA,plumber; geyser ;solar\nB,\n"

	records := ParseBusinesses(csv)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"plumber", "geyser", "solar"}, records[0].Tags)
	assert.Nil(t, records[1].Tags)
}

func TestParseBusinesses_EmptyInput(t *testing.T) {
	assert.Empty(t, ParseBusinesses(""))
	assert.Empty(t, ParseBusinesses("id,name\n"))
}

func TestFilterByTown(t *testing.T) {
	records := []BusinessRecord{
		{Name: "A", Town: "Vaalwater"},
		{Name: "B", Town: "vaalwater"},
		{Name: "C", Town: ""},
		{Name: "D", Town: "Modimolle"},
	}

	t.Run("empty town passes all", func(t *testing.T) {
		assert.Len(t, FilterByTown(records, ""), 4)
	})

	t.Run("case-insensitive match plus global rows", func(t *testing.T) {
		got := FilterByTown(records, "Vaalwater")
		require.Len(t, got, 3)
		assert.Equal(t, "A", got[0].Name)
		assert.Equal(t, "B", got[1].Name)
		assert.Equal(t, "C", got[2].Name)
	})

	t.Run("other towns keep only global rows", func(t *testing.T) {
		got := FilterByTown(records, "Lephalale")
		require.Len(t, got, 1)
		assert.Equal(t, "C", got[0].Name)
	})
}

func TestFilterEmergencyByTown(t *testing.T) {
	services := []EmergencyService{
		{ServiceName: "SAPS Vaalwater", Town: "Vaalwater"},
		{ServiceName: "SAPS Modimolle", Town: "Modimolle"},
		{ServiceName: "Provincial Ambulance", Town: ""},
	}

	t.Run("empty town passes all", func(t *testing.T) {
		assert.Len(t, FilterEmergencyByTown(services, ""), 3)
	})

	t.Run("town rows plus province-wide rows", func(t *testing.T) {
		got := FilterEmergencyByTown(services, "vaalwater")
		require.Len(t, got, 2)
		assert.Equal(t, "SAPS Vaalwater", got[0].ServiceName)
		assert.Equal(t, "Provincial Ambulance", got[1].ServiceName)
	})
}

func TestParseEmergencyServices(t *testing.T) {
	csv := "id,town,province,category,service_name,primary_phone,secondary_phone,whatsapp,ussd,email,hours,coverage_area\n" +
		"e1,Vaalwater,Limpopo,police,SAPS Vaalwater,10111,0141234567,,,,24/7,Vaalwater & surrounds\n" +
		"e2,Vaalwater,Limpopo,medical,,082,,,,,,\n"

	services := ParseEmergencyServices(csv)

	require.Len(t, services, 1)
	svc := services[0]
	assert.Equal(t, "e1", svc.ID)
	assert.Equal(t, "SAPS Vaalwater", svc.ServiceName)
	assert.Equal(t, "10111", svc.PrimaryPhone)
	assert.Equal(t, "24/7", svc.Hours)
	assert.Equal(t, "Vaalwater & surrounds", svc.CoverageArea)
}
