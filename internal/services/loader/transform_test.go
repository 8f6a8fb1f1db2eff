package loader

import (
	"testing"

	"dashsearch/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistrictTransformKeepsPayloadOrder(t *testing.T) {
	raw := []byte(`{
		"Gandaki": {"districtData": {"Kaski": {"confirmed": 10}, "Baglung": {"confirmed": 2}}},
		"Bagmati": {"districtData": {"Kathmandu": {"confirmed": 99}, "Chitwan": {}}}
	}`)

	records, skipped, err := DistrictTransform(raw)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, []models.Record{
		{models.FieldDistrict: "Kaski", models.FieldState: "Gandaki"},
		{models.FieldDistrict: "Baglung", models.FieldState: "Gandaki"},
		{models.FieldDistrict: "Kathmandu", models.FieldState: "Bagmati"},
		{models.FieldDistrict: "Chitwan", models.FieldState: "Bagmati"},
	}, records)
}

func TestDistrictTransformSkipsBrokenRegions(t *testing.T) {
	raw := []byte(`{
		"Karnali": {"districtData": {"Surkhet": {}}},
		"Broken": "not an object",
		"NoData": {"notes": "missing districtData"},
		"NullData": {"districtData": null},
		"ListData": {"districtData": ["Jumla"]},
		"Lumbini": {"districtData": {"": {}, "Rupandehi": {}}}
	}`)

	records, skipped, err := DistrictTransform(raw)
	require.NoError(t, err)
	assert.Equal(t, 5, skipped)
	assert.Equal(t, []models.Record{
		{models.FieldDistrict: "Surkhet", models.FieldState: "Karnali"},
		{models.FieldDistrict: "Rupandehi", models.FieldState: "Lumbini"},
	}, records)
}

func TestDistrictTransformRejectsNonObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"x"`, `{"a": `, ``} {
		_, _, err := DistrictTransform([]byte(raw))
		require.ErrorIs(t, err, ErrMalformedPayload, raw)
	}
}

func TestResourceTransform(t *testing.T) {
	raw := []byte(`{"resources": [
		{"category": "Testing Center", "city": "Kathmandu", "nameoftheorganisation": "NPHL", "phonenumber": 14255796, "verified": true, "tags": ["a"]},
		"garbage",
		{},
		null,
		{"category": "Health Facility", "nameoftheorganisation": "Bir Hospital", "contact": "https://example.org"}
	]}`)

	records, skipped, err := ResourceTransform(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, records, 2)

	assert.Equal(t, models.Record{
		models.FieldCategory:     "Testing Center",
		models.FieldCity:         "Kathmandu",
		models.FieldOrganisation: "NPHL",
		models.FieldPhone:        "14255796",
		"verified":               "true",
	}, records[0])
	assert.Equal(t, "Bir Hospital", records[1].Get(models.FieldOrganisation))
	assert.Equal(t, "https://example.org", records[1].Get(models.FieldContact))
}

func TestResourceTransformRejectsBadPayload(t *testing.T) {
	for _, raw := range []string{`{}`, `{"resources": 3}`, `not json`, `[]`} {
		_, _, err := ResourceTransform([]byte(raw))
		require.ErrorIs(t, err, ErrMalformedPayload, raw)
	}
}
