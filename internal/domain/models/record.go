package models

// Record is a flat field -> value mapping. Records are immutable once indexed.
type Record map[string]string

// Field names of the location dataset.
const (
	FieldName = "name"
	FieldCode = "code"
)

// Field names of the district dataset.
const (
	FieldDistrict = "district"
	FieldState    = "state"
)

// Field names of the resource dataset, as served by the resources endpoint.
const (
	FieldCategory     = "category"
	FieldCity         = "city"
	FieldContact      = "contact"
	FieldDescription  = "descriptionandorserviceprovided"
	FieldOrganisation = "nameoftheorganisation"
	FieldPhone        = "phonenumber"
)

func (r Record) Get(field string) string {
	return r[field]
}

// Clone returns a copy that shares nothing with r.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
