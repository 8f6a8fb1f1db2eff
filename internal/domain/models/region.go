package models

import (
	"errors"
	"fmt"
)

var ErrDuplicateRegion = errors.New("duplicate region")

type Region struct {
	Name string `yaml:"name" json:"name"`
	Code string `yaml:"code" json:"code"`
}

// DefaultRegions are the provinces of Nepal, in display order.
var DefaultRegions = []Region{
	{Name: "Province No. 1", Code: "P1"},
	{Name: "Madhesh", Code: "P2"},
	{Name: "Bagmati", Code: "P3"},
	{Name: "Gandaki", Code: "P4"},
	{Name: "Lumbini", Code: "P5"},
	{Name: "Karnali", Code: "P6"},
	{Name: "Sudurpashchim", Code: "P7"},
}

// RegionTable is a fixed two-way lookup between region display names and
// route keys. It is read-only after construction.
type RegionTable struct {
	regions []Region
	byName  map[string]string
	byCode  map[string]string
}

func NewRegionTable(regions []Region) (*RegionTable, error) {
	const op = "models.NewRegionTable"

	t := &RegionTable{
		regions: make([]Region, 0, len(regions)),
		byName:  make(map[string]string, len(regions)),
		byCode:  make(map[string]string, len(regions)),
	}
	for _, r := range regions {
		if _, ok := t.byName[r.Name]; ok {
			return nil, fmt.Errorf("%s: %w: name %q", op, ErrDuplicateRegion, r.Name)
		}
		if _, ok := t.byCode[r.Code]; ok {
			return nil, fmt.Errorf("%s: %w: code %q", op, ErrDuplicateRegion, r.Code)
		}
		t.regions = append(t.regions, r)
		t.byName[r.Name] = r.Code
		t.byCode[r.Code] = r.Name
	}
	return t, nil
}

// Code resolves a display name to its route key.
func (t *RegionTable) Code(name string) (string, bool) {
	code, ok := t.byName[name]
	return code, ok
}

// Name resolves a route key to its display name.
func (t *RegionTable) Name(code string) (string, bool) {
	name, ok := t.byCode[code]
	return name, ok
}

// Records returns the table as location records, in table order.
func (t *RegionTable) Records() []Record {
	records := make([]Record, 0, len(t.regions))
	for _, r := range t.regions {
		records = append(records, Record{FieldName: r.Name, FieldCode: r.Code})
	}
	return records
}

func (t *RegionTable) Len() int {
	return len(t.regions)
}
