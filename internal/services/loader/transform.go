package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"dashsearch/internal/domain/models"
)

// TransformFunc turns a raw payload into flat records. It reports how many
// entries it had to skip; a non-nil error means the payload is unusable.
type TransformFunc func(raw []byte) (records []models.Record, skipped int, err error)

// DistrictTransform flattens
//
//	{"<region>": {"districtData": {"<district>": {...}}}}
//
// into one {district, state} record per district, keeping payload order.
func DistrictTransform(raw []byte) ([]models.Record, int, error) {
	const op = "loader.DistrictTransform"

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, 0, fmt.Errorf("%s: %w: %v", op, ErrMalformedPayload, err)
	}

	var (
		records []models.Record
		skipped int
	)
	for dec.More() {
		regionName, err := nextKey(dec)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w: %v", op, ErrMalformedPayload, err)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, 0, fmt.Errorf("%s: %w: %v", op, ErrMalformedPayload, err)
		}

		var region struct {
			DistrictData json.RawMessage `json:"districtData"`
		}
		if err := json.Unmarshal(value, &region); err != nil || len(region.DistrictData) == 0 {
			skipped++
			continue
		}

		names, err := objectKeys(region.DistrictData)
		if err != nil {
			skipped++
			continue
		}

		for _, name := range names {
			if name == "" {
				skipped++
				continue
			}
			records = append(records, models.Record{
				models.FieldDistrict: name,
				models.FieldState:    regionName,
			})
		}
	}

	return records, skipped, nil
}

// ResourceTransform unwraps {"resources": [...]} into one record per object.
// Scalar values are stringified; nested values are dropped.
func ResourceTransform(raw []byte) ([]models.Record, int, error) {
	const op = "loader.ResourceTransform"

	var payload struct {
		Resources []json.RawMessage `json:"resources"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, 0, fmt.Errorf("%s: %w: %v", op, ErrMalformedPayload, err)
	}
	if payload.Resources == nil {
		return nil, 0, fmt.Errorf("%s: %w: missing resources", op, ErrMalformedPayload)
	}

	records := make([]models.Record, 0, len(payload.Resources))
	skipped := 0
	for _, item := range payload.Resources {
		var fields map[string]any
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			skipped++
			continue
		}

		record := make(models.Record, len(fields))
		for key, value := range fields {
			if s, ok := scalarString(value); ok {
				record[key] = s
			}
		}
		if len(record) == 0 {
			skipped++
			continue
		}
		records = append(records, record)
	}

	return records, skipped, nil
}

func scalarString(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(value), true
	default:
		return "", false
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func nextKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var keys []string
	for dec.More() {
		key, err := nextKey(dec)
		if err != nil {
			return nil, err
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, nil
}
