package repositories

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"repairshop_backend/internal/models"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

func decimalHook(_ reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if t != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(v)
	}
	return data, nil
}

// integerHook rejects fractional numbers bound for integer fields instead of truncating them.
func integerHook(_ reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	var f float64
	switch v := data.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not a whole number", f)
	}
	return data, nil
}

// MergePatch shallow-merges patch onto target (a pointer to a record), JSON field names as keys.
// Null values clear the field; slices are replaced wholesale; unknown fields are rejected.
// The "id" key is ignored so ids stay immutable.
func MergePatch(target interface{}, patch models.Patch) error {
	fields := make(map[string]interface{}, len(patch))
	for k, v := range patch {
		if k == "id" {
			continue
		}
		fields[k] = v
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      target,
		ErrorUnused: true,
		ZeroFields:  true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decimalHook,
			integerHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if err := decoder.Decode(fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	return nil
}
