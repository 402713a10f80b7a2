package utils

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// floatTolerance absorbs binary rounding of prices stored as DECIMAL columns.
const floatTolerance = 1e-9

// ToInt64 converts various types to int64 using explicit type switching.
// It handles standard integer types, floats, strings, and byte slices.
func ToInt64(val any) int64 {
	switch v := val.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int8:
		return int64(v)
	case uint:
		return int64(v)
	case uint64:
		return int64(v)
	case uint32:
		return int64(v)
	case uint16:
		return int64(v)
	case uint8:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i
	case []byte:
		i, _ := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		return i
	default:
		s := fmt.Sprintf("%v", v)
		i, _ := strconv.ParseInt(s, 10, 64)
		return i
	}
}

// ToFloat converts numeric types and numeric strings to float64.
func ToFloat(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		return f
	default:
		return float64(ToInt64(v))
	}
}

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return ToInt64(v) == 1
	case string:
		return v == "1" || strings.ToLower(v) == "true"
	case []byte:
		s := string(v)
		return s == "1" || strings.ToLower(s) == "true"
	default:
		return false
	}
}

// Equal reports whether a stored value and a desired value represent the same
// attribute. Values implementing driver.Valuer are compared by their encoded form,
// numbers are compared numerically and pointers are dereferenced.
func Equal(stored, desired any) bool {
	stored = normalize(stored)
	desired = normalize(desired)

	if stored == nil || desired == nil {
		return isZero(stored) && isZero(desired)
	}

	switch d := desired.(type) {
	case bool:
		return ToBool(stored) == d
	case float32, float64:
		return math.Abs(ToFloat(stored)-ToFloat(d)) < floatTolerance
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		if _, ok := stored.(bool); ok {
			return ToInt64(stored) == ToInt64(d)
		}
		return math.Abs(ToFloat(stored)-ToFloat(d)) < floatTolerance
	case string:
		return ToString(stored) == d
	}

	return reflect.DeepEqual(stored, desired)
}

// normalize unwraps pointers and driver.Valuer implementations.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	if valuer, ok := v.(driver.Valuer); ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return nil
		}
		encoded, err := valuer.Value()
		if err != nil {
			return v
		}
		return normalize(encoded)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
