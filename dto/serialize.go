// Package dto shapes persisted records into transport views. It is the only
// place where exact decimals become floats and times become strings.
package dto

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ISOLayout matches the millisecond UTC form browsers produce with toISOString.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a JSON object that keeps its keys in insertion order.
type Object []Field

// Get returns the value stored under key and whether the key exists.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Value returns the value under key, or nil when absent.
func (o Object) Value(key string) any {
	v, _ := o.Get(key)
	return v
}

// Keys returns the field names in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, f := range o {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON writes the fields in order. A nil Object encodes as null.
func (o Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FormatTime renders t in ISOLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ToNum converts an exact decimal (or any plain number) to float64. Absent
// input, including nil pointers and invalid NullDecimals, yields nil.
func ToNum(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		f = x.InexactFloat64()
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		f = x.InexactFloat64()
	case decimal.NullDecimal:
		if !x.Valid {
			return nil
		}
		f = x.Decimal.InexactFloat64()
	case float64:
		f = x
	case *float64:
		if x == nil {
			return nil
		}
		f = *x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case *int64:
		if x == nil {
			return nil
		}
		f = float64(*x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

// StripDecimalsDeep returns a plain copy of v in which every exact decimal is a
// float64 and every time is an ISO-8601 string. Structs become Objects keyed by
// their json names in field order (embedded structs are flattened), maps and
// slices are copied, and everything else is returned as is. The input is never
// modified. The walk does not detect cycles.
func StripDecimalsDeep(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return x.InexactFloat64()
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return x.InexactFloat64()
	case decimal.NullDecimal:
		if !x.Valid {
			return nil
		}
		return x.Decimal.InexactFloat64()
	case time.Time:
		return FormatTime(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return FormatTime(*x)
	case gorm.DeletedAt:
		if !x.Valid {
			return nil
		}
		return FormatTime(x.Time)
	case sql.NullTime:
		if !x.Valid {
			return nil
		}
		return FormatTime(x.Time)
	case datatypes.JSON:
		return rawCopy(x)
	case json.RawMessage:
		return rawCopy(x)
	case Object:
		if x == nil {
			return Object(nil)
		}
		out := make(Object, len(x))
		for i, f := range x {
			out[i] = Field{Key: f.Key, Value: StripDecimalsDeep(f.Value)}
		}
		return out
	case map[string]any:
		if x == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = StripDecimalsDeep(val)
		}
		return out
	case []any:
		if x == nil {
			return []any(nil)
		}
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = StripDecimalsDeep(val)
		}
		return out
	case string, bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return x
	}
	return stripValue(reflect.ValueOf(v))
}

func rawCopy(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(append([]byte(nil), b...))
}

func stripValue(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return StripDecimalsDeep(rv.Elem().Interface())
	case reflect.Struct:
		out := Object{}
		appendStructFields(&out, rv)
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return []any(nil)
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = StripDecimalsDeep(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return map[string]any(nil)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = StripDecimalsDeep(iter.Value().Interface())
		}
		return out
	default:
		// named scalars keep their own JSON encoding
		return rv.Interface()
	}
}

func appendStructFields(out *Object, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, skip := jsonName(sf)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if ft.Kind() == reflect.Struct {
				appendStructFields(out, fv)
				continue
			}
		}
		if name == "" {
			name = sf.Name
		}
		*out = append(*out, Field{Key: name, Value: StripDecimalsDeep(fv.Interface())})
	}
}

func jsonName(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return "", false
	}
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, false
}
