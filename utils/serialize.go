package utils

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/joy-dx/goajax/dto"
)

var uriComponentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way browsers do for a query component.
func EncodeURIComponent(s string) string {
	return uriComponentUnescape.Replace(url.QueryEscape(s))
}

// Serialize flattens a nested mapping into k=v pairs joined by '&'. Nested
// mappings under key k produce k[child] keys, slices produce k[0], k[1].
func Serialize(obj any) string {
	fields := Flatten(obj)
	if len(fields) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		pairs = append(pairs, EncodeURIComponent(f.Key)+"="+EncodeURIComponent(f.Value.(string)))
	}
	return strings.Join(pairs, "&")
}

// Flatten walks obj and returns its leaves with bracketed keys and string
// values, unescaped. Anything other than a mapping or slice yields nothing.
func Flatten(obj any) dto.Fields {
	return flattenInto(nil, obj, "")
}

func flattenInto(out dto.Fields, obj any, prefix string) dto.Fields {
	if fields, ok := obj.(dto.Fields); ok {
		for _, f := range fields {
			out = flattenValue(out, childKey(prefix, f.Key), f.Value)
		}
		return out
	}

	rv := reflect.ValueOf(obj)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return out
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return out
	}

	switch rv.Kind() {
	case reflect.Map:
		keys := rv.MapKeys()
		names := make([]string, 0, len(keys))
		byName := make(map[string]reflect.Value, len(keys))
		for _, k := range keys {
			name := fmt.Sprint(k.Interface())
			names = append(names, name)
			byName[name] = k
		}
		sort.Strings(names)
		for _, name := range names {
			out = flattenValue(out, childKey(prefix, name), rv.MapIndex(byName[name]).Interface())
		}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return out
		}
		for i := 0; i < rv.Len(); i++ {
			out = flattenValue(out, childKey(prefix, fmt.Sprint(i)), rv.Index(i).Interface())
		}
	}
	return out
}

func flattenValue(out dto.Fields, key string, v any) dto.Fields {
	if isNested(v) {
		return flattenInto(out, v, key)
	}
	return append(out, dto.Field{Key: key, Value: scalarString(v)})
}

func childKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "[" + key + "]"
}

func isNested(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(dto.Fields); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Array:
		return true
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	}
	return false
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "null"
		}
		return scalarString(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}
