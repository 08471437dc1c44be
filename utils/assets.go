package utils

import (
	"path/filepath"
	"reflect"
	"sort"
	"strings"
)

type AssetKind string

const (
	AssetNone       AssetKind = ""
	AssetStylesheet AssetKind = "css"
	AssetScript     AssetKind = "js"
)

// FlattenAssets collects every asset URL of a recursive list or mapping.
func FlattenAssets(assets any) []string {
	var out []string
	collectAssets(reflect.ValueOf(assets), &out)
	return out
}

func collectAssets(rv reflect.Value, out *[]string) {
	for rv.IsValid() && (rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer) {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return
	}
	switch rv.Kind() {
	case reflect.String:
		if s := rv.String(); s != "" {
			*out = append(*out, s)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			collectAssets(rv.Index(i), out)
		}
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].String() < keys[j].String()
		})
		for _, k := range keys {
			collectAssets(rv.MapIndex(k), out)
		}
	}
}

// AssetKindOf classifies an asset by its file extension.
func AssetKindOf(src string) AssetKind {
	name, err := FilenameFromURL(src)
	if err != nil {
		return AssetNone
	}
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "css":
		return AssetStylesheet
	case "js":
		return AssetScript
	}
	return AssetNone
}
