package utils

import (
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"
)

// EpochLayout is used whenever a timestamp is written into a human readable message.
const EpochLayout = "2006-01-02 15:04"

func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

// ParseTimestamp converts an RFC3339 string into epoch milliseconds.
func ParseTimestamp(value string) (int64, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t.UTC().UnixMilli(), nil
}

func CheckFileExt(fileName string, valid []string) (string, bool) {
	ext := filepath.Ext(fileName)
	if ext == "" {
		return "", false
	}
	return ext, slices.Contains(valid, strings.ToLower(ext[1:]))
}

// Sanitize trims every string (and every string inside string slices) of the struct
// pointed by o. Pointer-to-string fields are trimmed as well. Fields tagged
// `sanitize:"-"` are left as is.
func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() || v.Type().Field(i).Tag.Get("sanitize") == "-" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizeString(field.String()))

		case reflect.Ptr:
			if !field.IsNil() && field.Elem().Kind() == reflect.String {
				field.Elem().SetString(sanitizeString(field.Elem().String()))
			}

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					field.Index(j).SetString(sanitizeString(field.Index(j).String()))
				}
			}
		}
	}
}

func sanitizeString(s string) string {
	return strings.TrimSpace(s)
}
