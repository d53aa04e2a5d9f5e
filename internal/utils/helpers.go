package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Форматы дат, которые принимает форма чек-листа
var dateTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000Z",
	time.RFC3339,
	"2006-01-02",
}

// DateTimeFormat is the layout used to print checklist dates back into the form.
const DateTimeFormat = "2006-01-02 15:04"

func ParseDateTime(dt string) (time.Time, error) {
	dt = strings.TrimSpace(dt)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, dt); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", dt)
}

func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateTimeFormat)
}

// ParseOptionalInt возвращает nil для пустой строки
func ParseOptionalInt(v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func FormatOptionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func NormalizeKey(v interface{}) string {
	return strings.ToUpper(strings.TrimSpace(fmt.Sprintf("%v", v)))
}

// DecodeJSONList decodes a JSON array stored in a record field. Short or empty
// input yields an empty list.
func DecodeJSONList[T any](jsonStr string) ([]T, error) {
	if len(strings.TrimSpace(jsonStr)) < 2 || jsonStr == "null" {
		return []T{}, nil
	}
	var list []T
	decoder := json.NewDecoder(strings.NewReader(jsonStr))
	decoder.UseNumber()
	if err := decoder.Decode(&list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}
