package utils

import (
	"testing"
	"time"
)

func TestDecodeJSONList(t *testing.T) {
	type defect struct {
		Zone        string `json:"zone"`
		Description string `json:"description"`
	}
	list, err := DecodeJSONList[defect](`[{"zone": "front", "description": "scratch"}]`)
	if err != nil {
		t.Fatalf("DecodeJSONList failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 defect, got %d", len(list))
	}
	if list[0].Zone != "front" {
		t.Errorf("Expected zone 'front', got %q", list[0].Zone)
	}

	for _, empty := range []string{"", " ", "null", "[]"} {
		list, err := DecodeJSONList[defect](empty)
		if err != nil {
			t.Errorf("DecodeJSONList(%q) returned error: %v", empty, err)
		}
		if list == nil || len(list) != 0 {
			t.Errorf("DecodeJSONList(%q) == %v, want empty list", empty, list)
		}
	}

	if _, err := DecodeJSONList[defect](`{"zone": "front"}`); err == nil {
		t.Error("object input should NOT decode into a list")
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"  mechanic  ", "MECHANIC"},
		{"Vehicle", "VEHICLE"},
		{"RATION_MVP", "RATION_MVP"},
	}

	for _, c := range cases {
		result := NormalizeKey(c.input)
		if result != c.expected {
			t.Errorf("NormalizeKey(%q) == %q, want %q", c.input, result, c.expected)
		}
	}
}

func TestParseOptionalInt(t *testing.T) {
	n, err := ParseOptionalInt(" 42 ")
	if err != nil || n == nil || *n != 42 {
		t.Errorf("ParseOptionalInt(\" 42 \") == %v, %v; want 42", n, err)
	}
	n, err = ParseOptionalInt("")
	if err != nil || n != nil {
		t.Errorf("ParseOptionalInt(\"\") == %v, %v; want nil", n, err)
	}
	if _, err := ParseOptionalInt("4x"); err == nil {
		t.Error("4x should NOT be a valid number")
	}
	if FormatOptionalInt(nil) != "" {
		t.Error("nil should format as empty string")
	}
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2025, 3, 1, 7, 30, 0, 0, time.UTC)
	if got := FormatDateTime(ts); got != "2025-03-01 07:30" {
		t.Errorf("FormatDateTime == %q", got)
	}
	if got := FormatDateTime(time.Time{}); got != "" {
		t.Errorf("zero time should format as empty, got %q", got)
	}
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2025, 12, 25, 10, 0, 0, 0, time.UTC)
	for _, in := range []string{"2025-12-25 10:00", "2025-12-25 10:00:00", "2025-12-25 10:00:00.000Z", "2025-12-25T12:00:00+02:00", " 2025-12-25 10:00 "} {
		got, err := ParseDateTime(in)
		if err != nil {
			t.Errorf("ParseDateTime(%q) failed: %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDateTime(%q) == %v, want %v", in, got, want)
		}
	}

	if _, err := ParseDateTime("25.12.2025"); err == nil {
		t.Error("Format DD.MM.YYYY should NOT be valid")
	}
	if _, err := ParseDateTime("2025-12-25"); err != nil {
		t.Errorf("date without time should be valid: %v", err)
	}
}
