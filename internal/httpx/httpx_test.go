package httpx

import (
	"net/url"
	"strings"
	"testing"
)

func TestParsePageLimitDefaults(t *testing.T) {
	page, limit, err := ParsePageLimit(url.Values{}, 10, 100)
	if err != nil {
		t.Fatalf("ParsePageLimit error: %v", err)
	}
	if page != 1 || limit != 10 {
		t.Fatalf("expected page=1 limit=10, got page=%d limit=%d", page, limit)
	}
}

func TestParsePageLimitClampsLimit(t *testing.T) {
	values := url.Values{"page": {"3"}, "limit": {"500"}}
	page, limit, err := ParsePageLimit(values, 10, 100)
	if err != nil {
		t.Fatalf("ParsePageLimit error: %v", err)
	}
	if page != 3 || limit != 100 {
		t.Fatalf("expected page=3 limit=100, got page=%d limit=%d", page, limit)
	}
}

func TestParsePageLimitRejectsBadValues(t *testing.T) {
	for _, values := range []url.Values{
		{"page": {"0"}},
		{"page": {"-2"}},
		{"page": {"abc"}},
		{"limit": {"0"}},
		{"limit": {"x"}},
	} {
		if _, _, err := ParsePageLimit(values, 10, 100); err == nil {
			t.Fatalf("expected error for %v", values)
		}
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(strings.NewReader(`{"name":"a","extra":true}`), &dst)
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(strings.NewReader(`{"name":"a"}{"name":"b"}`), &dst)
	if err == nil {
		t.Fatalf("expected trailing data error")
	}
}

func TestDecodeJSONHappyPath(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	if err := DecodeJSON(strings.NewReader(`{"name":"a"}`), &dst); err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	if dst.Name != "a" {
		t.Fatalf("expected name a, got %q", dst.Name)
	}
}
