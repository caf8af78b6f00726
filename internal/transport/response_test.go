package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWritePagePagination(t *testing.T) {
	cases := []struct {
		name  string
		page  int64
		limit int64
		total int64
		count int
		pages int64
	}{
		{"empty", 1, 10, 0, 0, 0},
		{"exact multiple", 1, 10, 10, 10, 1},
		{"one over", 2, 10, 11, 1, 2},
		{"partial last page", 3, 10, 25, 5, 3},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WritePage(rec, http.StatusOK, []string{}, tc.page, tc.limit, tc.total, tc.count)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", tc.name, rec.Code)
		}

		var body struct {
			Success    bool       `json:"success"`
			Pagination Pagination `json:"pagination"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode response: %v", tc.name, err)
		}
		if !body.Success {
			t.Fatalf("%s: expected success true", tc.name)
		}
		if body.Pagination.Pages != tc.pages {
			t.Fatalf("%s: expected %d pages, got %d", tc.name, tc.pages, body.Pagination.Pages)
		}
		if body.Pagination.Current != tc.page || body.Pagination.Total != tc.total || body.Pagination.Count != tc.count {
			t.Fatalf("%s: unexpected pagination %+v", tc.name, body.Pagination)
		}
	}
}
