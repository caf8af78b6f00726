package transport

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type Pagination struct {
	Current int64 `json:"current"`
	Pages   int64 `json:"pages"`
	Count   int   `json:"count"`
	Total   int64 `json:"total"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// WritePage wraps a result slice with the pagination metadata the frontend
// expects: total pages, current page, records on this page, total records.
func WritePage(w http.ResponseWriter, status int, data interface{}, page, limit, total int64, count int) {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	WriteJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
		"pagination": Pagination{
			Current: page,
			Pages:   pages,
			Count:   count,
			Total:   total,
		},
	})
}
