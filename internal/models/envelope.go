package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Envelope is the {success, message, data} wrapper of every backend response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// RawEnvelope is an envelope whose data has not been decoded yet.
type RawEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	// Pagination is set by list endpoints that page beside data.
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ID is a server-assigned record identifier. The backend sends either JSON
// numbers or strings; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Flag is a boolean the backend may send as true/false, 0/1 or "0"/"1".
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(b), `"`))
	switch s {
	case "", "null":
		*f = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*f = Flag(v)
	return nil
}

// Pagination is the pagination block of list responses. Both camelCase and
// snake_case spellings are accepted.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func (p *Pagination) UnmarshalJSON(b []byte) error {
	var raw struct {
		Page        int `json:"page"`
		CurrentPage int `json:"current_page"`
		Limit       int `json:"limit"`
		PerPage     int `json:"per_page"`
		Total       int `json:"total"`
		TotalCount  int `json:"total_count"`
		TotalPages  int `json:"totalPages"`
		TotalPages2 int `json:"total_pages"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Pagination{
		Page:       firstNonZero(raw.Page, raw.CurrentPage),
		Limit:      firstNonZero(raw.Limit, raw.PerPage),
		Total:      firstNonZero(raw.Total, raw.TotalCount),
		TotalPages: firstNonZero(raw.TotalPages, raw.TotalPages2),
	}
	return nil
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
