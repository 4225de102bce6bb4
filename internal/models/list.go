package models

import (
	"fmt"
	"strings"
	"time"
)

// Row is a display row rendered by a list view.
type Row interface {
	// RowID is the server-assigned identifier used for selection and actions.
	RowID() string
	// SearchFields are the display fields matched by free-text search.
	SearchFields() []string
	// SortValue returns the value for a sortable column. text is false for
	// columns that are not plain text; those are not reordered.
	SortValue(column string) (value string, text bool)
}

// SortDirection is the client-side sort state of one column.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Next cycles asc -> desc -> none -> asc.
func (d SortDirection) Next() SortDirection {
	switch d {
	case SortAsc:
		return SortDesc
	case SortDesc:
		return SortNone
	default:
		return SortAsc
	}
}

// DatePreset names a server-side date bucket.
type DatePreset string

const (
	DateAll         DatePreset = "all"
	DateToday       DatePreset = "today"
	DateTomorrow    DatePreset = "tomorrow"
	DateYesterday   DatePreset = "yesterday"
	DateThisWeek    DatePreset = "this_week"
	DateLastWeek    DatePreset = "last_week"
	DateThisMonth   DatePreset = "this_month"
	DateLastMonth   DatePreset = "last_month"
	DateThisYear    DatePreset = "this_year"
	DateCustomDate  DatePreset = "custom_date"
	DateCustomRange DatePreset = "custom_range"
)

// IsValid reports whether p is a known preset. The empty preset means "all".
func (p DatePreset) IsValid() bool {
	switch p {
	case "", DateAll, DateToday, DateTomorrow, DateYesterday, DateThisWeek, DateLastWeek,
		DateThisMonth, DateLastMonth, DateThisYear, DateCustomDate, DateCustomRange:
		return true
	}
	return false
}

// DateLayout is the wire format of date_from / date_to.
const DateLayout = "2006-01-02"

// DateFilter is either a named preset, a single custom date or a custom range.
type DateFilter struct {
	Preset DatePreset `json:"preset" form:"date_filter"`
	From   string     `json:"from,omitempty" form:"date_from"`
	To     string     `json:"to,omitempty" form:"date_to"`
}

// IsZero reports whether the filter selects everything.
func (f DateFilter) IsZero() bool {
	return f.Preset == "" || f.Preset == DateAll
}

// Validate checks preset names and custom date bounds.
func (f DateFilter) Validate() error {
	if !f.Preset.IsValid() {
		return fmt.Errorf("unknown date filter %q", f.Preset)
	}
	switch f.Preset {
	case DateCustomDate:
		if _, err := time.Parse(DateLayout, f.From); err != nil {
			return fmt.Errorf("custom date must be YYYY-MM-DD: %w", err)
		}
	case DateCustomRange:
		from, err := time.Parse(DateLayout, f.From)
		if err != nil {
			return fmt.Errorf("range start must be YYYY-MM-DD: %w", err)
		}
		to, err := time.Parse(DateLayout, f.To)
		if err != nil {
			return fmt.Errorf("range end must be YYYY-MM-DD: %w", err)
		}
		if to.Before(from) {
			return fmt.Errorf("range end %s is before start %s", f.To, f.From)
		}
	}
	return nil
}

// Normalize collapses "all" to the zero filter and drops bounds that the
// preset does not use.
func (f DateFilter) Normalize() DateFilter {
	switch f.Preset {
	case "", DateAll:
		return DateFilter{}
	case DateCustomDate:
		return DateFilter{Preset: DateCustomDate, From: f.From, To: f.From}
	case DateCustomRange:
		return f
	default:
		return DateFilter{Preset: f.Preset}
	}
}

// StatusAll is the unset status filter.
const StatusAll = "all"

// ListQuery is the state of one list view.
type ListQuery struct {
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	Search     string        `json:"search,omitempty"`
	Status     string        `json:"status,omitempty"`
	Responded  string        `json:"responded,omitempty"`
	DateFilter DateFilter    `json:"dateFilter"`
	SortColumn string        `json:"sortColumn,omitempty"`
	SortDir    SortDirection `json:"sortDirection,omitempty"`
}

// NormalizeStatus maps "all" and blanks to the unset value.
func NormalizeStatus(status string) string {
	status = strings.TrimSpace(status)
	if strings.EqualFold(status, StatusAll) {
		return ""
	}
	return status
}

// NormalizeResponded maps a responded filter to the backend's "1"/"0" form.
// Blank and "all" mean either.
func NormalizeResponded(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", StatusAll:
		return "", nil
	case "1", "true", "yes":
		return "1", nil
	case "0", "false", "no":
		return "0", nil
	}
	return "", fmt.Errorf("unknown responded filter %q", value)
}

// ResultPage is one fetched page. It replaces the previous page wholesale.
type ResultPage[T any] struct {
	Rows       []T `json:"rows"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// NewResultPage builds a page, deriving missing totals from the row count and
// page size. TotalPages is never below 1.
func NewResultPage[T any](rows []T, total, totalPages, pageSize int) ResultPage[T] {
	if rows == nil {
		rows = []T{}
	}
	if total < len(rows) {
		total = len(rows)
	}
	if totalPages < 1 && pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	if totalPages < 1 {
		totalPages = 1
	}
	return ResultPage[T]{Rows: rows, TotalCount: total, TotalPages: totalPages}
}
