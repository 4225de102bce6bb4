package clinicapi

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
)

// ListParams are the query parameters of the admin list endpoints. Zero values
// are not sent.
type ListParams struct {
	Page       int
	Limit      int
	Status     string
	Search     string
	DateFilter models.DateFilter
	// Responded filters contact messages: "1", "0" or blank for either.
	Responded string
}

// ParamsFromQuery maps a list view query to backend parameters.
func ParamsFromQuery(q models.ListQuery) ListParams {
	return ListParams{
		Page:       q.Page,
		Limit:      q.PageSize,
		Status:     q.Status,
		Search:     q.Search,
		DateFilter: q.DateFilter,
		Responded:  q.Responded,
	}
}

// Values encodes p, omitting absent and "all" filters.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if status := models.NormalizeStatus(p.Status); status != "" {
		v.Set("status", status)
	}
	if search := strings.TrimSpace(p.Search); search != "" {
		v.Set("search", search)
	}

	df := p.DateFilter.Normalize()
	if !df.IsZero() {
		v.Set("date_filter", string(df.Preset))
		switch df.Preset {
		case models.DateCustomDate:
			v.Set("date_from", df.From)
			v.Set("date_to", df.From)
		case models.DateCustomRange:
			v.Set("date_from", df.From)
			v.Set("date_to", df.To)
		}
	}

	if responded, err := models.NormalizeResponded(p.Responded); err == nil && responded != "" {
		v.Set("responded", responded)
	}
	return v
}
