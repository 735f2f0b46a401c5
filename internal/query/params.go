package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// ListRequest is a fully parsed list call.
type ListRequest struct {
	Criteria   Criteria
	Sort       Sort
	Pagination Pagination
}

// ParseListRequest reads the list endpoint's query string.
func ParseListRequest(v url.Values, defaultLimit, maxLimit int) (ListRequest, error) {
	var req ListRequest
	var err error

	req.Criteria = Criteria{
		Search:     v.Get("search"),
		Stage:      v.Get("stage"),
		Source:     v.Get("source"),
		AssignedTo: v.Get("assignedTo"),
	}
	if req.Criteria.MinValue, err = parseFloatParam(v, "minValue"); err != nil {
		return ListRequest{}, err
	}
	if req.Criteria.MaxValue, err = parseFloatParam(v, "maxValue"); err != nil {
		return ListRequest{}, err
	}
	if req.Criteria.StartDate, err = parseDateParam(v, "startDate", false); err != nil {
		return ListRequest{}, err
	}
	if req.Criteria.EndDate, err = parseDateParam(v, "endDate", true); err != nil {
		return ListRequest{}, err
	}

	if req.Sort, err = ParseSort(v.Get("sortField"), v.Get("sortDirection")); err != nil {
		return ListRequest{}, err
	}

	page, err := parseIntParam(v, "page", 1)
	if err != nil {
		return ListRequest{}, err
	}
	limit, err := parseIntParam(v, "limit", defaultLimit)
	if err != nil {
		return ListRequest{}, err
	}
	if req.Pagination, err = NewPagination(page, limit, maxLimit); err != nil {
		return ListRequest{}, err
	}
	return req, nil
}

func parseIntParam(v url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, entity.NewInvalidQuery(name, "must be an integer, got %q", raw)
	}
	return n, nil
}

func parseFloatParam(v url.Values, name string) (*float64, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, entity.NewInvalidQuery(name, "must be a finite number, got %q", raw)
	}
	return &f, nil
}

const dateOnly = "2006-01-02"

// parseDateParam accepts RFC 3339 or YYYY-MM-DD. A date-only end bound covers the whole day.
func parseDateParam(v url.Values, name string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return nil, entity.NewInvalidQuery(name, "must be a date (YYYY-MM-DD or RFC 3339), got %q", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Millisecond)
	}
	return &t, nil
}
