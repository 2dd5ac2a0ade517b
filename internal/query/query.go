// Package query turns raw listing options into a store predicate and page.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500

	dateLayout = "2006-01-02"
)

// Build validates req and produces the store query plus the effective page.
// month+year take precedence over start/end.
func Build(req dto.ListTransactionsRequest, now time.Time) (dto.TransactionQuery, dto.Page, error) {
	var q dto.TransactionQuery

	if kind := strings.TrimSpace(req.Kind); kind != "" {
		k := models.Kind(kind)
		if !k.Valid() {
			return q, dto.Page{}, errs.NewValidationError(fmt.Sprintf("invalid kind: %q", kind))
		}
		q.Kind = &k
	}

	month, err := ParseMonth(req.Month, req.Year)
	if err != nil {
		return q, dto.Page{}, err
	}
	if month != nil {
		from, to := MonthBounds(*month)
		q.DateFrom, q.DateTo = &from, &to
	} else {
		from, to, err := ParseRange(req.Start, req.End)
		if err != nil {
			return q, dto.Page{}, err
		}
		if from != nil && to == nil {
			end := EndOfDay(Day(now))
			to = &end
		}
		q.DateFrom, q.DateTo = from, to
	}

	q.Category = optional(req.Category)
	q.Source = optional(req.Source)
	q.Search = optional(req.Search)

	page, err := parseInt("page", req.Page, 1)
	if err != nil {
		return q, dto.Page{}, err
	}
	if page < 1 {
		page = 1
	}
	size, err := parseInt("pageSize", req.PageSize, DefaultPageSize)
	if err != nil {
		return q, dto.Page{}, err
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}

	q.Offset = (page - 1) * size
	q.Limit = size
	return q, dto.Page{Page: page, PageSize: size}, nil
}

// ParseMonth reads a month/year pair. Both empty yields nil; supplying only
// one of them is a validation error.
func ParseMonth(month, year string) (*dto.MonthFilter, error) {
	month, year = strings.TrimSpace(month), strings.TrimSpace(year)
	if month == "" && year == "" {
		return nil, nil
	}
	if month == "" || year == "" {
		return nil, errs.NewValidationError("month and year must be provided together")
	}

	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid month: %q", month))
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 1 || y > 9999 {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid year: %q", year))
	}
	return &dto.MonthFilter{Year: y, Month: time.Month(m)}, nil
}

// MonthBounds returns the inclusive bounds of a calendar month.
func MonthBounds(m dto.MonthFilter) (time.Time, time.Time) {
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// ParseRange parses optional start/end dates. A parsed end is widened to the
// last instant of its day. start after end is a validation error.
func ParseRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if s := strings.TrimSpace(start); s != "" {
		d, err := ParseDate(s)
		if err != nil {
			return nil, nil, errs.NewValidationError(fmt.Sprintf("invalid start date: %q", s))
		}
		from = &d
	}
	if e := strings.TrimSpace(end); e != "" {
		d, err := ParseDate(e)
		if err != nil {
			return nil, nil, errs.NewValidationError(fmt.Sprintf("invalid end date: %q", e))
		}
		d = EndOfDay(d)
		to = &d
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, errs.NewValidationError("start date is after end date")
	}
	return from, to, nil
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns the UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func EndOfDay(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func parseInt(name, v string, def int) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errs.NewValidationError(fmt.Sprintf("invalid %s: %q", name, v))
	}
	return n, nil
}
