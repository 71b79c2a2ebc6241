// Package query turns loosely structured search, paging and grouping input into
// fixed SQL fragments plus bound parameters. No caller-supplied text ever
// becomes part of a fragment.
package query

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

// DateLayout is the calendar-day form accepted for range bounds.
const DateLayout = "2006-01-02"

const (
	predReporterContains    = `reporter_name LIKE ? ESCAPE '\'`
	predResponsibleContains = `responsible_person LIKE ? ESCAPE '\'`
	predVehicleContains     = `vehicle_id LIKE ? ESCAPE '\'`
	predStatusEquals        = "status = ?"
	predFaultTimeFrom       = "fault_time >= ?"
	predFaultTimeTo         = "fault_time <= ?"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Predicate is one fixed condition template and the single value bound to it.
type Predicate struct {
	Template string
	Arg      any
}

// Filter is an ordered conjunction of predicates. The same Filter drives the
// count query and the page query so the two always agree.
type Filter struct {
	Predicates []Predicate
}

// Expr joins the predicate templates with AND. It returns an empty expression
// when there is nothing to constrain.
func (f Filter) Expr() (string, []any) {
	if len(f.Predicates) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(f.Predicates))
	args := make([]any, 0, len(f.Predicates))
	for _, p := range f.Predicates {
		parts = append(parts, p.Template)
		args = append(args, p.Arg)
	}
	return strings.Join(parts, " AND "), args
}

// Criteria holds the optional search inputs, already trimmed. An empty field
// means no constraint.
type Criteria struct {
	Reporter    string
	Responsible string
	Vehicle     string
	Status      string
	StartDate   string
	EndDate     string
}

func BuildFilter(c Criteria, loc *time.Location) (Filter, error) {
	var f Filter
	if c.Reporter != "" {
		f.Predicates = append(f.Predicates, Predicate{predReporterContains, containsPattern(c.Reporter)})
	}
	if c.Responsible != "" {
		f.Predicates = append(f.Predicates, Predicate{predResponsibleContains, containsPattern(c.Responsible)})
	}
	if c.Vehicle != "" {
		f.Predicates = append(f.Predicates, Predicate{predVehicleContains, containsPattern(c.Vehicle)})
	}
	if c.Status != "" {
		f.Predicates = append(f.Predicates, Predicate{predStatusEquals, c.Status})
	}

	dates, err := ParseDateRange(c.StartDate, c.EndDate, loc)
	if err != nil {
		return Filter{}, err
	}
	f.Predicates = append(f.Predicates, dates.Predicates()...)
	return f, nil
}

func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

// DateRange is an inclusive fault-time window; nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ParseDateRange reads optional YYYY-MM-DD bounds. The start resolves to
// 00:00:00 and the end to 23:59:59 of their calendar days in loc.
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	var r DateRange
	if start != "" {
		day, err := time.ParseInLocation(DateLayout, start, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: start date %q", ErrInvalidDate, start)
		}
		r.From = &day
	}
	if end != "" {
		day, err := time.ParseInLocation(DateLayout, end, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: end date %q", ErrInvalidDate, end)
		}
		last := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, loc)
		r.To = &last
	}
	return r, nil
}

func (r DateRange) Predicates() []Predicate {
	var out []Predicate
	if r.From != nil {
		out = append(out, Predicate{predFaultTimeFrom, *r.From})
	}
	if r.To != nil {
		out = append(out, Predicate{predFaultTimeTo, *r.To})
	}
	return out
}

func (r DateRange) Filter() Filter {
	return Filter{Predicates: r.Predicates()}
}
