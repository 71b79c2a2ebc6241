package query

import (
	"fmt"
	"time"
)

type Dimension int

const (
	DimensionCategory Dimension = iota
	DimensionStatus
	DimensionVehicle
	DimensionReporter
	DimensionResponsible
	DimensionByDate

	DefaultDimension = DimensionCategory
)

var Dimensions = []Dimension{
	DimensionCategory,
	DimensionStatus,
	DimensionVehicle,
	DimensionReporter,
	DimensionResponsible,
	DimensionByDate,
}

var dimensionAliases = map[string]Dimension{
	"category":           DimensionCategory,
	"status":             DimensionStatus,
	"vehicle_id":         DimensionVehicle,
	"vehicleId":          DimensionVehicle,
	"reporter_name":      DimensionReporter,
	"reporterName":       DimensionReporter,
	"responsible_person": DimensionResponsible,
	"responsiblePerson":  DimensionResponsible,
	"by_date":            DimensionByDate,
	"byDate":             DimensionByDate,
}

func (d Dimension) String() string {
	switch d {
	case DimensionCategory:
		return "category"
	case DimensionStatus:
		return "status"
	case DimensionVehicle:
		return "vehicle_id"
	case DimensionReporter:
		return "reporter_name"
	case DimensionResponsible:
		return "responsible_person"
	case DimensionByDate:
		return "by_date"
	default:
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
}

// ParseDimension looks raw up in the closed dimension set. An empty value is
// the default; any other unknown value reports false.
func ParseDimension(raw string) (Dimension, bool) {
	if raw == "" {
		return DefaultDimension, true
	}
	d, ok := dimensionAliases[raw]
	if !ok {
		return DefaultDimension, false
	}
	return d, true
}

// Dialect names the SQL flavour a grouping is rendered for. Values match
// gorm's Dialector.Name.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Grouping is the fixed SQL shape for one dimension. Results expose the key
// as group_key and the row count as total. Args bind the placeholders in Expr.
type Grouping struct {
	Dimension Dimension
	Expr      string
	Args      []any
	Order     string
}

const (
	orderByCountDesc = "total DESC, group_key ASC"
	orderByKeyAsc    = "group_key ASC"
)

// Grouping renders the dimension for dialect. Calendar days are taken in loc,
// the zone fault times are written and filtered in.
func (d Dimension) Grouping(dialect Dialect, loc *time.Location) Grouping {
	switch d {
	case DimensionStatus:
		return Grouping{Dimension: d, Expr: "status", Order: orderByCountDesc}
	case DimensionVehicle:
		return Grouping{Dimension: d, Expr: "vehicle_id", Order: orderByCountDesc}
	case DimensionReporter:
		return Grouping{Dimension: d, Expr: "reporter_name", Order: orderByCountDesc}
	case DimensionResponsible:
		return Grouping{Dimension: d, Expr: "responsible_person", Order: orderByCountDesc}
	case DimensionByDate:
		return dayGrouping(dialect, loc)
	default:
		return Grouping{Dimension: DimensionCategory, Expr: "category", Order: orderByCountDesc}
	}
}

func dayGrouping(dialect Dialect, loc *time.Location) Grouping {
	if loc == nil {
		loc = time.UTC
	}
	switch dialect {
	case DialectPostgres:
		return Grouping{
			Dimension: DimensionByDate,
			Expr:      "TO_CHAR(fault_time AT TIME ZONE ?, 'YYYY-MM-DD')",
			Args:      []any{loc.String()},
			Order:     orderByKeyAsc,
		}
	default:
		// sqlite keeps the text gorm wrote, already in loc with its offset.
		return Grouping{Dimension: DimensionByDate, Expr: "substr(fault_time, 1, 10)", Order: orderByKeyAsc}
	}
}

const AdvisoryInvalidDimension = "invalid statistics dimension, reset to category"

// ResolveGrouping gates raw through the dimension whitelist. An unknown value
// falls back to the default grouping and returns a non-empty advisory.
func ResolveGrouping(raw string, dialect Dialect, loc *time.Location) (Grouping, string) {
	d, ok := ParseDimension(raw)
	if !ok {
		return DefaultDimension.Grouping(dialect, loc), AdvisoryInvalidDimension
	}
	return d.Grouping(dialect, loc), ""
}
