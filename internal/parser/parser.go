package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fault-service/internal/model"
)

var ErrIncomplete = errors.New("incomplete fault report")

// IncompleteError lists the required fields that were missing or unusable
// after normalization, together with the raw extraction for display.
type IncompleteError struct {
	Missing   []Field
	Extracted Extraction
}

func (e *IncompleteError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, f := range e.Missing {
		names = append(names, string(f))
	}
	return fmt.Sprintf("%s: missing %s", ErrIncomplete, strings.Join(names, ", "))
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncomplete
}

type Parser struct {
	extractor *Extractor
	loc       *time.Location
}

func New(loc *time.Location) *Parser {
	return NewWithRules(DefaultRules, loc)
}

func NewWithRules(rules []Rule, loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{extractor: NewExtractor(rules), loc: loc}
}

// Parse builds a pending candidate record from raw report text. It returns an
// *IncompleteError when any of reporter, time, vehicle, description or
// responsible person is empty after normalization.
func (p *Parser) Parse(text string) (*model.FaultReport, error) {
	extracted := p.extractor.Extract(text)

	report := &model.FaultReport{
		ReporterName:      strings.TrimSpace(extracted[FieldReporter]),
		VehicleID:         strings.TrimSpace(extracted[FieldVehicle]),
		Description:       strings.TrimSpace(extracted[FieldDescription]),
		Solution:          strings.TrimSpace(extracted[FieldSolution]),
		ResponsiblePerson: SanitizeIdentity(strings.TrimSpace(extracted[FieldResponsible])),
		Status:            model.FaultStatusPending,
	}
	faultTime, timeOK := ParseReportTime(extracted[FieldTime], p.loc)
	report.FaultTime = faultTime
	report.Category = InferCategory(report.Description)

	var missing []Field
	if report.ReporterName == "" {
		missing = append(missing, FieldReporter)
	}
	if !timeOK {
		missing = append(missing, FieldTime)
	}
	if report.VehicleID == "" {
		missing = append(missing, FieldVehicle)
	}
	if report.Description == "" {
		missing = append(missing, FieldDescription)
	}
	if report.ResponsiblePerson == "" {
		missing = append(missing, FieldResponsible)
	}
	if len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing, Extracted: extracted}
	}

	return report, nil
}
