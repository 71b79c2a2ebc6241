package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fault-service/internal/export"
	"fault-service/internal/model"
	"fault-service/internal/parser"
	"fault-service/internal/query"
	"fault-service/internal/repository"
)

type FaultService struct {
	repo   *repository.FaultRepository
	parser *parser.Parser
	loc    *time.Location
}

func NewFaultService(repo *repository.FaultRepository, loc *time.Location) *FaultService {
	if loc == nil {
		loc = time.UTC
	}
	return &FaultService{
		repo:   repo,
		parser: parser.New(loc),
		loc:    loc,
	}
}

// ParseAndCreate ingests a free-text report. An incomplete report returns a
// *parser.IncompleteError and nothing is written.
func (s *FaultService) ParseAndCreate(ctx context.Context, rawText string) (*model.FaultReport, error) {
	report, err := s.parser.Parse(rawText)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("insert fault: %w", err)
	}
	return report, nil
}

// CreateFaultInput is the structured submission. FaultTime must be exactly
// YYYY-MM-DDTHH:MM; any deviation fails the submission.
type CreateFaultInput struct {
	ReporterName      string
	FaultTime         string
	VehicleID         string
	Category          string
	Description       string
	Solution          string
	ResponsiblePerson string
}

func (s *FaultService) Create(ctx context.Context, input CreateFaultInput) (*model.FaultReport, error) {
	reporter := strings.TrimSpace(input.ReporterName)
	if reporter == "" {
		return nil, fieldError("reporter_name", ErrInvalidInput, "required")
	}
	faultTime, err := parser.ParseFormTime(strings.TrimSpace(input.FaultTime), s.loc)
	if err != nil {
		return nil, &FieldError{Field: "fault_time", Err: fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)}
	}
	vehicle := strings.TrimSpace(input.VehicleID)
	if vehicle == "" {
		return nil, fieldError("vehicle_id", ErrInvalidInput, "required")
	}
	category := model.FaultCategory(strings.TrimSpace(input.Category))
	if !category.Valid() {
		return nil, fieldError("category", ErrInvalidInput, fmt.Sprintf("unknown category %q", input.Category))
	}

	report := &model.FaultReport{
		ReporterName:      reporter,
		FaultTime:         faultTime,
		VehicleID:         vehicle,
		Category:          category,
		Description:       strings.TrimSpace(input.Description),
		Solution:          strings.TrimSpace(input.Solution),
		ResponsiblePerson: strings.TrimSpace(input.ResponsiblePerson),
		Status:            model.FaultStatusPending,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("insert fault: %w", err)
	}
	return report, nil
}

func (s *FaultService) Get(ctx context.Context, id uint) (*model.FaultReport, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

func (s *FaultService) History(ctx context.Context, id uint) ([]model.FaultStatusLog, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.StatusHistory(ctx, id)
}

// UpdateResolution is the edit workflow: status and resolution log are the
// only mutable fields. The change and its audit entry commit together.
func (s *FaultService) UpdateResolution(ctx context.Context, principal model.Principal, id uint, status model.FaultStatus, resolutionLog string) (*model.FaultReport, error) {
	if !principal.CanWrite() {
		return nil, ErrPermissionDenied
	}
	if !status.Valid() {
		return nil, fieldError("status", ErrInvalidInput, fmt.Sprintf("unknown status %q", status))
	}

	var updated *model.FaultReport
	err := s.repo.WithTx(ctx, func(tx *repository.FaultRepository) error {
		current, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.UpdateResolution(ctx, id, status, resolutionLog); err != nil {
			return err
		}
		prev := current.Status
		changedBy := principal.UserID
		if err := tx.LogStatusChange(ctx, &model.FaultStatusLog{
			FaultID:   id,
			OldStatus: &prev,
			NewStatus: status,
			Note:      resolutionLog,
			ChangedBy: &changedBy,
		}); err != nil {
			return err
		}
		current.Status = status
		current.ResolutionLog = resolutionLog
		updated = current
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Search returns one page of matching faults, newest first. The count and the
// page come from the same filter.
func (s *FaultService) Search(ctx context.Context, criteria query.Criteria, page query.PageRequest) (*model.FaultPage, error) {
	filter, err := query.BuildFilter(criteria, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	info := query.ResolvePage(page, total)

	items := make([]model.FaultReport, 0)
	if total > 0 {
		items, err = s.repo.List(ctx, filter, info.PerPage, info.Offset)
		if err != nil {
			return nil, err
		}
	}

	return &model.FaultPage{Items: items, Page: info}, nil
}

// Statistics groups faults in the optional date range. An unknown dimension
// is replaced by the default and reported in Advisory.
func (s *FaultService) Statistics(ctx context.Context, groupBy, startDate, endDate string) (*model.Statistics, error) {
	grouping, advisory := query.ResolveGrouping(groupBy, s.repo.Dialect(), s.loc)

	dates, err := query.ParseDateRange(startDate, endDate, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rows, err := s.repo.Aggregate(ctx, dates.Filter(), grouping)
	if err != nil {
		return nil, err
	}

	chart := model.ChartSeries{
		Labels: make([]string, 0, len(rows)),
		Counts: make([]int64, 0, len(rows)),
	}
	for _, row := range rows {
		chart.Labels = append(chart.Labels, chartLabel(grouping.Dimension, row.GroupKey))
		chart.Counts = append(chart.Counts, row.Count)
	}

	return &model.Statistics{
		GroupBy:  grouping.Dimension.String(),
		Advisory: advisory,
		Rows:     rows,
		Chart:    chart,
	}, nil
}

// chartLabel shows categories and statuses by their display label. Other keys
// are already human readable.
func chartLabel(d query.Dimension, key string) string {
	switch d {
	case query.DimensionCategory:
		if c := model.FaultCategory(key); c.Valid() {
			return c.Label()
		}
	case query.DimensionStatus:
		if st := model.FaultStatus(key); st.Valid() {
			return st.Label()
		}
	}
	return key
}

// Export writes every fault in the optional date range, newest first.
func (s *FaultService) Export(ctx context.Context, w io.Writer, format export.Format, startDate, endDate string) error {
	dates, err := query.ParseDateRange(startDate, endDate, s.loc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	reports, err := s.repo.List(ctx, dates.Filter(), 0, 0)
	if err != nil {
		return err
	}

	switch format {
	case export.FormatXLSX:
		return export.WriteXLSX(w, reports)
	default:
		return export.WriteCSV(w, reports)
	}
}

func (s *FaultService) Meta() model.Meta {
	meta := model.Meta{
		Categories:     make([]model.Option, 0, len(model.FaultCategories)),
		Statuses:       make([]model.Option, 0, len(model.FaultStatuses)),
		PageSizes:      make([]int, 0, len(query.PageSizes)),
		GroupByOptions: make([]string, 0, len(query.Dimensions)),
	}
	for _, c := range model.FaultCategories {
		meta.Categories = append(meta.Categories, model.Option{Value: string(c), Label: c.Label()})
	}
	for _, st := range model.FaultStatuses {
		meta.Statuses = append(meta.Statuses, model.Option{Value: string(st), Label: st.Label()})
	}
	for _, size := range query.PageSizes {
		meta.PageSizes = append(meta.PageSizes, int(size))
	}
	for _, d := range query.Dimensions {
		meta.GroupByOptions = append(meta.GroupByOptions, d.String())
	}
	return meta
}
