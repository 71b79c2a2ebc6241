package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fault-service/internal/model"
	"fault-service/internal/query"
)

var ErrNotFound = errors.New("fault not found")

type FaultRepository struct {
	db *gorm.DB
}

func NewFaultRepository(db *gorm.DB) *FaultRepository {
	return &FaultRepository{db: db}
}

// WithTx runs fn inside one write transaction; fn receives a repository bound
// to that transaction.
func (r *FaultRepository) WithTx(ctx context.Context, fn func(tx *FaultRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&FaultRepository{db: tx})
	})
}

// Dialect reports the SQL flavour of the underlying connection.
func (r *FaultRepository) Dialect() query.Dialect {
	return query.Dialect(r.db.Dialector.Name())
}

func (r *FaultRepository) Create(ctx context.Context, report *model.FaultReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *FaultRepository) GetByID(ctx context.Context, id uint) (*model.FaultReport, error) {
	var report model.FaultReport
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *FaultRepository) UpdateResolution(ctx context.Context, id uint, status model.FaultStatus, resolutionLog string) error {
	res := r.db.WithContext(ctx).
		Model(&model.FaultReport{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"resolution_log": resolutionLog,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FaultRepository) LogStatusChange(ctx context.Context, entry *model.FaultStatusLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *FaultRepository) StatusHistory(ctx context.Context, faultID uint) ([]model.FaultStatusLog, error) {
	var entries []model.FaultStatusLog
	if err := r.db.WithContext(ctx).
		Where("fault_id = ?", faultID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *FaultRepository) Count(ctx context.Context, filter query.Filter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// List returns matching rows newest first. A non-positive limit means all rows.
func (r *FaultRepository) List(ctx context.Context, filter query.Filter, limit, offset int) ([]model.FaultReport, error) {
	q := r.filtered(ctx, filter).Order("fault_time DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var reports []model.FaultReport
	if err := q.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// Aggregate counts matching rows per group. Grouping fragments come only from
// query.Dimension.Grouping.
func (r *FaultRepository) Aggregate(ctx context.Context, filter query.Filter, grouping query.Grouping) ([]model.GroupCount, error) {
	rows := make([]model.GroupCount, 0)
	if err := r.filtered(ctx, filter).
		Select(grouping.Expr+" AS group_key, COUNT(*) AS total", grouping.Args...).
		Group("group_key").
		Order(grouping.Order).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *FaultRepository) filtered(ctx context.Context, filter query.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.FaultReport{})
	if expr, args := filter.Expr(); expr != "" {
		q = q.Where(expr, args...)
	}
	return q
}
