package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, rec *UploadRecord) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*UploadRecord, error)
	AggregateStats(ctx context.Context, userID int64) ([]LabelStat, error)
}

// LabelStat is a per-label aggregate over one owner's records.
type LabelStat struct {
	Label         string  `json:"label"`
	Count         int64   `json:"count"`
	AvgConfidence float64 `json:"avgConfidence" gorm:"column:avg_confidence"`
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *UploadRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", ErrDuplicateFile, rec.StoredFileName)
		}
		return err
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*UploadRecord, error) {
	var records []*UploadRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}

func (r *repository) AggregateStats(ctx context.Context, userID int64) ([]LabelStat, error) {
	var stats []LabelStat
	err := r.db.WithContext(ctx).
		Model(&UploadRecord{}).
		Select("label, COUNT(*) AS count, AVG(confidence) AS avg_confidence").
		Where("user_id = ?", userID).
		Group("label").
		Order("label").
		Scan(&stats).Error
	return stats, err
}
