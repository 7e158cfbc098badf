package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/linq-app/linq-backend/internal/nlp/domain"
)

type gormAnalysisRepository struct {
	db *gorm.DB
}

func NewGormAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &gormAnalysisRepository{db: db}
}

func (r *gormAnalysisRepository) GetCached(userID, inputHash string, analysisType domain.AnalysisType, maxAge time.Duration) (*domain.Analysis, error) {
	var analysis domain.Analysis
	cutoff := time.Now().Add(-maxAge)
	err := r.db.
		Where("user_id = ? AND input_hash = ? AND type = ?", userID, inputHash, analysisType).
		Where("created_at >= ?", cutoff).
		Order("created_at DESC").
		First(&analysis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &analysis, nil
}

func (r *gormAnalysisRepository) Save(analysis *domain.Analysis) error {
	return r.db.Create(analysis).Error
}

func (r *gormAnalysisRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&domain.Analysis{})
	return result.RowsAffected, result.Error
}
