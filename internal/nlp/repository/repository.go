package repository

import (
	"time"

	"github.com/linq-app/linq-backend/internal/nlp/domain"
)

type AnalysisRepository interface {
	// GetCached returns the newest analysis for the hash no older than
	// maxAge, or nil when nothing usable exists.
	GetCached(userID, inputHash string, analysisType domain.AnalysisType, maxAge time.Duration) (*domain.Analysis, error)
	Save(analysis *domain.Analysis) error
	// PurgeOlderThan deletes analyses created before the cutoff and
	// returns the number of rows removed.
	PurgeOlderThan(cutoff time.Time) (int64, error)
}
