package usecase

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/linq-app/linq-backend/internal/nlp/repository"
)

// RetentionJanitor deletes analyses past their retention period on a
// daily schedule. Cache lookups already ignore stale rows, so the
// janitor only reclaims storage.
type RetentionJanitor struct {
	analysisRepo repository.AnalysisRepository
	retention    time.Duration
	cron         *cron.Cron
}

func NewRetentionJanitor(analysisRepo repository.AnalysisRepository, retention time.Duration) *RetentionJanitor {
	return &RetentionJanitor{
		analysisRepo: analysisRepo,
		retention:    retention,
		cron:         cron.New(),
	}
}

// Start schedules the daily purge. Call Stop on shutdown.
func (j *RetentionJanitor) Start() error {
	if _, err := j.cron.AddFunc("@daily", j.runOnce); err != nil {
		return err
	}
	j.cron.Start()
	log.Printf("[INFO] Analysis retention janitor started (retention %s)", j.retention)
	return nil
}

func (j *RetentionJanitor) Stop() {
	j.cron.Stop()
}

func (j *RetentionJanitor) runOnce() {
	removed, err := j.analysisRepo.PurgeOlderThan(time.Now().Add(-j.retention))
	if err != nil {
		log.Printf("[ERROR] Analysis retention purge failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("[INFO] Purged %d expired analyses", removed)
	}
}
