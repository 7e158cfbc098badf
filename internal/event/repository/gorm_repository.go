package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linq-app/linq-backend/internal/event/domain"
)

// gormEventRepository implements EventRepository using GORM
type gormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new GORM-based EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &gormEventRepository{db: db}
}

func (r *gormEventRepository) Create(event *domain.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	return r.db.Create(event).Error
}

func (r *gormEventRepository) FindByID(userID, id string) (*domain.Event, error) {
	var event domain.Event
	err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *gormEventRepository) FindByUser(userID string, filter ListFilter) ([]*domain.Event, int64, error) {
	query := r.db.Model(&domain.Event{}).Where("user_id = ?", userID)

	if filter.StartDate != nil {
		query = query.Where("start_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		// Inclusive end day: anything starting before the midnight that
		// follows the end date, whatever time of day was sent.
		d := filter.EndDate
		dayEnd := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()).AddDate(0, 0, 1)
		query = query.Where("start_date < ?", dayEnd)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Completed != nil {
		query = query.Where("is_completed = ?", *filter.Completed)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var events []*domain.Event
	err := query.Order("start_date ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&events).Error

	return events, total, err
}

func (r *gormEventRepository) Update(event *domain.Event) error {
	event.UpdatedAt = time.Now()
	return r.db.Save(event).Error
}

func (r *gormEventRepository) Delete(userID, id string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&domain.Event{}).Error
}

func (r *gormEventRepository) FindOverlapping(userID string, start, end time.Time, excludeID string) ([]*domain.Event, error) {
	// Half-open interval overlap: existing.start < end AND existing.end > start.
	query := r.db.Where("user_id = ? AND is_completed = ?", userID, false).
		Where("start_date < ? AND end_date > ?", end, start)

	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var events []*domain.Event
	err := query.Order("start_date ASC").Find(&events).Error
	return events, err
}

func (r *gormEventRepository) Stats(userID string, now time.Time) (*domain.Stats, error) {
	stats := &domain.Stats{
		ByCategory: make(map[domain.EventCategory]int64),
		ByPriority: make(map[string]int64),
	}

	base := func() *gorm.DB {
		return r.db.Model(&domain.Event{}).Where("user_id = ?", userID)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_completed = ?", true).Count(&stats.Completed).Error; err != nil {
		return nil, err
	}
	stats.Pending = stats.Total - stats.Completed

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	if err := base().Where("start_date >= ? AND start_date < ?", dayStart, dayEnd).Count(&stats.Today).Error; err != nil {
		return nil, err
	}

	// Week starts on Monday.
	weekday := (int(now.Weekday()) + 6) % 7
	weekStart := dayStart.AddDate(0, 0, -weekday)
	weekEnd := weekStart.AddDate(0, 0, 7)
	if err := base().Where("start_date >= ? AND start_date < ?", weekStart, weekEnd).Count(&stats.ThisWeek).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key string
		Cnt int64
	}

	var byCategory []bucket
	if err := base().Select("category AS key, COUNT(*) AS cnt").Group("category").Scan(&byCategory).Error; err != nil {
		return nil, err
	}
	for _, b := range byCategory {
		stats.ByCategory[domain.EventCategory(b.Key)] = b.Cnt
	}

	var byPriority []bucket
	if err := base().Select("priority AS key, COUNT(*) AS cnt").Group("priority").Scan(&byPriority).Error; err != nil {
		return nil, err
	}
	for _, b := range byPriority {
		key := b.Key
		if key == "" {
			key = "NONE"
		}
		stats.ByPriority[key] = b.Cnt
	}

	return stats, nil
}
