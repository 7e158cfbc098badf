package repository

import (
	"time"

	"github.com/linq-app/linq-backend/internal/event/domain"
)

// ListFilter narrows FindByUser results. Nil fields are ignored.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *domain.EventCategory
	Completed *bool
	Priority  *domain.EventPriority
	Page      int
	Limit     int
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(event *domain.Event) error

	// FindByID finds an event by its ID, scoped to the owning user
	FindByID(userID, id string) (*domain.Event, error)

	// FindByUser lists a user's events with filters and pagination,
	// ordered by start date ascending. Returns the total match count.
	FindByUser(userID string, filter ListFilter) ([]*domain.Event, int64, error)

	// Update updates an existing event
	Update(event *domain.Event) error

	// Delete deletes an event by ID, scoped to the owning user
	Delete(userID, id string) error

	// FindOverlapping returns the user's non-completed events whose
	// [start, end) range overlaps the given one. excludeID, when non-empty,
	// removes the event being edited from the result so it never conflicts
	// with itself.
	FindOverlapping(userID string, start, end time.Time, excludeID string) ([]*domain.Event, error)

	// Stats aggregates the user's events; now anchors the today/this-week
	// buckets.
	Stats(userID string, now time.Time) (*domain.Stats, error)
}
