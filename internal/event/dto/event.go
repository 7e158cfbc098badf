package dto

import (
	"time"

	"github.com/linq-app/linq-backend/internal/event/domain"
)

type CreateEventRequest struct {
	Title         string                    `json:"title" binding:"required"`
	StartDate     string                    `json:"start_date" binding:"required"`
	EndDate       string                    `json:"end_date" binding:"required"`
	IsAllDay      bool                      `json:"is_all_day"`
	Color         string                    `json:"color" binding:"required"`
	Location      string                    `json:"location"`
	Notifications []domain.NotificationType `json:"notifications"`
	Category      domain.EventCategory      `json:"category"`
	Priority      domain.EventPriority      `json:"priority"`
	Description   string                    `json:"description"`
}

type UpdateEventRequest struct {
	Title         *string                    `json:"title"`
	StartDate     *string                    `json:"start_date"`
	EndDate       *string                    `json:"end_date"`
	IsAllDay      *bool                      `json:"is_all_day"`
	Color         *string                    `json:"color"`
	Location      *string                    `json:"location"`
	Notifications *[]domain.NotificationType `json:"notifications"`
	Category      *domain.EventCategory      `json:"category"`
	Priority      *domain.EventPriority      `json:"priority"`
	Description   *string                    `json:"description"`
	IsCompleted   *bool                      `json:"is_completed"`
}

// ListEventsQuery is the parsed query-string filter for event listing.
type ListEventsQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *domain.EventCategory
	Completed *bool
	Priority  *domain.EventPriority
	Page      int
	Limit     int
}

// EventResult is a write response: the event plus any advisory conflicts.
// Conflicts never block the write.
type EventResult struct {
	Event     *domain.Event   `json:"event"`
	Conflicts []*domain.Event `json:"conflicts,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
}

type EventsResponse struct {
	Events []*domain.Event `json:"events"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}
