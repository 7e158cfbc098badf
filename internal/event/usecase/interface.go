package usecase

import (
	"github.com/linq-app/linq-backend/internal/event/domain"
	"github.com/linq-app/linq-backend/internal/event/dto"
)

// EventUsecase defines the business operations on calendar events.
type EventUsecase interface {
	// CreateEvent validates, applies smart defaults for unset fields, runs
	// the advisory conflict check and persists the event.
	CreateEvent(userID string, req *dto.CreateEventRequest) (*dto.EventResult, error)

	// GetEvents lists the user's events with filters and pagination.
	GetEvents(userID string, query *dto.ListEventsQuery) (*dto.EventsResponse, error)

	// GetEventByID returns one event or a NOT_FOUND error.
	GetEventByID(userID, id string) (*domain.Event, error)

	// UpdateEvent patches an event; the conflict check excludes the event
	// itself so it never self-conflicts.
	UpdateEvent(userID, id string, req *dto.UpdateEventRequest) (*dto.EventResult, error)

	// DeleteEvent removes an event.
	DeleteEvent(userID, id string) error

	// GetStats aggregates the user's events.
	GetStats(userID string) (*domain.Stats, error)
}
