package usecase

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/linq-app/linq-backend/internal/event/domain"
	"github.com/linq-app/linq-backend/internal/event/dto"
	"github.com/linq-app/linq-backend/internal/event/repository"
	"github.com/linq-app/linq-backend/pkg/apperror"
)

// eventUsecase implements EventUsecase
type eventUsecase struct {
	eventRepo repository.EventRepository
	now       func() time.Time
}

// NewEventUsecase creates a new instance of eventUsecase
func NewEventUsecase(eventRepo repository.EventRepository) EventUsecase {
	return &eventUsecase{
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

func (u *eventUsecase) CreateEvent(userID string, req *dto.CreateEventRequest) (*dto.EventResult, error) {
	start, end, err := validateEventFields(req.Title, req.StartDate, req.EndDate, req.Color, req.Category, req.Priority, req.Notifications)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		UserID:        userID,
		Title:         strings.TrimSpace(req.Title),
		StartDate:     start,
		EndDate:       end,
		IsAllDay:      req.IsAllDay,
		Color:         req.Color,
		Location:      req.Location,
		Notifications: req.Notifications,
		Category:      req.Category,
		Priority:      req.Priority,
		Description:   req.Description,
	}

	// Smart defaults for whatever the client left unset.
	if event.Category == "" {
		event.Category = SuggestCategory(event.Title)
	}
	if event.Priority == "" {
		event.Priority = SuggestPriority(event.Title, event.Category)
	}
	if len(event.Notifications) == 0 {
		event.Notifications = SuggestNotifications(event.Category, event.IsAllDay)
	}

	conflicts, err := u.eventRepo.FindOverlapping(userID, start, end, "")
	if err != nil {
		log.Printf("[ERROR] Conflict check failed for user %s: %v", userID, err)
		return nil, apperror.Database("Failed to check event conflicts")
	}

	if err := u.eventRepo.Create(event); err != nil {
		log.Printf("[ERROR] Failed to create event for user %s: %v", userID, err)
		return nil, apperror.Database("Failed to create event")
	}

	return buildEventResult(event, conflicts), nil
}

func (u *eventUsecase) GetEvents(userID string, query *dto.ListEventsQuery) (*dto.EventsResponse, error) {
	if query.StartDate != nil && query.EndDate != nil && query.StartDate.After(*query.EndDate) {
		return nil, apperror.New(apperror.CodeInvalidDateRange, "startDate must be before or equal to endDate", 400)
	}

	filter := repository.ListFilter{
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Category:  query.Category,
		Completed: query.Completed,
		Priority:  query.Priority,
		Page:      query.Page,
		Limit:     query.Limit,
	}

	events, total, err := u.eventRepo.FindByUser(userID, filter)
	if err != nil {
		log.Printf("[ERROR] Failed to list events for user %s: %v", userID, err)
		return nil, apperror.Database("Failed to fetch events")
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	return &dto.EventsResponse{Events: events, Total: total, Page: page, Limit: limit}, nil
}

func (u *eventUsecase) GetEventByID(userID, id string) (*domain.Event, error) {
	event, err := u.eventRepo.FindByID(userID, id)
	if err != nil {
		log.Printf("[ERROR] Failed to fetch event %s: %v", id, err)
		return nil, apperror.Database("Failed to fetch event")
	}
	if event == nil {
		return nil, apperror.NotFound("Event not found")
	}
	return event, nil
}

func (u *eventUsecase) UpdateEvent(userID, id string, req *dto.UpdateEventRequest) (*dto.EventResult, error) {
	event, err := u.GetEventByID(userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, apperror.Validation("Title is required and must be a non-empty string")
		}
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.StartDate != nil {
		start, err := parseISODate(*req.StartDate)
		if err != nil {
			return nil, apperror.Validation("Valid start_date in ISO format is required")
		}
		event.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseISODate(*req.EndDate)
		if err != nil {
			return nil, apperror.Validation("Valid end_date in ISO format is required")
		}
		event.EndDate = end
	}
	if !event.StartDate.Before(event.EndDate) {
		return nil, apperror.Validation("start_date must be before end_date")
	}
	if req.IsAllDay != nil {
		event.IsAllDay = *req.IsAllDay
	}
	if req.Color != nil {
		if !domain.ValidColor(*req.Color) {
			return nil, apperror.Validation(fmt.Sprintf("color must be one of: %s", strings.Join(domain.EventColors, ", ")))
		}
		event.Color = *req.Color
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Notifications != nil {
		for _, n := range *req.Notifications {
			if !domain.ValidNotification(n) {
				return nil, apperror.Validation(fmt.Sprintf("Invalid notification: %s", n))
			}
		}
		event.Notifications = *req.Notifications
	}
	if req.Category != nil {
		if !domain.ValidCategory(*req.Category) {
			return nil, apperror.Validation("category must be one of: work, health, social, personal")
		}
		event.Category = *req.Category
	}
	if req.Priority != nil {
		if !domain.ValidPriority(*req.Priority) {
			return nil, apperror.Validation("priority must be one of: HIGH, MEDIUM, LOW")
		}
		event.Priority = *req.Priority
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.IsCompleted != nil {
		event.IsCompleted = *req.IsCompleted
	}

	conflicts, err := u.eventRepo.FindOverlapping(userID, event.StartDate, event.EndDate, event.ID)
	if err != nil {
		log.Printf("[ERROR] Conflict check failed for user %s: %v", userID, err)
		return nil, apperror.Database("Failed to check event conflicts")
	}

	if err := u.eventRepo.Update(event); err != nil {
		log.Printf("[ERROR] Failed to update event %s: %v", id, err)
		return nil, apperror.Database("Failed to update event")
	}

	return buildEventResult(event, conflicts), nil
}

func (u *eventUsecase) DeleteEvent(userID, id string) error {
	if _, err := u.GetEventByID(userID, id); err != nil {
		return err
	}
	if err := u.eventRepo.Delete(userID, id); err != nil {
		log.Printf("[ERROR] Failed to delete event %s: %v", id, err)
		return apperror.Database("Failed to delete event")
	}
	return nil
}

func (u *eventUsecase) GetStats(userID string) (*domain.Stats, error) {
	stats, err := u.eventRepo.Stats(userID, u.now())
	if err != nil {
		log.Printf("[ERROR] Failed to compute stats for user %s: %v", userID, err)
		return nil, apperror.Database("Failed to compute stats")
	}
	return stats, nil
}

func buildEventResult(event *domain.Event, conflicts []*domain.Event) *dto.EventResult {
	result := &dto.EventResult{Event: event}
	if len(conflicts) > 0 {
		result.Conflicts = conflicts
		result.Warnings = []string{
			fmt.Sprintf("%d개의 기존 일정과 시간이 겹칩니다. 일정을 확인해 주세요.", len(conflicts)),
		}
	}
	return result
}

func parseISODate(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

// validateEventFields mirrors the client contract: every violation is
// collected so the user sees them all at once.
func validateEventFields(title, startDate, endDate, color string, category domain.EventCategory, priority domain.EventPriority, notifications []domain.NotificationType) (time.Time, time.Time, error) {
	var errs []string

	if strings.TrimSpace(title) == "" {
		errs = append(errs, "Title is required and must be a non-empty string")
	}

	start, startErr := parseISODate(startDate)
	if startErr != nil {
		errs = append(errs, "Valid start_date in ISO format is required")
	}
	end, endErr := parseISODate(endDate)
	if endErr != nil {
		errs = append(errs, "Valid end_date in ISO format is required")
	}
	if startErr == nil && endErr == nil && !start.Before(end) {
		errs = append(errs, "start_date must be before end_date")
	}

	if !domain.ValidColor(color) {
		errs = append(errs, fmt.Sprintf("color must be one of: %s", strings.Join(domain.EventColors, ", ")))
	}
	if category != "" && !domain.ValidCategory(category) {
		errs = append(errs, "category must be one of: work, health, social, personal")
	}
	if priority != "" && !domain.ValidPriority(priority) {
		errs = append(errs, "priority must be one of: HIGH, MEDIUM, LOW")
	}
	for _, n := range notifications {
		if !domain.ValidNotification(n) {
			errs = append(errs, fmt.Sprintf("Invalid notification: %s", n))
		}
	}

	if len(errs) > 0 {
		return time.Time{}, time.Time{}, apperror.Validation("Validation failed").WithDetails(errs)
	}
	return start, end, nil
}
