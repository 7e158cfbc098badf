package delivery

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linq-app/linq-backend/internal/event/domain"
	"github.com/linq-app/linq-backend/internal/event/dto"
	"github.com/linq-app/linq-backend/internal/event/usecase"
	"github.com/linq-app/linq-backend/pkg/apperror"
	"github.com/linq-app/linq-backend/pkg/ratelimit"
	"github.com/linq-app/linq-backend/pkg/response"
)

// EventHandler exposes the calendar event endpoints.
type EventHandler struct {
	eventUsecase usecase.EventUsecase
	writeLimiter ratelimit.Limiter
	readLimiter  ratelimit.Limiter
}

func NewEventHandler(eventUsecase usecase.EventUsecase, writeLimiter, readLimiter ratelimit.Limiter) *EventHandler {
	return &EventHandler{
		eventUsecase: eventUsecase,
		writeLimiter: writeLimiter,
		readLimiter:  readLimiter,
	}
}

func (h *EventHandler) checkLimit(c *gin.Context, limiter ratelimit.Limiter, action string) bool {
	userID := c.GetString("userID")
	ok, retryAfter := limiter.Allow(action + ":" + userID)
	if !ok {
		response.Fail(c, apperror.RateLimited(
			fmt.Sprintf("Rate limit exceeded. Please try again in %d seconds.", int(retryAfter.Seconds())+1)))
		return false
	}
	return true
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	if !h.checkLimit(c, h.writeLimiter, "create_event") {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("Invalid JSON in request body"))
		return
	}

	result, err := h.eventUsecase.CreateEvent(c.GetString("userID"), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, result)
}

// GetEvents handles GET /api/events
func (h *EventHandler) GetEvents(c *gin.Context) {
	if !h.checkLimit(c, h.readLimiter, "get_events") {
		return
	}

	query, err := parseListQuery(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	result, err := h.eventUsecase.GetEvents(c.GetString("userID"), query)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, result)
}

// GetEventByID handles GET /api/events/:id
func (h *EventHandler) GetEventByID(c *gin.Context) {
	if !h.checkLimit(c, h.readLimiter, "get_events") {
		return
	}

	event, err := h.eventUsecase.GetEventByID(c.GetString("userID"), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"event": event})
}

// UpdateEvent handles PUT /api/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	if !h.checkLimit(c, h.writeLimiter, "update_event") {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("Invalid JSON in request body"))
		return
	}

	result, err := h.eventUsecase.UpdateEvent(c.GetString("userID"), c.Param("id"), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, result)
}

// DeleteEvent handles DELETE /api/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if !h.checkLimit(c, h.writeLimiter, "delete_event") {
		return
	}

	if err := h.eventUsecase.DeleteEvent(c.GetString("userID"), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"deleted": true})
}

// GetStats handles GET /api/events/stats
func (h *EventHandler) GetStats(c *gin.Context) {
	if !h.checkLimit(c, h.readLimiter, "get_events") {
		return
	}

	stats, err := h.eventUsecase.GetStats(c.GetString("userID"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, stats)
}

func parseListQuery(c *gin.Context) (*dto.ListEventsQuery, error) {
	query := &dto.ListEventsQuery{}

	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, apperror.Validation("Invalid startDate format. Use ISO 8601 format.")
		}
		query.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, apperror.Validation("Invalid endDate format. Use ISO 8601 format.")
		}
		query.EndDate = &t
	}
	if v := c.Query("category"); v != "" {
		cat := domain.EventCategory(v)
		if !domain.ValidCategory(cat) {
			return nil, apperror.Validation("Invalid category. Must be one of: work, health, social, personal")
		}
		query.Category = &cat
	}
	if v := c.Query("completed"); v != "" {
		if v != "true" && v != "false" {
			return nil, apperror.Validation("completed must be true or false")
		}
		completed := v == "true"
		query.Completed = &completed
	}
	if v := c.Query("priority"); v != "" {
		p := domain.EventPriority(v)
		if !domain.ValidPriority(p) {
			return nil, apperror.Validation("Invalid priority. Must be one of: HIGH, MEDIUM, LOW")
		}
		query.Priority = &p
	}
	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return nil, apperror.Validation("page must be a positive integer")
		}
		query.Page = page
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 100 {
			return nil, apperror.Validation("limit must be between 1 and 100")
		}
		query.Limit = limit
	}

	return query, nil
}
