package ai

import (
	"context"
	"errors"
	"time"
)

// Category is the fixed event taxonomy shared with the mobile client.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryHealth   Category = "health"
	CategorySocial   Category = "social"
	CategoryPersonal Category = "personal"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryHealth, CategorySocial, CategoryPersonal:
		return true
	}
	return false
}

// ParsedEvent is the model's structured answer for one free-text input,
// validated and with the self-healing fields already filled in.
type ParsedEvent struct {
	Title       string    `json:"title"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Category    Category  `json:"category"`
	IsAllDay    bool      `json:"isAllDay"`
	Confidence  float64   `json:"confidence"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Reasoning   string    `json:"reasoning,omitempty"`
}

// Usage is the token accounting reported by the completion API.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Gateway failure modes. Callers branch on these with errors.Is.
var (
	// ErrUnavailable marks transient transport failures (timeout, non-2xx).
	// Retryable.
	ErrUnavailable = errors.New("ai service unavailable")
	// ErrMalformedResponse marks a reply whose body is not the expected JSON.
	ErrMalformedResponse = errors.New("malformed ai response")
	// ErrIncompleteResult marks a reply missing required fields.
	ErrIncompleteResult = errors.New("incomplete ai result")
	// ErrInvalidDateRange marks unparsable dates or start >= end.
	ErrInvalidDateRange = errors.New("invalid date range in ai result")
)

// EventParser turns free-text input into a structured event candidate.
// ref is the reference timestamp relative expressions resolve against.
// Implement this interface to add new AI providers.
type EventParser interface {
	ParseEvent(ctx context.Context, input string, ref time.Time) (*ParsedEvent, *Usage, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderSolar ProviderType = "solar"
)
