package domain

import "time"

// EventCategory is the fixed taxonomy shared with the mobile client.
type EventCategory string

const (
	CategoryWork     EventCategory = "work"
	CategoryHealth   EventCategory = "health"
	CategorySocial   EventCategory = "social"
	CategoryPersonal EventCategory = "personal"
)

// EventPriority represents event priority level
type EventPriority string

const (
	PriorityHigh   EventPriority = "HIGH"
	PriorityMedium EventPriority = "MEDIUM"
	PriorityLow    EventPriority = "LOW"
)

// NotificationType is a reminder offset label. The Korean labels are the
// wire format the mobile client renders directly.
type NotificationType string

const (
	NotifyOnTime     NotificationType = "정시"
	Notify15MinPrior NotificationType = "15분전"
	Notify30MinPrior NotificationType = "30분전"
	Notify1HourPrior NotificationType = "1시간전"
	Notify1DayPrior  NotificationType = "1일전"
)

// EventColors is the palette the client offers; other values are rejected.
var EventColors = []string{
	"#EF4444", "#F97316", "#EAB308", "#22C55E",
	"#3B82F6", "#8B5CF6", "#EC4899", "#6B7280",
}

// Event is a calendar event owned by a single user.
type Event struct {
	ID            string             `json:"id" gorm:"primaryKey"`
	UserID        string             `json:"user_id" gorm:"index;not null"`
	Title         string             `json:"title" gorm:"not null"`
	StartDate     time.Time          `json:"start_date" gorm:"index;not null"`
	EndDate       time.Time          `json:"end_date" gorm:"not null"`
	IsAllDay      bool               `json:"is_all_day"`
	Color         string             `json:"color"`
	Location      string             `json:"location,omitempty"`
	Notifications []NotificationType `json:"notifications" gorm:"serializer:json"`
	Category      EventCategory      `json:"category"`
	IsCompleted   bool               `json:"is_completed"`
	Priority      EventPriority      `json:"priority,omitempty"`
	Description   string             `json:"description,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c EventCategory) bool {
	switch c {
	case CategoryWork, CategoryHealth, CategorySocial, CategoryPersonal:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p EventPriority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ValidNotification reports whether n is a known reminder label.
func ValidNotification(n NotificationType) bool {
	switch n {
	case NotifyOnTime, Notify15MinPrior, Notify30MinPrior, Notify1HourPrior, Notify1DayPrior:
		return true
	}
	return false
}

// ValidColor reports whether c belongs to the client palette.
func ValidColor(c string) bool {
	for _, color := range EventColors {
		if color == c {
			return true
		}
	}
	return false
}

// Stats summarizes a user's events for the analytics screen.
type Stats struct {
	Total      int64                   `json:"total"`
	Completed  int64                   `json:"completed"`
	Pending    int64                   `json:"pending"`
	Today      int64                   `json:"today"`
	ThisWeek   int64                   `json:"this_week"`
	ByCategory map[EventCategory]int64 `json:"by_category"`
	ByPriority map[string]int64        `json:"by_priority"`
}
