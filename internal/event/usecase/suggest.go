package usecase

import (
	"strings"

	"github.com/linq-app/linq-backend/internal/event/domain"
)

// Keyword tables for the smart defaults applied when the client leaves a
// field unset. Static and ordered: the first matching entry wins, the
// explicit default closes each table.

var categoryKeywords = []struct {
	category domain.EventCategory
	keywords []string
}{
	{domain.CategoryWork, []string{"회의", "미팅", "업무", "프로젝트", "발표", "출장", "회사", "팀", "스탠드업", "리뷰", "기획"}},
	{domain.CategoryHealth, []string{"운동", "헬스", "요가", "필라테스", "병원", "검진", "마사지", "러닝", "수영", "산책"}},
	{domain.CategorySocial, []string{"식사", "모임", "파티", "약속", "만남", "술", "카페", "여행", "데이트", "친구"}},
	{domain.CategoryPersonal, []string{"공부", "독서", "쇼핑", "청소", "정리", "휴식", "취미", "영화", "게임", "개인"}},
}

var highPriorityKeywords = []string{"중요", "긴급", "필수", "마감", "발표", "회의", "시험", "면접"}
var lowPriorityKeywords = []string{"여가", "쇼핑", "산책", "휴식", "취미", "게임"}

// categoryPriorityDefaults maps a category to its fallback priority when the
// title matched no keyword.
var categoryPriorityDefaults = map[domain.EventCategory]domain.EventPriority{
	domain.CategoryWork:     domain.PriorityHigh,
	domain.CategoryHealth:   domain.PriorityMedium,
	domain.CategorySocial:   domain.PriorityMedium,
	domain.CategoryPersonal: domain.PriorityLow,
}

// SuggestCategory infers a category from the event title. Defaults to
// personal when nothing matches.
func SuggestCategory(title string) domain.EventCategory {
	titleLower := strings.ToLower(title)

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(titleLower, keyword) {
				return entry.category
			}
		}
	}

	return domain.CategoryPersonal
}

// SuggestPriority infers a priority from the title, falling back to the
// category default.
func SuggestPriority(title string, category domain.EventCategory) domain.EventPriority {
	titleLower := strings.ToLower(title)

	for _, keyword := range highPriorityKeywords {
		if strings.Contains(titleLower, keyword) {
			return domain.PriorityHigh
		}
	}
	for _, keyword := range lowPriorityKeywords {
		if strings.Contains(titleLower, keyword) {
			return domain.PriorityLow
		}
	}

	if p, ok := categoryPriorityDefaults[category]; ok {
		return p
	}
	return domain.PriorityMedium
}

// SuggestNotifications picks default reminders. All-day events get a single
// day-before reminder; timed events get a category-based default.
func SuggestNotifications(category domain.EventCategory, isAllDay bool) []domain.NotificationType {
	if isAllDay {
		return []domain.NotificationType{domain.Notify1DayPrior}
	}

	switch category {
	case domain.CategoryWork:
		return []domain.NotificationType{domain.Notify15MinPrior, domain.NotifyOnTime}
	case domain.CategoryHealth:
		return []domain.NotificationType{domain.Notify30MinPrior}
	case domain.CategorySocial:
		return []domain.NotificationType{domain.Notify15MinPrior}
	case domain.CategoryPersonal:
		return []domain.NotificationType{domain.NotifyOnTime}
	default:
		return []domain.NotificationType{domain.Notify15MinPrior}
	}
}
