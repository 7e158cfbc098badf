package usecase

import (
	"fmt"
	"strings"

	"github.com/linq-app/linq-backend/pkg/ai"
)

const maxSuggestions = 3

var locationHints = []string{"회의실", "카페", "집", "헬스장", "병원", "레스토랑"}

var recurringKeywords = []string{"매일", "매주", "월요일마다", "정기"}

// GenerateSuggestions produces up to three follow-up hints for a parsed
// event: a location guess when the input mentions a place the model
// missed, a notification hint per category, and a recurrence prompt.
func GenerateSuggestions(parsed *ai.ParsedEvent, input string) []string {
	suggestions := make([]string, 0, maxSuggestions)

	if parsed.Location == "" {
		lowerTitle := strings.ToLower(parsed.Title)
		lowerInput := strings.ToLower(input)
		for _, hint := range locationHints {
			if strings.Contains(lowerTitle, hint) || strings.Contains(lowerInput, hint) {
				suggestions = append(suggestions, fmt.Sprintf("장소: %s", hint))
				break
			}
		}
	}

	switch parsed.Category {
	case ai.CategoryWork:
		suggestions = append(suggestions, "15분 전 알림 추천")
	case ai.CategoryHealth:
		suggestions = append(suggestions, "30분 전 알림 추천")
	case ai.CategorySocial:
		suggestions = append(suggestions, "출발 시간 고려한 알림 추천")
	}

	for _, keyword := range recurringKeywords {
		if strings.Contains(input, keyword) {
			suggestions = append(suggestions, "반복 일정으로 설정하시겠습니까?")
			break
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
