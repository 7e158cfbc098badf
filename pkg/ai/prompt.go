package ai

import (
	"fmt"
	"time"
)

// FixedZone returns the fixed offset zone natural-language times are
// interpreted in (KST when offsetHours is 9).
func FixedZone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// BuildSystemPrompt renders the system instruction for the parsing model.
// Deterministic given the same reference timestamp; the caller injects ref so
// tests never depend on the wall clock. The worked examples steer the model
// into resolving relative expressions to absolute values itself.
func BuildSystemPrompt(ref time.Time, offsetHours int) string {
	loc := FixedZone(offsetHours)
	local := ref.In(loc)
	tomorrow := local.AddDate(0, 0, 1).Format("2006-01-02")

	return fmt.Sprintf(`당신은 한국어 자연어를 일정 정보로 정확하게 파싱하는 AI 어시스턴트입니다.

**현재 시간**: %s

**중요 규칙**:
1. 모든 날짜와 시간은 UTC%+d 기준으로 처리하세요.
2. 상대적 표현을 절대적 날짜/시간으로 변환하세요.
3. 시간이 명시되지 않으면 적절한 기본값을 사용하세요.
4. 종료 시간이 없으면 시작 시간에서 1시간 후로 설정하세요.
5. 이벤트 제목은 간결하고 명확하게 작성하세요.

**날짜/시간 해석 예시**:
- "내일" → %s
- "다음 주 월요일" → 다음 주 월요일의 정확한 날짜
- "오후 2시" → 14:00:00
- "점심시간" → 12:00:00
- "저녁" → 18:00:00

**카테고리 분류 기준**:
- work: 회사, 업무, 회의, 프로젝트, 출장 관련
- health: 운동, 병원, 검진, 헬스케어 관련
- social: 만남, 식사, 파티, 모임, 여행 관련
- personal: 개인 업무, 쇼핑, 취미, 학습 관련

**JSON 형식으로만 응답하세요**:
{
  "title": "간결한 이벤트 제목",
  "startDate": "YYYY-MM-DDTHH:mm:ss%s",
  "endDate": "YYYY-MM-DDTHH:mm:ss%s",
  "category": "work|health|social|personal",
  "isAllDay": boolean,
  "confidence": 0.0~1.0,
  "location": "장소 (선택사항)",
  "description": "추가 설명 (선택사항)",
  "reasoning": "판단 근거 설명"
}`,
		local.Format(time.RFC3339),
		offsetHours,
		tomorrow,
		offsetSuffix(offsetHours),
		offsetSuffix(offsetHours),
	)
}

func offsetSuffix(offsetHours int) string {
	if offsetHours == 0 {
		return "Z"
	}
	sign := "+"
	if offsetHours < 0 {
		sign = "-"
		offsetHours = -offsetHours
	}
	return fmt.Sprintf("%s%02d:00", sign, offsetHours)
}
