package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultSolarBaseURL = "https://api.upstage.ai/v1/solar"
	defaultSolarModel   = "solar-1-mini-chat"
	defaultTimeout      = 15 * time.Second

	defaultConfidence = 0.8
)

// codeFenceRe strips markdown code fences the model sometimes wraps its JSON in.
var codeFenceRe = regexp.MustCompile("```json\n?|```\n?")

// SolarService implements EventParser using the Upstage Solar completion API.
type SolarService struct {
	apiKey        string
	baseURL       string
	model         string
	tzOffsetHours int
	httpClient    *http.Client
	limiter       *rate.Limiter
}

// NewSolarService creates a new Solar service. The HTTP client timeout bounds
// the single completion call; no retries are performed here.
func NewSolarService(apiKey, baseURL, model string, timeout time.Duration, tzOffsetHours int) *SolarService {
	if baseURL == "" {
		baseURL = defaultSolarBaseURL
	}
	if model == "" {
		model = defaultSolarModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SolarService{
		apiKey:        apiKey,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		model:         model,
		tzOffsetHours: tzOffsetHours,
		httpClient:    &http.Client{Timeout: timeout},
		// Client-side throttle on the paid API, separate from the per-user
		// request limiter in the orchestrator.
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int         `json:"index"`
		Message chatMessage `json:"message"`
		// finish_reason
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// rawParsedEvent is the untrusted shape decoded from the model's reply.
// Dates stay strings until validated; confidence is a pointer so "absent"
// and "zero" are distinguishable.
type rawParsedEvent struct {
	Title       string   `json:"title"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Category    Category `json:"category"`
	IsAllDay    bool     `json:"isAllDay"`
	Confidence  *float64 `json:"confidence"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Reasoning   string   `json:"reasoning"`
}

// ParseEvent implements EventParser.
func (s *SolarService) ParseEvent(ctx context.Context, input string, ref time.Time) (*ParsedEvent, *Usage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: BuildSystemPrompt(ref, s.tzOffsetHours)},
			{Role: "user", Content: fmt.Sprintf("다음 텍스트를 일정 정보로 파싱해주세요: %q", input)},
		},
		Temperature: 0.1,
		MaxTokens:   800,
		TopP:        0.9,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures are transient.
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%w: solar API error (%d): %s", ErrUnavailable, resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(chat.Choices) == 0 {
		return nil, nil, fmt.Errorf("%w: no choices in response", ErrMalformedResponse)
	}

	parsed, err := s.decodeCompletion(chat.Choices[0].Message.Content)
	if err != nil {
		return nil, nil, err
	}

	usage := chat.Usage
	return parsed, &usage, nil
}

// decodeCompletion validates the completion text as an event candidate.
// The content is untrusted input; everything is checked before it enters the
// domain model.
func (s *SolarService) decodeCompletion(content string) (*ParsedEvent, error) {
	jsonContent := strings.TrimSpace(codeFenceRe.ReplaceAllString(strings.TrimSpace(content), ""))

	var raw rawParsedEvent
	if err := json.Unmarshal([]byte(jsonContent), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if strings.TrimSpace(raw.Title) == "" || raw.StartDate == "" || !raw.Category.Valid() {
		return nil, fmt.Errorf("%w: missing title, startDate or category", ErrIncompleteResult)
	}

	start, err := time.Parse(time.RFC3339, raw.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad startDate %q", ErrInvalidDateRange, raw.StartDate)
	}

	var end time.Time
	if raw.EndDate == "" {
		// The one self-healing date: a missing end defaults to start + 1h.
		end = start.Add(time.Hour)
	} else {
		end, err = time.Parse(time.RFC3339, raw.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad endDate %q", ErrInvalidDateRange, raw.EndDate)
		}
	}

	if !start.Before(end) {
		return nil, fmt.Errorf("%w: startDate %s is not before endDate %s", ErrInvalidDateRange, start, end)
	}

	return &ParsedEvent{
		Title:       strings.TrimSpace(raw.Title),
		StartDate:   start,
		EndDate:     end,
		Category:    raw.Category,
		IsAllDay:    raw.IsAllDay,
		Confidence:  normalizeConfidence(raw.Confidence),
		Location:    raw.Location,
		Description: raw.Description,
		Reasoning:   raw.Reasoning,
	}, nil
}

// normalizeConfidence keeps the quality signal in [0,1]. Absent means the
// model didn't say, which defaults to 0.8; a numeric value out of range is
// clamped rather than replaced.
func normalizeConfidence(c *float64) float64 {
	if c == nil {
		return defaultConfidence
	}
	if *c < 0 {
		return 0
	}
	if *c > 1 {
		return 1
	}
	return *c
}
