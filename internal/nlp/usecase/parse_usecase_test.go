package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/linq-app/linq-backend/internal/nlp/domain"
	"github.com/linq-app/linq-backend/internal/nlp/dto"
	"github.com/linq-app/linq-backend/pkg/ai"
	"github.com/linq-app/linq-backend/pkg/apperror"
	"github.com/linq-app/linq-backend/pkg/hash"
)

type fakeParser struct {
	result  *ai.ParsedEvent
	usage   *ai.Usage
	err     error
	calls   int
	lastRef time.Time
}

func (p *fakeParser) ParseEvent(ctx context.Context, input string, ref time.Time) (*ai.ParsedEvent, *ai.Usage, error) {
	p.calls++
	p.lastRef = ref
	if p.err != nil {
		return nil, nil, p.err
	}
	return p.result, p.usage, nil
}

type fakeAnalysisRepo struct {
	cached  *domain.Analysis
	getErr  error
	saveErr error
	saved   chan *domain.Analysis
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{saved: make(chan *domain.Analysis, 1)}
}

func (r *fakeAnalysisRepo) GetCached(userID, inputHash string, analysisType domain.AnalysisType, maxAge time.Duration) (*domain.Analysis, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.cached != nil && r.cached.InputHash == inputHash {
		return r.cached, nil
	}
	return nil, nil
}

func (r *fakeAnalysisRepo) Save(analysis *domain.Analysis) error {
	r.saved <- analysis
	return r.saveErr
}

func (r *fakeAnalysisRepo) PurgeOlderThan(cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeLimiter struct {
	allow      bool
	retryAfter time.Duration
	lastKey    string
}

func (l *fakeLimiter) Allow(key string) (bool, time.Duration) {
	l.lastKey = key
	return l.allow, l.retryAfter
}

func sampleParsed() *ai.ParsedEvent {
	kst := time.FixedZone("KST", 9*3600)
	return &ai.ParsedEvent{
		Title:      "팀 회의",
		StartDate:  time.Date(2024, 5, 2, 14, 0, 0, 0, kst),
		EndDate:    time.Date(2024, 5, 2, 15, 0, 0, 0, kst),
		Category:   ai.CategoryWork,
		Confidence: 0.9,
		Reasoning:  "내일을 현재 시각 기준으로 해석",
	}
}

func newParseUsecase(parser ai.EventParser, repo *fakeAnalysisRepo, limiter *fakeLimiter) ParseUsecase {
	return NewParseUsecase(parser, repo, limiter, 24*time.Hour, "solar-1-mini-chat")
}

func appCode(t *testing.T, err error) apperror.Code {
	t.Helper()
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.Error, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestParse(t *testing.T) {
	input := "내일 오후 2시에 팀 회의"

	t.Run("fresh input calls the model and persists in background", func(t *testing.T) {
		parser := &fakeParser{result: sampleParsed(), usage: &ai.Usage{TotalTokens: 120}}
		repo := newFakeAnalysisRepo()
		limiter := &fakeLimiter{allow: true}
		uc := newParseUsecase(parser, repo, limiter)

		resp, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{Input: input})
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if parser.calls != 1 {
			t.Fatalf("expected 1 model call, got %d", parser.calls)
		}
		if resp.Meta.FromCache {
			t.Error("fresh parse should not be marked from cache")
		}
		if resp.Parsed.Title != "팀 회의" || resp.Parsed.Category != "work" {
			t.Errorf("unexpected parsed payload: %+v", resp.Parsed)
		}
		if resp.Parsed.StartDate != "2024-05-02T14:00:00+09:00" {
			t.Errorf("start date not RFC 3339 in source zone: %s", resp.Parsed.StartDate)
		}
		if resp.Meta.TokensUsed != 120 {
			t.Errorf("expected 120 tokens, got %d", resp.Meta.TokensUsed)
		}
		if len(resp.Suggestions) == 0 {
			t.Error("work event should carry a notification suggestion")
		}

		select {
		case saved := <-repo.saved:
			if saved.InputHash != hash.Fingerprint(input) {
				t.Errorf("saved analysis hash mismatch: %s", saved.InputHash)
			}
			if saved.Type != domain.AnalysisEventParsing {
				t.Errorf("unexpected analysis type %q", saved.Type)
			}
			var roundTrip ai.ParsedEvent
			if err := json.Unmarshal(saved.Output, &roundTrip); err != nil {
				t.Errorf("saved output not decodable: %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("analysis was never saved")
		}
	})

	t.Run("client reference time overrides the server clock", func(t *testing.T) {
		parser := &fakeParser{result: sampleParsed()}
		repo := newFakeAnalysisRepo()
		uc := newParseUsecase(parser, repo, &fakeLimiter{allow: true})

		_, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{
			Input:   input,
			Context: &dto.ParseContext{CurrentDate: "2024-05-01T10:00:00+09:00"},
		})
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("", 9*3600))
		if !parser.lastRef.Equal(want) {
			t.Errorf("reference time %v, want %v", parser.lastRef, want)
		}
		<-repo.saved
	})

	t.Run("malformed client reference time rejected", func(t *testing.T) {
		parser := &fakeParser{result: sampleParsed()}
		uc := newParseUsecase(parser, newFakeAnalysisRepo(), &fakeLimiter{allow: true})

		_, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{
			Input:   input,
			Context: &dto.ParseContext{CurrentDate: "yesterday"},
		})
		if code := appCode(t, err); code != apperror.CodeValidationError {
			t.Fatalf("expected VALIDATION_ERROR, got %s", code)
		}
		if parser.calls != 0 {
			t.Fatalf("invalid request must not reach the model, got %d calls", parser.calls)
		}
	})

	t.Run("response keys are the client's camelCase contract", func(t *testing.T) {
		parser := &fakeParser{result: sampleParsed(), usage: &ai.Usage{TotalTokens: 42}}
		repo := newFakeAnalysisRepo()
		uc := newParseUsecase(parser, repo, &fakeLimiter{allow: true})

		resp, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{Input: input})
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		<-repo.saved

		wire, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("marshal response: %v", err)
		}
		for _, key := range []string{`"originalText"`, `"startDate"`, `"endDate"`, `"isAllDay"`, `"fromCache"`, `"tokensUsed"`} {
			if !strings.Contains(string(wire), key) {
				t.Errorf("wire format missing %s: %s", key, wire)
			}
		}
		if strings.Contains(string(wire), "_") {
			t.Errorf("wire format contains snake_case keys: %s", wire)
		}
	})

	t.Run("cache hit skips the model", func(t *testing.T) {
		output, _ := json.Marshal(sampleParsed())
		parser := &fakeParser{result: sampleParsed()}
		repo := newFakeAnalysisRepo()
		repo.cached = &domain.Analysis{
			ID:         "cached-1",
			InputHash:  hash.Fingerprint(input),
			Type:       domain.AnalysisEventParsing,
			Output:     output,
			TokensUsed: 77,
		}
		uc := newParseUsecase(parser, repo, &fakeLimiter{allow: true})

		resp, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{Input: input})
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if parser.calls != 0 {
			t.Fatalf("cache hit must not call the model, got %d calls", parser.calls)
		}
		if !resp.Meta.FromCache {
			t.Error("expected from_cache=true")
		}
		if resp.Meta.TokensUsed != 77 {
			t.Errorf("expected cached token count 77, got %d", resp.Meta.TokensUsed)
		}
		if resp.Parsed.Title != "팀 회의" {
			t.Errorf("unexpected cached title %q", resp.Parsed.Title)
		}
	})

	t.Run("undecodable cache entry falls through to the model", func(t *testing.T) {
		parser := &fakeParser{result: sampleParsed()}
		repo := newFakeAnalysisRepo()
		repo.cached = &domain.Analysis{
			InputHash: hash.Fingerprint(input),
			Output:    []byte("{corrupt"),
		}
		uc := newParseUsecase(parser, repo, &fakeLimiter{allow: true})

		resp, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{Input: input})
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if parser.calls != 1 {
			t.Fatalf("expected model fallback, got %d calls", parser.calls)
		}
		if resp.Meta.FromCache {
			t.Error("corrupt cache entry must not count as a hit")
		}
		<-repo.saved
	})

	t.Run("cache lookup failure does not break parsing", func(t *testing.T) {
		parser := &fakeParser{result: sampleParsed()}
		repo := newFakeAnalysisRepo()
		repo.getErr = errors.New("connection refused")
		uc := newParseUsecase(parser, repo, &fakeLimiter{allow: true})

		if _, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{Input: input}); err != nil {
			t.Fatalf("Parse should survive a cache outage: %v", err)
		}
		<-repo.saved
	})

	t.Run("background save failure is swallowed", func(t *testing.T) {
		parser := &fakeParser{result: sampleParsed()}
		repo := newFakeAnalysisRepo()
		repo.saveErr = errors.New("disk full")
		uc := newParseUsecase(parser, repo, &fakeLimiter{allow: true})

		resp, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{Input: input})
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if resp.Parsed.Title != "팀 회의" {
			t.Errorf("unexpected title %q", resp.Parsed.Title)
		}
		<-repo.saved
	})

	t.Run("rate limit rejects before the model is called", func(t *testing.T) {
		parser := &fakeParser{result: sampleParsed()}
		limiter := &fakeLimiter{allow: false, retryAfter: 30 * time.Second}
		uc := newParseUsecase(parser, newFakeAnalysisRepo(), limiter)

		_, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{Input: input})
		if code := appCode(t, err); code != apperror.CodeRateLimitExceeded {
			t.Fatalf("expected RATE_LIMIT_EXCEEDED, got %s", code)
		}
		if parser.calls != 0 {
			t.Fatalf("rate-limited request must not reach the model, got %d calls", parser.calls)
		}
		if limiter.lastKey != "parse_nlp:user-1" {
			t.Errorf("limiter keyed by %q", limiter.lastKey)
		}
	})

	t.Run("model failure propagates", func(t *testing.T) {
		parser := &fakeParser{err: ai.ErrUnavailable}
		uc := newParseUsecase(parser, newFakeAnalysisRepo(), &fakeLimiter{allow: true})

		_, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{Input: input})
		if !errors.Is(err, ai.ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("empty input rejected", func(t *testing.T) {
		uc := newParseUsecase(&fakeParser{}, newFakeAnalysisRepo(), &fakeLimiter{allow: true})
		_, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{Input: "   "})
		if code := appCode(t, err); code != apperror.CodeValidationError {
			t.Fatalf("expected VALIDATION_ERROR, got %s", code)
		}
	})

	t.Run("overlong input rejected by rune count", func(t *testing.T) {
		uc := newParseUsecase(&fakeParser{}, newFakeAnalysisRepo(), &fakeLimiter{allow: true})
		long := strings.Repeat("가", 501)
		_, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{Input: long})
		if code := appCode(t, err); code != apperror.CodeValidationError {
			t.Fatalf("expected VALIDATION_ERROR, got %s", code)
		}

		ok := strings.Repeat("가", 500)
		parser := &fakeParser{result: sampleParsed()}
		repo := newFakeAnalysisRepo()
		uc = newParseUsecase(parser, repo, &fakeLimiter{allow: true})
		if _, err := uc.Parse(context.Background(), "user-1", &dto.ParseRequest{Input: ok}); err != nil {
			t.Fatalf("500-rune input should pass: %v", err)
		}
		<-repo.saved
	})
}

func TestGenerateSuggestions(t *testing.T) {
	base := sampleParsed()

	t.Run("location hint from input", func(t *testing.T) {
		got := GenerateSuggestions(base, "내일 오후 2시에 회의실에서 팀 회의")
		if len(got) == 0 || got[0] != "장소: 회의실" {
			t.Fatalf("expected location suggestion first, got %v", got)
		}
	})

	t.Run("no location hint when model already found one", func(t *testing.T) {
		withLocation := *base
		withLocation.Location = "3층 회의실"
		got := GenerateSuggestions(&withLocation, "내일 오후 2시에 회의실에서 팀 회의")
		for _, s := range got {
			if strings.HasPrefix(s, "장소:") {
				t.Fatalf("unexpected location suggestion: %v", got)
			}
		}
	})

	t.Run("notification hint per category", func(t *testing.T) {
		cases := []struct {
			category ai.Category
			want     string
		}{
			{ai.CategoryWork, "15분 전 알림 추천"},
			{ai.CategoryHealth, "30분 전 알림 추천"},
			{ai.CategorySocial, "출발 시간 고려한 알림 추천"},
		}
		for _, tc := range cases {
			parsed := *base
			parsed.Category = tc.category
			got := GenerateSuggestions(&parsed, "일정")
			found := false
			for _, s := range got {
				if s == tc.want {
					found = true
				}
			}
			if !found {
				t.Errorf("%s: expected %q in %v", tc.category, tc.want, got)
			}
		}

		personal := *base
		personal.Category = ai.CategoryPersonal
		if got := GenerateSuggestions(&personal, "일정"); len(got) != 0 {
			t.Errorf("personal category should add no notification hint, got %v", got)
		}
	})

	t.Run("recurrence prompt", func(t *testing.T) {
		personal := *base
		personal.Category = ai.CategoryPersonal
		got := GenerateSuggestions(&personal, "매주 월요일 독서 모임")
		if len(got) != 1 || got[0] != "반복 일정으로 설정하시겠습니까?" {
			t.Fatalf("expected recurrence prompt, got %v", got)
		}
	})

	t.Run("capped at three", func(t *testing.T) {
		got := GenerateSuggestions(base, "매주 회의실에서 정기 회의")
		if len(got) > 3 {
			t.Fatalf("suggestions must be capped at 3, got %d", len(got))
		}
	})
}
