package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/linq-app/linq-backend/internal/nlp/domain"
	"github.com/linq-app/linq-backend/internal/nlp/dto"
	"github.com/linq-app/linq-backend/internal/nlp/repository"
	"github.com/linq-app/linq-backend/pkg/ai"
	"github.com/linq-app/linq-backend/pkg/apperror"
	"github.com/linq-app/linq-backend/pkg/hash"
	"github.com/linq-app/linq-backend/pkg/ratelimit"
)

const maxInputLength = 500

type parseUsecase struct {
	parser       ai.EventParser
	analysisRepo repository.AnalysisRepository
	limiter      ratelimit.Limiter
	cacheMaxAge  time.Duration
	model        string
	now          func() time.Time
}

func NewParseUsecase(parser ai.EventParser, analysisRepo repository.AnalysisRepository, limiter ratelimit.Limiter, cacheMaxAge time.Duration, model string) ParseUsecase {
	return &parseUsecase{
		parser:       parser,
		analysisRepo: analysisRepo,
		limiter:      limiter,
		cacheMaxAge:  cacheMaxAge,
		model:        model,
		now:          time.Now,
	}
}

func (u *parseUsecase) Parse(ctx context.Context, userID string, req *dto.ParseRequest) (*dto.ParseResponse, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, apperror.Validation("input cannot be empty")
	}
	if len([]rune(input)) > maxInputLength {
		return nil, apperror.Validation(fmt.Sprintf("input is too long (max %d characters)", maxInputLength))
	}

	// Relative expressions resolve against the client's clock when given.
	// A currentDate that doesn't parse is rejected rather than silently
	// falling back to the server clock.
	ref := u.now()
	if req.Context != nil && req.Context.CurrentDate != "" {
		t, err := time.Parse(time.RFC3339, req.Context.CurrentDate)
		if err != nil {
			return nil, apperror.Validation("context.currentDate must be an ISO 8601 timestamp")
		}
		ref = t
	}

	// Rate limit before any AI spend.
	if ok, retryAfter := u.limiter.Allow("parse_nlp:" + userID); !ok {
		return nil, apperror.RateLimited(
			fmt.Sprintf("Rate limit exceeded. Please try again in %d seconds.", int(retryAfter.Seconds())+1))
	}

	inputHash := hash.Fingerprint(input)

	parsed, fromCache, tokensUsed, err := u.resolve(ctx, userID, input, inputHash, ref)
	if err != nil {
		return nil, err
	}

	resp := &dto.ParseResponse{
		OriginalText: input,
		Parsed: dto.ParsedEvent{
			Title:      parsed.Title,
			StartDate:  parsed.StartDate.Format(time.RFC3339),
			EndDate:    parsed.EndDate.Format(time.RFC3339),
			Category:   string(parsed.Category),
			IsAllDay:   parsed.IsAllDay,
			Confidence: parsed.Confidence,
		},
		Suggestions: GenerateSuggestions(parsed, input),
		Meta: dto.ParseMeta{
			FromCache:   fromCache,
			Confidence:  parsed.Confidence,
			Reasoning:   parsed.Reasoning,
			Location:    parsed.Location,
			Description: parsed.Description,
			TokensUsed:  tokensUsed,
		},
	}
	return resp, nil
}

// resolve answers from the cache when a fresh analysis for the same
// input exists, otherwise calls the model and stores the result in the
// background.
func (u *parseUsecase) resolve(ctx context.Context, userID, input, inputHash string, ref time.Time) (*ai.ParsedEvent, bool, int, error) {
	cached, err := u.analysisRepo.GetCached(userID, inputHash, domain.AnalysisEventParsing, u.cacheMaxAge)
	if err != nil {
		// A broken cache must not take parsing down with it.
		log.Printf("[WARN] Analysis cache lookup failed: %v", err)
	}
	if cached != nil {
		var parsed ai.ParsedEvent
		if err := json.Unmarshal(cached.Output, &parsed); err == nil {
			log.Printf("[INFO] Cache hit for NLP parsing: user=%s hash=%s", userID, inputHash)
			return &parsed, true, cached.TokensUsed, nil
		}
		log.Printf("[WARN] Discarding undecodable cached analysis %s: %v", cached.ID, err)
	}

	aiStarted := u.now()
	parsed, usage, err := u.parser.ParseEvent(ctx, input, ref)
	if err != nil {
		return nil, false, 0, err
	}
	aiElapsed := u.now().Sub(aiStarted)

	tokensUsed := 0
	if usage != nil {
		tokensUsed = usage.TotalTokens
	}

	go u.saveAnalysis(userID, input, inputHash, parsed, aiElapsed, tokensUsed)

	return parsed, false, tokensUsed, nil
}

// saveAnalysis persists an analysis for caching and history. Failures
// are logged and swallowed so the response is never delayed or broken
// by storage.
func (u *parseUsecase) saveAnalysis(userID, input, inputHash string, parsed *ai.ParsedEvent, elapsed time.Duration, tokensUsed int) {
	output, err := json.Marshal(parsed)
	if err != nil {
		log.Printf("[ERROR] Failed to encode analysis output: %v", err)
		return
	}

	analysis := &domain.Analysis{
		ID:             uuid.New().String(),
		UserID:         userID,
		Type:           domain.AnalysisEventParsing,
		InputText:      input,
		InputHash:      inputHash,
		Output:         datatypes.JSON(output),
		Confidence:     parsed.Confidence,
		Model:          u.model,
		ProcessingTime: elapsed.Milliseconds(),
		TokensUsed:     tokensUsed,
	}
	if err := u.analysisRepo.Save(analysis); err != nil {
		log.Printf("[ERROR] Background AI analysis save failed: %v", err)
	}
}
