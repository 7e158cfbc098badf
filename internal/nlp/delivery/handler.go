package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linq-app/linq-backend/internal/nlp/dto"
	"github.com/linq-app/linq-backend/internal/nlp/usecase"
	"github.com/linq-app/linq-backend/pkg/ai"
	"github.com/linq-app/linq-backend/pkg/apperror"
	"github.com/linq-app/linq-backend/pkg/response"
)

// NLPHandler exposes the natural-language parsing endpoint.
type NLPHandler struct {
	parseUsecase usecase.ParseUsecase
}

func NewNLPHandler(parseUsecase usecase.ParseUsecase) *NLPHandler {
	return &NLPHandler{parseUsecase: parseUsecase}
}

// ParseEvent handles POST /api/ai/parse
func (h *NLPHandler) ParseEvent(c *gin.Context) {
	var req dto.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("input is required and must be a string"))
		return
	}

	result, err := h.parseUsecase.Parse(c.Request.Context(), c.GetString("userID"), &req)
	if err != nil {
		response.Fail(c, mapParseError(err))
		return
	}
	response.OK(c, http.StatusOK, result)
}

// mapParseError translates gateway sentinels into API errors. Transport
// failures are retryable 503s; semantic failures are 422s the client
// can surface as "try rephrasing".
func mapParseError(err error) error {
	switch {
	case errors.Is(err, ai.ErrUnavailable):
		return apperror.New(apperror.CodeAIServiceError,
			"AI service is temporarily unavailable. Please try again.", http.StatusServiceUnavailable)
	case errors.Is(err, ai.ErrMalformedResponse):
		return apperror.New(apperror.CodeMalformedResponse,
			"AI returned an unreadable result. Please try rephrasing.", http.StatusUnprocessableEntity)
	case errors.Is(err, ai.ErrIncompleteResult):
		return apperror.New(apperror.CodeIncompleteResult,
			"Could not extract a complete event from the input. Please add more detail.", http.StatusUnprocessableEntity)
	case errors.Is(err, ai.ErrInvalidDateRange):
		return apperror.New(apperror.CodeInvalidDateRange,
			"Could not determine a valid date range from the input.", http.StatusUnprocessableEntity)
	}
	return err
}
