package usecase

import (
	"context"

	"github.com/linq-app/linq-backend/internal/nlp/dto"
)

type ParseUsecase interface {
	Parse(ctx context.Context, userID string, req *dto.ParseRequest) (*dto.ParseResponse, error)
}
