package domain

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisType identifies the kind of AI analysis stored.
type AnalysisType string

const (
	AnalysisEventParsing AnalysisType = "parsing"
)

// Analysis is one stored AI analysis result. Rows double as a response
// cache: lookups filter by input hash and age instead of deleting
// expired rows eagerly.
type Analysis struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         string         `json:"user_id" gorm:"type:uuid;index;not null"`
	Type           AnalysisType   `json:"type" gorm:"not null"`
	InputText      string         `json:"input_text" gorm:"not null"`
	InputHash      string         `json:"input_hash" gorm:"index;not null"`
	Output         datatypes.JSON `json:"output" gorm:"not null"`
	Confidence     float64        `json:"confidence"`
	Model          string         `json:"model"`
	ProcessingTime int64          `json:"processing_time"`
	TokensUsed     int            `json:"tokens_used"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (Analysis) TableName() string {
	return "ai_analyses"
}
