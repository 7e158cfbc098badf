package dto

// ParseRequest is the natural-language parse input. Context lets the
// client pin the reference time relative expressions resolve against.
type ParseRequest struct {
	Input   string        `json:"input" binding:"required"`
	Context *ParseContext `json:"context,omitempty"`
}

type ParseContext struct {
	CurrentDate string `json:"currentDate,omitempty"`
}

// ParsedEvent is the normalized event draft returned to the client.
// Dates are RFC 3339 strings so the payload round-trips unchanged
// between the cache and the response. Keys are camelCase; the mobile
// client reads these exact names.
type ParsedEvent struct {
	Title      string  `json:"title"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Category   string  `json:"category"`
	IsAllDay   bool    `json:"isAllDay"`
	Confidence float64 `json:"confidence"`
}

type ParseMeta struct {
	FromCache   bool    `json:"fromCache"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning,omitempty"`
	Location    string  `json:"location,omitempty"`
	Description string  `json:"description,omitempty"`
	TokensUsed  int     `json:"tokensUsed,omitempty"`
}

type ParseResponse struct {
	OriginalText string      `json:"originalText"`
	Parsed       ParsedEvent `json:"parsed"`
	Suggestions  []string    `json:"suggestions,omitempty"`
	Meta         ParseMeta   `json:"meta"`
}
