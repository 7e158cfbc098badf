package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linq-app/linq-backend/pkg/apperror"
)

// Meta carries per-request bookkeeping returned with every response.
type Meta struct {
	Timestamp      string `json:"timestamp"`
	RequestID      string `json:"requestId"`
	ProcessingTime int64  `json:"processingTime"`
}

// Envelope is the response body shape shared by all endpoints.
type Envelope struct {
	Success bool            `json:"success"`
	Data    interface{}     `json:"data,omitempty"`
	Error   *apperror.Error `json:"error,omitempty"`
	Meta    Meta            `json:"meta"`
}

const requestIDKey = "requestID"
const startTimeKey = "requestStart"

// RequestID middleware assigns a request id and start time to the context and
// echoes the id back in the X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set(requestIDKey, id)
		c.Set(startTimeKey, time.Now())
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func meta(c *gin.Context) Meta {
	id, _ := c.Get(requestIDKey)
	requestID, ok := id.(string)
	if !ok || requestID == "" {
		requestID = uuid.New().String()
	}

	var processing int64
	if start, exists := c.Get(startTimeKey); exists {
		if t, ok := start.(time.Time); ok {
			processing = time.Since(t).Milliseconds()
		}
	}

	return Meta{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		RequestID:      requestID,
		ProcessingTime: processing,
	}
}

// OK writes a success envelope with the given status.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data, Meta: meta(c)})
}

// Fail writes an error envelope using the error's own HTTP status.
func Fail(c *gin.Context, err error) {
	appErr := apperror.From(err)
	c.JSON(appErr.Status, Envelope{Success: false, Error: appErr, Meta: meta(c)})
}
