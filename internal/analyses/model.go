package analyses

import (
	"time"

	"avatar-backend/internal/avatar"
)

// Analysis statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Analysis is one avatar analysis request and its outcome.
type Analysis struct {
	ID          string         `json:"id"`
	Request     avatar.Request `json:"request"`
	Status      string         `json:"status"`
	Result      map[string]any `json:"result,omitempty"`
	DataQuality string         `json:"dataQuality,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
