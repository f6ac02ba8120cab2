package generation

import "paintly_backend/providers"

// Status is the lifecycle state of a generation run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Result is the normalized outcome of a generation run, identical in shape
// regardless of which provider served it. Raw preserves the provider's
// response verbatim; provider-specific field names appear nowhere else.
type Result struct {
	HistoryID        string       `json:"historyId"`
	Status           Status       `json:"status"`
	ImageURL         string       `json:"imageUrl,omitempty"`
	ProviderUsed     providers.ID `json:"providerUsed"`
	Model            string       `json:"model,omitempty"`
	ErrorMessage     string       `json:"errorMessage,omitempty"`
	ProcessingTimeMS int64        `json:"processingTimeMs"`
	Raw              []byte       `json:"-"`
}
