package notify

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/fittrack-notifier/internal/domain"
)

// RecipientResult is the per-recipient entry of a batch result.
type RecipientResult struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	LogID     *int64 `json:"log_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchResult is the terminal result of one orchestrator run.
// Success reports whether the selector returned work — a batch where every
// individual send failed is still Success=true; a batch with no eligible
// recipients is Success=false with an explanatory message.
type BatchResult struct {
	RunID           uuid.UUID         `json:"run_id"`
	Success         bool              `json:"success"`
	Message         string            `json:"message"`
	TotalRecipients int               `json:"total_recipients"`
	SentCount       int               `json:"sent_count"`
	FailedCount     int               `json:"failed_count"`
	Results         []RecipientResult `json:"results"`
	Error           string            `json:"error,omitempty"`
}

// SendResult is the result of a single ad-hoc send.
type SendResult struct {
	Success   bool                    `json:"success"`
	Recipient string                  `json:"recipient"`
	Type      domain.NotificationType `json:"type"`
	Message   string                  `json:"message,omitempty"`
	Method    string                  `json:"method,omitempty"`
	MessageID string                  `json:"message_id,omitempty"`
	LogID     *int64                  `json:"log_id,omitempty"`
	Error     string                  `json:"error,omitempty"`
}

// TransportCheck is the result of the transport reachability diagnostic.
type TransportCheck struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Method  string `json:"method,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RecipientSummary is the trimmed recipient view included in store checks.
type RecipientSummary struct {
	UserID      int64    `json:"user_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	CalorieGoal *float64 `json:"calorie_goal,omitempty"`
	ProteinGoal *float64 `json:"protein_goal,omitempty"`
}

// StoreCheck is the result of the store reachability diagnostic.
type StoreCheck struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	UsersFound int                `json:"users_found"`
	Sample     []RecipientSummary `json:"users,omitempty"`
	Error      string             `json:"error,omitempty"`
}
