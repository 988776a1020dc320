package entity

import "time"

type Triage string

const (
	TriageFastTrack      Triage = "FAST_TRACK"
	TriageAdjusterReview Triage = "ADJUSTER_REVIEW"
	TriageFraudReview    Triage = "FRAUD_REVIEW"
)

// ClaimAiResponse is the structured triage payload returned by the model.
type ClaimAiResponse struct {
	SummaryBullets       []string `json:"summary_bullets"`
	Triage               Triage   `json:"triage"`
	RationaleBullets     []string `json:"rationale_bullets"`
	MissingInfoQuestions []string `json:"missing_info_questions"`
	Confidence           float64  `json:"confidence"`
}

// TokenUsage counters are independently optional.
type TokenUsage struct {
	Prompt     *int `json:"prompt,omitempty"`
	Completion *int `json:"completion,omitempty"`
	Total      *int `json:"total,omitempty"`
}

// ClaimAiVersion is one immutable triage result as persisted. The response
// and usage are kept serialized; readers repair malformed values to null.
type ClaimAiVersion struct {
	ID             string
	ClaimID        string
	Model          string
	PromptVersion  string
	ResponseJSON   string
	LatencyMs      int64
	TokenUsageJSON *string
	CreatedAt      time.Time
}

type NewClaimAiVersion struct {
	ClaimID        string
	Model          string
	PromptVersion  string
	ResponseJSON   string
	LatencyMs      int64
	TokenUsageJSON *string
}
