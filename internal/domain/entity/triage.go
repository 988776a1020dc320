package entity

// TriageInput is the claim data the orchestrator embeds in the prompt.
type TriageInput struct {
	ClaimID         string
	PolicyNumber    string
	ClaimType       ClaimType
	IncidentDate    string
	Location        string
	Description     string
	EstimatedAmount float64 // major units
	Attachments     []string
}

// GenerateRequest is what a TriageGenerator receives for one attempt.
type GenerateRequest struct {
	Prompt         string
	ThinkingBudget int32
}

// ProviderUsage mirrors what providers report; any counter may be missing.
type ProviderUsage struct {
	InputTokens  *int
	OutputTokens *int
	TotalTokens  *int
}

// GenerateResult is the raw structured object returned by a provider.
type GenerateResult struct {
	Output []byte
	Usage  *ProviderUsage
}

// TriageResult is a validated orchestrator outcome, ready to persist.
type TriageResult struct {
	Response      ClaimAiResponse
	Model         string
	PromptVersion string
	LatencyMs     int64
	TokenUsage    *TokenUsage
}
