package entity

import "time"

type ClaimType string

const (
	ClaimTypeAuto   ClaimType = "auto"
	ClaimTypeHome   ClaimType = "home"
	ClaimTypeTravel ClaimType = "travel"
)

type ClaimStatus string

const (
	ClaimStatusNew      ClaimStatus = "NEW"
	ClaimStatusInReview ClaimStatus = "IN_REVIEW"
	ClaimStatusResolved ClaimStatus = "RESOLVED"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Claim is the stored record. EstimatedAmount is in cents and
// AttachmentsJSON is the serialized attachment list as persisted.
type Claim struct {
	ID              string
	PolicyNumber    string
	ClaimType       ClaimType
	IncidentDate    string
	Location        string
	Description     string
	EstimatedAmount int64
	Status          ClaimStatus
	AttachmentsJSON string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewClaim holds the fields a store needs to create a claim. Stores apply
// NEW when Status is empty.
type NewClaim struct {
	PolicyNumber    string
	ClaimType       ClaimType
	IncidentDate    string
	Location        string
	Description     string
	EstimatedAmount int64
	Status          ClaimStatus
	AttachmentsJSON string
}

// CreateClaimInput is a validated, sanitized create request. The amount
// is still in major units.
type CreateClaimInput struct {
	PolicyNumber    string
	ClaimType       ClaimType
	IncidentDate    string
	Location        string
	Description     string
	EstimatedAmount float64
	Attachments     []string
}

// ListClaimsQuery is a validated list request.
type ListClaimsQuery struct {
	Type   *ClaimType
	Status *ClaimStatus
	Query  *string
	Limit  int
	Cursor *string
}

type ClaimFilter struct {
	Type   *ClaimType
	Status *ClaimStatus
	// Text matches as a case-sensitive substring of policy number or location.
	Text *string
}

// ClaimCursor is the exclusive lower bound of a keyset scan ordered by
// (CreatedAt desc, ID desc).
type ClaimCursor struct {
	ID        string
	CreatedAt time.Time
}

type ClaimScan struct {
	Filter ClaimFilter
	After  *ClaimCursor
	Limit  int
}
