package schema

import (
	"slices"
	"strconv"
	"strings"

	"claims-triage/internal/domain/entity"
	"claims-triage/internal/domain/sanitize"
)

// CreateClaimRequest is the create-claim body as decoded from the client.
type CreateClaimRequest struct {
	PolicyNumber    string   `json:"policyNumber"`
	ClaimType       string   `json:"claimType"`
	IncidentDate    string   `json:"incidentDate"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	EstimatedAmount *float64 `json:"estimatedAmount"`
	Attachments     []string `json:"attachments"`

	// typeErrors holds fields DecodeCreateClaimRequest could not read.
	typeErrors []entity.FieldError
}

type createClaimFields struct {
	PolicyNumber    string   `json:"policyNumber" validate:"required"`
	ClaimType       string   `json:"claimType" validate:"required,oneof=auto home travel"`
	IncidentDate    string   `json:"incidentDate" validate:"isodate"`
	Location        string   `json:"location" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	EstimatedAmount *float64 `json:"estimatedAmount" validate:"required,finite,gte=0,lte=9999999999999.99"`
	Attachments     []string `json:"attachments" validate:"required,dive,httpurl"`
}

func ValidateCreateClaim(req CreateClaimRequest) (entity.CreateClaimInput, error) {
	fields := createClaimFields{
		PolicyNumber:    sanitize.String(req.PolicyNumber),
		ClaimType:       req.ClaimType,
		IncidentDate:    sanitize.String(req.IncidentDate),
		Location:        sanitize.String(req.Location),
		Description:     sanitize.String(req.Description),
		EstimatedAmount: req.EstimatedAmount,
	}
	if req.Attachments != nil {
		fields.Attachments = make([]string, len(req.Attachments))
		for i, a := range req.Attachments {
			fields.Attachments[i] = sanitize.String(a)
		}
	}

	problems := slices.Clone(req.typeErrors)
	if err := validate.Struct(fields); err != nil {
		for _, fe := range fieldErrors(err) {
			// A wrongly typed field is reported once, by its type error.
			if !hasPath(req.typeErrors, fe.Path) {
				problems = append(problems, fe)
			}
		}
	}
	if len(problems) > 0 {
		return entity.CreateClaimInput{}, entity.NewValidationError(problems)
	}

	return entity.CreateClaimInput{
		PolicyNumber:    fields.PolicyNumber,
		ClaimType:       entity.ClaimType(fields.ClaimType),
		IncidentDate:    fields.IncidentDate,
		Location:        fields.Location,
		Description:     fields.Description,
		EstimatedAmount: *fields.EstimatedAmount,
		Attachments:     fields.Attachments,
	}, nil
}

// ListClaimsRequest carries raw query string values; empty means absent.
type ListClaimsRequest struct {
	Type   string
	Status string
	Q      string
	Limit  string
	Cursor string
}

type listClaimsFields struct {
	Type   string `json:"type" validate:"omitempty,oneof=auto home travel"`
	Status string `json:"status" validate:"omitempty,oneof=NEW IN_REVIEW RESOLVED"`
	Limit  int    `json:"limit" validate:"min=1,max=100"`
}

func ValidateListClaims(req ListClaimsRequest) (entity.ListClaimsQuery, error) {
	var problems []entity.FieldError

	fields := listClaimsFields{Type: req.Type, Status: req.Status, Limit: entity.DefaultListLimit}
	if raw := strings.TrimSpace(req.Limit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, entity.FieldError{Path: "limit", Message: "Expected integer"})
		} else {
			fields.Limit = limit
		}
	}

	if err := validate.Struct(fields); err != nil {
		problems = append(problems, fieldErrors(err)...)
	}
	if len(problems) > 0 {
		return entity.ListClaimsQuery{}, entity.NewValidationError(problems)
	}

	query := entity.ListClaimsQuery{Limit: fields.Limit}
	if fields.Type != "" {
		t := entity.ClaimType(fields.Type)
		query.Type = &t
	}
	if fields.Status != "" {
		s := entity.ClaimStatus(fields.Status)
		query.Status = &s
	}
	if q := sanitize.String(req.Q); q != "" {
		query.Query = &q
	}
	if req.Cursor != "" {
		cursor := req.Cursor
		query.Cursor = &cursor
	}
	return query, nil
}

func hasPath(fields []entity.FieldError, path string) bool {
	return slices.ContainsFunc(fields, func(f entity.FieldError) bool { return f.Path == path })
}
