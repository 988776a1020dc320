package schema

import (
	"claims-triage/internal/domain/entity"

	"github.com/goccy/go-json"
)

type aiResponseFields struct {
	SummaryBullets       []string `json:"summary_bullets" validate:"required"`
	Triage               string   `json:"triage" validate:"required,oneof=FAST_TRACK ADJUSTER_REVIEW FRAUD_REVIEW"`
	RationaleBullets     []string `json:"rationale_bullets" validate:"required"`
	MissingInfoQuestions []string `json:"missing_info_questions" validate:"required"`
	Confidence           *float64 `json:"confidence" validate:"required,finite,gte=0,lte=1"`
}

// ValidateAIResponse checks a raw JSON object against the triage shape. Any
// deviation rejects the whole object; unknown keys are ignored.
func ValidateAIResponse(raw []byte) (entity.ClaimAiResponse, error) {
	var fields aiResponseFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return entity.ClaimAiResponse{}, entity.NewValidationError([]entity.FieldError{
			{Path: "", Message: "Expected a triage object: " + err.Error()},
		})
	}
	if err := validate.Struct(fields); err != nil {
		return entity.ClaimAiResponse{}, entity.NewValidationError(fieldErrors(err))
	}

	return entity.ClaimAiResponse{
		SummaryBullets:       fields.SummaryBullets,
		Triage:               entity.Triage(fields.Triage),
		RationaleBullets:     fields.RationaleBullets,
		MissingInfoQuestions: fields.MissingInfoQuestions,
		Confidence:           *fields.Confidence,
	}, nil
}
