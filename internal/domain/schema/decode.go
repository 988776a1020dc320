package schema

import (
	"bytes"
	"strconv"

	"claims-triage/internal/domain/entity"

	"github.com/goccy/go-json"
)

// DecodeCreateClaimRequest reads a create-claim body. The body must be a
// JSON object; a field of the wrong JSON type is recorded under its path
// and reported by ValidateCreateClaim together with every other problem.
func DecodeCreateClaimRequest(body []byte) (CreateClaimRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return CreateClaimRequest{}, entity.NewInvalidBodyError(err)
	}

	var req CreateClaimRequest
	req.PolicyNumber = req.readString(raw, "policyNumber")
	req.ClaimType = req.readString(raw, "claimType")
	req.IncidentDate = req.readString(raw, "incidentDate")
	req.Location = req.readString(raw, "location")
	req.Description = req.readString(raw, "description")
	req.EstimatedAmount = req.readNumber(raw, "estimatedAmount")
	req.Attachments = req.readStrings(raw, "attachments")
	return req, nil
}

func (r *CreateClaimRequest) readString(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	s, ok := decodeString(v)
	if !ok {
		r.typeError(key, "string", v)
	}
	return s
}

func (r *CreateClaimRequest) readNumber(raw map[string]json.RawMessage, key string) *float64 {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	var f float64
	if jsonType(v) != "number" || json.Unmarshal(v, &f) != nil {
		r.typeError(key, "number", v)
		return nil
	}
	return &f
}

func (r *CreateClaimRequest) readStrings(raw map[string]json.RawMessage, key string) []string {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if jsonType(v) != "array" || json.Unmarshal(v, &items) != nil {
		r.typeError(key, "array", v)
		return nil
	}

	out := make([]string, len(items))
	for i, item := range items {
		s, ok := decodeString(item)
		if !ok {
			r.typeError(key+"."+strconv.Itoa(i), "string", item)
		}
		out[i] = s
	}
	return out
}

func (r *CreateClaimRequest) typeError(path, expected string, got json.RawMessage) {
	r.typeErrors = append(r.typeErrors, entity.FieldError{
		Path:    path,
		Message: "Expected " + expected + ", received " + jsonType(got),
	})
}

func decodeString(v json.RawMessage) (string, bool) {
	var s string
	if jsonType(v) != "string" || json.Unmarshal(v, &s) != nil {
		return "", false
	}
	return s, true
}

// jsonType names the JSON type of a raw value by its first byte.
func jsonType(v json.RawMessage) string {
	trimmed := bytes.TrimLeft(v, " \t\r\n")
	if len(trimmed) == 0 {
		return "undefined"
	}
	switch trimmed[0] {
	case '"':
		return "string"
	case '[':
		return "array"
	case '{':
		return "object"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	}
	return "number"
}
