package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"claims-triage/internal/adapter/store"
	"claims-triage/internal/domain/entity"
	"claims-triage/internal/domain/repository"
	"claims-triage/internal/mocks"
	"claims-triage/internal/usecase"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const triageOutput = `{"summary_bullets":["Minor collision"],"triage":"ADJUSTER_REVIEW","rationale_bullets":["Amount above fast-track"],"missing_info_questions":[],"confidence":0.7}`

const createBody = `{
	"policyNumber": "PN-12345",
	"claimType": "auto",
	"incidentDate": "2026-01-20",
	"location": "Austin, TX",
	"description": "Rear-ended at a stop light",
	"estimatedAmount": 1250.50,
	"attachments": ["https://example.com/photo1.jpg"]
}`

type testEnv struct {
	app       *fiber.App
	generator *mocks.TriageGenerator
}

func newTestEnv(t *testing.T, limiter *mocks.RateLimiter) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	generator := &mocks.TriageGenerator{}
	generator.On("Model").Return("gemini-2.5-flash")

	orchestrator := usecase.NewTriageOrchestrator(usecase.NewGuardedGenerator(generator, time.Second), 512, logger)
	service := usecase.NewClaimsService(store.NewMemoryClaimStore(nil), store.NewMemoryAIVersionStore(nil), orchestrator, logger)

	var rl repository.RateLimiter
	if limiter != nil {
		rl = limiter
	}

	app := NewApp("claims-triage-test", logger)
	SetupRouter(app, NewClaimsHandler(service), rl, BuildInfo{Version: "test", Env: "test"}, logger)
	return &testEnv{app: app, generator: generator}
}

func (e *testEnv) do(t *testing.T, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	return resp, decoded
}

func errorOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "error envelope missing: %v", body)
	return e
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestClaimLifecycle(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, created := env.do(t, http.MethodPost, "/claims", createBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "NEW", created["status"])
	assert.Equal(t, 1250.5, created["estimatedAmount"])
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	resp, got := env.do(t, http.MethodGet, "/claims/"+id, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, got["latestAi"])
	assert.Equal(t, id, got["claim"].(map[string]any)["id"])

	env.generator.On("Generate", mock.Anything, mock.Anything).
		Return(&entity.GenerateResult{Output: []byte(triageOutput)}, nil).Once()

	resp, version := env.do(t, http.MethodPost, "/claims/"+id+"/ai:generate", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, id, version["claimId"])
	assert.Equal(t, "v1", version["promptVersion"])
	assert.Nil(t, version["tokenUsage"])
	assert.Equal(t, "ADJUSTER_REVIEW", version["response"].(map[string]any)["triage"])

	resp, history := env.do(t, http.MethodGet, "/claims/"+id+"/ai", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, history["history"], 1)
	assert.Equal(t, version["id"], history["latest"].(map[string]any)["id"])

	resp, list := env.do(t, http.MethodGet, "/claims?limit=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list["items"], 1)
	assert.Nil(t, list["nextCursor"])
	item := list["items"].([]any)[0].(map[string]any)
	assert.NotContains(t, item, "description")
	assert.NotContains(t, item, "attachments")
}

func TestCreateClaim_ValidationError(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodPost, "/claims", `{"policyNumber":"","claimType":"boat","incidentDate":"2026-13-01","location":"x","description":"y","estimatedAmount":-1,"attachments":["nope"]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	e := errorOf(t, body)
	assert.Equal(t, "VALIDATION_ERROR", e["code"])
	details, ok := e["details"].([]any)
	require.True(t, ok)

	var paths []string
	for _, d := range details {
		paths = append(paths, d.(map[string]any)["path"].(string))
	}
	assert.ElementsMatch(t, []string{"policyNumber", "claimType", "incidentDate", "estimatedAmount", "attachments.0"}, paths)
}

func TestCreateClaim_MalformedBody(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, raw := range []string{`{"policyNumber":`, `["not","an","object"]`, `null`} {
		resp, body := env.do(t, http.MethodPost, "/claims", raw)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, raw)
		e := errorOf(t, body)
		assert.Equal(t, "VALIDATION_ERROR", e["code"], raw)
		assert.Equal(t, "Invalid request body", e["message"], raw)
	}
}

func TestCreateClaim_WronglyTypedFields(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name  string
		body  string
		paths []string
	}{
		{
			name:  "attachment element",
			body:  `{"policyNumber":"P-1","claimType":"auto","incidentDate":"2026-01-02","location":"x","description":"y","estimatedAmount":10,"attachments":[1]}`,
			paths: []string{"attachments.0"},
		},
		{
			name:  "amount as string",
			body:  `{"policyNumber":"P-1","claimType":"auto","incidentDate":"2026-01-02","location":"x","description":"y","estimatedAmount":"lots","attachments":[]}`,
			paths: []string{"estimatedAmount"},
		},
		{
			name:  "every problem at once",
			body:  `{"policyNumber":5,"claimType":"boat","incidentDate":"2026-01-02","location":"x","description":"y","estimatedAmount":"12","attachments":["https://a.example/1",false]}`,
			paths: []string{"policyNumber", "claimType", "estimatedAmount", "attachments.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, "/claims", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			e := errorOf(t, body)
			assert.Equal(t, "VALIDATION_ERROR", e["code"])
			details, ok := e["details"].([]any)
			require.True(t, ok)

			var paths []string
			for _, d := range details {
				paths = append(paths, d.(map[string]any)["path"].(string))
			}
			assert.ElementsMatch(t, tt.paths, paths)
		})
	}
}

func TestListClaims_InvalidQuery(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/claims?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errorOf(t, body)["code"])

	resp, body = env.do(t, http.MethodGet, "/claims?cursor=0190f5d2-7c1a-7000-8000-00000000000a", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := errorOf(t, body)
	assert.Equal(t, "Invalid cursor", e["message"])
	assert.Equal(t, map[string]any{"cursor": "0190f5d2-7c1a-7000-8000-00000000000a"}, e["details"])
}

func TestUnknownClaim(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, target := range []string{"/claims/does-not-exist", "/claims/0190f5d2-7c1a-7000-8000-00000000000a/ai"} {
		resp, body := env.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, target)
		e := errorOf(t, body)
		assert.Equal(t, "NOT_FOUND", e["code"])
		assert.Nil(t, e["details"])
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorOf(t, body)["code"])
}

func TestGenerate_AIErrorIsBadGateway(t *testing.T) {
	env := newTestEnv(t, nil)
	_, created := env.do(t, http.MethodPost, "/claims", createBody)
	id := created["id"].(string)

	env.generator.On("Generate", mock.Anything, mock.Anything).
		Return(&entity.GenerateResult{Output: []byte(`{"triage":"??"}`)}, nil).Twice()

	resp, body := env.do(t, http.MethodPost, "/claims/"+id+"/ai:generate", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	e := errorOf(t, body)
	assert.Equal(t, "AI_ERROR", e["code"])
	assert.Equal(t, "AI response did not match the required schema.", e["message"])
	assert.Equal(t, map[string]any{"reason": "SCHEMA_VALIDATION_FAILED"}, e["details"])
}

func TestGenerate_RateLimited(t *testing.T) {
	limiter := &mocks.RateLimiter{}
	limiter.On("Allow", mock.Anything, mock.Anything).Return(false, nil).Once()
	limiter.On("Allow", mock.Anything, mock.Anything).Return(false, errors.New("redis down")).Once()
	env := newTestEnv(t, limiter)

	_, created := env.do(t, http.MethodPost, "/claims", createBody)
	id := created["id"].(string)

	resp, body := env.do(t, http.MethodPost, "/claims/"+id+"/ai:generate", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", errorOf(t, body)["code"])
	env.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)

	env.generator.On("Generate", mock.Anything, mock.Anything).
		Return(&entity.GenerateResult{Output: []byte(triageOutput)}, nil).Once()

	resp, _ = env.do(t, http.MethodPost, "/claims/"+id+"/ai:generate", "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "limiter failure fails open")
	limiter.AssertExpectations(t)
}

func TestResolveError_Unclassified(t *testing.T) {
	status, body := resolveError(errors.Wrap(context.Canceled, "list claims"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, entity.CodeInternal, body.Code)
	assert.Equal(t, "Internal server error", body.Message)
	assert.Nil(t, body.Details)
}
