package usecase

import (
	"context"
	"time"

	"claims-triage/internal/domain/entity"
	"claims-triage/internal/domain/repository"

	"github.com/cockroachdb/errors"
)

const DefaultGenerateTimeout = 60 * time.Second

// GuardedGenerator caps each generator call with a timeout and makes sure
// every error it returns is a classified *entity.GenerationFailure.
type GuardedGenerator struct {
	inner   repository.TriageGenerator
	timeout time.Duration
}

func NewGuardedGenerator(inner repository.TriageGenerator, timeout time.Duration) *GuardedGenerator {
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	return &GuardedGenerator{inner: inner, timeout: timeout}
}

func (g *GuardedGenerator) Model() string { return g.inner.Model() }

func (g *GuardedGenerator) Generate(ctx context.Context, req entity.GenerateRequest) (*entity.GenerateResult, error) {
	// Timeout layer
	guardCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.inner.Generate(guardCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || guardCtx.Err() != nil {
			return nil, entity.NewProviderFailure(errors.Wrapf(err, "generator timed out after %s", g.timeout))
		}
		var failure *entity.GenerationFailure
		if errors.As(err, &failure) {
			return nil, err
		}
		return nil, entity.NewProviderFailure(errors.Wrap(err, "generator"))
	}
	if result == nil || len(result.Output) == 0 {
		return nil, entity.NewSchemaMismatch(errors.New("generator returned empty output"))
	}
	return result, nil
}
