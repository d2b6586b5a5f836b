package aws

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/aws/smithy-go"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// Erros de permissão não são repetidos: tentar de novo não muda o resultado.
var nonRetryableCodes = map[string]bool{
	"AccessDenied":                      true,
	"AccessDeniedException":             true,
	"UnauthorizedOperation":             true,
	"AWSOrganizationsNotInUseException": true,
}

// retrier aplica backoff exponencial com jitter entre as tentativas de uma
// chamada de API.
type retrier struct {
	maxAttempts int
	baseDelay   time.Duration
}

func newRetrier() *retrier {
	return &retrier{
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
	}
}

// Do executa fn até ter sucesso, estourar as tentativas ou receber um erro
// de permissão.
func (rt *retrier) Do(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < rt.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := rt.baseDelay * time.Duration(1<<(attempt-1))
			jitter := time.Duration(rand.Int63n(int64(delay)/2 + 1))
			select {
			case <-time.After(delay + jitter):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if isAccessDenied(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operation, rt.maxAttempts, lastErr)
}

// isAccessDenied reconhece erros de permissão retornados pelas APIs da AWS.
func isAccessDenied(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return nonRetryableCodes[apiErr.ErrorCode()]
	}
	return false
}
