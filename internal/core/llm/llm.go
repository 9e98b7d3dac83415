package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Embedder turns texts into embedding vectors, same length and order as input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a completion for a system/user prompt pair.
type Generator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Client provides both capabilities.
type Client interface {
	Embedder
	Generator
}

// Factory builds a Client for a caller-supplied API key.
type Factory func(apiKey string) Client

// Op identifies which external call failed.
type Op string

const (
	OpEmbedding  Op = "embedding"
	OpGeneration Op = "generation"
)

// Kind is a structured failure classification derived from the provider's
// error payload, never from matching free-text messages.
type Kind string

const (
	KindAuth       Kind = "auth"
	KindRateLimit  Kind = "rate_limit"
	KindQuota      Kind = "quota"
	KindTimeout    Kind = "timeout"
	KindBadRequest Kind = "bad_request"
	KindTransport  Kind = "transport"
	KindUnknown    Kind = "unknown"
)

// ServiceError wraps a failure from an external collaborator.
type ServiceError struct {
	Op   Op
	Kind Kind
	Err  error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func wrapErr(op Op, err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	return &ServiceError{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if kind, ok := classifyAPIError(err); ok {
		return kind
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return KindTimeout
		}
		return KindTransport
	}
	return KindUnknown
}
