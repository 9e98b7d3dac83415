package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openai "github.com/openai/openai-go/v3"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("call failed: %w", context.DeadlineExceeded), KindTimeout},
		{"unauthorized", &openai.Error{StatusCode: 401}, KindAuth},
		{"forbidden", &openai.Error{StatusCode: 403}, KindAuth},
		{"rate limited", &openai.Error{StatusCode: 429}, KindRateLimit},
		{"quota exhausted", &openai.Error{StatusCode: 429, Type: "insufficient_quota"}, KindQuota},
		{"bad request", &openai.Error{StatusCode: 400}, KindBadRequest},
		{"server error", &openai.Error{StatusCode: 502}, KindTransport},
		{"unmapped status", &openai.Error{StatusCode: 404}, KindUnknown},
		{"network failure", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, KindTransport},
		{"plain error", errors.New("something odd"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr(OpEmbedding, nil))

	err := wrapErr(OpEmbedding, &openai.Error{StatusCode: 401})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, OpEmbedding, svcErr.Op)
	assert.Equal(t, KindAuth, svcErr.Kind)
}

func TestWrapErr_DoesNotDoubleWrap(t *testing.T) {
	inner := &ServiceError{Op: OpGeneration, Kind: KindTimeout, Err: errors.New("slow")}

	wrapped := wrapErr(OpEmbedding, inner)

	var svcErr *ServiceError
	require.ErrorAs(t, wrapped, &svcErr)
	assert.Equal(t, OpGeneration, svcErr.Op)
	assert.Equal(t, KindTimeout, svcErr.Kind)
}

func TestServiceError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &ServiceError{Op: OpGeneration, Kind: KindUnknown, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "generation service")
	assert.Contains(t, err.Error(), "root cause")
}

func TestStubClient_Embed(t *testing.T) {
	stub := &StubClient{
		Vector:  []float32{1, 1},
		Vectors: map[string][]float32{"special": {9, 9}},
	}

	vecs, err := stub.Embed(context.Background(), []string{"plain", "special"})

	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1, 1}, vecs[0])
	assert.Equal(t, []float32{9, 9}, vecs[1])
	assert.Equal(t, 1, stub.EmbedCalls)
}
