package tool_test

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incident-intelligence-backend/internal/tool"
)

type stubTool struct {
	name string
	data map[string]interface{}
	err  error
}

func (s *stubTool) Name() string            { return s.name }
func (s *stubTool) Description() string     { return "stub tool" }
func (s *stubTool) Definition() openai.Tool { return openai.Tool{} }
func (s *stubTool) Execute(ctx context.Context, args tool.Args) (map[string]interface{}, error) {
	return s.data, s.err
}

func TestRun_Success(t *testing.T) {
	st := &stubTool{name: "stub", data: map[string]interface{}{"total_logs": 3}}

	result := tool.Run(context.Background(), st, tool.Args{})

	assert.True(t, result.Success)
	assert.Equal(t, st.data, result.Data)
	assert.Empty(t, result.Error)
	assert.GreaterOrEqual(t, result.ExecutionTimeMS, int64(0))
	assert.False(t, result.Timestamp.IsZero())
}

func TestRun_FailureBecomesResult(t *testing.T) {
	st := &stubTool{name: "stub", err: errors.New("backend exploded")}

	result := tool.Run(context.Background(), st, tool.Args{})

	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Equal(t, "backend exploded", result.Error)
	assert.GreaterOrEqual(t, result.ExecutionTimeMS, int64(0))
	assert.False(t, result.Timestamp.IsZero())
}

func TestArgs_Defaults(t *testing.T) {
	args := tool.Args{
		"service_name": "checkout-service",
		"limit":        float64(25), // JSON numbers decode as float64
	}

	assert.Equal(t, "checkout-service", args.StringOr("service_name", "all"))
	assert.Equal(t, "all", args.StringOr("severity", "all"))
	assert.Equal(t, 25, args.IntOr("limit", 100))
	assert.Equal(t, 100, args.IntOr("missing", 100))
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	registry, err := tool.NewRegistry(&stubTool{name: "stub"})
	require.NoError(t, err)

	_, err = registry.Resolve("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, tool.ErrUnknownTool)
	assert.Contains(t, err.Error(), "nope")

	resolved, err := registry.Resolve("stub")
	require.NoError(t, err)
	assert.Equal(t, "stub", resolved.Name())
}

func TestRegistry_DuplicateName(t *testing.T) {
	_, err := tool.NewRegistry(&stubTool{name: "stub"}, &stubTool{name: "stub"})
	require.Error(t, err)
}

func TestRegistry_ListingMatchesRegistrationOrder(t *testing.T) {
	registry, err := tool.NewRegistry(&stubTool{name: "b"}, &stubTool{name: "a"})
	require.NoError(t, err)

	listing := registry.Listing()
	require.Len(t, listing, 2)
	assert.Equal(t, "b", listing[0].Name)
	assert.Equal(t, "a", listing[1].Name)
	assert.Len(t, registry.Definitions(), 2)
}
