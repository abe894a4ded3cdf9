package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTool(name string, result any, err error) Tool {
	return Tool{
		Definition: functionTool(name, "test tool", map[string]any{}, nil),
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			return result, err
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Run("definitions come back in registration order", func(t *testing.T) {
		r := NewRegistry()
		r.Register(stubTool("charlie", nil, nil))
		r.Register(stubTool("alpha", nil, nil))
		r.Register(stubTool("bravo", nil, nil))

		defs := r.Definitions()
		require.Len(t, defs, 3)
		assert.Equal(t, "charlie", defs[0].Function.Name)
		assert.Equal(t, "alpha", defs[1].Function.Name)
		assert.Equal(t, "bravo", defs[2].Function.Name)
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		r := NewRegistry()
		r.Register(stubTool("dup", nil, nil))
		assert.Panics(t, func() {
			r.Register(stubTool("dup", nil, nil))
		})
	})

	t.Run("Has reports registration", func(t *testing.T) {
		r := NewRegistry()
		r.Register(stubTool("present", nil, nil))
		assert.True(t, r.Has("present"))
		assert.False(t, r.Has("absent"))
	})
}

func TestRegistry_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the handler result as JSON", func(t *testing.T) {
		r := NewRegistry()
		r.Register(stubTool("ok", map[string]any{"added": true}, nil))

		out := r.Dispatch(ctx, "ok", nil)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, true, decoded["added"])
	})

	t.Run("unknown tool becomes a structured error payload", func(t *testing.T) {
		r := NewRegistry()

		out := r.Dispatch(ctx, "nope", nil)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "error", decoded["status"])
		assert.Contains(t, decoded["message"], "nope")
	})

	t.Run("handler error becomes a structured error payload", func(t *testing.T) {
		r := NewRegistry()
		r.Register(stubTool("broken", nil, errors.New("db down")))

		out := r.Dispatch(ctx, "broken", nil)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "error", decoded["status"])
		assert.Equal(t, "db down", decoded["message"])
	})
}
