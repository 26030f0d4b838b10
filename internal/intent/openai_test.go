package intent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIParser(t *testing.T) {
	ctx := context.Background()

	t.Run("valid reply", func(t *testing.T) {
		srv := chatServer(t, `{"function": "add_task", "params": {"task": "buy milk", "priority": "urgent"}}`)
		defer srv.Close()

		p := NewOpenAIParser("test-key", "gpt-4.1-mini", srv.URL, zerolog.Nop())
		it, err := p.ParseIntent(ctx, "add buy milk urgently", []string{"001 Call mom"})
		require.NoError(t, err)

		assert.Equal(t, FunctionAddTask, it.Function)
		assert.Equal(t, "buy milk", it.StringParam("task"))
		assert.Equal(t, "urgent", it.StringParam("priority"))
	})

	t.Run("non-json reply degrades to an error intent", func(t *testing.T) {
		srv := chatServer(t, "Sure! I'll add that for you.")
		defer srv.Close()

		p := NewOpenAIParser("test-key", "gpt-4.1-mini", srv.URL, zerolog.Nop())
		it, err := p.ParseIntent(ctx, "add buy milk", nil)
		require.NoError(t, err)
		assert.Equal(t, FunctionError, it.Function)
	})

	t.Run("unknown function fails schema validation", func(t *testing.T) {
		srv := chatServer(t, `{"function": "format_disk", "params": {}}`)
		defer srv.Close()

		p := NewOpenAIParser("test-key", "gpt-4.1-mini", srv.URL, zerolog.Nop())
		it, err := p.ParseIntent(ctx, "format my disk", nil)
		require.NoError(t, err)
		assert.Equal(t, FunctionError, it.Function)
	})

	t.Run("api failure returns an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		p := NewOpenAIParser("test-key", "gpt-4.1-mini", srv.URL, zerolog.Nop())
		_, err := p.ParseIntent(ctx, "add buy milk", nil)
		require.Error(t, err)
	})
}
