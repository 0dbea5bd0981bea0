package perplexity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func TestChatCompletion(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
		wantID  string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{
				"id": "cmpl-123",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello!"}}],
				"usage": {"prompt_tokens": 10, "completion_tokens": 5}
			}`,
			wantID: "cmpl-123",
		},
		{
			name:    "rate_limit",
			status:  http.StatusTooManyRequests,
			body:    `{"error": "rate limit exceeded"}`,
			wantErr: "unexpected status 429",
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid json`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body)) //nolint:errcheck
			}))
			defer ts.Close()

			c := NewClient("test-key", WithBaseURL(ts.URL))
			resp, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{
				Messages: []Message{{Role: "user", Content: "hi"}},
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, resp.ID)
		})
	}
}

func TestChatCompletion_DefaultModelApplied(t *testing.T) {
	var gotModel string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, decodeJSON(r, &req))
		gotModel = req.Model
		w.Write([]byte(`{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`)) //nolint:errcheck
	}))
	defer ts.Close()

	c := NewClient("k", WithBaseURL(ts.URL), WithModel("sonar-pro"))
	_, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "sonar-pro", gotModel)
}

func TestAnswer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":"the answer"}}],"usage":{"prompt_tokens":3,"completion_tokens":7}}`)) //nolint:errcheck
	}))
	defer ts.Close()

	c := NewClient("k", WithBaseURL(ts.URL))
	text, usage, err := Answer(context.Background(), c, "what is up?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", text)
	assert.Equal(t, 7, usage.CompletionTokens)
}

func TestAnswer_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","choices":[]}`)) //nolint:errcheck
	}))
	defer ts.Close()

	c := NewClient("k", WithBaseURL(ts.URL))
	_, _, err := Answer(context.Background(), c, "anything")
	require.Error(t, err)
}
