package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cricbot/internal/common/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(&Config{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Model:      "gpt-4o",
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}, logger.NewTestLogger(t))
}

func completionBody(content string) string {
	body := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": content}},
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func TestChat_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o", reqBody["model"])
		_, hasFormat := reqBody["response_format"]
		assert.False(t, hasFormat, "plain Chat must not force JSON mode")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("India are 245/6.")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	reply, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "score?"}})
	require.NoError(t, err)
	assert.Equal(t, "India are 245/6.", reply)
}

func TestChatJSON_SetsResponseFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		format, ok := reqBody["response_format"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "json_object", format["type"])

		w.Write([]byte(completionBody(`{"intent": "fallback"}`)))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	reply, err := client.ChatJSON(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, `{"intent": "fallback"}`, reply)
}

func TestChat_RetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(completionBody("done")))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	reply, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "done", reply)
	assert.Equal(t, 3, attempts)
}

func TestChat_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(&Config{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "gpt-4o",
		Timeout:    50 * time.Millisecond,
		MaxRetries: 2,
	}, logger.NewTestLogger(t))

	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestChat_APIErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"message": "invalid api key", "type": "auth"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCallFailed))
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestChat_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyReply))
}
