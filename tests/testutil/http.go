package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope is the decoded API response envelope
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		RequestID string         `json:"request_id"`
		Details   map[string]any `json:"details"`
	} `json:"error"`
}

// APIClient sends JSON requests to an in-process handler
type APIClient struct {
	Handler http.Handler
	Token   string
}

// Do sends body encoded as JSON and returns the recorded response
func (c *APIClient) Do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body), "Failed to marshal request body")
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	w := httptest.NewRecorder()
	c.Handler.ServeHTTP(w, req)
	return w
}

// WithToken returns a copy of the client that authenticates with token
func (c *APIClient) WithToken(token string) *APIClient {
	return &APIClient{Handler: c.Handler, Token: token}
}

// DecodeEnvelope parses the response envelope
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse response: %s", w.Body.String())
	return env
}

// DecodeData asserts status and parses the envelope data into T
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder, status int) T {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())

	env := DecodeEnvelope(t, w)
	require.True(t, env.Success, w.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), "Failed to parse data")
	return out
}

// AssertErrorCode asserts the status and error code of a failed response
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) Envelope {
	t.Helper()
	assert.Equal(t, status, w.Code, w.Body.String())

	env := DecodeEnvelope(t, w)
	assert.False(t, env.Success)
	if assert.NotNil(t, env.Error) {
		assert.Equal(t, code, env.Error.Code)
	}
	return env
}
