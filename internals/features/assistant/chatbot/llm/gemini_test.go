package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k123", r.URL.Query().Get("key"))
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"DBT sends money "},{"text":"to your bank."}]}}]}`))
	}))
	defer srv.Close()

	g := NewGemini("k123", "gemini-test", srv.URL+"/", time.Second)
	out, err := g.Generate(context.Background(), "be helpful", []Turn{
		{Role: RoleUser, Content: "what is dbt"},
	})
	require.NoError(t, err)
	assert.Equal(t, "DBT sends money to your bank.", out)

	contents := got["contents"].([]any)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].(map[string]any)["role"])
	assert.NotNil(t, got["system_instruction"])
}

func TestGeminiProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	_, err := NewGemini("k", "m", srv.URL, time.Second).Generate(context.Background(), "", nil)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
	assert.Equal(t, "quota exceeded", pe.Message)
}

func TestGeminiEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := NewGemini("k", "m", srv.URL, time.Second).Generate(context.Background(), "", nil)
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestGeminiTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewGemini("k", "m", srv.URL, 50*time.Millisecond).Generate(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestNewWithoutKeyIsDisabled(t *testing.T) {
	c := New("", "m", "http://unused", time.Second)
	_, err := c.Generate(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrDisabled)
}
