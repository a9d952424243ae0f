package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jejak-app/jejak/api/internal/report/domain"
)

func TestDecodeRemoteResult(t *testing.T) {
	object := `{"category":"Kebersihan","title":"Sampah menumpuk","description":"Sampah di Jl. Kenanga","moderation":false,"priority":4}`
	doubled, err := json.Marshal(object)
	require.NoError(t, err)

	for name, body := range map[string]string{"object": object, "string-encoded": string(doubled)} {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeRemoteResult([]byte(body))
			require.NoError(t, err)
			assert.Equal(t, RemoteResult{
				Category:    domain.CategoryCleanliness,
				Title:       "Sampah menumpuk",
				Description: "Sampah di Jl. Kenanga",
				Priority:    4,
			}, got)
		})
	}
}

func TestDecodeRemoteResult_Lenient(t *testing.T) {
	got, err := DecodeRemoteResult([]byte(`{"category":"banjir","moderation":true,"priority":"2"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, got.Category)
	assert.True(t, got.Moderation)
	assert.Equal(t, domain.Priority(2), got.Priority)

	got, err = DecodeRemoteResult([]byte(`{"category":"penerangan","moderation":false,"priority":null}`))
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryLighting, got.Category)
	assert.False(t, got.Priority.IsSet())
}

func TestDecodeRemoteResult_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"not json":            `hello`,
		"array":               `[1,2]`,
		"number":              `42`,
		"string of garbage":   `"not an object"`,
		"string of array":     `"[1]"`,
		"moderation missing":  `{"category":"Kebersihan"}`,
		"moderation a string": `{"moderation":"false"}`,
		"priority too high":   `{"moderation":false,"priority":9}`,
		"priority fraction":   `{"moderation":false,"priority":2.5}`,
		"priority a word":     `{"moderation":false,"priority":"tinggi"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRemoteResult([]byte(body))
			assert.ErrorIs(t, err, ErrMalformedResult)
		})
	}
}

func TestRemoteClassifier_Request(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Lampu jalan mati", payload["text"])
		_ = json.NewEncoder(w).Encode(`{"category":"Penerangan","title":"Lampu mati","description":"Lampu jalan mati","moderation":false,"priority":3}`)
	}))
	defer srv.Close()

	c := NewRemoteClassifier(RemoteConfig{Endpoint: srv.URL, APIKey: "anon-key"})
	got, err := c.Classify(context.Background(), "Lampu jalan mati")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryLighting, got.Category)
	assert.Equal(t, "Lampu mati", got.Title)
	assert.Equal(t, domain.Priority(3), got.Priority)
}

func TestRemoteClassifier_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model overloaded"}`))
	}))
	defer srv.Close()

	_, err := NewRemoteClassifier(RemoteConfig{Endpoint: srv.URL}).Classify(context.Background(), "teks")
	assert.ErrorContains(t, err, "model overloaded")
}

func TestRemoteClassifier_ErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewRemoteClassifier(RemoteConfig{Endpoint: srv.URL}).Classify(context.Background(), "teks")
	assert.ErrorContains(t, err, "AI request failed")
}

func TestRemoteClassifier_EmptyText(t *testing.T) {
	_, err := NewRemoteClassifier(RemoteConfig{Endpoint: "http://127.0.0.1:1"}).Classify(context.Background(), "  ")
	assert.ErrorContains(t, err, "text is required")
}
