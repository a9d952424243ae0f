package classify

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type stubImageClassifier struct {
	label string
	err   error
	calls int
}

func (s *stubImageClassifier) TopLabel(context.Context, []byte) (string, error) {
	s.calls++
	return s.label, s.err
}

func TestLazyImageClassifier_LoadsOnce(t *testing.T) {
	loads := 0
	model := &stubImageClassifier{label: "street sign"}
	lazy := NewLazyImageClassifier(func(context.Context) (ImageClassifier, error) {
		loads++
		return model, nil
	})

	for i := 0; i < 3; i++ {
		label, err := lazy.TopLabel(context.Background(), []byte("img"))
		require.NoError(t, err)
		assert.Equal(t, "street sign", label)
	}
	assert.Equal(t, 1, loads)
	assert.Equal(t, 3, model.calls)
}

func TestLazyImageClassifier_RetriesFailedLoad(t *testing.T) {
	loads := 0
	lazy := NewLazyImageClassifier(func(context.Context) (ImageClassifier, error) {
		loads++
		if loads == 1 {
			return nil, errors.New("model server starting")
		}
		return &stubImageClassifier{label: "lamp"}, nil
	})

	_, err := lazy.TopLabel(context.Background(), []byte("img"))
	assert.ErrorContains(t, err, "model server starting")

	label, err := lazy.TopLabel(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "lamp", label)
}

func writeLabels(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTFServing_TopLabel(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models/mobilenet":
			_, _ = w.Write([]byte(`{"model_version_status":[{"version":"1","state":"AVAILABLE"}]}`))
		case "/v1/models/mobilenet:predict":
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.Equal(t, base64.StdEncoding.EncodeToString(image), gjson.GetBytes(body, "instances.0.b64").String())
			_, _ = w.Write([]byte(`{"predictions":[[0.05, 0.7, 0.25]]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	load := NewTFServingLoader(TFServingConfig{
		BaseURL:    srv.URL,
		Model:      "mobilenet",
		LabelsFile: writeLabels(t, "golden retriever\nstreet sign\n\ntable lamp\n"),
	})
	model, err := load(context.Background())
	require.NoError(t, err)

	label, err := model.TopLabel(context.Background(), image)
	require.NoError(t, err)
	assert.Equal(t, "street sign", label)
}

func TestTFServing_LoadFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model_version_status":[{"version":"1","state":"LOADING"}]}`))
	}))
	defer srv.Close()

	_, err := NewTFServingLoader(TFServingConfig{BaseURL: srv.URL, Model: "m", LabelsFile: writeLabels(t, "a\n")})(context.Background())
	assert.ErrorContains(t, err, "LOADING")

	_, err = NewTFServingLoader(TFServingConfig{BaseURL: srv.URL, Model: "m", LabelsFile: writeLabels(t, "\n\n")})(context.Background())
	assert.ErrorContains(t, err, "empty")

	_, err = NewTFServingLoader(TFServingConfig{Model: "m"})(context.Background())
	assert.ErrorContains(t, err, "not configured")
}

func TestTFServing_IndexWithoutLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"predictions":[[0.1, 0.2, 0.9]]}`))
	}))
	defer srv.Close()

	model, err := NewTFServingLoader(TFServingConfig{BaseURL: srv.URL, Model: "m", LabelsFile: writeLabels(t, "a\nb\n")})(context.Background())
	require.NoError(t, err)
	_, err = model.TopLabel(context.Background(), []byte("x"))
	assert.ErrorContains(t, err, "no label")
}
