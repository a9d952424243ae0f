package classify

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// ImageClassifier returns the top label predicted for an image.
type ImageClassifier interface {
	TopLabel(ctx context.Context, image []byte) (string, error)
}

// ModelLoader prepares an ImageClassifier.
type ModelLoader func(ctx context.Context) (ImageClassifier, error)

// LazyImageClassifier loads its model on first use and keeps it for the life of the process.
// A failed load is returned to the caller and retried on the next call.
type LazyImageClassifier struct {
	load ModelLoader

	mu    sync.Mutex
	model ImageClassifier
}

// NewLazyImageClassifier wraps load.
func NewLazyImageClassifier(load ModelLoader) *LazyImageClassifier {
	return &LazyImageClassifier{load: load}
}

func (l *LazyImageClassifier) TopLabel(ctx context.Context, image []byte) (string, error) {
	model, err := l.get(ctx)
	if err != nil {
		return "", fmt.Errorf("load image model: %w", err)
	}
	return model.TopLabel(ctx, image)
}

func (l *LazyImageClassifier) get(ctx context.Context) (ImageClassifier, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.model != nil {
		return l.model, nil
	}
	model, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	l.model = model
	return model, nil
}

// TFServingConfig points at a TensorFlow Serving compatible REST endpoint.
type TFServingConfig struct {
	BaseURL    string
	Model      string
	LabelsFile string
	HTTPClient *http.Client
}

// TFServingClassifier sends base64 encoded images to `/v1/models/<model>:predict` and maps the
// highest scoring output index through the labels list.
type TFServingClassifier struct {
	endpoint   string
	labels     []string
	httpClient *http.Client
}

// NewTFServingLoader returns a ModelLoader that reads the labels file and checks that the model is
// being served.
func NewTFServingLoader(cfg TFServingConfig) ModelLoader {
	return func(ctx context.Context) (ImageClassifier, error) {
		base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
		if base == "" || cfg.Model == "" {
			return nil, errors.New("image model endpoint is not configured")
		}
		labels, err := readLabels(cfg.LabelsFile)
		if err != nil {
			return nil, err
		}
		client := cfg.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: 15 * time.Second}
		}
		modelURL := base + "/v1/models/" + cfg.Model

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelURL, nil)
		if err != nil {
			return nil, err
		}
		res, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("image model status: %w", err)
		}
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		res.Body.Close()
		if res.StatusCode >= 400 {
			return nil, fmt.Errorf("image model status: status=%d", res.StatusCode)
		}
		if state := gjson.GetBytes(body, "model_version_status.0.state").String(); state != "" && state != "AVAILABLE" {
			return nil, fmt.Errorf("image model %s is %s", cfg.Model, state)
		}

		return &TFServingClassifier{
			endpoint:   modelURL + ":predict",
			labels:     labels,
			httpClient: client,
		}, nil
	}
}

func readLabels(path string) ([]string, error) {
	if path == "" {
		return nil, errors.New("image model labels file is not configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			labels = append(labels, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, errors.New("labels file is empty")
	}
	return labels, nil
}

type predictRequest struct {
	Instances []predictInstance `json:"instances"`
}

type predictInstance struct {
	B64 string `json:"b64"`
}

func (c *TFServingClassifier) TopLabel(ctx context.Context, image []byte) (string, error) {
	payload, err := json.Marshal(predictRequest{Instances: []predictInstance{{B64: base64.StdEncoding.EncodeToString(image)}}})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image predict: %w", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<22))
	if err != nil {
		return "", fmt.Errorf("image predict: %w", err)
	}
	if res.StatusCode >= 400 {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return "", fmt.Errorf("image predict: status=%d %s", res.StatusCode, msg)
	}

	scores := gjson.GetBytes(body, "predictions.0")
	if !scores.IsArray() {
		return "", errors.New("image predict: no predictions in response")
	}
	best, bestScore := -1, 0.0
	for i, s := range scores.Array() {
		if best == -1 || s.Float() > bestScore {
			best, bestScore = i, s.Float()
		}
	}
	if best < 0 || best >= len(c.labels) {
		return "", fmt.Errorf("image predict: output index %d has no label", best)
	}
	return c.labels[best], nil
}
