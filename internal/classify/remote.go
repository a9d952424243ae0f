package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jejak-app/jejak/api/internal/report/domain"
)

// ErrMalformedResult is returned when the remote response cannot be decoded into a result.
var ErrMalformedResult = errors.New("malformed classification result")

// RemoteResult is the decoded response of the AI function.
type RemoteResult struct {
	Category    domain.Category
	Title       string
	Description string
	Moderation  bool
	Priority    domain.Priority
}

// TextClassifier classifies and moderates free text.
type TextClassifier interface {
	Classify(ctx context.Context, text string) (RemoteResult, error)
}

// RemoteConfig configures RemoteClassifier.
type RemoteConfig struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

// RemoteClassifier calls the AI edge function with `{"text": ...}` and a bearer key.
type RemoteClassifier struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewRemoteClassifier returns a client for cfg.
func NewRemoteClassifier(cfg RemoteConfig) *RemoteClassifier {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &RemoteClassifier{
		endpoint:   strings.TrimSpace(cfg.Endpoint),
		apiKey:     cfg.APIKey,
		httpClient: client,
	}
}

func (c *RemoteClassifier) Classify(ctx context.Context, text string) (RemoteResult, error) {
	if strings.TrimSpace(text) == "" {
		return RemoteResult{}, errors.New("text is required")
	}
	if c.endpoint == "" {
		return RemoteResult{}, errors.New("classification endpoint is not configured")
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return RemoteResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return RemoteResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return RemoteResult{}, fmt.Errorf("ai request: %w", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return RemoteResult{}, fmt.Errorf("ai request: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = "AI request failed"
		}
		return RemoteResult{}, fmt.Errorf("ai request: status=%d: %s", res.StatusCode, msg)
	}
	return DecodeRemoteResult(body)
}

// DecodeRemoteResult decodes a response body that is either a JSON object or a JSON string holding
// the encoded object.
func DecodeRemoteResult(body []byte) (RemoteResult, error) {
	if !gjson.ValidBytes(body) {
		return RemoteResult{}, fmt.Errorf("%w: invalid json", ErrMalformedResult)
	}
	doc := gjson.ParseBytes(body)
	switch {
	case doc.Type == gjson.String:
		inner := doc.String()
		if !gjson.Valid(inner) {
			return RemoteResult{}, fmt.Errorf("%w: invalid json inside string", ErrMalformedResult)
		}
		doc = gjson.Parse(inner)
		if !doc.IsObject() {
			return RemoteResult{}, fmt.Errorf("%w: expected object inside string", ErrMalformedResult)
		}
	case doc.IsObject():
	default:
		return RemoteResult{}, fmt.Errorf("%w: expected object or string", ErrMalformedResult)
	}

	moderation := doc.Get("moderation")
	if moderation.Type != gjson.True && moderation.Type != gjson.False {
		return RemoteResult{}, fmt.Errorf("%w: moderation flag missing", ErrMalformedResult)
	}
	priority, err := decodePriority(doc.Get("priority"))
	if err != nil {
		return RemoteResult{}, err
	}

	return RemoteResult{
		Category:    domain.CategoryOrOther(doc.Get("category").String()),
		Title:       strings.TrimSpace(doc.Get("title").String()),
		Description: strings.TrimSpace(doc.Get("description").String()),
		Moderation:  moderation.Bool(),
		Priority:    priority,
	}, nil
}

func decodePriority(v gjson.Result) (domain.Priority, error) {
	var n float64
	switch v.Type {
	case gjson.Null:
		return domain.PriorityUnset, nil
	case gjson.Number:
		n = v.Num
	case gjson.String:
		parsed, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return domain.PriorityUnset, fmt.Errorf("%w: priority %q", ErrMalformedResult, v.Str)
		}
		n = float64(parsed)
	default:
		return domain.PriorityUnset, fmt.Errorf("%w: priority has type %s", ErrMalformedResult, v.Type)
	}
	if n != math.Trunc(n) || n < float64(domain.PriorityMin) || n > float64(domain.PriorityMax) {
		return domain.PriorityUnset, fmt.Errorf("%w: priority %v out of range", ErrMalformedResult, n)
	}
	return domain.Priority(int(n)), nil
}
