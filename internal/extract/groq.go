package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GroqClient calls a Groq (OpenAI-compatible) chat-completions endpoint for
// structured extraction. Every call is independent and stateless; retries,
// batching and pacing are the caller's concern.
type GroqClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	log        *slog.Logger

	Stats *LLMStats
}

func NewGroqClient(apiKey, baseURL, model string, log *slog.Logger) *GroqClient {
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	if log == nil {
		log = slog.Default()
	}
	return &GroqClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		log:   log,
		Stats: NewLLMStats(time.Hour),
	}
}

// Model returns the configured model name.
func (c *GroqClient) Model() string {
	return c.model
}

// CompletionRequest is one extraction call: a system instruction block, a
// user payload (chunk plus contextual hints), and the schema the response
// must satisfy.
type CompletionRequest struct {
	Kind        string // "statement" or "invoice", for stats and logging
	System      string
	User        string
	Temperature float32
	Schema      map[string]any
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Temperature    float32       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
	Messages       []chatMessage `json:"messages"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one request and returns the response content as a validated
// JSON object. Output that is not a JSON object, or that fails the request
// schema, is rejected as a MalformedResponseError.
func (c *GroqClient) Complete(ctx context.Context, req CompletionRequest) ([]byte, error) {
	reqID := uuid.New().String()
	start := time.Now()

	raw, err := c.complete(ctx, reqID, req)
	elapsed := time.Since(start).Milliseconds()
	c.Stats.Record(req.Kind, elapsed, err == nil)

	if err != nil {
		c.log.Error("groq.complete.failed",
			"req_id", reqID, "kind", req.Kind, "error", err, "elapsed_ms", elapsed)
		return nil, err
	}
	c.log.Info("groq.complete.ok",
		"req_id", reqID, "kind", req.Kind, "bytes", len(raw), "elapsed_ms", elapsed)
	return raw, nil
}

func (c *GroqClient) complete(ctx context.Context, reqID string, req CompletionRequest) ([]byte, error) {
	body := chatRequest{
		Model:          c.model,
		Temperature:    req.Temperature,
		ResponseFormat: &respFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}
	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.log.Info("groq.request",
		"req_id", reqID, "kind", req.Kind, "model", c.model,
		"temperature", req.Temperature, "payload_bytes", len(req.User))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("groq api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("groq api status %d: %s", resp.StatusCode, truncate(string(respBody), 400))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("groq error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from groq")
	}

	content := stripCodeBlock(apiResp.Choices[0].Message.Content)
	raw := []byte(content)

	if !json.Valid(raw) {
		return nil, &MalformedResponseError{Reason: "response content is not valid JSON"}
	}
	if !isJSONObject(raw) {
		return nil, &MalformedResponseError{Reason: "response content is not a JSON object"}
	}
	if req.Schema != nil {
		if err := ValidateJSONAgainstSchema(req.Schema, raw); err != nil {
			return nil, &MalformedResponseError{Reason: "schema validation failed", Err: err}
		}
	}
	return raw, nil
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func isJSONObject(raw []byte) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

// Close releases resources.
func (c *GroqClient) Close() {
	c.httpClient.CloseIdleConnections()
}
