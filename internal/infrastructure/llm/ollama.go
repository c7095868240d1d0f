package llm

import (
	"bufio"
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

	"NewsBot/internal/config"
	"NewsBot/internal/ports"
)

// thinkRE matches a paired reasoning block, markers included, across lines.
var thinkRE = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Sanitize removes reasoning markup from model output and trims the result.
// Raw model output must pass through here before anything downstream sees it.
func Sanitize(text string) string {
	return strings.TrimSpace(thinkRE.ReplaceAllString(text, ""))
}

// Client talks to a streaming text-generation endpoint (Ollama-style).
type Client struct {
	url        string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.Generator = (*Client)(nil)

// NewClient builds a generation client from configuration.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:   cfg.URL,
		model: cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger: logger,
	}
}

type generateRequest struct {
	Model             string  `json:"model"`
	Prompt            string  `json:"prompt"`
	Temperature       float64 `json:"temperature"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

type generateChunk struct {
	Response string `json:"response"`
}

// Generate sends the prompt and blocks until the streamed response
// completes or the client timeout elapses. Fragments arrive as JSON lines
// and are concatenated in order; a line that fails to decode is dropped
// alone with a diagnostic while accumulation continues. The accumulated
// text is sanitized before being returned.
func (c *Client) Generate(ctx context.Context, prompt string, opts ports.GenerateOptions) (string, error) {
	payload := generateRequest{
		Model:             c.model,
		Prompt:            prompt,
		Temperature:       opts.Temperature,
		RepetitionPenalty: opts.RepetitionPenalty,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generate payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("generate error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var builder strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			c.logger.Debug("skipping malformed stream line", "error", err)
			continue
		}
		builder.WriteString(chunk.Response)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}

	c.logger.Debug("generation complete", "model", c.model, "elapsed", time.Since(start))
	return Sanitize(builder.String()), nil
}
