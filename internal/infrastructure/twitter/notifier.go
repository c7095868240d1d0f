package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"

	"NewsBot/internal/config"
	"NewsBot/internal/ports"
)

const defaultEndpoint = "https://api.x.com/2/tweets"

// Notifier posts messages to X via the v2 API using OAuth1 user context.
type Notifier struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier builds a posting client with OAuth1 request signing.
func NewNotifier(cfg config.TwitterConfig, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	oauthCfg := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)
	client := oauthCfg.Client(oauth1.NoContext, token)
	client.Timeout = 10 * time.Second

	return &Notifier{
		endpoint:   defaultEndpoint,
		httpClient: client,
		logger:     logger,
	}
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Post sends one tweet. On a non-success status the structured API error is
// logged verbatim before the error is returned.
func (n *Notifier) Post(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return fmt.Errorf("marshal tweet payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send tweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		n.logger.Error("tweet failed", "status", resp.Status, "body", string(raw))

		var parsed apiError
		if err := json.Unmarshal(raw, &parsed); err == nil {
			for _, apiErr := range parsed.Errors {
				n.logger.Error("api error", "message", apiErr.Message)
			}
			if parsed.Detail != "" {
				return fmt.Errorf("tweet failed %s: %s", resp.Status, parsed.Detail)
			}
		}
		return fmt.Errorf("tweet failed: %s", resp.Status)
	}

	n.logger.Info("tweet sent")
	return nil
}
