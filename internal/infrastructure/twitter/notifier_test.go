package twitter

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestNotifier(endpoint string, client *http.Client) *Notifier {
	return &Notifier{
		endpoint:   endpoint,
		httpClient: client,
		logger:     slog.Default(),
	}
}

func TestPostSuccess(t *testing.T) {
	t.Parallel()

	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1","text":"ok"}}`))
	}))
	defer server.Close()

	notifier := newTestNotifier(server.URL, server.Client())

	if err := notifier.Post(context.Background(), "hello world"); err != nil {
		t.Fatalf("Post error: %v", err)
	}
	if !strings.Contains(gotBody, `"text":"hello world"`) {
		t.Fatalf("unexpected payload: %q", gotBody)
	}
}

func TestPostAPIFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"title":"Forbidden","detail":"You are not permitted","status":403,"errors":[{"message":"duplicate content"}]}`))
	}))
	defer server.Close()

	notifier := newTestNotifier(server.URL, server.Client())

	err := notifier.Post(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for API failure")
	}
	if !strings.Contains(err.Error(), "You are not permitted") {
		t.Fatalf("error should carry the API detail, got %v", err)
	}
}

func TestPostTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	notifier := newTestNotifier(server.URL, http.DefaultClient)

	if err := notifier.Post(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for unreachable gateway")
	}
}
