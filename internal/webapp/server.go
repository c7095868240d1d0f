package webapp

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsBot/internal/domain"
)

const pageTemplate = `<!doctype html>
<html>
<head><title>News Articles</title></head>
<body>
	<h1>News Articles</h1>
	<table border="1" cellpadding="5">
		<tr>
			<th>ID</th>
			<th>Title</th>
			<th>Summary</th>
			<th>Link</th>
			<th>Published</th>
		</tr>
		{{range .}}
		<tr>
			<td>{{.ID}}</td>
			<td>{{.Title}}</td>
			<td>{{.Summary}}</td>
			<td><a href="{{.Link}}">link</a></td>
			<td>{{.PublishedAt}}</td>
		</tr>
		{{end}}
	</table>
</body>
</html>`

// ArticleLister is the read-only slice of the repository the webapp needs.
type ArticleLister interface {
	ArticlesNewestFirst(ctx context.Context) ([]domain.Article, error)
}

// Server renders stored articles, newest first, as a single HTML page.
type Server struct {
	lister ArticleLister
	logger *slog.Logger
	tmpl   *template.Template
}

// NewServer builds the read-only listing server.
func NewServer(lister ArticleLister, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		lister: lister,
		logger: logger,
		tmpl:   template.Must(template.New("index").Parse(pageTemplate)),
	}
}

type row struct {
	ID          int64
	Title       string
	Summary     string
	Link        string
	PublishedAt string
}

// ServeHTTP handles the index route.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	articles, err := s.lister.ArticlesNewestFirst(r.Context())
	if err != nil {
		s.logger.Error("list articles", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	rows := make([]row, 0, len(articles))
	for _, article := range articles {
		rows = append(rows, row{
			ID:          article.ID,
			Title:       article.Title,
			Summary:     flattenHTML(article.Summary),
			Link:        article.Link,
			PublishedAt: article.PublishedAt,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, rows); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

// ListenAndServe blocks serving the listing until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/", s)

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("webapp listening", "addr", addr)
	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// flattenHTML strips markup from feed summaries for plain-text display.
func flattenHTML(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	return strings.TrimSpace(doc.Text())
}
