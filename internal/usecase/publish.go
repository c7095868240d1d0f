package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"NewsBot/internal/domain"
	"NewsBot/internal/ports"
)

const promptTemplate = `You are a cybersecurity journalist writing for X (formerly Twitter).

Write a tweet-style summary of the article that captures attention like a breaking news headline. It should be clear, urgent, and compelling, designed to stop the scroll and deliver the core story fast.

**Constraints:**
- Max %d characters
- Tone: Direct, punchy, news-driven
- Style: Reads like a high-impact tweet, headline energy with just enough context
- Use emojis to enhance impact
- Do not include links, markdown, or any explanation, output only the tweet text

**Input:**
- Title: %s
- Summary: %s

**Output:**
- Only the tweet`

// summaryTemperature favors stylistic variety over determinism.
const summaryTemperature = 0.9

// Publisher selects the oldest unposted article, summarizes it through the
// generator, dispatches the message, and records the post mark.
//
// A run must not execute concurrently with another against the same store:
// two overlapping runs can both select the same article before either marks
// it. The invoking scheduler owns that exclusion. The mark is written only
// after a dispatch treated as successful, so the guarantee is at-most-one
// mark per fingerprint; a crash between dispatch and mark can cost one
// extra physical post on retry.
type Publisher struct {
	repository ports.ArticleRepository
	generator  ports.Generator
	notifier   ports.Notifier
	debugMode  bool
	charLimit  int
	logger     *slog.Logger
}

// PublisherDeps wires the driven adapters into the publish pipeline.
type PublisherDeps struct {
	Repository ports.ArticleRepository
	Generator  ports.Generator
	Notifier   ports.Notifier
	DebugMode  bool
	CharLimit  int
	Logger     *slog.Logger
}

// NewPublisher constructs the publish pipeline.
func NewPublisher(deps PublisherDeps) *Publisher {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	charLimit := deps.CharLimit
	if charLimit <= 0 {
		charLimit = 300
	}
	return &Publisher{
		repository: deps.Repository,
		generator:  deps.Generator,
		notifier:   deps.Notifier,
		debugMode:  deps.DebugMode,
		charLimit:  charLimit,
		logger:     logger,
	}
}

// Run processes at most one unposted article. A generation failure leaves
// the article pending for the next run and is not an error of the run
// itself; gateway and repository failures are.
func (p *Publisher) Run(ctx context.Context) error {
	article, err := p.repository.NextUnposted(ctx)
	if err != nil {
		return fmt.Errorf("select next article: %w", err)
	}
	if article == nil {
		p.logger.Info("no new articles to post")
		return nil
	}

	message, ok := p.summarize(ctx, article)
	if !ok {
		p.logger.Warn("failed to generate post", "article_id", article.ID, "title", article.Title)
		return nil
	}

	if p.debugMode {
		p.logger.Info("[debug mode] post would be", "message", message)
	} else {
		if err := p.notifier.Post(ctx, message); err != nil {
			return fmt.Errorf("dispatch post for article %d: %w", article.ID, err)
		}
	}

	if err := p.repository.MarkPosted(ctx, article.Fingerprint); err != nil {
		return fmt.Errorf("mark posted %d: %w", article.ID, err)
	}

	p.logger.Info("article posted", "article_id", article.ID, "title", article.Title)
	return nil
}

// summarize builds the final message body plus source link, or reports
// failure when the generator errors or returns nothing usable.
func (p *Publisher) summarize(ctx context.Context, article *domain.Article) (string, bool) {
	prompt := fmt.Sprintf(promptTemplate, p.charLimit, article.Title, article.Summary)

	result, err := p.generator.Generate(ctx, prompt, ports.GenerateOptions{
		Temperature:       summaryTemperature,
		RepetitionPenalty: 1.0,
	})
	if err != nil {
		p.logger.Warn("generation failed", "error", err)
		return "", false
	}

	body := strings.Trim(result, "\"'")
	if body == "" {
		return "", false
	}

	if runes := []rune(body); len(runes) > p.charLimit {
		p.logger.Warn("truncating over-length post body", "length", len(runes), "limit", p.charLimit)
		body = strings.TrimSpace(string(runes[:p.charLimit]))
	}

	return body + "\n\n" + article.Link, true
}
