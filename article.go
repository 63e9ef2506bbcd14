package newsdigest

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// FailureMarker is the body stored for an article whose extraction
// produced no text at all.
const FailureMarker = "Content extraction failed"

// NoTitle is the title stored when no title could be located.
const NoTitle = "No title found"

// Strategy values outside the cascade's 1-based stage numbers.
const (
	// StrategyNone is recorded on articles carrying the FailureMarker.
	StrategyNone = 0

	// StrategyStory is recorded on articles built from a JSON story payload.
	StrategyStory = -1
)

// Candidate is an article discovered on a listing surface.
// Candidates are unique by exact URL string.
type Candidate struct {
	URL      string `json:"url"`
	Category string `json:"category"`
	Rank     int    `json:"rank"`

	// Headline is the listing headline, when the source provides one.
	Headline string `json:"headline,omitempty"`
}

// PayloadKind identifies the representation of a fetched page.
type PayloadKind int

// Payload kinds.
const (
	PayloadHTML PayloadKind = iota
	PayloadJSON
)

// String returns the kind name used in logs and debug file extensions.
func (k PayloadKind) String() string {
	if k == PayloadJSON {
		return "json"
	}
	return "html"
}

// DetectPayloadKind reports whether a raw payload is a JSON document or markup.
func DetectPayloadKind(payload string) PayloadKind {
	s := strings.TrimSpace(payload)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return PayloadJSON
	}
	return PayloadHTML
}

// FetchedPage is the raw result of fetching a candidate.
// It is owned by a single pipeline run and dropped once extraction completes.
type FetchedPage struct {
	Candidate Candidate
	Payload   string
	Kind      PayloadKind

	mu     sync.Mutex
	parsed map[any]any
}

// Parsed returns the representation of the payload stored under key,
// building it with parse on first use. Strategies reading the same page share
// one parsed document this way. The payload must not change once a
// representation is built.
func (p *FetchedPage) Parsed(key any, parse func() any) any {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.parsed[key]; ok {
		return v
	}
	v := parse()
	if p.parsed == nil {
		p.parsed = make(map[any]any)
	}
	p.parsed[key] = v
	return v
}

// NewFetchedPage wraps a raw payload, detecting its kind.
func NewFetchedPage(c Candidate, payload string) *FetchedPage {
	return &FetchedPage{
		Candidate: c,
		Payload:   payload,
		Kind:      DetectPayloadKind(payload),
	}
}

// Article is the structured result of extracting a fetched page.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	ImageURL    string    `json:"imageUrl"`
	URL         string    `json:"url"`
	PublishedAt string    `json:"publishedAt"`
	Category    string    `json:"category"`
	Summary     string    `json:"summary,omitempty"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`

	// ContentLength is the trimmed rune length of Body, or 0 when Body is
	// the FailureMarker. Use SetBody or MarkFailed to keep it in sync.
	ContentLength int `json:"contentLength"`

	// Strategy is the 1-based cascade stage that produced Body,
	// or StrategyNone for the failure marker.
	Strategy int `json:"strategy"`
}

// SetBody replaces the body and recomputes ContentLength.
func (a *Article) SetBody(body string, strategy int) {
	a.Body = body
	a.ContentLength = utf8.RuneCountInString(strings.TrimSpace(body))
	a.Strategy = strategy
}

// MarkFailed stores the failure marker in place of a body.
func (a *Article) MarkFailed() {
	a.Body = FailureMarker
	a.ContentLength = 0
	a.Strategy = StrategyNone
}

// Failed reports whether the article carries the failure marker.
func (a *Article) Failed() bool {
	return a.Strategy == StrategyNone && a.ContentLength == 0
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	if a.Body == "" {
		return Errorf(EINVALID, "article body required")
	}
	return nil
}

// Columns is the fixed output column order. SummaryColumn is appended
// when a run produces summaries.
var Columns = []string{
	"title",
	"full_content",
	"image_url",
	"article_url",
	"published_at",
	"category",
	"content_length",
}

// SummaryColumn is the extra column emitted by summary-producing runs.
const SummaryColumn = "summary"

// Record returns the article as a row matching Columns.
func (a *Article) Record(withSummary bool) []string {
	rec := []string{
		a.Title,
		a.Body,
		a.ImageURL,
		a.URL,
		a.PublishedAt,
		a.Category,
		strconv.Itoa(a.ContentLength),
	}
	if withSummary {
		rec = append(rec, a.Summary)
	}
	return rec
}

// Result is the per-candidate outcome of a pipeline run.
// Exactly one of Article and Err is set.
type Result struct {
	Candidate Candidate
	Article   *Article
	Err       error
}

// OK reports whether the candidate produced an article.
func (r Result) OK() bool {
	return r.Err == nil && r.Article != nil
}

// ArticleWriter receives one article per processed candidate.
type ArticleWriter interface {
	WriteArticle(ctx context.Context, a *Article) error
}

// ArticleService represents a service for managing stored articles.
type ArticleService interface {
	ArticleWriter

	// FindArticleByID retrieves an article by ID.
	// Returns ENOTFOUND if the article does not exist.
	FindArticleByID(ctx context.Context, id string) (*Article, error)

	// FindArticles retrieves articles matching the filter.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// UpdateArticle updates an existing article.
	// Returns ENOTFOUND if the article does not exist.
	UpdateArticle(ctx context.Context, id string, upd ArticleUpdate) (*Article, error)

	// HasURL reports whether an article with the URL is stored.
	HasURL(ctx context.Context, url string) (bool, error)

	// URLs returns the URLs of all stored articles.
	URLs(ctx context.Context) ([]string, error)
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	Category  *string `json:"category"`
	URL       *string `json:"url"`
	NoSummary bool    `json:"noSummary"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ArticleUpdate represents fields that can be updated on an article.
type ArticleUpdate struct {
	Summary *string `json:"summary"`
}

// MultiWriter fans an article out to every writer in order.
// The first error stops the fan-out.
func MultiWriter(writers ...ArticleWriter) ArticleWriter {
	return multiWriter(writers)
}

type multiWriter []ArticleWriter

func (m multiWriter) WriteArticle(ctx context.Context, a *Article) error {
	for _, w := range m {
		if err := w.WriteArticle(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// DebugThreshold is the content length below which the raw payload of an
// article is handed to a DebugStore.
const DebugThreshold = 300

// DebugStore persists raw payloads of poorly extracted articles for
// offline inspection.
type DebugStore interface {
	Save(ctx context.Context, page *FetchedPage) error
}
