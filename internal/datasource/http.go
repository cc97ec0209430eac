package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/seenimoa/clientdesk/pkg/models"
)

const (
	DefaultBaseURL   = "http://localhost:5000"
	DefaultRateLimit = 20 // requests per second

	// maxScriptOutput caps how much of the script output is kept.
	maxScriptOutput = 1 << 20
	// maxErrorBody caps the response excerpt stored in ErrHTTP.
	maxErrorBody = 1024
)

// HTTPSource implements DataSource against the backend's JSON API.
type HTTPSource struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPSource) {
		s.httpClient = c
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSource) {
		s.httpClient.Timeout = d
	}
}

// WithRateLimit caps outbound requests per second. Non-positive disables it.
func WithRateLimit(perSecond int) Option {
	return func(s *HTTPSource) {
		if perSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
	}
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(s *HTTPSource) {
		s.token = token
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *HTTPSource) {
		s.logger = l
	}
}

// NewHTTPSource creates a backend client rooted at baseURL.
func NewHTTPSource(baseURL string, opts ...Option) *HTTPSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	s := &HTTPSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL returns the backend root URL.
func (s *HTTPSource) BaseURL() string { return s.baseURL }

func (s *HTTPSource) Clients(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	if err := s.getJSON(ctx, "/api/clients", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) Client(ctx context.Context, id string) (*models.Client, error) {
	var out *models.Client
	if err := s.getJSON(ctx, "/api/clients/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) Portfolio(ctx context.Context, id string) (*models.Portfolio, error) {
	var out *models.Portfolio
	if err := s.getJSON(ctx, "/api/portfolios/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) DailyRisks(ctx context.Context, id string) ([]models.DailyRisk, error) {
	var out []models.DailyRisk
	if err := s.getJSON(ctx, "/api/dailyrisks/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) DailySentiments(ctx context.Context, id string) ([]models.DailySentimentSet, error) {
	var out []models.DailySentimentSet
	if err := s.getJSON(ctx, "/api/dailysentiments/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) Satisfaction(ctx context.Context, id string) (*models.SatisfactionScore, error) {
	var out *models.SatisfactionScore
	if err := s.getJSON(ctx, "/api/clientSatisfactions/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HTTPSource) RunScript(ctx context.Context) (string, error) {
	resp, err := s.get(ctx, "/run-python", "text/plain, text/html, */*")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptOutput))
	if err != nil {
		return "", fmt.Errorf("read script output: %w", err)
	}
	return plainText(body, resp.Header.Get("Content-Type"))
}

// getJSON performs a GET and decodes the JSON body into out.
func (s *HTTPSource) getJSON(ctx context.Context, path string, out any) error {
	resp, err := s.get(ctx, path, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// get performs a rate-limited GET. The caller closes the body on success.
func (s *HTTPSource) get(ctx context.Context, path, accept string) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	s.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Endpoint:   path,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return resp, nil
}

// plainText returns body as text. HTML bodies are reduced to their visible
// text so the output can be shown verbatim inside a page.
func plainText(body []byte, contentType string) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "text/html" {
		return string(body), nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse script output: %w", err)
	}
	doc.Find("script, style").Remove()
	return strings.TrimSpace(doc.Text()), nil
}
