package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moviebrowse/internal/metrics"
	"moviebrowse/internal/models"

	"github.com/sirupsen/logrus"
)

const (
	tmdbAPIURL      = "https://api.themoviedb.org/3"
	tmdbImageURL    = "https://image.tmdb.org/t/p/w200"
	defaultTimeout  = 15 * time.Second
	userAgent       = "MovieBrowse/1.0"
	randomPageMax   = 500
	maxResponseSize = 5 * 1024 * 1024 // 5MB
)

// Fetch kinds, used as log fields and metric labels.
const (
	KindSearch      = "search"
	KindRecommended = "recommended"
	KindRandom      = "random"
	KindDetails     = "details"
)

var (
	// ErrMalformedResponse means the body was not JSON or had no results array.
	ErrMalformedResponse = errors.New("malformed response from movie service")
	// ErrEmptyResponse means the service answered with zero results.
	ErrEmptyResponse = errors.New("movie service returned no results")
)

// HTTPStatusError is returned when the movie service answers with a non-2xx status.
type HTTPStatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("movie service returned status %d for %s", e.StatusCode, e.Endpoint)
}

type Client struct {
	baseURL       string
	imageBaseURL  string
	apiKey        string
	userAgent     string
	randomPageMax int
	httpClient    *http.Client
	logger        *logrus.Logger
	randIntN      func(n int) int
}

type ClientConfig struct {
	BaseURL       string
	ImageBaseURL  string
	APIKey        string
	Timeout       time.Duration
	UserAgent     string
	RandomPageMax int
	Logger        *logrus.Logger
	// RandIntN returns a value in [0, n). Defaults to math/rand/v2.IntN.
	RandIntN func(n int) int
}

func NewClient(apiKey string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:       tmdbAPIURL,
		ImageBaseURL:  tmdbImageURL,
		APIKey:        apiKey,
		Timeout:       defaultTimeout,
		UserAgent:     userAgent,
		RandomPageMax: randomPageMax,
		Logger:        logrus.New(),
	})
}

func NewClientWithConfig(config *ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.BaseURL == "" {
		config.BaseURL = tmdbAPIURL
	}
	if config.ImageBaseURL == "" {
		config.ImageBaseURL = tmdbImageURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = userAgent
	}
	if config.RandomPageMax < 1 {
		config.RandomPageMax = randomPageMax
	}
	if config.RandIntN == nil {
		config.RandIntN = rand.IntN
	}

	return &Client{
		baseURL:       strings.TrimRight(config.BaseURL, "/"),
		imageBaseURL:  strings.TrimRight(config.ImageBaseURL, "/"),
		apiKey:        config.APIKey,
		userAgent:     config.UserAgent,
		randomPageMax: config.RandomPageMax,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger:   config.Logger,
		randIntN: config.RandIntN,
	}
}

// ImageBaseURL is the prefix poster paths are appended to.
func (c *Client) ImageBaseURL() string {
	return c.imageBaseURL
}

// SearchMovies runs a free-text title search. Failures of any kind collapse
// into an empty result and are only logged.
func (c *Client) SearchMovies(ctx context.Context, query string) []models.Movie {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Movie{}
	}

	c.logger.WithField("query", query).Info("Searching movies...")

	params := url.Values{}
	params.Set("query", query)

	movies, err := c.fetchList(ctx, KindSearch, "/search/movie", params)
	if err != nil {
		c.logSoftFailure(KindSearch, err, logrus.Fields{"query": query})
		return []models.Movie{}
	}
	return movies
}

// FetchRecommended returns the service's popularity-sorted discovery list.
// Same soft-failure policy as SearchMovies.
func (c *Client) FetchRecommended(ctx context.Context) []models.Movie {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")

	movies, err := c.fetchList(ctx, KindRecommended, "/discover/movie", params)
	if err != nil {
		c.logSoftFailure(KindRecommended, err, nil)
		return []models.Movie{}
	}
	return movies
}

// FetchRandomPage picks a discovery page uniformly from [1, RandomPageMax].
// Unlike the other list calls it reports malformed or empty responses as
// ErrMalformedResponse / ErrEmptyResponse; callers decide what to show.
func (c *Client) FetchRandomPage(ctx context.Context) ([]models.Movie, error) {
	page := c.randIntN(c.randomPageMax) + 1

	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(page))

	c.logger.WithField("page", page).Info("Fetching random discovery page...")

	movies, err := c.fetchList(ctx, KindRandom, "/discover/movie", params)
	if err != nil {
		return nil, fmt.Errorf("random page %d: %w", page, err)
	}
	return movies, nil
}

// FetchDetails loads a single movie for the details view.
func (c *Client) FetchDetails(ctx context.Context, id int) (*models.MovieDetails, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid movie id: %d", id)
	}

	start := time.Now()
	body, err := c.makeRequest(ctx, "/movie/"+strconv.Itoa(id), url.Values{})
	if err != nil {
		metrics.RecordFetch(KindDetails, metrics.OutcomeError, time.Since(start))
		return nil, err
	}

	var details models.MovieDetails
	if err := json.Unmarshal(body, &details); err != nil || details.ID == 0 {
		metrics.RecordFetch(KindDetails, metrics.OutcomeError, time.Since(start))
		return nil, ErrMalformedResponse
	}

	metrics.RecordFetch(KindDetails, metrics.OutcomeOK, time.Since(start))
	return &details, nil
}

func (c *Client) fetchList(ctx context.Context, kind, endpoint string, params url.Values) ([]models.Movie, error) {
	start := time.Now()

	body, err := c.makeRequest(ctx, endpoint, params)
	if err != nil {
		metrics.RecordFetch(kind, metrics.OutcomeError, time.Since(start))
		return nil, err
	}

	var list models.MovieListResponse
	if err := json.Unmarshal(body, &list); err != nil || list.Results == nil {
		metrics.RecordFetch(kind, metrics.OutcomeError, time.Since(start))
		return nil, ErrMalformedResponse
	}

	if len(list.Results) == 0 {
		metrics.RecordFetch(kind, metrics.OutcomeEmpty, time.Since(start))
		return nil, ErrEmptyResponse
	}

	metrics.RecordFetch(kind, metrics.OutcomeOK, time.Since(start))
	c.logger.WithFields(logrus.Fields{
		"kind":    kind,
		"results": len(list.Results),
	}).Debug("Movie list fetched")

	return list.Results, nil
}

func (c *Client) logSoftFailure(kind string, err error, fields logrus.Fields) {
	entry := c.logger.WithField("kind", kind).WithFields(fields)
	if errors.Is(err, ErrEmptyResponse) {
		entry.Info("No results found")
		return
	}
	entry.WithError(err).Error("Error fetching movie data")
}

// makeRequest performs a single GET. The API key is added here and never
// appears in log fields or errors.
func (c *Client) makeRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := readRespBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"endpoint":      endpoint,
		"status":        resp.StatusCode,
		"response_size": len(body),
	}).Debug("API request successful")

	return body, nil
}

func readRespBody(resp *http.Response) ([]byte, error) {
	if resp.ContentLength > maxResponseSize {
		return nil, fmt.Errorf("response too large: %d bytes", resp.ContentLength)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxResponseSize {
		return nil, fmt.Errorf("response too large: exceeded %d bytes", maxResponseSize)
	}
	return body, nil
}
