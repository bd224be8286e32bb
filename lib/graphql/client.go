// Package graphql provides a thin client for the GitLab GraphQL API and a
// cursor-based pagination engine on top of it. Unlike the REST tools, which
// go through typed client-go calls, this package works with raw JSON bodies
// so callers can run arbitrary queries.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"gitlab.com/akervel/gitlab-mcp/lib/models"
)

// Errors returned before a request is sent.
var (
	ErrEmptyQuery   = errors.New("query must not be empty")
	ErrQuerySyntax  = errors.New("query failed validation")
	ErrHTTPStatus   = errors.New("unexpected HTTP status")
	ErrDecodeFailed = errors.New("cannot decode GraphQL response body")
)

const (
	defaultTimeout = 30 * time.Second
	graphqlPath    = "/api/graphql"
)

// Executor runs a single GraphQL request. The pagination engine depends on
// this interface rather than on Client so tests can substitute a fake.
type Executor interface {
	Execute(ctx context.Context, query string, variables map[string]any) (*models.GraphQLResponse, error)
}

// Client posts queries to a GitLab instance's GraphQL endpoint.
type Client struct {
	endpoint string
	token    string
	http     *retryablehttp.Client
	log      logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger replaces the client's logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// WithRetryMax sets the number of HTTP retries.
func WithRetryMax(n int) Option {
	return func(c *Client) { c.http.RetryMax = n }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.HTTPClient.Timeout = d }
}

// NewClient returns a client for the instance at baseURL, e.g.
// "https://gitlab.com". The token is sent as a bearer token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	hc := retryablehttp.NewClient()
	hc.Logger = nil
	hc.HTTPClient.Timeout = defaultTimeout

	c := &Client{
		endpoint: strings.TrimSuffix(baseURL, "/") + graphqlPath,
		token:    token,
		http:     hc,
		log:      logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Execute validates and runs a single query, returning the decoded body.
// GraphQL-level errors do not produce a Go error; they are carried in the
// response so callers can treat partial data as data.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (*models.GraphQLResponse, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	c.log.WithField("endpoint", c.endpoint).Debug("executing GraphQL query")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting query: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	var out models.GraphQLResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	if err := json.Unmarshal(body, &out.Raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	return &out, nil
}

// ValidateQuery performs the cheap structural checks done before any
// network traffic: the query must be non-empty, contain an operation
// keyword or shorthand selection set, and have balanced braces.
func ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return ErrEmptyQuery
	}

	lower := strings.ToLower(trimmed)
	hasKeyword := strings.Contains(lower, "query") ||
		strings.Contains(lower, "mutation") ||
		strings.Contains(lower, "subscription") ||
		strings.HasPrefix(trimmed, "{")
	if !hasKeyword {
		return fmt.Errorf("%w: no operation keyword", ErrQuerySyntax)
	}

	depth := 0
	for _, r := range trimmed {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unbalanced braces", ErrQuerySyntax)
			}
		}
	}

	if depth != 0 {
		return fmt.Errorf("%w: unbalanced braces", ErrQuerySyntax)
	}

	return nil
}
