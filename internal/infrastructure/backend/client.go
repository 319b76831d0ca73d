// Package backend is the HTTP client of the school REST API. Each resource
// group is exposed as a small type implementing the matching core port.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/api/metrics"
	"github.com/ecolenet/school-portal/internal/core/ports"
)

// DefaultBaseURL is the API root of a local backend.
const DefaultBaseURL = "http://localhost:8000/api/"

// maxErrorBody bounds how much of an error response is kept as payload.
const maxErrorBody = 1 << 20

// Client sends requests to the backend. It holds no per-user state besides
// its TokenSource; use WithTokens to derive a client for another session.
type Client struct {
	base   string
	http   *http.Client
	tokens ports.TokenSource
	log    zerolog.Logger
}

// New returns a client for baseURL. A nil httpClient means
// http.DefaultClient, so only the transport's own timeouts apply.
func New(baseURL string, httpClient *http.Client, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base: strings.TrimRight(u.String(), "/") + "/",
		http: httpClient,
		log:  log.With().Str("component", "backend").Logger(),
	}, nil
}

// WithTokens returns a copy of c that authenticates with src.
func (c *Client) WithTokens(src ports.TokenSource) *Client {
	cp := *c
	cp.tokens = src
	return &cp
}

func (c *Client) Auth() *Auth               { return &Auth{c: c} }
func (c *Client) Users() *Users             { return &Users{c: c} }
func (c *Client) Classes() *Classes         { return &Classes{c: c} }
func (c *Client) Subjects() *Subjects       { return &Subjects{c: c} }
func (c *Client) Assignments() *Assignments { return &Assignments{c: c} }
func (c *Client) Grades() *Grades           { return &Grades{c: c} }
func (c *Client) Attendance() *Attendance   { return &Attendance{c: c} }
func (c *Client) Bulletins() *Bulletins     { return &Bulletins{c: c} }

func (c *Client) Name() string { return "backend" }

// Ping checks that the API root answers. Any status below 500 counts as
// reachable since the root may require authentication.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.send(ctx, call{method: http.MethodGet, anon: true})
	if err == nil {
		resp.Body.Close()
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status > 0 && apiErr.Status < 500 {
		return nil
	}
	return err
}

// call describes one request. Message is the user-facing text used when the
// backend answers with an error.
type call struct {
	method  string
	path    string
	query   url.Values
	body    any
	message string
	anon    bool
}

// do sends cl and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	resp, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", cl.method, cl.path, err)
	}
	return nil
}

// send performs the request and returns the response of a 2xx answer. The
// caller owns the body.
func (c *Client) send(ctx context.Context, cl call) (*http.Response, error) {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return nil, err
	}

	resource := resourceOf(cl.path)
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(resource, cl.method, "error").Inc()
		return nil, &APIError{Message: cl.message, Err: err}
	}
	metrics.BackendRequestsTotal.WithLabelValues(resource, cl.method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{Status: resp.StatusCode, Payload: payload, Message: cl.message}
	c.log.Debug().
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", resp.StatusCode).
		Bytes("payload", payload).
		Msg("backend error response")
	return nil, apiErr
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	target := c.base + strings.TrimLeft(cl.path, "/")
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", cl.method, cl.path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if !cl.anon && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s %s: read token: %w", cl.method, cl.path, err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// resourceOf returns the first path segment, used as a metric label.
func resourceOf(path string) string {
	path = strings.TrimLeft(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + strconv.FormatInt(id, 10) + "/" + suffix
}

var (
	_ ports.Pinger             = (*Client)(nil)
	_ ports.TokenIssuer        = (*Auth)(nil)
	_ ports.UserDirectory      = (*Users)(nil)
	_ ports.ClassCatalog       = (*Classes)(nil)
	_ ports.SubjectCatalog     = (*Subjects)(nil)
	_ ports.AssignmentBook     = (*Assignments)(nil)
	_ ports.GradeBook          = (*Grades)(nil)
	_ ports.AttendanceRegister = (*Attendance)(nil)
)
