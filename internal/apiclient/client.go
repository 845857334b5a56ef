// Package apiclient talks to the remote employee management API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hrportal/internal/entity"
	"hrportal/internal/entity/dto"

	"github.com/sirupsen/logrus"
)

const (
	PathLogin = "/api/login"
	PathAuth  = "/api/auth"

	maxErrorBody = 4 << 10
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status from api")
	ErrMissingToken     = errors.New("bearer token is empty")
)

// StatusError is returned when the API answers with a status the operation
// does not accept.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.Path, e.StatusCode, logSnippet(e.Body))
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// ObserveFunc receives one call per API request, after it completes. status
// is 0 when no response was received.
type ObserveFunc func(method, path string, status int, elapsed time.Duration)

// Client is a thin JSON client for the three endpoints the portal uses.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observe    ObserveFunc
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithObserver registers a callback for request metrics.
func WithObserver(fn ObserveFunc) Option {
	return func(c *Client) { c.observe = fn }
}

// New creates a client rooted at baseURL. timeout bounds every request.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("api base url must not be empty")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http(s), got %q", base)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Login posts credentials. Only HTTP 200 counts as success.
func (c *Client) Login(ctx context.Context, creds entity.Credentials) (*dto.LoginResponse, error) {
	body := dto.LoginRequest{
		Email:    creds.Email,
		Password: creds.Password,
	}
	var out dto.LoginResponse
	status, err := c.do(ctx, http.MethodPost, PathLogin, "", body, &out)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{Method: http.MethodPost, Path: PathLogin, StatusCode: status}
	}
	if strings.TrimSpace(out.Token) == "" {
		return nil, errors.New("login response has no token")
	}
	return &out, nil
}

// CreateEmployee posts an invite authorized by the admin session token.
func (c *Client) CreateEmployee(ctx context.Context, sessionToken string, invite entity.EmployeeInvite) error {
	if strings.TrimSpace(sessionToken) == "" {
		return ErrMissingToken
	}
	body := dto.CreateEmployeeRequest{
		Email:      invite.Email,
		RoleID:     int(invite.Role),
		BaseSalary: invite.BaseSalary,
		DaySalary:  invite.DaySalary,
	}
	_, err := c.do(ctx, http.MethodPost, PathAuth, sessionToken, body, nil)
	return err
}

// CompleteRegistration patches the invitee's details, authorized by the
// invitation token. It returns the 2xx status the API answered with.
func (c *Client) CompleteRegistration(ctx context.Context, inviteToken string, reg entity.RegistrationCompletion) (int, error) {
	if strings.TrimSpace(inviteToken) == "" {
		return 0, ErrMissingToken
	}
	body := dto.CompleteRegistrationRequest{
		Fullname: reg.Fullname,
		Birthday: reg.Birthday,
		Username: reg.Username,
		Password: reg.Password,
	}
	return c.do(ctx, http.MethodPatch, PathAuth, inviteToken, body, nil)
}

// do sends a JSON request and decodes a 2xx JSON response into out when out
// is not nil. Non-2xx responses become *StatusError.
func (c *Client) do(ctx context.Context, method, path, bearer string, body any, out any) (status int, err error) {
	logger := requestLogger(ctx, method, path)
	start := time.Now()
	defer func() {
		if c.observe != nil {
			c.observe(method, path, status, time.Since(start))
		}
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithError(err).Warn("api_request_failed")
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if status < 200 || status > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.WithFields(logrus.Fields{
			"status":   status,
			"body":     logSnippet(string(raw)),
			"duration": time.Since(start).String(),
		}).Warn("api_request_rejected")
		return status, &StatusError{Method: method, Path: path, StatusCode: status, Body: string(raw)}
	}

	logger.WithFields(logrus.Fields{
		"status":   status,
		"duration": time.Since(start).String(),
	}).Info("api_request")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return status, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return status, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return status, nil
}
