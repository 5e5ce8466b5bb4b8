package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/common"
	"github.com/dmitrijs2005/gophaccount/internal/logging"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultTimeout        = 15 * time.Second
	DefaultRetryBaseDelay = 200 * time.Millisecond

	maxBodySize = 1 << 20
)

// Options tunes a RESTClient. A zero Timeout or RetryBaseDelay falls back to
// its default. A zero MaxRetries disables retries.
type Options struct {
	Timeout        time.Duration
	MaxRetries     uint64
	RetryBaseDelay time.Duration
	HTTPClient     *http.Client
	Logger         logging.Logger
}

// RESTClient talks JSON over HTTP to the account backend.
type RESTClient struct {
	baseURL    string
	http       *http.Client
	timeout    time.Duration
	maxRetries uint64
	retryBase  time.Duration
	log        logging.Logger
}

var _ Client = (*RESTClient)(nil)

func NewRESTClient(baseURL string, opts Options) (*RESTClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	c := &RESTClient{
		baseURL:    baseURL,
		http:       opts.HTTPClient,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		retryBase:  opts.RetryBaseDelay,
		log:        opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.retryBase <= 0 {
		c.retryBase = DefaultRetryBaseDelay
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	return c, nil
}

func (c *RESTClient) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/users/", "", req, nil)
}

func (c *RESTClient) VerifyAccount(ctx context.Context, req models.VerifyRequest) error {
	return c.do(ctx, http.MethodPost, "/users/verify-account", "", req, nil)
}

func (c *RESTClient) ResendVerification(ctx context.Context, phone string) error {
	return c.do(ctx, http.MethodPost, "/users/resend-verification", "", models.PhoneRequest{PhoneNumber: phone}, nil)
}

func (c *RESTClient) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var resp models.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/users/login", "", req, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("%w: login response carries no access token", ErrServer)
	}
	return resp.AccessToken, nil
}

func (c *RESTClient) ForgotPassword(ctx context.Context, phone string) error {
	return c.do(ctx, http.MethodPost, "/users/forgot-password", "", models.PhoneRequest{PhoneNumber: phone}, nil)
}

func (c *RESTClient) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/users/reset-password", "", req, nil)
}

func (c *RESTClient) Me(ctx context.Context, token string) (*models.Account, error) {
	var acc models.Account
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *RESTClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/users/logout", token, nil, nil)
}

func (c *RESTClient) ChangePassword(ctx context.Context, token string, req models.ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/users/change-password", token, req, nil)
}

func (c *RESTClient) UpdateProfile(ctx context.Context, token string, userID int64, upd models.ProfileUpdate) error {
	return c.do(ctx, http.MethodPut, "/users/"+strconv.FormatInt(userID, 10), token, upd, nil)
}

func (c *RESTClient) ListRoles(ctx context.Context, token string) ([]models.Role, error) {
	var roles []models.Role
	if err := c.do(ctx, http.MethodGet, "/users/roles", token, nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *RESTClient) CreateRole(ctx context.Context, token string, in models.RoleInput) (*models.Role, error) {
	var r models.Role
	if err := c.do(ctx, http.MethodPost, "/users/roles", token, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *RESTClient) UpdateRole(ctx context.Context, token string, roleID int64, in models.RoleInput) (*models.Role, error) {
	var r models.Role
	if err := c.do(ctx, http.MethodPut, "/users/roles/"+strconv.FormatInt(roleID, 10), token, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *RESTClient) AssignRoles(ctx context.Context, token string, userID int64, roleIDs []int64) error {
	return c.do(ctx, http.MethodPost, rolesPath(userID), token, models.RoleAssignment{RoleIDs: roleIDs}, nil)
}

func (c *RESTClient) RemoveRoles(ctx context.Context, token string, userID int64, roleIDs []int64) error {
	return c.do(ctx, http.MethodDelete, rolesPath(userID), token, models.RoleAssignment{RoleIDs: roleIDs}, nil)
}

func rolesPath(userID int64) string {
	return "/users/" + strconv.FormatInt(userID, 10) + "/roles"
}

// do sends one logical call. GET calls are retried with exponential backoff
// while they fail with ErrUnavailable or ErrServer; anything else is sent once.
func (c *RESTClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = b
	}

	requestID := uuid.NewString()

	if method != http.MethodGet || c.maxRetries == 0 {
		return c.attempt(ctx, method, path, token, requestID, 1, body, out)
	}

	attempt := 0
	b := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := c.attempt(ctx, method, path, token, requestID, attempt, body, out)
		if Retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *RESTClient) attempt(ctx context.Context, method, path, token, requestID string, attempt int, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "attempt", attempt,
			"request_id", requestID, "error", err)
		if errors.Is(ctx.Err(), context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", ErrUnavailable, method, path, err)
	}

	c.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode,
		"attempt", attempt, "request_id", requestID, "elapsed", time.Since(start))

	if classify(resp.StatusCode) != nil {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: %s %s returned an empty body", ErrServer, method, path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrServer, method, path, err)
	}
	return nil
}
