// Package api is a thin HTTP client for the authd REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmatveev/authd/internal/common"
)

// User mirrors the server's account representation.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

// Client talks to one authd server. Token holds the session token obtained
// from Verify and is attached to authenticated requests.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken stores the session token for subsequent authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// LoggedIn reports whether a session token is present.
func (c *Client) LoggedIn() bool { return c.token != "" }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(common.AuthHeaderName, common.AuthSchemePrefix+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error == "" {
			payload.Error = resp.Status
		}
		return fmt.Errorf("server: %s", payload.Error)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) SignUp(ctx context.Context, email, username, fullName, password string) (*User, error) {
	var u User
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email":     email,
		"username":  username,
		"full_name": fullName,
		"password":  password,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
}

// Verify exchanges the emailed code for a session token and stores it on
// the client.
func (c *Client) Verify(ctx context.Context, email, code string) error {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/verify", map[string]string{
		"email": email,
		"code":  code,
	}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

func (c *Client) Resend(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/resend", map[string]string{
		"email": email,
	}, nil)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
