// Package api implements the HTTP client for the VitaBuddy backend. It owns
// the token pair and transparently refreshes an expired access token once
// before giving up on a request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetTokens installs a token pair, e.g. after login.
func (c *Client) SetTokens(accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
}

// ClearTokens drops the session, e.g. after logout.
func (c *Client) ClearTokens() {
	c.SetTokens("", "")
}

func (c *Client) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// do sends one JSON request. On 401 with a refresh token at hand it rotates
// the pair and retries the request once.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	status, err := c.doOnce(ctx, method, path, body, out)
	if err == nil || status != http.StatusUnauthorized {
		return err
	}

	_, refreshToken := c.tokens()
	if refreshToken == "" {
		return err
	}

	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		return err
	}

	_, err = c.doOnce(ctx, method, path, body, out)
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("error encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	accessToken, _ := c.tokens()
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp.StatusCode, c.mapError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("error decoding response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

func (c *Client) mapError(resp *http.Response) error {
	var er errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)

	detail := er.Details
	if detail == "" {
		detail = er.Error
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrValidation, detail)
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrAlreadyExists
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, detail)
	}
}

func (c *Client) Register(ctx context.Context, email string, password []byte, name string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register",
		registerRequest{Email: email, Password: string(password), Name: name}, &result)
	if err != nil {
		return nil, err
	}
	c.SetTokens(result.AccessToken, result.RefreshToken)
	return &result, nil
}

func (c *Client) Login(ctx context.Context, email string, password []byte) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		loginRequest{Email: email, Password: string(password)}, &result)
	if err != nil {
		return nil, err
	}
	c.SetTokens(result.AccessToken, result.RefreshToken)
	return &result, nil
}

// Refresh rotates the token pair using the stored refresh token.
func (c *Client) Refresh(ctx context.Context) error {
	_, refreshToken := c.tokens()

	var pair TokenPair
	_, err := c.doOnce(ctx, http.MethodPost, "/api/auth/refresh",
		refreshRequest{RefreshToken: refreshToken}, &pair)
	if err != nil {
		return err
	}

	c.SetTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, refreshToken := c.tokens()
	err := c.do(ctx, http.MethodPost, "/api/auth/logout",
		refreshRequest{RefreshToken: refreshToken}, nil)
	c.ClearTokens()
	return err
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) MarkWelcomeSeen(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/profile/welcome-seen", nil, nil)
}

func (c *Client) ListActivities(ctx context.Context) ([]Activity, error) {
	var list []Activity
	if err := c.do(ctx, http.MethodGet, "/api/activities", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateActivity(ctx context.Context, description string, date *time.Time) (*Activity, error) {
	var activity Activity
	err := c.do(ctx, http.MethodPost, "/api/activities",
		activityRequest{Description: description, Date: date}, &activity)
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (c *Client) UpdateActivity(ctx context.Context, id string, description string, date *time.Time) (*Activity, error) {
	var activity Activity
	err := c.do(ctx, http.MethodPut, "/api/activities/"+url.PathEscape(id),
		activityRequest{Description: description, Date: date}, &activity)
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (c *Client) DeleteActivity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/activities/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ActivityStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/api/activities/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) ListGoals(ctx context.Context) ([]Goal, error) {
	var list []Goal
	if err := c.do(ctx, http.MethodGet, "/api/goals", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateGoal(ctx context.Context, goal string) (*Goal, error) {
	var created Goal
	if err := c.do(ctx, http.MethodPost, "/api/goals", goalRequest{GoalText: goal}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateGoal(ctx context.Context, id string, goal string) (*Goal, error) {
	var updated Goal
	err := c.do(ctx, http.MethodPut, "/api/goals/"+url.PathEscape(id), goalRequest{GoalText: goal}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/goals/"+url.PathEscape(id), nil, nil)
}

func (c *Client) GetReminders(ctx context.Context) (string, error) {
	var payload remindersPayload
	if err := c.do(ctx, http.MethodGet, "/api/reminders", nil, &payload); err != nil {
		return "", err
	}
	return payload.Reminders, nil
}

func (c *Client) SaveReminders(ctx context.Context, reminders string) error {
	return c.do(ctx, http.MethodPost, "/api/reminders", remindersPayload{Reminders: reminders}, nil)
}

// Chat sends one message to the assistant. systemPrompt may be empty to use
// the server default.
// Chat sends one message to the assistant. Ephemeral exchanges (the sign-in
// welcome) are answered but not stored as history.
func (c *Client) Chat(ctx context.Context, message string, systemPrompt string, ephemeral bool) (string, error) {
	var resp chatResponse
	err := c.do(ctx, http.MethodPost, "/api/chat",
		chatRequest{Message: message, SystemPrompt: systemPrompt, Ephemeral: ephemeral}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ChatHistory returns up to limit recent exchanges, newest first.
func (c *Client) ChatHistory(ctx context.Context, limit int) ([]ChatExchange, error) {
	path := "/api/chat/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var history []ChatExchange
	if err := c.do(ctx, http.MethodGet, path, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Ping probes the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}
