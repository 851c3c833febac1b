package account

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
)

const defaultTimeout = 8 * time.Second

// Sentinel errors mapped from the statuses the site reacts to specifically.
var (
	ErrEmailTaken   = errors.New("account: email already registered")
	ErrTrialExists  = errors.New("account: trial license already provisioned")
	ErrBadRequest   = errors.New("account: malformed request")
	ErrUnauthorized = errors.New("account: invalid credentials")
	ErrNotFound     = errors.New("account: not found")
	ErrServer       = errors.New("account: server error")
)

// Client issues calls against the remote account API. It is a thin wrapper:
// no retries, no local business state; every non-2xx on a plain fetch
// collapses to "no data".
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs an API client. When baseURL is empty, read calls serve
// demo data so the site stays browsable without a backend.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// SetTimeout overrides the default request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

// fetchJSON issues an optionally authenticated GET. Any non-2xx status
// returns (nil, nil): the dashboards degrade to cached snapshots instead of
// failing the page.
func (c *Client) fetchJSON(ctx context.Context, path, token string) (json.RawMessage, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, body any) (*http.Response, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.http.Do(req)
}

// Cities lists registration cities. Callers render a placeholder option on
// any error.
func (c *Client) Cities(ctx context.Context) ([]City, error) {
	if c == nil || c.baseURL == "" {
		return fakeCities(), nil
	}
	raw, err := c.fetchJSON(ctx, "cities/", "")
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("account: cities unavailable")
	}
	var env struct {
		Data struct {
			Cities []City `json:"cities"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	out := make([]City, 0, len(env.Data.Cities))
	for _, city := range env.Data.Cities {
		if city.ID == "" || strings.TrimSpace(city.Name) == "" {
			continue
		}
		out = append(out, city)
	}
	return out, nil
}

// Register submits the shop-registration payload. A 409 maps to
// ErrEmailTaken; every other non-2xx is a generic error.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	if c == nil || c.baseURL == "" {
		return fakeAuthResult(strings.TrimSpace(reg.Name), strings.TrimSpace(reg.ShopName)), nil
	}
	resp, err := c.postJSON(ctx, "shop-registration/register", "", reg.payload())
	if err != nil {
		return AuthResult{}, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusConflict:
		return AuthResult{}, ErrEmailTaken
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return AuthResult{}, fmt.Errorf("account: register status %d: %s", resp.StatusCode, drainError(resp.Body))
	}
	return decodeAuthResult(resp.Body)
}

// Login authenticates by phone and password. 400/401/404 map to their own
// sentinels so the form can show distinct messages.
func (c *Client) Login(ctx context.Context, phone, password string) (AuthResult, error) {
	if c == nil || c.baseURL == "" {
		return fakeAuthResult("", ""), nil
	}
	body := map[string]string{
		"phone":    strings.TrimSpace(phone),
		"password": password,
	}
	resp, err := c.postJSON(ctx, "auth/login", "", body)
	if err != nil {
		return AuthResult{}, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return AuthResult{}, ErrBadRequest
	case http.StatusUnauthorized:
		return AuthResult{}, ErrUnauthorized
	case http.StatusNotFound:
		return AuthResult{}, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return AuthResult{}, fmt.Errorf("%w: login status %d: %s", ErrServer, resp.StatusCode, drainError(resp.Body))
	}
	return decodeAuthResult(resp.Body)
}

// Profile fetches the live user record; (nil, nil) when the API had nothing.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	if c == nil || c.baseURL == "" {
		return fakeUser(), nil
	}
	raw, err := c.fetchJSON(ctx, "users/profile", token)
	if err != nil || raw == nil {
		return nil, err
	}
	return decodeUser(raw), nil
}

// Shops fetches the full shop list visible to the token. Ownership filtering
// happens in the reconciliation layer.
func (c *Client) Shops(ctx context.Context, token string) ([]Shop, error) {
	if c == nil || c.baseURL == "" {
		return fakeShops(), nil
	}
	raw, err := c.fetchJSON(ctx, "shops/", token)
	if err != nil || raw == nil {
		return nil, err
	}
	items := normalizeShopList(raw)
	shops := make([]Shop, 0, len(items))
	for _, item := range items {
		var s Shop
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		shops = append(shops, s)
	}
	return shops, nil
}

// Licenses fetches this user's licenses through the tolerant list envelope.
func (c *Client) Licenses(ctx context.Context, token string) ([]License, error) {
	if c == nil || c.baseURL == "" {
		return fakeLicenses(), nil
	}
	raw, err := c.fetchJSON(ctx, "licenses/my", token)
	if err != nil || raw == nil {
		return nil, err
	}
	items := NormalizeList(raw)
	licenses := make([]License, 0, len(items))
	for _, item := range items {
		var l License
		if err := json.Unmarshal(item, &l); err != nil {
			continue
		}
		licenses = append(licenses, l)
	}
	return licenses, nil
}

// CreateTrial provisions the one-time trial license for a shop. A 409 maps
// to ErrTrialExists. The raw data payload is returned for session caching.
func (c *Client) CreateTrial(ctx context.Context, token, shopID string) (json.RawMessage, error) {
	if c == nil || c.baseURL == "" {
		return fakeTrialPayload(shopID), nil
	}
	resp, err := c.postJSON(ctx, "licenses/trial", token, map[string]string{"shopId": shopID})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		return nil, ErrTrialExists
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("account: trial status %d: %s", resp.StatusCode, drainError(resp.Body))
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func decodeAuthResult(r io.Reader) (AuthResult, error) {
	var env struct {
		Data struct {
			Token string `json:"token"`
			User  *User  `json:"user"`
			Shop  *struct {
				ID   FlexID `json:"id"`
				Name string `json:"name"`
			} `json:"shop"`
		} `json:"data"`
	}
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return AuthResult{}, err
	}
	out := AuthResult{
		Token: env.Data.Token,
		User:  env.Data.User,
	}
	if env.Data.Shop != nil {
		out.ShopID = env.Data.Shop.ID.String()
		out.ShopName = env.Data.Shop.Name
	}
	return out, nil
}

// decodeUser unwraps the profile envelopes seen in the wild: `data.user`,
// `data`, `user`, or a bare record.
func decodeUser(raw json.RawMessage) *User {
	var env struct {
		Data json.RawMessage `json:"data"`
		User *User           `json:"user"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	if len(env.Data) > 0 {
		var inner struct {
			User *User `json:"user"`
		}
		if err := json.Unmarshal(env.Data, &inner); err == nil && inner.User != nil && inner.User.ID != "" {
			return inner.User
		}
		var u User
		if err := json.Unmarshal(env.Data, &u); err == nil && u.ID != "" {
			return &u
		}
	}
	if env.User != nil && env.User.ID != "" {
		return env.User
	}
	var u User
	if err := json.Unmarshal(raw, &u); err == nil && u.ID != "" {
		return &u
	}
	return nil
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
