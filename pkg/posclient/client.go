package posclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

var ErrInvalidOrderID = errors.New("invalid order id")

// User is the authenticated terminal user.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Order mirrors the server's order representation. Money fields are decimal
// strings; the server owns all pricing.
type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"order_number"`
	Status      string      `json:"status"`
	Notes       *string     `json:"notes"`
	Subtotal    string      `json:"subtotal"`
	TotalAmount string      `json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Items       []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       int32           `json:"quantity"`
	UnitPrice      string          `json:"unit_price"`
	Customizations json.RawMessage `json:"customizations"`
	LineTotal      string          `json:"line_total"`
}

type loginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Client is the REST client for one terminal. Reads go through the query
// cache; mutations invalidate the keys they affect on success.
type Client struct {
	baseURL  string
	stateDir string
	http     *http.Client
	cache    *cache
	token    string
}

// New creates a client from config. The state dir is created if missing and
// a previously stored session, if any, is reloaded.
func New(cfg *Config) (*Client, error) {
	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	c := &Client{
		baseURL:  cfg.ServerURL,
		stateDir: cfg.StateDir,
		http:     &http.Client{},
		cache:    newCache(),
	}
	if data, err := os.ReadFile(filepath.Join(cfg.StateDir, "session.json")); err == nil {
		var session sessionFile
		if json.Unmarshal(data, &session) == nil {
			c.token = session.Token
		}
	}
	return c, nil
}

type sessionFile struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// SetToken installs a previously obtained access token.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current access token, empty when not logged in.
func (c *Client) Token() string {
	return c.token
}

// Login authenticates and persists the returned user to the state dir.
// A rejected login stores nothing and leaves any existing session intact.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var resp loginResponse
	err := c.do(ctx, "POST", "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.token = resp.Token

	data, err := json.MarshalIndent(resp.User, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.stateDir, "user.json"), data, 0o600); err != nil {
		return nil, fmt.Errorf("store user: %w", err)
	}

	session, err := json.MarshalIndent(sessionFile{Token: resp.Token, RefreshToken: resp.RefreshToken}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.stateDir, "session.json"), session, 0o600); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &resp.User, nil
}

// CurrentUser loads the persisted user from the state dir, nil if nobody
// has logged in on this terminal.
func (c *Client) CurrentUser() (*User, error) {
	data, err := os.ReadFile(filepath.Join(c.stateDir, "user.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read user: %w", err)
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// ListOrders returns the order list, served from cache when present.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	if data, ok := c.cache.get(cacheKeyOrders); ok {
		var orders []Order
		if err := json.Unmarshal(data, &orders); err == nil {
			return orders, nil
		}
	}

	data, err := c.doRaw(ctx, "GET", "/api/orders", nil)
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	c.cache.set(cacheKeyOrders, data)
	return orders, nil
}

// GetOrder fetches one order with items. An unusable id fails locally
// without issuing a request.
func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	if !validOrderID(id) {
		return nil, ErrInvalidOrderID
	}

	var order Order
	if err := c.do(ctx, "GET", "/api/orders/"+id, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus requests a status transition. On success the cached
// order list is invalidated so the next ListOrders refetches; on failure
// the cache is left untouched.
func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) (*Order, error) {
	if !validOrderID(id) {
		return nil, ErrInvalidOrderID
	}

	var order Order
	err := c.do(ctx, "PUT", "/api/orders/"+id+"/status", map[string]string{"status": status}, &order)
	if err != nil {
		return nil, err
	}

	c.cache.invalidate(cacheKeyOrders)
	return &order, nil
}

// StoreName returns the configured store name, cached after the first read.
func (c *Client) StoreName(ctx context.Context) (string, error) {
	if data, ok := c.cache.get(cacheKeyStoreName); ok {
		return string(data), nil
	}

	var resp struct {
		Value string `json:"value"`
	}
	if err := c.do(ctx, "GET", "/api/settings/store_name", nil, &resp); err != nil {
		return "", err
	}
	c.cache.set(cacheKeyStoreName, []byte(resp.Value))
	return resp.Value, nil
}

// --- Transport ---

// do issues a request and decodes the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	data, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot reach server: %w", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serverError(resp.StatusCode, buf.Bytes())
	}
	return buf.Bytes(), nil
}

// serverError surfaces the server's {"error": ...} message when present.
func serverError(status int, body []byte) error {
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return fmt.Errorf("server: %s (status %d)", resp.Error, status)
	}
	return fmt.Errorf("server returned status %d", status)
}

// validOrderID accepts canonical UUID strings (8-4-4-4-12 hex).
func validOrderID(id string) bool {
	if len(id) != 36 {
		return false
	}
	for i, r := range id {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return false
			}
		default:
			isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
			if !isHex {
				return false
			}
		}
	}
	return true
}
