// Package client talks to a running relay: the JSON API for rooms and
// accounts, and websocket sessions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"room-relay/domain"
	"strings"
	"time"
)

type Room struct {
	RoomKey   domain.RoomKey `json:"roomKey"`
	RoomName  string         `json:"roomName"`
	CreatedAt time.Time      `json:"createdAt"`
}

// APIError is a non 2xx answer of the relay.
type APIError struct {
	Status  int
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("relay answered %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

// New accepts a bare host:port or a full http(s) URL.
func New(addr, token string) (*Client, error) {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid relay address: %w", err)
	}
	return &Client{baseURL: u, token: token, http: &http.Client{Timeout: 10 * time.Second}}, nil
}

func (c *Client) CreateRoom(ctx context.Context, name string) (Room, error) {
	var room Room
	err := c.do(ctx, http.MethodPost, "/rooms", map[string]string{"name": name}, &room)
	return room, err
}

func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	var rooms []Room
	err := c.do(ctx, http.MethodGet, "/rooms", nil, &rooms)
	return rooms, err
}

func (c *Client) DeleteRoom(ctx context.Context, key domain.RoomKey) error {
	return c.do(ctx, http.MethodDelete, "/rooms/"+url.PathEscape(string(key)), nil, nil)
}

func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	return c.credentials(ctx, "/register", username, password)
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	return c.credentials(ctx, "/login", username, password)
}

func (c *Client) credentials(ctx context.Context, path, username, password string) (string, error) {
	var res struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, path, map[string]string{"username": username, "password": password}, &res)
	return res.Token, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to relay failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: res.StatusCode}
		data, _ := io.ReadAll(res.Body)
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
