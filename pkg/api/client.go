// Package api is the typed client for the openstream backend REST API.
// The editor works against the local store and pushes changes through this
// client; element updates are fire-and-forget PATCHes drained from the
// editing session.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/openstream-dk/openstream/pkg/debug"
	"github.com/openstream-dk/openstream/pkg/model"
)

// ErrUnauthorized is returned when the backend rejects the token.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

const defaultTimeout = 15 * time.Second

// Client talks to one backend server with one token.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for the server at base (scheme + host, no trailing
// slash required).
func New(base, token string, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Slideshows lists all slideshows visible to the token's organisation.
func (c *Client) Slideshows(ctx context.Context) ([]*model.Slideshow, error) {
	var out []*model.Slideshow
	if err := c.do(ctx, http.MethodGet, "/api/slideshows/", nil, &out); err != nil {
		return nil, fmt.Errorf("listing slideshows: %w", err)
	}
	return out, nil
}

// Slideshow fetches one slideshow with its full slide data.
func (c *Client) Slideshow(ctx context.Context, id int) (*model.Slideshow, error) {
	var out model.Slideshow
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/slideshows/%d/", id), nil, &out); err != nil {
		return nil, fmt.Errorf("fetching slideshow %d: %w", id, err)
	}
	return &out, nil
}

// SaveSlideshow creates (zero ID) or replaces a slideshow on the server. On
// create the assigned id is written back.
func (c *Client) SaveSlideshow(ctx context.Context, show *model.Slideshow) error {
	if show == nil {
		return errors.New("nil slideshow")
	}
	method, path := http.MethodPost, "/api/slideshows/"
	if show.ID != 0 {
		method, path = http.MethodPut, fmt.Sprintf("/api/slideshows/%d/", show.ID)
	}
	var out model.Slideshow
	if err := c.do(ctx, method, path, show, &out); err != nil {
		return fmt.Errorf("saving slideshow %q: %w", show.Name, err)
	}
	if show.ID == 0 {
		show.ID = out.ID
	}
	return nil
}

// UpdateSlideElement pushes one element's current state to the server. The
// editor calls this per changed element after a stacking operation; failures
// are logged, not fatal, since the local store keeps the authoritative copy.
func (c *Client) UpdateSlideElement(ctx context.Context, showID, slideID int, el *model.Element) error {
	if el == nil {
		return errors.New("nil element")
	}
	path := fmt.Sprintf("/api/slideshows/%d/slides/%d/elements/%d/", showID, slideID, el.ID)
	if err := c.do(ctx, http.MethodPatch, path, el, nil); err != nil {
		return fmt.Errorf("updating element %d: %w", el.ID, err)
	}
	return nil
}

// Playlists lists the server's playlists.
func (c *Client) Playlists(ctx context.Context) ([]*model.Playlist, error) {
	var out []*model.Playlist
	if err := c.do(ctx, http.MethodGet, "/api/playlists/", nil, &out); err != nil {
		return nil, fmt.Errorf("listing playlists: %w", err)
	}
	return out, nil
}

// do performs one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	u, err := url.JoinPath(c.base, path)
	if err != nil {
		return fmt.Errorf("building url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	debug.LogTiming("api "+method+" "+path, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
