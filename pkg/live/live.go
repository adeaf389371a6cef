// Package live subscribes to the backend's slideshow update channel over
// websocket. The protocol is authenticate-first: the server expects an
// authenticate frame within five seconds of the connection opening and
// closes with an application close code otherwise.
package live

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/openstream-dk/openstream/pkg/debug"
	"github.com/openstream-dk/openstream/pkg/model"
)

// Application close codes used by the backend.
const (
	CloseAuthTimeout   = 4001
	CloseInvalidToken  = 4002
	CloseNotAuthorized = 4003
	CloseUnknownTarget = 4004
	CloseReplaced      = 4005
)

// Typed errors for the backend's close codes.
var (
	ErrAuthTimeout   = errors.New("authentication timed out")
	ErrInvalidToken  = errors.New("invalid token")
	ErrNotAuthorized = errors.New("not authorized for this channel")
	ErrUnknownTarget = errors.New("unknown display or slideshow")
	ErrReplaced      = errors.New("connection replaced")
)

// authWindow mirrors the server's authentication deadline.
const authWindow = 5 * time.Second

// Frame types sent by the server after authentication.
const (
	FrameCurrentSlideshow = "current_slideshow"
	FrameSlideshowUpdated = "slideshow_updated"
)

// Update is one decoded server frame.
type Update struct {
	Type      string           `json:"type"`
	Slideshow *model.Slideshow `json:"slideshow,omitempty"`
}

type frame struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
}

// Client is one authenticated websocket subscription.
type Client struct {
	conn    *websocket.Conn
	updates chan Update
}

// Dial connects to url, authenticates with token and returns a ready client.
// The handshake fails if the server does not confirm within the auth window.
func Dial(ctx context.Context, url, token string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	if err := authenticate(conn, token); err != nil {
		conn.Close()
		return nil, err
	}
	debug.Log("live: authenticated on %s", url)
	return &Client{conn: conn, updates: make(chan Update, 4)}, nil
}

func authenticate(conn *websocket.Conn, token string) error {
	deadline := time.Now().Add(authWindow)
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := conn.WriteJSON(frame{Type: "authenticate", Token: token}); err != nil {
		return fmt.Errorf("sending authenticate: %w", err)
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return err
	}
	var resp frame
	if err := conn.ReadJSON(&resp); err != nil {
		return fmt.Errorf("waiting for authentication: %w", closeError(err))
	}
	if resp.Type != "authenticated" {
		return fmt.Errorf("unexpected handshake frame %q: %w", resp.Type, ErrInvalidToken)
	}
	return conn.SetReadDeadline(time.Time{})
}

// Updates delivers decoded server frames while Run is active.
func (c *Client) Updates() <-chan Update {
	return c.updates
}

// Run reads frames until the context is cancelled or the connection drops.
// It owns the connection: when Run returns the connection is closed and the
// updates channel is drained-safe (closed).
func (c *Client) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.conn.Close()
		return ctx.Err()
	})

	g.Go(func() error {
		defer close(c.updates)
		for {
			var u Update
			if err := c.conn.ReadJSON(&u); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("reading update: %w", closeError(err))
			}
			switch u.Type {
			case FrameCurrentSlideshow, FrameSlideshowUpdated:
				select {
				case c.updates <- u:
				case <-ctx.Done():
					return ctx.Err()
				}
			default:
				debug.Log("live: ignoring frame type %q", u.Type)
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// closeError maps the backend's application close codes to typed errors.
func closeError(err error) error {
	var ce *websocket.CloseError
	if !errors.As(err, &ce) {
		return err
	}
	switch ce.Code {
	case CloseAuthTimeout:
		return ErrAuthTimeout
	case CloseInvalidToken:
		return ErrInvalidToken
	case CloseNotAuthorized:
		return ErrNotAuthorized
	case CloseUnknownTarget:
		return ErrUnknownTarget
	case CloseReplaced:
		return ErrReplaced
	}
	return err
}

// DecodeSlideshow decodes a raw slideshow payload from a frame, used by
// callers that receive frames through other transports.
func DecodeSlideshow(data []byte) (*model.Slideshow, error) {
	var show model.Slideshow
	if err := json.Unmarshal(data, &show); err != nil {
		return nil, fmt.Errorf("decoding slideshow payload: %w", err)
	}
	return &show, nil
}
