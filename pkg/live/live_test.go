package live_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/openstream-dk/openstream/pkg/live"
	"github.com/openstream-dk/openstream/pkg/model"
)

var upgrader = websocket.Upgrader{}

type authFrame struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// server runs handler for each websocket connection and returns a ws:// URL.
func server(t *testing.T, handler func(*websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// expectAuth reads the authenticate frame and confirms it.
func expectAuth(t *testing.T, conn *websocket.Conn, wantToken string) {
	t.Helper()
	var f authFrame
	if err := conn.ReadJSON(&f); err != nil {
		t.Errorf("reading auth frame: %v", err)
		return
	}
	if f.Type != "authenticate" || f.Token != wantToken {
		t.Errorf("auth frame = %+v", f)
	}
	conn.WriteJSON(map[string]string{"type": "authenticated"})
}

func TestDial_AuthenticatesFirst(t *testing.T) {
	url := server(t, func(conn *websocket.Conn) {
		expectAuth(t, conn, "secret")
	})

	c, err := live.Dial(context.Background(), url, "secret")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Run(ctx)
}

func TestDial_RejectedToken(t *testing.T) {
	url := server(t, func(conn *websocket.Conn) {
		var f authFrame
		conn.ReadJSON(&f)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(live.CloseInvalidToken, "bad token"),
			time.Now().Add(time.Second))
	})

	if _, err := live.Dial(context.Background(), url, "wrong"); !errors.Is(err, live.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRun_DeliversSlideshowFrames(t *testing.T) {
	url := server(t, func(conn *websocket.Conn) {
		expectAuth(t, conn, "t")
		conn.WriteJSON(map[string]any{
			"type":      live.FrameCurrentSlideshow,
			"slideshow": model.Slideshow{ID: 3, Name: "lobby"},
		})
		conn.WriteJSON(map[string]string{"type": "ping"})
		conn.WriteJSON(map[string]any{
			"type":      live.FrameSlideshowUpdated,
			"slideshow": model.Slideshow{ID: 3, Name: "lobby v2"},
		})
		// Hold the connection open until the client hangs up.
		conn.ReadMessage()
	})

	c, err := live.Dial(context.Background(), url, "t")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	first := <-c.Updates()
	if first.Type != live.FrameCurrentSlideshow || first.Slideshow == nil || first.Slideshow.ID != 3 {
		t.Fatalf("first update = %+v", first)
	}
	second := <-c.Updates()
	if second.Type != live.FrameSlideshowUpdated || second.Slideshow.Name != "lobby v2" {
		t.Fatalf("second update = %+v", second)
	}

	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run returned %v", err)
	}
}

func TestRun_CloseCodeSurfaced(t *testing.T) {
	url := server(t, func(conn *websocket.Conn) {
		expectAuth(t, conn, "t")
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(live.CloseReplaced, "newer connection"),
			time.Now().Add(time.Second))
	})

	c, err := live.Dial(context.Background(), url, "t")
	if err != nil {
		t.Fatal(err)
	}
	err = c.Run(context.Background())
	if !errors.Is(err, live.ErrReplaced) {
		t.Errorf("err = %v, want ErrReplaced", err)
	}
}

func TestDecodeSlideshow(t *testing.T) {
	show, err := live.DecodeSlideshow([]byte(`{"id":9,"name":"menu","slides":[{"id":1,"elements":[{"id":1,"zIndex":2}]}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if show.ID != 9 || show.Slides[0].Elements[0].ZIndex != 2 {
		t.Errorf("decoded %+v", show)
	}
}
