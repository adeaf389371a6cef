package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openstream-dk/openstream/internal/store"
	"github.com/openstream-dk/openstream/pkg/api"
	"github.com/openstream-dk/openstream/pkg/config"
	"github.com/openstream-dk/openstream/pkg/debug"
	"github.com/openstream-dk/openstream/pkg/editor"
	"github.com/openstream-dk/openstream/pkg/export"
	"github.com/openstream-dk/openstream/pkg/live"
	"github.com/openstream-dk/openstream/pkg/model"
	"github.com/openstream-dk/openstream/pkg/ui"
	"github.com/openstream-dk/openstream/pkg/version"
	"github.com/openstream-dk/openstream/pkg/zorder"
)

func main() {
	dbPath := flag.String("db", "", "Path to the local slideshow database (default: XDG data dir)")
	server := flag.String("server", "", "Backend server URL (overrides config)")
	slideshowID := flag.Int("slideshow", 0, "Slideshow id to open")
	favorite := flag.Int("fav", 0, "Open the slideshow bound to favorite number 1-9")
	exportSVG := flag.String("export-svg", "", "Render the slideshow's first slide to an SVG file and exit")
	exportPNG := flag.String("export-png", "", "Render the slideshow's first slide to a PNG file and exit")
	slideIdx := flag.Int("slide", 0, "Slide index for export modes")
	subOrg := flag.Bool("suborg", false, "Edit in suborganisation mode (honor parent-template locks)")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *help {
		fmt.Println("Usage: osedit [options]")
		fmt.Println("\nA terminal editor for openstream slideshows.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("osedit %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults.
		cfg = config.DefaultConfig()
	}
	if *server != "" {
		cfg.Server.URL = *server
	}
	if *subOrg {
		cfg.Editor.SubOrgMode = true
	}

	st, err := openStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	id := *slideshowID
	if id == 0 && *favorite != 0 {
		id, err = favoriteID(st, cfg, *favorite)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving favorite %d: %v\n", *favorite, err)
			os.Exit(1)
		}
	}

	show, err := loadSlideshow(st, cfg, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading slideshow: %v\n", err)
		os.Exit(1)
	}

	opts := zorder.Options{SubOrgMode: cfg.Editor.SubOrgMode}

	if *exportSVG != "" || *exportPNG != "" {
		if err := runExport(show, *slideIdx, *exportSVG, *exportPNG, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	session := editor.New(show, opts)
	session.SetHistoryLimit(cfg.Editor.HistorySize)
	m := ui.New(session, cfg.UI)
	m.OnChange = changeSink(st, cfg, show)

	if err := runTUIProgram(m, cfg, show.ID); err != nil {
		fmt.Fprintf(os.Stderr, "Error running editor: %v\n", err)
		os.Exit(1)
	}

	if err := st.SaveSlideshow(show); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving slideshow: %v\n", err)
		os.Exit(1)
	}
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		dir := config.DataDir()
		if dir == "" {
			return nil, errors.New("cannot determine data directory; pass --db")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "osedit.db")
	}
	return store.Open(path)
}

// loadSlideshow opens the requested slideshow, preferring the local store and
// falling back to the backend when configured. With no id it opens the most
// recently updated local slideshow, creating an empty one on first run.
func loadSlideshow(st *store.Store, cfg config.Config, id int) (*model.Slideshow, error) {
	if id != 0 {
		show, err := st.Slideshow(id)
		if err == nil {
			return show, nil
		}
		if !errors.Is(err, store.ErrNotFound) || cfg.Server.URL == "" {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		show, err = api.New(cfg.Server.URL, cfg.Server.Token).Slideshow(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := st.SaveSlideshow(show); err != nil {
			return nil, err
		}
		return show, nil
	}

	shows, err := st.Slideshows()
	if err != nil {
		return nil, err
	}
	if len(shows) == 0 {
		show := model.NewSlideshow("untitled")
		show.Slides = []*model.Slide{{ID: 1, Name: "slide 1"}}
		if err := st.SaveSlideshow(show); err != nil {
			return nil, err
		}
		return show, nil
	}
	return st.Slideshow(shows[0].ID)
}

// favoriteID maps a favorite number to a local slideshow id by name.
func favoriteID(st *store.Store, cfg config.Config, n int) (int, error) {
	name, ok := cfg.Favorites[n]
	if !ok {
		return 0, fmt.Errorf("favorite %d is not set", n)
	}
	shows, err := st.Slideshows()
	if err != nil {
		return 0, err
	}
	for _, s := range shows {
		if strings.EqualFold(s.Name, name) {
			return s.ID, nil
		}
	}
	return 0, fmt.Errorf("no local slideshow named %q", name)
}

func runExport(show *model.Slideshow, slideIdx int, svgPath, pngPath string, opts zorder.Options) error {
	if svgPath != "" {
		if err := export.SaveSVG(svgPath, show, slideIdx, opts); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	if pngPath != "" {
		if err := export.PNG(pngPath, show, slideIdx, opts); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngPath)
	}
	return nil
}

// changeSink pushes drained element changes to the backend, fire-and-forget.
// Local persistence happens on exit; a dead server must not block editing.
func changeSink(st *store.Store, cfg config.Config, show *model.Slideshow) func([]*model.Element) {
	if cfg.Server.URL == "" {
		return nil
	}
	client := api.New(cfg.Server.URL, cfg.Server.Token)
	return func(els []*model.Element) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			for _, el := range els {
				slideID := homeSlideID(show, el.ID)
				if slideID == 0 {
					continue
				}
				if err := client.UpdateSlideElement(ctx, show.ID, slideID, el); err != nil {
					debug.Log("element %d update failed: %v", el.ID, err)
				}
			}
		}()
	}
}

func homeSlideID(show *model.Slideshow, elementID int) int {
	for _, slide := range show.Slides {
		if slide.ElementByID(elementID) != nil {
			return slide.ID
		}
	}
	return 0
}

func runTUIProgram(m ui.Model, cfg config.Config, showID int) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Subscribe to live slideshow updates when a websocket endpoint is known.
	if wsURL := websocketURL(cfg); wsURL != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go subscribeLive(ctx, p, wsURL, cfg.Server.Token, showID)
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}

func websocketURL(cfg config.Config) string {
	if cfg.Server.WSURL != "" {
		return cfg.Server.WSURL
	}
	url := cfg.Server.URL
	switch {
	case strings.HasPrefix(url, "https://"):
		return "wss://" + strings.TrimPrefix(url, "https://") + "/ws/slideshows/"
	case strings.HasPrefix(url, "http://"):
		return "ws://" + strings.TrimPrefix(url, "http://") + "/ws/slideshows/"
	}
	return ""
}

// subscribeLive feeds server-pushed slideshow updates into the TUI. The
// connection is best-effort: failures are logged and editing continues on
// the local copy.
func subscribeLive(ctx context.Context, p *tea.Program, wsURL, token string, showID int) {
	client, err := live.Dial(ctx, wsURL, token)
	if err != nil {
		debug.Log("live subscription failed: %v", err)
		return
	}
	go func() {
		for u := range client.Updates() {
			if u.Slideshow != nil && u.Slideshow.ID == showID {
				p.Send(ui.ShowUpdatedMsg{Show: u.Slideshow})
			}
		}
	}()
	if err := client.Run(ctx); err != nil {
		debug.Log("live channel closed: %v", err)
	}
}
