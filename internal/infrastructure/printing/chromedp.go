package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultRenderTimeout = 90 * time.Second
	defaultIdleTimeout   = 30 * time.Second

	a4WidthMM  = 210
	a4HeightMM = 297
)

// Renderer prints a page to PDF bytes
type Renderer interface {
	RenderURL(ctx context.Context, url string) ([]byte, error)
	Close() error
}

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// RemoteURL is the DevTools URL of a running Chrome. Empty launches a local one.
	RemoteURL string
	NoSandbox bool
	// RenderWait is an extra pause after the network settles so client side
	// charts finish drawing.
	RenderWait     time.Duration
	RenderTimeout  time.Duration
	ViewportWidth  int
	ViewportHeight int
	Logger         *zap.Logger
}

// ChromedpRenderer renders URLs to A4 PDFs using the Chrome DevTools Protocol
type ChromedpRenderer struct {
	config      ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a renderer. Chrome itself starts lazily on the first render.
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	cfg := ChromedpConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = defaultRenderTimeout
	}
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = 1920
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = 1080
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromedpRenderer{config: cfg, logger: logger}
	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-extensions", true),
			chromedp.Flag("font-render-hinting", "none"),
			chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight),
		)
		if cfg.NoSandbox {
			opts = append(opts, chromedp.NoSandbox)
		}
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
	return r, nil
}

// RenderURL opens url in a fresh tab, waits for the network to go idle plus
// RenderWait, and prints A4 with backgrounds.
func (r *ChromedpRenderer) RenderURL(ctx context.Context, url string) ([]byte, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrURLRequired
	}
	start := time.Now()

	tabCtx, cancelTab := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer cancelTab()

	// stop the tab when the caller gives up or the render budget runs out
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.config.RenderTimeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	idle := listenNetworkIdle(tabCtx)

	var pdf []byte
	err := chromedp.Run(tabCtx,
		page.SetLifecycleEventsEnabled(true),
		emulation.SetDeviceMetricsOverride(int64(r.config.ViewportWidth), int64(r.config.ViewportHeight), 1, false),
		chromedp.Navigate(url),
		waitFor(idle, defaultIdleTimeout),
		chromedp.Sleep(r.config.RenderWait),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(mmToInches(a4WidthMM)).
				WithPaperHeight(mmToInches(a4HeightMM)).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(tabCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("rendering timed out after %v: %w", r.config.RenderTimeout, err)
		}
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, errors.New("generated PDF is empty")
	}

	r.logger.Info("PDF rendered",
		zap.String("url", url),
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", estimatePageCount(pdf)),
		zap.Duration("duration", time.Since(start)),
	)
	return pdf, nil
}

// Close shuts the browser allocator down
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// listenNetworkIdle signals once the main frame reports networkIdle after a
// navigation began.
func listenNetworkIdle(ctx context.Context) <-chan struct{} {
	idle := make(chan struct{})
	var (
		mu      sync.Mutex
		started bool
		once    sync.Once
	)
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch e.Name {
		case "init":
			started = true
		case "networkIdle":
			if started {
				once.Do(func() { close(idle) })
			}
		}
	})
	return idle
}

// waitFor blocks until ch closes. Pages that keep a connection open never go
// idle, so the wait gives up after limit and rendering carries on.
func waitFor(ch <-chan struct{}, limit time.Duration) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		select {
		case <-ch:
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// estimatePageCount counts "/Type /Page" objects minus the "/Type /Pages" tree nodes
func estimatePageCount(pdf []byte) int {
	count := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	return max(count, 1)
}

var _ Renderer = (*ChromedpRenderer)(nil)
