package browser

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"terminal-commons/internal/core/logger"
	"terminal-commons/internal/core/proxy"
)

// Options controls how the headless browser is launched.
type Options struct {
	// Headless disables the visible browser window. Local debugging runs
	// with it off.
	Headless bool
	// Proxy routes browser traffic through an upstream endpoint.
	Proxy proxy.Settings
	// Timeout bounds everything the session does; zero means 120s.
	Timeout time.Duration
}

// Session wraps one rod browser with the handful of operations the terminal
// scrapers need. Each scraping run opens its own session and closes it when
// the run ends.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	cancel  context.CancelFunc
	logger  *zap.Logger
}

// NewSession launches a browser and connects to it.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 120 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)

	log := logger.Get()
	log.Debug("Launching browser",
		zap.Bool("headless", opts.Headless),
		zap.Bool("proxy_enabled", opts.Proxy.HasProxy()),
	)

	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		NoSandbox(true)

	if opts.Proxy.HasProxy() {
		l = l.Proxy(opts.Proxy.HostPort())
	}

	u, err := l.Launch()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().Context(ctx).ControlURL(u)
	if err := b.Connect(); err != nil {
		cancel()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	if opts.Proxy.HasProxy() && opts.Proxy.Username != "" && opts.Proxy.Password != "" {
		go b.MustHandleAuth(opts.Proxy.Username, opts.Proxy.Password)()
	}

	return &Session{browser: b, cancel: cancel, logger: log}, nil
}

// Navigate opens the URL in the session's page and waits for load.
func (s *Session) Navigate(url string) error {
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return fmt.Errorf("open page %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for page %s: %w", url, err)
	}
	s.page = page
	s.logger.Debug("Navigated", zap.String("url", url))
	return nil
}

// Click clicks the first element matching the CSS selector.
func (s *Session) Click(selector string) error {
	el, err := s.element(selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// Input types text into the element matching the CSS selector.
func (s *Session) Input(selector, text string) error {
	el, err := s.element(selector)
	if err != nil {
		return err
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input into %s: %w", selector, err)
	}
	return nil
}

// Text returns the text content of the element matching the CSS selector.
func (s *Session) Text(selector string) (string, error) {
	el, err := s.element(selector)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read text of %s: %w", selector, err)
	}
	return text, nil
}

// ExecuteScript runs JavaScript on the current page and returns the result
// as a JSON string.
func (s *Session) ExecuteScript(script string) (string, error) {
	if s.page == nil {
		return "", fmt.Errorf("no page open")
	}
	result, err := s.page.Eval(script)
	if err != nil {
		return "", fmt.Errorf("execute script: %w", err)
	}
	return result.Value.String(), nil
}

// Screenshot captures the current page as PNG bytes.
func (s *Session) Screenshot() ([]byte, error) {
	if s.page == nil {
		return nil, fmt.Errorf("no page open")
	}
	data, err := s.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

// HijackResponse waits for a network response matching the URL pattern while
// trigger runs, and returns its body. Terminal frontends load availability
// data over XHR; capturing the XHR beats parsing the rendered DOM.
func (s *Session) HijackResponse(pattern string, trigger func() error) ([]byte, error) {
	if s.page == nil {
		return nil, fmt.Errorf("no page open")
	}

	router := s.page.HijackRequests()
	defer router.MustStop()

	done := make(chan []byte, 1)
	if err := router.Add(pattern, "", func(h *rod.Hijack) {
		if err := h.LoadResponse(http.DefaultClient, true); err != nil {
			return
		}
		select {
		case done <- []byte(h.Response.Body()):
		default:
		}
	}); err != nil {
		return nil, fmt.Errorf("register hijack pattern %s: %w", pattern, err)
	}
	go router.Run()

	if err := trigger(); err != nil {
		return nil, err
	}

	select {
	case body := <-done:
		return body, nil
	case <-s.browser.GetContext().Done():
		return nil, fmt.Errorf("timeout waiting for response %s: %w", pattern, s.browser.GetContext().Err())
	}
}

// Close shuts the browser down and releases the session context.
func (s *Session) Close() {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Warn("Browser close failed", zap.Error(err))
		}
	}
	s.cancel()
}

func (s *Session) element(selector string) (*rod.Element, error) {
	if s.page == nil {
		return nil, fmt.Errorf("no page open")
	}
	el, err := s.page.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("find element %s: %w", selector, err)
	}
	return el, nil
}
