package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// DefaultUserAgent replaces the HeadlessChrome user agent, which several
// portals answer with a bot check instead of the story.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultAcceptLanguage asks portals for the Bengali edition.
const DefaultAcceptLanguage = "bn-BD,bn;q=0.9,en;q=0.8"

// browserLang is passed to Chrome so navigator.language matches the
// Accept-Language header. Portals that pick the edition in JavaScript read it.
const browserLang = "bn-BD"

// BrowserManager owns the headless browser used for portal pages. Every page
// it opens presents as a desktop browser reading Bengali. Chrome keeps
// growing while pages come and go, so the browser is replaced by a fresh one
// after a fixed number of pages.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser        *rod.Browser
	launcher       *launcher.Launcher
	pageCount      int64
	maxPages       int64
	userAgent      string
	acceptLanguage string
	mu             sync.Mutex
	closed         atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages after which the browser is recycled.
// Defaults to DefaultMaxPages.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBrowserUserAgent sets the user agent sent by every page.
// Defaults to DefaultUserAgent.
func WithBrowserUserAgent(ua string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.userAgent = ua
	}
}

// WithAcceptLanguage sets the Accept-Language header sent by every page.
// Defaults to DefaultAcceptLanguage.
func WithAcceptLanguage(lang string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.acceptLanguage = lang
	}
}

// NewBrowserManager launches a headless Chrome browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages:       DefaultMaxPages,
		userAgent:      DefaultUserAgent,
		acceptLanguage: DefaultAcceptLanguage,
	}
	for _, opt := range opts {
		opt(bm)
	}
	if bm.userAgent == "" {
		bm.userAgent = DefaultUserAgent
	}
	if bm.acceptLanguage == "" {
		bm.acceptLanguage = DefaultAcceptLanguage
	}

	if err := bm.launchBrowser(); err != nil {
		return nil, err
	}

	return bm, nil
}

// OpenPage opens a blank page bound to ctx with the manager's user agent and
// language. The returned release func closes the page and counts it toward
// recycling; call it once the page is no longer needed.
func (bm *BrowserManager) OpenPage(ctx context.Context) (*rod.Page, func(), error) {
	page, err := bm.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, nil, fmt.Errorf("opening page: %w", err)
	}
	release := func() {
		_ = page.Close()
		bm.IncrementPageCount()
	}

	page = page.Context(ctx)
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      bm.userAgent,
		AcceptLanguage: bm.acceptLanguage,
	}); err != nil {
		release()
		return nil, nil, fmt.Errorf("setting user agent: %w", err)
	}
	return page, release, nil
}

// Browser returns the current browser, recycling it first once the page
// count has reached maxPages.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if atomic.LoadInt64(&bm.pageCount) >= bm.maxPages {
		bm.recycleBrowser()
	}

	return bm.browser
}

// IncrementPageCount counts a processed page toward the recycling threshold.
func (bm *BrowserManager) IncrementPageCount() {
	atomic.AddInt64(&bm.pageCount, 1)
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	return bm.closeBrowser()
}

// launchBrowser starts Chrome with the Bengali locale and flags that keep
// background tabs from being throttled during long watch runs.
func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		Set("lang", browserLang).
		Set("user-agent", bm.userAgent).
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycleBrowser swaps in a fresh browser. When the launch fails the old
// browser stays in service and the count is kept, so the next page retries.
// Must be called with mu held.
func (bm *BrowserManager) recycleBrowser() {
	old, oldLauncher := bm.browser, bm.launcher
	if err := bm.launchBrowser(); err != nil {
		bm.browser, bm.launcher = old, oldLauncher
		return
	}

	if old != nil {
		_ = old.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	atomic.StoreInt64(&bm.pageCount, 0)
}

// LauncherPID returns the process ID of the browser launcher, or 0 once
// the manager is closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
