package portal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/kaplanhukuk/uyap-importer/internal/config"
	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
)

// Session drives a single browser tab against the UYAP avukat portal. The
// tab is a shared mutable resource: callers are expected to run one logical
// operation at a time, which the importer's sequential loop guarantees.
type Session struct {
	cfg     *config.Config
	Browser *rod.Browser // Made public for testing
	mu      sync.Mutex
	logger  *logger.Logger
	page    *rod.Page
}

// NewSession launches the browser. The portal requires an e-imza login that
// cannot be automated, so headless mode is off by default: the user signs in
// through the visible window and the service takes over afterwards.
func NewSession(cfg *config.Config, logger *logger.Logger) (*Session, error) {
	l := launcher.New().
		Headless(cfg.HeadlessMode).
		Set("user-agent", cfg.UserAgent).
		Set("disable-blink-features", "AutomationControlled").
		Delete("enable-automation")

	if cfg.BrowserPath != "" {
		l = l.Bin(cfg.BrowserPath)
	}

	if cfg.LogLevel == "debug" {
		l = l.Devtools(true)
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL).MustConnect()

	return &Session{
		cfg:     cfg,
		Browser: browser,
		logger:  logger,
	}, nil
}

// Close closes the tab and the browser.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page != nil {
		s.page.MustClose()
		s.page = nil
	}

	return s.Browser.Close()
}

func (s *Session) activePage(ctx context.Context) (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page != nil {
		return s.page.Context(ctx), nil
	}

	page, err := s.Browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.MustSetViewport(1920, 1080, 1, false)
	page.MustSetExtraHeaders("Accept-Language", "tr-TR,tr;q=0.9")

	s.page = page
	return page.Context(ctx), nil
}

// Open navigates to the portal landing page. The user completes the e-imza
// login manually; OpenCaseList is expected to follow once signed in.
func (s *Session) Open(ctx context.Context) error {
	page, err := s.activePage(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("Navigating to portal", "url", s.cfg.PortalBaseURL)
	if err := page.Navigate(s.cfg.PortalBaseURL); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		s.logger.Warn("Page load wait ended early", "error", err)
	}

	return nil
}

// OpenCaseList walks the portal menu to the file-query screen: the query
// menu entry first, then the query action itself, dismissing the promo
// popup the portal likes to raise between clicks.
func (s *Session) OpenCaseList(ctx context.Context) error {
	page, err := s.activePage(ctx)
	if err != nil {
		return err
	}

	for _, label := range []string{"Dosya Sorgulama İşlemleri", "Dosya Sorgula"} {
		if err := s.clickByText(page, label); err != nil {
			return fmt.Errorf("failed to open case list at %q: %w", label, err)
		}
		s.dismissPopup(page)
		s.settle(ctx, func() bool {
			return s.hasElement(page, "table")
		})
	}

	return nil
}

// OpenDetail follows a summary's navigation handle into the detail view.
func (s *Session) OpenDetail(ctx context.Context, handle string) error {
	page, err := s.activePage(ctx)
	if err != nil {
		return err
	}

	if strings.HasPrefix(handle, "http://") || strings.HasPrefix(handle, "https://") || strings.HasPrefix(handle, "/") {
		if err := page.Navigate(absoluteURL(s.cfg.PortalBaseURL, handle)); err != nil {
			return fmt.Errorf("failed to navigate to detail: %w", err)
		}
	} else {
		el, err := page.Element("a[href*='detay'], a[title*='Detay']")
		if err != nil {
			return fmt.Errorf("detail link not found: %w", err)
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("failed to click detail link: %w", err)
		}
	}

	s.dismissPopup(page)
	s.settle(ctx, func() bool {
		return s.hasElement(page, "table, .case-detail, [id*='detail']")
	})
	return nil
}

// GoBack returns from a detail view to the list and waits for the grid to
// come back.
func (s *Session) GoBack(ctx context.Context) error {
	page, err := s.activePage(ctx)
	if err != nil {
		return err
	}

	if err := page.NavigateBack(); err != nil {
		return fmt.Errorf("failed to navigate back: %w", err)
	}

	s.settle(ctx, func() bool {
		return s.hasElement(page, "table")
	})
	return nil
}

// ActivateSection clicks the first clickable element whose text matches one
// of the titles, waits for the view to settle, and returns a fresh snapshot.
// A title that matches nothing is not an error; the current view is
// snapshotted instead.
func (s *Session) ActivateSection(ctx context.Context, titles []string) (*goquery.Document, error) {
	page, err := s.activePage(ctx)
	if err != nil {
		return nil, err
	}

	for _, title := range titles {
		if err := s.clickByText(page, title); err != nil {
			continue
		}
		s.dismissPopup(page)
		s.settle(ctx, func() bool {
			return s.hasElement(page, "table")
		})
		break
	}

	return s.Snapshot(ctx)
}

// FillSearchForm types a judicial type into the query form's first editor
// input and submits it.
func (s *Session) FillSearchForm(ctx context.Context, judicialType string) error {
	page, err := s.activePage(ctx)
	if err != nil {
		return err
	}

	el, err := page.Element("input.dx-texteditor-input")
	if err != nil {
		return fmt.Errorf("search form input not found: %w", err)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(judicialType); err != nil {
		return fmt.Errorf("failed to fill search form: %w", err)
	}

	s.dismissPopup(page)

	if err := el.Type(input.Enter); err != nil {
		return fmt.Errorf("failed to submit search form: %w", err)
	}

	s.settle(ctx, func() bool {
		return s.hasElement(page, "table")
	})
	return nil
}

// Snapshot parses the current page HTML into a goquery document.
func (s *Session) Snapshot(ctx context.Context) (*goquery.Document, error) {
	page, err := s.activePage(ctx)
	if err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}
	return doc, nil
}

// CurrentURL returns the tab's current location, empty when unknown.
func (s *Session) CurrentURL() string {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()

	if page == nil {
		return ""
	}
	info, err := page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// DownloadDocument fetches a portal document through the browser session so
// the portal's cookies apply. Only UYAP-hosted URLs are fetched.
func (s *Session) DownloadDocument(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		if !strings.Contains(url, "uyap.gov.tr") {
			return nil, fmt.Errorf("refusing to download non-portal document: %s", url)
		}
	}

	page, err := s.activePage(ctx)
	if err != nil {
		return nil, err
	}

	data, err := page.GetResource(absoluteURL(s.cfg.PortalBaseURL, url))
	if err != nil {
		return nil, fmt.Errorf("failed to download document: %w", err)
	}
	return data, nil
}

// clickByText clicks the first clickable element containing the given text.
func (s *Session) clickByText(page *rod.Page, text string) error {
	el, err := page.ElementR("a, button, span, .dx-tab, .nav-link", text)
	if err != nil {
		return fmt.Errorf("no clickable element with text %q: %w", text, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click %q: %w", text, err)
	}
	return nil
}

// dismissPopup closes the portal's promo popup when present.
func (s *Session) dismissPopup(page *rod.Page) {
	popup, err := page.Timeout(time.Second).Element("div.dx-popup-wrapper div.dx-closebutton")
	if err != nil {
		return
	}
	if err := popup.Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.logger.Debug("Failed to close popup", "error", err)
		return
	}
	s.logger.Debug("Closed portal popup")
}

func (s *Session) hasElement(page *rod.Page, selector string) bool {
	has, _, err := page.Has(selector)
	return err == nil && has
}

// settle polls a readiness predicate until it holds or the maximum wait
// elapses, then proceeds either way. The portal offers no completion signal
// for its lazy rendering, so readiness is best-effort and bounded.
func (s *Session) settle(ctx context.Context, ready func() bool) bool {
	deadline := time.Now().Add(s.cfg.SettleMaxWait)
	for {
		if ready() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(s.cfg.SettleInterval):
		}
	}
}

func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(base, "/") + href
	}
	return strings.TrimSuffix(base, "/") + "/" + href
}
