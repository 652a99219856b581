// Package rod loads job posting pages in a headless Chrome browser and
// exposes the top document and every iframe as execution contexts.
package rod

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the number of postings opened before the browser is
// replaced by a fresh one.
const DefaultMaxPages = 50

// instance is one Chrome process and the tabs it serves.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	opened   int64
	open     int
	retired  bool
}

func (in *instance) stop() error {
	err := in.browser.Close()
	in.launcher.Kill()
	return err
}

// BrowserManager owns the Chrome processes behind a Source. Chrome memory
// grows with every page it renders and never returns to its baseline, so new
// tabs move to a fresh process after MaxPages postings. The retired process
// is stopped once its last tab is closed with ClosePage.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *instance
	tabs     map[proto.TargetTargetID]*instance
	maxPages int64
	headless bool
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages after which the browser is relaunched.
func WithMaxPages(n int64) ManagerOption {
	return func(m *BrowserManager) {
		m.maxPages = n
	}
}

// WithHeadful shows the browser window. Useful when debugging selectors.
func WithHeadful() ManagerOption {
	return func(m *BrowserManager) {
		m.headless = false
	}
}

// NewBrowserManager launches Chrome. Close must be called to stop it.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	m := &BrowserManager{
		tabs:     make(map[proto.TargetTargetID]*instance),
		maxPages: DefaultMaxPages,
		headless: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	in, err := m.launch()
	if err != nil {
		return nil, err
	}
	m.current = in
	return m, nil
}

// NewPage opens a blank tab, moving to a fresh browser first when the current
// one has served MaxPages postings. The tab must be closed with ClosePage.
func (m *BrowserManager) NewPage() (*rod.Page, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, fmt.Errorf("browser manager closed")
	}
	if m.current.opened >= m.maxPages {
		m.recycle()
	}
	in := m.current
	in.opened++
	in.open++
	m.mu.Unlock()

	page, err := in.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		m.mu.Lock()
		m.release(in)
		m.mu.Unlock()
		return nil, fmt.Errorf("opening tab: %w", err)
	}

	m.mu.Lock()
	m.tabs[page.TargetID] = in
	m.mu.Unlock()
	return page, nil
}

// ClosePage closes a tab opened by NewPage and stops its browser when that
// browser was retired and this was its last tab.
func (m *BrowserManager) ClosePage(page *rod.Page) error {
	err := page.Close()

	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.tabs[page.TargetID]
	if !ok {
		return err
	}
	delete(m.tabs, page.TargetID)
	m.release(in)
	return err
}

// Close stops every browser. It is safe to call more than once.
func (m *BrowserManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true

	running := map[*instance]struct{}{m.current: {}}
	for _, in := range m.tabs {
		running[in] = struct{}{}
	}
	var errs []error
	for in := range running {
		errs = append(errs, in.stop())
	}
	clear(m.tabs)
	m.current = nil
	return errors.Join(errs...)
}

// LauncherPID returns the pid of the Chrome process serving new tabs, or 0
// when stopped.
func (m *BrowserManager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return 0
	}
	return m.current.launcher.PID()
}

// Running returns the number of Chrome processes alive, retired ones
// included.
func (m *BrowserManager) Running() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return 0
	}
	running := map[*instance]struct{}{m.current: {}}
	for _, in := range m.tabs {
		running[in] = struct{}{}
	}
	return len(running)
}

func (m *BrowserManager) launch() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(m.headless)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &instance{browser: browser, launcher: l}, nil
}

// recycle retires the current browser and launches a fresh one. The current
// browser keeps serving when the relaunch fails. Must be called with mu held.
func (m *BrowserManager) recycle() {
	next, err := m.launch()
	if err != nil {
		return
	}
	old := m.current
	old.retired = true
	m.current = next
	if old.open == 0 {
		_ = old.stop()
	}
}

// release forgets one open tab of in. Must be called with mu held.
func (m *BrowserManager) release(in *instance) {
	in.open--
	if in.retired && in.open == 0 && !m.closed {
		_ = in.stop()
	}
}
