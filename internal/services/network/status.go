package network

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TargetFunc returns the URL whose host should be probed, or "" when
// nothing is configured
type TargetFunc func() string

// StatusChecker monitors whether the generation endpoint is reachable
type StatusChecker struct {
	mu        sync.RWMutex
	isOnline  bool
	host      string
	lastCheck time.Time
	client    *http.Client
	target    TargetFunc
	timeout   time.Duration
}

// StatusMsg is sent after every check
type StatusMsg struct {
	Online bool
	Host   string
}

// NewStatusChecker creates a new endpoint status checker
func NewStatusChecker(target TargetFunc, timeout time.Duration) *StatusChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &StatusChecker{
		isOnline: true, // Optimistically assume online
		target:   target,
		timeout:  timeout,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Check sends a HEAD request to the root of the target's host.
// Any answer below 500 counts as reachable; API roots commonly
// reply 401, 404 or 405 to a bare HEAD.
func (s *StatusChecker) Check(ctx context.Context) bool {
	probe, host := ProbeURL(s.target())
	if probe == "" {
		s.set(false, "")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, probe, nil)
	if err != nil {
		s.set(false, host)
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.set(false, host)
		return false
	}
	defer resp.Body.Close()

	online := resp.StatusCode < http.StatusInternalServerError
	s.set(online, host)
	return online
}

// ProbeURL reduces an endpoint URL to scheme://host/ and returns it with
// the host. Both are empty when endpoint is not an absolute http(s) URL.
func ProbeURL(endpoint string) (string, string) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ""
	}
	return u.Scheme + "://" + u.Host + "/", u.Host
}

// IsOnline returns the cached status
func (s *StatusChecker) IsOnline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOnline
}

// Host returns the host of the last probe
func (s *StatusChecker) Host() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.host
}

// LastCheck returns the time of the last check
func (s *StatusChecker) LastCheck() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCheck
}

func (s *StatusChecker) set(online bool, host string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOnline = online
	s.host = host
	s.lastCheck = time.Now()
}

// CheckCmd returns a tea.Cmd that performs a one-time check
func (s *StatusChecker) CheckCmd() tea.Cmd {
	return func() tea.Msg {
		return s.check()
	}
}

// PollCmd checks again after interval. Re-issue it on every StatusMsg to
// keep polling.
func (s *StatusChecker) PollCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return s.check()
	})
}

func (s *StatusChecker) check() StatusMsg {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	online := s.Check(ctx)
	return StatusMsg{Online: online, Host: s.Host()}
}
