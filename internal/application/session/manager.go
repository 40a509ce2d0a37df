// Package session keeps per-visitor state: the login flag and the comparison
// selection. Sessions live in memory and expire after an idle period.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/AgriMat-Platform/internal/domain/comparison"
	"github.com/turtacn/AgriMat-Platform/internal/domain/user"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// Session is a snapshot of one visitor's state. Mutating a snapshot has no
// effect on the manager.
type Session struct {
	ID            string                `json:"id"`
	User          *user.User            `json:"user,omitempty"`
	Authenticated bool                  `json:"authenticated"`
	Selection     *comparison.Selection `json:"-"`
	CreatedAt     time.Time             `json:"created_at"`
	LastSeen      time.Time             `json:"last_seen"`
}

// SelectedIDs returns the selection ids, never nil.
func (s *Session) SelectedIDs() []string {
	if s.Selection == nil {
		return []string{}
	}
	return s.Selection.IDs()
}

// Config controls expiry and selection size.
type Config struct {
	IdleTTL         time.Duration `mapstructure:"idle_ttl"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
	MaxSelection    int           `mapstructure:"max_selection"`
}

// entry owns the live session; its mutex serializes selection changes.
type entry struct {
	mu sync.Mutex
	s  Session
}

// Manager stores sessions in memory.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	cfg     Config
	logger  logging.Logger
	metrics *prometheus.AppMetrics
	now     func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewManager creates a manager and starts the expiry janitor when both
// IdleTTL and JanitorInterval are positive. Call Close to stop it.
func NewManager(cfg Config, logger logging.Logger, metrics *prometheus.AppMetrics) *Manager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.MaxSelection <= 0 {
		cfg.MaxSelection = comparison.DefaultMaxSelection
	}
	m := &Manager{
		sessions: make(map[string]*entry),
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if cfg.IdleTTL > 0 && cfg.JanitorInterval > 0 {
		go m.janitor()
	} else {
		close(m.done)
	}
	return m
}

// MaxSelection returns the configured selection capacity.
func (m *Manager) MaxSelection() int { return m.cfg.MaxSelection }

// Create starts an anonymous session with an empty selection.
func (m *Manager) Create() *Session {
	now := m.now()
	e := &entry{s: Session{
		ID:        uuid.NewString(),
		Selection: comparison.NewSelection(m.cfg.MaxSelection),
		CreatedAt: now,
		LastSeen:  now,
	}}

	m.mu.Lock()
	m.sessions[e.s.ID] = e
	m.mu.Unlock()

	m.logger.Debug("session created", logging.String("session_id", e.s.ID))
	m.reportGauge()
	return snapshot(&e.s)
}

// Get returns a snapshot of the session. Expired sessions are not found.
func (m *Manager) Get(id string) (*Session, error) {
	var out *Session
	err := m.with(id, false, func(s *Session) error {
		out = snapshot(s)
		return nil
	})
	return out, err
}

// Touch refreshes the idle timer.
func (m *Manager) Touch(id string) error {
	return m.with(id, true, func(*Session) error { return nil })
}

// Login marks the session authenticated as username.
func (m *Manager) Login(id, username string, method user.LoginMethod) (*Session, error) {
	var out *Session
	err := m.with(id, true, func(s *Session) error {
		now := m.now()
		if s.User != nil && s.User.Username == username {
			s.User.RecordLogin(now)
		} else {
			u, err := user.NewUser(username, method, now)
			if err != nil {
				return err
			}
			s.User = u
		}
		s.Authenticated = true
		out = snapshot(s)
		return nil
	})
	if err == nil {
		m.logger.Info("session login", logging.String("session_id", id), logging.String("user", out.User.Username))
		m.reportGauge()
	}
	return out, err
}

// Logout clears the login flag. The selection is kept.
func (m *Manager) Logout(id string) (*Session, error) {
	var out *Session
	err := m.with(id, true, func(s *Session) error {
		s.Authenticated = false
		s.User = nil
		out = snapshot(s)
		return nil
	})
	if err == nil {
		m.reportGauge()
	}
	return out, err
}

// UpdateSelection runs fn against the live selection under the session lock
// and returns the resulting snapshot. fn's error is returned unchanged and
// fn is expected to leave the selection untouched when it fails.
func (m *Manager) UpdateSelection(id string, fn func(*comparison.Selection) error) (*Session, error) {
	var out *Session
	err := m.with(id, true, func(s *Session) error {
		if err := fn(s.Selection); err != nil {
			return err
		}
		out = snapshot(s)
		return nil
	})
	return out, err
}

// Delete removes a session. Unknown ids are ignored.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	m.reportGauge()
}

// Count returns the number of live and of authenticated sessions.
func (m *Manager) Count() (total, authenticated int) {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	for _, e := range entries {
		e.mu.Lock()
		if e.s.Authenticated {
			authenticated++
		}
		e.mu.Unlock()
	}
	return len(entries), authenticated
}

// Sweep drops sessions idle for longer than IdleTTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	if m.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	removed := 0
	for id, e := range m.sessions {
		e.mu.Lock()
		expired := e.s.LastSeen.Before(cutoff)
		e.mu.Unlock()
		if expired {
			delete(m.sessions, id)
			removed++
		}
	}
	m.mu.Unlock()

	if removed > 0 {
		m.logger.Info("expired sessions removed", logging.Int("count", removed))
		m.reportGauge()
	}
	return removed
}

// Close stops the janitor. It is safe to call more than once.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	<-m.done
	return nil
}

func (m *Manager) janitor() {
	defer close(m.done)
	ticker := time.NewTicker(m.cfg.JanitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// with looks up id and runs fn under the session lock. touch refreshes
// LastSeen when fn succeeds.
func (m *Manager) with(id string, touch bool, fn func(*Session) error) error {
	if id == "" {
		return errors.New(errors.ErrCodeSessionNotFound, "session id is required")
	}
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session not found").WithDetail(id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	now := m.now()
	if m.cfg.IdleTTL > 0 && now.Sub(e.s.LastSeen) > m.cfg.IdleTTL {
		return errors.New(errors.ErrCodeSessionNotFound, "session expired").WithDetail(id)
	}
	if err := fn(&e.s); err != nil {
		return err
	}
	if touch {
		e.s.LastSeen = now
	}
	return nil
}

func (m *Manager) reportGauge() {
	if m.metrics == nil {
		return
	}
	m.metrics.SetActiveSessions(m.Count())
}

func snapshot(s *Session) *Session {
	out := *s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Selection != nil {
		out.Selection = s.Selection.Clone()
	}
	return &out
}
