package service

import (
	"context"
	"sync"
	"time"

	"momo-checkout-console/internal/core/ports"
	"momo-checkout-console/pkg/singleflight"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// pageSession holds the controller instances for one checkout or admin
// page. Payment and admin gates are separate objects: distinct privileged
// operations on distinct backend resources never contend.
type pageSession struct {
	id        string
	initiator ports.PaymentInitiator
	admin     ports.AdminActionController
}

func (s *pageSession) ID() string                                { return s.id }
func (s *pageSession) Initiator() ports.PaymentInitiator         { return s.initiator }
func (s *pageSession) AdminActions() ports.AdminActionController { return s.admin }

type sessionEntry struct {
	session  *pageSession
	lastSeen time.Time
}

// SessionManager implements ports.SessionManager. Sessions live for the
// page lifetime plus a TTL; a session whose payment gate stayed held after
// a redirect simply ages out with the gate still closed.
type SessionManager struct {
	gateway ports.UpstreamGateway
	ttl     time.Duration
	log     zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionEntry
	now      func() time.Time // test seam
}

// NewSessionManager creates a session manager. ttl <= 0 falls back to 30m.
func NewSessionManager(gateway ports.UpstreamGateway, ttl time.Duration, log zerolog.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionManager{
		gateway:  gateway,
		ttl:      ttl,
		log:      log,
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
	}
}

// Mint creates a fresh page session with a random id.
func (m *SessionManager) Mint() ports.PageSession {
	return m.GetOrCreate(uuid.NewString())
}

// GetOrCreate returns the session for id, creating it on first use.
func (m *SessionManager) GetOrCreate(id string) ports.PageSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[id]; ok {
		e.lastSeen = m.now()
		return e.session
	}

	s := &pageSession{
		id:        id,
		initiator: NewPaymentInitiator(singleflight.NewGate(), m.gateway, m.log),
		admin:     NewAdminActionController(singleflight.NewGate(), m.gateway, m.log),
	}
	m.sessions[id] = &sessionEntry{session: s, lastSeen: m.now()}
	return s
}

// Lookup returns the session for id if it exists, refreshing its TTL.
func (m *SessionManager) Lookup(id string) (ports.PageSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.session, true
}

// Run sweeps expired sessions until ctx is cancelled.
func (m *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.ttl / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *SessionManager) sweep() {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
