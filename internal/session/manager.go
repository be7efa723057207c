package session

import (
	"context"
	"errors"
	"time"

	"github.com/jellydator/ttlcache/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultIdleTTL = 30 * time.Minute

// Manager keeps one orchestrator per signed-in session. An orchestrator that
// is not used for the idle TTL is evicted and closed.
type Manager struct {
	deps    Deps
	cache   *ttlcache.Cache
	sfGroup singleflight.Group
	logger  *zap.Logger
}

func NewManager(deps Deps, idleTTL time.Duration, logger *zap.Logger) (*Manager, error) {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	c := ttlcache.NewCache()
	if err := c.SetTTL(idleTTL); err != nil {
		return nil, err
	}
	c.SkipTTLExtensionOnHit(false)
	c.SetExpirationReasonCallback(func(key string, reason ttlcache.EvictionReason, value interface{}) {
		o, ok := value.(*Orchestrator)
		if !ok {
			return
		}
		o.Close()
		logger.Debug("Session orchestrator released", zap.String("sid", key), zap.Any("reason", reason))
	})
	return &Manager{deps: deps, cache: c, logger: logger}, nil
}

// New returns an orchestrator that is not registered yet, for actions taken
// before sign-in.
func (m *Manager) New() *Orchestrator {
	return NewOrchestrator(m.deps, m.logger)
}

// Register tracks a signed-in orchestrator under its session id.
func (m *Manager) Register(o *Orchestrator) error {
	sid := o.SessionID()
	if sid == "" {
		return ErrNotSignedIn
	}
	return m.cache.Set(sid, o)
}

// Resolve validates token and returns the orchestrator of its session,
// restoring one when the session is valid but not tracked.
func (m *Manager) Resolve(ctx context.Context, token string) (*Orchestrator, error) {
	sess, err := m.deps.Auth.CurrentSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if o, err := m.lookup(sess.ID); err == nil {
		return o, nil
	}

	v, err, _ := m.sfGroup.Do(sess.ID, func() (interface{}, error) {
		if o, err := m.lookup(sess.ID); err == nil {
			return o, nil
		}
		o := m.New()
		o.adopt(sess)
		if err := m.cache.Set(sess.ID, o); err != nil {
			return nil, err
		}
		m.logger.Debug("Session orchestrator restored", zap.String("sid", sess.ID))
		return o, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Orchestrator), nil
}

func (m *Manager) lookup(sid string) (*Orchestrator, error) {
	v, err := m.cache.Get(sid)
	if err != nil {
		return nil, err
	}
	o, ok := v.(*Orchestrator)
	if !ok {
		return nil, errors.New("unexpected session registry entry")
	}
	return o, nil
}

// Remove closes and forgets the orchestrator of sid.
func (m *Manager) Remove(sid string) {
	if err := m.cache.Remove(sid); err != nil && !errors.Is(err, ttlcache.ErrNotFound) {
		m.logger.Warn("Failed to remove session orchestrator", zap.String("sid", sid), zap.Error(err))
	}
}

func (m *Manager) Len() int {
	return m.cache.Count()
}

// Close releases every tracked orchestrator.
func (m *Manager) Close() error {
	for _, sid := range m.cache.GetKeys() {
		if o, err := m.lookup(sid); err == nil {
			o.Close()
		}
	}
	return m.cache.Close()
}
