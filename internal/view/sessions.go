package view

import (
	"context"
	"fmt"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/cache"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/id"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/logging"
)

const sessionIDPrefix = "slv_"

type SessionsConfig struct {
	TTL    time.Duration
	NewID  id.Generator
	Clock  clock.Clock
	Logger *logging.Logger
}

// Sessions owns one Root per browser session. Roots that expire or get
// replaced are closed.
type Sessions struct {
	store   *cache.Store[*Root]
	ids     id.Generator
	newRoot func() *Root
	logger  *logging.Logger
}

func NewSessions(cfg SessionsConfig, newRoot func() *Root) *Sessions {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ids := cfg.NewID
	if ids == nil {
		ids = id.NewRandomGenerator(sessionIDPrefix)
	}

	s := &Sessions{
		ids:     ids,
		newRoot: newRoot,
		logger:  logger.Named("view.sessions"),
	}
	s.store = cache.NewStore[*Root](cfg.TTL,
		cache.WithClock[*Root](cfg.Clock),
		cache.WithOnEvict(func(key string, root *Root) {
			s.logger.Debug("closing session", "session_id", key)
			root.Close()
		}),
	)
	return s
}

// Get returns the live root for sessionID and refreshes its expiry.
func (s *Sessions) Get(ctx context.Context, sessionID string) (*Root, bool) {
	return s.store.Get(ctx, sessionID)
}

// Create starts a new session.
func (s *Sessions) Create(ctx context.Context) (string, *Root, error) {
	sessionID, err := s.ids.NewID()
	if err != nil {
		return "", nil, fmt.Errorf("generate session id: %w", err)
	}
	root := s.newRoot()
	s.store.Set(ctx, sessionID, root)
	s.logger.InfoContext(ctx, "session created", "session_id", sessionID)
	return sessionID, root, nil
}

// Resolve returns the root for sessionID, creating a new session when the id
// is unknown or expired. created reports whether a new id was issued.
func (s *Sessions) Resolve(ctx context.Context, sessionID string) (string, *Root, bool, error) {
	if root, ok := s.Get(ctx, sessionID); ok {
		return sessionID, root, false, nil
	}
	newID, root, err := s.Create(ctx)
	if err != nil {
		return "", nil, false, err
	}
	return newID, root, true, nil
}

// Sweep closes expired sessions and reports how many were dropped.
func (s *Sessions) Sweep(ctx context.Context) int {
	return s.store.Sweep(ctx)
}

// Run sweeps every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, clk clock.Clock, interval time.Duration) {
	if clk == nil {
		clk = clock.New()
	}
	ticker := clk.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				s.logger.InfoContext(ctx, "expired sessions swept", "count", n)
			}
		}
	}
}

func (s *Sessions) Len() int {
	return s.store.Len()
}

// Close drops every session.
func (s *Sessions) Close(ctx context.Context) {
	s.store.Clear(ctx)
}
