// Package throttle rate limits expensive requests with per-key token buckets.
// A BucketStore is a service: while running it periodically forgets idle buckets.
package throttle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zeptools/fichas/svc"
	"go.uber.org/zap"
)

type BucketStore[K comparable] struct {
	Ctx              context.Context    // Service Context
	cancel           context.CancelFunc // Service Context CancelFunc
	mu               sync.Mutex         // guards state and groups
	state            int                // internal service state
	done             chan error         // Shutdown Error Channel
	cleanupCycle     time.Duration
	cleanupOlderThan time.Duration
	groups           map[string]*BucketGroup[K]
	logger           *zap.Logger
}

var _ svc.Service = (*BucketStore[string])(nil)

func NewBucketStore[K comparable](parentCtx context.Context, cleanupCycle, cleanupOlderThan time.Duration, logger *zap.Logger) *BucketStore[K] {
	if logger == nil {
		logger = zap.NewNop()
	}
	svcCtx, svcCancel := context.WithCancel(parentCtx)
	return &BucketStore[K]{
		Ctx:              svcCtx,
		cancel:           svcCancel,
		state:            svc.StateREADY,
		done:             make(chan error, 1),
		cleanupCycle:     cleanupCycle,
		cleanupOlderThan: cleanupOlderThan,
		groups:           make(map[string]*BucketGroup[K]),
		logger:           logger.Named("throttle"),
	}
}

func (s *BucketStore[K]) Name() string {
	return "ThrottleBucketStore"
}

// Start starts the cleanup loop
func (s *BucketStore[K]) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == svc.StateRUNNING {
		return errors.New("throttle: already started")
	}
	if s.state != svc.StateREADY {
		return errors.New("throttle: cannot start, not ready")
	}
	if s.cleanupCycle <= 0 {
		return errors.New("throttle: cleanup cycle must be positive")
	}
	s.state = svc.StateRUNNING
	s.logger.Info("cleanup service started",
		zap.Duration("cycle", s.cleanupCycle), zap.Duration("older_than", s.cleanupOlderThan))
	go s.run()
	return nil
}

func (s *BucketStore[K]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateRUNNING {
		s.logger.Warn("cannot stop, not running")
		return
	}
	s.cancel()
	s.state = svc.StateSTOPPED
	s.logger.Info("service stopped")
}

func (s *BucketStore[K]) Done() <-chan error {
	return s.done
}

func (s *BucketStore[K]) run() {
	ticker := time.NewTicker(s.cleanupCycle)
	defer ticker.Stop()
	for {
		select {
		case <-s.Ctx.Done():
			s.done <- nil
			return
		case now := <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						s.logger.Error("panic recovered in cleanup cycle", zap.Any("panic", r))
					}
				}()
				s.Cleanup(now)
			}()
		}
	}
}

// Cleanup removes buckets idle for longer than the configured age
func (s *BucketStore[K]) Cleanup(now time.Time) int {
	s.mu.Lock()
	groups := make(map[string]*BucketGroup[K], len(s.groups))
	for id, g := range s.groups {
		groups[id] = g
	}
	s.mu.Unlock()

	total := 0
	for id, g := range groups {
		n := g.cleanup(now, s.cleanupOlderThan)
		if n > 0 {
			s.logger.Debug("expired buckets removed", zap.String("group", id), zap.Int("count", n))
		}
		total += n
	}
	return total
}

func (s *BucketStore[K]) GetBucketGroup(id string) (*BucketGroup[K], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	return g, ok
}

func (s *BucketStore[K]) SetBucketGroup(id string, conf BucketConf) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[id] = &BucketGroup[K]{conf: conf}
}

// Allow consumes one token of userID's bucket in groupID
func (s *BucketStore[K]) Allow(groupID string, userID K, now time.Time) bool {
	g, ok := s.GetBucketGroup(groupID)
	if !ok {
		return false // Invalid groupID always Blocked
	}
	return g.getOrCreate(userID, now).Allow(now)
}
