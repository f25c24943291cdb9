package service

import (
	"context"

	"bizsim-api/pkg/redis"

	"go.uber.org/zap"
)

// CacheService fronts the 5-second polling endpoints with short-TTL Redis
// entries and provides one-shot idempotency locks for scheduler operations.
// A nil CacheService (no Redis configured) degrades to straight reads.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{redis: redisClient, logger: logger}
}

func (s *CacheService) enabled() bool {
	return s != nil && s.redis != nil
}

// GetDecisionView returns the cached polling payload for a team's decision
func (s *CacheService) GetDecisionView(ctx context.Context, sessionEventID, teamID string) ([]byte, bool) {
	if !s.enabled() {
		return nil, false
	}
	key := s.redis.KeyBuilder.KeyTeamDecision(sessionEventID, teamID)
	val, err := s.redis.Get(ctx, key)
	if err != nil || val == "" {
		return nil, false
	}
	return []byte(val), true
}

// SetDecisionView caches a polling payload. Failures are logged and ignored;
// caching never fails a read.
func (s *CacheService) SetDecisionView(ctx context.Context, sessionEventID, teamID string, payload []byte) {
	if !s.enabled() {
		return
	}
	key := s.redis.KeyBuilder.KeyTeamDecision(sessionEventID, teamID)
	if err := s.redis.Set(ctx, key, payload, redis.TTLDecisionView); err != nil {
		s.logger.Warn("failed to cache decision view",
			zap.String("session_event_id", sessionEventID),
			zap.String("team_id", teamID),
			zap.Error(err))
	}
}

// InvalidateDecisionView drops the cached payload after a transition so the
// next poll observes the new state immediately.
func (s *CacheService) InvalidateDecisionView(ctx context.Context, sessionEventID, teamID string) {
	if !s.enabled() {
		return
	}
	key := s.redis.KeyBuilder.KeyTeamDecision(sessionEventID, teamID)
	if err := s.redis.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to invalidate decision view",
			zap.String("session_event_id", sessionEventID),
			zap.Error(err))
	}
}

// GetSessionState returns the cached session state payload
func (s *CacheService) GetSessionState(ctx context.Context, sessionID string) ([]byte, bool) {
	if !s.enabled() {
		return nil, false
	}
	val, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeySessionState(sessionID))
	if err != nil || val == "" {
		return nil, false
	}
	return []byte(val), true
}

// SetSessionState caches a session state payload
func (s *CacheService) SetSessionState(ctx context.Context, sessionID string, payload []byte) {
	if !s.enabled() {
		return
	}
	if err := s.redis.Set(ctx, s.redis.KeyBuilder.KeySessionState(sessionID), payload, redis.TTLSessionState); err != nil {
		s.logger.Warn("failed to cache session state",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

// InvalidateSession drops the session state cache after scheduler transitions
func (s *CacheService) InvalidateSession(ctx context.Context, sessionID string) {
	if !s.enabled() {
		return
	}
	keys := []string{
		s.redis.KeyBuilder.KeySessionState(sessionID),
		s.redis.KeyBuilder.KeyScoreboard(sessionID),
	}
	if err := s.redis.Delete(ctx, keys...); err != nil {
		s.logger.Warn("failed to invalidate session cache",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

// TryIdempotencyLock attempts to acquire a short-lived lock for the given
// operation key. Returns true if acquired (first submission), false if the
// same operation arrived again within the TTL. Without Redis the lock is a
// no-op and the storage-level compare-and-swap is the only guard.
func (s *CacheService) TryIdempotencyLock(ctx context.Context, operation string) (bool, error) {
	if !s.enabled() {
		return true, nil
	}
	key := s.redis.KeyBuilder.KeyIdempotency(operation)
	return s.redis.SetNX(ctx, key, "1", redis.TTLIdempotency)
}
