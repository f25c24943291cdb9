package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyDecisionView returns the cache key for a decision polling payload
func (kb *KeyBuilder) KeyDecisionView(decisionID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyDecisionView, decisionID))
}

// KeyTeamDecision returns the cache key mapping a (session event, team) pair
// to its decision
func (kb *KeyBuilder) KeyTeamDecision(sessionEventID, teamID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyTeamDecision, sessionEventID, teamID))
}

// KeySessionState returns the cache key for a session's current state
func (kb *KeyBuilder) KeySessionState(sessionID string) string {
	return kb.BuildKey(fmt.Sprintf(KeySessionState, sessionID))
}

// KeyScoreboard returns the cache key for a session's latest score snapshots
func (kb *KeyBuilder) KeyScoreboard(sessionID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyScoreboard, sessionID))
}

// KeyIdempotency returns the key used for one-shot operation locks
func (kb *KeyBuilder) KeyIdempotency(operation string) string {
	return kb.BuildKey(fmt.Sprintf(KeyIdempotency, operation))
}
