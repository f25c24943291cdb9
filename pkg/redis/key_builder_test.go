package redis

import (
	"testing"
)

func TestKeyBuilder_Environment_Prefixes(t *testing.T) {
	tests := []struct {
		name           string
		environment    string
		expectedPrefix string
	}{
		{
			name:           "Production environment should use prod prefix",
			environment:    "production",
			expectedPrefix: "prod",
		},
		{
			name:           "Development environment should use staging prefix",
			environment:    "development",
			expectedPrefix: "staging",
		},
		{
			name:           "Staging environment should use staging prefix",
			environment:    "staging",
			expectedPrefix: "staging",
		},
		{
			name:           "Unknown environment should default to prod prefix",
			environment:    "unknown",
			expectedPrefix: "prod",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			if kb.GetPrefix() != tt.expectedPrefix {
				t.Errorf("NewKeyBuilder(%s).GetPrefix() = %s, want %s",
					tt.environment, kb.GetPrefix(), tt.expectedPrefix)
			}
		})
	}
}

func TestKeyBuilder_KeyGeneration(t *testing.T) {
	kb := NewKeyBuilder("production")

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "DecisionView key",
			key:      kb.KeyDecisionView("d-1"),
			expected: "prod:workflow:decision:d-1:view",
		},
		{
			name:     "TeamDecision key",
			key:      kb.KeyTeamDecision("se-1", "t-1"),
			expected: "prod:workflow:session-event:se-1:team:t-1",
		},
		{
			name:     "SessionState key",
			key:      kb.KeySessionState("s-1"),
			expected: "prod:workflow:session:s-1:state",
		},
		{
			name:     "Scoreboard key",
			key:      kb.KeyScoreboard("s-1"),
			expected: "prod:workflow:session:s-1:scores",
		},
		{
			name:     "Idempotency key",
			key:      kb.KeyIdempotency("activate:se-1"),
			expected: "prod:workflow:idem:activate:se-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key != tt.expected {
				t.Errorf("got %s, want %s", tt.key, tt.expected)
			}
		})
	}
}

func TestKeyBuilder_PrefixIsolation(t *testing.T) {
	prod := NewKeyBuilder("production")
	staging := NewKeyBuilder("staging")

	prodKey := prod.KeyDecisionView("d-1")
	stagingKey := staging.KeyDecisionView("d-1")

	if prodKey == stagingKey {
		t.Errorf("expected distinct keys per environment, both were %s", prodKey)
	}
}
