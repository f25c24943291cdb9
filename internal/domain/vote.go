package domain

import "time"

// Vote is one team member's position on the specialist's proposal.
// At most one per (decision, user); insert-only, never mutated.
type Vote struct {
	ID         string    `json:"id"`
	DecisionID string    `json:"decision_id"`
	UserID     string    `json:"user_id"`
	OptionID   string    `json:"option_id"`
	Approved   bool      `json:"approved"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}
