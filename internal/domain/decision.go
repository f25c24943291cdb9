package domain

import "time"

// DecisionStatus is the lifecycle state of a team's decision on one event
type DecisionStatus string

const (
	DecisionPending   DecisionStatus = "pending"
	DecisionVoting    DecisionStatus = "voting"
	DecisionValidated DecisionStatus = "validated"
	// DecisionRejected is reserved in the status vocabulary but no transition
	// produces it. Kept so stored rows using it remain readable.
	DecisionRejected DecisionStatus = "rejected"
)

// statusRank orders statuses so the forward-only invariant is checkable:
// a decision's rank never decreases.
var statusRank = map[DecisionStatus]int{
	DecisionPending:   0,
	DecisionVoting:    1,
	DecisionValidated: 2,
	DecisionRejected:  2,
}

// Rank returns the position of the status in the forward-only ordering
func (s DecisionStatus) Rank() int {
	return statusRank[s]
}

// DecisionAction is a role-gated operation on a decision
type DecisionAction string

const (
	ActionPropose  DecisionAction = "propose"
	ActionVote     DecisionAction = "vote"
	ActionValidate DecisionAction = "validate"
)

// transitions is the single table every guard goes through:
// (current status, action) -> next status. Anything absent is invalid.
var transitions = map[DecisionStatus]map[DecisionAction]DecisionStatus{
	DecisionPending: {
		ActionPropose: DecisionVoting,
	},
	DecisionVoting: {
		ActionVote:     DecisionVoting,
		ActionValidate: DecisionValidated,
	},
}

// NextStatus returns the status that follows when applying action from the
// given status. The second return value is false when the transition is not
// allowed.
func NextStatus(from DecisionStatus, action DecisionAction) (DecisionStatus, bool) {
	next, ok := transitions[from][action]
	return next, ok
}

// Decision is the single mutable record of one team's response to one
// activated event. Created pending, advanced only through NextStatus
// transitions, never deleted during the session.
type Decision struct {
	ID             string         `json:"id"`
	SessionEventID string         `json:"session_event_id"`
	TeamID         string         `json:"team_id"`
	Status         DecisionStatus `json:"status"`

	ProposedOptionID *string `json:"proposed_option_id,omitempty"`
	ProposedBy       *string `json:"proposed_by,omitempty"`
	Advantages       string  `json:"advantages,omitempty"`
	Disadvantages    string  `json:"disadvantages,omitempty"`
	Justification    string  `json:"justification,omitempty"`

	DGValidated        bool       `json:"dg_validated"`
	DGValidatedBy      *string    `json:"dg_validated_by,omitempty"`
	DGValidatedAt      *time.Time `json:"dg_validated_at,omitempty"`
	DGOverrideOptionID *string    `json:"dg_override_option_id,omitempty"`
	DGComment          string     `json:"dg_comment,omitempty"`

	// AdminComment is a post-hoc grader note; it never participates in the
	// state machine.
	AdminComment string `json:"admin_comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPending reports whether the decision still awaits the specialist
func (d *Decision) IsPending() bool {
	return d.Status == DecisionPending
}

// IsVoting reports whether the proposal is open for team votes
func (d *Decision) IsVoting() bool {
	return d.Status == DecisionVoting
}

// IsValidated reports whether the director finalized the decision
func (d *Decision) IsValidated() bool {
	return d.Status == DecisionValidated
}

// Overridden reports whether the director imposed an option different from
// the specialist's proposal
func (d *Decision) Overridden() bool {
	return d.DGOverrideOptionID != nil
}
