package domain

import "testing"

func members(roles ...Role) []TeamMember {
	out := make([]TeamMember, len(roles))
	for i, r := range roles {
		out[i] = TeamMember{TeamID: "t-1", UserID: string(r) + "-user", Role: r}
	}
	return out
}

func TestEligibleVoters(t *testing.T) {
	team := members(RoleDG, RoleRH, RoleCommercial, RoleFinance, RoleCollaborateur)

	eligible := EligibleVoters(team, CategorySocial)
	if len(eligible) != 3 {
		t.Fatalf("expected 3 eligible voters, got %d", len(eligible))
	}
	for _, m := range eligible {
		if m.Role == RoleDG || m.Role == RoleRH {
			t.Errorf("role %s must not be eligible on a social event", m.Role)
		}
	}
}

func TestEligibleVoters_DirectionEvent(t *testing.T) {
	// The director is the specialist for direction events; only the dg is
	// excluded, once.
	team := members(RoleDG, RoleRH, RoleFinance)

	eligible := EligibleVoters(team, CategoryDirection)
	if len(eligible) != 2 {
		t.Fatalf("expected 2 eligible voters, got %d", len(eligible))
	}
}

func TestTally(t *testing.T) {
	eligible := []TeamMember{
		{UserID: "u1", Role: RoleCommercial},
		{UserID: "u2", Role: RoleFinance},
	}

	tests := []struct {
		name          string
		votes         []Vote
		wantApprovals int
		wantRejects   int
		wantQuorum    bool
	}{
		{
			name:       "no votes",
			votes:      nil,
			wantQuorum: false,
		},
		{
			name: "partial turnout",
			votes: []Vote{
				{UserID: "u1", Approved: true},
			},
			wantApprovals: 1,
			wantQuorum:    false,
		},
		{
			name: "full turnout split vote",
			votes: []Vote{
				{UserID: "u1", Approved: true},
				{UserID: "u2", Approved: false},
			},
			wantApprovals: 1,
			wantRejects:   1,
			wantQuorum:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tally(tt.votes, eligible)
			if got.Approvals != tt.wantApprovals {
				t.Errorf("Approvals = %d, want %d", got.Approvals, tt.wantApprovals)
			}
			if got.Rejections != tt.wantRejects {
				t.Errorf("Rejections = %d, want %d", got.Rejections, tt.wantRejects)
			}
			if got.QuorumReached != tt.wantQuorum {
				t.Errorf("QuorumReached = %v, want %v", got.QuorumReached, tt.wantQuorum)
			}
		})
	}
}

func TestTally_TinyTeamFallback(t *testing.T) {
	// A team where everyone is specialist or director has no eligible voters;
	// quorum then means at least one vote exists.
	got := Tally(nil, nil)
	if got.QuorumReached {
		t.Error("empty eligible set with no votes should not reach quorum")
	}

	got = Tally([]Vote{{UserID: "dg-user", Approved: true}}, nil)
	if !got.QuorumReached {
		t.Error("empty eligible set with one vote should reach quorum")
	}
}
