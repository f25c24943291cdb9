package domain

import "testing"

func TestScoreVectorMoyenne(t *testing.T) {
	tests := []struct {
		name string
		v    ScoreVector
		want float64
	}{
		{
			name: "zero vector",
			v:    ScoreVector{},
			want: 0,
		},
		{
			name: "single dimension",
			v:    ScoreVector{Social: 10},
			want: 2.0,
		},
		{
			name: "negative dimension",
			v:    ScoreVector{Social: -15},
			want: -3.0,
		},
		{
			name: "rounded to two decimals",
			v:    ScoreVector{Finance: 1, Commercial: 1, Social: 1},
			want: 0.6, // 3/5
		},
		{
			name: "non-terminating mean",
			v:    ScoreVector{Finance: 2, Commercial: 2, Social: 2, Production: 1},
			want: 1.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Moyenne(); got != tt.want {
				t.Errorf("Moyenne() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextScore_FirstSnapshot(t *testing.T) {
	seID := "se-1"
	got := NextScore(nil, "s-1", "t-1", &seID, ScoreVector{Social: 10})

	if got.Points.Social != 10 {
		t.Errorf("Social = %d, want 10", got.Points.Social)
	}
	if got.PointsMoyenne != 2.0 {
		t.Errorf("PointsMoyenne = %v, want 2.0", got.PointsMoyenne)
	}
	if got.SessionID != "s-1" || got.TeamID != "t-1" {
		t.Errorf("snapshot keys = (%s, %s)", got.SessionID, got.TeamID)
	}
}

func TestNextScore_AccumulatesOnPrevious(t *testing.T) {
	prev := &TeamScore{
		ID:        "score-1",
		SessionID: "s-1",
		TeamID:    "t-1",
		Points:    ScoreVector{Finance: 5, Social: 10},
	}

	got := NextScore(prev, "s-1", "t-1", nil, ScoreVector{Social: -15, Production: 5})

	want := ScoreVector{Finance: 5, Social: -5, Production: 5}
	if got.Points != want {
		t.Errorf("Points = %+v, want %+v", got.Points, want)
	}
	if got.PointsMoyenne != 1.0 {
		t.Errorf("PointsMoyenne = %v, want 1.0", got.PointsMoyenne)
	}
	// The previous snapshot must be untouched.
	if prev.Points.Social != 10 {
		t.Errorf("previous snapshot mutated: %+v", prev.Points)
	}
	if got.ID != "" {
		t.Errorf("new snapshot should not carry an ID before append, got %q", got.ID)
	}
}
