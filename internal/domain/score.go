package domain

import (
	"math"
	"time"
)

// ScoreVector holds point values over the five business dimensions
type ScoreVector struct {
	Finance    int `json:"finance"`
	Commercial int `json:"commercial"`
	Social     int `json:"social"`
	Production int `json:"production"`
	Direction  int `json:"direction"`
}

// Add returns the elementwise sum of two vectors
func (v ScoreVector) Add(o ScoreVector) ScoreVector {
	return ScoreVector{
		Finance:    v.Finance + o.Finance,
		Commercial: v.Commercial + o.Commercial,
		Social:     v.Social + o.Social,
		Production: v.Production + o.Production,
		Direction:  v.Direction + o.Direction,
	}
}

// IsZero reports whether every dimension is zero
func (v ScoreVector) IsZero() bool {
	return v == ScoreVector{}
}

// Moyenne returns the arithmetic mean of the five dimensions, rounded to
// 2 decimal places
func (v ScoreVector) Moyenne() float64 {
	sum := float64(v.Finance + v.Commercial + v.Social + v.Production + v.Direction)
	return math.Round(sum/5*100) / 100
}

// TeamScore is an append-only snapshot of a team's cumulative totals for a
// session. A new decision produces a new snapshot; existing rows are never
// mutated.
type TeamScore struct {
	ID             string      `json:"id"`
	SessionID      string      `json:"session_id"`
	TeamID         string      `json:"team_id"`
	SessionEventID *string     `json:"session_event_id,omitempty"`
	Points         ScoreVector `json:"points"`
	PointsMoyenne  float64     `json:"points_moyenne"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NextScore computes the snapshot that follows prev after applying delta.
// A nil prev means the team has no history yet and starts from the zero
// vector. The returned snapshot carries no ID; the store assigns one on
// append.
func NextScore(prev *TeamScore, sessionID, teamID string, sessionEventID *string, delta ScoreVector) TeamScore {
	base := ScoreVector{}
	if prev != nil {
		base = prev.Points
	}
	points := base.Add(delta)
	return TeamScore{
		SessionID:      sessionID,
		TeamID:         teamID,
		SessionEventID: sessionEventID,
		Points:         points,
		PointsMoyenne:  points.Moyenne(),
	}
}
