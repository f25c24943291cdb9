package domain

// TallyResult summarizes the votes cast on a decision. It is computed on
// read, for display only; it never gates the director's Validate.
type TallyResult struct {
	Approvals      int  `json:"approvals"`
	Rejections     int  `json:"rejections"`
	EligibleVoters int  `json:"eligible_voters"`
	QuorumReached  bool `json:"quorum_reached"`
}

// EligibleVoters returns the team members allowed to vote on an event of the
// given category: everyone except the category's specialist and the director.
func EligibleVoters(members []TeamMember, category Category) []TeamMember {
	specialist := category.SpecialistRole()
	var eligible []TeamMember
	for _, m := range members {
		if m.Role == specialist || m.Role == RoleDG {
			continue
		}
		eligible = append(eligible, m)
	}
	return eligible
}

// Tally computes approval and rejection counts plus quorum over the eligible
// voter set. Quorum means every eligible voter has a recorded vote; a team so
// small that nobody is eligible reaches quorum as soon as any vote exists.
func Tally(votes []Vote, eligible []TeamMember) TallyResult {
	result := TallyResult{EligibleVoters: len(eligible)}

	voted := make(map[string]bool, len(votes))
	for _, v := range votes {
		voted[v.UserID] = true
		if v.Approved {
			result.Approvals++
		} else {
			result.Rejections++
		}
	}

	if len(eligible) == 0 {
		result.QuorumReached = len(votes) > 0
		return result
	}

	result.QuorumReached = true
	for _, m := range eligible {
		if !voted[m.UserID] {
			result.QuorumReached = false
			break
		}
	}
	return result
}
