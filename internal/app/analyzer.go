package app

import (
	"fmt"
	"sort"
)

const (
	// DefaultTopContributors is the number of top contributors taken into account when computing share.
	DefaultTopContributors = 25

	// DefaultBoundary is the share above which project is considered at risk.
	DefaultBoundary = 0.75
)

// Analyze computes top contributor's share of the combined contributions of the top `topK` contributors.
// Returns nil entry if share doesn't exceed boundary.
//
// Contributors list must not be empty, input slice is not modified.
func Analyze(projectID int, contributors []Contributor, topK int, boundary float64) (*RiskEntry, error) {
	if len(contributors) == 0 {
		return nil, PreconditionError("contributors list cannot be empty")
	}
	if topK < 1 {
		return nil, PreconditionError(fmt.Sprintf("top contributors count must be positive, got %d", topK))
	}
	if boundary <= 0 || boundary >= 1 {
		return nil, PreconditionError(fmt.Sprintf("boundary must be in range (0..1), got %v", boundary))
	}

	sorted := make([]Contributor, len(contributors))
	copy(sorted, contributors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Contributions > sorted[j].Contributions
	})
	if len(sorted) > topK {
		sorted = sorted[:topK]
	}

	var total int
	for _, c := range sorted {
		total += c.Contributions
	}
	// Nobody contributed anything, share is undefined.
	if total == 0 {
		return nil, nil
	}

	top := sorted[0]
	share := float64(top.Contributions) / float64(total)
	if share <= boundary {
		return nil, nil
	}

	return &RiskEntry{
		ProjectID: projectID,
		TopLogin:  top.User.Login,
		Share:     share,
	}, nil
}
