package game

import (
	"github.com/google/uuid"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

// Result is the outcome of a completed session. There is at most one per session.
type Result struct {
	shared.BaseEntity
	SessionID     uuid.UUID
	ChildID       int64
	GameID        int64
	Score         int
	WrongCount    int
	ReactionMsSum *int
	RoundCount    *int
	SuccessCount  *int
	Meta          map[string]any
}

// Actions is the number of judged actions: successes plus mistakes.
func (r Result) Actions() int {
	return derefInt(r.SuccessCount) + r.WrongCount
}

// SuccessRate returns the success percentage, or false when no actions were recorded.
func (r Result) SuccessRate() (float64, bool) {
	actions := r.Actions()
	if actions == 0 {
		return 0, false
	}
	return float64(derefInt(r.SuccessCount)) / float64(actions) * 100, true
}

// ReachedMaxRound reports whether the play lasted the full game
func (r Result) ReachedMaxRound(maxRound int) bool {
	return r.RoundCount != nil && *r.RoundCount == maxRound
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
