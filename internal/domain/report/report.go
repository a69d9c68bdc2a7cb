// Package report models the per-child concentration report and its per-game breakdown.
package report

import (
	"github.com/kkambbaki/backend/internal/domain/shared"
)

// Status of a report
type Status string

const (
	StatusNoGamesPlayed Status = "no_games_played"
	StatusNotUpToDate   Status = "no_up_to_date"
	StatusPending       Status = "pending"
	StatusGenerating    Status = "generating"
	StatusCompleted     Status = "completed"
	StatusError         Status = "error"
)

// Label returns the Korean description shown to parents
func (s Status) Label() string {
	switch s {
	case StatusNoGamesPlayed:
		return "게임 미플레이"
	case StatusNotUpToDate:
		return "최신 아님"
	case StatusPending:
		return "대기 중"
	case StatusGenerating:
		return "진행 중"
	case StatusCompleted:
		return "완료"
	case StatusError:
		return "오류 발생"
	}
	return string(s)
}

const (
	minConcentrationScore = 0
	maxConcentrationScore = 100
)

// Report is the single concentration report of a (user, child) pair.
type Report struct {
	shared.BaseEntity
	UserID             int64
	ChildID            int64
	ConcentrationScore int
	Status             Status

	// GameReports is populated by detail queries.
	GameReports []GameReport
}

// NewReport creates an empty report in the no_games_played state
func NewReport(userID, childID int64) *Report {
	return &Report{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ChildID:    childID,
		Status:     StatusNoGamesPlayed,
	}
}

// SetConcentrationScore stores the score clamped to 0..100
func (r *Report) SetConcentrationScore(score int) {
	r.ConcentrationScore = clamp(score, minConcentrationScore, maxConcentrationScore)
	r.Touch()
}

// SetStatus changes the status
func (r *Report) SetStatus(s Status) {
	r.Status = s
	r.Touch()
}

// IsGenerating reports whether a generation task owns the report
func (r *Report) IsGenerating() bool {
	return r.Status == StatusGenerating
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
