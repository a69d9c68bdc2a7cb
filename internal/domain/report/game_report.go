package report

import (
	"github.com/google/uuid"
	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

// Stats are the aggregated counters of every result a child has in one game.
type Stats struct {
	TotalPlaysCount       int
	TotalPlayRoundsCount  int
	MaxRoundsCount        int
	TotalReactionMsSum    int
	TotalPlayActionsCount int
	TotalSuccessCount     int
	TotalWrongCount       int
}

// IsZero reports whether every counter is zero
func (s Stats) IsZero() bool {
	return s == Stats{}
}

// GameReport is the per-game section of a report.
type GameReport struct {
	shared.BaseEntity
	ReportID               int64
	GameID                 int64
	LastReflectedSessionID *uuid.UUID
	Stats
	Meta map[string]any

	// Populated by detail queries.
	Game    *game.Game
	Advices []Advice
}

// NewGameReport creates an empty game report
func NewGameReport(reportID int64, g *game.Game) *GameReport {
	return &GameReport{
		BaseEntity: shared.NewBaseEntity(),
		ReportID:   reportID,
		GameID:     g.ID,
		Meta:       map[string]any{},
		Game:       g,
	}
}

// ReactionMsAvg is the mean reaction time per action in whole milliseconds
func (gr *GameReport) ReactionMsAvg() *int {
	if gr.TotalPlayActionsCount == 0 {
		return nil
	}
	avg := gr.TotalReactionMsSum / gr.TotalPlayActionsCount
	return &avg
}

// WrongRate is the mistake percentage over all actions
func (gr *GameReport) WrongRate() *float64 {
	if gr.TotalPlayActionsCount == 0 {
		return nil
	}
	rate := float64(gr.TotalWrongCount) / float64(gr.TotalPlayActionsCount) * 100
	return &rate
}

// AvgRoundsCount is the mean number of rounds reached per play
func (gr *GameReport) AvgRoundsCount() *float64 {
	if gr.TotalPlaysCount == 0 {
		return nil
	}
	avg := float64(gr.TotalPlayRoundsCount) / float64(gr.TotalPlaysCount)
	return &avg
}

// MaxRoundsRatio is the percentage of plays that reached the final round
func (gr *GameReport) MaxRoundsRatio() *float64 {
	if gr.TotalPlaysCount == 0 {
		return nil
	}
	ratio := float64(gr.MaxRoundsCount) / float64(gr.TotalPlaysCount) * 100
	return &ratio
}

// IsUpToDate compares the reflected session with the latest one.
// No results at all counts as up to date.
func (gr *GameReport) IsUpToDate(latestSessionID *uuid.UUID) bool {
	if latestSessionID == nil {
		return true
	}
	return gr.LastReflectedSessionID != nil && *gr.LastReflectedSessionID == *latestSessionID
}

// Aggregate recomputes the stats and the meta figures from every result of
// the child in g. It returns false and leaves both untouched when there are
// no results.
func (gr *GameReport) Aggregate(g *game.Game, results []game.Result) bool {
	if len(results) == 0 {
		return false
	}
	var s Stats
	for i := range results {
		r := &results[i]
		s.TotalPlaysCount++
		if r.RoundCount != nil {
			s.TotalPlayRoundsCount += *r.RoundCount
		}
		if r.ReachedMaxRound(g.MaxRound) {
			s.MaxRoundsCount++
		}
		if r.ReactionMsSum != nil {
			s.TotalReactionMsSum += *r.ReactionMsSum
		}
		if r.SuccessCount != nil {
			s.TotalSuccessCount += *r.SuccessCount
		}
		s.TotalWrongCount += r.WrongCount
	}
	s.TotalPlayActionsCount = s.TotalSuccessCount + s.TotalWrongCount
	gr.Stats = s
	if meta := GameMeta(g.Code, results); meta != nil {
		gr.Meta = meta
	}
	gr.Touch()
	return true
}

// MarkReflected records the newest session included in the stats
func (gr *GameReport) MarkReflected(sessionID *uuid.UUID) {
	gr.LastReflectedSessionID = sessionID
	gr.Touch()
}
