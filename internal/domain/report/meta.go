package report

import (
	"math"

	"github.com/kkambbaki/backend/internal/domain/game"
)

// DefaultFocusMinutes is reported when no result carries focus_time_minutes
const DefaultFocusMinutes = 10.0

// GameMeta summarises the results of one game in the figures the report page
// shows next to the stats. Unknown game codes have no meta.
func GameMeta(code game.Code, results []game.Result) map[string]any {
	switch code {
	case game.CodeKidsTraffic:
		return kidsTrafficMeta(results)
	case game.CodeBBStar:
		return bbStarMeta(results)
	default:
		return nil
	}
}

// kidsTrafficMeta: error_rate is mistakes per round, reaction_time is the
// mean reaction sum per round in seconds.
func kidsTrafficMeta(results []game.Result) map[string]any {
	var (
		rounds, wrong int
		reactionSum   int
		reactionCount int
		focusSum      float64
		focusCount    int
	)
	for i := range results {
		r := &results[i]
		if r.RoundCount != nil {
			rounds += *r.RoundCount
		}
		wrong += r.WrongCount
		if r.ReactionMsSum != nil {
			reactionSum += *r.ReactionMsSum
			reactionCount++
		}
		if v, ok := number(r.Meta["focus_time_minutes"]); ok {
			focusSum += v
			focusCount++
		}
	}

	var errorRate, reactionTime float64
	if rounds > 0 {
		errorRate = float64(wrong) / float64(rounds) * 100
		if reactionCount > 0 {
			avgReaction := float64(reactionSum) / float64(reactionCount)
			reactionTime = avgReaction / float64(rounds) / 1000
		}
	}
	focus := DefaultFocusMinutes
	if focusCount > 0 {
		focus = focusSum / float64(focusCount)
	}

	return map[string]any{
		"error_rate":     round2(errorRate),
		"reaction_time":  round2(reactionTime),
		"avg_focus_time": round2(focus),
		"session_count":  len(results),
	}
}

// bbStarMeta reads the per-round log in meta.rounds. The first half of each
// play counts as early, the rest as late.
func bbStarMeta(results []game.Result) map[string]any {
	var earlyRounds, earlySuccess, lateRounds, lateSuccess, total, wrong, timeouts int
	for i := range results {
		rounds, _ := results[i].Meta["rounds"].([]any)
		for idx, raw := range rounds {
			round, _ := raw.(map[string]any)
			success, _ := round["success"].(bool)
			timeout, _ := round["timeout"].(bool)
			total++
			if float64(idx) < float64(len(rounds))/2 {
				earlyRounds++
				if success {
					earlySuccess++
				}
			} else {
				lateRounds++
				if success {
					lateSuccess++
				}
			}
			if !success {
				wrong++
			}
			if timeout {
				timeouts++
			}
		}
	}

	return map[string]any{
		"early_success_rate": percent(earlySuccess, earlyRounds),
		"late_success_rate":  percent(lateSuccess, lateRounds),
		"error_rate":         percent(wrong, total),
		"timeout_rate":       percent(timeouts, total),
	}
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// number accepts the numeric shapes a JSON column decodes into
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
