package report

import (
	"math"

	"github.com/kkambbaki/backend/internal/domain/game"
)

// Concentration score weights. They sum to 1.1; the improvement part is a
// bonus and the final score is capped at 100.
const (
	weightSuccessRate  = 0.4
	weightMaxRound     = 0.3
	weightConsistency  = 0.3
	weightImprovement  = 0.1
	recentResultsCount = 2
	neutralImprovement = 50.0
	improvementScale   = 2.5
)

// ScoreInput is one game's contribution to the concentration score.
type ScoreInput struct {
	GameReport *GameReport
	MaxRound   int
	// Results must be ordered newest first.
	Results []game.Result
}

// GameScoreBreakdown exposes the components of one game's score
type GameScoreBreakdown struct {
	SuccessRate float64
	MaxRound    float64
	Consistency float64
	Improvement float64
	Total       float64
}

// ConcentrationScore averages the per-game scores of games that were played
// and rounds half to even. Games without plays are ignored; none gives 0.
func ConcentrationScore(inputs []ScoreInput) int {
	var total float64
	var counted int
	for _, in := range inputs {
		if in.GameReport == nil || in.GameReport.TotalPlaysCount == 0 {
			continue
		}
		total += ScoreGame(in).Total
		counted++
	}
	if counted == 0 {
		return 0
	}
	avg := math.RoundToEven(total / float64(counted))
	return clamp(int(avg), minConcentrationScore, maxConcentrationScore)
}

// ScoreGame computes one game's weighted score, which may exceed 100.
func ScoreGame(in ScoreInput) GameScoreBreakdown {
	b := GameScoreBreakdown{
		SuccessRate: successRateScore(in.GameReport),
		MaxRound:    maxRoundScore(in.GameReport, in.MaxRound),
		Consistency: consistencyScore(in.GameReport),
		Improvement: improvementScore(in.Results),
	}
	b.Total = b.SuccessRate*weightSuccessRate +
		b.MaxRound*weightMaxRound +
		b.Consistency*weightConsistency +
		b.Improvement*weightImprovement
	return b
}

func successRateScore(gr *GameReport) float64 {
	if gr.TotalPlayActionsCount == 0 {
		return 0
	}
	rate := float64(gr.TotalSuccessCount) / float64(gr.TotalPlayActionsCount) * 100
	return math.Min(100, rate)
}

func maxRoundScore(gr *GameReport, maxRound int) float64 {
	ratio := gr.MaxRoundsRatio()
	if ratio == nil {
		return 0
	}
	var avgRoundRate float64
	if avg := gr.AvgRoundsCount(); avg != nil && maxRound > 0 {
		avgRoundRate = *avg / float64(maxRound) * 100
	}
	return math.Min(100, *ratio*0.6+avgRoundRate*0.4)
}

func consistencyScore(gr *GameReport) float64 {
	wrong := gr.WrongRate()
	if wrong == nil {
		return 0
	}
	return math.Max(0, 100-*wrong)
}

// improvementScore compares the two newest scored results with the rest.
// 50 means no change. Results without a success count are not scored.
func improvementScore(results []game.Result) float64 {
	if len(results) < 2 {
		return neutralImprovement
	}
	rates := make([]float64, 0, len(results))
	for _, r := range results {
		if r.SuccessCount == nil {
			continue
		}
		if rate, ok := r.SuccessRate(); ok {
			rates = append(rates, rate)
		}
	}
	if len(rates) < 2 {
		return neutralImprovement
	}
	recent := mean(rates[:recentResultsCount])
	older := recent
	if len(rates) > recentResultsCount {
		older = mean(rates[recentResultsCount:])
	}
	score := neutralImprovement + (recent-older)*improvementScale
	return math.Max(0, math.Min(100, score))
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
