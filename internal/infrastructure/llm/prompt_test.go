package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/report"
)

func intPtr(v int) *int { return &v }

func TestBuildPrompt_KidsTraffic(t *testing.T) {
	p, err := BuildPrompt(game.CodeKidsTraffic, playedGameReport(), nil)
	require.NoError(t, err)

	assert.Contains(t, p.System, "꼬마 교통지킴이")
	assert.Contains(t, p.System, "Go/No-Go")
	assert.Contains(t, p.User, "- 전체 플레이 횟수: 3회")
	assert.Contains(t, p.User, "- 평균 반응시간: 600ms")
	assert.Contains(t, p.User, "- 오답률: 15.00%")
	assert.Contains(t, p.User, "최근 플레이 기록이 없습니다")
	assert.Contains(t, p.User, `"analysis"`)
}

func TestBuildPrompt_BBStarOmitsReaction(t *testing.T) {
	p, err := BuildPrompt(game.CodeBBStar, playedGameReport(), nil)
	require.NoError(t, err)

	assert.Contains(t, p.System, "뿅뿅 아기별")
	assert.Contains(t, p.System, "최대 9개")
	assert.NotContains(t, p.User, "평균 반응시간")
	assert.Contains(t, p.User, "- 전체 오답 횟수: 6회")
}

func TestBuildPrompt_NoActions(t *testing.T) {
	gr := report.NewGameReport(1, &game.Game{Code: game.CodeBBStar})
	p, err := BuildPrompt(game.CodeBBStar, gr, nil)
	require.NoError(t, err)
	assert.Contains(t, p.User, "- 오답률: 0%")
}

func TestFormatRecentTrends(t *testing.T) {
	at := time.Date(2025, 11, 3, 14, 5, 0, 0, time.UTC)
	results := []game.Result{
		{Score: 120, WrongCount: 2, RoundCount: intPtr(7), SuccessCount: intPtr(18), ReactionMsSum: intPtr(10000)},
		{Score: 40, WrongCount: 3},
	}
	results[0].CreatedAt = at
	results[1].CreatedAt = at.Add(-time.Hour)

	out := FormatRecentTrends(results, true)
	assert.Equal(t,
		"- 2025-11-03 14:05: 점수 120, 도달 라운드 7, 성공 18회, 오답 2회, 평균 반응시간 500ms\n"+
			"- 2025-11-03 13:05: 점수 40, 도달 라운드 -, 성공 -회, 오답 3회",
		out)

	assert.NotContains(t, FormatRecentTrends(results, false), "평균 반응시간")
}
