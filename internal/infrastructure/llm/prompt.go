package llm

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/report"
)

const outputExample = `{
  "analysis": [
    {
      "title": "제목 예시 1",
      "description": "설명 예시 1"
    },
    {
      "title": "제목 예시 2",
      "description": "설명 예시 2"
    }
  ]
}`

const adviceInstructions = `- 요약 제목과 설명을 합쳐서, 2개 작성하세요.
- 제목은 30글자 이내의 문장으로 작성하세요.
- 설명은 2문장 이내로 작성하세요.
- 긍정적인 피드백도 포함하고, 모든 결과는 JSON 형식으로 다음 구조만 반환하세요:`

const kidsTrafficSystemPrompt = `You are an AI cognitive psychologist generating short behavioral insights for parents.
Based on the following Go/No-Go game data, write concise Korean guidance sentences
under the key "analysis" in JSON format only.

게임명: 꼬마 교통지킴이
측정 항목 설명:
- 전체 플레이 횟수: 게임을 플레이한 총 횟수
- 전체 플레이 라운드 수: 완료한 모든 라운드의 합계
- 최대 도달 라운드 횟수: 게임의 최대 라운드까지 도달한 횟수
- 평균 반응시간: 액션당 평균 반응 속도 (밀리초)
- 전체 플레이 액션 수: 성공 + 오답의 총 액션 수
- 전체 성공 횟수: 올바른 반응의 총 횟수
- 전체 오답 횟수: 잘못된 반응의 총 횟수
- 오답률: 전체 액션 중 오답 비율 (%)

참고:
- 이 게임은 빨간불(No-Go)에서 멈추고, 초록불(Go)에서 움직이는 반응 억제 과제를 기반으로 합니다.
- 한 게임에 최대 라운드는 10 라운드입니다.
- 각 라운드에서는 최대 5번의 신호가 변경하는 액션이 주어집니다.
- 라운드에서 3번 오답시 해당 라운드는 실패하고, 게임도 종료됩니다.
- 오답률은 충동성의 정도를, 평균 반응시간은 판단 속도를 나타냅니다.
- 최대 도달 라운드 횟수는 집중력 지속 능력을 나타냅니다.
- 최근 플레이 경험은 아이의 현재 인지 상태가 어떻게 변화해가는지를 반영합니다.

[Instructions]
- 아이의 행동 경향을 분석하고, 가정에서 시도할 수 있는 구체적인 조언을 요약 제목과 설명으로 작성하세요.
` + adviceInstructions + "\n\n" + outputExample

const bbStarSystemPrompt = `You are an AI cognitive psychologist generating short behavioral insights for parents.
Use the following sequence memory game data to write Korean insights under "analysis" key in JSON format only.

게임명: 뿅뿅 아기별
측정 항목 설명:
- 전체 플레이 횟수: 게임을 플레이한 총 횟수
- 전체 플레이 라운드 수: 완료한 모든 라운드의 합계
- 최대 도달 라운드 횟수: 게임의 최대 라운드까지 도달한 횟수
- 전체 플레이 액션 수: 성공 + 오답의 총 액션 수
- 전체 성공 횟수: 올바른 순서 입력의 총 횟수
- 전체 오답 횟수: 잘못된 순서 입력의 총 횟수
- 오답률: 전체 액션 중 오답 비율 (%)

참고:
- 이 게임은 깜빡이는 별의 순서를 기억하고 입력하는 '순서 기억 과제'를 기반으로 하며,
작업 기억력과 주의력 유지 능력을 평가합니다.
- 한 게임에 최대 라운드는 10 라운드입니다.
- 라운드에서는 별이 최대 9개까지 깜빡이며, 아이는 이를 올바른 순서로 입력해야 합니다.
- 오답률이 높을수록 주의 분산이나 기억 유지의 어려움을 의미할 수 있습니다.
- 최대 도달 라운드 횟수는 집중력 지속 능력을 나타냅니다.
- 최근 플레이 경험은 아이의 현재 인지 상태가 어떻게 변화해가는지를 반영합니다.

[Instructions]
- 데이터를 해석하여 아이의 집중력 패턴을 분석하고, 가정에서 시도할 수 있는 구체적인 조언을 요약 제목과 설명으로 작성하세요.
` + adviceInstructions + "\n\n" + outputExample

var userPromptTemplate = template.Must(template.New("user").Parse(`게임 결과:
- 전체 플레이 횟수: {{.TotalPlaysCount}}회
- 전체 플레이 라운드 수: {{.TotalPlayRoundsCount}}라운드
- 최대 도달 라운드 횟수: {{.MaxRoundsCount}}회
{{- if .ShowReaction}}
- 평균 반응시간: {{.ReactionMsAvg}}ms
{{- end}}
- 전체 플레이 액션 수: {{.TotalPlayActionsCount}}회
- 전체 성공 횟수: {{.TotalSuccessCount}}회
- 전체 오답 횟수: {{.TotalWrongCount}}회
- 오답률: {{.WrongRate}}%

최근 플레이 경향:
{{.RecentTrends}}

위 데이터를 바탕으로 아이의 {{.Focus}}을 분석하고, 가정에서 시도할 수 있는 구체적인 조언을 작성하세요.
최근 플레이 경향을 활용하여 아이의 발전 방향이나 개선점을 파악해주세요.
긍정적인 피드백도 포함하고, 모든 결과는 JSON 형식으로 반환하세요.

예시 출력:
` + outputExample))

type userPromptData struct {
	report.Stats
	ShowReaction  bool
	ReactionMsAvg int
	WrongRate     string
	RecentTrends  string
	Focus         string
}

// BuildPrompt renders the game specific prompt for a game report.
// recent must be ordered newest first.
func BuildPrompt(code game.Code, gr *report.GameReport, recent []game.Result) (Prompt, error) {
	data := userPromptData{
		Stats:        gr.Stats,
		WrongRate:    formatRate(gr.WrongRate()),
		RecentTrends: FormatRecentTrends(recent, code == game.CodeKidsTraffic),
	}
	if avg := gr.ReactionMsAvg(); avg != nil {
		data.ReactionMsAvg = *avg
	}

	var system string
	switch code {
	case game.CodeKidsTraffic:
		system = kidsTrafficSystemPrompt
		data.ShowReaction = true
		data.Focus = "행동 경향"
	case game.CodeBBStar:
		system = bbStarSystemPrompt
		data.Focus = "집중력 패턴"
	default:
		return Prompt{}, fmt.Errorf("no advice prompt for game %s", code)
	}

	var buf bytes.Buffer
	if err := userPromptTemplate.Execute(&buf, data); err != nil {
		return Prompt{}, fmt.Errorf("render prompt: %w", err)
	}
	return Prompt{System: system, User: buf.String()}, nil
}

// FormatRecentTrends renders one line per result, newest first
func FormatRecentTrends(results []game.Result, withReaction bool) string {
	if len(results) == 0 {
		return "- 최근 플레이 기록이 없습니다."
	}
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: 점수 %d, 도달 라운드 %s, 성공 %s회, 오답 %d회",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Score,
			optionalInt(r.RoundCount), optionalInt(r.SuccessCount), r.WrongCount)
		if withReaction && r.ReactionMsSum != nil && r.Actions() > 0 {
			fmt.Fprintf(&b, ", 평균 반응시간 %dms", *r.ReactionMsSum/r.Actions())
		}
	}
	return b.String()
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatRate(v *float64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
