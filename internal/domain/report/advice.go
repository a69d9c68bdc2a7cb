package report

import (
	"github.com/kkambbaki/backend/internal/domain/shared"
)

// Fallback advice stored when generation fails
const (
	FailedAdviceTitle       = "조언 생성 실패"
	FailedAdviceDescription = "조언 생성 중 오류가 발생했습니다."
)

// Advice is an LLM generated recommendation attached to a game report.
type Advice struct {
	shared.BaseEntity
	GameReportID int64
	GameID       int64
	Title        string
	Description  string
	ErrorMessage string
}

// NewAdvice creates advice for a game report
func NewAdvice(gr *GameReport, title, description string) *Advice {
	return &Advice{
		BaseEntity:   shared.NewBaseEntity(),
		GameReportID: gr.ID,
		GameID:       gr.GameID,
		Title:        title,
		Description:  description,
	}
}

// NewFailedAdvice records a generation failure in place of real advice
func NewFailedAdvice(gr *GameReport, cause error) *Advice {
	a := NewAdvice(gr, FailedAdviceTitle, FailedAdviceDescription)
	if cause != nil {
		a.ErrorMessage = cause.Error()
	}
	return a
}

// IsFailure reports whether the advice is a failure placeholder
func (a *Advice) IsFailure() bool {
	return a.ErrorMessage != ""
}
