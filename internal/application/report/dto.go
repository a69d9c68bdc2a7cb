package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/report"
)

// Task names
const (
	TaskGenerateReport                 = "generate_report"
	TaskSendReportEmail                = "send_report_email"
	TaskSendReportEmailWithExistingPDF = "send_report_email_with_existing_pdf"
	JobCleanupExpiredPDFs              = "cleanup_expired_pdfs"
)

// Defaults of the report email task
const (
	DefaultPDFFilename = "report.pdf"
	DefaultSiteName    = "깜빡이"
)

// ChildSummary is the child block of a report detail
type ChildSummary struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	BirthYear int             `json:"birth_year"`
	Gender    identity.Gender `json:"gender"`
}

// AdviceDetail is one advice of a game report
type AdviceDetail struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// GameReportDetail is one game section of a report detail
type GameReportDetail struct {
	ID                     int64          `json:"id"`
	GameName               string         `json:"game_name"`
	GameCode               game.Code      `json:"game_code"`
	LastReflectedSessionID *uuid.UUID     `json:"last_reflected_session_id"`
	IsUpToDate             bool           `json:"is_up_to_date"`
	TotalPlaysCount        int            `json:"total_plays_count"`
	TotalPlayRoundsCount   int            `json:"total_play_rounds_count"`
	MaxRoundsCount         int            `json:"max_rounds_count"`
	TotalReactionMsSum     int            `json:"total_reaction_ms_sum"`
	TotalPlayActionsCount  int            `json:"total_play_actions_count"`
	TotalSuccessCount      int            `json:"total_success_count"`
	TotalWrongCount        int            `json:"total_wrong_count"`
	TotalReactionMsAvg     *int           `json:"total_reaction_ms_avg"`
	WrongRate              *float64       `json:"wrong_rate"`
	AvgRoundsCount         *float64       `json:"avg_rounds_count"`
	MaxRoundsRatio         *float64       `json:"max_rounds_ratio"`
	Meta                   map[string]any `json:"meta"`
	Advices                []AdviceDetail `json:"advices"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

// ReportDetail is the full report shown to parents and rendered to PDF
type ReportDetail struct {
	ID                 int64              `json:"id"`
	Child              ChildSummary       `json:"child"`
	ConcentrationScore int                `json:"concentration_score"`
	GameReports        []GameReportDetail `json:"game_reports"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// StatusResult is the outcome of a status check
type StatusResult struct {
	Status      report.Status `json:"status"`
	Description string        `json:"description"`
}

// DetailInput identifies the caller of a report detail request.
// ViaBotToken skips the PIN gate.
type DetailInput struct {
	UserID      int64
	PIN         *string
	ViaBotToken bool
}

// EmailRequestInput asks for the report to be mailed
type EmailRequestInput struct {
	UserID int64
	Email  string
}

// GenerateReportPayload is the payload of generate_report
type GenerateReportPayload struct {
	UserID  int64 `json:"user_id"`
	ChildID int64 `json:"child_id"`
}

// SendReportEmailPayload is the payload of both report email tasks
type SendReportEmailPayload struct {
	ToEmail     string `json:"to_email"`
	SiteURL     string `json:"site_url,omitempty"`
	PDFFilePath string `json:"pdf_file_path,omitempty"`
	PDFFilename string `json:"pdf_filename,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	BotTokenID  *int64 `json:"bot_token_id,omitempty"`
}

func (p *SendReportEmailPayload) applyDefaults() {
	if p.PDFFilename == "" {
		p.PDFFilename = DefaultPDFFilename
	}
	if p.SiteName == "" {
		p.SiteName = DefaultSiteName
	}
}

// TaskResult is what report tasks hand back to the queue and the CLI
type TaskResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	ReportID    int64  `json:"report_id,omitempty"`
	PDFFilePath string `json:"pdf_file_path,omitempty"`
}

func toReportDetail(rep *report.Report, child *identity.Child, upToDate map[int64]bool) *ReportDetail {
	out := &ReportDetail{
		ID: rep.ID,
		Child: ChildSummary{
			ID:        child.ID,
			Name:      child.Name,
			BirthYear: child.BirthYear,
			Gender:    child.Gender,
		},
		ConcentrationScore: rep.ConcentrationScore,
		GameReports:        make([]GameReportDetail, 0, len(rep.GameReports)),
		CreatedAt:          rep.CreatedAt,
		UpdatedAt:          rep.UpdatedAt,
	}
	for i := range rep.GameReports {
		gr := &rep.GameReports[i]
		d := GameReportDetail{
			ID:                     gr.ID,
			LastReflectedSessionID: gr.LastReflectedSessionID,
			IsUpToDate:             upToDate[gr.ID],
			TotalPlaysCount:        gr.TotalPlaysCount,
			TotalPlayRoundsCount:   gr.TotalPlayRoundsCount,
			MaxRoundsCount:         gr.MaxRoundsCount,
			TotalReactionMsSum:     gr.TotalReactionMsSum,
			TotalPlayActionsCount:  gr.TotalPlayActionsCount,
			TotalSuccessCount:      gr.TotalSuccessCount,
			TotalWrongCount:        gr.TotalWrongCount,
			TotalReactionMsAvg:     gr.ReactionMsAvg(),
			WrongRate:              gr.WrongRate(),
			AvgRoundsCount:         gr.AvgRoundsCount(),
			MaxRoundsRatio:         gr.MaxRoundsRatio(),
			Meta:                   gr.Meta,
			Advices:                make([]AdviceDetail, len(gr.Advices)),
			CreatedAt:              gr.CreatedAt,
			UpdatedAt:              gr.UpdatedAt,
		}
		if gr.Game != nil {
			d.GameName = gr.Game.Name
			d.GameCode = gr.Game.Code
		}
		for j, a := range gr.Advices {
			d.Advices[j] = AdviceDetail{ID: a.ID, Title: a.Title, Description: a.Description, CreatedAt: a.CreatedAt}
		}
		out.GameReports = append(out.GameReports, d)
	}
	return out
}
