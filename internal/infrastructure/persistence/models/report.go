package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kkambbaki/backend/internal/domain/report"
)

// ReportModel is the persistence model for concentration reports
type ReportModel struct {
	BaseModel
	UserID             int64  `gorm:"not null;uniqueIndex:uq_reports_user_child"`
	ChildID            int64  `gorm:"not null;uniqueIndex:uq_reports_user_child"`
	ConcentrationScore int    `gorm:"not null;default:0"`
	Status             string `gorm:"type:varchar(20);not null;default:'no_games_played'"`
}

// TableName returns the table name for GORM
func (ReportModel) TableName() string {
	return "reports"
}

// ToDomain converts the persistence model to a domain Report
func (m *ReportModel) ToDomain() *report.Report {
	return &report.Report{
		BaseEntity:         m.BaseModel.ToDomain(),
		UserID:             m.UserID,
		ChildID:            m.ChildID,
		ConcentrationScore: m.ConcentrationScore,
		Status:             report.Status(m.Status),
	}
}

// ReportModelFromDomain creates a persistence model from a domain Report
func ReportModelFromDomain(r *report.Report) *ReportModel {
	m := &ReportModel{
		UserID:             r.UserID,
		ChildID:            r.ChildID,
		ConcentrationScore: r.ConcentrationScore,
		Status:             string(r.Status),
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// GameReportModel is the persistence model for the per-game section of a report
type GameReportModel struct {
	BaseModel
	ReportID               int64                   `gorm:"not null;uniqueIndex:uq_game_reports_report_game"`
	GameID                 int64                   `gorm:"not null;uniqueIndex:uq_game_reports_report_game"`
	LastReflectedSessionID *uuid.UUID              `gorm:"type:uuid"`
	TotalPlaysCount        int                     `gorm:"not null;default:0"`
	TotalPlayRoundsCount   int                     `gorm:"not null;default:0"`
	MaxRoundsCount         int                     `gorm:"not null;default:0"`
	TotalReactionMsSum     int                     `gorm:"not null;default:0"`
	TotalPlayActionsCount  int                     `gorm:"not null;default:0"`
	TotalSuccessCount      int                     `gorm:"not null;default:0"`
	TotalWrongCount        int                     `gorm:"not null;default:0"`
	Meta                   JSONMap                 `gorm:"type:jsonb;serializer:json;not null"`
	Game                   *GameModel              `gorm:"foreignKey:GameID"`
	Advices                []GameReportAdviceModel `gorm:"foreignKey:GameReportID"`
}

// TableName returns the table name for GORM
func (GameReportModel) TableName() string {
	return "game_reports"
}

// ToDomain converts the persistence model to a domain GameReport
func (m *GameReportModel) ToDomain() *report.GameReport {
	gr := &report.GameReport{
		BaseEntity:             m.BaseModel.ToDomain(),
		ReportID:               m.ReportID,
		GameID:                 m.GameID,
		LastReflectedSessionID: m.LastReflectedSessionID,
		Stats: report.Stats{
			TotalPlaysCount:       m.TotalPlaysCount,
			TotalPlayRoundsCount:  m.TotalPlayRoundsCount,
			MaxRoundsCount:        m.MaxRoundsCount,
			TotalReactionMsSum:    m.TotalReactionMsSum,
			TotalPlayActionsCount: m.TotalPlayActionsCount,
			TotalSuccessCount:     m.TotalSuccessCount,
			TotalWrongCount:       m.TotalWrongCount,
		},
		Meta: nonNilMap(m.Meta),
	}
	if m.Game != nil {
		gr.Game = m.Game.ToDomain()
	}
	if len(m.Advices) > 0 {
		gr.Advices = make([]report.Advice, len(m.Advices))
		for i := range m.Advices {
			gr.Advices[i] = *m.Advices[i].ToDomain()
		}
	}
	return gr
}

// GameReportModelFromDomain creates a persistence model from a domain GameReport
func GameReportModelFromDomain(gr *report.GameReport) *GameReportModel {
	m := &GameReportModel{
		ReportID:               gr.ReportID,
		GameID:                 gr.GameID,
		LastReflectedSessionID: gr.LastReflectedSessionID,
		TotalPlaysCount:        gr.TotalPlaysCount,
		TotalPlayRoundsCount:   gr.TotalPlayRoundsCount,
		MaxRoundsCount:         gr.MaxRoundsCount,
		TotalReactionMsSum:     gr.TotalReactionMsSum,
		TotalPlayActionsCount:  gr.TotalPlayActionsCount,
		TotalSuccessCount:      gr.TotalSuccessCount,
		TotalWrongCount:        gr.TotalWrongCount,
		Meta:                   nonNilMap(gr.Meta),
	}
	m.FromDomainBaseEntity(gr.BaseEntity)
	return m
}

// GameReportAdviceModel is the persistence model for generated advice
type GameReportAdviceModel struct {
	BaseModel
	GameReportID int64  `gorm:"not null;index"`
	GameID       int64  `gorm:"not null"`
	Title        string `gorm:"type:varchar(100);not null"`
	Description  string `gorm:"type:text;not null"`
	ErrorMessage string `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (GameReportAdviceModel) TableName() string {
	return "game_report_advices"
}

// ToDomain converts the persistence model to a domain Advice
func (m *GameReportAdviceModel) ToDomain() *report.Advice {
	return &report.Advice{
		BaseEntity:   m.BaseModel.ToDomain(),
		GameReportID: m.GameReportID,
		GameID:       m.GameID,
		Title:        m.Title,
		Description:  m.Description,
		ErrorMessage: m.ErrorMessage,
	}
}

// GameReportAdviceModelFromDomain creates a persistence model from a domain Advice
func GameReportAdviceModelFromDomain(a *report.Advice) *GameReportAdviceModel {
	m := &GameReportAdviceModel{
		GameReportID: a.GameReportID,
		GameID:       a.GameID,
		Title:        a.Title,
		Description:  a.Description,
		ErrorMessage: a.ErrorMessage,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// ReportPinModel is the persistence model for report PINs
type ReportPinModel struct {
	BaseModel
	UserID    int64  `gorm:"not null;uniqueIndex"`
	PinHash   string `gorm:"type:varchar(128);not null"`
	EnabledAt *time.Time
}

// TableName returns the table name for GORM
func (ReportPinModel) TableName() string {
	return "report_pins"
}

// ToDomain converts the persistence model to a domain Pin
func (m *ReportPinModel) ToDomain() *report.Pin {
	return &report.Pin{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		PinHash:    m.PinHash,
		EnabledAt:  m.EnabledAt,
	}
}

// ReportPinModelFromDomain creates a persistence model from a domain Pin
func ReportPinModelFromDomain(p *report.Pin) *ReportPinModel {
	m := &ReportPinModel{UserID: p.UserID, PinHash: p.PinHash, EnabledAt: p.EnabledAt}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// AllModels lists every model, in dependency order, for AutoMigrate in tests
func AllModels() []any {
	return []any{
		&UserModel{},
		&ChildModel{},
		&BotTokenModel{},
		&GameModel{},
		&GameSessionModel{},
		&GameResultModel{},
		&RankingEntryModel{},
		&ReportModel{},
		&GameReportModel{},
		&GameReportAdviceModel{},
		&ReportPinModel{},
	}
}
