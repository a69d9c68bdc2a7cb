package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/kkambbaki/backend/internal/domain/game"
)

// GameModel is the persistence model for the game catalog
type GameModel struct {
	BaseModel
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(100);not null"`
	IsActive bool   `gorm:"not null"`
	MaxRound int    `gorm:"not null;default:10"`
}

// TableName returns the table name for GORM
func (GameModel) TableName() string {
	return "games"
}

// ToDomain converts the persistence model to a domain Game
func (m *GameModel) ToDomain() *game.Game {
	return &game.Game{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       game.Code(m.Code),
		Name:       m.Name,
		IsActive:   m.IsActive,
		MaxRound:   m.MaxRound,
	}
}

// GameModelFromDomain creates a persistence model from a domain Game
func GameModelFromDomain(g *game.Game) *GameModel {
	m := &GameModel{
		Code:     string(g.Code),
		Name:     g.Name,
		IsActive: g.IsActive,
		MaxRound: g.MaxRound,
	}
	m.FromDomainBaseEntity(g.BaseEntity)
	return m
}

// GameSessionModel is the persistence model for play sessions
type GameSessionModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParentID     int64     `gorm:"not null;index"`
	ChildID      int64     `gorm:"not null;index"`
	GameID       int64     `gorm:"not null;index"`
	Status       string    `gorm:"type:varchar(20);not null;default:'STARTED'"`
	CurrentRound int       `gorm:"not null;default:1"`
	CurrentScore int       `gorm:"not null;default:0"`
	StartedAt    time.Time `gorm:"not null"`
	EndedAt      *time.Time
	Meta         JSONMap    `gorm:"type:jsonb;serializer:json;not null"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
	Game         *GameModel `gorm:"foreignKey:GameID"`
}

// TableName returns the table name for GORM
func (GameSessionModel) TableName() string {
	return "game_sessions"
}

// ToDomain converts the persistence model to a domain Session
func (m *GameSessionModel) ToDomain() *game.Session {
	s := &game.Session{
		ID:           m.ID,
		ParentID:     m.ParentID,
		ChildID:      m.ChildID,
		GameID:       m.GameID,
		Status:       game.SessionStatus(m.Status),
		CurrentRound: m.CurrentRound,
		CurrentScore: m.CurrentScore,
		StartedAt:    m.StartedAt,
		EndedAt:      m.EndedAt,
		Meta:         nonNilMap(m.Meta),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Game != nil {
		s.Game = m.Game.ToDomain()
	}
	return s
}

// GameSessionModelFromDomain creates a persistence model from a domain Session
func GameSessionModelFromDomain(s *game.Session) *GameSessionModel {
	return &GameSessionModel{
		ID:           s.ID,
		ParentID:     s.ParentID,
		ChildID:      s.ChildID,
		GameID:       s.GameID,
		Status:       string(s.Status),
		CurrentRound: s.CurrentRound,
		CurrentScore: s.CurrentScore,
		StartedAt:    s.StartedAt,
		EndedAt:      s.EndedAt,
		Meta:         nonNilMap(s.Meta),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// GameResultModel is the persistence model for session results
type GameResultModel struct {
	BaseModel
	SessionID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ChildID       int64     `gorm:"not null;index:idx_game_results_child_game"`
	GameID        int64     `gorm:"not null;index:idx_game_results_child_game"`
	Score         int       `gorm:"not null"`
	WrongCount    int       `gorm:"not null;default:0"`
	ReactionMsSum *int
	RoundCount    *int
	SuccessCount  *int
	Meta          JSONMap `gorm:"type:jsonb;serializer:json;not null"`
}

// TableName returns the table name for GORM
func (GameResultModel) TableName() string {
	return "game_results"
}

// ToDomain converts the persistence model to a domain Result
func (m *GameResultModel) ToDomain() game.Result {
	return game.Result{
		BaseEntity:    m.BaseModel.ToDomain(),
		SessionID:     m.SessionID,
		ChildID:       m.ChildID,
		GameID:        m.GameID,
		Score:         m.Score,
		WrongCount:    m.WrongCount,
		ReactionMsSum: m.ReactionMsSum,
		RoundCount:    m.RoundCount,
		SuccessCount:  m.SuccessCount,
		Meta:          nonNilMap(m.Meta),
	}
}

// GameResultModelFromDomain creates a persistence model from a domain Result
func GameResultModelFromDomain(r *game.Result) *GameResultModel {
	m := &GameResultModel{
		SessionID:     r.SessionID,
		ChildID:       r.ChildID,
		GameID:        r.GameID,
		Score:         r.Score,
		WrongCount:    r.WrongCount,
		ReactionMsSum: r.ReactionMsSum,
		RoundCount:    r.RoundCount,
		SuccessCount:  r.SuccessCount,
		Meta:          nonNilMap(r.Meta),
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// RankingEntryModel is the persistence model for leaderboard entries
type RankingEntryModel struct {
	BaseModel
	GameID             *int64 `gorm:"index"`
	GameResultID       *int64 `gorm:"index"`
	PlayerName         string `gorm:"type:varchar(100);not null"`
	Organization       string `gorm:"type:varchar(100);not null;default:''"`
	ContactInfo        string `gorm:"type:varchar(200);not null;default:''"`
	Score              int    `gorm:"not null"`
	RoundCount         *int
	IsEventHighlighted bool `gorm:"not null;default:false"`
	EventTriggeredAt   *time.Time
	Game               *GameModel `gorm:"foreignKey:GameID"`
}

// TableName returns the table name for GORM
func (RankingEntryModel) TableName() string {
	return "ranking_entries"
}

// ToDomain converts the persistence model to a domain RankingEntry
func (m *RankingEntryModel) ToDomain() *game.RankingEntry {
	e := &game.RankingEntry{
		BaseEntity:         m.BaseModel.ToDomain(),
		GameID:             m.GameID,
		GameResultID:       m.GameResultID,
		PlayerName:         m.PlayerName,
		Organization:       m.Organization,
		Contact:            m.ContactInfo,
		Score:              m.Score,
		RoundCount:         m.RoundCount,
		IsEventHighlighted: m.IsEventHighlighted,
		EventTriggeredAt:   m.EventTriggeredAt,
	}
	if m.Game != nil {
		e.GameName = m.Game.Name
	}
	return e
}

// RankingEntryModelFromDomain creates a persistence model from a domain RankingEntry
func RankingEntryModelFromDomain(e *game.RankingEntry) *RankingEntryModel {
	m := &RankingEntryModel{
		GameID:             e.GameID,
		GameResultID:       e.GameResultID,
		PlayerName:         e.PlayerName,
		Organization:       e.Organization,
		ContactInfo:        e.Contact,
		Score:              e.Score,
		RoundCount:         e.RoundCount,
		IsEventHighlighted: e.IsEventHighlighted,
		EventTriggeredAt:   e.EventTriggeredAt,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
