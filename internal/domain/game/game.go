// Package game models the mini-games, their play sessions and results.
package game

import (
	"fmt"
	"strings"

	"github.com/kkambbaki/backend/internal/domain/shared"
)

// Code identifies a game
type Code string

const (
	CodeBBStar      Code = "BB_STAR"
	CodeKidsTraffic Code = "KIDS_TRAFFIC"
)

// DefaultMaxRound is the number of rounds in a full play-through
const DefaultMaxRound = 10

// Label returns the human readable name of the game code
func (c Code) Label() string {
	switch c {
	case CodeBBStar:
		return "뿅뿅 아기별 게임"
	case CodeKidsTraffic:
		return "꼬마 교통지킴이 게임"
	}
	return string(c)
}

// IsValid reports whether c is a known game code
func (c Code) IsValid() bool {
	return c == CodeBBStar || c == CodeKidsTraffic
}

// Game is a playable mini-game
type Game struct {
	shared.BaseEntity
	Code     Code
	Name     string
	IsActive bool
	MaxRound int
}

// NewGame creates an active game
func NewGame(code Code, name string, maxRound int) (*Game, error) {
	if !code.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown game code %q", code))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = code.Label()
	}
	if maxRound <= 0 {
		maxRound = DefaultMaxRound
	}
	return &Game{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		IsActive:   true,
		MaxRound:   maxRound,
	}, nil
}

// NotActiveError is returned when a session is started for a missing or disabled game.
func NotActiveError(code Code) error {
	var msg string
	switch code {
	case CodeBBStar:
		msg = "게임( BB_STAR, 뿅뿅 아기별 게임 )이 활성화되어 있지 않습니다."
	case CodeKidsTraffic:
		msg = "게임( KIDS_TRAFFIC, 꼬마 교통지킴이 )이 활성화되어 있지 않습니다."
	default:
		msg = fmt.Sprintf("게임( %s )이 활성화되어 있지 않습니다.", code)
	}
	return shared.ErrNotFound.WithMessage(msg)
}
