package game

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kkambbaki/backend/internal/domain/shared"
)

// RankingBoardSize is how many entries a leaderboard shows
const RankingBoardSize = 50

// RankingEntry is a leaderboard record collected at offline events.
// Entries are ordered by score desc, round_count desc, created_at asc.
type RankingEntry struct {
	shared.BaseEntity
	GameID       *int64
	GameResultID *int64
	PlayerName   string
	Organization string
	Contact      string
	Score        int
	RoundCount   *int

	// IsEventHighlighted marks the entry that currently holds the game's top score.
	IsEventHighlighted bool
	EventTriggeredAt   *time.Time

	// GameName is filled by read queries that join the game.
	GameName string
}

// Highlight flags the entry as the new record holder
func (e *RankingEntry) Highlight(now time.Time) {
	if e.IsEventHighlighted {
		return
	}
	e.IsEventHighlighted = true
	e.EventTriggeredAt = &now
	e.UpdatedAt = now
}

// LinkResult ties the entry to a played result. The game, score and round
// count are taken from the result and override what was entered.
func (e *RankingEntry) LinkResult(r *Result) {
	resultID, gameID := r.ID, r.GameID
	e.GameResultID = &resultID
	e.GameID = &gameID
	e.Score = r.Score
	e.RoundCount = nil
	if r.RoundCount != nil {
		rounds := *r.RoundCount
		e.RoundCount = &rounds
	}
}

// CanHoldRecord reports whether the entry competes for a game's top score
func (e *RankingEntry) CanHoldRecord() bool {
	return e.GameID != nil && e.Score > 0
}

// RankedEntry is an entry with its position on a board
type RankedEntry struct {
	RankingEntry
	Rank int
}

// NewRankingEntry validates and creates a ranking entry
func NewRankingEntry(gameID *int64, playerName, organization, contact string, score int, roundCount *int) (*RankingEntry, error) {
	playerName = strings.TrimSpace(playerName)
	details := map[string][]string{}
	if playerName == "" {
		details["player_name"] = []string{"This field may not be blank."}
	} else if utf8.RuneCountInString(playerName) > 50 {
		details["player_name"] = []string{"Ensure this field has no more than 50 characters."}
	}
	if utf8.RuneCountInString(organization) > 100 {
		details["organization"] = []string{"Ensure this field has no more than 100 characters."}
	}
	if score < 0 {
		details["score"] = []string{"Ensure this value is greater than or equal to 0."}
	}
	if len(details) > 0 {
		return nil, shared.ErrInvalidInput.WithDetails(details)
	}
	return &RankingEntry{
		BaseEntity:   shared.NewBaseEntity(),
		GameID:       gameID,
		PlayerName:   playerName,
		Organization: strings.TrimSpace(organization),
		Contact:      strings.TrimSpace(contact),
		Score:        score,
		RoundCount:   roundCount,
	}, nil
}

// Board is a ranked leaderboard snapshot
type Board struct {
	BBStar      []RankedEntry
	KidsTraffic []RankedEntry
	All         []RankedEntry
	UpdatedAt   *time.Time
}
