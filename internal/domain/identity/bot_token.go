package identity

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/kkambbaki/backend/internal/domain/shared"
)

// BotTokenPrefix marks bot tokens so they are never mistaken for JWTs.
const BotTokenPrefix = "X-BOT-TOKEN-"

const (
	botTokenEntropyBytes = 37
	botTokenRandomLength = 50
)

// BotToken is a single-use credential that lets automation (the PDF renderer
// opening the report page) act as the token's user.
type BotToken struct {
	shared.BaseEntity
	UserID int64
	Token  string
}

// NewBotToken creates a fresh token for the user
func NewBotToken(userID int64) (*BotToken, error) {
	token, err := GenerateBotToken()
	if err != nil {
		return nil, err
	}
	return &BotToken{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Token:      token,
	}, nil
}

// GenerateBotToken returns BotTokenPrefix followed by 50 URL-safe characters.
func GenerateBotToken() (string, error) {
	buf := make([]byte, botTokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	random := base64.RawURLEncoding.EncodeToString(buf)
	if len(random) > botTokenRandomLength {
		random = random[:botTokenRandomLength]
	}
	return BotTokenPrefix + random, nil
}
