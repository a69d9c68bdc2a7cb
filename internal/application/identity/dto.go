package identity

import (
	"time"

	"github.com/kkambbaki/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
}

// RegisterInput contains the signup form
type RegisterInput struct {
	Username  string
	Password1 string
	Password2 string
	Email     string
}

// LogoutInput carries the tokens to revoke
type LogoutInput struct {
	AccessJTI       string
	AccessExpiresAt time.Time
	// RefreshToken is optional
	RefreshToken string
}

// TokenPairResult is a freshly issued access and refresh token pair
type TokenPairResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
}

// AuthResult is returned by login and registration
type AuthResult struct {
	TokenPairResult
	User UserInfo
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID       int64
	Username string
	Email    string
}

// ToUserInfo converts a domain user
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, Email: u.Email}
}

// ChildInput is a full or partial child profile.
// On creation Name and BirthYear are required.
type ChildInput struct {
	Name      *string
	BirthYear *int
	Gender    *identity.Gender
}

// ChildInfo is the public view of a child
type ChildInfo struct {
	ID        int64
	Name      string
	BirthYear int
	Gender    identity.Gender
}

// ToChildInfo converts a domain child
func ToChildInfo(c *identity.Child) ChildInfo {
	return ChildInfo{ID: c.ID, Name: c.Name, BirthYear: c.BirthYear, Gender: c.Gender}
}
