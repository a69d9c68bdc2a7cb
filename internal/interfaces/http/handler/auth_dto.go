package handler

import (
	identityapp "github.com/kkambbaki/backend/internal/application/identity"
)

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegistrationRequest represents the signup form
type RegistrationRequest struct {
	Username  string `json:"username" binding:"required"`
	Password1 string `json:"password1" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
	Email     string `json:"email"`
}

// LogoutRequest optionally carries the refresh token to revoke
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// VerifyTokenRequest represents the request body for token verification
type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"parent01"`
	Email    string `json:"email" example:"parent@example.com"`
}

// TokenPairResponse is an access and refresh token pair
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is returned by login and registration
type AuthResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

// UsernameExistsResponse answers a username availability check
type UsernameExistsResponse struct {
	Exists bool `json:"exists"`
}

func toUserResponse(u identityapp.UserInfo) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toAuthResponse(r *identityapp.AuthResult) AuthResponse {
	return AuthResponse{
		Access:  r.AccessToken,
		Refresh: r.RefreshToken,
		User:    toUserResponse(r.User),
	}
}
