package handler

import (
	identityapp "github.com/kkambbaki/backend/internal/application/identity"
	"github.com/kkambbaki/backend/internal/domain/identity"
)

// UpdateEmailRequest sets the account email
type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ChildRequest is a full or partial child profile
type ChildRequest struct {
	Name      *string          `json:"name" binding:"omitempty,max=50"`
	BirthYear *int             `json:"birth_year"`
	Gender    *identity.Gender `json:"gender" binding:"omitempty,oneof=M F X"`
}

// ChildResponse is the public view of a child
type ChildResponse struct {
	ID        int64           `json:"id" example:"1"`
	Name      string          `json:"name" example:"민준"`
	BirthYear int             `json:"birth_year" example:"2019"`
	Gender    identity.Gender `json:"gender" example:"M"`
}

func toChildResponse(c *identity.Child) ChildResponse {
	info := identityapp.ToChildInfo(c)
	return ChildResponse{ID: info.ID, Name: info.Name, BirthYear: info.BirthYear, Gender: info.Gender}
}
