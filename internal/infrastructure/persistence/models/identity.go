package models

import (
	"time"

	"github.com/kkambbaki/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Username     string     `gorm:"type:varchar(150);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(128);not null"`
	Email        string     `gorm:"type:varchar(254);not null;default:''"`
	IsStaff      bool       `gorm:"not null;default:false"`
	IsActive     bool       `gorm:"not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Email:        m.Email,
		IsStaff:      m.IsStaff,
		IsActive:     m.IsActive,
		LastLoginAt:  m.LastLoginAt,
	}
}

// UserModelFromDomain creates a persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Email:        u.Email,
		IsStaff:      u.IsStaff,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}

// ChildModel is the persistence model for a parent's child
type ChildModel struct {
	BaseModel
	ParentID  int64  `gorm:"not null;uniqueIndex"`
	Name      string `gorm:"type:varchar(50);not null"`
	BirthYear int    `gorm:"not null"`
	Gender    string `gorm:"type:varchar(1);not null;default:'X'"`
}

// TableName returns the table name for GORM
func (ChildModel) TableName() string {
	return "children"
}

// ToDomain converts the persistence model to a domain Child
func (m *ChildModel) ToDomain() *identity.Child {
	return &identity.Child{
		BaseEntity: m.BaseModel.ToDomain(),
		ParentID:   m.ParentID,
		Name:       m.Name,
		BirthYear:  m.BirthYear,
		Gender:     identity.Gender(m.Gender),
	}
}

// ChildModelFromDomain creates a persistence model from a domain Child
func ChildModelFromDomain(c *identity.Child) *ChildModel {
	m := &ChildModel{
		ParentID:  c.ParentID,
		Name:      c.Name,
		BirthYear: c.BirthYear,
		Gender:    string(c.Gender),
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// BotTokenModel is the persistence model for single-use bot tokens
type BotTokenModel struct {
	BaseModel
	UserID int64  `gorm:"not null;index"`
	Token  string `gorm:"type:varchar(128);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (BotTokenModel) TableName() string {
	return "bot_tokens"
}

// ToDomain converts the persistence model to a domain BotToken
func (m *BotTokenModel) ToDomain() *identity.BotToken {
	return &identity.BotToken{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Token:      m.Token,
	}
}

// BotTokenModelFromDomain creates a persistence model from a domain BotToken
func BotTokenModelFromDomain(t *identity.BotToken) *BotTokenModel {
	m := &BotTokenModel{UserID: t.UserID, Token: t.Token}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}
