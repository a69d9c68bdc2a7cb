// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel shared by every table with a serial primary key
//   - identity.go: users, children, bot tokens
//   - game.go: games, game sessions, game results, ranking entries
//   - report.go: reports, game reports, advices, report PINs
package models
