package identity

import (
	"strings"
	"unicode/utf8"

	"github.com/kkambbaki/backend/internal/domain/shared"
)

// Gender of a child
type Gender string

const (
	GenderMale     Gender = "M"
	GenderFemale   Gender = "F"
	GenderNoChoice Gender = "X"
)

// IsValid reports whether g is one of the known genders
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNoChoice:
		return true
	}
	return false
}

const (
	childNameMaxLength = 50
	minBirthYear       = 1900
	maxBirthYear       = 32767
)

// Child is the single child profile registered under a parent account.
type Child struct {
	shared.BaseEntity
	ParentID  int64
	Name      string
	BirthYear int
	Gender    Gender
}

// ChildUpdate carries a partial child update. Nil fields are left untouched.
type ChildUpdate struct {
	Name      *string
	BirthYear *int
	Gender    *Gender
}

// NewChild creates a child for the parent
func NewChild(parentID int64, name string, birthYear int, gender Gender) (*Child, error) {
	if gender == "" {
		gender = GenderNoChoice
	}
	child := &Child{
		BaseEntity: shared.NewBaseEntity(),
		ParentID:   parentID,
		Name:       strings.TrimSpace(name),
		BirthYear:  birthYear,
		Gender:     gender,
	}
	if err := child.Validate(); err != nil {
		return nil, err
	}
	return child, nil
}

// Apply merges a partial update and re-validates
func (c *Child) Apply(update ChildUpdate) error {
	next := *c
	if update.Name != nil {
		next.Name = strings.TrimSpace(*update.Name)
	}
	if update.BirthYear != nil {
		next.BirthYear = *update.BirthYear
	}
	if update.Gender != nil {
		next.Gender = *update.Gender
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	c.Touch()
	return nil
}

// Validate checks the child fields and reports every failing field at once
func (c *Child) Validate() error {
	details := map[string][]string{}
	if c.Name == "" {
		details["name"] = append(details["name"], "This field may not be blank.")
	} else if utf8.RuneCountInString(c.Name) > childNameMaxLength {
		details["name"] = append(details["name"], "Ensure this field has no more than 50 characters.")
	}
	if c.BirthYear < minBirthYear {
		details["birth_year"] = append(details["birth_year"], "Ensure this value is greater than or equal to 1900.")
	} else if c.BirthYear > maxBirthYear {
		details["birth_year"] = append(details["birth_year"], "Ensure this value is less than or equal to 32767.")
	}
	if !c.Gender.IsValid() {
		details["gender"] = append(details["gender"], "\""+string(c.Gender)+"\" is not a valid choice.")
	}
	if len(details) > 0 {
		return shared.ErrInvalidInput.WithDetails(details)
	}
	return nil
}
