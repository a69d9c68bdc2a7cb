package identity

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/kkambbaki/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

// PasswordHashCost is the bcrypt cost used for passwords and report PINs.
// Tests lower it to bcrypt.MinCost.
var PasswordHashCost = 12

const (
	usernameMinLength = 4
	usernameMaxLength = 20
	passwordMinLength = 8
	passwordMaxLength = 128
	emailMaxLength    = 254
)

// Validation codes reported in field error details
const (
	CodeUsernameTooShort          = "username_too_short"
	CodeUsernameTooLong           = "username_too_long"
	CodeUsernameNoNumbers         = "username_no_numbers"
	CodeUsernameNoLetters         = "username_no_letters"
	CodeUsernameInvalidCharacters = "username_invalid_characters"
	CodePasswordTooShort          = "password_too_short"
	CodePasswordTooLong           = "password_too_long"
	CodePasswordNoLetters         = "password_no_letters"
	CodePasswordNoNumbers         = "password_no_numbers"
	CodeInvalidEmail              = "invalid_email"
)

var (
	usernameCharsRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	letterRegex        = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex         = regexp.MustCompile(`[0-9]`)
	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidationError is a rule violation carrying a machine readable code.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// User is an account holder, typically a parent.
type User struct {
	shared.BaseEntity
	Username     string
	PasswordHash string
	Email        string
	IsStaff      bool
	IsActive     bool
	LastLoginAt  *time.Time
}

// NewUser creates an active user after validating username and password.
// The email is optional.
func NewUser(username, password, email string) (*User, error) {
	username = NormalizeUsername(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	user := &User{
		BaseEntity: shared.NewBaseEntity(),
		Username:   username,
		IsActive:   true,
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	hash, err := hashSecret(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	user.PasswordHash = hash
	return user, nil
}

// SetEmail sets or clears the user's email
func (u *User) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email != "" {
		if err := ValidateEmail(email); err != nil {
			return err
		}
		email = normalizeEmail(email)
	}
	u.Email = email
	u.Touch()
	return nil
}

// SetPassword replaces the password without checking the old one
func (u *User) SetPassword(password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := hashSecret(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
}

// Activate re-enables a deactivated account
func (u *User) Activate() {
	u.IsActive = true
	u.Touch()
}

// Deactivate disables the account; every authenticated endpoint rejects it afterwards.
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
}

// NormalizeUsername applies NFKC normalization so visually identical
// usernames collide on the unique index.
func NormalizeUsername(username string) string {
	return norm.NFKC.String(strings.TrimSpace(username))
}

// ValidateUsername checks the username rules in the order the signup form reports them.
func ValidateUsername(username string) error {
	if utf8.RuneCountInString(username) < usernameMinLength {
		return &ValidationError{Code: CodeUsernameTooShort, Message: "Username must be at least 4 characters long."}
	}
	if utf8.RuneCountInString(username) > usernameMaxLength {
		return &ValidationError{Code: CodeUsernameTooLong, Message: "Username cannot exceed 20 characters."}
	}
	if allRunes(username, unicode.IsLetter) {
		return &ValidationError{Code: CodeUsernameNoNumbers, Message: "Username must contain both letters and numbers."}
	}
	if allRunes(username, unicode.IsDigit) {
		return &ValidationError{Code: CodeUsernameNoLetters, Message: "Username must contain both letters and numbers."}
	}
	if !usernameCharsRegex.MatchString(username) {
		return &ValidationError{Code: CodeUsernameInvalidCharacters, Message: "Username must contain only letters and numbers."}
	}
	return nil
}

// ValidatePassword requires 8+ characters mixing letters and digits.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < passwordMinLength {
		return &ValidationError{Code: CodePasswordTooShort, Message: "Password must be at least 8 characters long."}
	}
	if n > passwordMaxLength {
		return &ValidationError{Code: CodePasswordTooLong, Message: "Password cannot exceed 128 characters."}
	}
	if !letterRegex.MatchString(password) {
		return &ValidationError{Code: CodePasswordNoLetters, Message: "Password must contain both letters and numbers."}
	}
	if !digitRegex.MatchString(password) {
		return &ValidationError{Code: CodePasswordNoNumbers, Message: "Password must contain both letters and numbers."}
	}
	return nil
}

// ValidateEmail performs a basic syntactic email check
func ValidateEmail(email string) error {
	if len(email) > emailMaxLength || !emailRegex.MatchString(email) {
		return &ValidationError{Code: CodeInvalidEmail, Message: "Enter a valid email address."}
	}
	return nil
}

// normalizeEmail lowercases the domain part only.
func normalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

func allRunes(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

func hashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
