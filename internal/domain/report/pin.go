package report

import (
	"regexp"
	"time"

	"github.com/kkambbaki/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

var pinRegex = regexp.MustCompile(`^[0-9]+$`)

const (
	pinMinLength = 4
	pinMaxLength = 6
)

var (
	ErrPinNotDigits = shared.ErrInvalidInput.WithMessage("PIN은 숫자로만 구성되어야 합니다.")
	ErrPinLength    = shared.ErrInvalidInput.WithMessage("PIN은 4자리 이상 6자리 이하여야 합니다.")
	ErrPinRequired  = shared.ErrInvalidInput.WithMessage("PIN 번호를 입력해주세요.")
	ErrPinMismatch  = shared.ErrUnprocessable.WithMessage("PIN 번호가 일치하지 않습니다.")
)

// PinHashCost is the bcrypt cost for report PINs. Tests lower it.
var PinHashCost = 12

// Pin gates report viewing for JWT sessions on shared devices.
type Pin struct {
	shared.BaseEntity
	UserID    int64
	PinHash   string
	EnabledAt *time.Time
}

// NewPin creates a disabled PIN record for the user
func NewPin(userID int64) *Pin {
	return &Pin{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}
}

// ValidatePin checks the PIN format: 4 to 6 digits
func ValidatePin(pin string) error {
	if pin == "" {
		return ErrPinRequired
	}
	if len(pin) < pinMinLength || len(pin) > pinMaxLength {
		return ErrPinLength
	}
	if !pinRegex.MatchString(pin) {
		return ErrPinNotDigits
	}
	return nil
}

// Set hashes and enables the PIN
func (p *Pin) Set(pin string, now time.Time) error {
	if err := ValidatePin(pin); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), PinHashCost)
	if err != nil {
		return shared.NewDomainError("PIN_HASH_ERROR", "Failed to hash PIN")
	}
	p.PinHash = string(hash)
	p.EnabledAt = &now
	p.Touch()
	return nil
}

// IsEnabled reports whether a PIN must be presented
func (p *Pin) IsEnabled() bool {
	return p != nil && p.EnabledAt != nil && p.PinHash != ""
}

// Verify checks a presented PIN against the stored hash
func (p *Pin) Verify(pin string) bool {
	if p.PinHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.PinHash), []byte(pin)) == nil
}
