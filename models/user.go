// user.go - Defines the User model, its request body and its public shape

package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt" // Password hashing
)

// PasswordCost is the bcrypt cost used when hashing passwords. Tests lower it.
var PasswordCost = bcrypt.DefaultCost

// User is a registered account. A user owns zero or more courses.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	FirstName    string    `gorm:"not null" validate:"required,notblank"`
	LastName     string    `gorm:"not null" validate:"required,notblank"`
	EmailAddress string    `gorm:"uniqueIndex;not null" validate:"required,email"`
	Password     string    `gorm:"not null" validate:"required,notblank"` // bcrypt hash once persisted
	Courses      []Course  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" validate:"-"`
	CreatedAt    time.Time `validate:"-"`
	UpdatedAt    time.Time `validate:"-"`
}

// SetPassword replaces the plaintext password with its salted hash. bcrypt
// only accepts up to 72 bytes; longer passwords are a validation failure.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return NewValidationError(MsgPasswordTooLong)
	}
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// PasswordMatches reports whether plain hashes to the stored password.
func (u *User) PasswordMatches(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// Response returns the user without password and timestamps.
func (u *User) Response() UserResponse {
	return UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.EmailAddress,
	}
}

// UserInput is the body accepted by POST /users.
type UserInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

// User builds an unsaved user from the input. The password is still plaintext.
func (in UserInput) User() *User {
	return &User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		EmailAddress: in.EmailAddress,
		Password:     in.Password,
	}
}

// UserResponse is the JSON shape of a user in every response.
type UserResponse struct {
	ID           uint   `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}
