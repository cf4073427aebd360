package user

import (
	"fmt"
	"strings"

	vo "github.com/orris-inc/rbnotify/internal/domain/user/valueobjects"
)

// User is a person known to the room booking module: a room owner, a
// blocking creator, or both. Locale is the stored preference such as "fr"
// or "en_GB"; an empty locale means the site default applies.
type User struct {
	id       uint
	fullName string
	email    vo.Email
	locale   string
}

func NewUser(fullName string, email vo.Email, locale string) (*User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, fmt.Errorf("full name is required")
	}
	if email.IsZero() {
		return nil, fmt.Errorf("email is required")
	}

	return &User{
		fullName: fullName,
		email:    email,
		locale:   strings.TrimSpace(locale),
	}, nil
}

// ReconstructUser rebuilds a user from persistence
func ReconstructUser(id uint, fullName string, email vo.Email, locale string) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	u, err := NewUser(fullName, email, locale)
	if err != nil {
		return nil, err
	}
	u.id = id
	return u, nil
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) FullName() string {
	return u.fullName
}

func (u *User) Email() string {
	return u.email.String()
}

func (u *User) Locale() string {
	return u.locale
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) SetLocale(locale string) {
	u.locale = strings.TrimSpace(locale)
}
