// Package identity manages user credentials: account records, password
// hashes and lookups by id or email.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")
	// bcrypt only reads the first 72 bytes of a password
	ErrPasswordTooLong = errors.New("password longer than 72 bytes")
)

type User struct {
	UID          string    `db:"uid"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	PhoneNumber  string    `db:"phone_number"`
	PasswordHash string    `db:"password_hash"`
	Disabled     bool      `db:"disabled"`
	CreatedAt    time.Time `db:"-"`
}

// UserToCreate carries a plaintext password; the provider hashes it.
type UserToCreate struct {
	Email       string
	Password    string
	DisplayName string
	PhoneNumber string
	Disabled    bool
}

type Provider interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, uid string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	CreateUser(ctx context.Context, u UserToCreate) (User, error)
	DeleteUser(ctx context.Context, uid string) error
	CountUsers(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}
