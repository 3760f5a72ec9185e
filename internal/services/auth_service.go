package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/identity"
)

var ErrBadCreds = errors.New("invalid email or password")

// Registration is the sign-up payload. IsAdmin and the address fields are
// accepted for compatibility and ignored.
type Registration struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,maxbytes=72"`
	Phone       string `json:"phone"`
	IsAdmin     bool   `json:"isAdmin"`
	Street      string `json:"street"`
	Apartment   string `json:"apartment"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	Country     string `json:"country"`
	DisplayName string `json:"displayName"`
}

type Session struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

type AuthService struct {
	Users  identity.Provider
	Tokens *TokenIssuer
}

func NewAuthService(users identity.Provider, tokens *TokenIssuer) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

// Register creates the identity (the provider hashes the password) and
// issues a session token.
func (s *AuthService) Register(ctx context.Context, in Registration) (Session, error) {
	u, err := s.Users.CreateUser(ctx, identity.UserToCreate{
		Email:       in.Email,
		Password:    in.Password,
		DisplayName: in.DisplayName,
		PhoneNumber: in.Phone,
	})
	if err != nil {
		return Session{}, err
	}
	return s.session(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.Users.GetUserByEmail(ctx, email)
	if errors.Is(err, identity.ErrUserNotFound) {
		return Session{}, ErrBadCreds
	}
	if err != nil {
		return Session{}, err
	}
	if u.Disabled {
		return Session{}, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrBadCreds
	}
	return s.session(u)
}

func (s *AuthService) session(u identity.User) (Session, error) {
	tok, err := s.Tokens.Issue(u.UID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: u.Email, Token: tok}, nil
}
