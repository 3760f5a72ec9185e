package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type SQLProvider struct {
	db *sqlx.DB
	// Cost is the bcrypt work factor for new passwords.
	Cost int
}

func NewSQLProvider(db *sqlx.DB) *SQLProvider {
	return &SQLProvider{db: db, Cost: bcrypt.DefaultCost}
}

type userRow struct {
	User
	CreatedAtRaw string `db:"created_at"`
}

func (r userRow) user() (User, error) {
	u := r.User
	t, err := time.Parse(time.RFC3339Nano, r.CreatedAtRaw)
	if err != nil {
		return User{}, fmt.Errorf("identity: user %s created_at: %w", r.UID, err)
	}
	u.CreatedAt = t
	return u, nil
}

const selectUsers = `SELECT uid, email, display_name, phone_number, password_hash, disabled, created_at FROM users`

func (p *SQLProvider) ListUsers(ctx context.Context) ([]User, error) {
	var rows []userRow
	if err := p.db.SelectContext(ctx, &rows, selectUsers+` ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("identity: list users: %w", err)
	}
	out := make([]User, 0, len(rows))
	for _, r := range rows {
		u, err := r.user()
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (p *SQLProvider) GetUser(ctx context.Context, uid string) (User, error) {
	return p.getOne(ctx, selectUsers+` WHERE uid = ?`, uid)
}

func (p *SQLProvider) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return p.getOne(ctx, selectUsers+` WHERE LOWER(email) = LOWER(?)`, strings.TrimSpace(email))
}

func (p *SQLProvider) getOne(ctx context.Context, query, arg string) (User, error) {
	var r userRow
	err := p.db.GetContext(ctx, &r, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("identity: get user: %w", err)
	}
	return r.user()
}

func (p *SQLProvider) CreateUser(ctx context.Context, in UserToCreate) (User, error) {
	email := strings.TrimSpace(in.Email)
	if _, err := p.GetUserByEmail(ctx, email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return User{}, ErrPasswordTooLong
	}
	if err != nil {
		return User{}, fmt.Errorf("identity: hash password: %w", err)
	}
	uid := uuid.NewString()
	_, err = p.db.ExecContext(ctx, `
	  INSERT INTO users(uid, email, display_name, phone_number, password_hash, disabled, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uid, email, in.DisplayName, in.PhoneNumber, string(hash), in.Disabled, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return User{}, ErrEmailExists
		}
		return User{}, fmt.Errorf("identity: create user: %w", err)
	}
	return p.GetUser(ctx, uid)
}

func (p *SQLProvider) DeleteUser(ctx context.Context, uid string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM users WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("identity: delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (p *SQLProvider) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := p.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("identity: count users: %w", err)
	}
	return n, nil
}

// Ping reads at most one record, the same probe a remote provider answers.
func (p *SQLProvider) Ping(ctx context.Context) error {
	var uids []string
	return p.db.SelectContext(ctx, &uids, `SELECT uid FROM users LIMIT 1`)
}
