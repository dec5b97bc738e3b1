package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"discover/internal/domain"
)

// GetByIssuer looks up a user by verifier subject. Returns (nil, nil)
// when no user exists.
func (d *DB) GetByIssuer(ctx context.Context, issuer string) (*domain.User, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT id, issuer, email, public_address FROM users WHERE issuer=$1;", issuer)

	var u domain.User
	if err := row.Scan(&u.ID, &u.Issuer, &u.Email, &u.PublicAddress); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create registers a new user row for the given identity.
func (d *DB) Create(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	u := domain.User{
		ID:            uuid.NewString(),
		Issuer:        identity.Issuer,
		Email:         identity.Email,
		PublicAddress: identity.PublicAddress,
	}
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO users(id, issuer, email, public_address, created_at) VALUES($1, $2, $3, $4, $5);",
		u.ID, u.Issuer, u.Email, u.PublicAddress, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &u, nil
}
