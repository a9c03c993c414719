package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propstack/listing-service/internal/listing/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, role FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select user: %v", domain.ErrBackendUnavailable, err)
	}
	return &u, nil
}
