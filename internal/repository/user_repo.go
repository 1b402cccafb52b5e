package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/storelane/catalog_api/internal/models"
)

// UserRepository handles data access for user accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and fills in the generated timestamp.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	const q = `
        INSERT INTO users (id, username, email, password_hash, is_admin)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`

	return r.db.QueryRowxContext(ctx, q,
		u.ID, u.Username, u.Email, u.PasswordHash, u.IsAdmin,
	).Scan(&u.CreatedAt)
}

// GetByEmail returns a user by email. Returns sql.ErrNoRows when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE email = $1 LIMIT 1`

	var u models.User
	if err := r.db.GetContext(ctx, &u, q, email); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by id. Returns sql.ErrNoRows when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE id = $1 LIMIT 1`

	var u models.User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		return nil, err
	}
	return &u, nil
}
