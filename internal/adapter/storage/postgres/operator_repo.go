package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"momo-checkout-console/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OperatorRepo implements ports.OperatorRepository.
type OperatorRepo struct {
	pool Pool
}

// NewOperatorRepo creates a new OperatorRepo.
func NewOperatorRepo(pool Pool) *OperatorRepo {
	return &OperatorRepo{pool: pool}
}

// Create inserts a new operator.
func (r *OperatorRepo) Create(ctx context.Context, op *domain.Operator) error {
	query := `INSERT INTO operators (id, username, password_hash, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		op.ID, op.Username, op.PasswordHash, string(op.Status), op.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert operator: %w", err)
	}
	return nil
}

// GetByUsername fetches an operator by username. Returns nil, nil when the
// operator does not exist.
func (r *OperatorRepo) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	query := `SELECT id, username, password_hash, status, created_at, last_login_at
		FROM operators WHERE username = $1`

	op := &domain.Operator{}
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&op.ID, &op.Username, &op.PasswordHash, &op.Status, &op.CreatedAt, &op.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operator by username: %w", err)
	}
	return op, nil
}

// GetByID fetches an operator by its UUID.
func (r *OperatorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error) {
	query := `SELECT id, username, password_hash, status, created_at, last_login_at
		FROM operators WHERE id = $1`

	op := &domain.Operator{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&op.ID, &op.Username, &op.PasswordHash, &op.Status, &op.CreatedAt, &op.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operator by id: %w", err)
	}
	return op, nil
}

// TouchLogin records the operator's last successful login time.
func (r *OperatorRepo) TouchLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE operators SET last_login_at = $2 WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("touch operator login: %w", err)
	}
	return nil
}
